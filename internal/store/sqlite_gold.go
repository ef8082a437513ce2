package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/meridian-tax/caseflow/internal/model"
)

func (s *SQLiteStore) ApplyGoldDiff(ctx context.Context, caseID uuid.UUID, diff *model.GoldDiff) error {
	if diff == nil || diff.Desired == nil {
		return eris.New("sqlite: nil gold diff")
	}
	if diff.Empty() {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: apply gold diff begin")
	}
	defer tx.Rollback()

	cid := caseID.String()
	set := diff.Desired
	for i := range set.Employments {
		e := &set.Employments[i]
		id := goldInsertID(&e.ID)
		sourceJSON, err := json.Marshal(e.SourceFields)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal employment source fields")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO gold_employments (id, case_id, role, employer, occupation, pay_frequency, monthly_income, annual_income, source_fields)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (case_id, role) DO UPDATE SET
				employer = excluded.employer,
				occupation = excluded.occupation,
				pay_frequency = excluded.pay_frequency,
				monthly_income = excluded.monthly_income,
				annual_income = excluded.annual_income,
				source_fields = excluded.source_fields`,
			id.String(), cid, string(e.Role), e.Employer, e.Occupation,
			string(e.PayFrequency), e.MonthlyIncome, e.AnnualIncome, string(sourceJSON),
		); err != nil {
			return eris.Wrapf(err, "sqlite: upsert employment %s", e.Role)
		}
	}

	if h := set.Household; h != nil {
		id := goldInsertID(&h.ID)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO gold_households (id, case_id, filing_status, household_size, housing_status, street, city, state, county, zip_code)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (case_id) DO UPDATE SET
				filing_status = excluded.filing_status,
				household_size = excluded.household_size,
				housing_status = excluded.housing_status,
				street = excluded.street,
				city = excluded.city,
				state = excluded.state,
				county = excluded.county,
				zip_code = excluded.zip_code`,
			id.String(), cid, h.FilingStatus, h.HouseholdSize, h.HousingStatus,
			h.Street, h.City, h.State, h.County, h.ZipCode,
		); err != nil {
			return eris.Wrap(err, "sqlite: upsert household")
		}
	}

	for i := range set.IncomeSources {
		r := &set.IncomeSources[i]
		id := goldInsertID(&r.ID)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO gold_income_sources (id, case_id, category, amount, frequency, monthly_amount)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (case_id, category) DO UPDATE SET
				amount = excluded.amount,
				frequency = excluded.frequency,
				monthly_amount = excluded.monthly_amount`,
			id.String(), cid, r.Category, r.Amount, string(r.Frequency), r.MonthlyAmount,
		); err != nil {
			return eris.Wrapf(err, "sqlite: upsert income source %s", r.Category)
		}
	}

	for i := range set.MonthlyExpenses {
		r := &set.MonthlyExpenses[i]
		id := goldInsertID(&r.ID)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO gold_monthly_expenses (id, case_id, category, amount, frequency, monthly_amount)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (case_id, category) DO UPDATE SET
				amount = excluded.amount,
				frequency = excluded.frequency,
				monthly_amount = excluded.monthly_amount`,
			id.String(), cid, r.Category, r.Amount, string(r.Frequency), r.MonthlyAmount,
		); err != nil {
			return eris.Wrapf(err, "sqlite: upsert monthly expense %s", r.Category)
		}
	}

	for i := range set.FinancialAccounts {
		r := &set.FinancialAccounts[i]
		id := goldInsertID(&r.ID)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO gold_financial_accounts (id, case_id, account_type, institution, balance)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (case_id, account_type) DO UPDATE SET
				institution = excluded.institution,
				balance = excluded.balance`,
			id.String(), cid, r.AccountType, r.Institution, r.Balance,
		); err != nil {
			return eris.Wrapf(err, "sqlite: upsert financial account %s", r.AccountType)
		}
	}

	for i := range set.Vehicles {
		r := &set.Vehicles[i]
		id := goldInsertID(&r.ID)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO gold_vehicles (id, case_id, slot, description, current_value, loan_balance, equity, monthly_payment)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (case_id, slot) DO UPDATE SET
				description = excluded.description,
				current_value = excluded.current_value,
				loan_balance = excluded.loan_balance,
				equity = excluded.equity,
				monthly_payment = excluded.monthly_payment`,
			id.String(), cid, r.Slot, r.Description, r.CurrentValue,
			r.LoanBalance, r.Equity, r.MonthlyPayment,
		); err != nil {
			return eris.Wrapf(err, "sqlite: upsert vehicle %s", r.Slot)
		}
	}

	for i := range set.RealProperties {
		r := &set.RealProperties[i]
		id := goldInsertID(&r.ID)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO gold_real_properties (id, case_id, slot, description, current_value, loan_balance, equity, monthly_payment, monthly_rent, net_monthly_rental)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (case_id, slot) DO UPDATE SET
				description = excluded.description,
				current_value = excluded.current_value,
				loan_balance = excluded.loan_balance,
				equity = excluded.equity,
				monthly_payment = excluded.monthly_payment,
				monthly_rent = excluded.monthly_rent,
				net_monthly_rental = excluded.net_monthly_rental`,
			id.String(), cid, r.Slot, r.Description, r.CurrentValue,
			r.LoanBalance, r.Equity, r.MonthlyPayment, r.MonthlyRent, r.NetMonthlyRental,
		); err != nil {
			return eris.Wrapf(err, "sqlite: upsert real property %s", r.Slot)
		}
	}

	del := diff.Deletions
	if err := deleteByKeys(ctx, tx, "gold_employments", "role", cid, del.Employments); err != nil {
		return eris.Wrap(err, "sqlite: delete stale employments")
	}
	if del.Household {
		if _, err := tx.ExecContext(ctx, `DELETE FROM gold_households WHERE case_id = ?`, cid); err != nil {
			return eris.Wrap(err, "sqlite: delete stale household")
		}
	}
	if err := deleteByKeys(ctx, tx, "gold_income_sources", "category", cid, del.IncomeSources); err != nil {
		return eris.Wrap(err, "sqlite: delete stale income sources")
	}
	if err := deleteByKeys(ctx, tx, "gold_monthly_expenses", "category", cid, del.MonthlyExpenses); err != nil {
		return eris.Wrap(err, "sqlite: delete stale monthly expenses")
	}
	if err := deleteByKeys(ctx, tx, "gold_financial_accounts", "account_type", cid, del.FinancialAccounts); err != nil {
		return eris.Wrap(err, "sqlite: delete stale financial accounts")
	}
	if err := deleteByKeys(ctx, tx, "gold_vehicles", "slot", cid, del.Vehicles); err != nil {
		return eris.Wrap(err, "sqlite: delete stale vehicles")
	}
	if err := deleteByKeys(ctx, tx, "gold_real_properties", "slot", cid, del.RealProperties); err != nil {
		return eris.Wrap(err, "sqlite: delete stale real properties")
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "sqlite: apply gold diff commit")
	}
	return nil
}

func deleteByKeys(ctx context.Context, tx *sql.Tx, table, keyCol, caseID string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]any, 0, len(keys)+1)
	args = append(args, caseID)
	for _, k := range keys {
		args = append(args, k)
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE case_id = ? AND %s IN (%s)`,
		table, keyCol, sqlitePlaceholders(len(keys)))
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

func (s *SQLiteStore) GetGoldEntities(ctx context.Context, caseID uuid.UUID) (*model.EntitySet, error) {
	cid := caseID.String()
	set := &model.EntitySet{}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, role, employer, occupation, pay_frequency, monthly_income, annual_income, source_fields FROM gold_employments WHERE case_id = ? ORDER BY role`,
		cid,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list employments")
	}
	for rows.Next() {
		var e model.Employment
		var source sql.NullString
		if err := rows.Scan(&e.ID, &e.CaseID, &e.Role, &e.Employer, &e.Occupation,
			&e.PayFrequency, &e.MonthlyIncome, &e.AnnualIncome, &source); err != nil {
			rows.Close()
			return nil, eris.Wrap(err, "sqlite: scan employment")
		}
		if source.Valid && source.String != "" {
			if err := json.Unmarshal([]byte(source.String), &e.SourceFields); err != nil {
				rows.Close()
				return nil, eris.Wrap(err, "sqlite: unmarshal employment source fields")
			}
		}
		set.Employments = append(set.Employments, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, eris.Wrap(err, "sqlite: list employments iterate")
	}
	rows.Close()

	var h model.Household
	err = s.db.QueryRowContext(ctx,
		`SELECT id, case_id, filing_status, household_size, housing_status, street, city, state, county, zip_code FROM gold_households WHERE case_id = ?`,
		cid,
	).Scan(&h.ID, &h.CaseID, &h.FilingStatus, &h.HouseholdSize, &h.HousingStatus,
		&h.Street, &h.City, &h.State, &h.County, &h.ZipCode)
	switch {
	case err == nil:
		set.Household = &h
	case err == sql.ErrNoRows:
		// no interview processed yet
	default:
		return nil, eris.Wrap(err, "sqlite: get household")
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT id, case_id, category, amount, frequency, monthly_amount FROM gold_income_sources WHERE case_id = ? ORDER BY category`,
		cid,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list income sources")
	}
	for rows.Next() {
		var r model.IncomeSource
		if err := rows.Scan(&r.ID, &r.CaseID, &r.Category, &r.Amount, &r.Frequency, &r.MonthlyAmount); err != nil {
			rows.Close()
			return nil, eris.Wrap(err, "sqlite: scan income source")
		}
		set.IncomeSources = append(set.IncomeSources, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, eris.Wrap(err, "sqlite: list income sources iterate")
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT id, case_id, category, amount, frequency, monthly_amount FROM gold_monthly_expenses WHERE case_id = ? ORDER BY category`,
		cid,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list monthly expenses")
	}
	for rows.Next() {
		var r model.MonthlyExpense
		if err := rows.Scan(&r.ID, &r.CaseID, &r.Category, &r.Amount, &r.Frequency, &r.MonthlyAmount); err != nil {
			rows.Close()
			return nil, eris.Wrap(err, "sqlite: scan monthly expense")
		}
		set.MonthlyExpenses = append(set.MonthlyExpenses, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, eris.Wrap(err, "sqlite: list monthly expenses iterate")
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT id, case_id, account_type, institution, balance FROM gold_financial_accounts WHERE case_id = ? ORDER BY account_type`,
		cid,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list financial accounts")
	}
	for rows.Next() {
		var r model.FinancialAccount
		if err := rows.Scan(&r.ID, &r.CaseID, &r.AccountType, &r.Institution, &r.Balance); err != nil {
			rows.Close()
			return nil, eris.Wrap(err, "sqlite: scan financial account")
		}
		set.FinancialAccounts = append(set.FinancialAccounts, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, eris.Wrap(err, "sqlite: list financial accounts iterate")
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT id, case_id, slot, description, current_value, loan_balance, equity, monthly_payment FROM gold_vehicles WHERE case_id = ? ORDER BY slot`,
		cid,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list vehicles")
	}
	for rows.Next() {
		var r model.Vehicle
		if err := rows.Scan(&r.ID, &r.CaseID, &r.Slot, &r.Description, &r.CurrentValue,
			&r.LoanBalance, &r.Equity, &r.MonthlyPayment); err != nil {
			rows.Close()
			return nil, eris.Wrap(err, "sqlite: scan vehicle")
		}
		set.Vehicles = append(set.Vehicles, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, eris.Wrap(err, "sqlite: list vehicles iterate")
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT id, case_id, slot, description, current_value, loan_balance, equity, monthly_payment, monthly_rent, net_monthly_rental FROM gold_real_properties WHERE case_id = ? ORDER BY slot`,
		cid,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list real properties")
	}
	for rows.Next() {
		var r model.RealProperty
		if err := rows.Scan(&r.ID, &r.CaseID, &r.Slot, &r.Description, &r.CurrentValue,
			&r.LoanBalance, &r.Equity, &r.MonthlyPayment, &r.MonthlyRent, &r.NetMonthlyRental); err != nil {
			rows.Close()
			return nil, eris.Wrap(err, "sqlite: scan real property")
		}
		set.RealProperties = append(set.RealProperties, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, eris.Wrap(err, "sqlite: list real properties iterate")
	}
	rows.Close()

	return set, nil
}
