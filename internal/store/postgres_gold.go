package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/meridian-tax/caseflow/internal/model"
)

// ApplyGoldDiff applies a computed reconciliation in one transaction:
// desired rows are upserted on their natural keys and stale rows are
// deleted by key. Readers never observe a case with its gold rows
// partially replaced.
func (s *PostgresStore) ApplyGoldDiff(ctx context.Context, caseID uuid.UUID, diff *model.GoldDiff) error {
	if diff == nil || diff.Desired == nil {
		return eris.New("postgres: nil gold diff")
	}
	if diff.Empty() {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: apply gold diff begin")
	}
	defer tx.Rollback(ctx)

	set := diff.Desired
	for i := range set.Employments {
		e := &set.Employments[i]
		id := goldInsertID(&e.ID)
		sourceJSON, err := json.Marshal(e.SourceFields)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal employment source fields")
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO gold_employments (id, case_id, role, employer, occupation, pay_frequency, monthly_income, annual_income, source_fields)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 ON CONFLICT (case_id, role) DO UPDATE SET
				employer = EXCLUDED.employer,
				occupation = EXCLUDED.occupation,
				pay_frequency = EXCLUDED.pay_frequency,
				monthly_income = EXCLUDED.monthly_income,
				annual_income = EXCLUDED.annual_income,
				source_fields = EXCLUDED.source_fields`,
			id, caseID, string(e.Role), e.Employer, e.Occupation,
			string(e.PayFrequency), e.MonthlyIncome, e.AnnualIncome, sourceJSON,
		); err != nil {
			return eris.Wrapf(err, "postgres: upsert employment %s", e.Role)
		}
	}

	if h := set.Household; h != nil {
		id := goldInsertID(&h.ID)
		if _, err := tx.Exec(ctx,
			`INSERT INTO gold_households (id, case_id, filing_status, household_size, housing_status, street, city, state, county, zip_code)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 ON CONFLICT (case_id) DO UPDATE SET
				filing_status = EXCLUDED.filing_status,
				household_size = EXCLUDED.household_size,
				housing_status = EXCLUDED.housing_status,
				street = EXCLUDED.street,
				city = EXCLUDED.city,
				state = EXCLUDED.state,
				county = EXCLUDED.county,
				zip_code = EXCLUDED.zip_code`,
			id, caseID, h.FilingStatus, h.HouseholdSize, h.HousingStatus,
			h.Street, h.City, h.State, h.County, h.ZipCode,
		); err != nil {
			return eris.Wrap(err, "postgres: upsert household")
		}
	}

	for i := range set.IncomeSources {
		r := &set.IncomeSources[i]
		id := goldInsertID(&r.ID)
		if _, err := tx.Exec(ctx,
			`INSERT INTO gold_income_sources (id, case_id, category, amount, frequency, monthly_amount)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (case_id, category) DO UPDATE SET
				amount = EXCLUDED.amount,
				frequency = EXCLUDED.frequency,
				monthly_amount = EXCLUDED.monthly_amount`,
			id, caseID, r.Category, r.Amount, string(r.Frequency), r.MonthlyAmount,
		); err != nil {
			return eris.Wrapf(err, "postgres: upsert income source %s", r.Category)
		}
	}

	for i := range set.MonthlyExpenses {
		r := &set.MonthlyExpenses[i]
		id := goldInsertID(&r.ID)
		if _, err := tx.Exec(ctx,
			`INSERT INTO gold_monthly_expenses (id, case_id, category, amount, frequency, monthly_amount)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (case_id, category) DO UPDATE SET
				amount = EXCLUDED.amount,
				frequency = EXCLUDED.frequency,
				monthly_amount = EXCLUDED.monthly_amount`,
			id, caseID, r.Category, r.Amount, string(r.Frequency), r.MonthlyAmount,
		); err != nil {
			return eris.Wrapf(err, "postgres: upsert monthly expense %s", r.Category)
		}
	}

	for i := range set.FinancialAccounts {
		r := &set.FinancialAccounts[i]
		id := goldInsertID(&r.ID)
		if _, err := tx.Exec(ctx,
			`INSERT INTO gold_financial_accounts (id, case_id, account_type, institution, balance)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (case_id, account_type) DO UPDATE SET
				institution = EXCLUDED.institution,
				balance = EXCLUDED.balance`,
			id, caseID, r.AccountType, r.Institution, r.Balance,
		); err != nil {
			return eris.Wrapf(err, "postgres: upsert financial account %s", r.AccountType)
		}
	}

	for i := range set.Vehicles {
		r := &set.Vehicles[i]
		id := goldInsertID(&r.ID)
		if _, err := tx.Exec(ctx,
			`INSERT INTO gold_vehicles (id, case_id, slot, description, current_value, loan_balance, equity, monthly_payment)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (case_id, slot) DO UPDATE SET
				description = EXCLUDED.description,
				current_value = EXCLUDED.current_value,
				loan_balance = EXCLUDED.loan_balance,
				equity = EXCLUDED.equity,
				monthly_payment = EXCLUDED.monthly_payment`,
			id, caseID, r.Slot, r.Description, r.CurrentValue,
			r.LoanBalance, r.Equity, r.MonthlyPayment,
		); err != nil {
			return eris.Wrapf(err, "postgres: upsert vehicle %s", r.Slot)
		}
	}

	for i := range set.RealProperties {
		r := &set.RealProperties[i]
		id := goldInsertID(&r.ID)
		if _, err := tx.Exec(ctx,
			`INSERT INTO gold_real_properties (id, case_id, slot, description, current_value, loan_balance, equity, monthly_payment, monthly_rent, net_monthly_rental)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 ON CONFLICT (case_id, slot) DO UPDATE SET
				description = EXCLUDED.description,
				current_value = EXCLUDED.current_value,
				loan_balance = EXCLUDED.loan_balance,
				equity = EXCLUDED.equity,
				monthly_payment = EXCLUDED.monthly_payment,
				monthly_rent = EXCLUDED.monthly_rent,
				net_monthly_rental = EXCLUDED.net_monthly_rental`,
			id, caseID, r.Slot, r.Description, r.CurrentValue,
			r.LoanBalance, r.Equity, r.MonthlyPayment, r.MonthlyRent, r.NetMonthlyRental,
		); err != nil {
			return eris.Wrapf(err, "postgres: upsert real property %s", r.Slot)
		}
	}

	if err := s.applyGoldDeletions(ctx, tx, caseID, diff.Deletions); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "postgres: apply gold diff commit")
	}
	return nil
}

func (s *PostgresStore) applyGoldDeletions(ctx context.Context, tx pgx.Tx, caseID uuid.UUID, del model.GoldDeletions) error {
	if len(del.Employments) > 0 {
		if _, err := tx.Exec(ctx,
			`DELETE FROM gold_employments WHERE case_id = $1 AND role = ANY($2)`,
			caseID, del.Employments,
		); err != nil {
			return eris.Wrap(err, "postgres: delete stale employments")
		}
	}
	if del.Household {
		if _, err := tx.Exec(ctx,
			`DELETE FROM gold_households WHERE case_id = $1`, caseID,
		); err != nil {
			return eris.Wrap(err, "postgres: delete stale household")
		}
	}
	if len(del.IncomeSources) > 0 {
		if _, err := tx.Exec(ctx,
			`DELETE FROM gold_income_sources WHERE case_id = $1 AND category = ANY($2)`,
			caseID, del.IncomeSources,
		); err != nil {
			return eris.Wrap(err, "postgres: delete stale income sources")
		}
	}
	if len(del.MonthlyExpenses) > 0 {
		if _, err := tx.Exec(ctx,
			`DELETE FROM gold_monthly_expenses WHERE case_id = $1 AND category = ANY($2)`,
			caseID, del.MonthlyExpenses,
		); err != nil {
			return eris.Wrap(err, "postgres: delete stale monthly expenses")
		}
	}
	if len(del.FinancialAccounts) > 0 {
		if _, err := tx.Exec(ctx,
			`DELETE FROM gold_financial_accounts WHERE case_id = $1 AND account_type = ANY($2)`,
			caseID, del.FinancialAccounts,
		); err != nil {
			return eris.Wrap(err, "postgres: delete stale financial accounts")
		}
	}
	if len(del.Vehicles) > 0 {
		if _, err := tx.Exec(ctx,
			`DELETE FROM gold_vehicles WHERE case_id = $1 AND slot = ANY($2)`,
			caseID, del.Vehicles,
		); err != nil {
			return eris.Wrap(err, "postgres: delete stale vehicles")
		}
	}
	if len(del.RealProperties) > 0 {
		if _, err := tx.Exec(ctx,
			`DELETE FROM gold_real_properties WHERE case_id = $1 AND slot = ANY($2)`,
			caseID, del.RealProperties,
		); err != nil {
			return eris.Wrap(err, "postgres: delete stale real properties")
		}
	}
	return nil
}

func (s *PostgresStore) GetGoldEntities(ctx context.Context, caseID uuid.UUID) (*model.EntitySet, error) {
	set := &model.EntitySet{}

	rows, err := s.pool.Query(ctx,
		`SELECT id, case_id, role, employer, occupation, pay_frequency, monthly_income, annual_income, source_fields FROM gold_employments WHERE case_id = $1 ORDER BY role`,
		caseID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list employments")
	}
	for rows.Next() {
		var e model.Employment
		var sourceNull *[]byte
		if err := rows.Scan(&e.ID, &e.CaseID, &e.Role, &e.Employer, &e.Occupation,
			&e.PayFrequency, &e.MonthlyIncome, &e.AnnualIncome, &sourceNull); err != nil {
			rows.Close()
			return nil, eris.Wrap(err, "postgres: scan employment")
		}
		if sourceNull != nil && len(*sourceNull) > 0 {
			if err := json.Unmarshal(*sourceNull, &e.SourceFields); err != nil {
				rows.Close()
				return nil, eris.Wrap(err, "postgres: unmarshal employment source fields")
			}
		}
		set.Employments = append(set.Employments, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, eris.Wrap(err, "postgres: list employments iterate")
	}
	rows.Close()

	var h model.Household
	err = s.pool.QueryRow(ctx,
		`SELECT id, case_id, filing_status, household_size, housing_status, street, city, state, county, zip_code FROM gold_households WHERE case_id = $1`,
		caseID,
	).Scan(&h.ID, &h.CaseID, &h.FilingStatus, &h.HouseholdSize, &h.HousingStatus,
		&h.Street, &h.City, &h.State, &h.County, &h.ZipCode)
	switch {
	case err == nil:
		set.Household = &h
	case errors.Is(err, pgx.ErrNoRows):
		// no interview processed yet
	default:
		return nil, eris.Wrap(err, "postgres: get household")
	}

	rows, err = s.pool.Query(ctx,
		`SELECT id, case_id, category, amount, frequency, monthly_amount FROM gold_income_sources WHERE case_id = $1 ORDER BY category`,
		caseID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list income sources")
	}
	for rows.Next() {
		var r model.IncomeSource
		if err := rows.Scan(&r.ID, &r.CaseID, &r.Category, &r.Amount, &r.Frequency, &r.MonthlyAmount); err != nil {
			rows.Close()
			return nil, eris.Wrap(err, "postgres: scan income source")
		}
		set.IncomeSources = append(set.IncomeSources, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, eris.Wrap(err, "postgres: list income sources iterate")
	}
	rows.Close()

	rows, err = s.pool.Query(ctx,
		`SELECT id, case_id, category, amount, frequency, monthly_amount FROM gold_monthly_expenses WHERE case_id = $1 ORDER BY category`,
		caseID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list monthly expenses")
	}
	for rows.Next() {
		var r model.MonthlyExpense
		if err := rows.Scan(&r.ID, &r.CaseID, &r.Category, &r.Amount, &r.Frequency, &r.MonthlyAmount); err != nil {
			rows.Close()
			return nil, eris.Wrap(err, "postgres: scan monthly expense")
		}
		set.MonthlyExpenses = append(set.MonthlyExpenses, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, eris.Wrap(err, "postgres: list monthly expenses iterate")
	}
	rows.Close()

	rows, err = s.pool.Query(ctx,
		`SELECT id, case_id, account_type, institution, balance FROM gold_financial_accounts WHERE case_id = $1 ORDER BY account_type`,
		caseID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list financial accounts")
	}
	for rows.Next() {
		var r model.FinancialAccount
		if err := rows.Scan(&r.ID, &r.CaseID, &r.AccountType, &r.Institution, &r.Balance); err != nil {
			rows.Close()
			return nil, eris.Wrap(err, "postgres: scan financial account")
		}
		set.FinancialAccounts = append(set.FinancialAccounts, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, eris.Wrap(err, "postgres: list financial accounts iterate")
	}
	rows.Close()

	rows, err = s.pool.Query(ctx,
		`SELECT id, case_id, slot, description, current_value, loan_balance, equity, monthly_payment FROM gold_vehicles WHERE case_id = $1 ORDER BY slot`,
		caseID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list vehicles")
	}
	for rows.Next() {
		var r model.Vehicle
		if err := rows.Scan(&r.ID, &r.CaseID, &r.Slot, &r.Description, &r.CurrentValue,
			&r.LoanBalance, &r.Equity, &r.MonthlyPayment); err != nil {
			rows.Close()
			return nil, eris.Wrap(err, "postgres: scan vehicle")
		}
		set.Vehicles = append(set.Vehicles, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, eris.Wrap(err, "postgres: list vehicles iterate")
	}
	rows.Close()

	rows, err = s.pool.Query(ctx,
		`SELECT id, case_id, slot, description, current_value, loan_balance, equity, monthly_payment, monthly_rent, net_monthly_rental FROM gold_real_properties WHERE case_id = $1 ORDER BY slot`,
		caseID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list real properties")
	}
	for rows.Next() {
		var r model.RealProperty
		if err := rows.Scan(&r.ID, &r.CaseID, &r.Slot, &r.Description, &r.CurrentValue,
			&r.LoanBalance, &r.Equity, &r.MonthlyPayment, &r.MonthlyRent, &r.NetMonthlyRental); err != nil {
			rows.Close()
			return nil, eris.Wrap(err, "postgres: scan real property")
		}
		set.RealProperties = append(set.RealProperties, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, eris.Wrap(err, "postgres: list real properties iterate")
	}
	rows.Close()

	return set, nil
}
