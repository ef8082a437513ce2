package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/meridian-tax/caseflow/internal/model"
)

// UpsertAccountActivity mirrors the Postgres bulk path with row-by-row
// upserts inside one transaction. Batches here are small enough (one
// transcript's transactions) that COPY semantics buy nothing.
func (s *SQLiteStore) UpsertAccountActivity(ctx context.Context, rows []model.AccountActivity) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: upsert account activity begin")
	}
	defer tx.Rollback()

	var n int64
	for i := range rows {
		r := &rows[i]
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = time.Now().UTC()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO silver_account_activity (id, case_id, raw_record_id, tax_year, code, description, tx_date, amount, category, affects_balance, is_payment, is_penalty_or_interest, starts_statute, tolling_category, tolling_days, dedup_key, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (case_id, tax_year, dedup_key) DO UPDATE SET
				raw_record_id = excluded.raw_record_id,
				code = excluded.code,
				description = excluded.description,
				tx_date = excluded.tx_date,
				amount = excluded.amount,
				category = excluded.category,
				affects_balance = excluded.affects_balance,
				is_payment = excluded.is_payment,
				is_penalty_or_interest = excluded.is_penalty_or_interest,
				starts_statute = excluded.starts_statute,
				tolling_category = excluded.tolling_category,
				tolling_days = excluded.tolling_days`,
			r.ID.String(), r.CaseID.String(), r.RawRecordID.String(), r.TaxYear, r.Code, r.Description,
			r.Date, r.Amount, r.Category, r.AffectsBalance, r.IsPayment,
			r.IsPenaltyOrInterest, r.StartsStatute, r.TollingCategory,
			r.TollingDays, r.DedupKey, r.CreatedAt,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert account activity row %s", r.DedupKey)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: upsert account activity commit")
	}
	return n, nil
}

func (s *SQLiteStore) ListAccountActivity(ctx context.Context, caseID uuid.UUID) ([]model.AccountActivity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, raw_record_id, tax_year, code, description, tx_date, amount, category, affects_balance, is_payment, is_penalty_or_interest, starts_statute, tolling_category, tolling_days, dedup_key, created_at FROM silver_account_activity WHERE case_id = ? ORDER BY tax_year, tx_date, code`,
		caseID.String(),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list account activity")
	}
	defer rows.Close()

	var out []model.AccountActivity
	for rows.Next() {
		var r model.AccountActivity
		var desc, tolling sql.NullString
		if err := rows.Scan(&r.ID, &r.CaseID, &r.RawRecordID, &r.TaxYear, &r.Code, &desc,
			&r.Date, &r.Amount, &r.Category, &r.AffectsBalance, &r.IsPayment,
			&r.IsPenaltyOrInterest, &r.StartsStatute, &tolling,
			&r.TollingDays, &r.DedupKey, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan account activity")
		}
		if desc.Valid {
			r.Description = desc.String
		}
		if tolling.Valid {
			r.TollingCategory = tolling.String
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list account activity iterate")
}

func (s *SQLiteStore) UpsertWageDocuments(ctx context.Context, rows []model.WageDocument) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: upsert wage documents begin")
	}
	defer tx.Rollback()

	var n int64
	for i := range rows {
		r := &rows[i]
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = time.Now().UTC()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO silver_wage_documents (id, case_id, raw_record_id, tax_year, form_code, payer, income, withholding, category, self_employment, dedup_key, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (case_id, tax_year, dedup_key) DO UPDATE SET
				raw_record_id = excluded.raw_record_id,
				form_code = excluded.form_code,
				payer = excluded.payer,
				income = excluded.income,
				withholding = excluded.withholding,
				category = excluded.category,
				self_employment = excluded.self_employment`,
			r.ID.String(), r.CaseID.String(), r.RawRecordID.String(), r.TaxYear, r.FormCode, r.Payer,
			r.Income, r.Withholding, r.Category, r.SelfEmployment, r.DedupKey, r.CreatedAt,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert wage document row %s", r.DedupKey)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: upsert wage documents commit")
	}
	return n, nil
}

func (s *SQLiteStore) ListWageDocuments(ctx context.Context, caseID uuid.UUID) ([]model.WageDocument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, raw_record_id, tax_year, form_code, payer, income, withholding, category, self_employment, dedup_key, created_at FROM silver_wage_documents WHERE case_id = ? ORDER BY tax_year, form_code, payer`,
		caseID.String(),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list wage documents")
	}
	defer rows.Close()

	var out []model.WageDocument
	for rows.Next() {
		var r model.WageDocument
		var payer sql.NullString
		if err := rows.Scan(&r.ID, &r.CaseID, &r.RawRecordID, &r.TaxYear, &r.FormCode, &payer,
			&r.Income, &r.Withholding, &r.Category, &r.SelfEmployment, &r.DedupKey, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan wage document")
		}
		if payer.Valid {
			r.Payer = payer.String
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list wage documents iterate")
}

func (s *SQLiteStore) UpsertReturnSummary(ctx context.Context, row *model.ReturnSummary) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO silver_return_summaries (id, case_id, raw_record_id, tax_year, filing_status, agi, taxable_income, total_tax, filed_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (case_id, tax_year) DO UPDATE SET
			raw_record_id = excluded.raw_record_id,
			filing_status = excluded.filing_status,
			agi = excluded.agi,
			taxable_income = excluded.taxable_income,
			total_tax = excluded.total_tax,
			filed_date = excluded.filed_date`,
		row.ID.String(), row.CaseID.String(), row.RawRecordID.String(), row.TaxYear, row.FilingStatus,
		row.AGI, row.TaxableIncome, row.TotalTax, row.FiledDate, row.CreatedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: upsert return summary year %d", row.TaxYear)
	}
	return nil
}

func (s *SQLiteStore) ListReturnSummaries(ctx context.Context, caseID uuid.UUID) ([]model.ReturnSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, raw_record_id, tax_year, filing_status, agi, taxable_income, total_tax, filed_date, created_at FROM silver_return_summaries WHERE case_id = ? ORDER BY tax_year`,
		caseID.String(),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list return summaries")
	}
	defer rows.Close()

	var out []model.ReturnSummary
	for rows.Next() {
		var r model.ReturnSummary
		if err := rows.Scan(&r.ID, &r.CaseID, &r.RawRecordID, &r.TaxYear, &r.FilingStatus,
			&r.AGI, &r.TaxableIncome, &r.TotalTax, &r.FiledDate, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan return summary")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list return summaries iterate")
}

func (s *SQLiteStore) UpsertInterview(ctx context.Context, rec *model.InterviewRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	resolvedJSON, err := json.Marshal(rec.ResolvedPaths)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal resolved paths")
	}

	var sections any
	if len(rec.Sections) > 0 {
		sections = string(rec.Sections)
	}

	cols := make([]string, 0, len(interviewLeafColumns)+7)
	cols = append(cols, "id", "case_id", "raw_record_id")
	cols = append(cols, interviewLeafColumns...)
	cols = append(cols, "sections", "resolved_paths", "created_at", "updated_at")

	args := make([]any, 0, len(cols))
	args = append(args, rec.ID.String(), rec.CaseID.String(), rec.RawRecordID.String())
	args = append(args, interviewLeafValues(rec)...)
	args = append(args, sections, string(resolvedJSON), rec.CreatedAt, rec.UpdatedAt)

	updateCols := make([]string, 0, len(interviewLeafColumns)+4)
	updateCols = append(updateCols, "raw_record_id")
	updateCols = append(updateCols, interviewLeafColumns...)
	updateCols = append(updateCols, "sections", "resolved_paths", "updated_at")

	query := fmt.Sprintf(
		`INSERT INTO silver_interviews (%s) VALUES (%s) ON CONFLICT (case_id) DO UPDATE SET %s`,
		strings.Join(cols, ", "),
		sqlitePlaceholders(len(cols)),
		excludedSetClause(updateCols),
	)

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return eris.Wrapf(err, "sqlite: upsert interview for case %s", rec.CaseID)
	}
	return nil
}

func (s *SQLiteStore) GetInterview(ctx context.Context, caseID uuid.UUID) (*model.InterviewRecord, error) {
	cols := make([]string, 0, len(interviewLeafColumns)+7)
	cols = append(cols, "id", "case_id", "raw_record_id")
	cols = append(cols, interviewLeafColumns...)
	cols = append(cols, "sections", "resolved_paths", "created_at", "updated_at")

	var rec model.InterviewRecord
	var sections, resolved sql.NullString

	dests := make([]any, 0, len(cols))
	dests = append(dests, &rec.ID, &rec.CaseID, &rec.RawRecordID)
	dests = append(dests, interviewLeafDests(&rec)...)
	dests = append(dests, &sections, &resolved, &rec.CreatedAt, &rec.UpdatedAt)

	query := fmt.Sprintf(`SELECT %s FROM silver_interviews WHERE case_id = ?`, strings.Join(cols, ", "))
	err := s.db.QueryRowContext(ctx, query, caseID.String()).Scan(dests...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get interview for case %s", caseID)
	}

	if sections.Valid {
		rec.Sections = []byte(sections.String)
	}
	if resolved.Valid && resolved.String != "" {
		if err := json.Unmarshal([]byte(resolved.String), &rec.ResolvedPaths); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal resolved paths")
		}
	}
	return &rec, nil
}
