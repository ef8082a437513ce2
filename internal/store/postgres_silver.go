package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/meridian-tax/caseflow/internal/db"
	"github.com/meridian-tax/caseflow/internal/model"
)

// Matched rows keep their id and created_at so replay does not churn row
// identity.
var accountActivityTable = db.Table{
	Name: "silver_account_activity",
	Columns: []string{
		"id", "case_id", "raw_record_id", "tax_year", "code", "description",
		"tx_date", "amount", "category", "affects_balance", "is_payment",
		"is_penalty_or_interest", "starts_statute", "tolling_category",
		"tolling_days", "dedup_key", "created_at",
	},
	Key:       []string{"case_id", "tax_year", "dedup_key"},
	Immutable: []string{"id", "created_at"},
}

func (s *PostgresStore) UpsertAccountActivity(ctx context.Context, rows []model.AccountActivity) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	values := make([][]any, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = time.Now().UTC()
		}
		values = append(values, []any{
			r.ID, r.CaseID, r.RawRecordID, r.TaxYear, r.Code, r.Description,
			r.Date, r.Amount, r.Category, r.AffectsBalance, r.IsPayment,
			r.IsPenaltyOrInterest, r.StartsStatute, r.TollingCategory,
			r.TollingDays, r.DedupKey, r.CreatedAt,
		})
	}

	n, err := accountActivityTable.CopyReplace(ctx, s.pool, values)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: upsert account activity")
	}
	return n, nil
}

func (s *PostgresStore) ListAccountActivity(ctx context.Context, caseID uuid.UUID) ([]model.AccountActivity, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, case_id, raw_record_id, tax_year, code, description, tx_date, amount, category, affects_balance, is_payment, is_penalty_or_interest, starts_statute, tolling_category, tolling_days, dedup_key, created_at FROM silver_account_activity WHERE case_id = $1 ORDER BY tax_year, tx_date NULLS LAST, code`,
		caseID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list account activity")
	}
	defer rows.Close()

	var out []model.AccountActivity
	for rows.Next() {
		var r model.AccountActivity
		var descNull, tollingNull *string
		if err := rows.Scan(&r.ID, &r.CaseID, &r.RawRecordID, &r.TaxYear, &r.Code, &descNull,
			&r.Date, &r.Amount, &r.Category, &r.AffectsBalance, &r.IsPayment,
			&r.IsPenaltyOrInterest, &r.StartsStatute, &tollingNull,
			&r.TollingDays, &r.DedupKey, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan account activity")
		}
		if descNull != nil {
			r.Description = *descNull
		}
		if tollingNull != nil {
			r.TollingCategory = *tollingNull
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list account activity iterate")
}

var wageDocumentTable = db.Table{
	Name: "silver_wage_documents",
	Columns: []string{
		"id", "case_id", "raw_record_id", "tax_year", "form_code", "payer",
		"income", "withholding", "category", "self_employment", "dedup_key",
		"created_at",
	},
	Key:       []string{"case_id", "tax_year", "dedup_key"},
	Immutable: []string{"id", "created_at"},
}

func (s *PostgresStore) UpsertWageDocuments(ctx context.Context, rows []model.WageDocument) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	values := make([][]any, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = time.Now().UTC()
		}
		values = append(values, []any{
			r.ID, r.CaseID, r.RawRecordID, r.TaxYear, r.FormCode, r.Payer,
			r.Income, r.Withholding, r.Category, r.SelfEmployment, r.DedupKey,
			r.CreatedAt,
		})
	}

	n, err := wageDocumentTable.CopyReplace(ctx, s.pool, values)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: upsert wage documents")
	}
	return n, nil
}

func (s *PostgresStore) ListWageDocuments(ctx context.Context, caseID uuid.UUID) ([]model.WageDocument, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, case_id, raw_record_id, tax_year, form_code, payer, income, withholding, category, self_employment, dedup_key, created_at FROM silver_wage_documents WHERE case_id = $1 ORDER BY tax_year, form_code, payer`,
		caseID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list wage documents")
	}
	defer rows.Close()

	var out []model.WageDocument
	for rows.Next() {
		var r model.WageDocument
		var payerNull *string
		if err := rows.Scan(&r.ID, &r.CaseID, &r.RawRecordID, &r.TaxYear, &r.FormCode, &payerNull,
			&r.Income, &r.Withholding, &r.Category, &r.SelfEmployment, &r.DedupKey, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan wage document")
		}
		if payerNull != nil {
			r.Payer = *payerNull
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list wage documents iterate")
}

func (s *PostgresStore) UpsertReturnSummary(ctx context.Context, row *model.ReturnSummary) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO silver_return_summaries (id, case_id, raw_record_id, tax_year, filing_status, agi, taxable_income, total_tax, filed_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (case_id, tax_year) DO UPDATE SET
			raw_record_id = EXCLUDED.raw_record_id,
			filing_status = EXCLUDED.filing_status,
			agi = EXCLUDED.agi,
			taxable_income = EXCLUDED.taxable_income,
			total_tax = EXCLUDED.total_tax,
			filed_date = EXCLUDED.filed_date`,
		row.ID, row.CaseID, row.RawRecordID, row.TaxYear, row.FilingStatus,
		row.AGI, row.TaxableIncome, row.TotalTax, row.FiledDate, row.CreatedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: upsert return summary year %d", row.TaxYear)
	}
	return nil
}

func (s *PostgresStore) ListReturnSummaries(ctx context.Context, caseID uuid.UUID) ([]model.ReturnSummary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, case_id, raw_record_id, tax_year, filing_status, agi, taxable_income, total_tax, filed_date, created_at FROM silver_return_summaries WHERE case_id = $1 ORDER BY tax_year`,
		caseID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list return summaries")
	}
	defer rows.Close()

	var out []model.ReturnSummary
	for rows.Next() {
		var r model.ReturnSummary
		if err := rows.Scan(&r.ID, &r.CaseID, &r.RawRecordID, &r.TaxYear, &r.FilingStatus,
			&r.AGI, &r.TaxableIncome, &r.TotalTax, &r.FiledDate, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan return summary")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list return summaries iterate")
}

// UpsertInterview replaces the single interview row for a case. The
// statement is generated from interviewLeafColumns so the insert, the
// conflict update, and the select stay aligned.
func (s *PostgresStore) UpsertInterview(ctx context.Context, rec *model.InterviewRecord) error {
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
		return eris.Wrap(err, "postgres: marshal resolved paths")
	}

	cols := make([]string, 0, len(interviewLeafColumns)+7)
	cols = append(cols, "id", "case_id", "raw_record_id")
	cols = append(cols, interviewLeafColumns...)
	cols = append(cols, "sections", "resolved_paths", "created_at", "updated_at")

	args := make([]any, 0, len(cols))
	args = append(args, rec.ID, rec.CaseID, rec.RawRecordID)
	args = append(args, interviewLeafValues(rec)...)
	args = append(args, rec.Sections, resolvedJSON, rec.CreatedAt, rec.UpdatedAt)

	updateCols := make([]string, 0, len(interviewLeafColumns)+4)
	updateCols = append(updateCols, "raw_record_id")
	updateCols = append(updateCols, interviewLeafColumns...)
	updateCols = append(updateCols, "sections", "resolved_paths", "updated_at")

	query := fmt.Sprintf(
		`INSERT INTO silver_interviews (%s) VALUES (%s) ON CONFLICT (case_id) DO UPDATE SET %s`,
		strings.Join(cols, ", "),
		pgPlaceholders(1, len(cols)),
		excludedSetClause(updateCols),
	)

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return eris.Wrapf(err, "postgres: upsert interview for case %s", rec.CaseID)
	}
	return nil
}

func (s *PostgresStore) GetInterview(ctx context.Context, caseID uuid.UUID) (*model.InterviewRecord, error) {
	cols := make([]string, 0, len(interviewLeafColumns)+7)
	cols = append(cols, "id", "case_id", "raw_record_id")
	cols = append(cols, interviewLeafColumns...)
	cols = append(cols, "sections", "resolved_paths", "created_at", "updated_at")

	var rec model.InterviewRecord
	var sectionsNull, resolvedNull *[]byte

	dests := make([]any, 0, len(cols))
	dests = append(dests, &rec.ID, &rec.CaseID, &rec.RawRecordID)
	dests = append(dests, interviewLeafDests(&rec)...)
	dests = append(dests, &sectionsNull, &resolvedNull, &rec.CreatedAt, &rec.UpdatedAt)

	query := fmt.Sprintf(`SELECT %s FROM silver_interviews WHERE case_id = $1`, strings.Join(cols, ", "))
	if err := s.pool.QueryRow(ctx, query, caseID).Scan(dests...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get interview for case %s", caseID)
	}

	if sectionsNull != nil {
		rec.Sections = *sectionsNull
	}
	if resolvedNull != nil && len(*resolvedNull) > 0 {
		if err := json.Unmarshal(*resolvedNull, &rec.ResolvedPaths); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal resolved paths")
		}
	}
	return &rec, nil
}
