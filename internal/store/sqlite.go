package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/meridian-tax/caseflow/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Used for
// single-operator installs and as the backing store in behavioral tests.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS cases (
	id         TEXT PRIMARY KEY,
	case_ref   TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS raw_account_transcripts (
	id           TEXT PRIMARY KEY,
	case_ref     TEXT NOT NULL,
	payload      TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'pending',
	error_detail TEXT,
	inserted_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	processed_at DATETIME
);

CREATE TABLE IF NOT EXISTS raw_wage_income (
	id           TEXT PRIMARY KEY,
	case_ref     TEXT NOT NULL,
	payload      TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'pending',
	error_detail TEXT,
	inserted_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	processed_at DATETIME
);

CREATE TABLE IF NOT EXISTS raw_return_transcripts (
	id           TEXT PRIMARY KEY,
	case_ref     TEXT NOT NULL,
	payload      TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'pending',
	error_detail TEXT,
	inserted_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	processed_at DATETIME
);

CREATE TABLE IF NOT EXISTS raw_interviews (
	id           TEXT PRIMARY KEY,
	case_ref     TEXT NOT NULL,
	payload      TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'pending',
	error_detail TEXT,
	inserted_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	processed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_raw_account_transcripts_status ON raw_account_transcripts(status);
CREATE INDEX IF NOT EXISTS idx_raw_account_transcripts_case_ref ON raw_account_transcripts(case_ref);
CREATE INDEX IF NOT EXISTS idx_raw_wage_income_status ON raw_wage_income(status);
CREATE INDEX IF NOT EXISTS idx_raw_wage_income_case_ref ON raw_wage_income(case_ref);
CREATE INDEX IF NOT EXISTS idx_raw_return_transcripts_status ON raw_return_transcripts(status);
CREATE INDEX IF NOT EXISTS idx_raw_return_transcripts_case_ref ON raw_return_transcripts(case_ref);
CREATE INDEX IF NOT EXISTS idx_raw_interviews_status ON raw_interviews(status);
CREATE INDEX IF NOT EXISTS idx_raw_interviews_case_ref ON raw_interviews(case_ref);

CREATE TABLE IF NOT EXISTS silver_account_activity (
	id                     TEXT PRIMARY KEY,
	case_id                TEXT NOT NULL REFERENCES cases(id),
	raw_record_id          TEXT NOT NULL,
	tax_year               INTEGER NOT NULL,
	code                   TEXT NOT NULL,
	description            TEXT,
	tx_date                DATE,
	amount                 REAL,
	category               TEXT NOT NULL,
	affects_balance        INTEGER NOT NULL DEFAULT 0,
	is_payment             INTEGER NOT NULL DEFAULT 0,
	is_penalty_or_interest INTEGER NOT NULL DEFAULT 0,
	starts_statute         INTEGER NOT NULL DEFAULT 0,
	tolling_category       TEXT,
	tolling_days           INTEGER NOT NULL DEFAULT 0,
	dedup_key              TEXT NOT NULL,
	created_at             DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (case_id, tax_year, dedup_key)
);

CREATE INDEX IF NOT EXISTS idx_silver_account_activity_case ON silver_account_activity(case_id, tax_year);

CREATE TABLE IF NOT EXISTS silver_wage_documents (
	id              TEXT PRIMARY KEY,
	case_id         TEXT NOT NULL REFERENCES cases(id),
	raw_record_id   TEXT NOT NULL,
	tax_year        INTEGER NOT NULL,
	form_code       TEXT NOT NULL,
	payer           TEXT,
	income          REAL,
	withholding     REAL,
	category        TEXT NOT NULL,
	self_employment INTEGER NOT NULL DEFAULT 0,
	dedup_key       TEXT NOT NULL,
	created_at      DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (case_id, tax_year, dedup_key)
);

CREATE INDEX IF NOT EXISTS idx_silver_wage_documents_case ON silver_wage_documents(case_id, tax_year);

CREATE TABLE IF NOT EXISTS silver_return_summaries (
	id             TEXT PRIMARY KEY,
	case_id        TEXT NOT NULL REFERENCES cases(id),
	raw_record_id  TEXT NOT NULL,
	tax_year       INTEGER NOT NULL,
	filing_status  TEXT,
	agi            REAL,
	taxable_income REAL,
	total_tax      REAL,
	filed_date     DATE,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (case_id, tax_year)
);

CREATE TABLE IF NOT EXISTS silver_interviews (
	id            TEXT PRIMARY KEY,
	case_id       TEXT NOT NULL UNIQUE REFERENCES cases(id),
	raw_record_id TEXT NOT NULL,

	filing_status  TEXT,
	household_size INTEGER,
	housing_status TEXT,
	street         TEXT,
	city           TEXT,
	state          TEXT,
	county         TEXT,
	zip_code       TEXT,

	taxpayer_employer      TEXT,
	taxpayer_occupation    TEXT,
	taxpayer_pay_frequency TEXT,
	taxpayer_monthly_gross REAL,
	taxpayer_annual_gross  REAL,
	spouse_employer        TEXT,
	spouse_occupation      TEXT,
	spouse_pay_frequency   TEXT,
	spouse_monthly_gross   REAL,
	spouse_annual_gross    REAL,

	self_employment_income    REAL,
	self_employment_frequency TEXT,
	rental_income             REAL,
	rental_frequency          TEXT,
	pension_income            REAL,
	pension_frequency         TEXT,
	social_security_income    REAL,
	social_security_frequency TEXT,
	child_support_income      REAL,
	child_support_frequency   TEXT,
	alimony_income            REAL,
	alimony_frequency         TEXT,
	other_income              REAL,
	other_income_frequency    TEXT,

	food_clothing_expense       REAL,
	food_clothing_frequency     TEXT,
	housing_utilities_expense   REAL,
	housing_utilities_frequency TEXT,
	vehicle_ownership_expense   REAL,
	vehicle_ownership_frequency TEXT,
	vehicle_operating_expense   REAL,
	vehicle_operating_frequency TEXT,
	health_insurance_expense    REAL,
	health_insurance_frequency  TEXT,
	healthcare_expense          REAL,
	healthcare_frequency        TEXT,
	life_insurance_expense      REAL,
	life_insurance_frequency    TEXT,
	court_payments_expense      REAL,
	court_payments_frequency    TEXT,
	child_care_expense          REAL,
	child_care_frequency        TEXT,
	other_expense               REAL,
	other_expense_frequency     TEXT,

	cash_on_hand           REAL,
	checking_balance       REAL,
	checking_institution   TEXT,
	savings_balance        REAL,
	savings_institution    TEXT,
	investment_balance     REAL,
	investment_institution TEXT,
	retirement_balance     REAL,
	retirement_institution TEXT,

	vehicle1_description     TEXT,
	vehicle1_value           REAL,
	vehicle1_loan_balance    REAL,
	vehicle1_monthly_payment REAL,
	vehicle2_description     TEXT,
	vehicle2_value           REAL,
	vehicle2_loan_balance    REAL,
	vehicle2_monthly_payment REAL,

	property1_description     TEXT,
	property1_value           REAL,
	property1_loan_balance    REAL,
	property1_monthly_payment REAL,
	property1_monthly_rent    REAL,
	property2_description     TEXT,
	property2_value           REAL,
	property2_loan_balance    REAL,
	property2_monthly_payment REAL,
	property2_monthly_rent    REAL,

	sections       TEXT,
	resolved_paths TEXT,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS gold_employments (
	id             TEXT PRIMARY KEY,
	case_id        TEXT NOT NULL REFERENCES cases(id),
	role           TEXT NOT NULL,
	employer       TEXT,
	occupation     TEXT,
	pay_frequency  TEXT NOT NULL,
	monthly_income REAL,
	annual_income  REAL,
	source_fields  TEXT,
	UNIQUE (case_id, role)
);

CREATE TABLE IF NOT EXISTS gold_households (
	id             TEXT PRIMARY KEY,
	case_id        TEXT NOT NULL UNIQUE REFERENCES cases(id),
	filing_status  TEXT,
	household_size INTEGER NOT NULL DEFAULT 0,
	housing_status TEXT,
	street         TEXT,
	city           TEXT,
	state          TEXT,
	county         TEXT,
	zip_code       TEXT
);

CREATE TABLE IF NOT EXISTS gold_income_sources (
	id             TEXT PRIMARY KEY,
	case_id        TEXT NOT NULL REFERENCES cases(id),
	category       TEXT NOT NULL,
	amount         REAL NOT NULL DEFAULT 0,
	frequency      TEXT NOT NULL,
	monthly_amount REAL NOT NULL DEFAULT 0,
	UNIQUE (case_id, category)
);

CREATE TABLE IF NOT EXISTS gold_monthly_expenses (
	id             TEXT PRIMARY KEY,
	case_id        TEXT NOT NULL REFERENCES cases(id),
	category       TEXT NOT NULL,
	amount         REAL NOT NULL DEFAULT 0,
	frequency      TEXT NOT NULL,
	monthly_amount REAL NOT NULL DEFAULT 0,
	UNIQUE (case_id, category)
);

CREATE TABLE IF NOT EXISTS gold_financial_accounts (
	id           TEXT PRIMARY KEY,
	case_id      TEXT NOT NULL REFERENCES cases(id),
	account_type TEXT NOT NULL,
	institution  TEXT,
	balance      REAL NOT NULL DEFAULT 0,
	UNIQUE (case_id, account_type)
);

CREATE TABLE IF NOT EXISTS gold_vehicles (
	id              TEXT PRIMARY KEY,
	case_id         TEXT NOT NULL REFERENCES cases(id),
	slot            TEXT NOT NULL,
	description     TEXT,
	current_value   REAL,
	loan_balance    REAL,
	equity          REAL,
	monthly_payment REAL,
	UNIQUE (case_id, slot)
);

CREATE TABLE IF NOT EXISTS gold_real_properties (
	id                 TEXT PRIMARY KEY,
	case_id            TEXT NOT NULL REFERENCES cases(id),
	slot               TEXT NOT NULL,
	description        TEXT,
	current_value      REAL,
	loan_balance       REAL,
	equity             REAL,
	monthly_payment    REAL,
	monthly_rent       REAL,
	net_monthly_rental REAL,
	UNIQUE (case_id, slot)
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetOrCreateCase(ctx context.Context, caseRef string) (*model.Case, error) {
	if caseRef == "" {
		return nil, eris.New("sqlite: empty case ref")
	}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cases (id, case_ref, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (case_ref) DO UPDATE SET updated_at = excluded.updated_at`,
		uuid.New().String(), caseRef, now, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get or create case %s", caseRef)
	}
	c, err := s.GetCase(ctx, caseRef)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, eris.Errorf("case not found after insert: %s", caseRef)
	}
	return c, nil
}

func (s *SQLiteStore) GetCase(ctx context.Context, caseRef string) (*model.Case, error) {
	var c model.Case
	err := s.db.QueryRowContext(ctx,
		`SELECT id, case_ref, created_at, updated_at FROM cases WHERE case_ref = ?`,
		caseRef,
	).Scan(&c.ID, &c.CaseRef, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get case %s", caseRef)
	}
	return &c, nil
}

func (s *SQLiteStore) InsertRawRecord(ctx context.Context, rec *model.RawRecord) error {
	table, err := rawTableFor(rec.Source)
	if err != nil {
		return err
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Status == "" {
		rec.Status = model.RecordStatusPending
	}
	if rec.InsertedAt.IsZero() {
		rec.InsertedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, case_ref, payload, status, inserted_at) VALUES (?, ?, ?, ?, ?)`, table),
		rec.ID.String(), rec.CaseRef, string(rec.Payload), string(rec.Status), rec.InsertedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert raw record into %s", table)
	}
	return nil
}

func (s *SQLiteStore) GetRawRecord(ctx context.Context, source model.SourceType, id uuid.UUID) (*model.RawRecord, error) {
	table, err := rawTableFor(source)
	if err != nil {
		return nil, err
	}

	rec := model.RawRecord{Source: source}
	var payload string
	var detail sql.NullString
	err = s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT id, case_ref, payload, status, error_detail, inserted_at, processed_at FROM %s WHERE id = ?`, table),
		id.String(),
	).Scan(&rec.ID, &rec.CaseRef, &payload, &rec.Status, &detail, &rec.InsertedAt, &rec.ProcessedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get raw record %s", id)
	}
	rec.Payload = []byte(payload)
	if detail.Valid {
		rec.ErrorDetail = detail.String
	}
	return &rec, nil
}

func (s *SQLiteStore) ListRawRecords(ctx context.Context, filter RecordFilter) ([]model.RawRecord, error) {
	sources := model.AllSourceTypes
	if filter.Source != "" {
		sources = []model.SourceType{filter.Source}
	}

	var records []model.RawRecord
	for _, source := range sources {
		table, err := rawTableFor(source)
		if err != nil {
			return nil, err
		}

		query := fmt.Sprintf(`SELECT id, case_ref, payload, status, error_detail, inserted_at, processed_at FROM %s WHERE 1=1`, table)
		var args []any

		if filter.CaseRef != "" {
			query += ` AND case_ref = ?`
			args = append(args, filter.CaseRef)
		}
		if filter.Status != "" {
			query += ` AND status = ?`
			args = append(args, string(filter.Status))
		}
		query += ` ORDER BY inserted_at`

		limit := filter.Limit
		if limit <= 0 {
			limit = 100
		}
		query += ` LIMIT ?`
		args = append(args, limit)

		if filter.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, filter.Offset)
		}

		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: list raw records from %s", table)
		}

		for rows.Next() {
			rec := model.RawRecord{Source: source}
			var payload string
			var detail sql.NullString
			if err := rows.Scan(&rec.ID, &rec.CaseRef, &payload, &rec.Status, &detail, &rec.InsertedAt, &rec.ProcessedAt); err != nil {
				rows.Close()
				return nil, eris.Wrapf(err, "sqlite: scan raw record from %s", table)
			}
			rec.Payload = []byte(payload)
			if detail.Valid {
				rec.ErrorDetail = detail.String
			}
			records = append(records, rec)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, eris.Wrapf(err, "sqlite: list raw records from %s iterate", table)
		}
		rows.Close()
	}
	return records, nil
}

func (s *SQLiteStore) MarkRecordProcessing(ctx context.Context, source model.SourceType, id uuid.UUID) error {
	table, err := rawTableFor(source)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET status = ?, error_detail = NULL WHERE id = ?`, table),
		string(model.RecordStatusProcessing), id.String(),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: mark record %s processing", id)
	}
	return checkRowsAffected(res, "record", id.String())
}

func (s *SQLiteStore) MarkRecordCompleted(ctx context.Context, source model.SourceType, id uuid.UUID) error {
	table, err := rawTableFor(source)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET status = ?, error_detail = NULL, processed_at = ? WHERE id = ?`, table),
		string(model.RecordStatusCompleted), time.Now().UTC(), id.String(),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: mark record %s completed", id)
	}
	return checkRowsAffected(res, "record", id.String())
}

func (s *SQLiteStore) MarkRecordFailed(ctx context.Context, source model.SourceType, id uuid.UUID, detail string) error {
	table, err := rawTableFor(source)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET status = ?, error_detail = ?, processed_at = ? WHERE id = ?`, table),
		string(model.RecordStatusFailed), detail, time.Now().UTC(), id.String(),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: mark record %s failed", id)
	}
	return checkRowsAffected(res, "record", id.String())
}

func (s *SQLiteStore) CountRecordsByStatus(ctx context.Context) (StatusCounts, error) {
	counts := make(StatusCounts, len(model.AllSourceTypes))
	for _, source := range model.AllSourceTypes {
		table, err := rawTableFor(source)
		if err != nil {
			return nil, err
		}

		rows, err := s.db.QueryContext(ctx,
			fmt.Sprintf(`SELECT status, count(*) FROM %s GROUP BY status`, table))
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: count records in %s", table)
		}

		byStatus := make(map[model.RecordStatus]int)
		for rows.Next() {
			var status string
			var n int
			if err := rows.Scan(&status, &n); err != nil {
				rows.Close()
				return nil, eris.Wrapf(err, "sqlite: scan count from %s", table)
			}
			byStatus[model.RecordStatus(status)] = n
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, eris.Wrapf(err, "sqlite: count records in %s iterate", table)
		}
		rows.Close()
		counts[source] = byStatus
	}
	return counts, nil
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}
