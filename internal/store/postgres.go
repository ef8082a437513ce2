package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/meridian-tax/caseflow/internal/db"
	"github.com/meridian-tax/caseflow/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"get_case":              `SELECT id, case_ref, created_at, updated_at FROM cases WHERE case_ref = $1`,
	"insert_raw_account":    `INSERT INTO raw_account_transcripts (id, case_ref, payload, status, inserted_at) VALUES ($1, $2, $3, $4, $5)`,
	"insert_raw_wage":       `INSERT INTO raw_wage_income (id, case_ref, payload, status, inserted_at) VALUES ($1, $2, $3, $4, $5)`,
	"insert_raw_return":     `INSERT INTO raw_return_transcripts (id, case_ref, payload, status, inserted_at) VALUES ($1, $2, $3, $4, $5)`,
	"insert_raw_interview":  `INSERT INTO raw_interviews (id, case_ref, payload, status, inserted_at) VALUES ($1, $2, $3, $4, $5)`,
	"list_account_activity": `SELECT id, case_id, raw_record_id, tax_year, code, description, tx_date, amount, category, affects_balance, is_payment, is_penalty_or_interest, starts_statute, tolling_category, tolling_days, dedup_key, created_at FROM silver_account_activity WHERE case_id = $1 ORDER BY tax_year, tx_date NULLS LAST, code`,
	"list_wage_documents":   `SELECT id, case_id, raw_record_id, tax_year, form_code, payer, income, withholding, category, self_employment, dedup_key, created_at FROM silver_wage_documents WHERE case_id = $1 ORDER BY tax_year, form_code, payer`,
	"list_return_summaries": `SELECT id, case_id, raw_record_id, tax_year, filing_status, agi, taxable_income, total_tax, filed_date, created_at FROM silver_return_summaries WHERE case_id = $1 ORDER BY tax_year`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool. Used by tests that supply
// a mock pool.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Pool returns the underlying database pool for use by subsystems that
// need direct query access (e.g., bulk silver upserts).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS cases (
	id         UUID PRIMARY KEY,
	case_ref   TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS raw_account_transcripts (
	id           UUID PRIMARY KEY,
	case_ref     TEXT NOT NULL,
	payload      JSONB NOT NULL,
	status       TEXT NOT NULL DEFAULT 'pending',
	error_detail TEXT,
	inserted_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	processed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS raw_wage_income (
	id           UUID PRIMARY KEY,
	case_ref     TEXT NOT NULL,
	payload      JSONB NOT NULL,
	status       TEXT NOT NULL DEFAULT 'pending',
	error_detail TEXT,
	inserted_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	processed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS raw_return_transcripts (
	id           UUID PRIMARY KEY,
	case_ref     TEXT NOT NULL,
	payload      JSONB NOT NULL,
	status       TEXT NOT NULL DEFAULT 'pending',
	error_detail TEXT,
	inserted_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	processed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS raw_interviews (
	id           UUID PRIMARY KEY,
	case_ref     TEXT NOT NULL,
	payload      JSONB NOT NULL,
	status       TEXT NOT NULL DEFAULT 'pending',
	error_detail TEXT,
	inserted_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	processed_at TIMESTAMPTZ
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
	id                     UUID PRIMARY KEY,
	case_id                UUID NOT NULL REFERENCES cases(id),
	raw_record_id          UUID NOT NULL,
	tax_year               INTEGER NOT NULL,
	code                   TEXT NOT NULL,
	description            TEXT,
	tx_date                DATE,
	amount                 DOUBLE PRECISION,
	category               TEXT NOT NULL,
	affects_balance        BOOLEAN NOT NULL DEFAULT false,
	is_payment             BOOLEAN NOT NULL DEFAULT false,
	is_penalty_or_interest BOOLEAN NOT NULL DEFAULT false,
	starts_statute         BOOLEAN NOT NULL DEFAULT false,
	tolling_category       TEXT,
	tolling_days           INTEGER NOT NULL DEFAULT 0,
	dedup_key              TEXT NOT NULL,
	created_at             TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (case_id, tax_year, dedup_key)
);

CREATE INDEX IF NOT EXISTS idx_silver_account_activity_case ON silver_account_activity(case_id, tax_year);

CREATE TABLE IF NOT EXISTS silver_wage_documents (
	id              UUID PRIMARY KEY,
	case_id         UUID NOT NULL REFERENCES cases(id),
	raw_record_id   UUID NOT NULL,
	tax_year        INTEGER NOT NULL,
	form_code       TEXT NOT NULL,
	payer           TEXT,
	income          DOUBLE PRECISION,
	withholding     DOUBLE PRECISION,
	category        TEXT NOT NULL,
	self_employment BOOLEAN NOT NULL DEFAULT false,
	dedup_key       TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (case_id, tax_year, dedup_key)
);

CREATE INDEX IF NOT EXISTS idx_silver_wage_documents_case ON silver_wage_documents(case_id, tax_year);

CREATE TABLE IF NOT EXISTS silver_return_summaries (
	id             UUID PRIMARY KEY,
	case_id        UUID NOT NULL REFERENCES cases(id),
	raw_record_id  UUID NOT NULL,
	tax_year       INTEGER NOT NULL,
	filing_status  TEXT,
	agi            DOUBLE PRECISION,
	taxable_income DOUBLE PRECISION,
	total_tax      DOUBLE PRECISION,
	filed_date     DATE,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (case_id, tax_year)
);

CREATE TABLE IF NOT EXISTS silver_interviews (
	id            UUID PRIMARY KEY,
	case_id       UUID NOT NULL UNIQUE REFERENCES cases(id),
	raw_record_id UUID NOT NULL,

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
	taxpayer_monthly_gross DOUBLE PRECISION,
	taxpayer_annual_gross  DOUBLE PRECISION,
	spouse_employer        TEXT,
	spouse_occupation      TEXT,
	spouse_pay_frequency   TEXT,
	spouse_monthly_gross   DOUBLE PRECISION,
	spouse_annual_gross    DOUBLE PRECISION,

	self_employment_income    DOUBLE PRECISION,
	self_employment_frequency TEXT,
	rental_income             DOUBLE PRECISION,
	rental_frequency          TEXT,
	pension_income            DOUBLE PRECISION,
	pension_frequency         TEXT,
	social_security_income    DOUBLE PRECISION,
	social_security_frequency TEXT,
	child_support_income      DOUBLE PRECISION,
	child_support_frequency   TEXT,
	alimony_income            DOUBLE PRECISION,
	alimony_frequency         TEXT,
	other_income              DOUBLE PRECISION,
	other_income_frequency    TEXT,

	food_clothing_expense       DOUBLE PRECISION,
	food_clothing_frequency     TEXT,
	housing_utilities_expense   DOUBLE PRECISION,
	housing_utilities_frequency TEXT,
	vehicle_ownership_expense   DOUBLE PRECISION,
	vehicle_ownership_frequency TEXT,
	vehicle_operating_expense   DOUBLE PRECISION,
	vehicle_operating_frequency TEXT,
	health_insurance_expense    DOUBLE PRECISION,
	health_insurance_frequency  TEXT,
	healthcare_expense          DOUBLE PRECISION,
	healthcare_frequency        TEXT,
	life_insurance_expense      DOUBLE PRECISION,
	life_insurance_frequency    TEXT,
	court_payments_expense      DOUBLE PRECISION,
	court_payments_frequency    TEXT,
	child_care_expense          DOUBLE PRECISION,
	child_care_frequency        TEXT,
	other_expense               DOUBLE PRECISION,
	other_expense_frequency     TEXT,

	cash_on_hand           DOUBLE PRECISION,
	checking_balance       DOUBLE PRECISION,
	checking_institution   TEXT,
	savings_balance        DOUBLE PRECISION,
	savings_institution    TEXT,
	investment_balance     DOUBLE PRECISION,
	investment_institution TEXT,
	retirement_balance     DOUBLE PRECISION,
	retirement_institution TEXT,

	vehicle1_description     TEXT,
	vehicle1_value           DOUBLE PRECISION,
	vehicle1_loan_balance    DOUBLE PRECISION,
	vehicle1_monthly_payment DOUBLE PRECISION,
	vehicle2_description     TEXT,
	vehicle2_value           DOUBLE PRECISION,
	vehicle2_loan_balance    DOUBLE PRECISION,
	vehicle2_monthly_payment DOUBLE PRECISION,

	property1_description     TEXT,
	property1_value           DOUBLE PRECISION,
	property1_loan_balance    DOUBLE PRECISION,
	property1_monthly_payment DOUBLE PRECISION,
	property1_monthly_rent    DOUBLE PRECISION,
	property2_description     TEXT,
	property2_value           DOUBLE PRECISION,
	property2_loan_balance    DOUBLE PRECISION,
	property2_monthly_payment DOUBLE PRECISION,
	property2_monthly_rent    DOUBLE PRECISION,

	sections       JSONB,
	resolved_paths JSONB,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS gold_employments (
	id             UUID PRIMARY KEY,
	case_id        UUID NOT NULL REFERENCES cases(id),
	role           TEXT NOT NULL,
	employer       TEXT,
	occupation     TEXT,
	pay_frequency  TEXT NOT NULL,
	monthly_income DOUBLE PRECISION,
	annual_income  DOUBLE PRECISION,
	source_fields  JSONB,
	UNIQUE (case_id, role)
);

CREATE TABLE IF NOT EXISTS gold_households (
	id             UUID PRIMARY KEY,
	case_id        UUID NOT NULL UNIQUE REFERENCES cases(id),
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
	id             UUID PRIMARY KEY,
	case_id        UUID NOT NULL REFERENCES cases(id),
	category       TEXT NOT NULL,
	amount         DOUBLE PRECISION NOT NULL DEFAULT 0,
	frequency      TEXT NOT NULL,
	monthly_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
	UNIQUE (case_id, category)
);

CREATE TABLE IF NOT EXISTS gold_monthly_expenses (
	id             UUID PRIMARY KEY,
	case_id        UUID NOT NULL REFERENCES cases(id),
	category       TEXT NOT NULL,
	amount         DOUBLE PRECISION NOT NULL DEFAULT 0,
	frequency      TEXT NOT NULL,
	monthly_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
	UNIQUE (case_id, category)
);

CREATE TABLE IF NOT EXISTS gold_financial_accounts (
	id           UUID PRIMARY KEY,
	case_id      UUID NOT NULL REFERENCES cases(id),
	account_type TEXT NOT NULL,
	institution  TEXT,
	balance      DOUBLE PRECISION NOT NULL DEFAULT 0,
	UNIQUE (case_id, account_type)
);

CREATE TABLE IF NOT EXISTS gold_vehicles (
	id              UUID PRIMARY KEY,
	case_id         UUID NOT NULL REFERENCES cases(id),
	slot            TEXT NOT NULL,
	description     TEXT,
	current_value   DOUBLE PRECISION,
	loan_balance    DOUBLE PRECISION,
	equity          DOUBLE PRECISION,
	monthly_payment DOUBLE PRECISION,
	UNIQUE (case_id, slot)
);

CREATE TABLE IF NOT EXISTS gold_real_properties (
	id                 UUID PRIMARY KEY,
	case_id            UUID NOT NULL REFERENCES cases(id),
	slot               TEXT NOT NULL,
	description        TEXT,
	current_value      DOUBLE PRECISION,
	loan_balance       DOUBLE PRECISION,
	equity             DOUBLE PRECISION,
	monthly_payment    DOUBLE PRECISION,
	monthly_rent       DOUBLE PRECISION,
	net_monthly_rental DOUBLE PRECISION,
	UNIQUE (case_id, slot)
);
`

// migrationLockKey serializes schema creation across concurrent
// processes (serve and CLI invocations share one database).
const migrationLockKey = 6209

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

// Migrate creates all tables. The advisory lock prevents concurrent
// migration runs (e.g. overlapping deploys).
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, fmt.Sprintf("SELECT pg_advisory_lock(%d)", migrationLockKey)); err != nil {
		return eris.Wrap(err, "postgres: acquire migration advisory lock")
	}
	defer func() {
		if _, err := s.pool.Exec(ctx, fmt.Sprintf("SELECT pg_advisory_unlock(%d)", migrationLockKey)); err != nil {
			zap.L().Warn("postgres: failed to release migration advisory lock", zap.Error(err))
		}
	}()

	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// GetOrCreateCase resolves a case ref to its case row, creating the row
// on first sight. Re-ingesting under an existing ref refreshes
// updated_at.
func (s *PostgresStore) GetOrCreateCase(ctx context.Context, caseRef string) (*model.Case, error) {
	if caseRef == "" {
		return nil, eris.New("postgres: empty case ref")
	}
	var c model.Case
	now := time.Now().UTC()
	err := s.pool.QueryRow(ctx,
		`INSERT INTO cases (id, case_ref, created_at, updated_at) VALUES ($1, $2, $3, $3)
		 ON CONFLICT (case_ref) DO UPDATE SET updated_at = EXCLUDED.updated_at
		 RETURNING id, case_ref, created_at, updated_at`,
		uuid.New(), caseRef, now,
	).Scan(&c.ID, &c.CaseRef, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get or create case %s", caseRef)
	}
	return &c, nil
}

func (s *PostgresStore) GetCase(ctx context.Context, caseRef string) (*model.Case, error) {
	var c model.Case
	err := s.pool.QueryRow(ctx,
		`SELECT id, case_ref, created_at, updated_at FROM cases WHERE case_ref = $1`,
		caseRef,
	).Scan(&c.ID, &c.CaseRef, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get case %s", caseRef)
	}
	return &c, nil
}

func (s *PostgresStore) InsertRawRecord(ctx context.Context, rec *model.RawRecord) error {
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

	_, err = s.pool.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, case_ref, payload, status, inserted_at) VALUES ($1, $2, $3, $4, $5)`, table),
		rec.ID, rec.CaseRef, rec.Payload, string(rec.Status), rec.InsertedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: insert raw record into %s", table)
	}
	return nil
}

func (s *PostgresStore) GetRawRecord(ctx context.Context, source model.SourceType, id uuid.UUID) (*model.RawRecord, error) {
	table, err := rawTableFor(source)
	if err != nil {
		return nil, err
	}

	rec := model.RawRecord{Source: source}
	var detailNull *string
	err = s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT id, case_ref, payload, status, error_detail, inserted_at, processed_at FROM %s WHERE id = $1`, table),
		id,
	).Scan(&rec.ID, &rec.CaseRef, &rec.Payload, &rec.Status, &detailNull, &rec.InsertedAt, &rec.ProcessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get raw record %s", id)
	}
	if detailNull != nil {
		rec.ErrorDetail = *detailNull
	}
	return &rec, nil
}

func (s *PostgresStore) ListRawRecords(ctx context.Context, filter RecordFilter) ([]model.RawRecord, error) {
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

		query := fmt.Sprintf(`SELECT id, case_ref, payload, status, error_detail, inserted_at, processed_at FROM %s WHERE true`, table)
		args := []any{}
		argIdx := 1

		if filter.CaseRef != "" {
			query += fmt.Sprintf(` AND case_ref = $%d`, argIdx)
			args = append(args, filter.CaseRef)
			argIdx++
		}
		if filter.Status != "" {
			query += fmt.Sprintf(` AND status = $%d`, argIdx)
			args = append(args, string(filter.Status))
			argIdx++
		}
		query += ` ORDER BY inserted_at`

		limit := filter.Limit
		if limit <= 0 {
			limit = 100
		}
		query += fmt.Sprintf(` LIMIT $%d`, argIdx)
		args = append(args, limit)
		argIdx++

		if filter.Offset > 0 {
			query += fmt.Sprintf(` OFFSET $%d`, argIdx)
			args = append(args, filter.Offset)
		}

		rows, err := s.pool.Query(ctx, query, args...)
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: list raw records from %s", table)
		}

		for rows.Next() {
			rec := model.RawRecord{Source: source}
			var detailNull *string
			if err := rows.Scan(&rec.ID, &rec.CaseRef, &rec.Payload, &rec.Status, &detailNull, &rec.InsertedAt, &rec.ProcessedAt); err != nil {
				rows.Close()
				return nil, eris.Wrapf(err, "postgres: scan raw record from %s", table)
			}
			if detailNull != nil {
				rec.ErrorDetail = *detailNull
			}
			records = append(records, rec)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, eris.Wrapf(err, "postgres: list raw records from %s iterate", table)
		}
		rows.Close()
	}
	return records, nil
}

func (s *PostgresStore) MarkRecordProcessing(ctx context.Context, source model.SourceType, id uuid.UUID) error {
	table, err := rawTableFor(source)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET status = $1, error_detail = NULL WHERE id = $2`, table),
		string(model.RecordStatusProcessing), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: mark record %s processing", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("record not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) MarkRecordCompleted(ctx context.Context, source model.SourceType, id uuid.UUID) error {
	table, err := rawTableFor(source)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET status = $1, error_detail = NULL, processed_at = $2 WHERE id = $3`, table),
		string(model.RecordStatusCompleted), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: mark record %s completed", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("record not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) MarkRecordFailed(ctx context.Context, source model.SourceType, id uuid.UUID, detail string) error {
	table, err := rawTableFor(source)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET status = $1, error_detail = $2, processed_at = $3 WHERE id = $4`, table),
		string(model.RecordStatusFailed), detail, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: mark record %s failed", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("record not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) CountRecordsByStatus(ctx context.Context) (StatusCounts, error) {
	counts := make(StatusCounts, len(model.AllSourceTypes))
	for _, source := range model.AllSourceTypes {
		table, err := rawTableFor(source)
		if err != nil {
			return nil, err
		}

		rows, err := s.pool.Query(ctx,
			fmt.Sprintf(`SELECT status, count(*) FROM %s GROUP BY status`, table))
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: count records in %s", table)
		}

		byStatus := make(map[model.RecordStatus]int)
		for rows.Next() {
			var status string
			var n int
			if err := rows.Scan(&status, &n); err != nil {
				rows.Close()
				return nil, eris.Wrapf(err, "postgres: scan count from %s", table)
			}
			byStatus[model.RecordStatus(status)] = n
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, eris.Wrapf(err, "postgres: count records in %s iterate", table)
		}
		rows.Close()
		counts[source] = byStatus
	}
	return counts, nil
}
