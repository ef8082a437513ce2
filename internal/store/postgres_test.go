package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-tax/caseflow/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_GetCase_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, case_ref, created_at, updated_at FROM cases WHERE case_ref = \$1`).
		WithArgs("MER-0000").
		WillReturnError(pgx.ErrNoRows)

	c, err := s.GetCase(context.Background(), "MER-0000")
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetCase(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	id := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, case_ref, created_at, updated_at FROM cases WHERE case_ref = \$1`).
		WithArgs("MER-1001").
		WillReturnRows(pgxmock.NewRows([]string{"id", "case_ref", "created_at", "updated_at"}).
			AddRow(id, "MER-1001", now, now))

	c, err := s.GetCase(context.Background(), "MER-1001")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, id, c.ID)
	assert.Equal(t, "MER-1001", c.CaseRef)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetOrCreateCase(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	id := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO cases .+ ON CONFLICT \(case_ref\) DO UPDATE SET updated_at = EXCLUDED.updated_at`).
		WithArgs(pgxmock.AnyArg(), "MER-1001", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "case_ref", "created_at", "updated_at"}).
			AddRow(id, "MER-1001", now, now))

	c, err := s.GetOrCreateCase(context.Background(), "MER-1001")
	require.NoError(t, err)
	assert.Equal(t, id, c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetOrCreateCase_EmptyRef(t *testing.T) {
	s, _ := newMockPostgresStore(t)

	_, err := s.GetOrCreateCase(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty case ref")
}

func TestPostgresStore_InsertRawRecord(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO raw_account_transcripts \(id, case_ref, payload, status, inserted_at\)`).
		WithArgs(pgxmock.AnyArg(), "MER-1001", pgxmock.AnyArg(), "pending", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec := &model.RawRecord{
		Source:  model.SourceAccountTranscript,
		CaseRef: "MER-1001",
		Payload: []byte(`{"accountTranscripts":[]}`),
	}
	err := s.InsertRawRecord(context.Background(), rec)
	require.NoError(t, err)

	// Defaults filled in place so the caller can hand the record straight
	// to Process.
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, model.RecordStatusPending, rec.Status)
	assert.False(t, rec.InsertedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertRawRecord_UnknownSource(t *testing.T) {
	s, _ := newMockPostgresStore(t)

	err := s.InsertRawRecord(context.Background(), &model.RawRecord{
		Source:  model.SourceType("fax"),
		CaseRef: "MER-1001",
		Payload: []byte(`{}`),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source type")
}

func TestPostgresStore_GetRawRecord_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT id, case_ref, payload, status, error_detail, inserted_at, processed_at FROM raw_interviews WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	rec, err := s.GetRawRecord(context.Background(), model.SourceInterview, id)
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_MarkRecordCompleted(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	id := uuid.New()
	mock.ExpectExec(`UPDATE raw_wage_income SET status = \$1, error_detail = NULL, processed_at = \$2 WHERE id = \$3`).
		WithArgs("completed", pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.MarkRecordCompleted(context.Background(), model.SourceWageAndIncome, id)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_MarkRecordCompleted_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	id := uuid.New()
	mock.ExpectExec(`UPDATE raw_wage_income SET status = \$1, error_detail = NULL, processed_at = \$2 WHERE id = \$3`).
		WithArgs("completed", pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.MarkRecordCompleted(context.Background(), model.SourceWageAndIncome, id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_MarkRecordFailed(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	id := uuid.New()
	mock.ExpectExec(`UPDATE raw_account_transcripts SET status = \$1, error_detail = \$2, processed_at = \$3 WHERE id = \$4`).
		WithArgs("failed", "pipeline: account transcript has no recognized container", pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.MarkRecordFailed(context.Background(), model.SourceAccountTranscript, id,
		"pipeline: account transcript has no recognized container")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertReturnSummary(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO silver_return_summaries .+ ON CONFLICT \(case_id, tax_year\) DO UPDATE SET`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), 2021,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	row := &model.ReturnSummary{
		CaseID:      uuid.New(),
		RawRecordID: uuid.New(),
		TaxYear:     2021,
	}
	err := s.UpsertReturnSummary(context.Background(), row)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, row.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ApplyGoldDiff(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	caseID := uuid.New()
	diff := &model.GoldDiff{
		Desired: &model.EntitySet{
			Household: &model.Household{FilingStatus: "Single", HouseholdSize: 1},
			Vehicles: []model.Vehicle{
				{Slot: "vehicle1", Description: strPtr("2019 Ford F-150")},
			},
		},
		Deletions: model.GoldDeletions{Vehicles: []string{"vehicle2"}},
		Inserted:  1,
		Updated:   1,
		Deleted:   1,
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO gold_households .+ ON CONFLICT \(case_id\) DO UPDATE SET`).
		WithArgs(pgxmock.AnyArg(), caseID, "Single", 1, pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO gold_vehicles .+ ON CONFLICT \(case_id, slot\) DO UPDATE SET`).
		WithArgs(pgxmock.AnyArg(), caseID, "vehicle1", pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`DELETE FROM gold_vehicles WHERE case_id = \$1 AND slot = ANY\(\$2\)`).
		WithArgs(caseID, []string{"vehicle2"}).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	err := s.ApplyGoldDiff(context.Background(), caseID, diff)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ApplyGoldDiff_EmptyIsNoOp(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	// No expectations: an empty diff must not touch the database.
	diff := &model.GoldDiff{Desired: &model.EntitySet{}}
	err := s.ApplyGoldDiff(context.Background(), uuid.New(), diff)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ApplyGoldDiff_NilDiff(t *testing.T) {
	s, _ := newMockPostgresStore(t)

	err := s.ApplyGoldDiff(context.Background(), uuid.New(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil gold diff")
}

func TestPostgresStore_CountRecordsByStatus(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT status, count\(\*\) FROM raw_account_transcripts GROUP BY status`).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow("completed", 4).
			AddRow("failed", 1))
	mock.ExpectQuery(`SELECT status, count\(\*\) FROM raw_wage_income GROUP BY status`).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow("completed", 2))
	mock.ExpectQuery(`SELECT status, count\(\*\) FROM raw_return_transcripts GROUP BY status`).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}))
	mock.ExpectQuery(`SELECT status, count\(\*\) FROM raw_interviews GROUP BY status`).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 3))

	counts, err := s.CountRecordsByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, counts[model.SourceAccountTranscript][model.RecordStatusCompleted])
	assert.Equal(t, 1, counts[model.SourceAccountTranscript][model.RecordStatusFailed])
	assert.Equal(t, 2, counts[model.SourceWageAndIncome][model.RecordStatusCompleted])
	assert.Empty(t, counts[model.SourceReturnTranscript])
	assert.Equal(t, 10, counts.Total())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`SELECT pg_advisory_lock\(6209\)`).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS cases`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(`SELECT pg_advisory_unlock\(6209\)`).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))

	err := s.Migrate(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Ping(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`SELECT 1`).WillReturnResult(pgxmock.NewResult("SELECT", 1))

	require.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
