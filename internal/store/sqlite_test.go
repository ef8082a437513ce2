package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-tax/caseflow/internal/model"
)

func TestSQLite_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caseflow.db")
	ctx := context.Background()

	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(ctx))
	c, err := s.GetOrCreateCase(ctx, "MER-1001")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := NewSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.Ping(ctx))

	got, err := reopened.GetCase(ctx, "MER-1001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, c.ID, got.ID)
}

func TestSQLite_MigrateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestSQLite_EmptySectionsStayEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.GetOrCreateCase(ctx, "MER-1001")
	require.NoError(t, err)

	rec := &model.InterviewRecord{
		CaseID:       c.ID,
		RawRecordID:  uuid.New(),
		FilingStatus: strPtr("Single"),
	}
	require.NoError(t, s.UpsertInterview(ctx, rec))

	got, err := s.GetInterview(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.Sections)
}

type fakeResult struct{ n int64 }

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.n, nil }

func TestCheckRowsAffected(t *testing.T) {
	require.NoError(t, checkRowsAffected(fakeResult{n: 1}, "record", "abc"))

	err := checkRowsAffected(fakeResult{n: 0}, "record", "abc")
	require.Error(t, err)
	assert.Equal(t, "record not found: abc", err.Error())
}
