package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/meridian-tax/caseflow/internal/model"
)

// RecordFilter specifies criteria for listing raw records. An empty
// Source spans every source table.
type RecordFilter struct {
	Source  model.SourceType   `json:"source,omitempty"`
	CaseRef string             `json:"case_ref,omitempty"`
	Status  model.RecordStatus `json:"status,omitempty"`
	Limit   int                `json:"limit,omitempty"`
	Offset  int                `json:"offset,omitempty"`
}

// StatusCounts is the number of raw records per source and status.
type StatusCounts map[model.SourceType]map[model.RecordStatus]int

// Total sums every status bucket.
func (c StatusCounts) Total() int {
	var n int
	for _, byStatus := range c {
		for _, count := range byStatus {
			n += count
		}
	}
	return n
}

// Store defines the persistence interface for the transformation
// pipeline.
type Store interface {
	// Cases
	GetOrCreateCase(ctx context.Context, caseRef string) (*model.Case, error)
	GetCase(ctx context.Context, caseRef string) (*model.Case, error)

	// Raw records (bronze)
	InsertRawRecord(ctx context.Context, rec *model.RawRecord) error
	GetRawRecord(ctx context.Context, source model.SourceType, id uuid.UUID) (*model.RawRecord, error)
	ListRawRecords(ctx context.Context, filter RecordFilter) ([]model.RawRecord, error)
	MarkRecordProcessing(ctx context.Context, source model.SourceType, id uuid.UUID) error
	MarkRecordCompleted(ctx context.Context, source model.SourceType, id uuid.UUID) error
	MarkRecordFailed(ctx context.Context, source model.SourceType, id uuid.UUID, detail string) error
	CountRecordsByStatus(ctx context.Context) (StatusCounts, error)

	// Silver
	UpsertAccountActivity(ctx context.Context, rows []model.AccountActivity) (int64, error)
	ListAccountActivity(ctx context.Context, caseID uuid.UUID) ([]model.AccountActivity, error)
	UpsertWageDocuments(ctx context.Context, rows []model.WageDocument) (int64, error)
	ListWageDocuments(ctx context.Context, caseID uuid.UUID) ([]model.WageDocument, error)
	UpsertReturnSummary(ctx context.Context, row *model.ReturnSummary) error
	ListReturnSummaries(ctx context.Context, caseID uuid.UUID) ([]model.ReturnSummary, error)
	UpsertInterview(ctx context.Context, rec *model.InterviewRecord) error
	GetInterview(ctx context.Context, caseID uuid.UUID) (*model.InterviewRecord, error)

	// Gold
	ApplyGoldDiff(ctx context.Context, caseID uuid.UUID, diff *model.GoldDiff) error
	GetGoldEntities(ctx context.Context, caseID uuid.UUID) (*model.EntitySet, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}

// goldInsertID picks the id bound on a gold upsert. Inserts always carry
// a fresh id: when the natural key already exists the DO UPDATE path runs
// and the stored id wins, since id is never in the update set. Binding a
// survivor's own id would trip the primary key before the conflict
// target.
func goldInsertID(id *uuid.UUID) uuid.UUID {
	fresh := uuid.New()
	if *id == uuid.Nil {
		*id = fresh
	}
	return fresh
}

// rawTableFor maps a source type onto its bronze table. Table names are
// assembled into SQL, so the mapping is a closed switch rather than
// string interpolation of caller input.
func rawTableFor(source model.SourceType) (string, error) {
	switch source {
	case model.SourceAccountTranscript:
		return "raw_account_transcripts", nil
	case model.SourceWageAndIncome:
		return "raw_wage_income", nil
	case model.SourceReturnTranscript:
		return "raw_return_transcripts", nil
	case model.SourceInterview:
		return "raw_interviews", nil
	default:
		return "", eris.Errorf("store: unknown source type %q", source)
	}
}
