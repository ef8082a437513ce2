package model

import (
	"time"

	"github.com/google/uuid"
)

// SourceType identifies which kind of document a raw record holds.
type SourceType string

const (
	SourceAccountTranscript SourceType = "account_transcript"
	SourceWageAndIncome     SourceType = "wage_and_income"
	SourceReturnTranscript  SourceType = "return_transcript"
	SourceInterview         SourceType = "interview"
)

// AllSourceTypes lists every ingestible source in a stable order.
var AllSourceTypes = []SourceType{
	SourceAccountTranscript,
	SourceWageAndIncome,
	SourceReturnTranscript,
	SourceInterview,
}

// ParseSourceType maps an external identifier onto a known source type.
func ParseSourceType(s string) (SourceType, bool) {
	switch SourceType(s) {
	case SourceAccountTranscript, SourceWageAndIncome, SourceReturnTranscript, SourceInterview:
		return SourceType(s), true
	}
	return "", false
}

// RecordStatus represents the processing state of a raw record.
type RecordStatus string

const (
	RecordStatusPending    RecordStatus = "pending"
	RecordStatusProcessing RecordStatus = "processing"
	RecordStatusCompleted  RecordStatus = "completed"
	RecordStatusFailed     RecordStatus = "failed"
)

// RawRecord is one ingested document exactly as received, plus its
// processing state. Payload is never mutated after insert; only status,
// error detail and the processed timestamp change.
type RawRecord struct {
	ID          uuid.UUID    `json:"id"`
	CaseRef     string       `json:"case_ref"`
	Source      SourceType   `json:"source"`
	Payload     []byte       `json:"payload"`
	Status      RecordStatus `json:"status"`
	ErrorDetail string       `json:"error_detail,omitempty"`
	InsertedAt  time.Time    `json:"inserted_at"`
	ProcessedAt *time.Time   `json:"processed_at,omitempty"`
}

// Case is the internal anchor all transformed rows hang off. CaseRef is
// the external identifier documents arrive under.
type Case struct {
	ID        uuid.UUID `json:"id"`
	CaseRef   string    `json:"case_ref"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IngestResult summarizes one processed document.
type IngestResult struct {
	RecordID   uuid.UUID    `json:"record_id"`
	CaseID     uuid.UUID    `json:"case_id"`
	CaseRef    string       `json:"case_ref"`
	Source     SourceType   `json:"source"`
	Status     RecordStatus `json:"status"`
	SilverRows int          `json:"silver_rows"`
	GoldRows   int          `json:"gold_rows"`
	Skipped    int          `json:"skipped,omitempty"`
	Error      string       `json:"error,omitempty"`
}
