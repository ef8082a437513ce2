package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridian-tax/caseflow/internal/model"
	"github.com/meridian-tax/caseflow/internal/store"
)

func TestFormatStatusCounts(t *testing.T) {
	counts := store.StatusCounts{
		model.SourceAccountTranscript: {
			model.RecordStatusCompleted: 12,
			model.RecordStatusFailed:    2,
		},
		model.SourceInterview: {
			model.RecordStatusPending:   1,
			model.RecordStatusCompleted: 5,
		},
	}

	var buf bytes.Buffer
	formatStatusCounts(&buf, counts)
	output := buf.String()

	assert.Contains(t, output, "SOURCE")
	assert.Contains(t, output, "account_transcript")
	assert.Contains(t, output, "wage_and_income")
	assert.Contains(t, output, "return_transcript")
	assert.Contains(t, output, "interview")
	// Totals row: 1 pending, 0 processing, 17 completed, 2 failed, 20 total.
	assert.Contains(t, output, "total")
	assert.Contains(t, output, "17")
	assert.Contains(t, output, "20")
}

func TestFormatStatusCounts_Empty(t *testing.T) {
	var buf bytes.Buffer
	formatStatusCounts(&buf, store.StatusCounts{})
	output := buf.String()

	// Every source still gets a row of zeroes.
	assert.Contains(t, output, "account_transcript")
	assert.Contains(t, output, "total")
}

func TestStatusCmd_Metadata(t *testing.T) {
	assert.Equal(t, "status", statusCmd.Use)
	assert.NotEmpty(t, statusCmd.Short)
}
