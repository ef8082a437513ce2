package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-tax/caseflow/internal/model"
)

// The generated interview upsert and select are only correct while the
// column list, insert values and scan destinations stay the same length.
func TestInterviewLeafAlignment(t *testing.T) {
	var rec model.InterviewRecord
	require.Equal(t, len(interviewLeafColumns), len(interviewLeafValues(&rec)))
	require.Equal(t, len(interviewLeafColumns), len(interviewLeafDests(&rec)))
}

func TestPlaceholderRendering(t *testing.T) {
	assert.Equal(t, "$1, $2, $3", pgPlaceholders(1, 3))
	assert.Equal(t, "$4", pgPlaceholders(4, 1))
	assert.Equal(t, "?, ?", sqlitePlaceholders(2))
	assert.Equal(t, "a = EXCLUDED.a, b = EXCLUDED.b", excludedSetClause([]string{"a", "b"}))
}
