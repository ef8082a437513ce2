package pipeline

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWageTranscript(t *testing.T) {
	raw := `{
		"wageAndIncomeTranscripts": [
			{"taxYear": 2021, "forms": [
				{"formType": "W-2", "payer": "ACME STAFFING LLC", "income": 41000, "withholding": 3900},
				{"formType": "1099-NEC", "payer": "RIDESHARE CO", "income": 18500}
			]}
		]
	}`
	rows, skipped, err := parseWageTranscript(parseDoc(t, raw), uuid.New(), uuid.New(), testCatalog(t))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, rows, 2)

	w2 := rows[0]
	assert.Equal(t, 2021, w2.TaxYear)
	assert.Equal(t, "W-2", w2.FormCode)
	assert.Equal(t, "ACME STAFFING LLC", w2.Payer)
	assert.Equal(t, "wages", w2.Category)
	assert.False(t, w2.SelfEmployment)
	require.NotNil(t, w2.Income)
	assert.Equal(t, 41000.0, *w2.Income)
	require.NotNil(t, w2.Withholding)
	assert.Equal(t, 3900.0, *w2.Withholding)
	assert.Equal(t, "W-2|acme staffing llc|41000.00", w2.DedupKey)

	nec := rows[1]
	assert.Equal(t, "1099-NEC", nec.FormCode)
	assert.True(t, nec.SelfEmployment)
	assert.Nil(t, nec.Withholding)
}

func TestParseWageTranscript_FormSpellingNormalized(t *testing.T) {
	raw := `{"wageAndIncomeTranscripts": [{"taxYear": 2020, "forms": [
		{"formType": "w2", "payer": "A"},
		{"formType": "Form W-2", "payer": "B"}
	]}]}`
	rows, _, err := parseWageTranscript(parseDoc(t, raw), uuid.New(), uuid.New(), testCatalog(t))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "W-2", rows[0].FormCode)
	assert.Equal(t, "W-2", rows[1].FormCode)
}

func TestParseWageTranscript_LegacyFieldNames(t *testing.T) {
	raw := `{
		"data": [
			{"tax_year": 2019, "documents": [
				{"documentType": "SSA-1099", "payerName": "Social Security Administration", "wages": "14,220.00"}
			]}
		]
	}`
	rows, _, err := parseWageTranscript(parseDoc(t, raw), uuid.New(), uuid.New(), testCatalog(t))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "SSA-1099", row.FormCode)
	assert.Equal(t, "social_security", row.Category)
	require.NotNil(t, row.Income)
	assert.Equal(t, 14220.0, *row.Income)
}

func TestParseWageTranscript_UnknownFormKept(t *testing.T) {
	raw := `{"wageAndIncomeTranscripts": [{"taxYear": 2020, "forms": [{"formType": "1099-XYZ", "income": 100}]}]}`
	rows, skipped, err := parseWageTranscript(parseDoc(t, raw), uuid.New(), uuid.New(), testCatalog(t))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, rows, 1)
	assert.Equal(t, "1099XYZ", rows[0].FormCode)
	assert.Equal(t, "unknown", rows[0].Category)
	assert.False(t, rows[0].SelfEmployment)
}

func TestParseWageTranscript_MalformedSiblingsSkipped(t *testing.T) {
	raw := `{
		"wageAndIncomeTranscripts": [
			{"forms": [{"formType": "W-2"}]},
			{"taxYear": 2021, "forms": [
				{"payer": "no form type"},
				{"formType": "W-2", "payer": "KEPT"}
			]}
		]
	}`
	rows, skipped, err := parseWageTranscript(parseDoc(t, raw), uuid.New(), uuid.New(), testCatalog(t))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "KEPT", rows[0].Payer)
	assert.Equal(t, 2, skipped)
}

func TestParseWageTranscript_NoContainer(t *testing.T) {
	_, _, err := parseWageTranscript(parseDoc(t, `{}`), uuid.New(), uuid.New(), testCatalog(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recognized container")
}
