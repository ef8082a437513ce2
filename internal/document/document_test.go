package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) Document {
	t.Helper()
	d, err := Parse([]byte(raw))
	require.NoError(t, err)
	return d
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("{not json"))
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	d := mustParse(t, `{
		"employment": {"employer_name": "Acme", "gross": null},
		"top": "value"
	}`)

	v, ok := d.Lookup("top")
	require.True(t, ok)
	assert.Equal(t, "value", v)

	v, ok = d.Lookup("employment.employer_name")
	require.True(t, ok)
	assert.Equal(t, "Acme", v)

	// Present key holding JSON null: path exists, value is nil.
	v, ok = d.Lookup("employment.gross")
	require.True(t, ok)
	assert.Nil(t, v)

	_, ok = d.Lookup("employment.missing")
	assert.False(t, ok)

	_, ok = d.Lookup("top.not_an_object")
	assert.False(t, ok)
}

func TestFirst_PreferredWins(t *testing.T) {
	d := mustParse(t, `{"employer_name": "New Corp", "c4": "Old Corp"}`)

	v, path, ok := d.First("employer_name", "c4")
	require.True(t, ok)
	assert.Equal(t, "New Corp", v)
	assert.Equal(t, "employer_name", path)
}

func TestFirst_LegacyFallback(t *testing.T) {
	d := mustParse(t, `{"c4": "Old Corp"}`)

	v, path, ok := d.First("employer_name", "c4")
	require.True(t, ok)
	assert.Equal(t, "Old Corp", v)
	assert.Equal(t, "c4", path)
}

func TestFirst_NullSkipped(t *testing.T) {
	// A null under the preferred key is absence, not a value.
	d := mustParse(t, `{"employer_name": null, "c4": "Old Corp"}`)

	v, path, ok := d.First("employer_name", "c4")
	require.True(t, ok)
	assert.Equal(t, "Old Corp", v)
	assert.Equal(t, "c4", path)
}

func TestFirst_NoneMatch(t *testing.T) {
	d := mustParse(t, `{"unrelated": 1}`)

	_, _, ok := d.First("employer_name", "c4")
	assert.False(t, ok)
}

func TestFirstArray(t *testing.T) {
	d := mustParse(t, `{"transcripts": [{"tax_year": 2020}], "accountTranscripts": "oops"}`)

	arr, path, ok := d.FirstArray("accountTranscripts", "transcripts", "data")
	require.True(t, ok)
	assert.Equal(t, "transcripts", path)
	assert.Len(t, arr, 1)
}

func TestSub(t *testing.T) {
	d := mustParse(t, `{"household": {"size": 4}}`)

	sub, ok := d.Sub("household")
	require.True(t, ok)
	v, ok := sub.Lookup("size")
	require.True(t, ok)
	assert.Equal(t, 4.0, v)

	_, ok = d.Sub("missing")
	assert.False(t, ok)
}

func TestResolveDecimal_CoercionFailureDoesNotFallThrough(t *testing.T) {
	// The preferred key is present but mangled; the legacy key holds a
	// clean value. The contract resolves nothing rather than silently
	// using the stale alias.
	d := mustParse(t, `{"gross_pay": "N/A", "b12": "5000"}`)

	v, path := ResolveDecimal(d, "gross_pay", "b12")
	assert.Nil(t, v)
	assert.Empty(t, path)
}

func TestResolveDecimal_Currency(t *testing.T) {
	d := mustParse(t, `{"gross_pay": "$4,250.19"}`)

	v, path := ResolveDecimal(d, "gross_pay", "b12")
	require.NotNil(t, v)
	assert.InDelta(t, 4250.19, *v, 0.0001)
	assert.Equal(t, "gross_pay", path)
}

func TestResolveDate(t *testing.T) {
	d := mustParse(t, `{"filed": "04/15/2019"}`)

	v, path := ResolveDate(d, "filed_date", "filed")
	require.NotNil(t, v)
	assert.Equal(t, "2019-04-15", v.Format("2006-01-02"))
	assert.Equal(t, "filed", path)
}

func TestResolveText_EmptyStringIsAbsent(t *testing.T) {
	d := mustParse(t, `{"employer_name": ""}`)

	v, _ := ResolveText(d, "employer_name")
	assert.Nil(t, v)
}

func TestResolveInt(t *testing.T) {
	d := mustParse(t, `{"household_size": "4"}`)

	v, _ := ResolveInt(d, "household_size", "hh_size")
	require.NotNil(t, v)
	assert.Equal(t, 4, *v)
}
