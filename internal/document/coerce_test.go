package document

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected float64
		ok       bool
	}{
		{"plain float", 1234.56, 1234.56, true},
		{"int", 500, 500, true},
		{"currency string", "$1,234.56", 1234.56, true},
		{"commas only", "12,000", 12000, true},
		{"leading spaces", "  $42.00 ", 42, true},
		{"parenthesized negative", "(1,500.00)", -1500, true},
		{"negative sign", "-75.5", -75.5, true},
		{"zero", "0", 0, true},
		{"empty string", "", 0, false},
		{"whitespace only", "   ", 0, false},
		{"bare dollar sign", "$", 0, false},
		{"not a number", "not a number", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDecimal(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, got, 0.0001)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
		ok       bool
	}{
		{"iso date", "2015-04-15", "2015-04-15", true},
		{"rfc3339", "2015-04-15T00:00:00Z", "2015-04-15", true},
		{"us date", "04/15/2015", "2015-04-15", true},
		{"padded", " 2020-01-31 ", "2020-01-31", true},
		{"empty", "", "", false},
		{"garbage", "april fifteenth", "", false},
		{"number", 20150415, "", false},
		{"nil", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got.Format("2006-01-02"))
			}
		})
	}
}

func TestParseDate_TimePassthrough(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	got, ok := ParseDate(now)
	require.True(t, ok)
	assert.Equal(t, now, got)
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected int
		ok       bool
	}{
		{"int", 4, 4, true},
		{"float", 4.0, 4, true},
		{"string", "4", 4, true},
		{"string with commas", "1,200", 1200, true},
		{"decimal string", "3.7", 3, true},
		{"empty", "", 0, false},
		{"words", "four", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseInt(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestParseText(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
		ok       bool
	}{
		{"string", "Married Filing Jointly", "Married Filing Jointly", true},
		{"trims", "  Acme Plumbing  ", "Acme Plumbing", true},
		{"empty", "", "", false},
		{"whitespace", "   ", "", false},
		{"whole number", 78701.0, "78701", true},
		{"fractional number", 3.5, "3.5", true},
		{"nil", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseText(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input    any
		expected bool
		ok       bool
	}{
		{true, true, true},
		{"yes", true, true},
		{"No", false, true},
		{"1", true, true},
		{"maybe", false, false},
		{1.0, true, true},
		{nil, false, false},
	}
	for _, tt := range tests {
		got, ok := ParseBool(tt.input)
		assert.Equal(t, tt.ok, ok)
		if tt.ok {
			assert.Equal(t, tt.expected, got)
		}
	}
}
