package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/meridian-tax/caseflow/internal/calc"
)

func TestFormatCaseSummary(t *testing.T) {
	expiration := time.Date(2031, 4, 15, 0, 0, 0, 0, time.UTC)
	s := &calc.CaseSummary{
		CaseRef:              "CF-2044",
		TotalMonthlyIncome:   7100,
		OtherMonthlyIncome:   250,
		TotalMonthlyExpenses: 1850,
		DisposableIncome:     5250,
		TotalAccountBalance:  12345.5,
		TotalEquity:          10900,
	}

	var buf bytes.Buffer
	formatCaseSummary(&buf, s)
	output := buf.String()

	assert.Contains(t, output, "CF-2044")
	assert.Contains(t, output, "$7,100.00")
	assert.Contains(t, output, "$12,345.50")
	assert.Contains(t, output, "$5,250.00")
	// No year table without years.
	assert.NotContains(t, output, "YEAR")

	s.Years = []calc.YearSummary{
		{
			TaxYear:           2020,
			WageIncome:        52000,
			SelfEmploymentTax: 7064.78,
			AccountBalance:    12345.5,
			ReturnFiled:       true,
			Statute: &calc.StatuteResult{
				TaxYear:    2020,
				Expiration: expiration,
				Status:     calc.StatuteActive,
			},
		},
	}

	buf.Reset()
	formatCaseSummary(&buf, s)
	output = buf.String()

	assert.Contains(t, output, "YEAR")
	assert.Contains(t, output, "2020")
	assert.Contains(t, output, "52,000.00")
	assert.Contains(t, output, "7,064.78")
	assert.Contains(t, output, "yes")
	assert.Contains(t, output, "2031-04-15")
	assert.Contains(t, output, "Active")
}

func TestSummaryCmd_Metadata(t *testing.T) {
	assert.Equal(t, "summary <case-ref>", summaryCmd.Use)
	assert.NotEmpty(t, summaryCmd.Short)
}
