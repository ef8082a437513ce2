package pipeline

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/meridian-tax/caseflow/internal/document"
	"github.com/meridian-tax/caseflow/internal/model"
)

// parseReturnTranscript extracts the per-year return summaries from a
// return-transcript payload. Return transcripts are already one element
// per tax year, so there is no inner list to walk; an element without a
// usable tax year is skipped.
func parseReturnTranscript(doc document.Document, caseID, rawID uuid.UUID) ([]model.ReturnSummary, int, error) {
	years, _, ok := doc.FirstArray(returnContainers...)
	if !ok {
		return nil, 0, eris.Errorf("pipeline: return transcript has no recognized container (tried %s)",
			strings.Join(returnContainers, ", "))
	}

	var rows []model.ReturnSummary
	skipped := 0
	for _, el := range years {
		yearDoc, ok := document.AsDocument(el)
		if !ok {
			skipped++
			continue
		}
		year, _ := document.ResolveInt(yearDoc, taxYearAliases...)
		if year == nil {
			skipped++
			continue
		}

		row := model.ReturnSummary{
			CaseID:      caseID,
			RawRecordID: rawID,
			TaxYear:     *year,
		}
		row.FilingStatus, _ = document.ResolveText(yearDoc, returnFilingStatusAliases...)
		row.AGI, _ = document.ResolveDecimal(yearDoc, agiAliases...)
		row.TaxableIncome, _ = document.ResolveDecimal(yearDoc, taxableIncomeAliases...)
		row.TotalTax, _ = document.ResolveDecimal(yearDoc, totalTaxAliases...)
		row.FiledDate, _ = document.ResolveDate(yearDoc, filedDateAliases...)
		rows = append(rows, row)
	}
	return rows, skipped, nil
}
