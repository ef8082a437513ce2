package pipeline

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/meridian-tax/caseflow/internal/document"
	"github.com/meridian-tax/caseflow/internal/lookup"
	"github.com/meridian-tax/caseflow/internal/model"
)

// parseWageTranscript flattens a wage-and-income transcript into typed
// income-document rows, one per reported form, classified against the
// form rules. Same isolation discipline as the account parser: bad
// siblings are skipped and counted, only a missing container is fatal.
func parseWageTranscript(doc document.Document, caseID, rawID uuid.UUID, cat lookup.Catalog) ([]model.WageDocument, int, error) {
	years, _, ok := doc.FirstArray(wageContainers...)
	if !ok {
		return nil, 0, eris.Errorf("pipeline: wage transcript has no recognized container (tried %s)",
			strings.Join(wageContainers, ", "))
	}

	var rows []model.WageDocument
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
		forms, _, ok := yearDoc.FirstArray(formListAliases...)
		if !ok {
			continue
		}
		for _, f := range forms {
			formDoc, ok := document.AsDocument(f)
			if !ok {
				skipped++
				continue
			}
			row, ok := wageRow(formDoc, *year, caseID, rawID, cat)
			if !ok {
				skipped++
				continue
			}
			rows = append(rows, row)
		}
	}
	return rows, skipped, nil
}

func wageRow(formDoc document.Document, year int, caseID, rawID uuid.UUID, cat lookup.Catalog) (model.WageDocument, bool) {
	rawForm, _ := document.ResolveText(formDoc, formCodeAliases...)
	if rawForm == nil {
		return model.WageDocument{}, false
	}
	if lookup.NormalizeFormCode(*rawForm) == "" {
		return model.WageDocument{}, false
	}
	// rule.Code is the curated spelling for known forms ("w2" comes back
	// as "W-2") and the normalized input for unknown ones.
	rule := cat.Form(*rawForm)

	payer, _ := document.ResolveText(formDoc, payerAliases...)
	income, _ := document.ResolveDecimal(formDoc, wageIncomeAliases...)
	withholding, _ := document.ResolveDecimal(formDoc, withholdingAliases...)

	row := model.WageDocument{
		CaseID:         caseID,
		RawRecordID:    rawID,
		TaxYear:        year,
		FormCode:       rule.Code,
		Income:         income,
		Withholding:    withholding,
		Category:       rule.Category,
		SelfEmployment: rule.SelfEmployment,
	}
	if payer != nil {
		row.Payer = *payer
	}
	row.DedupKey = wageDedupKey(rule.Code, row.Payer, income)
	return row, true
}

// wageDedupKey identifies an income document within its case and year.
// Payer participates because one year routinely carries several forms of
// the same type from different payers.
func wageDedupKey(code, payer string, income *float64) string {
	a := ""
	if income != nil {
		a = strconv.FormatFloat(*income, 'f', 2, 64)
	}
	return code + "|" + strings.ToLower(strings.TrimSpace(payer)) + "|" + a
}
