package pipeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/meridian-tax/caseflow/internal/document"
	"github.com/meridian-tax/caseflow/internal/lookup"
	"github.com/meridian-tax/caseflow/internal/model"
)

// parseAccountTranscript flattens an account-transcript payload into
// typed, classified activity rows. One row per transaction element. A
// malformed year block or transaction is skipped and counted, never
// fatal; the only fatal condition is a payload with no recognized
// transcript container.
func parseAccountTranscript(doc document.Document, caseID, rawID uuid.UUID, cat lookup.Catalog) ([]model.AccountActivity, int, error) {
	years, _, ok := doc.FirstArray(accountContainers...)
	if !ok {
		return nil, 0, eris.Errorf("pipeline: account transcript has no recognized container (tried %s)",
			strings.Join(accountContainers, ", "))
	}

	var rows []model.AccountActivity
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
		txs, _, ok := yearDoc.FirstArray(txListAliases...)
		if !ok {
			// A year block with no transaction list has nothing to
			// contribute; the year itself is not a row.
			continue
		}
		for _, t := range txs {
			txDoc, ok := document.AsDocument(t)
			if !ok {
				skipped++
				continue
			}
			row, ok := accountRow(txDoc, *year, caseID, rawID, cat)
			if !ok {
				skipped++
				continue
			}
			rows = append(rows, row)
		}
	}
	return rows, skipped, nil
}

// accountRow types one transaction element and denormalizes its
// transaction-code classification onto the row. An element with no
// usable code is unidentifiable and gets skipped.
func accountRow(txDoc document.Document, year int, caseID, rawID uuid.UUID, cat lookup.Catalog) (model.AccountActivity, bool) {
	rawCode, _ := document.ResolveText(txDoc, txCodeAliases...)
	if rawCode == nil {
		return model.AccountActivity{}, false
	}
	code := lookup.NormalizeTransactionCode(*rawCode)
	if code == "" {
		return model.AccountActivity{}, false
	}
	rule := cat.Transaction(code)

	desc, _ := document.ResolveText(txDoc, txDescAliases...)
	date, _ := document.ResolveDate(txDoc, txDateAliases...)
	amount, _ := document.ResolveDecimal(txDoc, txAmountAliases...)

	row := model.AccountActivity{
		CaseID:              caseID,
		RawRecordID:         rawID,
		TaxYear:             year,
		Code:                code,
		Description:         rule.Description,
		Date:                date,
		Amount:              amount,
		Category:            rule.Category,
		AffectsBalance:      rule.AffectsBalance,
		IsPayment:           rule.IsPayment,
		IsPenaltyOrInterest: rule.IsPenaltyOrInterest,
		StartsStatute:       rule.StartsStatute,
		TollingCategory:     rule.TollingCategory,
		TollingDays:         cat.TollingDays(rule.TollingCategory),
		DedupKey:            activityDedupKey(code, date, amount),
	}
	// The transcript's own explanation text wins over the curated rule
	// description when present.
	if desc != nil {
		row.Description = *desc
	}
	return row, true
}

// activityDedupKey identifies a transaction within its case and year.
// Replaying the same transcript reproduces the same key, so the upsert
// collapses onto the existing row instead of duplicating it.
func activityDedupKey(code string, date *time.Time, amount *float64) string {
	d := ""
	if date != nil {
		d = date.Format("2006-01-02")
	}
	a := ""
	if amount != nil {
		a = strconv.FormatFloat(*amount, 'f', 2, 64)
	}
	return code + "|" + d + "|" + a
}
