package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/meridian-tax/caseflow/internal/calc"
	"github.com/meridian-tax/caseflow/internal/export"
	"github.com/meridian-tax/caseflow/internal/store"
)

// loadCaseData gathers everything derived output needs for one case:
// gold entities, silver rows, and the computed summary. Returns nil
// when the case does not exist.
func loadCaseData(ctx context.Context, st store.Store, caseRef string) (*export.CaseData, error) {
	caseRow, err := st.GetCase(ctx, caseRef)
	if err != nil {
		return nil, eris.Wrap(err, "load case")
	}
	if caseRow == nil {
		return nil, nil
	}

	entities, err := st.GetGoldEntities(ctx, caseRow.ID)
	if err != nil {
		return nil, eris.Wrap(err, "load gold entities")
	}

	activity, err := st.ListAccountActivity(ctx, caseRow.ID)
	if err != nil {
		return nil, eris.Wrap(err, "load account activity")
	}

	wageDocs, err := st.ListWageDocuments(ctx, caseRow.ID)
	if err != nil {
		return nil, eris.Wrap(err, "load wage documents")
	}

	returns, err := st.ListReturnSummaries(ctx, caseRow.ID)
	if err != nil {
		return nil, eris.Wrap(err, "load return summaries")
	}

	now := time.Now()
	return &export.CaseData{
		Case:        caseRow,
		Summary:     calc.Summary(caseRef, entities, activity, wageDocs, returns, now, statuteOptions()),
		Entities:    entities,
		Activity:    activity,
		WageDocs:    wageDocs,
		Returns:     returns,
		GeneratedAt: now,
	}, nil
}
