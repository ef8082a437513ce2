package pipeline

import (
	"github.com/google/uuid"

	"github.com/meridian-tax/caseflow/internal/document"
	"github.com/meridian-tax/caseflow/internal/model"
)

// resolveInterview maps one interview document onto the wide silver row.
// Resolution never fails the record: a field whose aliases are all
// absent, or whose first present alias will not coerce, stays null. The
// winning alias path for every populated field is recorded so a reviewer
// can see which provider key produced each value.
func resolveInterview(doc document.Document, payload []byte, caseID, rawID uuid.UUID) *model.InterviewRecord {
	rec := &model.InterviewRecord{
		CaseID:        caseID,
		RawRecordID:   rawID,
		Sections:      payload,
		ResolvedPaths: make(map[string]string),
	}

	for _, f := range interviewTextFields {
		if v, path := document.ResolveText(doc, f.paths...); v != nil {
			f.set(rec, v)
			rec.ResolvedPaths[f.name] = path
		}
	}
	for _, f := range interviewIntFields {
		if v, path := document.ResolveInt(doc, f.paths...); v != nil {
			f.set(rec, v)
			rec.ResolvedPaths[f.name] = path
		}
	}
	for _, f := range interviewDecimalFields {
		if v, path := document.ResolveDecimal(doc, f.paths...); v != nil {
			f.set(rec, v)
			rec.ResolvedPaths[f.name] = path
		}
	}

	return rec
}
