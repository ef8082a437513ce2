// Package pipeline is the transformation core: it carries one raw case
// document through alias resolution into typed silver rows and, for
// interviews, fans the resolved row out into normalized gold entities.
//
// Processing is synchronous and per record. A record moves
// pending→processing→completed, or →failed with the failure captured as
// its error detail; a failure never propagates to whoever submitted the
// document. Replaying a record is the same code path and is idempotent:
// silver upserts collapse onto their dedup keys and the gold fan-out
// reconciles against what is already stored.
package pipeline

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/meridian-tax/caseflow/internal/document"
	"github.com/meridian-tax/caseflow/internal/lookup"
	"github.com/meridian-tax/caseflow/internal/model"
	"github.com/meridian-tax/caseflow/internal/store"
)

// Processor drives per-record processing: bronze status lifecycle,
// silver resolution, and the gold fan-out for interviews.
type Processor struct {
	store   store.Store
	catalog lookup.Catalog
}

// New creates a Processor over the given store and lookup catalog.
func New(st store.Store, cat lookup.Catalog) *Processor {
	return &Processor{store: st, catalog: cat}
}

// Submit stores a raw document and processes it immediately. The error
// return covers validation and storage of the document itself; once the
// record exists, a processing failure is recorded on the record and
// reported through the result, never raised.
func (p *Processor) Submit(ctx context.Context, caseRef string, source model.SourceType, payload []byte) (*model.IngestResult, error) {
	caseRef = strings.TrimSpace(caseRef)
	if caseRef == "" {
		return nil, eris.New("pipeline: case ref is required")
	}
	if _, ok := model.ParseSourceType(string(source)); !ok {
		return nil, eris.Errorf("pipeline: unknown source type %q", source)
	}
	if !json.Valid(payload) {
		return nil, eris.New("pipeline: payload is not valid JSON")
	}

	rec := &model.RawRecord{
		CaseRef: caseRef,
		Source:  source,
		Payload: payload,
	}
	if err := p.store.InsertRawRecord(ctx, rec); err != nil {
		return nil, eris.Wrap(err, "pipeline: insert raw record")
	}
	return p.Process(ctx, rec)
}

// Process runs one raw record through resolution and updates its status.
// Failures inside the record boundary mark the record failed and come
// back in the result; the error return is reserved for faults in the
// status bookkeeping itself.
func (p *Processor) Process(ctx context.Context, rec *model.RawRecord) (*model.IngestResult, error) {
	log := zap.L().With(
		zap.String("case_ref", rec.CaseRef),
		zap.String("source", string(rec.Source)),
		zap.String("record_id", rec.ID.String()),
	)

	result := &model.IngestResult{
		RecordID: rec.ID,
		CaseRef:  rec.CaseRef,
		Source:   rec.Source,
	}

	if err := p.store.MarkRecordProcessing(ctx, rec.Source, rec.ID); err != nil {
		return nil, eris.Wrap(err, "pipeline: mark processing")
	}

	caseRow, err := p.store.GetOrCreateCase(ctx, rec.CaseRef)
	if err != nil {
		return p.fail(ctx, log, rec, result, eris.Wrap(err, "resolve case"))
	}
	result.CaseID = caseRow.ID

	if err := p.resolve(ctx, caseRow.ID, rec, result); err != nil {
		return p.fail(ctx, log, rec, result, err)
	}

	if err := p.store.MarkRecordCompleted(ctx, rec.Source, rec.ID); err != nil {
		return nil, eris.Wrap(err, "pipeline: mark completed")
	}
	result.Status = model.RecordStatusCompleted
	log.Info("pipeline: record processed",
		zap.Int("silver_rows", result.SilverRows),
		zap.Int("gold_rows", result.GoldRows),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// fail records the failure on the raw record and reports it through the
// result. Silver rows committed before the failure stay put.
func (p *Processor) fail(ctx context.Context, log *zap.Logger, rec *model.RawRecord, result *model.IngestResult, cause error) (*model.IngestResult, error) {
	log.Warn("pipeline: record failed", zap.Error(cause))
	if err := p.store.MarkRecordFailed(ctx, rec.Source, rec.ID, cause.Error()); err != nil {
		return nil, eris.Wrap(err, "pipeline: mark failed")
	}
	result.Status = model.RecordStatusFailed
	result.Error = cause.Error()
	return result, nil
}

func (p *Processor) resolve(ctx context.Context, caseID uuid.UUID, rec *model.RawRecord, result *model.IngestResult) error {
	doc, err := document.Parse(rec.Payload)
	if err != nil {
		return err
	}

	switch rec.Source {
	case model.SourceAccountTranscript:
		rows, skipped, err := parseAccountTranscript(doc, caseID, rec.ID, p.catalog)
		if err != nil {
			return err
		}
		n, err := p.store.UpsertAccountActivity(ctx, rows)
		if err != nil {
			return err
		}
		result.SilverRows = int(n)
		result.Skipped = skipped

	case model.SourceWageAndIncome:
		rows, skipped, err := parseWageTranscript(doc, caseID, rec.ID, p.catalog)
		if err != nil {
			return err
		}
		n, err := p.store.UpsertWageDocuments(ctx, rows)
		if err != nil {
			return err
		}
		result.SilverRows = int(n)
		result.Skipped = skipped

	case model.SourceReturnTranscript:
		rows, skipped, err := parseReturnTranscript(doc, caseID, rec.ID)
		if err != nil {
			return err
		}
		for i := range rows {
			if err := p.store.UpsertReturnSummary(ctx, &rows[i]); err != nil {
				return err
			}
		}
		result.SilverRows = len(rows)
		result.Skipped = skipped

	case model.SourceInterview:
		iv := resolveInterview(doc, rec.Payload, caseID, rec.ID)
		if err := p.store.UpsertInterview(ctx, iv); err != nil {
			return err
		}
		result.SilverRows = 1
		diff, err := p.FanOutGold(ctx, caseID)
		if err != nil {
			return err
		}
		if diff != nil && diff.Desired != nil {
			result.GoldRows = diff.Desired.Count()
		}

	default:
		return eris.Errorf("pipeline: unknown source type %q", rec.Source)
	}
	return nil
}

// FanOutGold rebuilds the gold entity set for a case from its stored
// interview and applies the reconciled diff in one transaction. A case
// with no interview yet is a no-op, not an error.
func (p *Processor) FanOutGold(ctx context.Context, caseID uuid.UUID) (*model.GoldDiff, error) {
	iv, err := p.store.GetInterview(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, nil
	}

	existing, err := p.store.GetGoldEntities(ctx, caseID)
	if err != nil {
		return nil, err
	}
	desired := BuildGold(iv)
	diff := Reconcile(existing, desired)
	if diff.Empty() {
		return diff, nil
	}
	if err := p.store.ApplyGoldDiff(ctx, caseID, diff); err != nil {
		return nil, err
	}
	zap.L().Info("pipeline: gold entities reconciled",
		zap.String("case_id", caseID.String()),
		zap.Int("inserted", diff.Inserted),
		zap.Int("updated", diff.Updated),
		zap.Int("deleted", diff.Deleted),
	)
	return diff, nil
}

// Replay reprocesses one stored raw record through the same path a fresh
// submission takes.
func (p *Processor) Replay(ctx context.Context, source model.SourceType, id uuid.UUID) (*model.IngestResult, error) {
	rec, err := p.store.GetRawRecord(ctx, source, id)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load record for replay")
	}
	if rec == nil {
		return nil, eris.Errorf("pipeline: record not found: %s", id)
	}
	return p.Process(ctx, rec)
}

// ReplayAll reprocesses every stored record matching the filter with a
// bounded number of workers. Per-record failures land on the records as
// usual; the error return covers listing and status bookkeeping.
func (p *Processor) ReplayAll(ctx context.Context, filter store.RecordFilter, workers int) ([]model.IngestResult, error) {
	if workers < 1 {
		workers = 1
	}
	records, err := p.store.ListRawRecords(ctx, filter)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: list records for replay")
	}

	results := make([]model.IngestResult, len(records))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range records {
		g.Go(func() error {
			res, err := p.Process(gCtx, &records[i])
			if err != nil {
				return err
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
