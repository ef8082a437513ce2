package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/meridian-tax/caseflow/internal/model"
	"github.com/meridian-tax/caseflow/internal/store"
)

// SourceCounts breaks one source's raw records down by status.
type SourceCounts struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

// MetricsSnapshot holds a point-in-time view of pipeline health.
type MetricsSnapshot struct {
	Sources map[model.SourceType]SourceCounts `json:"sources"`

	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`

	// FailureRate is failed over finished (completed + failed).
	FailureRate float64 `json:"failure_rate"`
	// Backlog counts records still waiting on or inside processing.
	Backlog int `json:"backlog"`

	CollectedAt time.Time `json:"collected_at"`
}

// StatusSource abstracts the store method the collector reads.
type StatusSource interface {
	CountRecordsByStatus(ctx context.Context) (store.StatusCounts, error)
}

// Collector gathers status counts from the store.
type Collector struct {
	source StatusSource
}

// NewCollector creates a new metrics collector.
func NewCollector(source StatusSource) *Collector {
	return &Collector{source: source}
}

// Collect gathers a snapshot of record statuses across every source.
func (c *Collector) Collect(ctx context.Context) (*MetricsSnapshot, error) {
	counts, err := c.source.CountRecordsByStatus(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: count records")
	}

	snap := &MetricsSnapshot{
		Sources:     make(map[model.SourceType]SourceCounts, len(model.AllSourceTypes)),
		CollectedAt: time.Now().UTC(),
	}

	for _, src := range model.AllSourceTypes {
		byStatus := counts[src]
		sc := SourceCounts{
			Pending:    byStatus[model.RecordStatusPending],
			Processing: byStatus[model.RecordStatusProcessing],
			Completed:  byStatus[model.RecordStatusCompleted],
			Failed:     byStatus[model.RecordStatusFailed],
		}
		snap.Sources[src] = sc
		snap.Pending += sc.Pending
		snap.Processing += sc.Processing
		snap.Completed += sc.Completed
		snap.Failed += sc.Failed
	}

	snap.Total = snap.Pending + snap.Processing + snap.Completed + snap.Failed
	snap.Backlog = snap.Pending + snap.Processing
	if finished := snap.Completed + snap.Failed; finished > 0 {
		snap.FailureRate = float64(snap.Failed) / float64(finished)
	}

	return snap, nil
}
