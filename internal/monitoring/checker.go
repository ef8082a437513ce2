package monitoring

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/meridian-tax/caseflow/internal/config"
)

// Checker drives periodic health evaluation: each pass collects a status
// snapshot, refreshes the record gauges, and hands the snapshot to the
// alerter.
type Checker struct {
	collector *Collector
	alerter   *Alerter
	metrics   *Metrics
	interval  time.Duration
}

// NewChecker builds a background health checker. metrics may be nil when
// no registry is wired.
func NewChecker(collector *Collector, alerter *Alerter, metrics *Metrics, cfg config.MonitoringConfig) *Checker {
	interval := time.Duration(cfg.CheckIntervalSecs) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Checker{
		collector: collector,
		alerter:   alerter,
		metrics:   metrics,
		interval:  interval,
	}
}

// Run blocks until ctx is cancelled. The first check fires immediately so
// a freshly started server reports its backlog without waiting out a full
// interval.
func (c *Checker) Run(ctx context.Context) {
	log := zap.L().With(zap.String("component", "monitoring.checker"))
	log.Info("starting health checker", zap.Duration("interval", c.interval))

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.check(ctx, log)
	for {
		select {
		case <-ctx.Done():
			log.Info("health checker stopped")
			return
		case <-ticker.C:
			c.check(ctx, log)
		}
	}
}

func (c *Checker) check(ctx context.Context, log *zap.Logger) {
	snap, err := c.collector.Collect(ctx)
	if err != nil {
		log.Error("health check: collect failed", zap.Error(err))
		return
	}
	c.metrics.SetStatusGauges(snap)

	alerts := c.alerter.Evaluate(snap)
	if len(alerts) == 0 {
		log.Debug("health check: clear",
			zap.Int("backlog", snap.Backlog),
			zap.Float64("failure_rate", snap.FailureRate),
		)
		return
	}

	delivered := c.alerter.Deliver(ctx, alerts)
	log.Warn("health check: alerts raised",
		zap.Int("raised", len(alerts)),
		zap.Int("delivered", delivered),
	)
}
