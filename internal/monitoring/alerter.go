package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/meridian-tax/caseflow/internal/config"
)

// AlertType identifies the kind of alert.
type AlertType string

const (
	AlertFailureRate AlertType = "processing_failure_rate"
	AlertBacklog     AlertType = "ingest_backlog"
)

// minFinishedForRateAlert is the number of finished records required
// before the failure rate is considered meaningful.
const minFinishedForRateAlert = 5

// Alert represents a single alert to be sent.
type Alert struct {
	Type      AlertType      `json:"type"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Alerter evaluates snapshots against the configured thresholds and posts
// breaches to a webhook. A breach that persists across checks is posted
// once per cooldown window, not once per check.
type Alerter struct {
	cfg      config.MonitoringConfig
	client   *http.Client
	cooldown time.Duration

	mu       sync.Mutex
	lastSent map[AlertType]time.Time
}

// NewAlerter creates an Alerter from the monitoring config.
func NewAlerter(cfg config.MonitoringConfig) *Alerter {
	cooldown := time.Duration(cfg.AlertCooldownSecs) * time.Second
	if cooldown <= 0 {
		cooldown = 30 * time.Minute
	}
	return &Alerter{
		cfg:      cfg,
		client:   &http.Client{Timeout: 10 * time.Second},
		cooldown: cooldown,
		lastSent: make(map[AlertType]time.Time),
	}
}

// Evaluate checks the snapshot against thresholds and returns any alerts.
func (a *Alerter) Evaluate(snap *MetricsSnapshot) []Alert {
	now := time.Now().UTC()

	var alerts []Alert
	if al := a.failureRateAlert(snap, now); al != nil {
		alerts = append(alerts, *al)
	}
	if al := a.backlogAlert(snap, now); al != nil {
		alerts = append(alerts, *al)
	}
	return alerts
}

// failureRateAlert fires when the failed share of finished records
// crosses the threshold, once enough records have finished for the rate
// to mean anything.
func (a *Alerter) failureRateAlert(snap *MetricsSnapshot, now time.Time) *Alert {
	finished := snap.Completed + snap.Failed
	if finished < minFinishedForRateAlert || snap.FailureRate <= a.cfg.FailureRateThreshold {
		return nil
	}
	return &Alert{
		Type:     AlertFailureRate,
		Severity: "high",
		Message: fmt.Sprintf(
			"Processing failure rate %.1f%% exceeds threshold %.1f%% (%d failed / %d finished)",
			snap.FailureRate*100, a.cfg.FailureRateThreshold*100,
			snap.Failed, finished,
		),
		Details: map[string]any{
			"failure_rate": snap.FailureRate,
			"threshold":    a.cfg.FailureRateThreshold,
			"failed":       snap.Failed,
			"finished":     finished,
		},
		Timestamp: now,
	}
}

// backlogAlert fires when too many records sit pending or stuck in
// processing. A zero threshold disables the rule.
func (a *Alerter) backlogAlert(snap *MetricsSnapshot, now time.Time) *Alert {
	if a.cfg.BacklogThreshold <= 0 || snap.Backlog <= a.cfg.BacklogThreshold {
		return nil
	}
	return &Alert{
		Type:     AlertBacklog,
		Severity: "medium",
		Message: fmt.Sprintf(
			"%d records pending or stuck in processing exceeds threshold %d",
			snap.Backlog, a.cfg.BacklogThreshold,
		),
		Details: map[string]any{
			"backlog":    snap.Backlog,
			"threshold":  a.cfg.BacklogThreshold,
			"pending":    snap.Pending,
			"processing": snap.Processing,
		},
		Timestamp: now,
	}
}

// Deliver posts alerts to the configured webhook, skipping any type still
// inside its cooldown window. Returns the number actually posted.
func (a *Alerter) Deliver(ctx context.Context, alerts []Alert) int {
	if a.cfg.WebhookURL == "" || len(alerts) == 0 {
		return 0
	}

	sent := 0
	for _, alert := range alerts {
		if !a.claimSendSlot(alert.Type, alert.Timestamp) {
			zap.L().Debug("monitoring: alert suppressed by cooldown",
				zap.String("type", string(alert.Type)),
			)
			continue
		}
		if err := a.post(ctx, alert); err != nil {
			a.releaseSendSlot(alert.Type)
			zap.L().Error("monitoring: failed to send alert",
				zap.String("type", string(alert.Type)),
				zap.Error(err),
			)
			continue
		}
		zap.L().Info("monitoring: alert sent",
			zap.String("type", string(alert.Type)),
			zap.String("severity", alert.Severity),
		)
		sent++
	}
	return sent
}

// claimSendSlot marks the type as sent at ts unless a prior send is still
// inside the cooldown window.
func (a *Alerter) claimSendSlot(t AlertType, ts time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if last, ok := a.lastSent[t]; ok && ts.Sub(last) < a.cooldown {
		return false
	}
	a.lastSent[t] = ts
	return true
}

// releaseSendSlot clears a claim after a failed post so the next check
// retries instead of waiting out the cooldown.
func (a *Alerter) releaseSendSlot(t AlertType) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.lastSent, t)
}

func (a *Alerter) post(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return eris.Wrap(err, "monitoring: marshal alert")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "monitoring: create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "monitoring: webhook request")
	}
	defer resp.Body.Close()        //nolint:errcheck
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode >= 400 {
		return eris.Errorf("monitoring: webhook returned status %d", resp.StatusCode)
	}
	return nil
}
