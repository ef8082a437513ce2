package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-tax/caseflow/internal/config"
)

func TestAlerter_Evaluate_NoAlerts(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{
		FailureRateThreshold: 0.10,
		BacklogThreshold:     500,
	})

	snap := &MetricsSnapshot{
		Total:       100,
		Completed:   95,
		Failed:      5,
		FailureRate: 0.05,
		Backlog:     0,
	}

	alerts := a.Evaluate(snap)
	assert.Empty(t, alerts)
}

func TestAlerter_Evaluate_FailureRate(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{
		FailureRateThreshold: 0.10,
		BacklogThreshold:     500,
	})

	snap := &MetricsSnapshot{
		Total:       20,
		Completed:   12,
		Failed:      8,
		FailureRate: 0.4, // 8/20 = 40%
	}

	alerts := a.Evaluate(snap)
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertFailureRate, alerts[0].Type)
	assert.Equal(t, "high", alerts[0].Severity)
	assert.Contains(t, alerts[0].Message, "40.0%")
	assert.False(t, alerts[0].Timestamp.IsZero())
}

func TestAlerter_Evaluate_MinimumFinishedRequired(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{
		FailureRateThreshold: 0.10,
	})

	// Only 3 finished records, below the 5-record minimum for a rate alert.
	snap := &MetricsSnapshot{
		Total:       3,
		Completed:   1,
		Failed:      2,
		FailureRate: 0.666,
	}

	alerts := a.Evaluate(snap)
	assert.Empty(t, alerts)
}

func TestAlerter_Evaluate_Backlog(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{
		FailureRateThreshold: 0.10,
		BacklogThreshold:     500,
	})

	snap := &MetricsSnapshot{
		Total:      700,
		Pending:    550,
		Processing: 50,
		Completed:  100,
		Backlog:    600,
	}

	alerts := a.Evaluate(snap)
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertBacklog, alerts[0].Type)
	assert.Equal(t, "medium", alerts[0].Severity)
	assert.Contains(t, alerts[0].Message, "600")
}

func TestAlerter_Evaluate_ZeroBacklogThreshold(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{
		BacklogThreshold: 0, // disabled
	})

	snap := &MetricsSnapshot{
		Total:   999,
		Pending: 999,
		Backlog: 999,
	}

	alerts := a.Evaluate(snap)
	assert.Empty(t, alerts)
}

func TestAlerter_Evaluate_MultipleAlerts(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{
		FailureRateThreshold: 0.10,
		BacklogThreshold:     100,
	})

	snap := &MetricsSnapshot{
		Total:       320,
		Pending:     150,
		Completed:   10,
		Failed:      10,
		FailureRate: 0.5,
		Backlog:     150,
	}

	alerts := a.Evaluate(snap)
	assert.Len(t, alerts, 2)

	types := make(map[AlertType]bool)
	for _, alert := range alerts {
		types[alert.Type] = true
	}
	assert.True(t, types[AlertFailureRate])
	assert.True(t, types[AlertBacklog])
}

func TestAlerter_Deliver_Webhook(t *testing.T) {
	var received atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var alert Alert
		err := json.NewDecoder(r.Body).Decode(&alert)
		require.NoError(t, err)
		assert.NotEmpty(t, alert.Type)
		received.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	a := NewAlerter(config.MonitoringConfig{
		WebhookURL: ts.URL,
	})

	alerts := []Alert{
		{Type: AlertFailureRate, Severity: "high", Message: "test alert 1"},
		{Type: AlertBacklog, Severity: "medium", Message: "test alert 2"},
	}

	sent := a.Deliver(context.Background(), alerts)
	assert.Equal(t, 2, sent)
	assert.Equal(t, int32(2), received.Load())
}

func TestAlerter_Deliver_EmptyURL(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{
		WebhookURL: "",
	})

	sent := a.Deliver(context.Background(), []Alert{
		{Type: AlertFailureRate, Message: "test"},
	})
	assert.Equal(t, 0, sent)
}

func TestAlerter_Deliver_EmptyAlerts(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{
		WebhookURL: "http://example.com",
	})

	sent := a.Deliver(context.Background(), nil)
	assert.Equal(t, 0, sent)
}

func TestAlerter_Deliver_WebhookError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	a := NewAlerter(config.MonitoringConfig{
		WebhookURL: ts.URL,
	})

	alerts := []Alert{
		{Type: AlertFailureRate, Message: "test"},
	}

	sent := a.Deliver(context.Background(), alerts)
	assert.Equal(t, 0, sent)
}

func TestAlerter_Deliver_CooldownSuppressesRepeat(t *testing.T) {
	var received atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		received.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	a := NewAlerter(config.MonitoringConfig{
		WebhookURL:        ts.URL,
		AlertCooldownSecs: 1800,
	})

	t0 := time.Now().UTC()
	mk := func(ts time.Time, msg string) []Alert {
		return []Alert{{Type: AlertBacklog, Severity: "medium", Message: msg, Timestamp: ts}}
	}

	assert.Equal(t, 1, a.Deliver(context.Background(), mk(t0, "backlog 600")))
	assert.Equal(t, 0, a.Deliver(context.Background(), mk(t0.Add(5*time.Minute), "backlog 650")))
	assert.Equal(t, 1, a.Deliver(context.Background(), mk(t0.Add(31*time.Minute), "backlog 700")))
	assert.Equal(t, int32(2), received.Load())
}

func TestAlerter_Deliver_FailedPostDoesNotConsumeCooldown(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	a := NewAlerter(config.MonitoringConfig{
		WebhookURL:        ts.URL,
		AlertCooldownSecs: 1800,
	})

	alert := []Alert{{Type: AlertFailureRate, Message: "test", Timestamp: time.Now().UTC()}}

	assert.Equal(t, 0, a.Deliver(context.Background(), alert))
	// The failed post released its slot, so the same timestamp retries.
	assert.Equal(t, 1, a.Deliver(context.Background(), alert))
}

func TestAlerter_DefaultCooldown(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{})
	assert.Equal(t, 30*time.Minute, a.cooldown)
}
