package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-tax/caseflow/internal/model"
)

func gatherNames(t *testing.T, reg *prometheus.Registry) map[string]int {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]int, len(families))
	for _, f := range families {
		names[f.GetName()] = len(f.GetMetric())
	}
	return names
}

func TestNewMetrics_RegistersInstruments(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	require.NotNil(t, m)

	m.ObserveRecord("account_transcript", "completed", 25*time.Millisecond)
	m.ObserveHTTP(http.MethodPost, "/v1/cases/{caseRef}/documents/{sourceType}", http.StatusAccepted, 5*time.Millisecond)
	m.SetStatusGauges(&MetricsSnapshot{Sources: map[model.SourceType]SourceCounts{
		model.SourceAccountTranscript: {Pending: 3, Failed: 1},
	}})

	names := gatherNames(t, reg)
	assert.Equal(t, 1, names["caseflow_records_processed_total"])
	assert.Equal(t, 1, names["caseflow_record_processing_duration_seconds"])
	assert.Equal(t, 1, names["caseflow_http_requests_total"])
	assert.Equal(t, 1, names["caseflow_http_request_duration_seconds"])
	// One series per status for the single source in the snapshot.
	assert.Equal(t, 4, names["caseflow_records_by_status"])
}

func TestMetrics_SetStatusGauges_NilSnapshot(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.SetStatusGauges(nil)

	var nilMetrics *Metrics
	nilMetrics.SetStatusGauges(&MetricsSnapshot{})
}

func TestMetrics_NilReceiverIsNoOp(t *testing.T) {
	var m *Metrics
	m.ObserveRecord("interview", "failed", time.Second)
	m.ObserveHTTP(http.MethodGet, "/health", http.StatusOK, time.Millisecond)

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetrics_MiddlewareLabelsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/v1/cases/{caseRef}/summary", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/cases/MER-1001/summary", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	families, err := reg.Gather()
	require.NoError(t, err)

	var routeLabel string
	for _, f := range families {
		if f.GetName() != "caseflow_http_requests_total" {
			continue
		}
		require.Len(t, f.GetMetric(), 1)
		for _, l := range f.GetMetric()[0].GetLabel() {
			if l.GetName() == "route" {
				routeLabel = l.GetValue()
			}
		}
	}
	// The label carries the pattern, not the concrete path.
	assert.Equal(t, "/v1/cases/{caseRef}/summary", routeLabel)
}
