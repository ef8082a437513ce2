package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/meridian-tax/caseflow/internal/model"
)

// Metrics holds the Prometheus instruments for record processing and the
// HTTP surface.
type Metrics struct {
	RecordsProcessed *prometheus.CounterVec
	RecordsByStatus  *prometheus.GaugeVec
	ProcessDuration  *prometheus.HistogramVec
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
}

// NewMetrics creates and registers the instruments with reg. A nil reg
// registers with the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		RecordsProcessed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_records_processed_total",
			Help: "Raw records processed, by source and final status",
		}, []string{"source", "status"}),
		RecordsByStatus: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "caseflow_records_by_status",
			Help: "Stored raw record counts, by source and current status",
		}, []string{"source", "status"}),
		ProcessDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "caseflow_record_processing_duration_seconds",
			Help:    "Time to carry one raw record through silver and gold",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"source"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_http_requests_total",
			Help: "HTTP requests, by method, route and status code",
		}, []string{"method", "route", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "caseflow_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveRecord records one processed record outcome.
func (m *Metrics) ObserveRecord(source, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RecordsProcessed.WithLabelValues(source, status).Inc()
	m.ProcessDuration.WithLabelValues(source).Observe(d.Seconds())
}

// SetStatusGauges refreshes the per-source record gauges from a snapshot.
func (m *Metrics) SetStatusGauges(snap *MetricsSnapshot) {
	if m == nil || snap == nil {
		return
	}
	for src, sc := range snap.Sources {
		s := string(src)
		m.RecordsByStatus.WithLabelValues(s, string(model.RecordStatusPending)).Set(float64(sc.Pending))
		m.RecordsByStatus.WithLabelValues(s, string(model.RecordStatusProcessing)).Set(float64(sc.Processing))
		m.RecordsByStatus.WithLabelValues(s, string(model.RecordStatusCompleted)).Set(float64(sc.Completed))
		m.RecordsByStatus.WithLabelValues(s, string(model.RecordStatusFailed)).Set(float64(sc.Failed))
	}
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Middleware instruments every request with count and latency, labelled
// by the matched route pattern rather than the raw path.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		m.ObserveHTTP(r.Method, route, ww.Status(), time.Since(start))
	})
}
