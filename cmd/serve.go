package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/meridian-tax/caseflow/internal/model"
	"github.com/meridian-tax/caseflow/internal/monitoring"
)

// maxDocumentBytes caps ingest request bodies. Transcripts and
// interviews are small; anything larger is a client error.
const maxDocumentBytes = 4 << 20

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP ingest and query API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		metrics := monitoring.NewMetrics(nil)

		if cfg.Monitoring.Enabled {
			checker := monitoring.NewChecker(
				monitoring.NewCollector(env.Store),
				monitoring.NewAlerter(cfg.Monitoring),
				metrics,
				cfg.Monitoring,
			)
			go checker.Run(ctx)
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(env, metrics),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(),
				time.Duration(cfg.Server.ShutdownTimeoutSecs)*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zap.L().Warn("server shutdown", zap.Error(err))
			}
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter wires the HTTP surface: document ingest, record status,
// gold entities, the derived summary, health, and Prometheus metrics.
func newRouter(env *pipelineEnv, metrics *monitoring.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(requestLogger)
	r.Use(metrics.Middleware)
	if cfg.Server.RateLimitRPS > 0 {
		r.Use(throttle(rate.NewLimiter(rate.Limit(cfg.Server.RateLimitRPS), cfg.Server.RateLimitBurst)))
	}

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := env.Store.Ping(req.Context()); err != nil {
			zap.L().Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/cases/{caseRef}/documents/{sourceType}", handleIngest(env))
		r.Get("/documents/{sourceType}/{id}", handleGetDocument(env))
		r.Get("/cases/{caseRef}/entities", handleGetEntities(env))
		r.Get("/cases/{caseRef}/summary", handleGetSummary(env))
	})

	return r
}

// handleIngest accepts a raw document and processes it synchronously.
// The response carries the full ingest result; a record that failed
// resolution still returns 200 since the failure is recorded on the
// record itself.
func handleIngest(env *pipelineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		source, ok := model.ParseSourceType(chi.URLParam(r, "sourceType"))
		if !ok {
			writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("unknown source type %q", chi.URLParam(r, "sourceType")))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBytes)
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			writeJSONError(w, http.StatusBadRequest, "read request body")
			return
		}
		if !json.Valid(payload) {
			writeJSONError(w, http.StatusBadRequest, "request body is not valid JSON")
			return
		}

		result, err := env.Processor.Submit(r.Context(), chi.URLParam(r, "caseRef"), source, payload)
		if err != nil {
			zap.L().Error("ingest failed", zap.Error(err))
			writeJSONError(w, http.StatusInternalServerError, "ingest failed")
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func handleGetDocument(env *pipelineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		source, ok := model.ParseSourceType(chi.URLParam(r, "sourceType"))
		if !ok {
			writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("unknown source type %q", chi.URLParam(r, "sourceType")))
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid record id")
			return
		}

		rec, err := env.Store.GetRawRecord(r.Context(), source, id)
		if err != nil {
			zap.L().Error("get document failed", zap.Error(err))
			writeJSONError(w, http.StatusInternalServerError, "get document failed")
			return
		}
		if rec == nil {
			writeJSONError(w, http.StatusNotFound, "record not found")
			return
		}

		writeJSON(w, http.StatusOK, rec)
	}
}

func handleGetEntities(env *pipelineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseRow, err := env.Store.GetCase(r.Context(), chi.URLParam(r, "caseRef"))
		if err != nil {
			zap.L().Error("get entities failed", zap.Error(err))
			writeJSONError(w, http.StatusInternalServerError, "get entities failed")
			return
		}
		if caseRow == nil {
			writeJSONError(w, http.StatusNotFound, "case not found")
			return
		}

		set, err := env.Store.GetGoldEntities(r.Context(), caseRow.ID)
		if err != nil {
			zap.L().Error("get entities failed", zap.Error(err))
			writeJSONError(w, http.StatusInternalServerError, "get entities failed")
			return
		}

		writeJSON(w, http.StatusOK, set)
	}
}

func handleGetSummary(env *pipelineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := loadCaseData(r.Context(), env.Store, chi.URLParam(r, "caseRef"))
		if err != nil {
			zap.L().Error("get summary failed", zap.Error(err))
			writeJSONError(w, http.StatusInternalServerError, "get summary failed")
			return
		}
		if data == nil {
			writeJSONError(w, http.StatusNotFound, "case not found")
			return
		}

		writeJSON(w, http.StatusOK, data.Summary)
	}
}

// requestLogger logs each request with method, path, status, and
// duration on the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// throttle applies a shared token bucket across all requests.
func throttle(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
