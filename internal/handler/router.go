// Package handler wires the HTTP surface: routing, middleware, request
// decoding and domain-error mapping.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/riyahstaff/credifyai-sub001/internal/bureau"
	"github.com/riyahstaff/credifyai-sub001/internal/domain"
	"github.com/riyahstaff/credifyai-sub001/internal/infra/observability"
	"github.com/riyahstaff/credifyai-sub001/internal/service"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// A nil auth service disables authentication (local development and tests).
func NewRouter(
	analyzerSvc *service.Analyzer,
	lettersSvc *service.Letters,
	authSvc *service.Auth,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Token exchange is the only route outside the auth wall.
		r.Post("/auth/token", issueTokenHandler(authSvc, logger))

		// Static bureau reference data.
		r.Get("/bureaus/{name}/address", bureauAddressHandler(logger))

		// Pipeline counters as JSON (Prometheus exposition lives on /metrics).
		r.Get("/metrics/pipeline", pipelineMetricsHandler(metrics, logger))

		r.Group(func(r chi.Router) {
			if authSvc != nil {
				r.Use(JWTAuthMiddleware(authSvc, logger))
			}

			// Reports
			r.Post("/reports/analyze", analyzeHandler(analyzerSvc, logger))
			r.Get("/reports", listReportsHandler(analyzerSvc, logger))
			r.Get("/reports/{reportId}", getReportHandler(analyzerSvc, logger))
			r.Get("/reports/{reportId}/issues", getIssuesHandler(analyzerSvc, logger))

			// Letters
			r.Post("/reports/{reportId}/letters", generateLettersHandler(lettersSvc, logger))
			r.Get("/reports/{reportId}/letters", listLettersHandler(lettersSvc, logger))
			r.Get("/letters/{letterId}", getLetterHandler(lettersSvc, logger))
			r.Patch("/letters/{letterId}/status", updateLetterStatusHandler(lettersSvc, logger))
		})
	})

	return r
}

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func bureauAddressHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /bureaus/{name}/address")
		defer span.End()

		name := bureau.Normalize(chi.URLParam(r, "name"))
		writeJSON(w, http.StatusOK, domain.BureauAddressResponse{
			Name:    name,
			Address: bureau.Address(name),
		})
	}
}

func pipelineMetricsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /metrics/pipeline")
		defer span.End()

		writeJSON(w, http.StatusOK, metrics.PipelineSnapshot())
	}
}
