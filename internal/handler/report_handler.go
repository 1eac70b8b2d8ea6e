package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
	"github.com/riyahstaff/credifyai-sub001/internal/service"
)

// ============================================================
// Report Handlers
// ============================================================

func analyzeHandler(svc *service.Analyzer, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /reports/analyze")
		defer span.End()

		var req domain.AnalyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		report, err := svc.Analyze(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, domain.AnalyzeResponse{Report: report})
	}
}

func getReportHandler(svc *service.Analyzer, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /reports/{reportId}")
		defer span.End()

		report, err := svc.GetReport(ctx, chi.URLParam(r, "reportId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.AnalyzeResponse{Report: report})
	}
}

func listReportsHandler(svc *service.Analyzer, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /reports")
		defer span.End()

		page, pageSize := parsePagination(r)
		reports, err := svc.ListReports(ctx, page, pageSize)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if reports == nil {
			reports = []domain.CreditReport{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
	}
}

func getIssuesHandler(svc *service.Analyzer, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /reports/{reportId}/issues")
		defer span.End()

		report, err := svc.GetReport(ctx, chi.URLParam(r, "reportId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		issues := report.Issues
		if issues == nil {
			issues = []domain.Issue{}
		}
		writeJSON(w, http.StatusOK, domain.IssuesResponse{Issues: issues})
	}
}
