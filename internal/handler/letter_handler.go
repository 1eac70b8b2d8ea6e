package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
	"github.com/riyahstaff/credifyai-sub001/internal/service"
)

// ============================================================
// Letter Handlers
// ============================================================

func generateLettersHandler(svc *service.Letters, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /reports/{reportId}/letters")
		defer span.End()

		// An empty body means "all issues".
		var req domain.GenerateLettersRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		letters, err := svc.Generate(ctx, chi.URLParam(r, "reportId"), req.IssueIDs)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, domain.LettersResponse{Letters: letters})
	}
}

func listLettersHandler(svc *service.Letters, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /reports/{reportId}/letters")
		defer span.End()

		letters, err := svc.List(ctx, chi.URLParam(r, "reportId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if letters == nil {
			letters = []domain.Letter{}
		}
		writeJSON(w, http.StatusOK, domain.LettersResponse{Letters: letters})
	}
}

func getLetterHandler(svc *service.Letters, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /letters/{letterId}")
		defer span.End()

		letter, err := svc.Get(ctx, chi.URLParam(r, "letterId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, letter)
	}
}

func updateLetterStatusHandler(svc *service.Letters, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /letters/{letterId}/status")
		defer span.End()

		var req domain.UpdateLetterStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		letterID := chi.URLParam(r, "letterId")
		if err := svc.UpdateStatus(ctx, letterID, req.Status); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		letter, err := svc.Get(ctx, letterID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, letter)
	}
}
