package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
	"github.com/riyahstaff/credifyai-sub001/internal/service"
)

func issueTokenHandler(svc *service.Auth, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /auth/token")
		defer span.End()

		if svc == nil {
			writeError(w, http.StatusNotImplemented, "authentication is not configured")
			return
		}

		var req domain.TokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		resp, err := svc.IssueToken(ctx, req.Password)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
