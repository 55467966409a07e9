package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/vidhub/internal/server/apperr"
	"github.com/iudanet/vidhub/pkg/api"
)

// WriteJSON отправляет success envelope
func WriteJSON[T any](w http.ResponseWriter, logger *slog.Logger, statusCode int, data T, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(api.NewResponse(statusCode, data, message)); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// WriteError отправляет error envelope; причина ошибки клиенту не отдается
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	appErr := apperr.From(err)
	if appErr == nil {
		appErr = apperr.Internal("", nil)
	}

	attrs := []any{
		slog.Int("status", appErr.Status),
		slog.String("message", appErr.Message),
		slog.String("path", r.URL.Path),
	}
	if appErr.Err != nil {
		attrs = append(attrs, slog.Any("error", appErr.Err))
	}
	if appErr.Status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", attrs...)
	} else {
		logger.DebugContext(r.Context(), "request rejected", attrs...)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	if err := json.NewEncoder(w).Encode(api.NewErrorResponse(appErr.Status, appErr.Message, appErr.Errors)); err != nil {
		logger.Error("failed to encode JSON error response", slog.Any("error", err))
	}
}
