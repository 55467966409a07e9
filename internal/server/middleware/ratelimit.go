package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/iudanet/vidhub/internal/server/apperr"
	"github.com/iudanet/vidhub/internal/server/handlers"
)

const msgRateLimited = "rate limit exceeded, please try again later"

// RateLimitMiddleware создает middleware для ограничения частоты запросов по IP
// requests - максимальное количество запросов
// window - временное окно (например, 1 минута)
// requests <= 0 отключает ограничение
func RateLimitMiddleware(requests int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.WarnContext(r.Context(), "Rate limit exceeded",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			handlers.WriteError(w, r, logger, apperr.New(http.StatusTooManyRequests, msgRateLimited))
		}),
	)
}
