package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/vidhub/internal/models"
	"github.com/iudanet/vidhub/internal/server/apperr"
	"github.com/iudanet/vidhub/internal/server/handlers"
	"github.com/iudanet/vidhub/internal/server/jwt"
	"github.com/iudanet/vidhub/internal/server/storage"
)

const (
	msgUnauthorized       = "unauthorized request"
	msgInvalidAccessToken = "Invalid Access Token"
)

// UserLookup находит пользователя по id из токена
type UserLookup interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

// Authenticator создает middleware для проверки access токена.
// Токен берется из cookie accessToken, иначе из заголовка Authorization.
func Authenticator(logger *slog.Logger, tokens *jwt.Service, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := accessToken(r)
			if tokenString == "" {
				handlers.WriteError(w, r, logger, apperr.Unauthorized(msgUnauthorized))
				return
			}

			claims, err := tokens.VerifyAccessToken(tokenString)
			if err != nil {
				logger.DebugContext(r.Context(), "invalid access token", slog.Any("error", err))
				handlers.WriteError(w, r, logger, apperr.Unauthorized(err.Error()).Wrap(err))
				return
			}

			// Пользователь мог быть удален после выдачи токена
			user, err := users.GetUserByID(r.Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, storage.ErrUserNotFound) {
					handlers.WriteError(w, r, logger, apperr.Unauthorized(msgInvalidAccessToken))
					return
				}
				handlers.WriteError(w, r, logger, apperr.Internal("", err))
				return
			}

			logger.DebugContext(r.Context(), "user authenticated",
				slog.String("user_id", user.ID),
				slog.String("session_id", claims.SessionID),
			)

			next.ServeHTTP(w, r.WithContext(handlers.WithUser(r.Context(), user, claims.SessionID)))
		})
	}
}

// accessToken извлекает токен: cookie имеет приоритет над Bearer
func accessToken(r *http.Request) string {
	if cookie, err := r.Cookie(handlers.AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	// Ожидаем формат: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
