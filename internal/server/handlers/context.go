package handlers

import (
	"context"

	"github.com/iudanet/vidhub/internal/models"
)

// contextKey тип для ключей контекста
type contextKey string

const (
	// UserKey ключ для хранения аутентифицированного пользователя в контексте
	UserKey contextKey = "user"
	// SessionIDKey ключ для хранения id сессии из access token
	SessionIDKey contextKey = "session_id"
)

// WithUser сохраняет пользователя и его сессию в контексте запроса
func WithUser(ctx context.Context, user *models.User, sessionID string) context.Context {
	ctx = context.WithValue(ctx, UserKey, user.Sanitized())
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// UserFromContext извлекает пользователя из контекста запроса
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok && user != nil
}

// SessionIDFromContext извлекает id сессии из контекста запроса
func SessionIDFromContext(ctx context.Context) string {
	sessionID, _ := ctx.Value(SessionIDKey).(string)
	return sessionID
}
