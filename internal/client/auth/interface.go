package auth

import (
	"context"

	"github.com/iudanet/vidhub/internal/client/api"
	"github.com/iudanet/vidhub/internal/client/storage"
	pkgapi "github.com/iudanet/vidhub/pkg/api"
)

//go:generate moq -out service_mock.go . Service

// Service defines the main interface for authentication operations.
// It owns the stored session: Login saves it, Logout removes it and
// WithAccessToken keeps it fresh.
type Service interface {
	// Register регистрирует нового пользователя, сессия не создается
	Register(ctx context.Context, form api.RegisterForm) (*pkgapi.User, error)

	// Login выполняет вход по username или email и сохраняет сессию
	Login(ctx context.Context, identifier, password string) (*storage.AuthData, error)

	// Logout завершает сессию на сервере и всегда удаляет локальные данные
	Logout(ctx context.Context) error

	// Refresh обменивает сохраненный refresh token на новую пару
	Refresh(ctx context.Context) (*storage.AuthData, error)

	// Session возвращает сохраненную сессию или storage.ErrAuthNotFound
	Session(ctx context.Context) (*storage.AuthData, error)

	// WithAccessToken вызывает fn с действующим access token.
	// При ответе 401 токены обновляются и fn повторяется один раз.
	WithAccessToken(ctx context.Context, fn func(accessToken string) error) error
}

var _ Service = (*AuthService)(nil)
