package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/vidhub/internal/client/api"
	"github.com/iudanet/vidhub/internal/client/storage"
	"github.com/iudanet/vidhub/internal/validation"
	pkgapi "github.com/iudanet/vidhub/pkg/api"
)

var (
	// ErrNotLoggedIn возвращается, когда локальной сессии нет или она истекла
	ErrNotLoggedIn = errors.New("not logged in, run 'login' first")
	// ErrServerLogout локальная сессия удалена, но сервер не подтвердил выход
	ErrServerLogout = errors.New("server did not confirm logout")
)

// AuthService хранит сессию CLI в storage.AuthStorage
type AuthService struct {
	apiClient *api.Client
	store     storage.AuthStorage
	now       func() time.Time
}

// NewAuthService создает новый сервис авторизации
func NewAuthService(apiClient *api.Client, store storage.AuthStorage) *AuthService {
	return &AuthService{
		apiClient: apiClient,
		store:     store,
		now:       time.Now,
	}
}

// Register проверяет форму локально и отправляет ее на сервер
func (s *AuthService) Register(ctx context.Context, form api.RegisterForm) (*pkgapi.User, error) {
	if err := validation.ValidateUsername(form.UserName); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}
	if !validation.Email(validation.NormalizeEmail(form.Email)) {
		return nil, fmt.Errorf("invalid email: %q", form.Email)
	}
	if err := validation.ValidatePassword(form.Password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}
	if form.AvatarPath == "" {
		return nil, fmt.Errorf("avatar file is required")
	}

	user, err := s.apiClient.Register(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return user, nil
}

// Login выполняет аутентификацию; идентификатор с '@' считается email
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*storage.AuthData, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("username or email is required")
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	req := pkgapi.LoginRequest{Password: password}
	if strings.Contains(identifier, "@") {
		req.Email = identifier
	} else {
		req.UserName = identifier
	}

	resp, err := s.apiClient.Login(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	auth := authFromTokens(resp.TokenResponse)
	if resp.User != nil {
		auth.UserID = resp.User.ID
		auth.UserName = resp.User.UserName
	}

	if err := s.store.SaveAuth(ctx, auth); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return auth, nil
}

// Logout уведомляет сервер (ошибки сервера не мешают локальному выходу)
func (s *AuthService) Logout(ctx context.Context) error {
	auth, err := s.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return ErrNotLoggedIn
		}
		return fmt.Errorf("failed to read session: %w", err)
	}

	var serverErr error
	if !auth.AccessExpired(s.now()) {
		serverErr = s.apiClient.Logout(ctx, auth.AccessToken)
	}

	if err := s.store.DeleteAuth(ctx); err != nil && !errors.Is(err, storage.ErrAuthNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	// 401 означает, что сессия на сервере уже закрыта
	if serverErr != nil && !api.IsUnauthorized(serverErr) {
		return fmt.Errorf("%w: %w", ErrServerLogout, serverErr)
	}
	return nil
}

// Refresh ротирует токены и сохраняет новую пару.
// Отклоненный refresh token удаляет локальную сессию.
func (s *AuthService) Refresh(ctx context.Context) (*storage.AuthData, error) {
	auth, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.apiClient.Refresh(ctx, auth.RefreshToken)
	if err != nil {
		if api.IsUnauthorized(err) {
			_ = s.store.DeleteAuth(ctx)
			return nil, fmt.Errorf("%w: %w", ErrNotLoggedIn, err)
		}
		return nil, fmt.Errorf("refresh failed: %w", err)
	}

	refreshed := authFromTokens(*resp)
	refreshed.UserID = auth.UserID
	refreshed.UserName = auth.UserName

	if err := s.store.SaveAuth(ctx, refreshed); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return refreshed, nil
}

// Session возвращает сохраненную сессию, если refresh token еще действует
func (s *AuthService) Session(ctx context.Context) (*storage.AuthData, error) {
	auth, err := s.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if auth.RefreshExpired(s.now()) {
		return nil, ErrNotLoggedIn
	}
	return auth, nil
}

// WithAccessToken выполняет fn с access token, обновляя его при необходимости
func (s *AuthService) WithAccessToken(ctx context.Context, fn func(accessToken string) error) error {
	auth, err := s.Session(ctx)
	if err != nil {
		return err
	}

	if auth.AccessExpired(s.now()) {
		if auth, err = s.Refresh(ctx); err != nil {
			return err
		}
	}

	err = fn(auth.AccessToken)
	if !api.IsUnauthorized(err) {
		return err
	}

	auth, err = s.Refresh(ctx)
	if err != nil {
		return err
	}
	return fn(auth.AccessToken)
}

func authFromTokens(tokens pkgapi.TokenResponse) *storage.AuthData {
	return &storage.AuthData{
		AccessToken:      tokens.AccessToken,
		RefreshToken:     tokens.RefreshToken,
		AccessExpiresAt:  tokens.AccessExpiresAt.Unix(),
		RefreshExpiresAt: tokens.RefreshExpiresAt.Unix(),
	}
}
