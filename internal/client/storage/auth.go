package storage

import (
	"context"
	"time"

	"github.com/iudanet/vidhub/pkg/api"
)

// AuthStorage defines interface for storing the client's session on disk
type AuthStorage interface {
	// SaveAuth replaces the stored session
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth returns ErrAuthNotFound if nobody is logged in
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes stored session (logout)
	DeleteAuth(ctx context.Context) error

	// IsAuthenticated reports whether a session exists whose refresh token has not expired
	IsAuthenticated(ctx context.Context) (bool, error)
}

// AuthData represents the logged-in session kept by the CLI.
// Expiry values are unix seconds.
type AuthData struct {
	UserName         string `json:"user_name"`
	UserID           string `json:"user_id"`
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	AccessExpiresAt  int64  `json:"access_expires_at"`
	RefreshExpiresAt int64  `json:"refresh_expires_at"`
}

// AccessExpired reports whether the access token is past its expiry at now
func (a *AuthData) AccessExpired(now time.Time) bool {
	return !now.Before(time.Unix(a.AccessExpiresAt, 0))
}

// RefreshExpired reports whether the refresh token is past its expiry at now
func (a *AuthData) RefreshExpired(now time.Time) bool {
	return !now.Before(time.Unix(a.RefreshExpiresAt, 0))
}

// ProfileCache keeps the last profile fetched from the server for offline status
type ProfileCache interface {
	SaveProfile(ctx context.Context, user *api.User) error
	// GetProfile returns ErrAuthNotFound if nothing was cached
	GetProfile(ctx context.Context) (*api.User, error)
}
