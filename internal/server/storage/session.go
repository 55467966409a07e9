package storage

import (
	"context"
	"time"

	"github.com/iudanet/vidhub/internal/models"
)

// SessionStorage defines interface for login session persistence
type SessionStorage interface {
	// CreateSession stores a new session
	CreateSession(ctx context.Context, session *models.Session) error

	// GetSession retrieves session by ID
	// Returns ErrSessionNotFound if session doesn't exist
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)

	// GetUserSessions retrieves all sessions for a user, newest first
	// Returns empty slice if no sessions found
	GetUserSessions(ctx context.Context, userID string) ([]*models.Session, error)

	// RotateSession replaces the refresh token fingerprint only if the stored
	// one still equals oldHash (compare-and-swap)
	// Returns ErrSessionRotated if the fingerprint no longer matches,
	// ErrSessionNotFound if the session is gone
	RotateSession(ctx context.Context, sessionID, oldHash, newHash string, expiresAt time.Time) error

	// DeleteSession deletes session by ID
	// Returns ErrSessionNotFound if session doesn't exist
	DeleteSession(ctx context.Context, sessionID string) error

	// DeleteUserSessions deletes all sessions for a user
	// Returns number of deleted sessions
	DeleteUserSessions(ctx context.Context, userID string) (int, error)

	// DeleteExpiredSessions removes all sessions expired before now
	// Returns number of deleted sessions
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)
}
