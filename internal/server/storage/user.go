package storage

import (
	"context"

	"github.com/iudanet/vidhub/internal/models"
)

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrUserAlreadyExists if username or email is taken (case-insensitive)
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves user by ID, including watch history
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// GetUserByUsername retrieves user by username (case-insensitive)
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// FindUserByUsernameOrEmail retrieves the first user whose username
	// or email matches (case-insensitive). Empty arguments never match.
	// Returns ErrUserNotFound if nothing matches
	FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)

	// UpdateUser applies a partial profile update and returns the fresh record
	// Returns ErrUserNotFound if user doesn't exist,
	// ErrUserAlreadyExists if the new email is taken
	UpdateUser(ctx context.Context, userID string, update models.UserUpdate) (*models.User, error)

	// UpdatePasswordHash replaces only the password hash
	// Returns ErrUserNotFound if user doesn't exist
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
}
