package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/vidhub/internal/models"
	"github.com/iudanet/vidhub/internal/server/storage"
)

const userColumns = `id, user_name, email, full_name, password_hash, avatar, cover_image, created_at, updated_at`

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		strings.ToLower(user.UserName),
		strings.ToLower(user.Email),
		user.FullName,
		user.PasswordHash,
		user.Avatar,
		user.CoverImage,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		// username и email уникальны без учета регистра
		if isUniqueViolation(err) {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return s.getUser(ctx, query, userID)
}

// GetUserByUsername retrieves user by username
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_name = ?`
	return s.getUser(ctx, query, strings.ToLower(username))
}

// FindUserByUsernameOrEmail retrieves the first user matching either field
func (s *Storage) FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" && email == "" {
		return nil, storage.ErrUserNotFound
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE (? <> '' AND user_name = ?) OR (? <> '' AND email = ?)
		ORDER BY created_at
		LIMIT 1
	`
	return s.getUser(ctx, query, username, username, email, email)
}

// UpdateUser applies a partial profile update
func (s *Storage) UpdateUser(ctx context.Context, userID string, update models.UserUpdate) (*models.User, error) {
	var (
		sets []string
		args []any
	)

	if update.FullName != nil {
		sets = append(sets, "full_name = ?")
		args = append(args, *update.FullName)
	}
	if update.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, strings.ToLower(*update.Email))
	}
	if update.Avatar != nil {
		sets = append(sets, "avatar = ?")
		args = append(args, *update.Avatar)
	}
	if update.CoverImage != nil {
		sets = append(sets, "cover_image = ?")
		args = append(args, *update.CoverImage)
	}

	if len(sets) == 0 {
		return s.GetUserByID(ctx, userID)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), userID)

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := rowsAffected(result)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, storage.ErrUserNotFound
	}

	return s.GetUserByID(ctx, userID)
}

// UpdatePasswordHash replaces only the password hash of the user
func (s *Storage) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, passwordHash, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rows, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if rows == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

func (s *Storage) getUser(ctx context.Context, query string, args ...any) (*models.User, error) {
	user := &models.User{}

	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.UserName,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.Avatar,
		&user.CoverImage,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	history, err := s.watchHistoryIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.WatchHistory = history

	return user, nil
}

// watchHistoryIDs returns video IDs of the user's history in view order
func (s *Storage) watchHistoryIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT video_id FROM watch_history WHERE user_id = ? ORDER BY position`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watch history: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan watch history: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return ids, nil
}
