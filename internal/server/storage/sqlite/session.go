package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/vidhub/internal/models"
	"github.com/iudanet/vidhub/internal/server/storage"
)

const sessionColumns = `id, user_id, token_hash, user_agent, ip, issued_at, expires_at, rotated_at`

// CreateSession stores a new session
func (s *Storage) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		session.TokenHash,
		session.UserAgent,
		session.IP,
		session.IssuedAt.UTC(),
		session.ExpiresAt.UTC(),
		session.RotatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// GetSession retrieves session by ID
func (s *Storage) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`

	session, err := scanSession(s.db.QueryRowContext(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// GetUserSessions retrieves all sessions for a user
func (s *Storage) GetUserSessions(ctx context.Context, userID string) ([]*models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE user_id = ?
		ORDER BY issued_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user sessions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	sessions := []*models.Session{}

	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return sessions, nil
}

// RotateSession swaps the refresh token fingerprint if it still equals oldHash
func (s *Storage) RotateSession(ctx context.Context, sessionID, oldHash, newHash string, expiresAt time.Time) error {
	query := `
		UPDATE sessions
		SET token_hash = ?, expires_at = ?, rotated_at = ?
		WHERE id = ? AND token_hash = ?
	`

	result, err := s.db.ExecContext(ctx, query, newHash, expiresAt.UTC(), time.Now().UTC(), sessionID, oldHash)
	if err != nil {
		return fmt.Errorf("failed to rotate session: %w", err)
	}

	rows, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if rows == 1 {
		return nil
	}

	// Различаем "сессия удалена" и "токен уже ротирован"
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return err
	}
	return storage.ErrSessionRotated
}

// DeleteSession deletes session by ID
func (s *Storage) DeleteSession(ctx context.Context, sessionID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rows, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if rows == 0 {
		return storage.ErrSessionNotFound
	}

	return nil
}

// DeleteUserSessions deletes all sessions for a user
func (s *Storage) DeleteUserSessions(ctx context.Context, userID string) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user sessions: %w", err)
	}

	rows, err := rowsAffected(result)
	if err != nil {
		return 0, err
	}

	return int(rows), nil
}

// DeleteExpiredSessions removes all sessions whose refresh token expired before now
func (s *Storage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	rows, err := rowsAffected(result)
	if err != nil {
		return 0, err
	}

	return int(rows), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.Session, error) {
	session := &models.Session{}
	var rotatedAt sql.NullTime

	if err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.UserAgent,
		&session.IP,
		&session.IssuedAt,
		&session.ExpiresAt,
		&rotatedAt,
	); err != nil {
		return nil, err
	}

	if rotatedAt.Valid {
		session.RotatedAt = &rotatedAt.Time
	}

	return session, nil
}
