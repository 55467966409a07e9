package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/vidhub/internal/models"
	"github.com/iudanet/vidhub/internal/server/storage"
)

// CreateVideo stores a new video
// Публикация видео не входит в API, метод заполняет каталог для истории просмотров
func (s *Storage) CreateVideo(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO videos (id, owner_id, video_file, thumbnail, title, description,
			duration, views, is_published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	if video.CreatedAt.IsZero() {
		video.CreatedAt = now
	}
	if video.UpdatedAt.IsZero() {
		video.UpdatedAt = video.CreatedAt
	}

	_, err := s.db.ExecContext(ctx, query,
		video.ID,
		video.OwnerID,
		video.VideoFile,
		video.Thumbnail,
		video.Title,
		video.Description,
		video.Duration,
		video.Views,
		video.IsPublished,
		video.CreatedAt,
		video.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}

	return nil
}

// AppendWatchHistory appends a view to the user's history in one transaction
func (s *Storage) AppendWatchHistory(ctx context.Context, userID, videoID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, userID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if exists == 0 {
		return storage.ErrUserNotFound
	}

	result, err := tx.ExecContext(ctx, `UPDATE videos SET views = views + 1 WHERE id = ?`, videoID)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	rows, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if rows == 0 {
		return storage.ErrVideoNotFound
	}

	// Позиция монотонно растет, порядок просмотра сохраняется
	query := `
		INSERT INTO watch_history (user_id, position, video_id, watched_at)
		SELECT ?, COALESCE(MAX(position), 0) + 1, ?, ?
		FROM watch_history
		WHERE user_id = ?
	`
	if _, err := tx.ExecContext(ctx, query, userID, videoID, time.Now().UTC(), userID); err != nil {
		return fmt.Errorf("failed to append watch history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}
