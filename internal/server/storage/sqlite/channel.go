package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/vidhub/internal/models"
	"github.com/iudanet/vidhub/internal/server/storage"
)

// GetChannelProfile resolves username and aggregates its subscription edges
func (s *Storage) GetChannelProfile(ctx context.Context, username, requesterID string) (*models.ChannelProfile, error) {
	query := `
		SELECT
			u.id, u.full_name, u.user_name, u.email, u.avatar, u.cover_image,
			(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id),
			(SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id),
			EXISTS (
				SELECT 1 FROM subscriptions s
				WHERE s.channel_id = u.id AND s.subscriber_id = ?
			)
		FROM users u
		WHERE u.user_name = ?
	`

	profile := &models.ChannelProfile{}

	err := s.db.QueryRowContext(ctx, query, requesterID, strings.ToLower(username)).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.UserName,
		&profile.Email,
		&profile.Avatar,
		&profile.CoverImage,
		&profile.SubscribersCount,
		&profile.ChannelsSubscribedToCount,
		&profile.IsSubscribed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get channel profile: %w", err)
	}

	return profile, nil
}

// Subscribe creates the (subscriber, channel) edge if it does not exist yet
func (s *Storage) Subscribe(ctx context.Context, subscriberID, channelID string) (bool, error) {
	query := `
		INSERT OR IGNORE INTO subscriptions (id, subscriber_id, channel_id, created_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query, uuid.New().String(), subscriberID, channelID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to subscribe: %w", err)
	}

	rows, err := rowsAffected(result)
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}

// Unsubscribe removes the (subscriber, channel) edge
func (s *Storage) Unsubscribe(ctx context.Context, subscriberID, channelID string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE subscriber_id = ? AND channel_id = ?`, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to unsubscribe: %w", err)
	}

	rows, err := rowsAffected(result)
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// GetWatchHistory returns watched videos in view order joined with their owners
func (s *Storage) GetWatchHistory(ctx context.Context, userID string) ([]*models.WatchedVideo, error) {
	query := `
		SELECT
			v.id, v.owner_id, v.video_file, v.thumbnail, v.title, v.description,
			v.duration, v.views, v.is_published, v.created_at, v.updated_at,
			w.watched_at,
			o.full_name, o.user_name, o.avatar
		FROM watch_history w
		JOIN videos v ON v.id = w.video_id
		JOIN users o ON o.id = v.owner_id
		WHERE w.user_id = ?
		ORDER BY w.position ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watch history: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	history := []*models.WatchedVideo{}

	for rows.Next() {
		item := &models.WatchedVideo{}
		if err := rows.Scan(
			&item.ID,
			&item.OwnerID,
			&item.VideoFile,
			&item.Thumbnail,
			&item.Title,
			&item.Description,
			&item.Duration,
			&item.Views,
			&item.IsPublished,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.WatchedAt,
			&item.Owner.FullName,
			&item.Owner.UserName,
			&item.Owner.Avatar,
		); err != nil {
			return nil, fmt.Errorf("failed to scan watch history: %w", err)
		}
		history = append(history, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return history, nil
}
