package users

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/iudanet/vidhub/internal/models"
	"github.com/iudanet/vidhub/internal/server/apperr"
	"github.com/iudanet/vidhub/internal/server/storage"
	"github.com/iudanet/vidhub/internal/validation"
)

// ChannelProfile returns the channel page of userName as seen by requesterID
func (s *Service) ChannelProfile(ctx context.Context, userName, requesterID string) (*models.ChannelProfile, error) {
	userName = validation.NormalizeUsername(userName)
	if userName == "" {
		return nil, apperr.BadRequest(MsgUsernameMissing)
	}

	profile, err := s.store.GetChannelProfile(ctx, userName, requesterID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, apperr.NotFound(MsgChannelNotFound)
		}
		return nil, internal(err)
	}

	return profile, nil
}

// Subscribe makes subscriberID follow the channel. Returns false if the
// subscription already existed.
func (s *Service) Subscribe(ctx context.Context, subscriberID, channelUserName string) (bool, error) {
	channel, err := s.resolveChannel(ctx, channelUserName)
	if err != nil {
		return false, err
	}
	if channel.ID == subscriberID {
		return false, apperr.BadRequest(MsgSelfSubscription)
	}

	created, err := s.store.Subscribe(ctx, subscriberID, channel.ID)
	if err != nil {
		return false, internal(err)
	}

	if created {
		s.logger.InfoContext(ctx, "subscribed",
			slog.String("subscriber_id", subscriberID),
			slog.String("channel_id", channel.ID),
		)
	}
	return created, nil
}

// Unsubscribe removes the subscription. Returns false if there was none.
func (s *Service) Unsubscribe(ctx context.Context, subscriberID, channelUserName string) (bool, error) {
	channel, err := s.resolveChannel(ctx, channelUserName)
	if err != nil {
		return false, err
	}

	removed, err := s.store.Unsubscribe(ctx, subscriberID, channel.ID)
	if err != nil {
		return false, internal(err)
	}
	return removed, nil
}

func (s *Service) resolveChannel(ctx context.Context, userName string) (*models.User, error) {
	userName = validation.NormalizeUsername(userName)
	if userName == "" {
		return nil, apperr.BadRequest(MsgUsernameMissing)
	}

	channel, err := s.store.GetUserByUsername(ctx, userName)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, apperr.NotFound(MsgChannelNotFound)
		}
		return nil, internal(err)
	}
	return channel, nil
}

// WatchHistory returns the user's watched videos in view order
func (s *Service) WatchHistory(ctx context.Context, userID string) ([]*models.WatchedVideo, error) {
	history, err := s.store.GetWatchHistory(ctx, userID)
	if err != nil {
		return nil, internal(err)
	}
	if history == nil {
		history = []*models.WatchedVideo{}
	}
	return history, nil
}

// RecordView appends videoID to the user's history and counts the view
func (s *Service) RecordView(ctx context.Context, userID, videoID string) error {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return apperr.BadRequest(MsgVideoIDMissing)
	}

	err := s.store.AppendWatchHistory(ctx, userID, videoID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrVideoNotFound):
		return apperr.NotFound(MsgVideoNotFound)
	case errors.Is(err, storage.ErrUserNotFound):
		return apperr.NotFound(MsgUserNotFound)
	default:
		return internal(err)
	}
}
