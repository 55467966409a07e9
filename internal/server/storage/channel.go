package storage

import (
	"context"

	"github.com/iudanet/vidhub/internal/models"
)

// ChannelStorage defines the read models over users, subscriptions and videos
type ChannelStorage interface {
	// GetChannelProfile resolves username and aggregates its subscription edges
	// isSubscribed is computed for requesterID
	// Returns ErrUserNotFound if no such username
	GetChannelProfile(ctx context.Context, username, requesterID string) (*models.ChannelProfile, error)

	// Subscribe creates the (subscriber, channel) edge; existing edge is kept
	// Returns true if a new edge was created
	Subscribe(ctx context.Context, subscriberID, channelID string) (bool, error)

	// Unsubscribe removes the (subscriber, channel) edge
	// Returns true if an edge was removed
	Unsubscribe(ctx context.Context, subscriberID, channelID string) (bool, error)

	// GetWatchHistory returns the user's watched videos in view order,
	// each joined with its owner profile
	// Returns empty slice if history is empty
	GetWatchHistory(ctx context.Context, userID string) ([]*models.WatchedVideo, error)
}

// VideoStorage defines the minimal video persistence the user domain needs
type VideoStorage interface {
	// AppendWatchHistory appends videoID to the user's watch history and
	// increments the video's view counter
	// Returns ErrVideoNotFound or ErrUserNotFound
	AppendWatchHistory(ctx context.Context, userID, videoID string) error
}
