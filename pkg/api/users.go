package api

import (
	"time"

	"github.com/iudanet/vidhub/internal/models"
)

// User is the public projection of a user; credentials never leave the server
type User struct {
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	ID           string    `json:"id"`
	UserName     string    `json:"userName"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	Avatar       string    `json:"avatar"`
	CoverImage   string    `json:"coverImage"`
	WatchHistory []string  `json:"watchHistory"`
}

// ChannelProfile is a user as seen on their channel page
type ChannelProfile struct {
	ID                        string `json:"id"`
	FullName                  string `json:"fullName"`
	UserName                  string `json:"userName"`
	Email                     string `json:"email"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"coverImage"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}

// Owner is the uploader projection attached to each watched video
type Owner struct {
	FullName string `json:"fullName"`
	UserName string `json:"userName"`
	Avatar   string `json:"avatar"`
}

// WatchedVideo is one watch history item
type WatchedVideo struct {
	CreatedAt   time.Time `json:"createdAt"`
	WatchedAt   time.Time `json:"watchedAt"`
	Owner       Owner     `json:"owner"`
	ID          string    `json:"id"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
}

// UserFromModel converts a stored user into its public projection
func UserFromModel(u *models.User) *User {
	if u == nil {
		return nil
	}
	history := u.WatchHistory
	if history == nil {
		history = []string{}
	}
	return &User{
		ID:           u.ID,
		UserName:     u.UserName,
		Email:        u.Email,
		FullName:     u.FullName,
		Avatar:       u.Avatar,
		CoverImage:   u.CoverImage,
		WatchHistory: history,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// ChannelProfileFromModel converts the channel read model
func ChannelProfileFromModel(p *models.ChannelProfile) *ChannelProfile {
	if p == nil {
		return nil
	}
	return &ChannelProfile{
		ID:                        p.ID,
		FullName:                  p.FullName,
		UserName:                  p.UserName,
		Email:                     p.Email,
		Avatar:                    p.Avatar,
		CoverImage:                p.CoverImage,
		SubscribersCount:          p.SubscribersCount,
		ChannelsSubscribedToCount: p.ChannelsSubscribedToCount,
		IsSubscribed:              p.IsSubscribed,
	}
}

// WatchHistoryFromModel converts history items; the result is never nil
func WatchHistoryFromModel(items []*models.WatchedVideo) []WatchedVideo {
	out := make([]WatchedVideo, 0, len(items))
	for _, item := range items {
		out = append(out, WatchedVideo{
			ID:          item.ID,
			VideoFile:   item.VideoFile,
			Thumbnail:   item.Thumbnail,
			Title:       item.Title,
			Description: item.Description,
			Duration:    item.Duration,
			Views:       item.Views,
			IsPublished: item.IsPublished,
			CreatedAt:   item.CreatedAt,
			WatchedAt:   item.WatchedAt,
			Owner: Owner{
				FullName: item.Owner.FullName,
				UserName: item.Owner.UserName,
				Avatar:   item.Owner.Avatar,
			},
		})
	}
	return out
}
