package models

import "time"

// Video is the minimal video record the user domain reads.
type Video struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	VideoFile   string    `json:"video_file"`
	Thumbnail   string    `json:"thumbnail"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"` // seconds
	Views       int64     `json:"views"`
	IsPublished bool      `json:"is_published"`
}

// OwnerProfile is the public projection of a video owner.
type OwnerProfile struct {
	FullName string `json:"full_name"`
	UserName string `json:"user_name"`
	Avatar   string `json:"avatar"`
}

// WatchedVideo is a watch history item: the video plus exactly one owner.
type WatchedVideo struct {
	Owner     OwnerProfile `json:"owner"`
	WatchedAt time.Time    `json:"watched_at"`
	Video
}
