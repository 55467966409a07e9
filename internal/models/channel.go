package models

import "time"

// Subscription is a directed "follows" edge from Subscriber to Channel.
type Subscription struct {
	CreatedAt    time.Time `json:"created_at"`
	ID           string    `json:"id"`
	SubscriberID string    `json:"subscriber_id"` // кто подписывается
	ChannelID    string    `json:"channel_id"`    // на кого подписываются
}

// ChannelProfile is the fixed projection returned for a channel page.
type ChannelProfile struct {
	ID                        string `json:"id"`
	FullName                  string `json:"full_name"`
	UserName                  string `json:"user_name"`
	Email                     string `json:"email"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"cover_image"`
	SubscribersCount          int64  `json:"subscribers_count"`
	ChannelsSubscribedToCount int64  `json:"channels_subscribed_to_count"`
	IsSubscribed              bool   `json:"is_subscribed"`
}
