package models

import "time"

// Session is one logged-in device of a user.
// It holds the fingerprint of the only refresh token currently valid for it.
type Session struct {
	IssuedAt  time.Time  `json:"issued_at"`            // время создания сессии (login)
	ExpiresAt time.Time  `json:"expires_at"`           // истечение текущего refresh token
	RotatedAt *time.Time `json:"rotated_at,omitempty"` // последняя ротация
	ID        string     `json:"id"`                   // UUID сессии, попадает в claim sid
	UserID    string     `json:"user_id"`              // владелец сессии
	TokenHash string     `json:"-"`                    // SHA256 refresh token (hex)
	UserAgent string     `json:"user_agent,omitempty"` // User-Agent клиента при логине
	IP        string     `json:"ip,omitempty"`         // адрес клиента при логине
}

// Expired reports whether the session's refresh token has expired at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
