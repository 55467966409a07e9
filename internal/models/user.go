package models

import "time"

// User представляет пользователя платформы
type User struct {
	CreatedAt    time.Time `json:"created_at"`    // время создания
	UpdatedAt    time.Time `json:"updated_at"`    // время последнего обновления
	ID           string    `json:"id"`            // UUID пользователя
	UserName     string    `json:"user_name"`     // уникальный username (lowercase)
	Email        string    `json:"email"`         // уникальный email (lowercase)
	FullName     string    `json:"full_name"`     // отображаемое имя
	PasswordHash string    `json:"-"`             // bcrypt хеш пароля, наружу не отдается
	Avatar       string    `json:"avatar"`        // URL аватара
	CoverImage   string    `json:"cover_image"`   // URL обложки канала, может быть пустым
	WatchHistory []string  `json:"watch_history"` // ID видео в порядке просмотра
}

// Sanitized returns a copy of the user without credential material.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.PasswordHash = ""
	if u.WatchHistory != nil {
		cp.WatchHistory = append([]string(nil), u.WatchHistory...)
	}
	return &cp
}

// UserUpdate describes a partial profile update. Nil fields are left untouched.
type UserUpdate struct {
	FullName   *string
	Email      *string
	Avatar     *string
	CoverImage *string
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.FullName == nil && u.Email == nil && u.Avatar == nil && u.CoverImage == nil
}
