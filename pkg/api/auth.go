package api

import "time"

// LoginRequest представляет запрос на аутентификацию
// Достаточно одного из userName или email
type LoginRequest struct {
	UserName string `json:"userName,omitempty"` // username пользователя
	Email    string `json:"email,omitempty"`    // email пользователя
	Password string `json:"password"`           // пароль в открытом виде (только по TLS)
}

// RefreshRequest представляет запрос на обновление токенов
// Используется, если refresh token не пришел в cookie
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest представляет запрос на смену пароля
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// UpdateAccountRequest представляет запрос на изменение профиля
// Пустые поля не изменяются
type UpdateAccountRequest struct {
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
}

// TokenResponse представляет ответ с токенами доступа
type TokenResponse struct {
	AccessToken      string    `json:"accessToken"`      // JWT access token
	RefreshToken     string    `json:"refreshToken"`     // JWT refresh token
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`  // время истечения access token
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"` // время истечения refresh token
	ExpiresIn        int64     `json:"expiresIn"`        // время жизни access token в секундах
}

// LoginResponse представляет ответ на успешный вход
type LoginResponse struct {
	User *User `json:"user"`
	TokenResponse
}

// LogoutAllResponse представляет ответ на выход со всех устройств
type LogoutAllResponse struct {
	Revoked int `json:"revoked"` // количество отозванных сессий
}

// SubscriptionResponse представляет результат подписки или отписки
type SubscriptionResponse struct {
	Channel    string `json:"channel"`
	Subscribed bool   `json:"subscribed"`
	Changed    bool   `json:"changed"` // false, если состояние уже было таким
}

// Session представляет открытую сессию (устройство) пользователя
type Session struct {
	IssuedAt  time.Time  `json:"issuedAt"`
	ExpiresAt time.Time  `json:"expiresAt"`
	RotatedAt *time.Time `json:"rotatedAt,omitempty"`
	ID        string     `json:"id"`
	UserAgent string     `json:"userAgent"`
	IP        string     `json:"ip"`
	Current   bool       `json:"current"` // сессия, которой выполнен запрос
}
