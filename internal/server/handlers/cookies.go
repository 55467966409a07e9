package handlers

import (
	"net/http"
	"time"

	"github.com/iudanet/vidhub/internal/server/jwt"
)

const (
	// AccessTokenCookie имя cookie с access token
	AccessTokenCookie = "accessToken"
	// RefreshTokenCookie имя cookie с refresh token
	RefreshTokenCookie = "refreshToken"
)

// CookieConfig описывает атрибуты auth cookies
type CookieConfig struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func (c CookieConfig) cookie(name, value string, expires time.Time) *http.Cookie {
	sameSite := c.SameSite
	if sameSite == 0 {
		sameSite = http.SameSiteLaxMode
	}

	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: sameSite,
	}

	if value == "" {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	} else {
		cookie.Expires = expires
		cookie.MaxAge = int(time.Until(expires).Seconds())
	}
	return cookie
}

// setAuthCookies выставляет обе cookies из пары токенов
func (c CookieConfig) setAuthCookies(w http.ResponseWriter, pair *jwt.TokenPair) {
	http.SetCookie(w, c.cookie(AccessTokenCookie, pair.AccessToken, pair.AccessExpiresAt))
	http.SetCookie(w, c.cookie(RefreshTokenCookie, pair.RefreshToken, pair.RefreshExpiresAt))
}

// clearAuthCookies удаляет обе cookies
func (c CookieConfig) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(AccessTokenCookie, "", time.Time{}))
	http.SetCookie(w, c.cookie(RefreshTokenCookie, "", time.Time{}))
}
