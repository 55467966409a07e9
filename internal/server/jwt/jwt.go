package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/vidhub/internal/crypto"
	"github.com/iudanet/vidhub/internal/models"
)

const (
	// TokenTypeAccess marks short-lived per-request tokens
	TokenTypeAccess = "access"
	// TokenTypeRefresh marks long-lived session renewal tokens
	TokenTypeRefresh = "refresh"

	defaultIssuer = "vidhub"
)

// ErrInvalidToken is returned for malformed, forged, expired or mistyped tokens
var ErrInvalidToken = errors.New("invalid token")

// Config holds token secrets and lifetimes
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Validate checks that both secrets are set and differ, and TTLs are positive
func (c Config) Validate() error {
	if len(c.AccessSecret) == 0 {
		return fmt.Errorf("access token secret is required")
	}
	if len(c.RefreshSecret) == 0 {
		return fmt.Errorf("refresh token secret is required")
	}
	if string(c.AccessSecret) == string(c.RefreshSecret) {
		return fmt.Errorf("access and refresh secrets must differ")
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	return nil
}

// AccessClaims represents access token claims. Subject is the user ID.
type AccessClaims struct {
	SessionID string `json:"sid"`
	Email     string `json:"email"`
	UserName  string `json:"username"`
	FullName  string `json:"full_name"`
	Type      string `json:"typ"`
	gojwt.RegisteredClaims
}

// RefreshClaims represents refresh token claims. Subject is the user ID,
// ID (jti) is random so two tokens for one session never collide.
type RefreshClaims struct {
	SessionID string `json:"sid"`
	Type      string `json:"typ"`
	gojwt.RegisteredClaims
}

// TokenPair bundles a short-lived access token and a long-lived refresh token
type TokenPair struct {
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	AccessToken      string
	RefreshToken     string
}

// Service issues and verifies signed tokens
type Service struct {
	now func() time.Time
	cfg Config
}

// NewService creates a token service from cfg
func NewService(cfg Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaultIssuer
	}
	return &Service{cfg: cfg, now: time.Now}, nil
}

// IssueAccessToken creates an access token for the user bound to sessionID
func (s *Service) IssueAccessToken(user *models.User, sessionID string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.AccessTTL)

	claims := AccessClaims{
		SessionID: sessionID,
		Email:     user.Email,
		UserName:  user.UserName,
		FullName:  user.FullName,
		Type:      TokenTypeAccess,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.cfg.Issuer,
			ExpiresAt: gojwt.NewNumericDate(expiresAt),
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
		},
	}

	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.cfg.AccessSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	return token, expiresAt, nil
}

// IssueRefreshToken creates a refresh token for userID bound to sessionID
func (s *Service) IssueRefreshToken(userID, sessionID string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.RefreshTTL)

	jti, err := crypto.RandomID(16)
	if err != nil {
		return "", time.Time{}, err
	}

	claims := RefreshClaims{
		SessionID: sessionID,
		Type:      TokenTypeRefresh,
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    s.cfg.Issuer,
			ExpiresAt: gojwt.NewNumericDate(expiresAt),
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
		},
	}

	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.cfg.RefreshSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return token, expiresAt, nil
}

// IssuePair creates a fresh access+refresh pair for the session
func (s *Service) IssuePair(user *models.User, sessionID string) (*TokenPair, error) {
	access, accessExp, err := s.IssueAccessToken(user, sessionID)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.IssueRefreshToken(user.ID, sessionID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// VerifyAccessToken validates signature, expiry and type of an access token
func (s *Service) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.parse(tokenString, claims, s.cfg.AccessSecret); err != nil {
		return nil, err
	}
	if claims.Type != TokenTypeAccess {
		return nil, fmt.Errorf("%w: unexpected token type %q", ErrInvalidToken, claims.Type)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

// VerifyRefreshToken validates signature, expiry and type of a refresh token
func (s *Service) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.parse(tokenString, claims, s.cfg.RefreshSecret); err != nil {
		return nil, err
	}
	if claims.Type != TokenTypeRefresh {
		return nil, fmt.Errorf("%w: unexpected token type %q", ErrInvalidToken, claims.Type)
	}
	if claims.Subject == "" || claims.SessionID == "" {
		return nil, fmt.Errorf("%w: missing subject or session", ErrInvalidToken)
	}
	return claims, nil
}

func (s *Service) parse(tokenString string, claims gojwt.Claims, secret []byte) error {
	if tokenString == "" {
		return fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	token, err := gojwt.ParseWithClaims(tokenString, claims, func(token *gojwt.Token) (interface{}, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	},
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(s.cfg.Issuer),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
