package users

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/iudanet/vidhub/internal/crypto"
	"github.com/iudanet/vidhub/internal/models"
	"github.com/iudanet/vidhub/internal/server/apperr"
	"github.com/iudanet/vidhub/internal/server/jwt"
	"github.com/iudanet/vidhub/internal/server/media"
	"github.com/iudanet/vidhub/internal/server/metrics"
	"github.com/iudanet/vidhub/internal/server/storage"
	"github.com/iudanet/vidhub/internal/validation"
)

// RegisterInput holds the registration form. File fields are paths of
// staged uploads on local disk.
type RegisterInput struct {
	Email          string `json:"email" validate:"required,email,max=254"`
	FullName       string `json:"fullName" validate:"required,max=128"`
	UserName       string `json:"userName" validate:"required,max=64"`
	Password       string `json:"password" validate:"required,max=72"`
	AvatarPath     string `json:"-"`
	CoverImagePath string `json:"-"`
}

// LoginInput holds login credentials; one of UserName or Email is enough
type LoginInput struct {
	UserName string
	Email    string
	Password string
}

// AuthResult is returned by Login and Refresh
type AuthResult struct {
	User      *models.User
	Tokens    *jwt.TokenPair
	SessionID string
}

// Register creates an account with an avatar and an optional cover image
func (s *Service) Register(ctx context.Context, in RegisterInput) (_ *models.User, err error) {
	defer func() {
		metrics.RecordAuthEvent(metrics.EventRegister, err)
	}()

	in.Email = validation.NormalizeEmail(in.Email)
	in.UserName = validation.NormalizeUsername(in.UserName)
	in.FullName = strings.TrimSpace(in.FullName)

	if in.Email == "" || in.FullName == "" || in.UserName == "" || strings.TrimSpace(in.Password) == "" {
		return nil, apperr.BadRequest(MsgAllFieldsRequired)
	}
	if err := validation.Struct(&in); err != nil {
		return nil, invalidInput(err)
	}

	_, err = s.store.FindUserByUsernameOrEmail(ctx, in.UserName, in.Email)
	switch {
	case err == nil:
		return nil, apperr.Conflict(MsgUserExists)
	case !errors.Is(err, storage.ErrUserNotFound):
		return nil, internal(err)
	}

	// Проверяем аватар до загрузки чего-либо на media host
	if in.AvatarPath == "" {
		return nil, apperr.BadRequest(MsgAvatarRequired)
	}

	avatar, err := s.upload(ctx, in.AvatarPath)
	if err != nil {
		return nil, apperr.BadRequest(MsgAvatarRequired).Wrap(err)
	}

	// Обложка необязательна: ошибка загрузки дает пустое значение
	var cover *media.Asset
	if in.CoverImagePath != "" {
		cover, _ = s.upload(ctx, in.CoverImagePath)
	}

	hash, err := crypto.HashPassword(in.Password)
	if err != nil {
		s.discard(ctx, avatar, cover)
		return nil, internal(err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		UserName:     in.UserName,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: hash,
		Avatar:       avatar.URL,
	}
	if cover != nil {
		user.CoverImage = cover.URL
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		s.discard(ctx, avatar, cover)
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return nil, apperr.Conflict(MsgUserExists)
		}
		return nil, apperr.Internal(MsgRegisterFailed, err)
	}

	created, err := s.store.GetUserByID(ctx, user.ID)
	if err != nil {
		return nil, apperr.Internal(MsgRegisterFailed, err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", created.ID),
		slog.String("username", created.UserName),
	)

	return created.Sanitized(), nil
}

// Login verifies credentials and opens a new session
func (s *Service) Login(ctx context.Context, in LoginInput, meta ClientMeta) (_ *AuthResult, err error) {
	defer func() {
		metrics.RecordAuthEvent(metrics.EventLogin, err)
	}()

	username := validation.NormalizeUsername(in.UserName)
	email := validation.NormalizeEmail(in.Email)
	if username == "" && email == "" {
		return nil, apperr.BadRequest(MsgIdentifierRequired)
	}

	user, err := s.store.FindUserByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			_ = crypto.VerifyPassword(in.Password, timingHash())
			return nil, apperr.Unauthorized(MsgInvalidCredentials)
		}
		return nil, internal(err)
	}

	if err := crypto.VerifyPassword(in.Password, user.PasswordHash); err != nil {
		s.logger.WarnContext(ctx, "invalid password", slog.String("user_id", user.ID))
		return nil, apperr.Unauthorized(MsgInvalidCredentials)
	}

	return s.openSession(ctx, user, meta)
}

// openSession issues a token pair bound to a new session record
func (s *Service) openSession(ctx context.Context, user *models.User, meta ClientMeta) (*AuthResult, error) {
	sessionID := uuid.New().String()

	pair, err := s.tokens.IssuePair(user, sessionID)
	if err != nil {
		return nil, internal(err)
	}

	session := &models.Session{
		ID:        sessionID,
		UserID:    user.ID,
		TokenHash: crypto.FingerprintToken(pair.RefreshToken),
		UserAgent: meta.UserAgent,
		IP:        meta.IP,
		IssuedAt:  s.now().UTC(),
		ExpiresAt: pair.RefreshExpiresAt,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, internal(err)
	}

	s.logger.InfoContext(ctx, "session opened",
		slog.String("user_id", user.ID),
		slog.String("session_id", sessionID),
	)

	return &AuthResult{User: user.Sanitized(), Tokens: pair, SessionID: sessionID}, nil
}

// Logout revokes one session of the user. A session that is already gone
// is not an error.
func (s *Service) Logout(ctx context.Context, userID, sessionID string) (err error) {
	defer func() {
		metrics.RecordAuthEvent(metrics.EventLogout, err)
	}()

	if sessionID == "" {
		return nil
	}

	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil
		}
		return internal(err)
	}
	if session.UserID != userID {
		return nil
	}

	if err := s.store.DeleteSession(ctx, sessionID); err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
		return internal(err)
	}

	s.logger.InfoContext(ctx, "session closed",
		slog.String("user_id", userID),
		slog.String("session_id", sessionID),
	)
	return nil
}

// LogoutAll revokes every session of the user
func (s *Service) LogoutAll(ctx context.Context, userID string) (_ int, err error) {
	defer func() {
		metrics.RecordAuthEvent(metrics.EventLogoutAll, err)
	}()

	n, err := s.store.DeleteUserSessions(ctx, userID)
	if err != nil {
		return 0, internal(err)
	}

	s.logger.InfoContext(ctx, "all sessions closed",
		slog.String("user_id", userID),
		slog.Int("revoked", n),
	)
	return n, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token
// stops working; presenting it again revokes the whole session.
func (s *Service) Refresh(ctx context.Context, presented string) (_ *AuthResult, err error) {
	defer func() {
		metrics.RecordAuthEvent(metrics.EventRefresh, err)
	}()

	presented = strings.TrimSpace(presented)
	if presented == "" {
		return nil, apperr.Unauthorized(MsgUnauthorizedRequest)
	}

	claims, err := s.tokens.VerifyRefreshToken(presented)
	if err != nil {
		return nil, apperr.Unauthorized(err.Error()).Wrap(err)
	}

	session, err := s.store.GetSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, apperr.Unauthorized(MsgRefreshExpiredOrUsed)
		}
		return nil, internal(err)
	}
	if session.UserID != claims.Subject {
		return nil, apperr.Unauthorized(MsgRefreshExpiredOrUsed)
	}
	if session.Expired(s.now()) {
		_ = s.store.DeleteSession(ctx, session.ID)
		return nil, apperr.Unauthorized(MsgRefreshExpiredOrUsed)
	}

	user, err := s.store.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, apperr.Unauthorized(MsgInvalidRefreshToken)
		}
		return nil, internal(err)
	}

	presentedHash := crypto.FingerprintToken(presented)
	if subtle.ConstantTimeCompare([]byte(presentedHash), []byte(session.TokenHash)) != 1 {
		// Токен валиден, но уже ротирован: считаем сессию скомпрометированной
		s.logger.WarnContext(ctx, "refresh token reuse detected, revoking session",
			slog.String("user_id", user.ID),
			slog.String("session_id", session.ID),
		)
		if err := s.store.DeleteSession(ctx, session.ID); err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
			s.logger.ErrorContext(ctx, "failed to revoke session", slog.Any("error", err))
		}
		metrics.RecordAuthEvent(metrics.EventRefreshReuse, storage.ErrSessionRotated)
		return nil, apperr.Unauthorized(MsgRefreshExpiredOrUsed)
	}

	pair, err := s.tokens.IssuePair(user, session.ID)
	if err != nil {
		return nil, internal(err)
	}

	err = s.store.RotateSession(ctx, session.ID, presentedHash, crypto.FingerprintToken(pair.RefreshToken), pair.RefreshExpiresAt)
	if err != nil {
		if errors.Is(err, storage.ErrSessionRotated) || errors.Is(err, storage.ErrSessionNotFound) {
			return nil, apperr.Unauthorized(MsgRefreshExpiredOrUsed).Wrap(err)
		}
		return nil, internal(err)
	}

	return &AuthResult{User: user.Sanitized(), Tokens: pair, SessionID: session.ID}, nil
}

// ChangePassword replaces the password after verifying the old one.
// Existing sessions stay valid.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) (err error) {
	defer func() {
		metrics.RecordAuthEvent(metrics.EventChangePassword, err)
	}()

	if oldPassword == "" || newPassword == "" {
		return apperr.BadRequest(MsgPasswordsRequired)
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return apperr.BadRequest(err.Error())
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return apperr.NotFound(MsgUserNotFound)
		}
		return internal(err)
	}

	if err := crypto.VerifyPassword(oldPassword, user.PasswordHash); err != nil {
		return apperr.BadRequest(MsgInvalidOldPassword)
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return internal(err)
	}

	if err := s.store.UpdatePasswordHash(ctx, userID, hash); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return apperr.NotFound(MsgUserNotFound)
		}
		return internal(err)
	}

	s.logger.InfoContext(ctx, "password changed", slog.String("user_id", userID))
	return nil
}
