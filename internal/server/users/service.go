// Package users implements the account use-cases of the platform:
// registration, login sessions with rotating refresh tokens, profile
// changes and the channel and watch history read models.
package users

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/vidhub/internal/crypto"
	"github.com/iudanet/vidhub/internal/server/apperr"
	"github.com/iudanet/vidhub/internal/server/jwt"
	"github.com/iudanet/vidhub/internal/server/media"
	"github.com/iudanet/vidhub/internal/server/metrics"
	"github.com/iudanet/vidhub/internal/server/storage"
	"github.com/iudanet/vidhub/internal/validation"
)

// Client-facing messages
const (
	MsgAllFieldsRequired     = "All fields are required"
	MsgUserExists            = "User with email or username already exists"
	MsgEmailTaken            = "User with this email already exists"
	MsgAvatarRequired        = "Avatar file is required"
	MsgRegisterFailed        = "Something went wrong while registering the user"
	MsgIdentifierRequired    = "username or email is required"
	MsgInvalidCredentials    = "Invalid user credentials"
	MsgUnauthorizedRequest   = "unauthorized request"
	MsgRefreshExpiredOrUsed  = "Refresh token is expired or used"
	MsgInvalidRefreshToken   = "Invalid refresh token"
	MsgPasswordsRequired     = "Old and new password are required"
	MsgInvalidOldPassword    = "Invalid old password"
	MsgUserNotFound          = "User not found"
	MsgAvatarMissing         = "Avatar file is missing"
	MsgCoverImageMissing     = "Cover image file is missing"
	MsgAvatarUploadFailed    = "Error while uploading avatar"
	MsgCoverUploadFailed     = "Error while uploading cover image"
	MsgUsernameMissing       = "username is missing"
	MsgChannelNotFound       = "channel does not exists"
	MsgSelfSubscription      = "You cannot subscribe to your own channel"
	MsgVideoIDMissing        = "video id is missing"
	MsgVideoNotFound         = "Video not found"
	MsgInvalidRequestPayload = "Invalid request data"
)

// Store is the persistence the use-cases need
type Store interface {
	storage.UserStorage
	storage.SessionStorage
	storage.ChannelStorage
	storage.VideoStorage
}

// ClientMeta describes the device opening a session
type ClientMeta struct {
	UserAgent string
	IP        string
}

// Service implements the account use-cases
type Service struct {
	logger *slog.Logger
	store  Store
	tokens *jwt.Service
	media  media.Uploader
	now    func() time.Time
}

// NewService создает сервис пользователей
func NewService(logger *slog.Logger, store Store, tokens *jwt.Service, uploader media.Uploader) *Service {
	return &Service{
		logger: logger,
		store:  store,
		tokens: tokens,
		media:  uploader,
		now:    time.Now,
	}
}

// upload moves a staged file to the media host
func (s *Service) upload(ctx context.Context, localPath string) (*media.Asset, error) {
	asset, err := s.media.Upload(ctx, localPath)
	metrics.RecordMediaUpload(err)
	if err != nil {
		s.logger.WarnContext(ctx, "media upload failed", slog.Any("error", err))
		return nil, err
	}
	return asset, nil
}

// discard deletes assets uploaded by a use-case that did not complete
func (s *Service) discard(ctx context.Context, assets ...*media.Asset) {
	for _, asset := range assets {
		if asset == nil {
			continue
		}
		if err := s.media.Delete(context.WithoutCancel(ctx), asset.Key); err != nil {
			s.logger.ErrorContext(ctx, "failed to delete orphaned asset",
				slog.String("key", asset.Key),
				slog.Any("error", err),
			)
		}
	}
}

// invalidInput converts validator output into a 400 with field details
func invalidInput(err error) *apperr.Error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return apperr.BadRequest(MsgInvalidRequestPayload).WithDetails(verr.Messages()...)
	}
	return apperr.BadRequest(err.Error())
}

// internal wraps an unexpected store error
func internal(err error) *apperr.Error {
	return apperr.Internal("", err)
}

// timingHash is compared against when the login identifier is unknown, so
// both failure paths pay one bcrypt comparison.
var timingHash = sync.OnceValue(func() string {
	hash, err := crypto.HashPassword("vidhub-unknown-user")
	if err != nil {
		return ""
	}
	return hash
})
