package users

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/iudanet/vidhub/internal/models"
	"github.com/iudanet/vidhub/internal/server/apperr"
	"github.com/iudanet/vidhub/internal/server/storage"
	"github.com/iudanet/vidhub/internal/validation"
)

// CurrentUser returns the stored profile of userID
func (s *Service) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, mapUserError(err)
	}
	return user.Sanitized(), nil
}

// UpdateAccount changes full name and/or email. Blank fields are kept.
func (s *Service) UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = validation.NormalizeEmail(email)

	if fullName == "" && email == "" {
		return nil, apperr.BadRequest(MsgAllFieldsRequired)
	}
	if email != "" && !validation.Email(email) {
		return nil, apperr.BadRequest(MsgInvalidRequestPayload).WithDetails("email must be a valid email address")
	}

	var update models.UserUpdate
	if fullName != "" {
		update.FullName = &fullName
	}
	if email != "" {
		update.Email = &email
	}

	user, err := s.store.UpdateUser(ctx, userID, update)
	if err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return nil, apperr.Conflict(MsgEmailTaken)
		}
		return nil, mapUserError(err)
	}

	s.logger.InfoContext(ctx, "account updated", slog.String("user_id", userID))
	return user.Sanitized(), nil
}

// UpdateAvatar replaces the avatar with the staged file
func (s *Service) UpdateAvatar(ctx context.Context, userID, localPath string) (*models.User, error) {
	return s.updateImage(ctx, userID, localPath, imageAvatar)
}

// UpdateCoverImage replaces the cover image with the staged file
func (s *Service) UpdateCoverImage(ctx context.Context, userID, localPath string) (*models.User, error) {
	return s.updateImage(ctx, userID, localPath, imageCover)
}

type imageKind int

const (
	imageAvatar imageKind = iota
	imageCover
)

func (s *Service) updateImage(ctx context.Context, userID, localPath string, kind imageKind) (*models.User, error) {
	missing, failed := MsgAvatarMissing, MsgAvatarUploadFailed
	if kind == imageCover {
		missing, failed = MsgCoverImageMissing, MsgCoverUploadFailed
	}

	if localPath == "" {
		return nil, apperr.BadRequest(missing)
	}

	asset, err := s.upload(ctx, localPath)
	if err != nil {
		return nil, apperr.BadRequest(failed).Wrap(err)
	}

	var update models.UserUpdate
	if kind == imageCover {
		update.CoverImage = &asset.URL
	} else {
		update.Avatar = &asset.URL
	}

	user, err := s.store.UpdateUser(ctx, userID, update)
	if err != nil {
		s.discard(ctx, asset)
		return nil, mapUserError(err)
	}

	return user.Sanitized(), nil
}

// mapUserError maps store errors of single-user lookups
func mapUserError(err error) error {
	if errors.Is(err, storage.ErrUserNotFound) {
		return apperr.NotFound(MsgUserNotFound)
	}
	return internal(err)
}
