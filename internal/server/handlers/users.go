package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/vidhub/internal/models"
	"github.com/iudanet/vidhub/internal/server/apperr"
	"github.com/iudanet/vidhub/internal/server/users"
	"github.com/iudanet/vidhub/pkg/api"
)

// UserService описывает use-cases, которые вызывает UserHandler
type UserService interface {
	Register(ctx context.Context, in users.RegisterInput) (*models.User, error)
	Login(ctx context.Context, in users.LoginInput, meta users.ClientMeta) (*users.AuthResult, error)
	Logout(ctx context.Context, userID, sessionID string) error
	LogoutAll(ctx context.Context, userID string) (int, error)
	Refresh(ctx context.Context, refreshToken string) (*users.AuthResult, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
	UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID, localPath string) (*models.User, error)
	UpdateCoverImage(ctx context.Context, userID, localPath string) (*models.User, error)
	ChannelProfile(ctx context.Context, userName, requesterID string) (*models.ChannelProfile, error)
	Subscribe(ctx context.Context, subscriberID, channelUserName string) (bool, error)
	Unsubscribe(ctx context.Context, subscriberID, channelUserName string) (bool, error)
	WatchHistory(ctx context.Context, userID string) ([]*models.WatchedVideo, error)
	RecordView(ctx context.Context, userID, videoID string) error
	Sessions(ctx context.Context, userID string) ([]*models.Session, error)
}

// UserHandlerOptions настраивает лимиты запросов и cookies
type UserHandlerOptions struct {
	Cookies        CookieConfig
	TempDir        string
	MaxJSONBytes   int64
	MaxUploadBytes int64
}

// UserHandler обрабатывает запросы /api/v1/users
type UserHandler struct {
	logger *slog.Logger
	users  UserService
	opts   UserHandlerOptions
}

// NewUserHandler создает новый handler пользователей
func NewUserHandler(logger *slog.Logger, svc UserService, opts UserHandlerOptions) *UserHandler {
	if opts.MaxJSONBytes <= 0 {
		opts.MaxJSONBytes = DefaultMaxJSONBytes
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	return &UserHandler{logger: logger, users: svc, opts: opts}
}

// Register обрабатывает POST /api/v1/users/register
// multipart: email, fullName, userName, password, avatar, coverImage
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r, h.opts.MaxUploadBytes); err != nil {
		h.sendError(w, r, err)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	avatarPath, err := stageFile(r, "avatar", h.opts.TempDir)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	coverPath, err := stageFile(r, "coverImage", h.opts.TempDir)
	if err != nil {
		removeStaged(avatarPath)
		h.sendError(w, r, err)
		return
	}
	// Uploader сам удаляет файлы, здесь подчищаем то, до чего он не дошел
	defer removeStaged(avatarPath, coverPath)

	user, err := h.users.Register(r.Context(), users.RegisterInput{
		Email:          r.FormValue("email"),
		FullName:       r.FormValue("fullName"),
		UserName:       r.FormValue("userName"),
		Password:       r.FormValue("password"),
		AvatarPath:     avatarPath,
		CoverImagePath: coverPath,
	})
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, api.UserFromModel(user), "User registered successfully")
}

// Login обрабатывает POST /api/v1/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := decodeJSON(w, r, h.opts.MaxJSONBytes, &req); err != nil {
		h.sendError(w, r, err)
		return
	}

	res, err := h.users.Login(r.Context(), users.LoginInput{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
	}, users.ClientMeta{UserAgent: r.UserAgent(), IP: clientIP(r)})
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	h.opts.Cookies.setAuthCookies(w, res.Tokens)

	WriteJSON(w, h.logger, http.StatusOK, api.LoginResponse{
		User:          api.UserFromModel(res.User),
		TokenResponse: tokenResponse(res),
	}, "User logged in successfully")
}

// Logout обрабатывает POST /api/v1/users/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	if err := h.users.Logout(r.Context(), user.ID, SessionIDFromContext(r.Context())); err != nil {
		h.sendError(w, r, err)
		return
	}

	h.opts.Cookies.clearAuthCookies(w)
	WriteJSON(w, h.logger, http.StatusOK, struct{}{}, "User logged out")
}

// LogoutAll обрабатывает POST /api/v1/users/logout-all
func (h *UserHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	n, err := h.users.LogoutAll(r.Context(), user.ID)
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	h.opts.Cookies.clearAuthCookies(w)
	WriteJSON(w, h.logger, http.StatusOK, api.LogoutAllResponse{Revoked: n}, "All sessions revoked")
}

// RefreshToken обрабатывает POST /api/v1/users/refresh-token
// Токен берется из cookie refreshToken, иначе из JSON тела
func (h *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var token string
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req api.RefreshRequest
		if err := decodeJSON(w, r, h.opts.MaxJSONBytes, &req); err != nil {
			h.sendError(w, r, err)
			return
		}
		token = req.RefreshToken
	}

	res, err := h.users.Refresh(r.Context(), token)
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	h.opts.Cookies.setAuthCookies(w, res.Tokens)
	WriteJSON(w, h.logger, http.StatusOK, tokenResponse(res), "Access token refreshed")
}

// ChangePassword обрабатывает POST /api/v1/users/change-password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req api.ChangePasswordRequest
	if err := decodeJSON(w, r, h.opts.MaxJSONBytes, &req); err != nil {
		h.sendError(w, r, err)
		return
	}

	if err := h.users.ChangePassword(r.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		h.sendError(w, r, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, struct{}{}, "Password changed successfully")
}

// CurrentUser обрабатывает GET|POST /api/v1/users/current-user
func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	current, err := h.users.CurrentUser(r.Context(), user.ID)
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, api.UserFromModel(current), "User fetched successfully")
}

// UpdateAccount обрабатывает PATCH|POST /api/v1/users/update-account
func (h *UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req api.UpdateAccountRequest
	if err := decodeJSON(w, r, h.opts.MaxJSONBytes, &req); err != nil {
		h.sendError(w, r, err)
		return
	}

	updated, err := h.users.UpdateAccount(r.Context(), user.ID, req.FullName, req.Email)
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, api.UserFromModel(updated), "Account details updated successfully")
}

// UpdateAvatar обрабатывает PATCH /api/v1/users/avatar
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", h.users.UpdateAvatar, "Avatar image updated successfully")
}

// UpdateCoverImage обрабатывает PATCH /api/v1/users/cover-image
func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", h.users.UpdateCoverImage, "Cover image updated successfully")
}

func (h *UserHandler) updateImage(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	update func(ctx context.Context, userID, localPath string) (*models.User, error),
	message string,
) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	if err := parseMultipart(w, r, h.opts.MaxUploadBytes); err != nil {
		h.sendError(w, r, err)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	path, err := stageFile(r, field, h.opts.TempDir)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	defer removeStaged(path)

	updated, err := update(r.Context(), user.ID, path)
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, api.UserFromModel(updated), message)
}

// ChannelProfile обрабатывает GET /api/v1/users/c/{userName}
func (h *UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	profile, err := h.users.ChannelProfile(r.Context(), chi.URLParam(r, "userName"), user.ID)
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, api.ChannelProfileFromModel(profile), "User channel fetched successfully")
}

// Subscribe обрабатывает POST /api/v1/users/c/{userName}/subscription
func (h *UserHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	channel := chi.URLParam(r, "userName")
	created, err := h.users.Subscribe(r.Context(), user.ID, channel)
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, api.SubscriptionResponse{
		Channel:    channel,
		Subscribed: true,
		Changed:    created,
	}, "Subscribed successfully")
}

// Unsubscribe обрабатывает DELETE /api/v1/users/c/{userName}/subscription
func (h *UserHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	channel := chi.URLParam(r, "userName")
	removed, err := h.users.Unsubscribe(r.Context(), user.ID, channel)
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, api.SubscriptionResponse{
		Channel:    channel,
		Subscribed: false,
		Changed:    removed,
	}, "Unsubscribed successfully")
}

// WatchHistory обрабатывает GET /api/v1/users/history
func (h *UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	history, err := h.users.WatchHistory(r.Context(), user.ID)
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, api.WatchHistoryFromModel(history), "Watch history fetched successfully")
}

// RecordView обрабатывает POST /api/v1/users/history/{videoID}
func (h *UserHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	if err := h.users.RecordView(r.Context(), user.ID, chi.URLParam(r, "videoID")); err != nil {
		h.sendError(w, r, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusCreated, struct{}{}, "View recorded")
}

// Sessions обрабатывает GET /api/v1/users/sessions
func (h *UserHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	sessions, err := h.users.Sessions(r.Context(), user.ID)
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	current := SessionIDFromContext(r.Context())
	out := make([]api.Session, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, api.Session{
			ID:        s.ID,
			UserAgent: s.UserAgent,
			IP:        s.IP,
			IssuedAt:  s.IssuedAt,
			ExpiresAt: s.ExpiresAt,
			RotatedAt: s.RotatedAt,
			Current:   s.ID == current,
		})
	}

	WriteJSON(w, h.logger, http.StatusOK, out, "Sessions fetched successfully")
}

// requireUser достает пользователя, положенного Authenticator
func (h *UserHandler) requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.sendError(w, r, apperr.Unauthorized("unauthorized request"))
		return nil, false
	}
	return user, true
}

// sendError отправляет JSON ответ с ошибкой
func (h *UserHandler) sendError(w http.ResponseWriter, r *http.Request, err error) {
	WriteError(w, r, h.logger, err)
}

func tokenResponse(res *users.AuthResult) api.TokenResponse {
	return api.TokenResponse{
		AccessToken:      res.Tokens.AccessToken,
		RefreshToken:     res.Tokens.RefreshToken,
		AccessExpiresAt:  res.Tokens.AccessExpiresAt,
		RefreshExpiresAt: res.Tokens.RefreshExpiresAt,
		ExpiresIn:        int64(time.Until(res.Tokens.AccessExpiresAt).Round(time.Second).Seconds()),
	}
}
