package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/iudanet/vidhub/pkg/api"
)

const usersPath = "/api/v1/users"

// Error ответ сервера с error envelope
type Error struct {
	Message    string
	Errors     []string
	StatusCode int
}

func (e *Error) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// IsUnauthorized сообщает, что сервер ответил 401
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// RegisterForm поля multipart формы регистрации
type RegisterForm struct {
	Email          string
	FullName       string
	UserName       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// Register регистрирует нового пользователя (multipart с аватаром)
func (c *Client) Register(ctx context.Context, form RegisterForm) (*api.User, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	fields := [][2]string{
		{"email", form.Email},
		{"fullName", form.FullName},
		{"userName", form.UserName},
		{"password", form.Password},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("failed to write form field: %w", err)
		}
	}
	if err := attachFile(mw, "avatar", form.AvatarPath); err != nil {
		return nil, err
	}
	if err := attachFile(mw, "coverImage", form.CoverImagePath); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close form: %w", err)
	}

	var user api.User
	err := c.do(ctx, http.MethodPost, usersPath+"/register", "", mw.FormDataContentType(), body, &user)
	if err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &user, nil
}

func attachFile(mw *multipart.Writer, field, path string) error {
	if path == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", field, err)
	}
	defer func() {
		_ = f.Close()
	}()

	part, err := mw.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to copy %s: %w", field, err)
	}
	return nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	var resp api.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, usersPath+"/login", "", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Logout завершает текущую сессию на сервере
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	if err := c.doJSON(ctx, http.MethodPost, usersPath+"/logout", accessToken, nil, nil); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// Refresh обменивает refresh token на новую пару
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	req := api.RefreshRequest{RefreshToken: refreshToken}
	if err := c.doJSON(ctx, http.MethodPost, usersPath+"/refresh-token", "", req, &resp); err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	return &resp, nil
}

// ChangePassword меняет пароль текущего пользователя
func (c *Client) ChangePassword(ctx context.Context, accessToken string, req api.ChangePasswordRequest) error {
	if err := c.doJSON(ctx, http.MethodPost, usersPath+"/change-password", accessToken, req, nil); err != nil {
		return fmt.Errorf("change password request failed: %w", err)
	}
	return nil
}

// CurrentUser возвращает профиль владельца токена
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (*api.User, error) {
	var user api.User
	if err := c.doJSON(ctx, http.MethodGet, usersPath+"/current-user", accessToken, nil, &user); err != nil {
		return nil, fmt.Errorf("current user request failed: %w", err)
	}
	return &user, nil
}

// ChannelProfile возвращает профиль канала по имени пользователя
func (c *Client) ChannelProfile(ctx context.Context, accessToken, userName string) (*api.ChannelProfile, error) {
	var profile api.ChannelProfile
	path := usersPath + "/c/" + url.PathEscape(userName)
	if err := c.doJSON(ctx, http.MethodGet, path, accessToken, nil, &profile); err != nil {
		return nil, fmt.Errorf("channel request failed: %w", err)
	}
	return &profile, nil
}

// WatchHistory возвращает историю просмотров
func (c *Client) WatchHistory(ctx context.Context, accessToken string) ([]api.WatchedVideo, error) {
	var history []api.WatchedVideo
	if err := c.doJSON(ctx, http.MethodGet, usersPath+"/history", accessToken, nil, &history); err != nil {
		return nil, fmt.Errorf("history request failed: %w", err)
	}
	return history, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, accessToken string, body, result any) error {
	var bodyReader io.Reader
	contentType := ""
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, accessToken, contentType, bodyReader, result)
}

// do выполняет HTTP запрос и распаковывает data из envelope в result
func (c *Client) do(ctx context.Context, method, path, accessToken, contentType string, body io.Reader, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return &Error{StatusCode: resp.StatusCode, Message: errResp.Message, Errors: errResp.Errors}
		}
		return &Error{StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(respBody))}
	}

	if result == nil {
		return nil
	}

	envelope := api.Response[json.RawMessage]{}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, result); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}

	return nil
}
