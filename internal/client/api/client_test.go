package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/vidhub/pkg/api"
)

func writeEnvelope[T any](w http.ResponseWriter, status int, data T) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.NewResponse(status, data, "ok"))
}

func writeErrorEnvelope(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.NewErrorResponse(status, message, nil))
}

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8000"
	client := NewClient(baseURL)

	assert.NotNil(t, client)
	assert.Equal(t, baseURL, client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

func TestClient_Register(t *testing.T) {
	dir := t.TempDir()
	avatar := filepath.Join(dir, "avatar.png")
	require.NoError(t, os.WriteFile(avatar, []byte("png-bytes"), 0o600))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/users/register", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "alice", r.FormValue("userName"))
		assert.Equal(t, "alice@example.com", r.FormValue("email"))
		assert.Equal(t, "Alice", r.FormValue("fullName"))
		assert.Equal(t, "secret", r.FormValue("password"))

		file, header, err := r.FormFile("avatar")
		require.NoError(t, err)
		_ = file.Close()
		assert.Equal(t, "avatar.png", header.Filename)

		_, _, err = r.FormFile("coverImage")
		assert.ErrorIs(t, err, http.ErrMissingFile)

		writeEnvelope(w, http.StatusOK, api.User{ID: "user-1", UserName: "alice"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	user, err := client.Register(context.Background(), RegisterForm{
		Email:      "alice@example.com",
		FullName:   "Alice",
		UserName:   "alice",
		Password:   "secret",
		AvatarPath: avatar,
	})

	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "alice", user.UserName)
}

func TestClient_Register_MissingFile(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	_, err := client.Register(context.Background(), RegisterForm{
		UserName:   "alice",
		AvatarPath: filepath.Join(t.TempDir(), "missing.png"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open avatar")
}

func TestClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req api.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice@example.com", req.Email)
		assert.Empty(t, req.UserName)

		writeEnvelope(w, http.StatusOK, api.LoginResponse{
			User: &api.User{ID: "user-1", UserName: "alice"},
			TokenResponse: api.TokenResponse{
				AccessToken:  "access",
				RefreshToken: "refresh",
				ExpiresIn:    3600,
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Login(context.Background(), api.LoginRequest{Email: "alice@example.com", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "refresh", resp.RefreshToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	require.NotNil(t, resp.User)
	assert.Equal(t, "alice", resp.User.UserName)
}

func TestClient_ErrorEnvelope(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantStatus  int
		wantMessage string
	}{
		{
			name: "envelope message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeErrorEnvelope(w, http.StatusUnauthorized, "Invalid user credentials")
			},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid user credentials",
		},
		{
			name: "plain text body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "bad gateway", http.StatusBadGateway)
			},
			wantStatus:  http.StatusBadGateway,
			wantMessage: "bad gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(server.URL)
			_, err := client.Login(context.Background(), api.LoginRequest{UserName: "a", Password: "b"})
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.wantStatus == http.StatusUnauthorized, IsUnauthorized(err))
		})
	}
}

func TestClient_AuthorizedRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/api/v1/users/current-user":
			writeEnvelope(w, http.StatusOK, api.User{ID: "user-1"})
		case "/api/v1/users/c/some one":
			writeEnvelope(w, http.StatusOK, api.ChannelProfile{UserName: "some one", SubscribersCount: 2})
		case "/api/v1/users/history":
			writeEnvelope(w, http.StatusOK, []api.WatchedVideo{{ID: "v1", Owner: api.Owner{UserName: "bob"}}})
		case "/api/v1/users/logout", "/api/v1/users/change-password":
			assert.Equal(t, http.MethodPost, r.Method)
			writeEnvelope(w, http.StatusOK, struct{}{})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	user, err := client.CurrentUser(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	profile, err := client.ChannelProfile(ctx, "token-1", "some one")
	require.NoError(t, err)
	assert.Equal(t, int64(2), profile.SubscribersCount)

	history, err := client.WatchHistory(ctx, "token-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "bob", history[0].Owner.UserName)

	require.NoError(t, client.ChangePassword(ctx, "token-1", api.ChangePasswordRequest{OldPassword: "a", NewPassword: "b"}))
	require.NoError(t, client.Logout(ctx, "token-1"))
}

func TestClient_Refresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/refresh-token", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var req api.RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.RefreshToken != "refresh-1" {
			writeErrorEnvelope(w, http.StatusUnauthorized, "Refresh token is expired or used")
			return
		}
		writeEnvelope(w, http.StatusOK, api.TokenResponse{AccessToken: "access-2", RefreshToken: "refresh-2"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	resp, err := client.Refresh(context.Background(), "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, "access-2", resp.AccessToken)
	assert.Equal(t, "refresh-2", resp.RefreshToken)

	_, err = client.Refresh(context.Background(), "refresh-1-stale")
	assert.True(t, IsUnauthorized(err))
}

func TestClient_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, api.User{})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL)
	_, err := client.CurrentUser(ctx, "token")
	assert.Error(t, err)
	assert.False(t, IsUnauthorized(err))
}
