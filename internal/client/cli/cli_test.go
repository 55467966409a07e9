package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/vidhub/internal/client/api"
	"github.com/iudanet/vidhub/internal/client/auth"
	"github.com/iudanet/vidhub/internal/client/storage"
	pkgapi "github.com/iudanet/vidhub/pkg/api"
)

// fakeIO отдает заранее заданные ответы и собирает вывод
type fakeIO struct {
	out       bytes.Buffer
	inputs    []string
	passwords []string
}

func (f *fakeIO) Println(a ...any)               { fmt.Fprintln(&f.out, a...) }
func (f *fakeIO) Printf(format string, a ...any) { fmt.Fprintf(&f.out, format, a...) }
func (f *fakeIO) Write(p []byte) (int, error)    { return f.out.Write(p) }

func (f *fakeIO) ReadInput(prompt string) (string, error) {
	if len(f.inputs) == 0 {
		return "", errors.New("no input")
	}
	v := f.inputs[0]
	f.inputs = f.inputs[1:]
	return v, nil
}

func (f *fakeIO) ReadPassword(prompt string) (string, error) {
	if len(f.passwords) == 0 {
		return "", errors.New("no password")
	}
	v := f.passwords[0]
	f.passwords = f.passwords[1:]
	return v, nil
}

// fakeAuth implements auth.Service
type fakeAuth struct {
	session      *storage.AuthData
	loginErr     error
	registered   *api.RegisterForm
	loginID      string
	loginPass    string
	logoutErr    error
	loggedOut    bool
	refreshCalls int
}

func (f *fakeAuth) Register(ctx context.Context, form api.RegisterForm) (*pkgapi.User, error) {
	f.registered = &form
	return &pkgapi.User{ID: "user-1", UserName: form.UserName, Avatar: "https://media/a.png"}, nil
}

func (f *fakeAuth) Login(ctx context.Context, identifier, password string) (*storage.AuthData, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.loginID, f.loginPass = identifier, password
	f.session = &storage.AuthData{
		UserName:         identifier,
		AccessToken:      "access",
		AccessExpiresAt:  time.Now().Add(time.Hour).Unix(),
		RefreshExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
	}
	return f.session, nil
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	if f.session == nil {
		return auth.ErrNotLoggedIn
	}
	f.loggedOut = true
	f.session = nil
	return f.logoutErr
}

func (f *fakeAuth) Refresh(ctx context.Context) (*storage.AuthData, error) {
	f.refreshCalls++
	if f.session == nil {
		return nil, auth.ErrNotLoggedIn
	}
	return f.session, nil
}

func (f *fakeAuth) Session(ctx context.Context) (*storage.AuthData, error) {
	if f.session == nil {
		return nil, auth.ErrNotLoggedIn
	}
	return f.session, nil
}

func (f *fakeAuth) WithAccessToken(ctx context.Context, fn func(string) error) error {
	if f.session == nil {
		return auth.ErrNotLoggedIn
	}
	return fn(f.session.AccessToken)
}

// fakeProfiles implements storage.ProfileCache
type fakeProfiles struct {
	user *pkgapi.User
}

func (f *fakeProfiles) SaveProfile(ctx context.Context, user *pkgapi.User) error {
	f.user = user
	return nil
}

func (f *fakeProfiles) GetProfile(ctx context.Context) (*pkgapi.User, error) {
	if f.user == nil {
		return nil, storage.ErrAuthNotFound
	}
	return f.user, nil
}

func newTestCli(t *testing.T, handler http.Handler) (*Cli, *fakeIO, *fakeAuth, *fakeProfiles) {
	t.Helper()

	baseURL := "http://127.0.0.1:1"
	if handler != nil {
		server := httptest.NewServer(handler)
		t.Cleanup(server.Close)
		baseURL = server.URL
	}

	io := &fakeIO{}
	authSvc := &fakeAuth{}
	profiles := &fakeProfiles{}
	return New(api.NewClient(baseURL), authSvc, profiles, io, Passwords{}), io, authSvc, profiles
}

func envelope(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(pkgapi.NewResponse(http.StatusOK, data, "ok"))
}

func TestGetPassword_Priority(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "password.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("  from_file  \n\n"), 0o600))
	emptyPath := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(emptyPath, nil, 0o600))

	tests := []struct {
		passwords Passwords
		name      string
		env       string
		prompt    []string
		want      string
		wantErr   string
	}{
		{name: "env wins", env: "from_env", passwords: Passwords{FromFile: filePath, FromArgs: "from_args"}, want: "from_env"},
		{name: "file over args", passwords: Passwords{FromFile: filePath, FromArgs: "from_args"}, want: "from_file"},
		{name: "args", passwords: Passwords{FromArgs: "from_args"}, want: "from_args"},
		{name: "prompt", prompt: []string{"typed"}, want: "typed"},
		{name: "empty file", passwords: Passwords{FromFile: emptyPath}, wantErr: "password file is empty"},
		{name: "missing file", passwords: Passwords{FromFile: filepath.Join(dir, "none")}, wantErr: "failed to read password file"},
		{name: "empty prompt", prompt: []string{""}, wantErr: "password cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(PasswordEnvVar, tt.env)

			c, io, _, _ := newTestCli(t, nil)
			c.passwords = tt.passwords
			io.passwords = tt.prompt

			got, err := c.getPassword("Password: ")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun_Register(t *testing.T) {
	c, io, authSvc, _ := newTestCli(t, nil)
	io.inputs = []string{"alice", "alice@example.com", "Alice", "/tmp/a.png", ""}
	io.passwords = []string{"secret", "secret"}

	require.NoError(t, c.Run(context.Background(), "register", nil))

	require.NotNil(t, authSvc.registered)
	assert.Equal(t, "alice", authSvc.registered.UserName)
	assert.Equal(t, "alice@example.com", authSvc.registered.Email)
	assert.Equal(t, "/tmp/a.png", authSvc.registered.AvatarPath)
	assert.Empty(t, authSvc.registered.CoverImagePath)
	assert.Equal(t, "secret", authSvc.registered.Password)
	assert.Contains(t, io.out.String(), "Registration successful")
}

func TestRun_Register_PasswordMismatch(t *testing.T) {
	c, io, authSvc, _ := newTestCli(t, nil)
	io.inputs = []string{"alice", "alice@example.com", "Alice", "/tmp/a.png", ""}
	io.passwords = []string{"secret", "other"}

	err := c.Run(context.Background(), "register", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "passwords do not match")
	assert.Nil(t, authSvc.registered)
}

func TestRun_LoginStatusLogout(t *testing.T) {
	t.Setenv(PasswordEnvVar, "")
	ctx := context.Background()
	c, io, authSvc, profiles := newTestCli(t, nil)

	require.NoError(t, c.Run(ctx, "status", nil))
	assert.Contains(t, io.out.String(), "Not authenticated")

	io.inputs = []string{"alice@example.com"}
	io.passwords = []string{"secret"}
	require.NoError(t, c.Run(ctx, "login", nil))
	assert.Equal(t, "alice@example.com", authSvc.loginID)
	assert.Equal(t, "secret", authSvc.loginPass)
	assert.Contains(t, io.out.String(), "Login successful")

	profiles.user = &pkgapi.User{FullName: "Alice", Email: "alice@example.com"}
	io.out.Reset()
	require.NoError(t, c.Run(ctx, "status", nil))
	assert.Contains(t, io.out.String(), "Status: Authenticated")
	assert.Contains(t, io.out.String(), "Cached profile: Alice <alice@example.com>")

	require.NoError(t, c.Run(ctx, "refresh", nil))
	assert.Equal(t, 1, authSvc.refreshCalls)

	io.out.Reset()
	require.NoError(t, c.Run(ctx, "logout", nil))
	assert.True(t, authSvc.loggedOut)
	assert.Contains(t, io.out.String(), "Logged out alice@example.com")

	err := c.Run(ctx, "logout", nil)
	assert.ErrorIs(t, err, auth.ErrNotLoggedIn)
}

func TestRun_LoginError(t *testing.T) {
	t.Setenv(PasswordEnvVar, "")
	c, io, authSvc, _ := newTestCli(t, nil)
	authSvc.loginErr = errors.New("login failed: Invalid user credentials")
	io.inputs = []string{"alice"}
	c.passwords = Passwords{FromArgs: "wrong"}

	err := c.Run(context.Background(), "login", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid user credentials")
}

func TestRun_ServerCommands(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/users/current-user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		envelope(w, pkgapi.User{ID: "user-1", UserName: "alice", FullName: "Alice", WatchHistory: []string{"v1", "v2"}})
	})
	mux.HandleFunc("/api/v1/users/c/bob", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, pkgapi.ChannelProfile{UserName: "bob", FullName: "Bob", SubscribersCount: 7, IsSubscribed: true})
	})
	mux.HandleFunc("/api/v1/users/history", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, []pkgapi.WatchedVideo{{Title: "intro", Duration: 125, Owner: pkgapi.Owner{UserName: "bob"}}})
	})
	mux.HandleFunc("/api/v1/users/change-password", func(w http.ResponseWriter, r *http.Request) {
		var req pkgapi.ChangePasswordRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "old", req.OldPassword)
		assert.Equal(t, "new", req.NewPassword)
		envelope(w, struct{}{})
	})

	t.Setenv(PasswordEnvVar, "")
	ctx := context.Background()
	c, io, authSvc, profiles := newTestCli(t, mux)
	authSvc.session = &storage.AuthData{UserName: "alice", AccessToken: "access"}

	require.NoError(t, c.Run(ctx, "whoami", nil))
	assert.Contains(t, io.out.String(), "Username:    alice")
	assert.Contains(t, io.out.String(), "Videos watched: 2")
	require.NotNil(t, profiles.user)
	assert.Equal(t, "user-1", profiles.user.ID)

	io.out.Reset()
	require.NoError(t, c.Run(ctx, "channel", []string{"bob"}))
	assert.Contains(t, io.out.String(), "=== Bob (@bob) ===")
	assert.Contains(t, io.out.String(), "Subscribers:   7")
	assert.Contains(t, io.out.String(), "You are subscribed")

	io.out.Reset()
	require.NoError(t, c.Run(ctx, "history", nil))
	assert.Contains(t, io.out.String(), "1. intro by @bob (2:05)")

	c.passwords = Passwords{FromArgs: "old"}
	io.passwords = []string{"new", "new"}
	require.NoError(t, c.Run(ctx, "password", nil))
	assert.Contains(t, io.out.String(), "Password changed")
}

func TestRun_Errors(t *testing.T) {
	ctx := context.Background()
	c, io, _, _ := newTestCli(t, nil)

	err := c.Run(ctx, "channel", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage: channel")

	err = c.Run(ctx, "whoami", nil)
	assert.ErrorIs(t, err, auth.ErrNotLoggedIn)

	err = c.Run(ctx, "bogus", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command: bogus")
	assert.Contains(t, io.out.String(), "Commands:")
}

func TestRun_Logout_ServerUnconfirmed(t *testing.T) {
	ctx := context.Background()
	c, io, authSvc, _ := newTestCli(t, nil)
	authSvc.session = &storage.AuthData{
		UserName:         "alice",
		AccessExpiresAt:  time.Now().Add(time.Hour).Unix(),
		RefreshExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
	}
	authSvc.logoutErr = fmt.Errorf("%w: %w", auth.ErrServerLogout, errors.New("connection refused"))

	// локальный выход состоялся, поэтому команда успешна
	require.NoError(t, c.Run(ctx, "logout", nil))
	assert.Nil(t, authSvc.session)
	assert.Contains(t, io.out.String(), "server did not confirm logout")
	assert.Contains(t, io.out.String(), "Logged out alice")
}
