package users

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/vidhub/internal/models"
	"github.com/iudanet/vidhub/internal/server/apperr"
	"github.com/iudanet/vidhub/internal/server/jwt"
	"github.com/iudanet/vidhub/internal/server/media"
	"github.com/iudanet/vidhub/internal/server/storage/sqlite"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeUploader records uploads and deletions; paths listed in fail are rejected
type fakeUploader struct {
	fail    map[string]bool
	deleted []string
	keys    []string
	mu      sync.Mutex
	n       int
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{fail: make(map[string]bool)}
}

func (u *fakeUploader) Upload(_ context.Context, localPath string) (*media.Asset, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	_ = os.Remove(localPath)
	if u.fail[localPath] {
		return nil, errors.New("media host unavailable")
	}

	u.n++
	key := fmt.Sprintf("asset-%d%s", u.n, filepath.Ext(localPath))
	u.keys = append(u.keys, key)
	return &media.Asset{URL: "https://media.test/" + key, Key: key, Size: 1}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) uploads() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.keys)
}

type testEnv struct {
	svc      *Service
	store    *sqlite.Storage
	uploader *fakeUploader
	tokens   *jwt.Service
}

func newTokenService(t *testing.T) *jwt.Service {
	t.Helper()
	tokens, err := jwt.NewService(jwt.Config{
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	})
	require.NoError(t, err)
	return tokens
}

func setupTestService(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	uploader := newFakeUploader()
	tokens := newTokenService(t)

	return &testEnv{
		svc:      NewService(setupTestLogger(), store, tokens, uploader),
		store:    store,
		uploader: uploader,
		tokens:   tokens,
	}
}

// stage creates a file the way the HTTP layer stages multipart uploads
func stage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("image-bytes"), 0o600))
	return path
}

func requireAppError(t *testing.T, err error, status int, message string) {
	t.Helper()
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, status, appErr.Status)
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
}

func (e *testEnv) register(t *testing.T, username, password string) *models.User {
	t.Helper()
	user, err := e.svc.Register(context.Background(), RegisterInput{
		Email:      username + "@example.com",
		FullName:   "Full " + username,
		UserName:   username,
		Password:   password,
		AvatarPath: stage(t, username+".png"),
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) login(t *testing.T, username, password string) *AuthResult {
	t.Helper()
	res, err := e.svc.Login(context.Background(), LoginInput{UserName: username, Password: password}, ClientMeta{UserAgent: "test"})
	require.NoError(t, err)
	return res
}
