package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stageFile writes content into a temp file the way the handlers stage uploads
func stageFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestLocalUploader_Upload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	u, err := NewLocalUploader(dir, "http://localhost:8080/media/")
	require.NoError(t, err)

	staged := stageFile(t, "avatar.PNG", pngHeader)

	asset, err := u.Upload(ctx, staged)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(asset.Key, ".png"))
	assert.Equal(t, "http://localhost:8080/media/"+asset.Key, asset.URL)
	assert.Equal(t, int64(len(pngHeader)), asset.Size)

	stored, err := os.ReadFile(filepath.Join(dir, asset.Key))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)

	_, err = os.Stat(staged)
	assert.True(t, os.IsNotExist(err), "staged file must be removed after upload")
}

func TestLocalUploader_UploadFailureRemovesStaged(t *testing.T) {
	ctx := context.Background()
	u, err := NewLocalUploader(t.TempDir(), "/media")
	require.NoError(t, err)

	tests := []struct {
		wantErr error
		name    string
		content []byte
	}{
		{name: "empty file", content: []byte{}, wantErr: ErrEmptyFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			staged := stageFile(t, "x.png", tt.content)

			asset, err := u.Upload(ctx, staged)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, asset)

			_, statErr := os.Stat(staged)
			assert.True(t, os.IsNotExist(statErr))
		})
	}

	t.Run("empty path", func(t *testing.T) {
		_, err := u.Upload(ctx, "")
		assert.ErrorIs(t, err, ErrEmptyPath)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := u.Upload(ctx, filepath.Join(t.TempDir(), "missing.png"))
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		staged := stageFile(t, "c.png", pngHeader)
		_, err := u.Upload(cctx, staged)
		assert.ErrorIs(t, err, context.Canceled)

		_, statErr := os.Stat(staged)
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestLocalUploader_Delete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	u, err := NewLocalUploader(dir, "/media")
	require.NoError(t, err)

	asset, err := u.Upload(ctx, stageFile(t, "d.png", pngHeader))
	require.NoError(t, err)

	require.NoError(t, u.Delete(ctx, asset.Key))
	_, err = os.Stat(filepath.Join(dir, asset.Key))
	assert.True(t, os.IsNotExist(err))

	// повторное удаление и пустой ключ не ошибка
	assert.NoError(t, u.Delete(ctx, asset.Key))
	assert.NoError(t, u.Delete(ctx, ""))
}

func TestNewLocalUploader_RequiresDir(t *testing.T) {
	_, err := NewLocalUploader("", "/media")
	assert.Error(t, err)
}
