// Package media stores user-supplied images (avatars, cover images) on a
// media host and returns their public URLs.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrEmptyPath is returned when Upload is called without a file
	ErrEmptyPath = errors.New("media: empty local path")
	// ErrEmptyFile is returned for zero-length uploads
	ErrEmptyFile = errors.New("media: empty file")
)

// Asset is a file stored on the media host
type Asset struct {
	URL  string `json:"url"`
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// Uploader moves a locally staged file to the media host.
//
// Upload always removes localPath, on success and on failure.
// Delete removes a previously uploaded asset by key.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (*Asset, error)
	Delete(ctx context.Context, key string) error
}

// newKey builds a unique object key keeping the original extension
func newKey(prefix, localPath string) string {
	ext := strings.ToLower(filepath.Ext(localPath))
	key := uuid.New().String() + ext
	if prefix != "" {
		key = strings.Trim(prefix, "/") + "/" + key
	}
	return key
}

// publicURL joins base and key
func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}

// openStaged opens the staged file and sniffs its content type
func openStaged(localPath string) (*os.File, int64, string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, 0, "", fmt.Errorf("open staged file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, "", fmt.Errorf("stat staged file: %w", err)
	}
	if info.Size() == 0 {
		_ = f.Close()
		return nil, 0, "", ErrEmptyFile
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		_ = f.Close()
		return nil, 0, "", fmt.Errorf("read staged file: %w", err)
	}
	contentType := http.DetectContentType(head[:n])

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, 0, "", fmt.Errorf("rewind staged file: %w", err)
	}

	return f, info.Size(), contentType, nil
}
