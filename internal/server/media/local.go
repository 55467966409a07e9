package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalUploader keeps assets in a directory served by the API itself
type LocalUploader struct {
	dir     string
	baseURL string
}

// NewLocalUploader creates the directory if needed
func NewLocalUploader(dir, baseURL string) (*LocalUploader, error) {
	if dir == "" {
		return nil, errors.New("media: local dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalUploader{dir: dir, baseURL: baseURL}, nil
}

// Dir returns the root directory of stored assets
func (u *LocalUploader) Dir() string {
	return u.dir
}

// Upload копирует staged файл в dir под новым ключом и удаляет исходник
func (u *LocalUploader) Upload(ctx context.Context, localPath string) (*Asset, error) {
	if localPath == "" {
		return nil, ErrEmptyPath
	}
	defer func() {
		_ = os.Remove(localPath)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, size, _, err := openStaged(localPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = src.Close()
	}()

	key := newKey("", localPath)
	dst, err := os.OpenFile(filepath.Join(u.dir, key), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return nil, fmt.Errorf("copy asset: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return nil, fmt.Errorf("close asset: %w", err)
	}

	return &Asset{URL: publicURL(u.baseURL, key), Key: key, Size: size}, nil
}

// Delete удаляет файл; отсутствующий файл не считается ошибкой
func (u *LocalUploader) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	// берем только имя файла, ключ не должен выходить за пределы dir
	path := filepath.Join(u.dir, filepath.Base(key))
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete asset: %w", err)
	}
	return nil
}
