package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/iudanet/vidhub/internal/server/apperr"
)

const (
	// DefaultMaxJSONBytes предел JSON тела запроса
	DefaultMaxJSONBytes = 16 << 10
	// DefaultMaxUploadBytes предел multipart запроса
	DefaultMaxUploadBytes = 10 << 20
	// multipartMemory часть формы, которая держится в памяти; остальное на диске
	multipartMemory = 1 << 20
)

var allowedImageExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
}

// decodeJSON читает JSON тело с ограничением размера. Пустое тело не ошибка.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.As(err, &maxErr):
			return apperr.TooLarge(fmt.Sprintf("request body must not exceed %d bytes", maxErr.Limit))
		default:
			return apperr.BadRequest("invalid request body").Wrap(err)
		}
	}
	return nil
}

// parseMultipart разбирает multipart форму с ограничением размера
func parseMultipart(w http.ResponseWriter, r *http.Request, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.TooLarge(fmt.Sprintf("upload must not exceed %d bytes", maxErr.Limit))
		}
		return apperr.BadRequest("invalid multipart form").Wrap(err)
	}
	return nil
}

// stageFile сохраняет файл из поля формы во временный файл.
// Возвращает пустой путь, если поле отсутствует.
func stageFile(r *http.Request, field, tempDir string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", apperr.BadRequest("invalid file " + field).Wrap(err)
	}
	defer func() {
		_ = file.Close()
	}()

	if header.Size == 0 {
		return "", nil
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExt[ext] {
		return "", apperr.BadRequest(fmt.Sprintf("%s must be an image (png, jpg, gif, webp)", field))
	}

	return copyToTemp(file, tempDir, ext)
}

func copyToTemp(src multipart.File, tempDir, ext string) (string, error) {
	dst, err := os.CreateTemp(tempDir, "upload-*"+ext)
	if err != nil {
		return "", apperr.Internal("", fmt.Errorf("create temp file: %w", err))
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", apperr.Internal("", fmt.Errorf("write temp file: %w", err))
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", apperr.Internal("", fmt.Errorf("close temp file: %w", err))
	}

	return dst.Name(), nil
}

// removeStaged удаляет временные файлы, которые не забрал media uploader
func removeStaged(paths ...string) {
	for _, path := range paths {
		if path != "" {
			_ = os.Remove(path)
		}
	}
}

// clientIP возвращает адрес клиента без порта
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
