// Package config загружает настройки сервера через koanf:
// значения по умолчанию, затем YAML файл, затем переменные окружения VIDHUB_*.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Config корневая конфигурация сервера
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Auth      AuthConfig      `koanf:"auth"`
	Media     MediaConfig     `koanf:"media"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	CookieDomain    string        `koanf:"cookie_domain"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	MaxJSONBytes    int64         `koanf:"max_json_bytes"`
	MaxUploadBytes  int64         `koanf:"max_upload_bytes"`
	CookieSecure    bool          `koanf:"cookie_secure"`
	// TrustProxy разрешает брать IP клиента из X-Forwarded-For/X-Real-IP.
	// Включать только за reverse proxy, который перезаписывает эти заголовки.
	TrustProxy      bool          `koanf:"trust_proxy"`
}

// DatabaseConfig настройки SQLite
type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// AuthConfig секреты и время жизни токенов
type AuthConfig struct {
	AccessSecret           string        `koanf:"access_secret"`
	RefreshSecret          string        `koanf:"refresh_secret"`
	Issuer                 string        `koanf:"issuer"`
	AccessTTL              time.Duration `koanf:"access_ttl"`
	RefreshTTL             time.Duration `koanf:"refresh_ttl"`
	SessionCleanupInterval time.Duration `koanf:"session_cleanup_interval"`
}

// MediaConfig выбор и настройки хранилища изображений
type MediaConfig struct {
	// Backend: "local" или "s3"
	Backend       string `koanf:"backend"`
	Bucket        string `koanf:"bucket"`
	Region        string `koanf:"region"`
	Endpoint      string `koanf:"endpoint"`
	AccessKey     string `koanf:"access_key"`
	SecretKey     string `koanf:"secret_key"`
	Prefix        string `koanf:"prefix"`
	PublicBaseURL string `koanf:"public_base_url"`
	LocalDir      string `koanf:"local_dir"`
	TempDir       string `koanf:"temp_dir"`
}

// RateLimitConfig лимиты запросов на IP
type RateLimitConfig struct {
	Window        time.Duration `koanf:"window"`
	Requests      int           `koanf:"requests"`
	LoginRequests int           `koanf:"login_requests"`
}

// LoggingConfig уровень и формат slog
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

const (
	MediaBackendLocal = "local"
	MediaBackendS3    = "s3"
)

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}

	if c.Auth.AccessSecret == "" {
		errs = append(errs, errors.New("auth.access_secret is required"))
	}
	if c.Auth.RefreshSecret == "" {
		errs = append(errs, errors.New("auth.refresh_secret is required"))
	}
	if c.Auth.AccessSecret != "" && c.Auth.AccessSecret == c.Auth.RefreshSecret {
		errs = append(errs, errors.New("auth.access_secret and auth.refresh_secret must differ"))
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		errs = append(errs, errors.New("auth token TTLs must be positive"))
	}

	switch c.Media.Backend {
	case MediaBackendLocal:
		if c.Media.LocalDir == "" {
			errs = append(errs, errors.New("media.local_dir is required for local backend"))
		}
	case MediaBackendS3:
		if c.Media.Bucket == "" {
			errs = append(errs, errors.New("media.bucket is required for s3 backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("media.backend must be %q or %q, got %q", MediaBackendLocal, MediaBackendS3, c.Media.Backend))
	}

	if _, err := parseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// SlogLevel возвращает уровень логирования для slog
func (l LoggingConfig) SlogLevel() slog.Level {
	level, err := parseLevel(l.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}
