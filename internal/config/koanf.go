package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// ConfigPathEnvVar переопределяет путь к YAML файлу
	ConfigPathEnvVar = "VIDHUB_CONFIG"
	// EnvPrefix префикс переменных окружения
	EnvPrefix = "VIDHUB_"
)

// DefaultConfigPaths пути поиска файла конфигурации по порядку
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// sections разделы конфигурации, длинные первыми
var sections = []string{"rate_limit", "database", "logging", "server", "media", "auth"}

// sliceConfigPaths поля, которые в env задаются через запятую
var sliceConfigPaths = []string{"server.cors_origins"}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			CORSOrigins:     []string{"http://localhost:3000"},
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxJSONBytes:    16 << 10,
			MaxUploadBytes:  10 << 20,
			CookieSecure:    true,
		},
		Database: DatabaseConfig{
			Path: "vidhub.db",
		},
		Auth: AuthConfig{
			Issuer:                 "vidhub",
			AccessTTL:              24 * time.Hour,
			RefreshTTL:             10 * 24 * time.Hour,
			SessionCleanupInterval: time.Hour,
		},
		Media: MediaConfig{
			Backend:       MediaBackendLocal,
			LocalDir:      "./public/media",
			PublicBaseURL: "http://localhost:8000/media",
			Prefix:        "images",
		},
		RateLimit: RateLimitConfig{
			Requests:      300,
			Window:        time.Minute,
			LoginRequests: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load загружает конфигурацию: defaults < YAML файл < VIDHUB_* env
func Load() (*Config, error) {
	return LoadFrom(findConfigFile())
}

// LoadFrom загружает конфигурацию из указанного файла; пустой путь пропускает файл
func LoadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// VIDHUB_AUTH_ACCESS_SECRET -> auth.access_secret
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransformFunc отображает имя переменной в путь koanf.
// Неизвестные разделы отбрасываются, включая сам VIDHUB_CONFIG.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	for _, section := range sections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok && rest != "" {
			return section + "." + rest
		}
	}
	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
