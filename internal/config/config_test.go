package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("VIDHUB_AUTH_ACCESS_SECRET", "access-secret")
	t.Setenv("VIDHUB_AUTH_REFRESH_SECRET", "refresh-secret")
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, int64(16<<10), cfg.Server.MaxJSONBytes)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.True(t, cfg.Server.CookieSecure)
	assert.False(t, cfg.Server.TrustProxy)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTTL)
	assert.Equal(t, 10*24*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, MediaBackendLocal, cfg.Media.Backend)
	assert.Equal(t, "json", cfg.Logging.Format)

	// Секреты не имеют значений по умолчанию
	assert.Empty(t, cfg.Auth.AccessSecret)
	assert.Empty(t, cfg.Auth.RefreshSecret)
	assert.Error(t, cfg.Validate())
}

func TestLoadFrom_EnvOnly(t *testing.T) {
	setSecrets(t)
	t.Setenv("VIDHUB_SERVER_ADDR", ":9090")
	t.Setenv("VIDHUB_AUTH_ACCESS_TTL", "15m")
	t.Setenv("VIDHUB_RATE_LIMIT_LOGIN_REQUESTS", "3")
	t.Setenv("VIDHUB_SERVER_CORS_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("VIDHUB_SERVER_COOKIE_SECURE", "false")
	t.Setenv("VIDHUB_SERVER_TRUST_PROXY", "true")
	t.Setenv("VIDHUB_UNKNOWN_THING", "ignored")

	cfg, err := LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "access-secret", cfg.Auth.AccessSecret)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, 10*24*time.Hour, cfg.Auth.RefreshTTL, "defaults survive")
	assert.Equal(t, 3, cfg.RateLimit.LoginRequests)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.Server.CookieSecure)
	assert.True(t, cfg.Server.TrustProxy)
}

func TestLoadFrom_FileThenEnv(t *testing.T) {
	setSecrets(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":7000"
  cors_origins:
    - "https://app.example"
database:
  path: /data/vidhub.db
media:
  backend: s3
  bucket: avatars
  region: eu-central-1
  endpoint: http://minio:9000
logging:
  level: debug
  format: text
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// env имеет приоритет над файлом
	t.Setenv("VIDHUB_DATABASE_PATH", "/tmp/override.db")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://app.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
	assert.Equal(t, MediaBackendS3, cfg.Media.Backend)
	assert.Equal(t, "avatars", cfg.Media.Bucket)
	assert.Equal(t, "http://minio:9000", cfg.Media.Endpoint)
	assert.Equal(t, slog.LevelDebug, cfg.Logging.SlogLevel())
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_ConfigPathEnvVar(t *testing.T) {
	setSecrets(t)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":6000\"\n"), 0o600))
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":6000", cfg.Server.Addr)
}

func TestLoadFrom_MissingFile(t *testing.T) {
	setSecrets(t)
	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Auth.AccessSecret = "a"
		cfg.Auth.RefreshSecret = "b"
		return cfg
	}

	tests := []struct {
		mutate  func(c *Config)
		name    string
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing access secret", mutate: func(c *Config) { c.Auth.AccessSecret = "" }, wantErr: "auth.access_secret"},
		{name: "equal secrets", mutate: func(c *Config) { c.Auth.RefreshSecret = "a" }, wantErr: "must differ"},
		{name: "zero ttl", mutate: func(c *Config) { c.Auth.AccessTTL = 0 }, wantErr: "TTLs"},
		{name: "unknown backend", mutate: func(c *Config) { c.Media.Backend = "ftp" }, wantErr: "media.backend"},
		{name: "s3 without bucket", mutate: func(c *Config) { c.Media.Backend = MediaBackendS3 }, wantErr: "media.bucket"},
		{name: "local without dir", mutate: func(c *Config) { c.Media.LocalDir = "" }, wantErr: "media.local_dir"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "logging.level"},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "logging.format"},
		{name: "empty database path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: "database.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"VIDHUB_AUTH_ACCESS_SECRET", "auth.access_secret"},
		{"VIDHUB_RATE_LIMIT_WINDOW", "rate_limit.window"},
		{"VIDHUB_MEDIA_PUBLIC_BASE_URL", "media.public_base_url"},
		{"VIDHUB_CONFIG", ""},
		{"VIDHUB_SERVER_", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, envTransformFunc(tt.in))
		})
	}
}

func TestSlogLevel_Fallback(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, LoggingConfig{Level: "warn"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LoggingConfig{Level: "nonsense"}.SlogLevel())
}
