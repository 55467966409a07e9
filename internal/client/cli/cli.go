package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iudanet/vidhub/internal/client/api"
	"github.com/iudanet/vidhub/internal/client/auth"
	"github.com/iudanet/vidhub/internal/client/iocli"
	"github.com/iudanet/vidhub/internal/client/storage"
)

// PasswordEnvVar переменная окружения с паролем для неинтерактивного входа
const PasswordEnvVar = "VIDHUB_PASSWORD"

// Passwords источники пароля, кроме переменной окружения и prompt
type Passwords struct {
	FromFile string
	FromArgs string
}

type Cli struct {
	apiClient   *api.Client
	authService auth.Service
	profiles    storage.ProfileCache
	io          iocli.IO
	passwords   Passwords
}

func New(apiClient *api.Client, authService auth.Service, profiles storage.ProfileCache, io iocli.IO, passwords Passwords) *Cli {
	return &Cli{
		apiClient:   apiClient,
		authService: authService,
		profiles:    profiles,
		io:          io,
		passwords:   passwords,
	}
}

// getPassword retrieves password from various sources with priority:
// 1. Environment variable VIDHUB_PASSWORD
// 2. File specified in passwords.FromFile
// 3. Command-line parameter passwords.FromArgs
// 4. Interactive prompt (fallback)
func (c *Cli) getPassword(prompt string) (string, error) {
	if envPassword := os.Getenv(PasswordEnvVar); envPassword != "" {
		return envPassword, nil
	}

	if c.passwords.FromFile != "" {
		content, err := os.ReadFile(c.passwords.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline/whitespace
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	if c.passwords.FromArgs != "" {
		return c.passwords.FromArgs, nil
	}

	password, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	return password, nil
}

func PrintUsage(w io.Writer) {
	lines := []string{
		"VidHub Client",
		"",
		"Usage:",
		"  vidhub [OPTIONS] COMMAND [ARGS]",
		"",
		"Options:",
		"  --version              Show version information",
		"  --server URL           Server URL (default: http://localhost:8000)",
		"  --db PATH              Path to local session database (default: vidhub-client.db)",
		"  --password PASSWORD    Password (not recommended, use env var or file)",
		"  --password-file PATH   Path to file containing password",
		"",
		"Password Priority (highest to lowest):",
		"  1. " + PasswordEnvVar + " environment variable",
		"  2. --password-file (file path)",
		"  3. --password (command line)",
		"  4. Interactive prompt (fallback)",
		"",
		"Commands:",
		"  register               Register new user (avatar required)",
		"  login                  Login with username or email",
		"  logout                 Logout and delete local session",
		"  refresh                Rotate access and refresh tokens",
		"  status                 Show local session status",
		"  whoami                 Show current user profile",
		"  channel <userName>     Show channel profile",
		"  history                Show watch history",
		"  password               Change password",
		"",
		"Examples:",
		"  vidhub register",
		"  vidhub login",
		"  vidhub channel alice",
		"  vidhub --server https://example.com login",
	}
	for _, line := range lines {
		_, _ = fmt.Fprintln(w, line)
	}
}
