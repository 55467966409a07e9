package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/vidhub/internal/client/auth"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	session, err := c.authService.Session(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrNotLoggedIn) {
			c.io.Println("Status: Not authenticated")
			c.io.Println()
			c.io.Println("Run 'vidhub login' to authenticate.")
			return nil
		}
		return fmt.Errorf("failed to check authentication: %w", err)
	}

	accessExpires := time.Unix(session.AccessExpiresAt, 0)
	refreshExpires := time.Unix(session.RefreshExpiresAt, 0)

	c.io.Println("Status: Authenticated")
	c.io.Printf("Username: %s\n", session.UserName)
	c.io.Printf("Access token expires: %s\n", accessExpires.Format(time.RFC3339))
	c.io.Printf("Refresh token expires: %s\n", refreshExpires.Format(time.RFC3339))

	if remaining := time.Until(accessExpires); remaining > 0 {
		c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
	} else {
		c.io.Println("⚠️  Access token has expired, it will be refreshed on next request.")
	}

	// Кэш профиля может отсутствовать, это не ошибка
	if profile, err := c.profiles.GetProfile(ctx); err == nil {
		c.io.Println()
		c.io.Printf("Cached profile: %s <%s>\n", profile.FullName, profile.Email)
	}

	return nil
}
