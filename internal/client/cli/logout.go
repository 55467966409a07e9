package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/vidhub/internal/client/auth"
)

// runLogout закрывает сессию на сервере и удаляет токены из bbolt.
// Недоступный сервер не мешает локальному выходу, это только предупреждение.
func (c *Cli) runLogout(ctx context.Context) error {
	session, err := c.authService.Session(ctx)
	if err != nil && !errors.Is(err, auth.ErrNotLoggedIn) {
		return fmt.Errorf("failed to read session: %w", err)
	}

	err = c.authService.Logout(ctx)
	switch {
	case errors.Is(err, auth.ErrServerLogout):
		c.io.Printf("⚠️  %v\n", err)
		c.io.Println("Local tokens were removed; the server session expires on its own.")
	case err != nil:
		return fmt.Errorf("logout failed: %w", err)
	}

	if session != nil && session.UserName != "" {
		c.io.Printf("✓ Logged out %s\n", session.UserName)
	} else {
		c.io.Println("✓ Logged out")
	}
	return nil
}
