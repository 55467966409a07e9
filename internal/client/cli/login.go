package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	identifier, err := c.io.ReadInput("Username or email: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, err := c.getPassword("Password: ")
	if err != nil {
		return err
	}

	c.io.Println("Authenticating...")

	auth, err := c.authService.Login(ctx, identifier, password)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Username: %s\n", auth.UserName)
	c.io.Printf("Access token expires: %s\n", time.Unix(auth.AccessExpiresAt, 0).Format(time.RFC3339))
	c.io.Println("Your session has been saved.")

	return nil
}

func (c *Cli) runRefresh(ctx context.Context) error {
	auth, err := c.authService.Refresh(ctx)
	if err != nil {
		return err
	}

	c.io.Println("✓ Tokens refreshed")
	c.io.Printf("Access token expires: %s\n", time.Unix(auth.AccessExpiresAt, 0).Format(time.RFC3339))
	c.io.Printf("Refresh token expires: %s\n", time.Unix(auth.RefreshExpiresAt, 0).Format(time.RFC3339))
	return nil
}
