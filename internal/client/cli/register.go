package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/vidhub/internal/client/api"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	var form api.RegisterForm
	prompts := []struct {
		dst    *string
		prompt string
	}{
		{&form.UserName, "Username: "},
		{&form.Email, "Email: "},
		{&form.FullName, "Full name: "},
		{&form.AvatarPath, "Avatar file: "},
		{&form.CoverImagePath, "Cover image file (optional): "},
	}
	for _, p := range prompts {
		value, err := c.io.ReadInput(p.prompt)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		*p.dst = value
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}
	form.Password = password

	c.io.Println()
	c.io.Println("Registering user...")

	user, err := c.authService.Register(ctx, form)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("User ID: %s\n", user.ID)
	c.io.Printf("Username: %s\n", user.UserName)
	c.io.Printf("Avatar: %s\n", user.Avatar)
	c.io.Println()
	c.io.Println("Please run 'vidhub login' to start using the service.")

	return nil
}
