package cli

import (
	"context"
	"fmt"

	pkgapi "github.com/iudanet/vidhub/pkg/api"
)

func (c *Cli) runWhoami(ctx context.Context) error {
	var user *pkgapi.User
	err := c.authService.WithAccessToken(ctx, func(token string) error {
		var err error
		user, err = c.apiClient.CurrentUser(ctx, token)
		return err
	})
	if err != nil {
		return err
	}

	if err := c.profiles.SaveProfile(ctx, user); err != nil {
		c.io.Printf("Warning: failed to cache profile: %v\n", err)
	}

	c.io.Printf("ID:          %s\n", user.ID)
	c.io.Printf("Username:    %s\n", user.UserName)
	c.io.Printf("Full name:   %s\n", user.FullName)
	c.io.Printf("Email:       %s\n", user.Email)
	c.io.Printf("Avatar:      %s\n", user.Avatar)
	if user.CoverImage != "" {
		c.io.Printf("Cover image: %s\n", user.CoverImage)
	}
	c.io.Printf("Videos watched: %d\n", len(user.WatchHistory))
	return nil
}

func (c *Cli) runChannel(ctx context.Context, userName string) error {
	var profile *pkgapi.ChannelProfile
	err := c.authService.WithAccessToken(ctx, func(token string) error {
		var err error
		profile, err = c.apiClient.ChannelProfile(ctx, token, userName)
		return err
	})
	if err != nil {
		return err
	}

	c.io.Printf("=== %s (@%s) ===\n", profile.FullName, profile.UserName)
	c.io.Printf("Subscribers:   %d\n", profile.SubscribersCount)
	c.io.Printf("Subscribed to: %d\n", profile.ChannelsSubscribedToCount)
	if profile.IsSubscribed {
		c.io.Println("✓ You are subscribed")
	}
	return nil
}

func (c *Cli) runHistory(ctx context.Context) error {
	var history []pkgapi.WatchedVideo
	err := c.authService.WithAccessToken(ctx, func(token string) error {
		var err error
		history, err = c.apiClient.WatchHistory(ctx, token)
		return err
	})
	if err != nil {
		return err
	}

	if len(history) == 0 {
		c.io.Println("Watch history is empty.")
		return nil
	}

	for i, video := range history {
		c.io.Printf("%d. %s by @%s (%s)\n", i+1, video.Title, video.Owner.UserName, fmtDuration(video.Duration))
	}
	return nil
}

func (c *Cli) runChangePassword(ctx context.Context) error {
	oldPassword, err := c.getPassword("Current password: ")
	if err != nil {
		return err
	}
	newPassword, err := c.io.ReadPassword("New password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	confirm, err := c.io.ReadPassword("Confirm new password: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if newPassword != confirm {
		return fmt.Errorf("passwords do not match")
	}

	req := pkgapi.ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}
	err = c.authService.WithAccessToken(ctx, func(token string) error {
		return c.apiClient.ChangePassword(ctx, token, req)
	})
	if err != nil {
		return err
	}

	c.io.Println("✓ Password changed")
	return nil
}

func fmtDuration(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
