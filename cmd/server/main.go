package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/vidhub/internal/config"
	"github.com/iudanet/vidhub/internal/server/handlers"
	"github.com/iudanet/vidhub/internal/server/jwt"
	"github.com/iudanet/vidhub/internal/server/media"
	"github.com/iudanet/vidhub/internal/server/router"
	"github.com/iudanet/vidhub/internal/server/storage/sqlite"
	"github.com/iudanet/vidhub/internal/server/users"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "", "Path to YAML config (overrides "+config.ConfigPathEnvVar+")")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "vidhub server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	tokens, err := jwt.NewService(jwt.Config{
		AccessSecret:  []byte(cfg.Auth.AccessSecret),
		RefreshSecret: []byte(cfg.Auth.RefreshSecret),
		Issuer:        cfg.Auth.Issuer,
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to init tokens: %w", err)
	}

	uploader, mediaDir, err := newUploader(ctx, cfg.Media)
	if err != nil {
		return fmt.Errorf("failed to init media: %w", err)
	}

	svc := users.NewService(logger, store, tokens, uploader)
	go svc.RunSessionCleanup(ctx, cfg.Auth.SessionCleanupInterval)

	handler := router.New(router.Config{
		MediaDir:         mediaDir,
		CORSOrigins:      cfg.Server.CORSOrigins,
		RateLimit:        cfg.RateLimit.Requests,
		LoginRateLimit:   cfg.RateLimit.LoginRequests,
		RateLimitWindow:  cfg.RateLimit.Window,
		CORSMaxAgeSecond: 300,
		TrustProxy:       cfg.Server.TrustProxy,
	}, router.Deps{
		Logger: logger,
		Tokens: tokens,
		Users:  store,
		User: handlers.NewUserHandler(logger, svc, handlers.UserHandlerOptions{
			Cookies: handlers.CookieConfig{
				Domain: cfg.Server.CookieDomain,
				Secure: cfg.Server.CookieSecure,
			},
			TempDir:        cfg.Media.TempDir,
			MaxJSONBytes:   cfg.Server.MaxJSONBytes,
			MaxUploadBytes: cfg.Server.MaxUploadBytes,
		}),
		Health: handlers.NewHealthHandler(logger, store, Version),
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening",
			slog.String("addr", server.Addr),
			slog.String("version", Version),
			slog.String("media_backend", cfg.Media.Backend),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server stopped")

	return nil
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// newUploader возвращает uploader и каталог для раздачи /media (только local)
func newUploader(ctx context.Context, cfg config.MediaConfig) (media.Uploader, string, error) {
	switch cfg.Backend {
	case config.MediaBackendS3:
		uploader, err := media.NewS3Uploader(ctx, media.S3Config{
			Bucket:        cfg.Bucket,
			Region:        cfg.Region,
			Endpoint:      cfg.Endpoint,
			AccessKey:     cfg.AccessKey,
			SecretKey:     cfg.SecretKey,
			PublicBaseURL: cfg.PublicBaseURL,
			Prefix:        cfg.Prefix,
		})
		return uploader, "", err
	default:
		uploader, err := media.NewLocalUploader(cfg.LocalDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, "", err
		}
		return uploader, uploader.Dir(), nil
	}
}

func printVersion() {
	fmt.Printf("VidHub Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
