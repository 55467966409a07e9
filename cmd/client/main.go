package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/vidhub/internal/client/api"
	"github.com/iudanet/vidhub/internal/client/auth"
	"github.com/iudanet/vidhub/internal/client/cli"
	"github.com/iudanet/vidhub/internal/client/iocli"
	"github.com/iudanet/vidhub/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8000", "Server URL")
	dbPath := flag.String("db", "vidhub-client.db", "Path to local session database")
	password := flag.String("password", "", "Password (not recommended, use "+cli.PasswordEnvVar+" or --password-file)")
	passwordFile := flag.String("password-file", "", "Path to file containing password")

	flag.Usage = func() {
		cli.PrintUsage(os.Stderr)
	}
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage(os.Stderr)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Открываем BoltDB storage
	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}

	apiClient := api.NewClient(*serverURL)
	authService := auth.NewAuthService(apiClient, boltStorage)

	c := cli.New(apiClient, authService, boltStorage, iocli.NewStdio(), cli.Passwords{
		FromFile: *passwordFile,
		FromArgs: *password,
	})

	runErr := c.Run(ctx, args[0], args[1:])

	if err := boltStorage.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		// Ошибки валидации полей приходят списком
		var apiErr *api.Error
		if errors.As(runErr, &apiErr) {
			for _, msg := range apiErr.Errors {
				fmt.Fprintf(os.Stderr, "  - %s\n", msg)
			}
		}
		stop()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("VidHub Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
