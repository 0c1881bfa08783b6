// Package main contains the entrypoint for the bot application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := 0
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		exitCode = 1
	}
	stop() // Ensure context cancellation is signaled before exit
	os.Exit(exitCode)
}

func newRootCmd() *cobra.Command {
	var configPath string

	runE := func(cmd *cobra.Command, _ []string) error {
		return runBot(cmd.Context(), configPath)
	}

	root := &cobra.Command{
		Use:               "bot",
		Short:             "Command driven Telegram bot",
		SilenceUsage:      true,
		PersistentPreRunE: loadDotEnv,
		RunE:              runE,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "./config.yaml", "Path to configuration file")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run the bot until interrupted (default)",
			Args:  cobra.NoArgs,
			RunE:  runE,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and exit",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runMigrate(configPath)
			},
		},
	)

	return root
}

// loadDotEnv loads a .env file from the working directory into the
// environment when one exists.
func loadDotEnv(*cobra.Command, []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}
