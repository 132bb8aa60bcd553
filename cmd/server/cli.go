package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yonatan12121/TMS/internal/config"
	"github.com/yonatan12121/TMS/internal/platform/logger"
	"github.com/yonatan12121/TMS/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

// migrateCommands are the goose commands the migrate subcommand accepts.
var migrateCommands = map[string]bool{
	"up":      true,
	"down":    true,
	"status":  true,
	"version": true,
	"reset":   true,
	"redo":    true,
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:          "tms",
		Short:        "Task management API server",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "",
		"path to a config file (defaults to ./config.yaml when present)")

	root.AddCommand(
		newServeCmd(&configFile),
		newMigrateCmd(&configFile),
		newHashPasswordCmd(),
	)
	return root
}

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader := config.NewLoader()
			if *configFile != "" {
				loader.SetConfigFile(*configFile)
			}
			cfg, err := loader.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			log, err := logger.Setup(cfg.Server)
			if err != nil {
				return fmt.Errorf("failed to set up logger: %w", err)
			}
			log.Info("server configuration loaded",
				slog.Int("port", cfg.Server.Port),
				slog.String("log_level", cfg.Server.LogLevel),
				slog.String("config_file", loader.ConfigFileUsed()))

			if loader.Watch(func(updated *config.Config) {
				logger.SetLevel(updated.Server.LogLevel)
				log.Info("configuration reloaded", slog.String("log_level", updated.Server.LogLevel))
			}) {
				log.Debug("watching config file for changes")
			}

			db, err := openDatabase(cfg.Database, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := runMigrations(ctx, db, "up", log); err != nil {
				_ = db.Close()
				return err
			}

			app, err := newApplication(cfg, db, log)
			if err != nil {
				_ = db.Close()
				return err
			}
			return app.run(ctx)
		},
	}
}

func newMigrateCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version|reset|redo]",
		Short:     "Apply or inspect database migrations",
		Args:      validateMigrateArgs,
		ValidArgs: []string{"up", "down", "status", "version", "reset", "redo"},
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewLoader()
			if *configFile != "" {
				loader.SetConfigFile(*configFile)
			}
			cfg, err := loader.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			log, err := logger.Setup(cfg.Server)
			if err != nil {
				return fmt.Errorf("failed to set up logger: %w", err)
			}

			db, err := openDatabase(cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return runMigrations(cmd.Context(), db, args[0], log)
		},
	}
}

// validateMigrateArgs rejects unknown commands before any config is loaded.
func validateMigrateArgs(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one migration command, got %d", len(args))
	}
	if !migrateCommands[args[0]] {
		return fmt.Errorf("unknown migration command %q", args[0])
	}
	return nil
}

func newHashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.NewBcryptHasher(cost).Hash(args[0])
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost factor")
	return cmd
}
