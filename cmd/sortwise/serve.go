package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sortwise/sortwise/internal/classifier"
	"github.com/sortwise/sortwise/internal/common"
	"github.com/sortwise/sortwise/internal/config"
	"github.com/sortwise/sortwise/internal/directory"
	"github.com/sortwise/sortwise/internal/engine"
	"github.com/sortwise/sortwise/internal/server"
	"github.com/sortwise/sortwise/internal/storage"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Start the backend: open the user ledger, apply any pending migrations,
and serve the detection, profile, directory, and leaderboard endpoints.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (overrides config)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return common.NewUserError("Configuration is invalid; check your config file and SORTWISE_* environment", err)
	}

	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	clf, err := classifier.New(classifier.Config{
		Mode:          cfg.Classifier.Mode,
		InferenceURL:  cfg.Classifier.InferenceURL,
		MinConfidence: cfg.Classifier.MinConfidence,
	})
	if err != nil {
		return fmt.Errorf("failed to build classifier: %w", err)
	}

	rules, err := engine.LoadRuleset(cfg.Engine.RulesPath)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}

	dir, err := directory.New(cfg.Directory.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load center catalog: %w", err)
	}

	slog.Info("Starting sortwise",
		"addr", cfg.Server.Addr,
		"database", cfg.Database.Path,
		"classifier", cfg.Classifier.Mode)

	srv := server.New(cfg, store, clf, engine.New(rules), dir)
	return srv.Run(ctx)
}
