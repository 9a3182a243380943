package main

import (
	"context"
	"log/slog"

	"github.com/arllen133/jobboard/internal/config"
	"github.com/arllen133/jobboard/internal/database"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "jobboard",
		Short:         "Job board web application",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	load := func() (*config.Config, *slog.Logger, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, nil, err
		}
		logger := cfg.Log.NewLogger()
		slog.SetDefault(logger)
		return cfg, logger, nil
	}

	root.AddCommand(
		newServeCmd(load),
		newMigrateCmd(load),
	)
	return root
}

type loader func() (*config.Config, *slog.Logger, error)

func openDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*database.Session, error) {
	opts := []database.SessionOption{
		database.WithLogger(logger),
		database.WithQueryLogging(cfg.Database.LogQueries),
		database.WithSlowQueryThreshold(cfg.Database.SlowQueryThreshold),
	}
	if cfg.Telemetry.Tracing {
		opts = append(opts, database.WithDefaultTracer())
	}
	if cfg.Telemetry.Metrics {
		opts = append(opts, database.WithDefaultMeter())
	}
	return database.Open(ctx, cfg.Database.Config, opts...)
}
