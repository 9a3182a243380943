package main

import (
	"github.com/spf13/cobra"
)

func newMigrateCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Args:  cobra.NoArgs,
		Short: "Create the database tables if they do not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := openDatabase(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(ctx); err != nil {
				return err
			}
			logger.InfoContext(ctx, "migration complete", "driver", db.Dialect().Name())
			return nil
		},
	}
}
