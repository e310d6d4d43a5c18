package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/99minutos/courier-orders/internal/infrastructure/config"
	"github.com/99minutos/courier-orders/pkg/logger"
)

// courier migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg, err := config.Load(ctx)
		if err != nil {
			return err
		}
		initLogger(cfg)
		log := logger.Get()

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.close(log)

		log.Info().Str("db_driver", cfg.DB.Driver).Msg("schema up to date")
		return nil
	},
}
