package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"passpoll/internal/platform/logger"
	"passpoll/internal/platform/postgres"
)

func newMigrateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the Postgres schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}
			if cfg.Postgres.DSN == "" {
				return errors.New("postgres.dsn is required")
			}
			log := logger.New(cfg.Log.Level, cfg.Log.Format)

			db, err := postgres.Connect(cmd.Context(), cfg.Postgres.DSN)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			log.Info("schema applied")
			return nil
		},
	}
}
