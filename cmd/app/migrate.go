package main

import (
	"game_dashboard/internal/repository"
	"game_dashboard/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd(load func() (*Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create database tables if they are missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			repo, err := repository.New(cfg.Database)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.Migrate(cmd.Context()); err != nil {
				return err
			}
			logger.Logger().Info("migration complete", zap.String("driver", cfg.Database.Driver))
			return nil
		},
	}
}
