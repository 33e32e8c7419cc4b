package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"game_dashboard/pkg/logger"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "dashboard",
		Short:         "Game dashboard backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to config file (default ./config.yaml)")

	load := func() (*Config, error) {
		cfg, err := LoadConfig(configFile)
		if err != nil {
			return nil, err
		}
		if err := logger.InitializeWithFile(cfg.LogLevel, cfg.LogFile); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		return cfg, nil
	}

	root.AddCommand(newServeCmd(load), newMigrateCmd(load))
	return root
}
