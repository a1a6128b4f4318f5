package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:          "travelctl",
		Short:        "Administrative tasks for the travel booking platform",
		Version:      Version,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", envOr("CONFIG_PATH", "config.yaml"), "path to config file")

	connect := func(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
		cfg, err := config.LoadConfig(cfgPath)
		if err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return cfg, pool, nil
	}

	rootCmd.AddCommand(migrateCmd(connect))
	rootCmd.AddCommand(grantRoleCmd(connect))
	rootCmd.AddCommand(exportBookingsCmd(connect))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type connectFunc func(ctx context.Context) (*config.Config, *pgxpool.Pool, error)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
