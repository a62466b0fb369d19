package main

import (
	"context"
	"fmt"
	"os"

	"github.com/damoang/eventhub-backend/internal/config"
	"github.com/damoang/eventhub-backend/internal/database"
	"github.com/damoang/eventhub-backend/internal/migration"
	pkglogger "github.com/damoang/eventhub-backend/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type dbKey struct{}

var (
	configPath string
	verbose    bool

	seedOpts = migration.SeedOptions{
		Users:         50,
		Events:        20,
		Threads:       30,
		AdminEmail:    "admin@example.com",
		AdminPassword: "changeme",
		Seed:          1,
	}

	rootCmd = &cobra.Command{
		Use:          "migrate",
		Short:        "EventHub database tooling",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config.LoadDotEnv()
			pkglogger.InitStructured(os.Getenv("APP_ENV"))

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err := database.Open(cfg.Database, verbose)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), dbKey{}, db))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			sqlDB, err := dbFrom(cmd).DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}

	upCmd = &cobra.Command{
		Use:   "up",
		Short: "Create or update every table and the default labels",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := migration.Run(dbFrom(cmd)); err != nil {
				return fmt.Errorf("migration: %w", err)
			}
			pkglogger.Info("schema is up to date")
			return nil
		},
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty database with demo members, events and threads",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db := dbFrom(cmd)
			if err := migration.Run(db); err != nil {
				return fmt.Errorf("migration: %w", err)
			}
			if err := migration.SeedDemo(db, seedOpts); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			pkglogger.Info("seeded %d users, %d events, %d threads (admin %s)",
				seedOpts.Users, seedOpts.Events, seedOpts.Threads, seedOpts.AdminEmail)
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log SQL statements")

	seedCmd.Flags().IntVar(&seedOpts.Users, "users", seedOpts.Users, "number of members")
	seedCmd.Flags().IntVar(&seedOpts.Events, "events", seedOpts.Events, "number of events")
	seedCmd.Flags().IntVar(&seedOpts.Threads, "threads", seedOpts.Threads, "number of DM threads")
	seedCmd.Flags().StringVar(&seedOpts.AdminEmail, "admin-email", seedOpts.AdminEmail, "staff login email")
	seedCmd.Flags().StringVar(&seedOpts.AdminPassword, "admin-password", seedOpts.AdminPassword, "staff login password")
	seedCmd.Flags().Int64Var(&seedOpts.Seed, "seed", seedOpts.Seed, "random seed (0 picks one)")

	rootCmd.AddCommand(upCmd, seedCmd)
}

func defaultConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func dbFrom(cmd *cobra.Command) *gorm.DB {
	return cmd.Context().Value(dbKey{}).(*gorm.DB)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
