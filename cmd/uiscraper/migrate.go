package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uiscraper/backend/internal/infrastructure/persistence/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		if err := migrations.Up(cfg.Database.URL); err != nil {
			return err
		}
		log.Info().Msg("migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		steps, _ := cmd.Flags().GetInt("steps")
		if err := migrations.Down(cfg.Database.URL, steps); err != nil {
			return err
		}
		log.Info().Int("steps", steps).Msg("migrations rolled back")
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := migrations.CheckStatus(cfg.Database.URL)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version: %d\nlatest: %d\ndirty: %t\n", st.Version, st.Latest, st.Dirty)
		return nil
	},
}
