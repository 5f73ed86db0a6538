package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/uiscraper/backend/internal/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "uiscraper",
	Short:         "UiScraper backend: API server, generation worker, and migrations",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(serveCmd, workerCmd, migrateCmd, nativeHostCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	migrateDownCmd.Flags().Int("steps", 1, "number of migrations to roll back")
	nativeHostCmd.Flags().String("out", ".", "directory saveCode messages write into")
}

// loadConfig reads the configuration and builds the process logger from it.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, newLogger(cfg.Log), nil
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	var log zerolog.Logger
	if cfg.Pretty {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(level).With().Timestamp().Logger()
}
