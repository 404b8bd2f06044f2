// internal/app/command.go
package app

import (
	"clinic-billing/internal/config"
	"clinic-billing/internal/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// DeskBuilder wires a desk from loaded configuration.
type DeskBuilder func(cfg config.AppConfig, logger *zap.Logger) (*Desk, error)

// NewCommand builds the root command shared by both binaries. Flags override the environment.
func NewCommand(use, short string, build DeskBuilder) *cobra.Command {
	var (
		seed     bool
		logLevel string
	)

	cmd := &cobra.Command{
		Use:          use,
		Short:        short,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			envErr := godotenv.Load()

			cfg := config.Load()
			if cmd.Flags().Changed("seed") {
				cfg.SeedSampleData = seed
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if envErr != nil {
				log.Debug("no .env file found, relying on system env vars")
			}

			desk, err := build(cfg, log.Named(use))
			if err != nil {
				return err
			}
			return desk.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", true, "seed sample data on start (overrides SEED_SAMPLE_DATA)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	return cmd
}
