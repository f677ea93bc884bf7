package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/congo-pay/banco/internal/config"
	"github.com/congo-pay/banco/internal/logging"
)

var (
	cfg      config.Config
	logger   *slog.Logger
	port     string
	logLevel string
)

// Execute runs the banco command tree.
func Execute() error {
	root := &cobra.Command{
		Use:           "banco",
		Short:         "In-memory account ledger service",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				loaded.Port = port
			}
			if logLevel != "" {
				loaded.LogLevel = logLevel
			}
			cfg = loaded
			logger = logging.New(cfg.LogLevel, slog.String("app", cfg.AppName), slog.String("env", cfg.AppEnv))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	root.AddCommand(serveCmd(), demoCmd())
	return root.Execute()
}
