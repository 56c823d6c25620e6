// Command catalogsync extracts supplier product pages and reconciles them
// into the catalog.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"catalogsync/internal/config"
	"catalogsync/internal/observability"
)

var (
	logLevel  string
	logFormat string

	cfg    *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "catalogsync",
	Short: "Extract supplier product pages and keep the catalog in sync",
	Long: `catalogsync fetches supplier product pages, extracts price, dimensions and
classification, suggests catalog fields and optionally reconciles the result
into suppliers, catalog entries, supplier relationships and price/stock history.

Configuration comes from the environment (or a .env file): DATABASE_DRIVER,
DATABASE_URL, REDIS_URL, OPENAI_API_KEY, METRICS_PORT, HTTP_ADDR and friends.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		if logFormat != "" {
			cfg.LogFormat = logFormat
		}
		logger = observability.NewLogger(observability.LogConfig{
			Level:       cfg.LogLevel,
			Format:      cfg.LogFormat,
			ServiceName: "catalogsync",
		})
		if cfg.MetricsPort != "" {
			observability.Start(cfg.MetricsPort, logger)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (default: LOG_LEVEL or info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json")

	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newUpdatePricesCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
