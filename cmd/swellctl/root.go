package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/buoy-swell-service/internal/adapter/ndbc"
	"github.com/couchcryptid/buoy-swell-service/internal/config"
	"github.com/couchcryptid/buoy-swell-service/internal/observability"
)

var (
	baseURL string
	timeout time.Duration
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "swellctl",
	Short: "Inspect NDBC buoy swell data from the command line",
	Long: `swellctl fetches NDBC realtime spectral wave tables and prints the
per-period swell breakdown and detected swell trains. Configuration comes
from the same environment variables as the swell service.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "NDBC realtime2 base URL (overrides NDBC_BASE_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "NDBC request timeout (overrides NDBC_TIMEOUT)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
}

// loadConfig reads the service configuration and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.NDBCBaseURL = baseURL
	}
	if timeout > 0 {
		cfg.NDBCTimeout = timeout
	}
	return cfg, nil
}

func cliLogger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newClient(cfg *config.Config) *ndbc.Client {
	return ndbc.NewClient(cfg.NDBCBaseURL, cfg.NDBCTimeout, observability.NewMetricsForTesting(), cliLogger())
}
