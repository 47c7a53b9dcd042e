package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/addrcache/internal/addrcache"
	"github.com/sells-group/addrcache/internal/config"
	"github.com/sells-group/addrcache/internal/fetcher"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "addrcache",
	Short: "Local cache of real US street addresses",
	Long:  "Downloads OpenAddresses regional bundles, normalizes them into a uniform schema, and keeps a bounded per-state sample on disk for test data generation.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

// openStore returns the cache store at the configured root.
func openStore() (*addrcache.Store, error) {
	root, err := cfg.CacheRoot()
	if err != nil {
		return nil, err
	}
	return addrcache.New(root), nil
}

func newFetcher() *fetcher.HTTPFetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:      cfg.Fetch.UserAgent,
		Timeout:        time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		ConnectTimeout: time.Duration(cfg.Fetch.ConnectTimeoutSecs) * time.Second,
		MaxAttempts:    cfg.Fetch.MaxRetries + 1,
		RatePerSec:     cfg.Fetch.RatePerSec,
	})
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
