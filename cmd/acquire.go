package main

import (
	"fmt"
	"io"
	"os/signal"
	"sort"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/addrcache/internal/acquire"
)

var acquireCmd = &cobra.Command{
	Use:   "acquire",
	Short: "Download and cache addresses for one or more states",
	Long: `Fetches the OpenAddresses bundle for each region that holds a requested
state, keeps a random sample of up to --limit normalized addresses per state,
and records it in the cache manifest.

States already cached are skipped unless --force is given. A region bundle
kept under the cache root (or extracted there as a directory) is used instead
of the network.`,
	Example: "  addrcache acquire --states IL,CA --limit 5000",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		statesStr, _ := cmd.Flags().GetString("states")
		limit, _ := cmd.Flags().GetInt("limit")
		force, _ := cmd.Flags().GetBool("force")
		quiet, _ := cmd.Flags().GetBool("quiet")

		codes := splitAndTrim(statesStr)
		if len(codes) == 0 {
			return eris.New("acquire: --states is required")
		}
		if limit <= 0 {
			limit = cfg.Acquire.Limit
		}

		store, err := openStore()
		if err != nil {
			return err
		}

		p := acquire.New(store, newFetcher(), nil, cfg.Endpoints())
		res, err := p.Acquire(ctx, codes, acquire.Options{
			Limit:        limit,
			Force:        force,
			Quiet:        quiet,
			KeepArchives: cfg.Cache.KeepArchives,
		})
		if err != nil {
			return err
		}

		formatAcquireResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func formatAcquireResult(out io.Writer, res *acquire.Result) {
	codes := make([]string, 0, len(res.Cached))
	for code := range res.Cached {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		_, _ = fmt.Fprintf(out, "cached   %s  %d records\n", code, res.Cached[code])
	}
	for _, code := range res.Skipped {
		_, _ = fmt.Fprintf(out, "skipped  %s  already cached\n", code)
	}
	for _, code := range res.Empty {
		_, _ = fmt.Fprintf(out, "empty    %s  no addresses found\n", code)
	}
}

func init() {
	acquireCmd.Flags().String("states", "", "comma-separated state codes (e.g. IL,CA)")
	acquireCmd.Flags().Int("limit", 0, "max addresses kept per state (default acquire.limit)")
	acquireCmd.Flags().Bool("force", false, "re-download states that are already cached")
	acquireCmd.Flags().Bool("quiet", false, "log warnings and errors only")
	rootCmd.AddCommand(acquireCmd)
}
