package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/addrcache/internal/addrcache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the local address cache",
}

// -- cache list --

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached states and region archives",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")

		store, err := openStore()
		if err != nil {
			return err
		}

		report, err := buildCacheReport(store)
		if err != nil {
			return eris.Wrap(err, "cache list")
		}

		out := cmd.OutOrStdout()
		switch format {
		case "table", "":
			formatCacheTable(out, report, time.Now())
			return nil
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		case "yaml":
			enc := yaml.NewEncoder(out)
			defer enc.Close() //nolint:errcheck
			return enc.Encode(report)
		default:
			return eris.Errorf("cache list: unknown format %q (want table, json or yaml)", format)
		}
	},
}

// -- cache path --

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache root directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), store.Root())
		return err
	},
}

type cacheReport struct {
	Root     string                  `json:"root" yaml:"root"`
	States   []addrcache.CachedState `json:"states" yaml:"states"`
	Archives []archiveView           `json:"archives" yaml:"archives"`
}

type archiveView struct {
	Region string `json:"region" yaml:"region"`
	Kind   string `json:"kind" yaml:"kind"`
	Path   string `json:"path" yaml:"path"`
	Size   int64  `json:"size_bytes" yaml:"size_bytes"`
}

func buildCacheReport(store *addrcache.Store) (*cacheReport, error) {
	states, err := store.ListCached()
	if err != nil {
		return nil, err
	}
	archives, err := store.CachedArchives()
	if err != nil {
		return nil, err
	}

	report := &cacheReport{
		Root:     store.Root(),
		States:   states,
		Archives: make([]archiveView, 0, len(archives)),
	}
	if report.States == nil {
		report.States = []addrcache.CachedState{}
	}
	for _, a := range archives {
		report.Archives = append(report.Archives, archiveView{
			Region: a.Region.String(),
			Kind:   a.Kind.String(),
			Path:   a.Path,
			Size:   a.Size,
		})
	}
	return report, nil
}

func formatCacheTable(out io.Writer, r *cacheReport, now time.Time) {
	_, _ = fmt.Fprintf(out, "Cache root: %s\n\n", r.Root)

	if len(r.States) == 0 {
		_, _ = fmt.Fprintln(out, "No states cached.")
	} else {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "STATE\tRECORDS\tDOWNLOADED\tSOURCE")
		_, _ = fmt.Fprintln(w, "-----\t-------\t----------\t------")
		for _, s := range r.States {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				s.Code,
				humanize.Comma(int64(s.Entry.RecordCount)),
				humanize.RelTime(s.Entry.DownloadedAt, now, "ago", "from now"),
				s.Entry.SourceURL,
			)
		}
		_ = w.Flush()
	}

	if len(r.Archives) > 0 {
		_, _ = fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "REGION\tKIND\tSIZE\tPATH")
		_, _ = fmt.Fprintln(w, "------\t----\t----\t----")
		for _, a := range r.Archives {
			size := "-"
			if a.Kind == "zip" {
				size = humanize.Bytes(uint64(a.Size))
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Region, a.Kind, size, a.Path)
		}
		_ = w.Flush()
	}
}

func init() {
	cacheListCmd.Flags().String("format", "table", "output format: table, json or yaml")

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cachePathCmd)
	rootCmd.AddCommand(cacheCmd)
}
