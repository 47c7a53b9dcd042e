package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/addrcache/internal/addrcache"
	"github.com/sells-group/addrcache/internal/sample"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print cached addresses for one or more states",
	Long: `Reads the cached addresses for every requested state and writes them to
stdout in the cache file format. With --count the combined pool is shuffled
and cut to that many rows. Every state must have been acquired first.`,
	Example: "  addrcache sample --states IL,CA --count 10",
	RunE: func(cmd *cobra.Command, _ []string) error {
		statesStr, _ := cmd.Flags().GetString("states")
		count, _ := cmd.Flags().GetInt("count")

		codes := splitAndTrim(statesStr)
		if len(codes) == 0 {
			return eris.New("sample: --states is required")
		}

		store, err := openStore()
		if err != nil {
			return err
		}

		records, err := sample.NewLoader(store, nil).Load(codes, count)
		if err != nil {
			return err
		}
		return addrcache.WriteRecords(cmd.OutOrStdout(), records)
	},
}

func init() {
	sampleCmd.Flags().String("states", "", "comma-separated state codes (e.g. IL,CA)")
	sampleCmd.Flags().Int("count", 0, "number of addresses to return (0 = all)")
	rootCmd.AddCommand(sampleCmd)
}
