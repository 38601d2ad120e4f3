package main

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/memoria/pkg/core"
)

var (
	queryQuestion string
	queryFilters  core.Filters
	queryLimit    string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search past entries",
	Long: `Search the devlog, the decision log and the experiment table by keyword.
Invalid filter values are ignored with a warning.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		f := queryFilters
		f.Limit = parseLimit(queryLimit)
		return writeJSON(cmd.OutOrStdout(), svc.Search(cmd.Context(), queryQuestion, f))
	},
}

// parseLimit reads --limit. Anything that is not a number falls back to the configured default.
func parseLimit(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		slog.Warn("ignoring limit", "value", s, "error", core.ErrInvalidFilter)
		return 0
	}
	return n
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryQuestion, "question", "q", "", "Search query")
	queryCmd.Flags().StringVar(&queryFilters.FromDate, "from-date", "", "Earliest entry date (YYYY-MM-DD)")
	queryCmd.Flags().StringVar(&queryFilters.ToDate, "to-date", "", "Latest entry date (YYYY-MM-DD)")
	queryCmd.Flags().StringVar(&queryFilters.Phase, "phase", "", "Research phase")
	queryCmd.Flags().StringVar(&queryFilters.Type, "type", "", "Store to search (devlog|decisions|experiments)")
	queryCmd.Flags().StringVar(&queryLimit, "limit", "", "Maximum number of matches (default: search.max_results)")
	queryCmd.MarkFlagRequired("question")
}
