package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/chronos/internal/model"
)

var (
	searchType    string
	searchJSON    bool
	searchTimeout time.Duration
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Find ranked sources for a query",
	Long: `Search queries the configured backend and ranks the results by domain
credibility. When the backend fails or returns nothing, a curated list of
slang references is returned instead.

Example:
  chronos search "be right back"
  chronos search brb --type slang --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchType, "type", model.DefaultSearchType, "search type used in relevance reasons")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the result set as JSON")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 30*time.Second, "timeout for the lookup")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), searchTimeout)
	defer cancel()

	a, err := newApp(ctx, appConfig, logger)
	if err != nil {
		return err
	}

	st := searchType
	if strings.TrimSpace(st) == "" {
		st = model.DefaultSearchType
	}
	set := a.aggregator.Aggregate(ctx, strings.Join(args, " "), st)
	if set.Sources == nil {
		set.Sources = []model.Source{}
	}

	if searchJSON {
		return writeJSON(cmd.OutOrStdout(), set)
	}
	renderSources(cmd.OutOrStdout(), set.Sources, set.Origin)
	return nil
}
