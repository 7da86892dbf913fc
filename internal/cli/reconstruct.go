package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/chronos/internal/pipeline"
)

var (
	jsonOutput bool
	noSearch   bool
	runTimeout time.Duration
)

// reconstructCmd represents the reconstruct command
var reconstructCmd = &cobra.Command{
	Use:   "reconstruct <fragment...>",
	Short: "Reconstruct a single text fragment",
	Long: `Reconstruct runs the full pipeline for one fragment:
- Ask the configured model for the most likely full text
- Look up corroborating sources for the reconstruction
- Print the result with alternatives, key terms and ranked sources

Arguments are joined with spaces to form the fragment.

Example:
  chronos reconstruct "brb gtg ttyl"
  chronos reconstruct a/s/l --json
  chronos reconstruct "omg lol" --no-search`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReconstruct,
}

func init() {
	rootCmd.AddCommand(reconstructCmd)

	reconstructCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the run as JSON")
	reconstructCmd.Flags().BoolVar(&noSearch, "no-search", false, "skip the source lookup")
	reconstructCmd.Flags().DurationVar(&runTimeout, "timeout", 60*time.Second, "timeout for the whole run")
}

func runReconstruct(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	a, err := newApp(ctx, appConfig, logger)
	if err != nil {
		return err
	}

	p := a.pipeline
	if noSearch {
		p = pipeline.NewPipeline(a.requester, nil, pipeline.WithLogger(logger.Named("pipeline")))
	}

	run := p.Run(ctx, strings.Join(args, " "))
	if jsonOutput {
		if err := writeJSON(cmd.OutOrStdout(), newRunView(run)); err != nil {
			return err
		}
	} else {
		renderRun(cmd.OutOrStdout(), run)
	}
	return run.Err
}
