package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/chronos/internal/worker"
)

var (
	batchOutput  string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Reconstruct many fragments from a file in parallel",
	Long: `Batch processes multiple fragments concurrently:
- Read fragments from input file (one per line, # comments ignored)
- Run an independent pipeline for each fragment
- Write all runs, in input order, as a JSON array

Example:
  chronos batch fragments.txt
  chronos batch fragments.txt --concurrency 8 --output runs.json
  chronos batch fragments.txt --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().Int("concurrency", 0, "number of concurrent workers (default 4)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "write JSON results to this file instead of stdout")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	_ = viper.BindPFlag("concurrency.workers", batchCmd.Flags().Lookup("concurrency"))
}

func runBatch(cmd *cobra.Command, args []string) (err error) {
	file := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	a, err := newApp(ctx, appConfig, logger)
	if err != nil {
		return err
	}

	workers := appConfig.Concurrency.Workers
	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "  Chronos Batch Processing\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(stderr, "\n")

	processor := worker.NewBatchProcessor(a.pipeline, workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	views := make([]runView, 0, len(results))
	failures := 0
	for _, result := range results {
		if rerr := result.GetError(); rerr != nil {
			failures++
			fmt.Fprintf(stderr, "✗ %s: %v\n", result.Fragment, rerr)
		} else {
			fmt.Fprintf(stderr, "✓ %s → %s\n", result.Fragment, result.Run.Result.MostLikely)
		}
		views = append(views, newRunView(result.Run))
	}

	out := cmd.OutOrStdout()
	if batchOutput != "" {
		f, err := os.Create(batchOutput)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close output file: %w", closeErr)
			}
		}()
		out = f
	}
	if err := writeJSON(out, views); err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Total:     %d fragments\n", len(results))
	fmt.Fprintf(stderr, "  Success:   %d\n", len(results)-failures)
	fmt.Fprintf(stderr, "  Failures:  %d\n", failures)
	fmt.Fprintf(stderr, "\n")
	return nil
}
