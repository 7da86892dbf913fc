package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/chronos/internal/pipeline"
)

// Runner runs the reconstruction pipeline for one fragment
type Runner interface {
	Run(ctx context.Context, fragment string) *pipeline.Run
}

// FragmentJob is one pipeline run in a batch
type FragmentJob struct {
	Index    int
	Fragment string
	Runner   Runner
}

// Execute executes the pipeline run
func (j *FragmentJob) Execute(ctx context.Context) Result {
	return &FragmentResult{
		Index:    j.Index,
		Fragment: j.Fragment,
		Run:      j.Runner.Run(ctx, j.Fragment),
	}
}

// FragmentResult is the outcome of one FragmentJob
type FragmentResult struct {
	Index    int
	Fragment string
	Run      *pipeline.Run
}

// GetError returns the pipeline error, if the run failed
func (r *FragmentResult) GetError() error {
	if r.Run == nil {
		return nil
	}
	return r.Run.Err
}

// BatchProcessor runs independent pipelines for many fragments concurrently
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessFragments runs every fragment and returns results in input order.
// Fragments that never ran because ctx ended get a failed run carrying the
// context error.
func (b *BatchProcessor) ProcessFragments(ctx context.Context, fragments []string) []*FragmentResult {
	if len(fragments) == 0 {
		return []*FragmentResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, fragment := range fragments {
		if err := pool.Submit(&FragmentJob{Index: i, Fragment: fragment, Runner: b.runner}); err != nil {
			break
		}
	}

	results := make([]*FragmentResult, len(fragments))
	for _, r := range pool.Wait() {
		fr := r.(*FragmentResult)
		results[fr.Index] = fr
	}

	for i, r := range results {
		if r == nil {
			results[i] = &FragmentResult{
				Index:    i,
				Fragment: fragments[i],
				Run: &pipeline.Run{
					Fragment: fragments[i],
					State:    pipeline.StateFailed,
					Err:      ctxErr(ctx),
				},
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results
}

// ProcessFile reads fragments from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*FragmentResult, error) {
	fragments, err := ReadFragmentsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read fragments: %w", err)
	}

	return b.ProcessFragments(ctx, fragments), nil
}

// ReadFragmentsFromFile reads one fragment per line, skipping blank lines
// and # comments and dropping duplicates
func ReadFragmentsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var fragments []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			fragments = append(fragments, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return fragments, nil
}

func ctxErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return context.Canceled
}
