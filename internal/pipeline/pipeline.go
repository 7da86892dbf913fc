// Package pipeline sequences reconstruction and source lookup for one
// fragment and tracks the run's state.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/chronos/internal/metrics"
	"github.com/ppiankov/chronos/internal/model"
)

// State is a pipeline run state
type State string

const (
	StateIdle           State = "idle"
	StateReconstructing State = "reconstructing"
	StateSearching      State = "searching"
	StateDone           State = "done"
	StateFailed         State = "failed"
)

// Terminal reports whether no further transitions follow s
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Reconstructor produces a structured reconstruction for a fragment
type Reconstructor interface {
	Reconstruct(ctx context.Context, fragment string) (*model.ReconstructionResult, error)
}

// SourceFinder looks up corroborating sources for a query. A non-nil error
// is tolerated by the pipeline.
type SourceFinder interface {
	Find(ctx context.Context, query, searchType string) (model.SearchResultSet, error)
}

// Observer is notified of every state change
type Observer func(from, to State)

// Run is the outcome of one pipeline execution
type Run struct {
	Fragment string
	State    State
	Result   *model.ReconstructionResult
	Sources  []model.Source
	Origin   model.SourceOrigin
	Elapsed  time.Duration
	Err      error // Set when State is StateFailed
}

// Pipeline orchestrates Reconstruct then Find
type Pipeline struct {
	reconstructor Reconstructor
	finder        SourceFinder
	observer      Observer
	logger        *zap.Logger
	now           func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithObserver registers a transition observer
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		p.observer = o
	}
}

// NewPipeline creates a new pipeline
func NewPipeline(r Reconstructor, f SourceFinder, opts ...Option) *Pipeline {
	p := &Pipeline{
		reconstructor: r,
		finder:        f,
		logger:        zap.NewNop(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the pipeline for fragment. It never returns nil; failures
// are reported through Run.Err with State set to StateFailed. Search
// failures are not fatal.
func (p *Pipeline) Run(ctx context.Context, fragment string) *Run {
	start := p.now()
	run := &Run{Fragment: fragment, State: StateIdle, Sources: []model.Source{}}

	p.transition(run, StateReconstructing)
	result, err := p.reconstructor.Reconstruct(ctx, fragment)
	if err != nil {
		run.Err = err
		p.finish(run, StateFailed, start)
		p.logger.Warn("pipeline failed", zap.Error(err), zap.Duration("elapsed", run.Elapsed))
		return run
	}
	run.Result = result

	p.transition(run, StateSearching)
	if p.finder != nil {
		set, err := p.finder.Find(ctx, result.MostLikely, model.DefaultSearchType)
		if err != nil {
			p.logger.Warn("source lookup failed, continuing without sources",
				zap.String("query", result.MostLikely),
				zap.Error(err),
			)
		} else {
			run.Sources = set.Sources
			run.Origin = set.Origin
		}
	}

	p.finish(run, StateDone, start)
	p.logger.Info("pipeline done",
		zap.Int("sources", len(run.Sources)),
		zap.String("origin", string(run.Origin)),
		zap.Duration("elapsed", run.Elapsed),
	)
	return run
}

func (p *Pipeline) finish(run *Run, to State, start time.Time) {
	run.Elapsed = p.now().Sub(start)
	p.transition(run, to)
	metrics.PipelineDuration.WithLabelValues(string(to)).Observe(run.Elapsed.Seconds())
}

func (p *Pipeline) transition(run *Run, to State) {
	from := run.State
	run.State = to
	metrics.PipelineTransitions.WithLabelValues(string(from), string(to)).Inc()
	p.logger.Debug("pipeline transition", zap.String("from", string(from)), zap.String("to", string(to)))
	if p.observer != nil {
		p.observer(from, to)
	}
}
