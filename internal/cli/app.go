package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/chronos/internal/llm"
	"github.com/ppiankov/chronos/internal/model"
	"github.com/ppiankov/chronos/internal/pipeline"
	"github.com/ppiankov/chronos/internal/reconstruct"
	"github.com/ppiankov/chronos/internal/score"
	"github.com/ppiankov/chronos/internal/search"
	"github.com/ppiankov/chronos/internal/sources"
	"github.com/ppiankov/chronos/internal/util"
)

// app holds the wired components shared by the commands
type app struct {
	requester  *reconstruct.Requester
	aggregator *sources.Aggregator
	pipeline   *pipeline.Pipeline
}

// newApp wires the pipeline from configuration. A missing model credential
// is not an error here; reconstruction requests then fail with a
// configuration error while search keeps working.
func newApp(ctx context.Context, cfg *model.Config, log *zap.Logger) (*app, error) {
	searchClient := util.NewHTTPClient(time.Duration(cfg.Search.Timeout)*time.Second, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy)
	backend, err := search.NewProvider(cfg.Search, searchClient, cfg.HTTP.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("search backend: %w", err)
	}

	aggregator := sources.NewAggregator(backend, score.NewScorer(&cfg.Credibility),
		sources.WithLogger(log.Named("sources")),
		sources.WithLiveLimit(cfg.Search.LiveLimit),
	)

	llmClient := util.NewHTTPClient(time.Duration(cfg.LLM.Timeout)*time.Second, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy)
	provider, err := llm.NewProvider(ctx, llm.ConfigFromModel(cfg.LLM, llmClient))
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		log.Warn("no model credential configured, reconstruction is disabled",
			zap.String("provider", cfg.LLM.Provider))
		provider = nil
	case err != nil:
		return nil, fmt.Errorf("llm provider: %w", err)
	}

	requester := reconstruct.NewRequester(provider,
		reconstruct.WithProviderName(cfg.LLM.Provider),
		reconstruct.WithLogger(log.Named("reconstruct")),
	)

	p := pipeline.NewPipeline(requester, aggregator, pipeline.WithLogger(log.Named("pipeline")))

	return &app{
		requester:  requester,
		aggregator: aggregator,
		pipeline:   p,
	}, nil
}
