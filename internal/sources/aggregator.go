package sources

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/chronos/internal/metrics"
	"github.com/ppiankov/chronos/internal/model"
	"github.com/ppiankov/chronos/internal/score"
	"github.com/ppiankov/chronos/internal/search"
	"github.com/ppiankov/chronos/internal/util"
)

// Aggregator turns a query into a ranked, credibility-scored source list
type Aggregator struct {
	provider  search.Provider
	scorer    *score.Scorer
	liveLimit int
	logger    *zap.Logger
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithLiveLimit caps how many results are requested from the backend
func WithLiveLimit(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.liveLimit = n
		}
	}
}

// NewAggregator creates an aggregator over a search provider. A nil
// provider always takes the curated path.
func NewAggregator(provider search.Provider, scorer *score.Scorer, opts ...Option) *Aggregator {
	if scorer == nil {
		scorer = score.NewScorer(nil)
	}
	a := &Aggregator{
		provider:  provider,
		scorer:    scorer,
		liveLimit: 4,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate returns at most model.MaxSources sources for query, sorted by
// descending credibility. Live results are used when the backend returns
// any; otherwise the curated fallback is used. It never fails.
func (a *Aggregator) Aggregate(ctx context.Context, query, searchType string) model.SearchResultSet {
	if searchType == "" {
		searchType = model.DefaultSearchType
	}

	set := model.SearchResultSet{Origin: model.OriginLive}
	if a.provider != nil {
		set.Backend = a.provider.Name()
	}

	set.Sources = a.Live(ctx, query, searchType)
	if len(set.Sources) == 0 {
		set.Origin = model.OriginCurated
		set.Sources = Curated(query)
	}

	metrics.SourceLookups.WithLabelValues(string(set.Origin)).Inc()

	set.Sources = Rank(set.Sources)
	return set
}

// Live queries the backend once and scores what it returns. Backend errors
// are logged and yield no sources.
func (a *Aggregator) Live(ctx context.Context, query, searchType string) []model.Source {
	if a.provider == nil {
		return nil
	}

	results, err := a.provider.Search(ctx, query, a.liveLimit)
	if err != nil {
		metrics.SearchFailures.WithLabelValues(a.provider.Name()).Inc()
		a.logger.Warn("live search failed, using curated sources",
			zap.String("backend", a.provider.Name()),
			zap.String("query", query),
			zap.Error(err),
		)
		return nil
	}

	out := make([]model.Source, 0, len(results))
	for _, r := range results {
		u := strings.TrimSpace(r.URL)
		if !util.IsAbsoluteHTTPURL(u) {
			a.logger.Debug("dropping search result without absolute url", zap.String("url", r.URL))
			continue
		}
		assessment := a.scorer.Score(u, r.Title, r.Snippet, searchType)
		out = append(out, model.Source{
			Title:           r.Title,
			URL:             u,
			Snippet:         r.Snippet,
			Credibility:     assessment.Credibility,
			RelevanceReason: assessment.Reason,
		})
	}
	return out
}

// Rank stable-sorts sources by descending credibility and keeps the top
// model.MaxSources. The input slice is not modified.
func Rank(in []model.Source) []model.Source {
	out := make([]model.Source, len(in))
	copy(out, in)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Credibility > out[j].Credibility
	})

	if len(out) > model.MaxSources {
		out = out[:model.MaxSources]
	}
	return out
}

// Find is Aggregate for callers that need to know the query was cut short.
// The returned set is always filled; err is the context error, if any.
func (a *Aggregator) Find(ctx context.Context, query, searchType string) (model.SearchResultSet, error) {
	set := a.Aggregate(ctx, query, searchType)
	return set, ctx.Err()
}
