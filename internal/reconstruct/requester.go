// Package reconstruct asks a generative provider to rebuild a text fragment
// and validates the structured answer.
package reconstruct

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/chronos/internal/apperr"
	"github.com/ppiankov/chronos/internal/llm"
	"github.com/ppiankov/chronos/internal/metrics"
	"github.com/ppiankov/chronos/internal/model"
)

// User-facing messages
const (
	MsgTextRequired = "Text input is required"
	MsgUpstream     = "Failed to reconstruct text"
)

// Requester turns a fragment into a ReconstructionResult
type Requester struct {
	provider     llm.Provider
	providerName string
	logger       *zap.Logger
}

// Option configures a Requester
type Option func(*Requester)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(r *Requester) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithProviderName names the configured provider in the missing-credential
// message. It defaults to Gemini.
func WithProviderName(name string) Option {
	return func(r *Requester) {
		r.providerName = name
	}
}

// NewRequester creates a requester. A nil provider means no credential was
// configured; every non-empty fragment then fails with a configuration error.
func NewRequester(provider llm.Provider, opts ...Option) *Requester {
	r := &Requester{
		provider:     provider,
		providerName: "gemini",
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconstruct validates fragment, calls the provider once and parses the
// answer. Errors are *apperr.Error values.
func (r *Requester) Reconstruct(ctx context.Context, fragment string) (*model.ReconstructionResult, error) {
	res, err := r.reconstruct(ctx, fragment)
	outcome := "ok"
	if err != nil {
		outcome = string(apperr.KindOf(err))
	}
	metrics.Reconstructions.WithLabelValues(outcome).Inc()
	return res, err
}

func (r *Requester) reconstruct(ctx context.Context, fragment string) (*model.ReconstructionResult, error) {
	if strings.TrimSpace(fragment) == "" {
		return nil, apperr.Validation(MsgTextRequired)
	}

	if r.provider == nil {
		return nil, apperr.Configuration(llm.DisplayName(r.providerName) + " API key not configured")
	}

	raw, err := r.provider.Generate(ctx, BuildPrompt(fragment))
	if err != nil {
		r.logger.Error("generation failed",
			zap.String("provider", r.provider.Name()),
			zap.Error(err),
		)
		return nil, apperr.Upstream(MsgUpstream, err)
	}

	res, err := Parse(raw)
	if err != nil {
		r.logger.Warn("unparseable model response",
			zap.String("provider", r.provider.Name()),
			zap.String("raw", raw),
			zap.Error(err),
		)
		return nil, err
	}

	r.logger.Debug("reconstructed fragment",
		zap.Int("confidence", res.Confidence),
		zap.String("era", res.Era),
	)
	return res, nil
}
