package search

import (
	"context"
)

// Result represents a single search hit from any provider.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Kind    Kind   `json:"kind,omitempty"`
	Source  string `json:"-"` // provider name for observability
}

// Kind tells how a provider produced a result.
type Kind string

const (
	KindAbstract Kind = "abstract" // instant-answer summary
	KindRelated  Kind = "related"  // related topic link
	KindWeb      Kind = "web"      // ordinary web hit
)

// Provider is a minimal interface for search providers. A provider that
// reaches its backend but gets no structured answer returns zero results
// and a nil error.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
	Name() string
}
