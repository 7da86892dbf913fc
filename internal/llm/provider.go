package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

// ErrMissingAPIKey is returned by constructors of hosted providers when no
// credential is configured
var ErrMissingAPIKey = errors.New("API key not configured")

// Provider defines the interface for generative text providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate sends a single prompt and returns the model text verbatim.
	// An empty answer is not an error.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "gemini", "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL overrides the provider endpoint
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	Temperature float64

	// JSONMode asks the provider for a JSON response where supported
	JSONMode bool

	// HTTPClient is used for every request when set
	HTTPClient *http.Client
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "gemini",
		Model:       "gemini-2.0-flash",
		Timeout:     30,
		MaxTokens:   2048,
		Temperature: 0.4,
		JSONMode:    true,
	}
}

// DisplayName returns the human-readable provider name used in messages
func DisplayName(provider string) string {
	switch strings.ToLower(provider) {
	case "", "gemini", "google":
		return "Gemini"
	case "openai":
		return "OpenAI"
	case "anthropic", "claude":
		return "Anthropic"
	case "ollama":
		return "Ollama"
	default:
		return provider
	}
}

func (c Config) timeout(fallback time.Duration) time.Duration {
	if c.Timeout <= 0 {
		return fallback
	}
	return time.Duration(c.Timeout) * time.Second
}

func (c Config) maxTokens() int {
	if c.MaxTokens <= 0 {
		return 2048
	}
	return c.MaxTokens
}

// httpClient returns the configured client or a new one with the given timeout
func (c Config) httpClient(fallback time.Duration) *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: c.timeout(fallback)}
}
