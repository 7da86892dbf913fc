package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ppiankov/chronos/internal/model"
)

// NewProvider creates a new LLM provider based on configuration. Hosted
// providers without a credential return an error wrapping ErrMissingAPIKey.
func NewProvider(ctx context.Context, config Config) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch strings.ToLower(config.Provider) {
	case "gemini", "google", "":
		p, err = asProvider(NewGeminiProvider(ctx, config))

	case "openai":
		p, err = asProvider(NewOpenAIProvider(config))

	case "anthropic", "claude":
		p, err = asProvider(NewAnthropicProvider(config))

	case "ollama":
		p, err = asProvider(NewOllamaProvider(config))

	default:
		err = fmt.Errorf("unknown LLM provider: %s (supported: gemini, openai, anthropic, ollama)", config.Provider)
	}
	return p, err
}

// asProvider keeps a failed constructor from leaking a typed nil
func asProvider[T Provider](p T, err error) (Provider, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig, httpClient *http.Client) Config {
	return Config{
		Provider:    modelConfig.Provider,
		Model:       modelConfig.Model,
		APIKey:      modelConfig.APIKey,
		BaseURL:     modelConfig.BaseURL,
		Timeout:     modelConfig.Timeout,
		MaxTokens:   modelConfig.MaxTokens,
		Temperature: modelConfig.Temperature,
		JSONMode:    true,
		HTTPClient:  httpClient,
	}
}
