package search

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ppiankov/chronos/internal/model"
)

// NewProvider creates the search provider named by the configuration
func NewProvider(cfg model.SearchConfig, httpClient *http.Client, userAgent string) (Provider, error) {
	switch strings.ToLower(cfg.Backend) {
	case "duckduckgo", "ddg", "":
		return &DuckDuckGo{BaseURL: cfg.BaseURL, HTTPClient: httpClient, UserAgent: userAgent}, nil

	case "searxng":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("searxng backend requires search.base_url")
		}
		return &SearxNG{BaseURL: cfg.BaseURL, APIKey: cfg.APIKey, HTTPClient: httpClient, UserAgent: userAgent}, nil

	case "file":
		return &FileProvider{Path: cfg.FilePath}, nil

	default:
		return nil, fmt.Errorf("unknown search backend: %s (supported: duckduckgo, searxng, file)", cfg.Backend)
	}
}
