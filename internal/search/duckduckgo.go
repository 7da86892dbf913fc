package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultDuckDuckGoURL = "https://api.duckduckgo.com/"
	maxRelatedTopics     = 3
	maxResponseBytes     = 2 << 20
)

// DuckDuckGo implements Provider against the DuckDuckGo Instant Answer API.
// It needs no API key.
type DuckDuckGo struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string // optional custom UA
}

func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// Search returns at most one abstract result followed by related topics
// taken from the first three RelatedTopics entries.
func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	base := d.BaseURL
	if base == "" {
		base = defaultDuckDuckGoURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse duckduckgo url: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if d.UserAgent != "" {
		req.Header.Set("User-Agent", d.UserAgent)
	}

	hc := d.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("duckduckgo status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	// The API answers some queries with an empty body
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var dr ddgResponse
	if err := json.Unmarshal(body, &dr); err != nil {
		return nil, fmt.Errorf("decode duckduckgo response: %w", err)
	}

	return dr.results(d.Name(), limit), nil
}

type ddgResponse struct {
	Heading       string     `json:"Heading"`
	Abstract      string     `json:"Abstract"`
	AbstractURL   string     `json:"AbstractURL"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

// ddgTopic is either a plain topic or a named group with nested Topics.
// Groups have no FirstURL and are skipped.
type ddgTopic struct {
	FirstURL string     `json:"FirstURL"`
	Text     string     `json:"Text"`
	Name     string     `json:"Name,omitempty"`
	Topics   []ddgTopic `json:"Topics,omitempty"`
}

func (dr ddgResponse) results(source string, limit int) []Result {
	var out []Result

	if dr.AbstractURL != "" && dr.Abstract != "" {
		title := dr.Heading
		if title == "" {
			title = "DuckDuckGo Result"
		}
		out = append(out, Result{
			Title:   title,
			URL:     dr.AbstractURL,
			Snippet: dr.Abstract,
			Kind:    KindAbstract,
			Source:  source,
		})
	}

	topics := dr.RelatedTopics
	if len(topics) > maxRelatedTopics {
		topics = topics[:maxRelatedTopics]
	}
	for _, topic := range topics {
		if topic.FirstURL == "" || topic.Text == "" {
			continue
		}
		out = append(out, Result{
			Title:   topicTitle(topic.Text),
			URL:     topic.FirstURL,
			Snippet: topic.Text,
			Kind:    KindRelated,
			Source:  source,
		})
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// topicTitle returns the text before the first " - " separator
func topicTitle(text string) string {
	title, _, _ := strings.Cut(text, " - ")
	if title == "" {
		return "Related Topic"
	}
	return title
}
