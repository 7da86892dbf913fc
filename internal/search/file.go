package search

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
)

// FileProvider loads search results from a local JSON file for offline/testing use.
// The JSON file format is an array of objects: {"title": "...", "url": "...", "snippet": "..."}.
// A record matches when any query word appears in its title or snippet.
type FileProvider struct {
	Path string
}

func (f *FileProvider) Name() string { return "file" }

func (f *FileProvider) Search(_ context.Context, query string, limit int) ([]Result, error) {
	if strings.TrimSpace(f.Path) == "" {
		return nil, errors.New("file provider path is empty")
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var raw []Result
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	words := strings.Fields(strings.ToLower(query))
	out := make([]Result, 0, len(raw))
	for _, r := range raw {
		if r.URL == "" || r.Title == "" {
			continue
		}
		if matchesAny(words, strings.ToLower(r.Title+" "+r.Snippet)) {
			r.Source = f.Name()
			if r.Kind == "" {
				r.Kind = KindWeb
			}
			out = append(out, r)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func matchesAny(words []string, haystack string) bool {
	if len(words) == 0 {
		return true
	}
	for _, w := range words {
		if strings.Contains(haystack, w) {
			return true
		}
	}
	return false
}
