package model

// Source is one corroborating web reference for a reconstruction
type Source struct {
	Title           string `json:"title"`
	URL             string `json:"url"`
	Snippet         string `json:"snippet"`
	Credibility     int    `json:"credibility"`     // 2 (unknown) to 5 (authoritative)
	RelevanceReason string `json:"relevanceReason"` // Short human-readable justification
}

// SourceOrigin records which path produced a result set
type SourceOrigin string

const (
	OriginLive    SourceOrigin = "live"    // Returned by a search backend
	OriginCurated SourceOrigin = "curated" // Keyword-matched static fallback
)

// SearchResultSet is the ranked source list for one query. Sources come
// either from a live backend or from the curated fallback, never both.
type SearchResultSet struct {
	Sources []Source     `json:"sources"`
	Origin  SourceOrigin `json:"origin"`
	Backend string       `json:"backend,omitempty"`
}

// Credibility tiers
const (
	CredibilityDefault   = 2
	CredibilityCommunity = 3
	CredibilityReference = 4
	CredibilityTop       = 5
)

// MaxSources is the number of sources returned to callers
const MaxSources = 5

// DefaultSearchType is used when the caller does not name one
const DefaultSearchType = "main"
