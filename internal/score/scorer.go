package score

import (
	"strings"

	"github.com/ppiankov/chronos/internal/model"
)

// Scorer assigns a credibility tier and a relevance reason to a source URL
type Scorer struct {
	tiers []tier
}

type tier struct {
	credibility int
	domains     []string
}

// Assessment is the scorer's verdict for one source
type Assessment struct {
	Credibility int
	Reason      string
}

// reasonRule maps a URL keyword to a relevance reason. Rules are evaluated
// in order, first match wins.
type reasonRule struct {
	keywords []string
	reason   string
}

var reasonRules = []reasonRule{
	{keywords: []string{"wikipedia"}, reason: "Comprehensive encyclopedia entry with historical context"},
	{keywords: []string{"dictionary.com", "merriam-webster"}, reason: "Authoritative dictionary definition"},
	{keywords: []string{"knowyourmeme"}, reason: "Complete cultural context and meme history"},
	{keywords: []string{"urbandictionary"}, reason: "User-generated slang definitions"},
	{keywords: []string{"archive.org"}, reason: "Historical archive of internet content"},
	{keywords: []string{".edu"}, reason: "Academic source"},
}

const (
	reasonSlang   = "Provides slang term definition"
	reasonContext = "Relevant contextual information"
)

// NewScorer creates a scorer from the given tier configuration. A nil config
// uses the built-in tiers.
func NewScorer(config *model.CredibilityConfig) *Scorer {
	if config == nil {
		defaults := model.DefaultCredibilityConfig()
		config = &defaults
	}

	return &Scorer{
		tiers: []tier{
			{credibility: model.CredibilityTop, domains: lowerAll(config.TopDomains)},
			{credibility: model.CredibilityReference, domains: lowerAll(config.ReferenceDomains)},
			{credibility: model.CredibilityCommunity, domains: lowerAll(config.CommunityDomains)},
		},
	}
}

// Score rates a source. title and snippet are accepted for future signals;
// the current rules only look at the URL.
func (s *Scorer) Score(rawURL, title, snippet, searchType string) Assessment {
	return Assessment{
		Credibility: s.Credibility(rawURL),
		Reason:      Reason(rawURL, searchType),
	}
}

// Credibility returns the tier of the first tier list containing a domain
// fragment found in the URL, or the default tier.
func (s *Scorer) Credibility(rawURL string) int {
	lowerURL := strings.ToLower(rawURL)

	for _, t := range s.tiers {
		for _, domain := range t.domains {
			if domain != "" && strings.Contains(lowerURL, domain) {
				return t.credibility
			}
		}
	}

	return model.CredibilityDefault
}

// Reason explains why a source is relevant. The match is independent of
// the credibility tiers.
func Reason(rawURL, searchType string) string {
	lowerURL := strings.ToLower(rawURL)

	for _, rule := range reasonRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowerURL, kw) {
				return rule.reason
			}
		}
	}

	if searchType == "slang" {
		return reasonSlang
	}
	return reasonContext
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}
