package sources

import (
	"fmt"
	"strings"

	"github.com/ppiankov/chronos/internal/model"
)

// SlangTerms is the vocabulary recognized by the curated fallback. Terms
// match by substring, so "lit" also matches "literally".
var SlangTerms = []string{
	"lol", "omg", "brb", "asl", "thirst trap", "fire", "lit", "fam", "fr", "ngl",
	"smh", "tbh", "idk", "nvm", "pwned", "noob", "git gud", "bump",
}

// MatchSlangTerms returns the vocabulary terms contained in query, in
// vocabulary order.
func MatchSlangTerms(query string) []string {
	lowerQuery := strings.ToLower(query)

	var found []string
	for _, term := range SlangTerms {
		if strings.Contains(lowerQuery, term) {
			found = append(found, term)
		}
	}
	return found
}

// Curated builds the deterministic fallback source list for query: one
// encyclopedia entry per recognized slang term, a meme-culture reference
// when any term matched, then a user-generated dictionary and a dictionary
// of abbreviations. The result is never empty.
func Curated(query string) []model.Source {
	terms := MatchSlangTerms(query)
	out := make([]model.Source, 0, len(terms)+3)

	for _, term := range terms {
		out = append(out, model.Source{
			Title:           fmt.Sprintf("%s - Internet Slang", strings.ToUpper(term)),
			URL:             "https://en.wikipedia.org/wiki/Internet_slang",
			Snippet:         fmt.Sprintf("Comprehensive information about %q and other internet slang terms, their origins, and usage.", term),
			Credibility:     model.CredibilityTop,
			RelevanceReason: "Authoritative encyclopedia entry on internet slang",
		})
	}

	if len(terms) > 0 {
		out = append(out, model.Source{
			Title:           "Internet Slang and Memes - Know Your Meme",
			URL:             "https://knowyourmeme.com/memes/cultures/slang",
			Snippet:         "Database of internet culture, memes, and slang terms with detailed histories and usage examples.",
			Credibility:     model.CredibilityTop,
			RelevanceReason: "Complete cultural context and slang history",
		})
	}

	out = append(out,
		model.Source{
			Title:           "Urban Dictionary - Internet Slang Definitions",
			URL:             "https://www.urbandictionary.com/",
			Snippet:         "User-generated dictionary for slang words and phrases, including modern internet language.",
			Credibility:     model.CredibilityCommunity,
			RelevanceReason: "User-generated slang definitions and examples",
		},
		model.Source{
			Title:           "Internet Abbreviations - Dictionary.com",
			URL:             "https://www.dictionary.com/e/acronyms/",
			Snippet:         "Official dictionary resource for internet abbreviations, acronyms, and modern language.",
			Credibility:     model.CredibilityTop,
			RelevanceReason: "Authoritative dictionary definitions",
		},
	)

	return out
}
