package model

// ReconstructionResult is the structured answer parsed out of a generative
// model response for one fragment.
type ReconstructionResult struct {
	MostLikely   string        `json:"mostLikely"`   // Most probable full reconstruction
	Confidence   int           `json:"confidence"`   // 0-100
	Alternatives []Alternative `json:"alternatives"` // At most two other readings
	Era          string        `json:"era"`          // e.g. "2000s"
	Community    string        `json:"community"`    // e.g. "AOL chat"
	KeyTerms     []KeyTerm     `json:"keyTerms"`     // Expanded slang and abbreviations
	Reasoning    string        `json:"reasoning"`    // Why the model read it this way
}

// Alternative is a less likely reconstruction with its own confidence
type Alternative struct {
	Text       string `json:"text"`
	Confidence int    `json:"confidence"`
}

// KeyTerm expands a single slang term or abbreviation found in the fragment
type KeyTerm struct {
	Original string `json:"original"`
	Expanded string `json:"expanded"`
	Meaning  string `json:"meaning"`
}

// Era buckets the model is asked to classify into
var EraBuckets = []string{"1990s", "2000s", "2010s", "2020s"}

// MaxAlternatives caps how many alternative readings are kept
const MaxAlternatives = 2
