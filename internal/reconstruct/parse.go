package reconstruct

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ppiankov/chronos/internal/apperr"
	"github.com/ppiankov/chronos/internal/model"
)

// MsgParseFailed is the user-facing message for unusable model output
const MsgParseFailed = "Failed to parse AI response"

// fencePattern matches the first fenced block. An info string such as json,
// JSON or javascript directly after the opening fence is skipped.
var fencePattern = regexp.MustCompile("(?s)```[A-Za-z0-9_+-]*\\s*(.*?)\\s*```")

const resultSchema = `{
  "type": "object",
  "required": ["mostLikely", "confidence", "alternatives", "era", "community", "keyTerms", "reasoning"],
  "properties": {
    "mostLikely": {"type": "string", "pattern": "\\S"},
    "confidence": {"type": "number"},
    "alternatives": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["text", "confidence"],
        "properties": {
          "text": {"type": "string"},
          "confidence": {"type": "number"}
        }
      }
    },
    "era": {"type": "string"},
    "community": {"type": "string"},
    "keyTerms": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["original", "expanded", "meaning"],
        "properties": {
          "original": {"type": "string"},
          "expanded": {"type": "string"},
          "meaning": {"type": "string"}
        }
      }
    },
    "reasoning": {"type": "string"}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(resultSchema)

// wireResult mirrors model.ReconstructionResult with numeric confidences as
// the model emits them
type wireResult struct {
	MostLikely   string  `json:"mostLikely"`
	Confidence   float64 `json:"confidence"`
	Alternatives []struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	} `json:"alternatives"`
	Era       string          `json:"era"`
	Community string          `json:"community"`
	KeyTerms  []model.KeyTerm `json:"keyTerms"`
	Reasoning string          `json:"reasoning"`
}

// ExtractJSON returns the inner content of the first fenced code block in
// raw, or raw itself when there is none.
func ExtractJSON(raw string) string {
	if m := fencePattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return raw
}

// Parse turns raw model output into a validated result. Any failure is a
// KindParse error carrying raw unmodified.
func Parse(raw string) (*model.ReconstructionResult, error) {
	text := strings.TrimSpace(ExtractJSON(raw))

	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, apperr.Parse(MsgParseFailed, raw, fmt.Errorf("decode: %w", err))
	}

	validation, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, apperr.Parse(MsgParseFailed, raw, fmt.Errorf("schema: %w", err))
	}
	if !validation.Valid() {
		msgs := make([]string, 0, len(validation.Errors()))
		for _, e := range validation.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, apperr.Parse(MsgParseFailed, raw, fmt.Errorf("invalid result: %s", strings.Join(msgs, "; ")))
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return nil, apperr.Parse(MsgParseFailed, raw, fmt.Errorf("decode: %w", err))
	}

	return normalize(wire), nil
}

// normalize rounds and clamps confidences and drops surplus alternatives
func normalize(w wireResult) *model.ReconstructionResult {
	res := &model.ReconstructionResult{
		MostLikely:   w.MostLikely,
		Confidence:   clampConfidence(w.Confidence),
		Alternatives: make([]model.Alternative, 0, len(w.Alternatives)),
		Era:          w.Era,
		Community:    w.Community,
		KeyTerms:     w.KeyTerms,
		Reasoning:    w.Reasoning,
	}
	if res.KeyTerms == nil {
		res.KeyTerms = []model.KeyTerm{}
	}

	for i, alt := range w.Alternatives {
		if i >= model.MaxAlternatives {
			break
		}
		res.Alternatives = append(res.Alternatives, model.Alternative{
			Text:       alt.Text,
			Confidence: clampConfidence(alt.Confidence),
		})
	}
	return res
}

func clampConfidence(v float64) int {
	r := math.Round(v)
	switch {
	case r < 0:
		return 0
	case r > 100:
		return 100
	default:
		return int(r)
	}
}
