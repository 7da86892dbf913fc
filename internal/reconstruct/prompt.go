package reconstruct

import (
	"fmt"
	"strings"

	"github.com/ppiankov/chronos/internal/model"
)

const promptTemplate = `You are an expert in internet history, linguistics, and digital archaeology.

Your task: Reconstruct the following fragmented text from a historical digital source.

FRAGMENT: "%s"

Instructions:
1. Fill in missing words, expand abbreviations, and complete incomplete phrases
2. Infer the likely era (%s) based on slang and style
3. Identify the community or context (gaming, social media, forums, AOL chat, etc.)
4. Provide EXACTLY the following outputs:
   - MOST_LIKELY: The most probable full reconstruction
   - CONFIDENCE: A percentage (0-100) for your confidence
   - ALTERNATIVES: 1-%d other plausible interpretations with their confidence scores
   - ERA: The likely time period
   - COMMUNITY: The likely community or platform
   - KEY_TERMS: List of slang/abbreviations expanded with their meanings
   - REASONING: Why did you make these reconstruction choices?

Format your response as valid JSON with this exact structure:
{
  "mostLikely": "reconstructed text here",
  "confidence": 85,
  "alternatives": [
    {"text": "alternative 1", "confidence": 72},
    {"text": "alternative 2", "confidence": 65}
  ],
  "era": "2010s",
  "community": "Instagram/TikTok culture",
  "keyTerms": [
    {"original": "omg", "expanded": "oh my god", "meaning": "expression of surprise"}
  ],
  "reasoning": "explanation here"
}

Respond ONLY with valid JSON, no markdown formatting or code blocks.`

// BuildPrompt returns the instruction text for fragment. The fragment is
// embedded verbatim and the output is a pure function of it.
func BuildPrompt(fragment string) string {
	return fmt.Sprintf(promptTemplate, fragment, strings.Join(model.EraBuckets, ", "), model.MaxAlternatives)
}
