package reconstruct

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/chronos/internal/apperr"
	"github.com/ppiankov/chronos/internal/model"
)

const validJSON = `{
  "mostLikely": "laughing out loud, you are so lame. age, sex, location?",
  "confidence": 88,
  "alternatives": [
    {"text": "lol you're so lame, a/s/l?", "confidence": 70}
  ],
  "era": "1990s",
  "community": "AOL chat rooms",
  "keyTerms": [
    {"original": "lol", "expanded": "laughing out loud", "meaning": "amusement"},
    {"original": "asl", "expanded": "age/sex/location", "meaning": "chat room greeting"}
  ],
  "reasoning": "asl was a staple of 1990s chat rooms"
}`

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain", raw: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", raw: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", raw: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "uppercase tag", raw: "```JSON\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "other language tag", raw: "```javascript\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "inline fence", raw: "```{\"a\":1}```", want: `{"a":1}`},
		{name: "prose around fence", raw: "Here you go:\n```json\n{\"a\":1}\n```\nHope it helps", want: `{"a":1}`},
		{name: "first fence wins", raw: "```json\n{\"a\":1}\n```\n```json\n{\"b\":2}\n```", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.raw))
		})
	}
}

func TestParse_FencedAndUnfencedAgree(t *testing.T) {
	plain, err := Parse(validJSON)
	require.NoError(t, err)

	for _, tag := range []string{"json", "", "JSON", "javascript"} {
		fenced, err := Parse("```" + tag + "\n" + validJSON + "\n```")
		require.NoError(t, err, "tag %q", tag)

		if diff := cmp.Diff(plain, fenced); diff != "" {
			t.Errorf("fenced result with tag %q differs (-plain +fenced):\n%s", tag, diff)
		}
	}

	assert.Equal(t, "1990s", plain.Era)
	assert.Equal(t, 88, plain.Confidence)
	require.Len(t, plain.KeyTerms, 2)
	assert.Equal(t, "age/sex/location", plain.KeyTerms[1].Expanded)
}

func TestParse_RejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "Sure! The fragment means laughing out loud."},
		{name: "truncated", raw: `{"mostLikely": "x", "confidence": 5`},
		{name: "array", raw: `[1, 2, 3]`},
		{name: "missing field", raw: `{"mostLikely": "x", "confidence": 5, "alternatives": [], "era": "2000s", "community": "c", "keyTerms": []}`},
		{name: "empty mostLikely", raw: `{"mostLikely": "  ", "confidence": 5, "alternatives": [], "era": "2000s", "community": "c", "keyTerms": [], "reasoning": "r"}`},
		{name: "string confidence", raw: `{"mostLikely": "x", "confidence": "85%", "alternatives": [], "era": "2000s", "community": "c", "keyTerms": [], "reasoning": "r"}`},
		{name: "alternatives not array", raw: `{"mostLikely": "x", "confidence": 5, "alternatives": "none", "era": "2000s", "community": "c", "keyTerms": [], "reasoning": "r"}`},
		{name: "key term missing meaning", raw: `{"mostLikely": "x", "confidence": 5, "alternatives": [], "era": "2000s", "community": "c", "keyTerms": [{"original": "a", "expanded": "b"}], "reasoning": "r"}`},
		{name: "trailing garbage", raw: validJSON + " and more"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.raw)
			assert.Nil(t, res)
			require.Error(t, err)

			e, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, apperr.KindParse, e.Kind)
			assert.Equal(t, MsgParseFailed, e.Message)
			assert.Equal(t, tt.raw, e.Raw, "raw text must be kept unmodified")
		})
	}
}

func TestParse_NormalizesConfidences(t *testing.T) {
	raw := `{
	  "mostLikely": "oh my god",
	  "confidence": 104.6,
	  "alternatives": [
	    {"text": "a", "confidence": -3},
	    {"text": "b", "confidence": 71.5},
	    {"text": "c", "confidence": 50}
	  ],
	  "era": "2000s",
	  "community": "MySpace",
	  "keyTerms": [],
	  "reasoning": "r"
	}`

	res, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, 100, res.Confidence)
	want := []model.Alternative{{Text: "a", Confidence: 0}, {Text: "b", Confidence: 72}}
	if diff := cmp.Diff(want, res.Alternatives); diff != "" {
		t.Errorf("alternatives mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_EmptyArraysStayEmpty(t *testing.T) {
	res, err := Parse(`{"mostLikely": "x", "confidence": 50, "alternatives": [], "era": "", "community": "", "keyTerms": [], "reasoning": ""}`)
	require.NoError(t, err)
	assert.NotNil(t, res.Alternatives)
	assert.NotNil(t, res.KeyTerms)
	assert.Empty(t, res.Alternatives)
}
