package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/chronos/internal/apperr"
	"github.com/ppiankov/chronos/internal/model"
	"github.com/ppiankov/chronos/internal/pipeline"
	"github.com/ppiankov/chronos/internal/reconstruct"
	"github.com/ppiankov/chronos/internal/search"
	"github.com/ppiankov/chronos/internal/sources"
)

var sampleResult = &model.ReconstructionResult{
	MostLikely:   "be right back",
	Confidence:   95,
	Alternatives: []model.Alternative{{Text: "bring rice back", Confidence: 5}},
	Era:          "2000s",
	Community:    "MSN Messenger",
	KeyTerms:     []model.KeyTerm{{Original: "brb", Expanded: "be right back", Meaning: "stepping away"}},
	Reasoning:    "common away message",
}

type stubReconstructor struct {
	result *model.ReconstructionResult
	err    error
	calls  int
}

func (s *stubReconstructor) Reconstruct(ctx context.Context, fragment string) (*model.ReconstructionResult, error) {
	s.calls++
	return s.result, s.err
}

type stubSearcher struct {
	set        model.SearchResultSet
	query      string
	searchType string
}

func (s *stubSearcher) Aggregate(ctx context.Context, query, searchType string) model.SearchResultSet {
	s.query, s.searchType = query, searchType
	return s.set
}

type stubRunner struct {
	run *pipeline.Run
}

func (s *stubRunner) Run(ctx context.Context, fragment string) *pipeline.Run {
	return s.run
}

func newTestServer(deps Deps) *Server {
	if deps.Reconstructor == nil {
		deps.Reconstructor = &stubReconstructor{result: sampleResult}
	}
	if deps.Sources == nil {
		deps.Sources = &stubSearcher{}
	}
	if deps.Pipeline == nil {
		deps.Pipeline = &stubRunner{run: &pipeline.Run{State: pipeline.StateDone, Result: sampleResult}}
	}
	s := New(deps)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestReconstruct_Success(t *testing.T) {
	s := newTestServer(Deps{})

	rec, body := do(t, s, http.MethodPost, "/api/reconstruct", `{"text":"brb"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "brb", body["originalText"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "be right back", data["mostLikely"])
	assert.Equal(t, float64(95), data["confidence"])
	assert.Len(t, data["keyTerms"], 1)
}

func TestReconstruct_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   map[string]any
	}{
		{
			name:       "validation",
			err:        apperr.Validation("Text input is required"),
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"error": "Text input is required"},
		},
		{
			name:       "configuration",
			err:        apperr.Configuration("Gemini API key not configured"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]any{"error": "Gemini API key not configured"},
		},
		{
			name:       "parse",
			err:        apperr.Parse(reconstruct.MsgParseFailed, "not json at all", errors.New("decode")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]any{"error": "Failed to parse AI response", "rawResponse": "not json at all"},
		},
		{
			name:       "upstream",
			err:        apperr.Upstream(reconstruct.MsgUpstream, errors.New("Gemini API error: quota exceeded")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]any{"error": "Failed to reconstruct text", "details": "Gemini API error: quota exceeded"},
		},
		{
			name:       "unclassified",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]any{"error": "Failed to reconstruct text", "details": "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(Deps{Reconstructor: &stubReconstructor{err: tt.err}})

			rec, body := do(t, s, http.MethodPost, "/api/reconstruct", `{"text":"brb"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestReconstruct_RealRequesterValidation(t *testing.T) {
	s := newTestServer(Deps{Reconstructor: reconstruct.NewRequester(nil)})

	rec, body := do(t, s, http.MethodPost, "/api/reconstruct", `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{"error": "Text input is required"}, body)

	rec, body = do(t, s, http.MethodPost, "/api/reconstruct", `{"text":"brb"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{"error": "Gemini API key not configured"}, body)
}

type emptyProvider struct{}

func (emptyProvider) Name() string { return "empty" }
func (emptyProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return "", nil
}

func TestReconstruct_EmptyModelAnswer(t *testing.T) {
	s := newTestServer(Deps{Reconstructor: reconstruct.NewRequester(emptyProvider{})})

	rec, body := do(t, s, http.MethodPost, "/api/reconstruct", `{"text":"brb"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{"error": "Failed to parse AI response", "rawResponse": ""}, body)
}

func TestReconstruct_MalformedBody(t *testing.T) {
	stub := &stubReconstructor{result: sampleResult}
	s := newTestServer(Deps{Reconstructor: stub})

	rec, body := do(t, s, http.MethodPost, "/api/reconstruct", `{"text":`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to reconstruct text", body["error"])
	assert.NotEmpty(t, body["details"])
	assert.Zero(t, stub.calls)
}

func TestReconstruct_BodyTooLarge(t *testing.T) {
	s := New(Deps{Reconstructor: &stubReconstructor{result: sampleResult}}, WithMaxBodyBytes(16))

	rec, body := do(t, s, http.MethodPost, "/api/reconstruct", `{"text":"`+strings.Repeat("a", 100)+`"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to reconstruct text", body["error"])
}

func TestReconstruct_MethodNotAllowed(t *testing.T) {
	rec, _ := do(t, newTestServer(Deps{}), http.MethodGet, "/api/reconstruct", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSearch_Success(t *testing.T) {
	searcher := &stubSearcher{set: model.SearchResultSet{
		Origin: model.OriginLive,
		Sources: []model.Source{
			{Title: "BRB", URL: "https://en.wikipedia.org/wiki/BRB", Snippet: "s", Credibility: 5, RelevanceReason: "r"},
		},
	}}
	s := newTestServer(Deps{Sources: searcher})

	rec, body := do(t, s, http.MethodPost, "/api/search", `{"query":"be right back","searchType":"slang"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "be right back", body["query"])
	assert.Equal(t, "slang", body["searchType"])
	assert.Equal(t, "2024-03-01T12:00:00.000Z", body["timestamp"])
	require.Len(t, body["sources"], 1)
	src := body["sources"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(5), src["credibility"])
	assert.Equal(t, "r", src["relevanceReason"])
	assert.Equal(t, "slang", searcher.searchType)
}

func TestSearch_DefaultSearchType(t *testing.T) {
	searcher := &stubSearcher{}
	rec, body := do(t, newTestServer(Deps{Sources: searcher}), http.MethodPost, "/api/search", `{"query":"lol"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "main", body["searchType"])
	assert.Equal(t, "main", searcher.searchType)
	assert.Equal(t, []any{}, body["sources"])
}

func TestSearch_QueryRequired(t *testing.T) {
	for _, payload := range []string{`{}`, `{"query":""}`, `{"query":"  "}`} {
		rec, body := do(t, newTestServer(Deps{}), http.MethodPost, "/api/search", payload)
		assert.Equal(t, http.StatusBadRequest, rec.Code, payload)
		assert.Equal(t, map[string]any{"error": "Search query is required"}, body, payload)
	}
}

func TestSearch_MalformedBody(t *testing.T) {
	rec, body := do(t, newTestServer(Deps{}), http.MethodPost, "/api/search", `not json`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to search", body["error"])
	assert.NotEmpty(t, body["details"])
}

func TestSearch_CuratedFallbackEndToEnd(t *testing.T) {
	agg := sources.NewAggregator(failingSearch{}, nil)
	rec, body := do(t, newTestServer(Deps{Sources: agg}), http.MethodPost, "/api/search", `{"query":"lol ur so lame. asl?"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	srcs := body["sources"].([]any)
	assert.Len(t, srcs, 5)
	last := srcs[4].(map[string]any)
	assert.Equal(t, "https://www.urbandictionary.com/", last["url"])
}

type failingSearch struct{}

func (failingSearch) Name() string { return "failing" }
func (failingSearch) Search(ctx context.Context, query string, limit int) ([]search.Result, error) {
	return nil, errors.New("network unreachable")
}

func TestPipeline_Success(t *testing.T) {
	runner := &stubRunner{run: &pipeline.Run{
		State:   pipeline.StateDone,
		Result:  sampleResult,
		Sources: []model.Source{{Title: "t", URL: "https://example.com", Credibility: 2}},
		Elapsed: 1500 * time.Millisecond,
	}}
	rec, body := do(t, newTestServer(Deps{Pipeline: runner}), http.MethodPost, "/api/pipeline", `{"text":"brb"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", body["state"])
	assert.Equal(t, "brb", body["originalText"])
	assert.Equal(t, 1.5, body["elapsedSeconds"])
	assert.Len(t, body["sources"], 1)
}

func TestPipeline_Failure(t *testing.T) {
	runner := &stubRunner{run: &pipeline.Run{
		State: pipeline.StateFailed,
		Err:   apperr.Parse(reconstruct.MsgParseFailed, "garbage", errors.New("decode")),
	}}
	rec, body := do(t, newTestServer(Deps{Pipeline: runner}), http.MethodPost, "/api/pipeline", `{"text":"brb"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{"error": "Failed to parse AI response", "rawResponse": "garbage"}, body)
}

func TestHealth(t *testing.T) {
	rec, body := do(t, newTestServer(Deps{}), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "2024-03-01T12:00:00.000Z", body["time"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(Deps{})
	do(t, s, http.MethodGet, "/health", "")

	rec, _ := do(t, s, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `chronos_http_requests_total{route="health",status="200"}`)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(Deps{})

	rec, _ := do(t, s, http.MethodGet, "/health", "")
	generated := rec.Header().Get(HeaderRequestID)
	assert.Len(t, generated, 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderRequestID, "client-id-123")
	rec2 := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec2, req)
	assert.Equal(t, "client-id-123", rec2.Header().Get(HeaderRequestID))
}
