package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/chronos/internal/apperr"
	"github.com/ppiankov/chronos/internal/model"
	"github.com/ppiankov/chronos/internal/reconstruct"
)

// User-facing messages for the search route
const (
	MsgQueryRequired = "Search query is required"
	MsgSearchFailed  = "Failed to search"
)

// timestampLayout matches ISO 8601 with millisecond precision
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type reconstructRequest struct {
	Text string `json:"text"`
}

type reconstructResponse struct {
	Success      bool                        `json:"success"`
	Data         *model.ReconstructionResult `json:"data"`
	OriginalText string                      `json:"originalText"`
}

type searchRequest struct {
	Query      string `json:"query"`
	SearchType string `json:"searchType"`
}

type searchResponse struct {
	Success    bool           `json:"success"`
	Query      string         `json:"query"`
	SearchType string         `json:"searchType"`
	Sources    []model.Source `json:"sources"`
	Timestamp  string         `json:"timestamp"`
}

type pipelineResponse struct {
	Success        bool                        `json:"success"`
	State          string                      `json:"state"`
	Data           *model.ReconstructionResult `json:"data"`
	OriginalText   string                      `json:"originalText"`
	Sources        []model.Source              `json:"sources"`
	ElapsedSeconds float64                     `json:"elapsedSeconds"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type parseErrorResponse struct {
	Error       string `json:"error"`
	RawResponse string `json:"rawResponse"`
}

func (s *Server) handleReconstruct(w http.ResponseWriter, r *http.Request) {
	var req reconstructRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeReconstructError(w, r, err)
		return
	}

	result, err := s.deps.Reconstructor.Reconstruct(r.Context(), req.Text)
	if err != nil {
		s.writeReconstructError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, reconstructResponse{
		Success:      true,
		Data:         result,
		OriginalText: req.Text,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := s.decode(w, r, &req); err != nil {
		s.logger.Error("search request rejected",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: MsgSearchFailed, Details: err.Error()})
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: MsgQueryRequired})
		return
	}
	if req.SearchType == "" {
		req.SearchType = model.DefaultSearchType
	}

	set := s.deps.Sources.Aggregate(r.Context(), req.Query, req.SearchType)

	writeJSON(w, http.StatusOK, searchResponse{
		Success:    true,
		Query:      req.Query,
		SearchType: req.SearchType,
		Sources:    nonNil(set.Sources),
		Timestamp:  s.now().UTC().Format(timestampLayout),
	})
}

func (s *Server) handlePipeline(w http.ResponseWriter, r *http.Request) {
	var req reconstructRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeReconstructError(w, r, err)
		return
	}

	run := s.deps.Pipeline.Run(r.Context(), req.Text)
	if run.Err != nil {
		s.writeReconstructError(w, r, run.Err)
		return
	}

	writeJSON(w, http.StatusOK, pipelineResponse{
		Success:        true,
		State:          string(run.State),
		Data:           run.Result,
		OriginalText:   req.Text,
		Sources:        nonNil(run.Sources),
		ElapsedSeconds: run.Elapsed.Seconds(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   s.now().UTC().Format(timestampLayout),
	})
}

// writeReconstructError maps a reconstruction failure to its status and body
func (s *Server) writeReconstructError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.logger.With(zap.String("request_id", RequestIDFrom(r.Context())), zap.Error(err))

	e, ok := apperr.As(err)
	if !ok {
		log.Error("reconstruction failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: reconstruct.MsgUpstream, Details: err.Error()})
		return
	}

	switch e.Kind {
	case apperr.KindValidation:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: e.Message})

	case apperr.KindConfiguration:
		log.Error("reconstruction unavailable")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: e.Message})

	case apperr.KindParse:
		log.Warn("unparseable model response")
		writeJSON(w, http.StatusInternalServerError, parseErrorResponse{Error: reconstruct.MsgParseFailed, RawResponse: e.Raw})

	default:
		log.Error("reconstruction failed")
		details := e.Message
		if e.Err != nil {
			details = e.Err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: reconstruct.MsgUpstream, Details: details})
	}
}

// decode reads a single JSON object from the bounded request body
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	return json.NewDecoder(body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func nonNil(sources []model.Source) []model.Source {
	if sources == nil {
		return []model.Source{}
	}
	return sources
}
