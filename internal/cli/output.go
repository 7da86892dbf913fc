package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ppiankov/chronos/internal/model"
	"github.com/ppiankov/chronos/internal/pipeline"
)

// runView is the JSON shape of a pipeline run on the command line
type runView struct {
	Fragment  string                      `json:"fragment"`
	State     pipeline.State              `json:"state"`
	Result    *model.ReconstructionResult `json:"result,omitempty"`
	Sources   []model.Source              `json:"sources"`
	Origin    model.SourceOrigin          `json:"origin,omitempty"`
	ElapsedMS int64                       `json:"elapsedMs"`
	Error     string                      `json:"error,omitempty"`
}

func newRunView(run *pipeline.Run) runView {
	v := runView{
		Fragment:  run.Fragment,
		State:     run.State,
		Result:    run.Result,
		Sources:   run.Sources,
		Origin:    run.Origin,
		ElapsedMS: run.Elapsed.Milliseconds(),
	}
	if v.Sources == nil {
		v.Sources = []model.Source{}
	}
	if run.Err != nil {
		v.Error = run.Err.Error()
	}
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderRun prints a human readable run report
func renderRun(w io.Writer, run *pipeline.Run) {
	fmt.Fprintf(w, "Fragment: %q\n", run.Fragment)
	if run.Err != nil {
		fmt.Fprintf(w, "✗ %v\n", run.Err)
		return
	}
	if run.Result != nil {
		renderReconstruction(w, run.Result)
	}
	if len(run.Sources) > 0 {
		fmt.Fprintln(w)
		renderSources(w, run.Sources, run.Origin)
	}
	fmt.Fprintf(w, "\nCompleted in %s\n", run.Elapsed.Round(time.Millisecond))
}

func renderReconstruction(w io.Writer, r *model.ReconstructionResult) {
	fmt.Fprintf(w, "\n  %s\n", r.MostLikely)
	fmt.Fprintf(w, "  confidence %d%%", r.Confidence)
	for _, part := range []string{r.Era, r.Community} {
		if strings.TrimSpace(part) != "" {
			fmt.Fprintf(w, " · %s", part)
		}
	}
	fmt.Fprintln(w)

	if len(r.Alternatives) > 0 {
		fmt.Fprintln(w, "\nAlternatives:")
		for _, alt := range r.Alternatives {
			fmt.Fprintf(w, "  - %s (%d%%)\n", alt.Text, alt.Confidence)
		}
	}
	if len(r.KeyTerms) > 0 {
		fmt.Fprintln(w, "\nKey terms:")
		for _, kt := range r.KeyTerms {
			fmt.Fprintf(w, "  %s → %s", kt.Original, kt.Expanded)
			if kt.Meaning != "" {
				fmt.Fprintf(w, ": %s", kt.Meaning)
			}
			fmt.Fprintln(w)
		}
	}
	if r.Reasoning != "" {
		fmt.Fprintf(w, "\nReasoning: %s\n", r.Reasoning)
	}
}

func renderSources(w io.Writer, sources []model.Source, origin model.SourceOrigin) {
	fmt.Fprintf(w, "Sources (%s):\n", origin)
	for i, s := range sources {
		fmt.Fprintf(w, "  %d. [%d/5] %s\n     %s\n", i+1, s.Credibility, s.Title, s.URL)
		if s.RelevanceReason != "" {
			fmt.Fprintf(w, "     %s\n", s.RelevanceReason)
		}
	}
}
