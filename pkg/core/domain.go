// Package core holds the domain model of the research memory and the services that search it.
package core

import (
	"bytes"
	"encoding/json"
)

// Source names one of the searchable stores.
type Source string

const (
	SourceDevlog      Source = "devlog"
	SourceDecisions   Source = "decisions"
	SourceExperiments Source = "experiments"
)

// SearchOrder is the order in which stores are searched.
// It doubles as the tie-break between equally relevant matches.
var SearchOrder = []Source{SourceDevlog, SourceDecisions, SourceExperiments}

// ParseSource maps a type filter value to a Source.
func ParseSource(s string) (Source, bool) {
	for _, src := range SearchOrder {
		if string(src) == s {
			return src, true
		}
	}
	return "", false
}

// Entry is a dated block of a free-text store (devlog or decisions).
// It starts at a "## YYYY-MM-DD" header and runs until the next header or EOF.
type Entry struct {
	Date string
	// Line is the 1-based line number of the header.
	Line int
	Text string
}

// TextStore is the parsed content of a free-text store.
// Lines keeps the raw lines so matches can be reported per line.
type TextStore struct {
	Lines   []string
	Entries []Entry
}

// ExperimentRecord is one row of the experiment store.
type ExperimentRecord struct {
	Row           int // 1-based, header is row 1
	Timestamp     string
	ExperimentID  string
	Hypothesis    string
	Dataset       string
	Model         string
	Spec          string
	Metrics       string
	Notes         string
	ResearchPhase string
	// Fields holds every column by header name, including unknown ones.
	Fields map[string]string
}

// ExperimentColumns is the header row of the experiment store.
var ExperimentColumns = []string{
	"timestamp", "experiment_id", "hypothesis", "dataset",
	"model", "spec", "metrics", "notes", "research_phase",
}

// TodoItem is a checkbox line of the TODO store.
type TodoItem struct {
	Line     int
	Raw      string
	Done     bool
	Priority string
	Category string
	Text     string
	// Completed is the completion note for closed items ("2025-01-01 - note").
	Completed string
}

// MatchResult is a single search hit.
type MatchResult struct {
	Source    Source `json:"source"`
	LineNum   int    `json:"line_number,omitempty"`
	RowNum    int    `json:"row_number,omitempty"`
	Relevance int    `json:"relevance"`
	Content   string `json:"content"`
	// Context is the surrounding text for text stores.
	Context string `json:"context,omitempty"`
	// Fields is the structured context for experiment rows.
	// It is encoded under "context" in place of the text.
	Fields map[string]string `json:"-"`

	// contextLine is the 1-based position of the matched line within Context, 0 when unknown.
	contextLine int
}

// MarshalJSON writes the context as text for text stores and as an object for experiment rows.
func (m MatchResult) MarshalJSON() ([]byte, error) {
	type plain MatchResult
	out := struct {
		plain
		Context any `json:"context,omitempty"`
	}{plain: plain(m)}
	switch {
	case len(m.Fields) > 0:
		out.Context = m.Fields
	case m.Context != "":
		out.Context = m.Context
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts either shape of the context.
func (m *MatchResult) UnmarshalJSON(data []byte) error {
	type plain MatchResult
	var in struct {
		plain
		Context json.RawMessage `json:"context"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*m = MatchResult(in.plain)
	raw := bytes.TrimSpace(in.Context)
	switch {
	case len(raw) == 0 || string(raw) == "null":
		return nil
	case raw[0] == '{':
		return json.Unmarshal(raw, &m.Fields)
	default:
		return json.Unmarshal(raw, &m.Context)
	}
}

// Filters narrows a search. Zero values mean "no filter".
type Filters struct {
	FromDate string
	ToDate   string
	Phase    string
	Type     string
	Limit    int
}

// QueryResult is the outcome of a search.
type QueryResult struct {
	Query     string        `json:"query"`
	Matches   []MatchResult `json:"matches"`
	Summary   string        `json:"summary"`
	Timestamp string        `json:"timestamp"`
}

// BootstrapResult is the reconstructed project state.
type BootstrapResult struct {
	ProjectContext      string   `json:"project_context"`
	RecentProgress      []string `json:"recent_progress"`
	CurrentTodos        []string `json:"current_todos"`
	WorkPlanSuggestions []string `json:"work_plan_suggestions"`
	Timestamp           string   `json:"timestamp"`
}
