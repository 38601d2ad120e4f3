package core

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// Session is the payload of a logged research session.
type Session struct {
	Goal        string            `json:"session_goal"`
	Changes     string            `json:"changes_summary"`
	Experiments []ExperimentInput `json:"experiments"`
	Decisions   []DecisionInput   `json:"decisions"`
	Todos       []TodoInput       `json:"todos"`
	Phases      map[string]string `json:"phases"`
}

// ExperimentInput is one experiment of a session. Metrics is kept as raw JSON.
type ExperimentInput struct {
	Hypothesis string          `json:"hypothesis"`
	Dataset    string          `json:"dataset"`
	Model      string          `json:"model"`
	Spec       string          `json:"spec"`
	Metrics    json.RawMessage `json:"metrics"`
	Notes      string          `json:"notes"`
}

type DecisionInput struct {
	Decision     string   `json:"decision"`
	Rationale    string   `json:"rationale"`
	Alternatives []string `json:"alternatives_considered"`
}

// TodoInput is a new TODO. It decodes from either a plain string or an object.
type TodoInput struct {
	Text     string `json:"text"`
	Priority string `json:"priority,omitempty"`
	Category string `json:"category,omitempty"`
}

func (t *TodoInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &t.Text)
	}
	type plain TodoInput
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = TodoInput(p)
	return nil
}

// IsEmpty reports whether the session carries nothing to record.
func (s Session) IsEmpty() bool {
	if strings.TrimSpace(s.Goal) != "" || strings.TrimSpace(s.Changes) != "" {
		return false
	}
	for _, v := range s.Phases {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return len(s.Experiments) == 0 && len(s.Decisions) == 0 && len(s.Todos) == 0
}

// PhaseNames returns the session's phases, configured phases first in
// configured order, then any others alphabetically.
func (s Session) PhaseNames(cfg Config) []string {
	names := make([]string, 0, len(s.Phases))
	known := make(map[string]bool)
	for _, p := range cfg.Logging.PhaseSections {
		known[p] = true
		if _, ok := s.Phases[p]; ok {
			names = append(names, p)
		}
	}
	var extra []string
	for p := range s.Phases {
		if !known[p] {
			extra = append(extra, p)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// SessionReceipt describes what a logged session wrote.
type SessionReceipt struct {
	SessionID     string   `json:"session_id"`
	Timestamp     string   `json:"timestamp"`
	ExperimentIDs []string `json:"experiment_ids,omitempty"`
	Files         []string `json:"files"`
}
