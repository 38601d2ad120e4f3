package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_DecodesPayload(t *testing.T) {
	payload := `{
		"session_goal": "Estimate returns",
		"changes_summary": "Added IV",
		"experiments": [{"hypothesis": "IV > OLS", "metrics": {"r2": 0.41}}],
		"decisions": [{"decision": "Use 2SLS", "rationale": "endogeneity", "alternatives_considered": ["OLS"]}],
		"todos": ["Check instruments", {"text": "Write appendix", "priority": "high", "category": "writing"}],
		"phases": {"modeling": "Fitted 2SLS"}
	}`

	var s Session
	require.NoError(t, json.Unmarshal([]byte(payload), &s))

	assert.Equal(t, "Estimate returns", s.Goal)
	require.Len(t, s.Experiments, 1)
	assert.JSONEq(t, `{"r2": 0.41}`, string(s.Experiments[0].Metrics))
	assert.Equal(t, []string{"OLS"}, s.Decisions[0].Alternatives)
	assert.Equal(t, []TodoInput{
		{Text: "Check instruments"},
		{Text: "Write appendix", Priority: "high", Category: "writing"},
	}, s.Todos)
	assert.Equal(t, "Fitted 2SLS", s.Phases["modeling"])
}

func TestSession_IsEmpty(t *testing.T) {
	assert.True(t, Session{}.IsEmpty())
	assert.True(t, Session{Goal: "  ", Phases: map[string]string{"notes": ""}}.IsEmpty())
	assert.False(t, Session{Changes: "x"}.IsEmpty())
	assert.False(t, Session{Phases: map[string]string{"notes": "x"}}.IsEmpty())
	assert.False(t, Session{Todos: []TodoInput{{Text: "x"}}}.IsEmpty())
}

func TestSession_PhaseNames(t *testing.T) {
	s := Session{Phases: map[string]string{
		"writing":  "a",
		"zeta":     "b",
		"DGP":      "c",
		"appendix": "d",
	}}
	assert.Equal(t, []string{"DGP", "writing", "appendix", "zeta"}, s.PhaseNames(DefaultConfig()))
}
