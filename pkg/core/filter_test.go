package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDate(t *testing.T) {
	assert.True(t, IsDate("2024-02-29"))
	assert.False(t, IsDate("2023-02-29"))
	assert.False(t, IsDate("2024-1-01"))
	assert.False(t, IsDate("yesterday"))
}

func TestMatchDate(t *testing.T) {
	tests := []struct {
		name   string
		match  MatchResult
		want   string
		wantOK bool
	}{
		{
			name: "header above",
			match: MatchResult{Source: SourceDevlog, Content: "fit model",
				Context: "## 2024-01-01 09:00\nstart\n## 2024-02-01 10:00\nfit model\nnext"},
			want: "2024-02-01", wantOK: true,
		},
		{
			name: "header is the match",
			match: MatchResult{Source: SourceDecisions, Content: "## 2024-05-05T10:00:00Z",
				Context: "## 2024-05-05T10:00:00Z\n**Decision**: x"},
			want: "2024-05-05", wantOK: true,
		},
		{
			name: "header below",
			match: MatchResult{Source: SourceDevlog, Content: "preamble",
				Context: "preamble\n\n## 2024-03-03 08:00"},
			want: "2024-03-03", wantOK: true,
		},
		{
			name:  "iso timestamp",
			match: MatchResult{Source: SourceDecisions, Content: "logged at 2024-04-04T12:00:00Z"},
			want:  "2024-04-04", wantOK: true,
		},
		{
			name:  "dateless",
			match: MatchResult{Source: SourceDevlog, Content: "no date here", Context: "no date here"},
		},
		{
			name:  "experiment iso",
			match: MatchResult{Source: SourceExperiments, Fields: map[string]string{"timestamp": "2024-06-01T10:00:00Z"}},
			want:  "2024-06-01", wantOK: true,
		},
		{
			name:  "experiment compact",
			match: MatchResult{Source: SourceExperiments, Fields: map[string]string{"timestamp": "2024-06-02_10-00-00"}},
			want:  "2024-06-02", wantOK: true,
		},
		{
			name:  "experiment unix",
			match: MatchResult{Source: SourceExperiments, Fields: map[string]string{"timestamp": "1717236000"}},
			want:  "2024-06-01", wantOK: true,
		},
		{
			name:  "experiment without timestamp",
			match: MatchResult{Source: SourceExperiments, Fields: map[string]string{"dataset": "x"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchDate(tt.match)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyFilters(t *testing.T) {
	jan := MatchResult{Source: SourceDevlog, Content: "a", Context: "## 2024-01-15 10:00\na"}
	feb := MatchResult{Source: SourceDevlog, Content: "b", Context: "## 2024-02-01 10:00\n### MODELING\nb"}
	dateless := MatchResult{Source: SourceDevlog, Content: "c", Context: "c"}
	exp := MatchResult{Source: SourceExperiments, Content: "Experiment: e - h",
		Fields: map[string]string{"timestamp": "2024-03-01T00:00:00Z", "notes": "robustness check"}}
	all := []MatchResult{jan, feb, dateless, exp}

	t.Run("no filters", func(t *testing.T) {
		assert.Equal(t, all, ApplyFilters(all, "", "", ""))
	})

	t.Run("inclusive bounds keep dateless", func(t *testing.T) {
		got := ApplyFilters(all, "2024-02-01", "2024-03-01", "")
		assert.Equal(t, []MatchResult{feb, dateless, exp}, got)
	})

	t.Run("upper bound", func(t *testing.T) {
		got := ApplyFilters(all, "", "2024-01-31", "")
		assert.Equal(t, []MatchResult{jan, dateless}, got)
	})

	t.Run("phase is case insensitive", func(t *testing.T) {
		assert.Equal(t, []MatchResult{feb}, ApplyFilters(all, "", "", "modeling"))
	})

	t.Run("phase looks at experiment fields", func(t *testing.T) {
		assert.Equal(t, []MatchResult{exp}, ApplyFilters(all, "", "", "robustness"))
	})
}

func TestMatchDate_RepeatedLines(t *testing.T) {
	lines := []string{"## 2025-01-01", "Tested IV", "## 2025-03-01", "Tested IV"}
	matches := MatchLines(SourceDevlog, lines, Tokenize("tested"), 3)
	if !assert.Len(t, matches, 2) {
		return
	}

	d, ok := MatchDate(matches[0])
	assert.True(t, ok)
	assert.Equal(t, "2025-01-01", d)
	d, ok = MatchDate(matches[1])
	assert.True(t, ok)
	assert.Equal(t, "2025-03-01", d)

	kept := ApplyFilters(matches, "2025-02-01", "", "")
	if assert.Len(t, kept, 1) {
		assert.Equal(t, 4, kept[0].LineNum)
	}
}

func TestMatchDate_LeadingBlankContext(t *testing.T) {
	lines := []string{"", "## 2024-05-01", "note", "## 2024-06-01", "note"}
	matches := MatchLines(SourceDevlog, lines, Tokenize("note"), 4)
	if !assert.Len(t, matches, 2) {
		return
	}
	d, _ := MatchDate(matches[0])
	assert.Equal(t, "2024-05-01", d)
	d, _ = MatchDate(matches[1])
	assert.Equal(t, "2024-06-01", d)
}
