package core

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize lower-cases the query and splits it on non-word boundaries.
// Repeated tokens are kept once, in first-seen order.
func Tokenize(query string) []string {
	words := wordPattern.FindAllString(strings.ToLower(query), -1)
	seen := make(map[string]bool, len(words))
	tokens := words[:0]
	for _, w := range words {
		if !seen[w] {
			seen[w] = true
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// Relevance counts the tokens that occur as substrings of content.
// content must already be lower-cased.
func Relevance(tokens []string, content string) int {
	score := 0
	for _, tok := range tokens {
		if strings.Contains(content, tok) {
			score++
		}
	}
	return score
}

// MatchLines scores every line of a text store and returns one result per matching line.
// contextLines < 0 disables the context window.
func MatchLines(src Source, lines []string, tokens []string, contextLines int) []MatchResult {
	var matches []MatchResult
	for i, line := range lines {
		score := Relevance(tokens, strings.ToLower(line))
		if score == 0 {
			continue
		}
		m := MatchResult{
			Source:    src,
			LineNum:   i + 1,
			Relevance: score,
			Content:   strings.TrimSpace(line),
		}
		if contextLines >= 0 {
			start := max(0, i-contextLines)
			end := min(len(lines), i+contextLines+1)
			m.Context = strings.TrimSpace(strings.Join(lines[start:end], "\n"))
			m.contextLine = i - start - leadingBlank(lines[start:i]) + 1
		}
		matches = append(matches, m)
	}
	return matches
}

// leadingBlank counts the blank lines trimmed off the front of a context window.
func leadingBlank(lines []string) int {
	n := 0
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			break
		}
		n++
	}
	return n
}

// experimentContextFields are copied into the structured context of a match.
var experimentContextFields = []string{"timestamp", "hypothesis", "dataset", "model", "metrics", "notes"}

// MatchExperiments scores each row as the concatenation of all its field values.
func MatchExperiments(records []ExperimentRecord, tokens []string) []MatchResult {
	var matches []MatchResult
	for _, rec := range records {
		score := Relevance(tokens, strings.ToLower(rec.rowText()))
		if score == 0 {
			continue
		}
		fields := make(map[string]string)
		for _, name := range experimentContextFields {
			if v := rec.field(name); v != "" {
				fields[name] = v
			}
		}
		matches = append(matches, MatchResult{
			Source:    SourceExperiments,
			RowNum:    rec.Row,
			Relevance: score,
			Content:   "Experiment: " + orNA(rec.ExperimentID) + " - " + orNA(rec.Hypothesis),
			Fields:    fields,
		})
	}
	return matches
}

func (r ExperimentRecord) field(name string) string {
	if v, ok := r.Fields[name]; ok {
		return v
	}
	switch name {
	case "timestamp":
		return r.Timestamp
	case "experiment_id":
		return r.ExperimentID
	case "hypothesis":
		return r.Hypothesis
	case "dataset":
		return r.Dataset
	case "model":
		return r.Model
	case "spec":
		return r.Spec
	case "metrics":
		return r.Metrics
	case "notes":
		return r.Notes
	case "research_phase":
		return r.ResearchPhase
	}
	return ""
}

// rowText joins the field values in column order, unknown columns last.
func (r ExperimentRecord) rowText() string {
	values := make([]string, 0, len(ExperimentColumns)+len(r.Fields))
	known := make(map[string]bool, len(ExperimentColumns))
	for _, col := range ExperimentColumns {
		known[col] = true
		values = append(values, r.field(col))
	}
	for k, v := range r.Fields {
		if !known[k] {
			values = append(values, v)
		}
	}
	return strings.Join(values, " ")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
