package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	datePattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	headerDate       = regexp.MustCompile(`^## (\d{4}-\d{2}-\d{2})`)
	isoTimestampDate = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})T`)
	unixSeconds      = regexp.MustCompile(`^\d{9,11}$`)
)

// IsDate reports whether s is a YYYY-MM-DD date.
func IsDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// MatchDate recovers the date a match belongs to.
// ok is false when no date can be recovered; such matches are never dropped by date filters.
func MatchDate(m MatchResult) (date string, ok bool) {
	if m.Source == SourceExperiments {
		return timestampDate(m.Fields["timestamp"])
	}

	block := m.Context
	if block == "" {
		block = m.Content
	}
	lines := strings.Split(block, "\n")

	// The nearest header at or above the matched line owns it.
	// Without one, the first header below it is used.
	at := m.contextLine
	if at <= 0 || at > len(lines) {
		at = locateLine(lines, m.Content)
	}
	var owner, below string
	for i := at - 1; i >= 0; i-- {
		if h := headerDate.FindStringSubmatch(lines[i]); h != nil {
			owner = h[1]
			break
		}
	}
	for _, line := range lines[at:] {
		if h := headerDate.FindStringSubmatch(line); h != nil {
			below = h[1]
			break
		}
	}
	if owner != "" {
		return owner, true
	}
	if below != "" {
		return below, true
	}
	if iso := isoTimestampDate.FindStringSubmatch(block); iso != nil {
		return iso[1], true
	}
	return "", false
}

// locateLine finds the 1-based position of content in lines when the match
// carries no position of its own. The whole block counts when it is absent.
func locateLine(lines []string, content string) int {
	for i, line := range lines {
		if strings.TrimSpace(line) == content {
			return i + 1
		}
	}
	return len(lines)
}

func timestampDate(ts string) (string, bool) {
	ts = strings.TrimSpace(ts)
	if len(ts) >= 10 && IsDate(ts[:10]) {
		return ts[:10], true
	}
	if unixSeconds.MatchString(ts) {
		sec, err := strconv.ParseInt(ts, 10, 64)
		if err == nil {
			return time.Unix(sec, 0).UTC().Format("2006-01-02"), true
		}
	}
	return "", false
}

// ApplyFilters keeps the matches that satisfy every supplied filter.
// Dates compare lexically and both bounds are inclusive.
func ApplyFilters(matches []MatchResult, fromDate, toDate, phase string) []MatchResult {
	if fromDate == "" && toDate == "" && phase == "" {
		return matches
	}
	phase = strings.ToLower(phase)

	kept := make([]MatchResult, 0, len(matches))
	for _, m := range matches {
		if fromDate != "" || toDate != "" {
			if d, ok := MatchDate(m); ok {
				if fromDate != "" && d < fromDate {
					continue
				}
				if toDate != "" && d > toDate {
					continue
				}
			}
		}
		if phase != "" && !strings.Contains(strings.ToLower(m.phaseText()), phase) {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

// phaseText is the content plus context the phase filter looks at.
func (m MatchResult) phaseText() string {
	var b strings.Builder
	b.WriteString(m.Content)
	b.WriteString(" ")
	b.WriteString(m.Context)
	for _, name := range experimentContextFields {
		if v, ok := m.Fields[name]; ok {
			b.WriteString(" ")
			b.WriteString(v)
		}
	}
	return b.String()
}
