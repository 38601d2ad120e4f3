package fs

import (
	"regexp"
	"strings"

	"github.com/aretw0/memoria/pkg/core"
)

// The stores are line oriented. Every line lexes to exactly one token:
//
//	header   = "## " date [ rest ]          ; starts a dated entry
//	checkbox = [ws] "-" [ws] "[" (" "|"x") "]" [ws] [ "[" PRIORITY "]" ] [ "[" category "]" ] text [ completed ]
//	text     = anything else
//
// There is no escaping: a header-shaped line inside free text is always a boundary.
type tokenKind int

const (
	tokenText tokenKind = iota
	tokenHeader
	tokenCheckbox
)

var (
	headerLine    = regexp.MustCompile(`^## (\d{4}-\d{2}-\d{2})`)
	checkboxLine  = regexp.MustCompile(`^\s*-\s*\[([ x])\]\s*(.*)$`)
	priorityTag   = regexp.MustCompile(`^\[([A-Z][A-Z0-9_]*)\]\s*`)
	categoryTag   = regexp.MustCompile(`^\[([^\]\s][^\]]*)\]\s*`)
	completedNote = regexp.MustCompile(`\s*\(completed: ([^)]*)\)\s*$`)
)

type token struct {
	kind tokenKind
	date string
	todo core.TodoItem
}

func lex(line string) token {
	if m := headerLine.FindStringSubmatch(line); m != nil {
		return token{kind: tokenHeader, date: m[1]}
	}
	if m := checkboxLine.FindStringSubmatch(line); m != nil {
		return token{kind: tokenCheckbox, todo: parseTodoBody(m[1] == "x", m[2])}
	}
	return token{kind: tokenText}
}

func parseTodoBody(done bool, body string) core.TodoItem {
	item := core.TodoItem{Done: done}
	if m := priorityTag.FindStringSubmatch(body); m != nil {
		item.Priority = m[1]
		body = body[len(m[0]):]
	}
	if m := categoryTag.FindStringSubmatch(body); m != nil {
		item.Category = m[1]
		body = body[len(m[0]):]
	}
	if done {
		if m := completedNote.FindStringSubmatchIndex(body); m != nil {
			item.Completed = body[m[2]:m[3]]
			body = body[:m[0]]
		}
	}
	item.Text = strings.TrimSpace(body)
	return item
}

// splitLines splits content into lines, dropping the empty tail after a final newline.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// parseEntries groups lines into dated entries. Lines before the first header
// belong to no entry.
func parseEntries(lines []string) []core.Entry {
	var entries []core.Entry
	start := -1
	var date string
	flush := func(end int) {
		if start < 0 {
			return
		}
		entries = append(entries, core.Entry{
			Date: date,
			Line: start + 1,
			Text: strings.Join(lines[start:end], "\n") + "\n",
		})
	}
	for i, line := range lines {
		if tok := lex(line); tok.kind == tokenHeader {
			flush(i)
			start, date = i, tok.date
		}
	}
	flush(len(lines))
	return entries
}

// parseTodos returns every checkbox line in file order.
func parseTodos(lines []string) []core.TodoItem {
	var todos []core.TodoItem
	for i, line := range lines {
		tok := lex(line)
		if tok.kind != tokenCheckbox {
			continue
		}
		item := tok.todo
		item.Line = i + 1
		item.Raw = strings.TrimSpace(line)
		todos = append(todos, item)
	}
	return todos
}

// formatTodo renders a new open TODO line.
func formatTodo(t core.TodoInput) string {
	var b strings.Builder
	b.WriteString("- [ ] ")
	if t.Priority != "" {
		b.WriteString("[" + strings.ToUpper(t.Priority) + "] ")
	}
	if t.Category != "" {
		b.WriteString("[" + t.Category + "] ")
	}
	b.WriteString(strings.TrimSpace(t.Text))
	return b.String()
}
