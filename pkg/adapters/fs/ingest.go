package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/memoria/pkg/core"
	"github.com/aretw0/memoria/pkg/git"
)

// AppendSession appends the session to the devlog and to the experiment,
// decision and TODO stores it has entries for.
//
// Workflow:
//  1. Render every block in memory (fails before touching disk on bad metrics).
//  2. Append each block to its store.
//  3. (If versioning is enabled) commit the touched stores.
func (r *Repository) AppendSession(ctx context.Context, s core.Session, at time.Time) (core.SessionReceipt, error) {
	if r.config.ReadOnly {
		return core.SessionReceipt{}, core.ErrReadOnly
	}
	settings := r.config.Settings
	at = at.UTC()
	receipt := core.SessionReceipt{
		SessionID: uuid.NewString(),
		Timestamp: settings.FormatTimestamp(at),
	}
	headerStamp := at.Format("2006-01-02 15:04")
	phases := s.PhaseNames(settings)

	type block struct {
		file string
		data []byte
	}
	var blocks []block
	add := func(file, text string) error {
		data, err := r.codec.encode(text)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", file, err)
		}
		blocks = append(blocks, block{file: file, data: data})
		return nil
	}

	if err := add(DevlogFile, renderDevlog(s, headerStamp, settings.Logging.PhaseSections)); err != nil {
		return receipt, err
	}

	if len(s.Experiments) > 0 {
		base := "exp_" + at.Format("20060102_150405")
		rows := make([][]string, 0, len(s.Experiments))
		for i, e := range s.Experiments {
			id := base
			if i > 0 {
				id = fmt.Sprintf("%s_%d", base, i+1)
			}
			row, err := experimentRow(e, receipt.Timestamp, id, phases)
			if err != nil {
				return receipt, fmt.Errorf("experiment %d: %w", i+1, err)
			}
			rows = append(rows, row)
			receipt.ExperimentIDs = append(receipt.ExperimentIDs, id)
		}
		info, statErr := os.Stat(filepath.Join(r.Path, ExperimentsFile))
		needHeader := os.IsNotExist(statErr) || (statErr == nil && info.Size() == 0)
		data, err := encodeExperiments(rows, settings.Delimiter(), needHeader)
		if err != nil {
			return receipt, fmt.Errorf("failed to encode experiments: %w", err)
		}
		if err := add(ExperimentsFile, string(data)); err != nil {
			return receipt, err
		}
	}

	if len(s.Decisions) > 0 {
		if err := add(DecisionsFile, renderDecisions(s.Decisions, at.Format(time.RFC3339))); err != nil {
			return receipt, err
		}
	}

	if len(s.Todos) > 0 {
		if err := add(TodosFile, renderTodos(s.Todos, headerStamp)); err != nil {
			return receipt, err
		}
	}

	for _, b := range blocks {
		if err := appendFile(filepath.Join(r.Path, b.file), b.data); err != nil {
			return receipt, fmt.Errorf("failed to append to %s: %w", b.file, err)
		}
		receipt.Files = append(receipt.Files, b.file)
	}
	r.recordWrite()

	if err := r.commit(fmt.Sprintf("docs(memory): log session %s", summarize(s.Goal)), receipt.Files...); err != nil {
		return receipt, err
	}
	return receipt, nil
}

func renderDevlog(s core.Session, headerStamp string, phaseOrder []string) string {
	goal := s.Goal
	if goal == "" {
		goal = "Not specified"
	}
	changes := s.Changes
	if changes == "" {
		changes = "No changes recorded"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", headerStamp)
	fmt.Fprintf(&b, "**Session Goal**: %s\n\n", goal)
	fmt.Fprintf(&b, "**Changes Summary**: %s\n\n", changes)
	for _, phase := range phaseOrder {
		if text := s.Phases[phase]; text != "" {
			fmt.Fprintf(&b, "### %s\n%s\n\n", strings.ToUpper(phase), text)
		}
	}
	b.WriteString("---\n\n")
	return b.String()
}

func renderDecisions(decisions []core.DecisionInput, stamp string) string {
	var b strings.Builder
	for _, d := range decisions {
		fmt.Fprintf(&b, "## %s\n\n", stamp)
		fmt.Fprintf(&b, "**Decision**: %s\n\n", d.Decision)
		fmt.Fprintf(&b, "**Rationale**: %s\n\n", d.Rationale)
		fmt.Fprintf(&b, "**Alternatives Considered**: %s\n\n", strings.Join(d.Alternatives, ", "))
		b.WriteString("---\n\n")
	}
	return b.String()
}

func renderTodos(todos []core.TodoInput, headerStamp string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n### %s\n\n", headerStamp)
	for _, t := range todos {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		b.WriteString(formatTodo(t))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

// CompleteTodo closes the first open item whose text (with or without its
// annotations) equals text, then rewrites the store atomically.
func (r *Repository) CompleteTodo(ctx context.Context, text, note string, at time.Time) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	content, err := r.readStore(TodosFile)
	if err != nil {
		return err
	}
	lines := splitLines(content)

	updated, ok := completeTodoLines(lines, strings.TrimSpace(text), completionSuffix(at, note))
	if !ok {
		return fmt.Errorf("%w: %q", core.ErrTodoNotFound, text)
	}

	data, err := r.codec.encode(strings.Join(updated, "\n") + "\n")
	if err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(r.Path, TodosFile), data, 0644); err != nil {
		return fmt.Errorf("failed to rewrite %s: %w", TodosFile, err)
	}
	r.recordWrite()

	return r.commit(fmt.Sprintf("docs(memory): complete todo %s", summarize(text)), TodosFile)
}

func completionSuffix(at time.Time, note string) string {
	suffix := " (completed: " + at.UTC().Format("2006-01-02")
	if note = strings.TrimSpace(note); note != "" {
		suffix += " - " + note
	}
	return suffix + ")"
}

// completeTodoLines is a pure transform over the store's line records.
func completeTodoLines(lines []string, text, suffix string) ([]string, bool) {
	out := append([]string(nil), lines...)
	for i, line := range out {
		tok := lex(line)
		if tok.kind != tokenCheckbox || tok.todo.Done {
			continue
		}
		m := checkboxLine.FindStringSubmatchIndex(line)
		body := strings.TrimSpace(line[m[4]:m[5]])
		if tok.todo.Text != text && body != text {
			continue
		}
		// m[2]:m[3] is the single space inside "[ ]".
		out[i] = line[:m[2]] + "x" + line[m[3]:m[5]]
		out[i] = strings.TrimRight(out[i], " \t") + suffix
		return out, true
	}
	return lines, false
}

// commit records the given store files in git when versioning is enabled
// and the memory directory sits inside a work tree.
func (r *Repository) commit(msg string, files ...string) error {
	if !r.config.Versioning || len(files) == 0 {
		return nil
	}
	if !git.IsInstalled() || !r.git.IsRepo() {
		r.config.Logger.Debug("skipping commit, not a git work tree", "path", r.Path)
		return nil
	}

	unlock, err := r.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := r.git.Add(files...); err != nil {
		return fmt.Errorf("failed to git add: %w", err)
	}
	if err := r.git.Commit(msg, files...); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	return nil
}

func summarize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 50 {
		return string(r[:50]) + "..."
	}
	if s == "" {
		return "session"
	}
	return s
}

func (r *Repository) recordWrite() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.lastWrite = &now
}
