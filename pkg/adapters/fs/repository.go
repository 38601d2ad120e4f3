package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/memoria/pkg/core"
	"github.com/aretw0/memoria/pkg/git"
)

// Store file names inside the memory directory.
const (
	OverviewFile    = "project-overview.md"
	DevlogFile      = "devlog.md"
	DecisionsFile   = "decisions.md"
	TodosFile       = "todos.md"
	ExperimentsFile = "experiments.csv"
)

// StoreFiles lists every store in creation order.
var StoreFiles = []string{OverviewFile, DevlogFile, DecisionsFile, TodosFile, ExperimentsFile}

// Repository implements core.Repository on a directory of flat files.
type Repository struct {
	Path   string
	config Config
	codec  codec
	git    *git.Client

	mu            sync.RWMutex
	watcherActive bool
	lastWrite     *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path     string
	Settings core.Config
	Logger   *slog.Logger
	// ReadOnly skips initialization and rejects every write.
	ReadOnly bool
	// Versioning commits ingested changes when Path is inside a git work tree.
	Versioning bool
	// ErrorHandler receives runtime watcher failures. Optional.
	ErrorHandler func(error)
}

// NewRepository creates a new filesystem-backed repository.
// An unsupported encoding falls back to UTF-8 with a warning.
func NewRepository(config Config) *Repository {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	c, err := newCodec(config.Settings.Encoding)
	if err != nil {
		config.Logger.Warn("falling back to utf-8", "encoding", config.Settings.Encoding, "error", err)
		c = codec{name: "utf-8"}
	}
	return &Repository{
		Path:   config.Path,
		config: config,
		codec:  c,
		git:    git.NewClient(config.Path, config.Logger),
	}
}

// Initialize creates the memory directory and any missing store with its default content.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.ReadOnly {
		return nil
	}
	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create memory directory: %w", err)
	}
	now := time.Now()
	for _, name := range StoreFiles {
		path := filepath.Join(r.Path, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat %s: %w", name, err)
		}
		data, err := r.codec.encode(r.defaultContent(name, now))
		if err != nil {
			return err
		}
		if err := writeFileAtomic(path, data, 0644); err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
		r.config.Logger.Debug("created store", "store", name)
	}
	return nil
}

func (r *Repository) defaultContent(name string, now time.Time) string {
	switch name {
	case OverviewFile:
		return fmt.Sprintf(overviewTemplate, now.UTC().Format(time.RFC3339))
	case DevlogFile:
		return "# Development Log\n\n"
	case DecisionsFile:
		return "# Key Decisions\n\n"
	case TodosFile:
		return "# TODO Items and Open Questions\n\n"
	case ExperimentsFile:
		data, _ := encodeExperiments(nil, r.config.Settings.Delimiter(), true)
		return string(data)
	}
	return ""
}

const overviewTemplate = `# Project Overview

## Research Questions

## Hypotheses

## Datasets

## Methodology

## Key Variables

## Code Structure

## Project Status
*Initial setup - ready for research documentation*

---

*Last updated: %s*
`

// readStore loads and decodes a store file.
func (r *Repository) readStore(name string) (string, error) {
	path := filepath.Join(r.Path, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", core.ErrMissingStore, path)
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	text, err := r.codec.decode(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}

func storeFile(src core.Source) (string, error) {
	switch src {
	case core.SourceDevlog:
		return DevlogFile, nil
	case core.SourceDecisions:
		return DecisionsFile, nil
	}
	return "", fmt.Errorf("%s is not a text store", src)
}

// ReadText parses the devlog or the decision log.
func (r *Repository) ReadText(ctx context.Context, src core.Source) (core.TextStore, error) {
	name, err := storeFile(src)
	if err != nil {
		return core.TextStore{}, err
	}
	text, err := r.readStore(name)
	if err != nil {
		return core.TextStore{}, err
	}
	lines := splitLines(text)
	return core.TextStore{Lines: lines, Entries: parseEntries(lines)}, nil
}

// ReadExperiments parses the experiment store with the configured delimiter.
// On a corrupt row the rows before it are returned along with the error.
func (r *Repository) ReadExperiments(ctx context.Context) ([]core.ExperimentRecord, error) {
	text, err := r.readStore(ExperimentsFile)
	if err != nil {
		return nil, err
	}
	return decodeExperiments(text, r.config.Settings.Delimiter())
}

// ReadTodos returns every checkbox line of the TODO store.
func (r *Repository) ReadTodos(ctx context.Context) ([]core.TodoItem, error) {
	text, err := r.readStore(TodosFile)
	if err != nil {
		return nil, err
	}
	return parseTodos(splitLines(text)), nil
}

// ReadOverview returns the project overview verbatim.
func (r *Repository) ReadOverview(ctx context.Context) (string, error) {
	return r.readStore(OverviewFile)
}

var _ core.Repository = (*Repository)(nil)
var _ core.Recorder = (*Repository)(nil)
var _ core.Watchable = (*Repository)(nil)
