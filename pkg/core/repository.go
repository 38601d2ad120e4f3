package core

import (
	"context"
	"time"
)

// Repository defines the contract for reading the memory stores.
// Adhering to this interface keeps the query engine independent of where
// the stores live (local files today).
type Repository interface {
	// ReadText parses a free-text store (devlog or decisions) into dated entries.
	ReadText(ctx context.Context, src Source) (TextStore, error)

	// ReadExperiments parses the tabular experiment store.
	ReadExperiments(ctx context.Context) ([]ExperimentRecord, error)

	// ReadTodos returns every checkbox line of the TODO store in file order.
	ReadTodos(ctx context.Context) ([]TodoItem, error)

	// ReadOverview returns the project overview verbatim.
	ReadOverview(ctx context.Context) (string, error)

	// Initialize ensures the stores exist (directory and default files).
	Initialize(ctx context.Context) error
}

// Recorder is implemented by repositories that accept new entries.
// Writing is kept off the Repository contract so the query path stays read-only.
type Recorder interface {
	// AppendSession appends a session to every store it touches.
	AppendSession(ctx context.Context, s Session, at time.Time) (SessionReceipt, error)

	// CompleteTodo closes the first open item whose text equals text.
	CompleteTodo(ctx context.Context, text, note string, at time.Time) error
}

// EventType represents the type of change in the memory directory.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a store file.
type Event struct {
	Type      EventType `json:"type"`
	Store     string    `json:"store"`
	Timestamp int64     `json:"timestamp"` // Unix timestamp
}

func (e Event) String() string {
	return string(e.Type) + " " + e.Store
}

// Watchable is implemented by repositories that can report store changes.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
