package fs

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/memoria/pkg/git"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path          string          `json:"path"`
	Encoding      string          `json:"encoding"`
	Delimiter     string          `json:"csv_delimiter"`
	ReadOnly      bool            `json:"read_only"`
	Versioning    bool            `json:"versioning"`
	Stores        map[string]bool `json:"stores"`
	WatcherActive bool            `json:"watcher_active"`
	LastWrite     *time.Time      `json:"last_write,omitempty"`
	// Pending lists store files with uncommitted changes. Only set when versioning.
	Pending []string `json:"pending,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stores := make(map[string]bool, len(StoreFiles))
	for _, name := range StoreFiles {
		_, err := os.Stat(filepath.Join(r.Path, name))
		stores[name] = err == nil
	}

	return RepositoryState{
		Path:          r.Path,
		Encoding:      r.codec.name,
		Delimiter:     string(r.config.Settings.Delimiter()),
		ReadOnly:      r.config.ReadOnly,
		Versioning:    r.config.Versioning,
		Stores:        stores,
		WatcherActive: r.watcherActive,
		LastWrite:     r.lastWrite,
		Pending:       r.pendingStores(),
	}
}

func (r *Repository) pendingStores() []string {
	if !r.config.Versioning || !git.IsInstalled() || !r.git.IsRepo() {
		return nil
	}
	out, err := r.git.Status(StoreFiles...)
	if err != nil {
		r.config.Logger.Debug("git status failed", "path", r.Path, "error", err)
		return nil
	}
	var pending []string
	for _, line := range strings.Split(out, "\n") {
		f := strings.Fields(line)
		if len(f) < 2 {
			continue
		}
		pending = append(pending, filepath.Base(f[len(f)-1]))
	}
	return pending
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}
