package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/memoria/pkg/core"
)

// DefaultWatchPattern matches every store file.
const DefaultWatchPattern = "*.{md,csv}"

const debounceWindow = 50 * time.Millisecond

// Watch reports changes to store files matching pattern (relative to the memory directory).
// The channel is closed when ctx is done.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = DefaultWatchPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(r.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", r.Path, err)
	}

	events := make(chan core.Event, 16)
	r.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer r.setWatcherActive(false)
		defer watcher.Close()

		d := newDebouncer(debounceWindow)
		defer d.stop()

		for {
			select {
			case <-ctx.Done():
				return nil

			case e := <-d.fire:
				select {
				case events <- e:
				case <-ctx.Done():
					return nil
				}

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if e, ok := r.mapEvent(event, pattern); ok {
					d.add(e)
				}

			case wErr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				r.config.Logger.Error("fsnotify error", "error", wErr)
				if r.config.ErrorHandler != nil {
					r.config.ErrorHandler(wErr)
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		r.config.Logger.Error("watcher stopped", "error", err)
		if r.config.ErrorHandler != nil {
			r.config.ErrorHandler(err)
		}
	}))

	return events, nil
}

// mapEvent turns a filesystem notification into a store event.
func (r *Repository) mapEvent(event fsnotify.Event, pattern string) (core.Event, bool) {
	rel, err := filepath.Rel(r.Path, event.Name)
	if err != nil {
		return core.Event{}, false
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(filepath.Base(rel), TempFilePrefix) {
		return core.Event{}, false
	}
	if ok, err := doublestar.Match(pattern, rel); err != nil || !ok {
		return core.Event{}, false
	}

	var typ core.EventType
	switch {
	case event.Has(fsnotify.Create):
		typ = core.EventCreate
	case event.Has(fsnotify.Write):
		typ = core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		typ = core.EventDelete
	default:
		return core.Event{}, false
	}
	r.config.Logger.Debug("store changed", "store", rel, "type", typ)
	return core.Event{Type: typ, Store: rel, Timestamp: time.Now().Unix()}, true
}

// debouncer coalesces bursts of events per store into the last one.
type debouncer struct {
	window  time.Duration
	mu      sync.Mutex
	pending map[string]*time.Timer
	fire    chan core.Event
	done    chan struct{}
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{
		window:  window,
		pending: make(map[string]*time.Timer),
		fire:    make(chan core.Event),
		done:    make(chan struct{}),
	}
}

func (d *debouncer) add(e core.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.pending[e.Store]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		if d.pending[e.Store] == t {
			delete(d.pending, e.Store)
		}
		d.mu.Unlock()
		select {
		case d.fire <- e:
		case <-d.done:
		}
	})
	d.pending[e.Store] = t
}

func (d *debouncer) stop() {
	d.mu.Lock()
	for _, t := range d.pending {
		t.Stop()
	}
	d.pending = make(map[string]*time.Timer)
	d.mu.Unlock()
	close(d.done)
}
