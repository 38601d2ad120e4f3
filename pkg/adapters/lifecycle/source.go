// Package lifecycle exposes memoria store changes as a lifecycle.Source.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/memoria/pkg/core"
)

type storeSource struct {
	events <-chan core.Event
	stores map[string]bool
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that forwards store change events.
// When stores are given, only events for those store files are forwarded.
func NewSource(events <-chan core.Event, stores ...string) lifecycle.Source {
	s := &storeSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	if len(stores) > 0 {
		s.stores = make(map[string]bool, len(stores))
		for _, name := range stores {
			s.stores[name] = true
		}
	}
	return s
}

func (s *storeSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until ctx is done or the upstream channel closes.
// Events is closed when forwarding stops.
func (s *storeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if s.stores != nil && !s.stores[e.Store] {
					continue
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
