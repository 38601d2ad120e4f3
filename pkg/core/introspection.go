package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Queries        int    `json:"queries"`
	Bootstraps     int    `json:"bootstraps"`
	Sessions       int    `json:"sessions"`
	LastQuery      string `json:"last_query,omitempty"`
	MaxResults     int    `json:"max_results"`
	RepositoryType string `json:"repository_type"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	repoType := "unknown"
	if s.repo != nil {
		repoType = "repository"
		if comp, ok := s.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
	}

	return ServiceState{
		Queries:        s.queries,
		Bootstraps:     s.bootstraps,
		Sessions:       s.sessions,
		LastQuery:      s.lastQuery,
		MaxResults:     s.config.Search.MaxResults,
		RepositoryType: repoType,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
