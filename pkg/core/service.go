package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Service answers queries and rebuilds project context from a Repository.
type Service struct {
	repo   Repository
	config Config
	logger *slog.Logger
	now    func() time.Time

	mu         sync.RWMutex
	queries    int
	bootstraps int
	sessions   int
	lastQuery  string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new Service. A nil logger means slog.Default().
func NewService(repo Repository, cfg Config, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:   repo,
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the configuration the service was built with.
func (s *Service) Config() Config {
	return s.config
}

// Repository returns the underlying store reader.
func (s *Service) Repository() Repository {
	return s.repo
}

// Search runs a keyword query over the stores.
//
// Workflow:
//  1. Tokenize the query and resolve which stores to search.
//  2. Read and match each store; filter each store's matches independently.
//  3. Concatenate in store order, stable-sort by relevance, truncate to the limit.
//
// A store that cannot be read contributes nothing; the query never fails.
func (s *Service) Search(ctx context.Context, query string, f Filters) QueryResult {
	log := s.logger.With("query_id", uuid.NewString())
	tokens := Tokenize(query)
	fromDate, toDate, phase := s.validateFilters(log, f)
	limit := s.effectiveLimit(log, f.Limit)

	contextLines := -1
	if s.config.Search.IncludeContext {
		contextLines = s.config.Search.ContextLines
	}

	matches := make([]MatchResult, 0)
	for _, src := range s.storesFor(log, f.Type) {
		found := s.searchStore(ctx, log, src, tokens, contextLines)
		filtered := ApplyFilters(found, fromDate, toDate, phase)
		log.Debug("store searched", "store", src, "matches", len(found), "kept", len(filtered))
		matches = append(matches, filtered...)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Relevance > matches[j].Relevance
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	res := QueryResult{
		Query:     query,
		Matches:   matches,
		Timestamp: s.now().UTC().Format(time.RFC3339Nano),
	}
	if len(matches) > 0 {
		res.Summary = fmt.Sprintf("Found %d relevant entries for '%s'", len(matches), query)
	} else {
		res.Summary = fmt.Sprintf("No entries found matching '%s'", query)
	}

	s.mu.Lock()
	s.queries++
	s.lastQuery = query
	s.mu.Unlock()
	return res
}

func (s *Service) searchStore(ctx context.Context, log *slog.Logger, src Source, tokens []string, contextLines int) []MatchResult {
	if len(tokens) == 0 {
		return nil
	}
	if src == SourceExperiments {
		// Rows read before a corrupt one still count.
		records, err := s.repo.ReadExperiments(ctx)
		if err != nil {
			s.warnStore(log, src, err)
		}
		return MatchExperiments(records, tokens)
	}
	store, err := s.repo.ReadText(ctx, src)
	if err != nil {
		s.warnStore(log, src, err)
		return nil
	}
	return MatchLines(src, store.Lines, tokens, contextLines)
}

func (s *Service) warnStore(log *slog.Logger, src Source, err error) {
	kind := "unreadable"
	switch {
	case errors.Is(err, ErrMissingStore):
		kind = "missing"
	case errors.Is(err, ErrMalformedStore):
		kind = "malformed"
	}
	log.Warn("skipping store", "store", src, "reason", kind, "error", err)
}

func (s *Service) storesFor(log *slog.Logger, typ string) []Source {
	if typ == "" {
		return SearchOrder
	}
	src, ok := ParseSource(typ)
	if !ok {
		log.Warn("ignoring type filter", "value", typ, "error", ErrInvalidFilter)
		return SearchOrder
	}
	return []Source{src}
}

func (s *Service) effectiveLimit(log *slog.Logger, limit int) int {
	ceiling := s.config.Search.MaxResults
	switch {
	case limit == 0:
		return ceiling
	case limit < 0:
		log.Warn("ignoring limit", "value", limit, "error", ErrInvalidFilter)
		return ceiling
	case limit > ceiling:
		return ceiling
	}
	return limit
}

func (s *Service) validateFilters(log *slog.Logger, f Filters) (fromDate, toDate, phase string) {
	if f.FromDate != "" {
		if IsDate(f.FromDate) {
			fromDate = f.FromDate
		} else {
			log.Warn("ignoring from-date filter", "value", f.FromDate, "error", ErrInvalidFilter)
		}
	}
	if f.ToDate != "" {
		if IsDate(f.ToDate) {
			toDate = f.ToDate
		} else {
			log.Warn("ignoring to-date filter", "value", f.ToDate, "error", ErrInvalidFilter)
		}
	}
	if f.Phase != "" {
		if p, ok := s.config.IsPhase(f.Phase); ok {
			phase = p
		} else {
			log.Warn("ignoring phase filter", "value", f.Phase, "error", ErrInvalidFilter)
		}
	}
	return fromDate, toDate, phase
}

// Suggestion texts produced by Bootstrap.
const (
	SuggestReview   = "Review and analyze recent experimental results"
	SuggestContinue = "Continue with planned research activities"
)

// Bootstrap rebuilds the current project state: overview, latest log entries,
// TODOs as they are on disk and a few work-plan suggestions.
func (s *Service) Bootstrap(ctx context.Context) BootstrapResult {
	cfg := s.config.Bootstrap
	res := BootstrapResult{
		RecentProgress:      []string{},
		CurrentTodos:        []string{},
		WorkPlanSuggestions: []string{},
		Timestamp:           s.now().UTC().Format(time.RFC3339Nano),
	}

	overview, err := s.repo.ReadOverview(ctx)
	if err != nil {
		s.logger.Warn("skipping project overview", "error", err)
	}
	res.ProjectContext = overview

	store, err := s.repo.ReadText(ctx, SourceDevlog)
	if err != nil {
		s.warnStore(s.logger, SourceDevlog, err)
	}
	entries := store.Entries
	if n := cfg.RecentEntriesCount; n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	for _, e := range entries {
		res.RecentProgress = append(res.RecentProgress, e.Text)
	}

	open := 0
	if cfg.IncludeTodos {
		todos, err := s.repo.ReadTodos(ctx)
		if err != nil {
			s.logger.Warn("skipping todos", "error", err)
		}
		for _, t := range todos {
			res.CurrentTodos = append(res.CurrentTodos, t.Raw)
			if !t.Done {
				open++
			}
		}
	}

	if cfg.SuggestWorkPlan {
		if len(res.RecentProgress) > 0 {
			res.WorkPlanSuggestions = append(res.WorkPlanSuggestions, SuggestReview)
		}
		if open > 0 {
			res.WorkPlanSuggestions = append(res.WorkPlanSuggestions, fmt.Sprintf("Address %d open TODO items", open))
		}
		if len(res.WorkPlanSuggestions) == 0 {
			res.WorkPlanSuggestions = append(res.WorkPlanSuggestions, SuggestContinue)
		}
	}

	s.logger.Debug("bootstrap complete", "entries", len(res.RecentProgress), "todos", len(res.CurrentTodos), "open", open)
	s.mu.Lock()
	s.bootstraps++
	s.mu.Unlock()
	return res
}

// LogSession records a session through the repository, if it accepts writes.
func (s *Service) LogSession(ctx context.Context, session Session) (SessionReceipt, error) {
	if session.IsEmpty() {
		return SessionReceipt{}, ErrEmptyPayload
	}
	rec, ok := s.repo.(Recorder)
	if !ok {
		return SessionReceipt{}, errors.New("repository does not support recording")
	}
	receipt, err := rec.AppendSession(ctx, session, s.now())
	if err != nil {
		return receipt, err
	}
	s.logger.Info("session logged", "session_id", receipt.SessionID, "files", receipt.Files)
	s.mu.Lock()
	s.sessions++
	s.mu.Unlock()
	return receipt, nil
}

// CompleteTodo marks an open TODO as done.
func (s *Service) CompleteTodo(ctx context.Context, text, note string) error {
	if text == "" {
		return errors.New("todo text cannot be empty")
	}
	rec, ok := s.repo.(Recorder)
	if !ok {
		return errors.New("repository does not support recording")
	}
	return rec.CompleteTodo(ctx, text, note, s.now())
}

// Watch observes store changes if the repository supports it.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx, pattern)
}
