// Package session ties the snapshot cache, the table engine and the
// termination collaborator to one viewer's sort state.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prabalesh/tasktop/internal/collector"
	"github.com/prabalesh/tasktop/internal/models"
	"github.com/prabalesh/tasktop/internal/table"
)

// Session holds all per-viewer state: the cached snapshot, the sort state
// and the collaborators commands act through.
type Session struct {
	engine     *table.Engine
	cache      *collector.SnapshotCache
	terminator collector.Terminator
	logger     *slog.Logger

	mu    sync.Mutex
	state models.SortState
}

// New creates a session. A nil logger discards output.
func New(engine *table.Engine, cache *collector.SnapshotCache, terminator collector.Terminator, initial models.SortState, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		engine:     engine,
		cache:      cache,
		terminator: terminator,
		logger:     logger,
		state:      initial,
	}
}

// Render returns the table for the cached snapshot, capturing one first if
// the cache is empty.
func (s *Session) Render(ctx context.Context) (string, error) {
	raw, err := s.cache.Get(ctx)
	if err != nil {
		return "", err
	}
	state := s.SortState()
	text, err := s.engine.Render(raw, state)
	if err != nil {
		// A listing too short to hold its header is as unusable as a
		// failed capture; drop it so the next render retries.
		s.cache.Invalidate()
		return "", err
	}
	return text, nil
}

// SortState returns the active sort key and direction.
func (s *Session) SortState() models.SortState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SelectSortKey applies the toggle rules of models.SortState.Select and
// returns the new state. The caller re-renders.
func (s *Session) SelectSortKey(key models.SortKey) models.SortState {
	s.mu.Lock()
	s.state = s.state.Select(key)
	state := s.state
	s.mu.Unlock()

	s.logger.Debug("sort key selected", "key", key, "inverted", state.Inverted)
	return state
}

// ResolveRow returns the process id on line of text, which must be output
// of Render.
func (s *Session) ResolveRow(text string, line int) (int, error) {
	pid, err := s.engine.ResolvePID(text, line)
	if err != nil {
		var oor *table.OutOfRangeError
		if errors.As(err, &oor) {
			s.logger.Debug("row action outside process rows", "line", line)
		} else {
			s.logger.Warn("row action on invalid process id", "line", line, "error", err)
		}
		return 0, err
	}
	return pid, nil
}

// Terminate kills pid and invalidates the cache whatever the outcome, so the
// next render shows the current process list.
func (s *Session) Terminate(ctx context.Context, pid int) error {
	defer s.cache.Invalidate()

	start := time.Now()
	err := s.terminator.Terminate(ctx, pid)
	if err != nil {
		var termErr *collector.TerminationError
		if !errors.As(err, &termErr) {
			err = &collector.TerminationError{PID: pid, Err: err}
		}
		s.logger.Warn("terminate failed", "pid", pid, "error", err)
		return err
	}
	s.logger.Info("process terminated", "pid", pid, "elapsed", time.Since(start))
	return nil
}

// Reload drops the cached snapshot. The caller re-renders.
func (s *Session) Reload() {
	s.cache.Invalidate()
	s.logger.Debug("snapshot invalidated")
}

// CapturedAt returns when the displayed snapshot was taken.
func (s *Session) CapturedAt() time.Time {
	return s.cache.CapturedAt()
}

// FirstRow is the line the cursor starts on: the first process row.
func (s *Session) FirstRow() int {
	return s.engine.Schema().HeaderLines
}

// BodyRange returns the selectable lines of text.
func (s *Session) BodyRange(text string) (first, end int) {
	return table.BodyRange(s.engine.Schema(), text)
}
