// Package session holds per-upload exploration state. A session keeps the
// immutable original table, the derived filtered table, and the two-phase
// filter spec: controls write the pending spec, an explicit apply promotes it
// to active.
package session

import (
	"sync"
	"time"

	"datalens/domain/core"
	"datalens/domain/filter"
	"datalens/domain/table"
	"datalens/internal/pipeline"
)

// Chart kinds the dashboard can toggle between.
const (
	ChartBar = "bar"
	ChartPie = "pie"
)

// Session is one user's exploration of one uploaded file.
type Session struct {
	ID       core.SessionID
	Filename string

	// Raw is the immutable original table; Filtered is derived from it by
	// the active spec and starts out identical.
	Raw      *table.Table
	Filtered *table.Table
	Profiles []pipeline.ColumnProfile

	// Pending is what the controls last produced; Active is what the
	// pipeline consumes. Apply promotes one to the other.
	Pending filter.Spec
	Active  filter.Spec

	ChartKind string
	Target    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is the in-memory session registry. Sessions live until process
// restart; there is no persistence.
type Store struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[core.SessionID]*Session)}
}

// Create registers a new session for a loaded table. The filtered view
// starts as the raw table and the aggregation target defaults to the last
// column.
func (s *Store) Create(filename string, raw *table.Table, profiles []pipeline.ColumnProfile) *Session {
	now := time.Now()
	sess := &Session{
		ID:        core.SessionID(core.NewID()),
		Filename:  filename,
		Raw:       raw,
		Filtered:  raw,
		Profiles:  profiles,
		Pending:   filter.Spec{},
		Active:    filter.Spec{},
		ChartKind: ChartBar,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if headers := raw.Headers(); len(headers) > 0 {
		sess.Target = headers[len(headers)-1]
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get looks up a session by ID.
func (s *Store) Get(id core.SessionID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return sess, nil
}

// SetPending stores the spec the controls produced without filtering
// anything yet.
func (s *Store) SetPending(id core.SessionID, spec filter.Spec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return core.ErrSessionNotFound
	}
	sess.Pending = spec.Clone()
	sess.UpdatedAt = time.Now()
	return nil
}

// Promote moves the pending spec to active and returns it. The caller
// recomputes the filtered table from the result.
func (s *Store) Promote(id core.SessionID) (filter.Spec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	sess.Active = sess.Pending.Clone()
	sess.UpdatedAt = time.Now()
	return sess.Active, nil
}

// SetFiltered records the table derived from the active spec.
func (s *Store) SetFiltered(id core.SessionID, filtered *table.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return core.ErrSessionNotFound
	}
	sess.Filtered = filtered
	sess.UpdatedAt = time.Now()
	return nil
}

// SetView records the chart kind and aggregation target column.
func (s *Store) SetView(id core.SessionID, chartKind, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return core.ErrSessionNotFound
	}
	if chartKind == ChartBar || chartKind == ChartPie {
		sess.ChartKind = chartKind
	}
	if target != "" && sess.Raw.HasColumn(target) {
		sess.Target = target
	}
	sess.UpdatedAt = time.Now()
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
