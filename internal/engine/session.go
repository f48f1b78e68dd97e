// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

package engine

import (
	"sort"
	"time"

	"github.com/tomtom215/logbook/internal/metrics"
	"github.com/tomtom215/logbook/internal/models"
)

// oldSessionAge is the ClearOldSessions cutoff: sessions started longer ago
// than this are deleted.
const oldSessionAge = time.Hour

// StartSession constructs a session, stores it in the session table, and
// makes it current. A session stored under the same id is overwritten. Any
// previously current session is silently superseded, not ended: it stays
// retrievable by id but accrues no further steps and will never receive an
// end time.
//
// An empty type defaults to trace; an unknown type is stored as given
// (type only gates the trackers, it is not validated here).
func (e *Engine) StartSession(id string, typ models.SessionType, metadata models.Fields) *models.Session {
	if typ == "" {
		typ = models.SessionTrace
	}
	s := &models.Session{
		ID:        id,
		Type:      typ,
		StartTime: time.Now().UTC(),
		Steps:     []models.Step{},
		Metadata:  metadata.Clone(),
	}

	e.mu.Lock()
	e.sessions[id] = s
	e.currentID = id
	e.mu.Unlock()

	metrics.SessionsStarted.WithLabelValues(string(typ)).Inc()
	return s
}

// EndSession stamps the current session with its end time and total
// duration, clears the current-session id, and runs the eviction pass.
// Returns nil when no current session exists (including when the current
// id dangles after ClearOldSessions).
func (e *Engine) EndSession() *models.Session {
	e.mu.Lock()
	cur := e.currentLocked()
	if cur == nil {
		e.currentID = ""
		e.mu.Unlock()
		return nil
	}

	now := time.Now().UTC()
	cur.EndTime = &now
	total := now.Sub(cur.StartTime).Milliseconds()
	cur.TotalDuration = &total
	e.currentID = ""
	e.evictSessionsLocked()
	e.mu.Unlock()

	metrics.SessionsEnded.Inc()
	return cur
}

// GetCurrentSession returns the current session, or nil if none is active.
func (e *Engine) GetCurrentSession() *models.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentLocked()
}

// GetSession returns the stored session under id, or nil.
func (e *Engine) GetSession(id string) *models.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessions[id]
}

// GetAllSessions returns all stored sessions, active and historical, sorted
// by start time descending with ties broken by id descending.
func (e *Engine) GetAllSessions() []*models.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sortedSessionsLocked()
}

// AddStep appends a step to the current session. No-op when no current
// session exists. Any of the three step shapes is accepted: type gating is
// the trackers' responsibility, not this layer's.
func (e *Engine) AddStep(step models.Step) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cur := e.currentLocked(); cur != nil {
		cur.Steps = append(cur.Steps, step)
	}
}

// UpdateSessionMetadata shallow-merges patch into the current session's
// metadata, patch keys winning. No-op when no current session exists.
func (e *Engine) UpdateSessionMetadata(patch models.Fields) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cur := e.currentLocked()
	if cur == nil {
		return
	}
	if cur.Metadata == nil {
		cur.Metadata = models.Fields{}
	}
	for k, v := range patch {
		cur.Metadata[k] = v
	}
}

// FindStepInCurrentSession linearly searches the current session's steps
// for an execution step with the given id. Returns nil when no current
// session exists or no such step is found.
func (e *Engine) FindStepInCurrentSession(stepID string) *models.ExecutionStep {
	e.mu.Lock()
	defer e.mu.Unlock()
	cur := e.currentLocked()
	if cur == nil {
		return nil
	}
	return findExecutionStep(cur, stepID)
}

// ClearOldSessions deletes every stored session whose start time is older
// than one hour, current or not. The current-session id itself is left
// untouched: when the current session's record is deleted here, the id
// dangles and session-scoped operations become no-ops until the next
// StartSession. Documented edge case, preserved deliberately.
func (e *Engine) ClearOldSessions() {
	cutoff := time.Now().UTC().Add(-oldSessionAge)

	e.mu.Lock()
	defer e.mu.Unlock()
	for id, s := range e.sessions {
		if s.StartTime.Before(cutoff) {
			delete(e.sessions, id)
			metrics.SessionsEvicted.Inc()
		}
	}
}

// currentLocked resolves the current-session id against the session table.
// Must be called with e.mu held.
func (e *Engine) currentLocked() *models.Session {
	if e.currentID == "" {
		return nil
	}
	return e.sessions[e.currentID]
}

// sortedSessionsLocked returns all sessions sorted by start time descending,
// ties broken by id descending. Must be called with e.mu held.
func (e *Engine) sortedSessionsLocked() []*models.Session {
	out := make([]*models.Session, 0, len(e.sessions))
	for _, s := range e.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.After(out[j].StartTime)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// evictSessionsLocked trims the session table to MaxSessions entries,
// keeping the most recently started (same ordering as GetAllSessions).
// Runs after every EndSession, never on StartSession. Must be called with
// e.mu held.
func (e *Engine) evictSessionsLocked() {
	if len(e.sessions) <= e.cfg.MaxSessions {
		return
	}
	sorted := e.sortedSessionsLocked()
	for _, s := range sorted[e.cfg.MaxSessions:] {
		delete(e.sessions, s.ID)
		metrics.SessionsEvicted.Inc()
	}
}

// findExecutionStep scans a session's heterogeneous step list for an
// execution step with the given id, switching on the step's concrete shape.
func findExecutionStep(s *models.Session, stepID string) *models.ExecutionStep {
	for _, step := range s.Steps {
		if es, ok := step.(*models.ExecutionStep); ok && es.StepID == stepID {
			return es
		}
	}
	return nil
}
