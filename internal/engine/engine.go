// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/logbook/internal/config"
	"github.com/tomtom215/logbook/internal/dispatch"
	"github.com/tomtom215/logbook/internal/metrics"
	"github.com/tomtom215/logbook/internal/models"
)

// Adapter is an optional persistence target for log records, preserving the
// contract of the adapter/formatter layer: it accepts a fully-built record
// and reports success or failure. Adapter write failures are swallowed by
// the engine; construction failures belong to the caller.
type Adapter interface {
	// Name identifies the adapter in metrics.
	Name() string
	// Write persists a record.
	Write(rec *models.Record) error
	// Close releases adapter resources.
	Close() error
}

// Engine is the unified logging and session-tracking engine. Construct one
// with New and pass references explicitly; there is no package-level
// singleton. Independent engines never share sessions or buffers.
type Engine struct {
	cfg *config.Config

	// console and route are nil when the effective mode excludes them.
	console *dispatch.Console
	route   *dispatch.Route

	mu       sync.Mutex
	logs     *recordBuffer
	sessions map[string]*models.Session
	// currentID is the single current-session pointer. Empty means no
	// current session. It may dangle after ClearOldSessions deletes the
	// backing record; session-scoped operations then degrade to no-ops.
	currentID string
	// traceStarts correlates StartTraceStep/CompleteTraceStep by step name.
	// Bounded to MaxLogs entries with insertion-order eviction; it is owned
	// by the engine instance, so two engines never see each other's
	// in-flight timers.
	traceStarts map[string]int64
	traceOrder  []string

	adapters []Adapter
}

// New resolves configuration (explicit options, optional config file,
// LOG_* environment overrides, production downgrade) and constructs an
// engine. Invalid explicit configuration fails here, synchronously, so the
// application fails fast rather than logging into a broken state.
func New(opts config.Options) (*Engine, error) {
	cfg, err := config.Resolve(opts)
	if err != nil {
		return nil, err
	}
	return NewFromConfig(cfg), nil
}

// NewFromConfig constructs an engine from an already-resolved configuration.
// Most callers should use New; this exists for tests and for hosts that
// resolve configuration themselves.
func NewFromConfig(cfg *config.Config) *Engine {
	e := &Engine{
		cfg:         cfg,
		logs:        newRecordBuffer(cfg.MaxLogs),
		sessions:    make(map[string]*models.Session),
		traceStarts: make(map[string]int64),
	}
	if cfg.EffectiveMode.Console() {
		e.console = dispatch.NewConsole(cfg.Format, cfg.Output)
	}
	if cfg.EffectiveMode.Route() {
		e.route = dispatch.NewRoute(cfg.RouteURL)
	}

	// The init line rides the console path, so it is naturally suppressed
	// in production by the mode downgrade.
	if !cfg.Production && e.console != nil {
		logger := e.console.Logger()
		logger.Info().
			Str("mode", string(cfg.EffectiveMode)).
			Int("max_logs", cfg.MaxLogs).
			Int("max_sessions", cfg.MaxSessions).
			Msg("logbook engine initialized")
	}

	return e
}

// AttachAdapter registers a persistence adapter. Attach adapters before the
// first log call; registration is not synchronized with logging.
func (e *Engine) AttachAdapter(a Adapter) {
	e.adapters = append(e.adapters, a)
}

// Config returns the resolved configuration the engine runs with.
func (e *Engine) Config() *config.Config { return e.cfg }

// Debug logs a debug-level record.
func (e *Engine) Debug(message string, context, metadata models.Fields) {
	e.log(models.LevelDebug, message, context, metadata)
}

// Info logs an info-level record.
func (e *Engine) Info(message string, context, metadata models.Fields) {
	e.log(models.LevelInfo, message, context, metadata)
}

// Warn logs a warn-level record.
func (e *Engine) Warn(message string, context, metadata models.Fields) {
	e.log(models.LevelWarn, message, context, metadata)
}

// Error logs an error-level record. When err is non-nil its message is
// merged into the record context under "error" before sanitization; the
// caller's context map is never mutated.
func (e *Engine) Error(message string, err error, context, metadata models.Fields) {
	if err != nil {
		merged := context.Clone()
		if merged == nil {
			merged = models.Fields{}
		}
		merged["error"] = err.Error()
		context = merged
	}
	e.log(models.LevelError, message, context, metadata)
}

// log builds a sanitized record, stores it in the bounded buffer, attaches
// it to the current session when one is active (general logs attach
// regardless of session type), and dispatches per the effective mode. The
// same *Record is shared by the buffer and the session's step list.
func (e *Engine) log(level models.Level, message string, context, metadata models.Fields) {
	rec := &models.Record{
		Level:     level,
		Timestamp: time.Now().UTC(),
		Message:   message,
		Context:   Sanitize(e.cfg.SensitiveFields, context),
		Metadata:  Sanitize(e.cfg.SensitiveFields, metadata),
	}

	e.mu.Lock()
	if e.logs.Append(rec) {
		metrics.RecordsEvicted.Inc()
	}
	if cur := e.currentLocked(); cur != nil {
		cur.Steps = append(cur.Steps, rec)
	}
	e.mu.Unlock()

	metrics.RecordsTotal.WithLabelValues(string(level)).Inc()
	e.dispatch(rec)
}

// dispatch routes a record to console, route, and adapters. Mode "none"
// leaves the record buffered with no output at all. Console and route are
// independent: a console write always happens even if the route POST fails.
func (e *Engine) dispatch(rec *models.Record) {
	if e.console != nil {
		e.console.Write(rec)
	}
	if e.route != nil {
		e.route.Send(rec)
	}
	for _, a := range e.adapters {
		if err := a.Write(rec); err != nil {
			metrics.AdapterWrites.WithLabelValues(a.Name(), metrics.StatusError).Inc()
			continue
		}
		metrics.AdapterWrites.WithLabelValues(a.Name(), metrics.StatusOK).Inc()
	}
}

// GetAllLogs returns a snapshot of the buffered records in call order,
// oldest first. The slice is a copy; the records it holds are the live,
// shared instances.
func (e *Engine) GetAllLogs() []*models.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.logs.Snapshot()
}

// Reset clears all engine state: the log buffer, the session table, the
// current-session id, and the trace timer table. Intended for test
// isolation in place of hidden global state.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logs.Clear()
	e.sessions = make(map[string]*models.Session)
	e.currentID = ""
	e.traceStarts = make(map[string]int64)
	e.traceOrder = nil
}

// Close flushes in-flight route posts and closes attached adapters.
func (e *Engine) Close() error {
	if e.route != nil {
		e.route.Flush()
	}
	var errs []error
	for _, a := range e.adapters {
		if err := a.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// nowMillis is the millisecond epoch clock used for execution steps and
// trace timers.
func nowMillis() int64 {
	return time.Now().UnixMilli()
}
