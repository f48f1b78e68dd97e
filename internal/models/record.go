// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

package models

import "time"

// Level is the severity of a general log record.
type Level string

// General log levels. These are deliberately a small, flat set; the engine
// has no fatal/panic levels because logging must never terminate the host.
const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Valid reports whether l is one of the four general log levels.
func (l Level) Valid() bool {
	switch l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return true
	}
	return false
}

// Fields is a JSON-safe key/value mapping attached to records, steps, and
// sessions. A nil Fields means "no data supplied", which is distinct from an
// empty (but non-nil) mapping.
type Fields map[string]interface{}

// Clone returns a shallow copy of f, or nil if f is nil.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// StepKind discriminates the entries of a session's heterogeneous step list.
type StepKind string

// Step kinds.
const (
	StepKindLog       StepKind = "log"
	StepKindTrace     StepKind = "trace"
	StepKindExecution StepKind = "execution"
)

// Step is the tagged union over the three step shapes a session may hold.
// It is implemented by *Record, *TraceStep, and *ExecutionStep only.
type Step interface {
	Kind() StepKind
}

// Record is a general log record. It is created once by the engine and never
// mutated afterwards. The same *Record is shared by the engine's log buffer
// and, when a session is active at log time, by that session's step list.
type Record struct {
	Level     Level     `json:"level"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Context   Fields    `json:"context,omitempty"`
	Metadata  Fields    `json:"metadata,omitempty"`
}

// Kind implements Step.
func (*Record) Kind() StepKind { return StepKindLog }
