// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

package models

import "time"

// SessionType gates which tracker may append typed steps to a session.
// General log records attach to any active session regardless of type.
type SessionType string

// Session types.
const (
	SessionTrace     SessionType = "trace"
	SessionExecution SessionType = "execution"
	SessionGeneral   SessionType = "general"
)

// Valid reports whether t is a known session type.
func (t SessionType) Valid() bool {
	switch t {
	case SessionTrace, SessionExecution, SessionGeneral:
		return true
	}
	return false
}

// TraceLevel classifies a trace step.
type TraceLevel string

// Trace step levels.
const (
	TraceStart    TraceLevel = "start"
	TraceComplete TraceLevel = "complete"
	TraceError    TraceLevel = "error"
	TraceInfo     TraceLevel = "info"
)

// TraceStep is a lightweight progress marker within a trace-type session.
// Steps are append-only: a completion is a new step, never a mutation of the
// matching start step. Correlation between start and complete happens in the
// engine's bounded timer table, not in the step itself.
type TraceStep struct {
	Timestamp time.Time  `json:"timestamp"`
	Level     TraceLevel `json:"level"`
	Message   string     `json:"message"`
	// Duration is set on completion steps only, in milliseconds.
	Duration *int64 `json:"duration,omitempty"`
	// Emoji is the leading emoji of Message, when Message starts with one.
	// Derived at creation time; never scanned from the rest of the string.
	Emoji    string `json:"emoji,omitempty"`
	Metadata Fields `json:"metadata,omitempty"`
}

// Kind implements Step.
func (*TraceStep) Kind() StepKind { return StepKindTrace }

// StepStatus is the state of an execution step. The machine is one-way:
// started -> completed or started -> failed, with no further transitions.
type StepStatus string

// Execution step statuses.
const (
	StepStarted   StepStatus = "started"
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
)

// ExecutionStep is an identified unit of work within an execution-type
// session. It is the only entity in the model whose fields change after
// creation: CompleteStep and FailStep mutate the stored step in place.
// Times are millisecond epochs to match the remote wire format.
type ExecutionStep struct {
	StepID    string `json:"stepId"`
	StepName  string `json:"stepName"`
	StartTime int64  `json:"startTime"`
	EndTime   *int64 `json:"endTime,omitempty"`
	// Duration is EndTime - StartTime in milliseconds, set on completion
	// or failure.
	Duration *int64     `json:"duration,omitempty"`
	Status   StepStatus `json:"status"`
	Error    string     `json:"error,omitempty"`
	Metadata Fields     `json:"metadata,omitempty"`
}

// Kind implements Step.
func (*ExecutionStep) Kind() StepKind { return StepKindExecution }

// Session is a named grouping of log, trace, and execution steps.
//
// A session id is caller-supplied and not validated for uniqueness: starting
// a session under an id that is already stored overwrites the stored entry.
// A session that is superseded (a new session started while it was current)
// is never auto-ended; it stays retrievable by id but accrues no further
// steps and never receives an end time.
type Session struct {
	ID        string      `json:"id"`
	Type      SessionType `json:"type"`
	StartTime time.Time   `json:"startTime"`
	EndTime   *time.Time  `json:"endTime,omitempty"`
	// TotalDuration is EndTime - StartTime in milliseconds, stamped by
	// EndSession.
	TotalDuration *int64 `json:"totalDuration,omitempty"`
	Steps         []Step `json:"steps"`
	Metadata      Fields `json:"metadata,omitempty"`
}
