// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

// Package models defines the core data model shared by the engine, the
// dispatchers, the persistence adapters, and the log-sink receiver.
//
// The central types are:
//
//   - Record: an immutable general log record (debug/info/warn/error)
//   - TraceStep: an append-only, emoji-annotated progress marker
//   - ExecutionStep: a mutable unit of work with started/completed/failed status
//   - Session: a named grouping of steps with a start and optional end time
//
// A session's step list is heterogeneous: it may interleave all three step
// shapes in insertion order. The Step interface is the tagged union over
// them; consumers switch on Kind() (or type-switch on the concrete pointer)
// rather than reflecting on an untyped list.
package models
