// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

// Package dispatch implements the two output targets of the engine: a
// zerolog-backed console writer and a fire-and-forget HTTP route client.
//
// Dispatch is strictly best-effort. Console writes are synchronous; route
// POSTs run on their own goroutine and their outcome is invisible to the
// log caller. Network and serialization failures are swallowed and only
// surface as Prometheus counters; a non-2xx response counts as delivered.
// Logging must never fail the host because of a failed side channel.
package dispatch
