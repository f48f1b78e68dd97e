// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

// Package engine implements the unified logging and session-tracking engine.
//
// An Engine accepts general log calls (debug/info/warn/error), keeps a
// bounded in-memory history of log records and sessions, tracks nested
// timed steps within the current session, redacts sensitive fields, and
// dispatches output to console and/or a remote HTTP route according to the
// resolved mode.
//
// # Quick Start
//
//	eng, err := engine.New(config.Options{
//	    Mode:     "both",
//	    RouteURL: "https://logs.example.com/api/v1/logs",
//	})
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//
//	eng.Info("server starting", models.Fields{"port": 3857}, nil)
//
//	eng.StartSession("sync-42", models.SessionTrace, nil)
//	eng.StartTraceStep("fetch", "Fetching history", nil)
//	// ...
//	eng.CompleteTraceStep("fetch", "", nil)
//	eng.EndSession()
//
// # Behavior contract
//
// The engine favors availability over strictness. Caller-misuse conditions
// (ending a session with none active, completing an unknown step, adding a
// trace step outside a trace session) are silent no-ops. Dispatch failures
// are swallowed. The only operation that can fail is construction, which
// validates the resolved configuration and fails fast.
//
// Sessions have deliberate sharp edges, preserved from the engine's
// lineage and covered by tests as documented edge cases rather than
// invariants to rely on: starting a session while another is current
// silently supersedes it without ending it (the superseded session never
// receives an end time), and ClearOldSessions can delete the current
// session's backing record out from under the current-session id.
//
// # Concurrency
//
// All engine state (log buffer, session table, current-session id, trace
// timer table) is guarded by a single mutex; there is exactly one current
// session per engine instance, not per caller. The only asynchronous
// operation is the fire-and-forget route POST. Multiple independent
// engines never share state.
package engine
