// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

// Package adapter provides persistence targets for log records: an
// append-only JSON-lines file and a BadgerDB store. Both satisfy the
// engine's Adapter contract (accept a fully-built record, report success
// or failure, close cleanly).
//
// Construction errors (unwritable path, unopenable database) surface to
// the caller as configuration errors; write errors are reported to the
// engine, which swallows them and counts them in metrics.
package adapter
