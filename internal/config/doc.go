// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

// Package config resolves the engine configuration from layered sources
// using Koanf v2 (highest priority wins):
//
//  1. Built-in defaults
//  2. Optional YAML config file (logbook.yaml, or CONFIG_PATH)
//  3. Explicit Options passed to the constructor
//  4. Environment variables (LOG_MODE, LOG_ROUTE_URL, LOG_MAX_LOGS,
//     LOG_MAX_SESSIONS, LOG_SENSITIVE_FIELDS, LOG_FORMAT)
//
// Each environment override is validated independently: a value that does
// not parse (an unknown mode, a non-positive limit) is ignored and the next
// layer wins, while an invalid explicit Option is a construction-time error.
// The rest of the engine only ever sees the resolved, already-downgraded
// configuration; production state is never re-checked elsewhere.
//
// Production is detected once, at resolve time, from ENVIRONMENT=production.
// In production the effective output mode is downgraded: console becomes
// none, both becomes route. Runtime environment flips are not supported.
package config
