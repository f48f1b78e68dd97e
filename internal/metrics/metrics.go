// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

// Package metrics provides Prometheus instrumentation for the engine:
// record throughput, buffer and session-table evictions, remote route
// dispatch outcomes, and persistence adapter writes. The log-sink binary
// exposes these on /metrics via promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsTotal counts general log records by level.
	RecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logbook_records_total",
			Help: "Total number of log records created",
		},
		[]string{"level"},
	)

	// RecordsEvicted counts records dropped from the bounded log buffer.
	RecordsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "logbook_records_evicted_total",
			Help: "Total number of records evicted from the log buffer (FIFO overflow)",
		},
	)

	// SessionsStarted counts started sessions by type.
	SessionsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logbook_sessions_started_total",
			Help: "Total number of sessions started",
		},
		[]string{"type"},
	)

	// SessionsEnded counts explicitly ended sessions.
	SessionsEnded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "logbook_sessions_ended_total",
			Help: "Total number of sessions ended",
		},
	)

	// SessionsEvicted counts sessions deleted by the post-end eviction pass
	// or by ClearOldSessions.
	SessionsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "logbook_sessions_evicted_total",
			Help: "Total number of sessions evicted from the session table",
		},
	)

	// RouteDispatches counts attempted remote route POSTs.
	RouteDispatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "logbook_route_dispatch_total",
			Help: "Total number of remote route dispatch attempts",
		},
	)

	// RouteDispatchErrors counts swallowed remote dispatch failures.
	// Dispatch errors never propagate to log callers; this counter is the
	// only place they are visible.
	RouteDispatchErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "logbook_route_dispatch_errors_total",
			Help: "Total number of remote route dispatch failures (swallowed)",
		},
	)

	// AdapterWrites counts persistence adapter writes by adapter and outcome.
	AdapterWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logbook_adapter_writes_total",
			Help: "Total number of persistence adapter writes",
		},
		[]string{"adapter", "status"},
	)
)

// Adapter write outcomes for the AdapterWrites status label.
const (
	StatusOK    = "ok"
	StatusError = "error"
)
