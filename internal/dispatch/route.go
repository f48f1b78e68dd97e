// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

package dispatch

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/logbook/internal/metrics"
	"github.com/tomtom215/logbook/internal/models"
)

// routeTimeout bounds a single POST so a hung endpoint cannot pile up
// goroutines forever. There is no retry and no cancellation beyond this.
const routeTimeout = 10 * time.Second

// Route posts log records as JSON to a remote HTTP endpoint, fire-and-forget.
type Route struct {
	url    string
	client *http.Client
	wg     sync.WaitGroup
}

// NewRoute creates a route dispatcher for the given endpoint URL.
func NewRoute(url string) *Route {
	return &Route{
		url:    url,
		client: &http.Client{Timeout: routeTimeout},
	}
}

// Send dispatches rec asynchronously. It returns immediately; the POST
// proceeds on its own goroutine and its resolution is invisible to the
// caller. Any non-exceptional response, 2xx or not, counts as delivered.
func (r *Route) Send(rec *models.Record) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.post(rec)
	}()
}

// post performs the actual POST. Errors are swallowed; the only trace they
// leave is the RouteDispatchErrors counter.
func (r *Route) post(rec *models.Record) {
	metrics.RouteDispatches.Inc()

	body, err := json.Marshal(rec)
	if err != nil {
		metrics.RouteDispatchErrors.Inc()
		return
	}

	resp, err := r.client.Post(r.url, "application/json", bytes.NewReader(body))
	if err != nil {
		metrics.RouteDispatchErrors.Inc()
		return
	}
	// Response body is never consumed; drain-free close is fine for the
	// empty or ignored bodies the log route returns.
	_ = resp.Body.Close()
}

// Flush blocks until all in-flight posts have resolved. Used by Close and
// by tests; log callers never wait on this.
func (r *Route) Flush() {
	r.wg.Wait()
}
