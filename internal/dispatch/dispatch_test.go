// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

package dispatch

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/logbook/internal/models"
)

func TestConsoleWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole("json", &buf)

	c.Write(&models.Record{
		Level:   models.LevelInfo,
		Message: "hello",
		Context: models.Fields{"a": 1},
	})

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not a JSON line: %v\n%s", err, buf.String())
	}
	if line["level"] != "info" {
		t.Errorf("level = %v", line["level"])
	}
	if line["message"] != "hello" {
		t.Errorf("message = %v", line["message"])
	}
	ctx, ok := line["context"].(map[string]interface{})
	if !ok || ctx["a"] != float64(1) {
		t.Errorf("context = %v", line["context"])
	}
	if _, ok := line["metadata"]; ok {
		t.Error("nil metadata must not appear in output")
	}
	if _, ok := line["time"]; !ok {
		t.Error("timestamp field missing")
	}
}

func TestConsoleLevelMapping(t *testing.T) {
	tests := []struct {
		level models.Level
		want  string
	}{
		{models.LevelDebug, "debug"},
		{models.LevelInfo, "info"},
		{models.LevelWarn, "warn"},
		{models.LevelError, "error"},
		{models.Level("bogus"), "info"}, // unknown levels fall through to info
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		c := NewConsole("json", &buf)
		c.Write(&models.Record{Level: tt.level, Message: "m"})
		if !strings.Contains(buf.String(), `"level":"`+tt.want+`"`) {
			t.Errorf("level %q mapped to %s, want %s", tt.level, buf.String(), tt.want)
		}
	}
}

func TestConsoleHumanFormat(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole("console", &buf)

	c.Write(&models.Record{Level: models.LevelWarn, Message: "watch out"})

	out := buf.String()
	if strings.Contains(out, `"message"`) {
		t.Errorf("console format emitted raw JSON: %q", out)
	}
	if !strings.Contains(out, "watch out") {
		t.Errorf("message missing from console output: %q", out)
	}
}

func TestRouteSendPostsJSON(t *testing.T) {
	bodies := make(chan []byte, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		bodies <- body
	}))
	defer srv.Close()

	rt := NewRoute(srv.URL)
	rt.Send(&models.Record{Level: models.LevelInfo, Message: "shipped"})
	rt.Flush()

	var rec models.Record
	if err := json.Unmarshal(<-bodies, &rec); err != nil {
		t.Fatalf("body is not a record: %v", err)
	}
	if rec.Message != "shipped" || rec.Level != models.LevelInfo {
		t.Errorf("posted record = %+v", rec)
	}
}

func TestRouteSendDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	rt := NewRoute(srv.URL)
	// With a handler that never responds, a synchronous send would hang
	// here. Fire-and-forget returns immediately.
	rt.Send(&models.Record{Message: "m"})
}

func TestRouteErrorsAreSwallowed(t *testing.T) {
	rt := NewRoute("http://127.0.0.1:1/api/logs")
	rt.Send(&models.Record{Message: "m"})
	rt.Flush() // must return despite the connection failure
}

func TestRouteFlushWaitsForInFlight(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(done)
	}))
	defer srv.Close()

	rt := NewRoute(srv.URL)
	rt.Send(&models.Record{Message: "m"})
	rt.Flush()

	select {
	case <-done:
	default:
		t.Error("Flush returned before the in-flight POST was handled")
	}
}
