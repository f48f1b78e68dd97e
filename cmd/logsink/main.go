// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

// Package main is the log-sink receiver: the HTTP endpoint the engine's
// route dispatch posts to. It accepts JSON log records, echoes them through
// zerolog, optionally persists them via the file and badger adapters, and
// exposes Prometheus metrics.
//
// Configuration (environment variables):
//   - LOGSINK_PORT: listen port (default 3000)
//   - LOGSINK_FILE: append records to this JSON-lines file (optional)
//   - LOGSINK_BADGER_DIR: persist records to a BadgerDB store (optional)
//   - LOGSINK_SENSITIVE_FIELDS: comma-separated redaction list applied to
//     incoming record context/metadata before echo and persistence
//
// Endpoints:
//   - POST /api/v1/logs: ingest a record (rate limited per IP)
//   - GET  /api/v1/health/live: liveness probe
//   - GET  /metrics: Prometheus metrics
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/logbook/internal/adapter"
	"github.com/tomtom215/logbook/internal/engine"
	"github.com/tomtom215/logbook/internal/models"
)

// sinkAdapter is the subset of the engine adapter contract the sink uses.
type sinkAdapter interface {
	Name() string
	Write(rec *models.Record) error
	Close() error
}

type sink struct {
	logger          zerolog.Logger
	adapters        []sinkAdapter
	sensitiveFields []string
}

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("component", "logsink").Logger()

	s := &sink{
		logger:          logger,
		sensitiveFields: splitList(os.Getenv("LOGSINK_SENSITIVE_FIELDS")),
	}

	if path := os.Getenv("LOGSINK_FILE"); path != "" {
		a, err := adapter.NewFile(path)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot open log file")
		}
		s.adapters = append(s.adapters, a)
	}
	if dir := os.Getenv("LOGSINK_BADGER_DIR"); dir != "" {
		a, err := adapter.NewBadger(dir)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot open badger store")
		}
		s.adapters = append(s.adapters, a)
	}

	port := 3000
	if v := os.Getenv("LOGSINK_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n < 65536 {
			port = n
		}
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Int("port", port).Int("adapters", len(s.adapters)).Msg("log sink listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown incomplete")
	}
	for _, a := range s.adapters {
		if err := a.Close(); err != nil {
			logger.Error().Err(err).Str("adapter", a.Name()).Msg("adapter close failed")
		}
	}
}

// router assembles the chi route tree.
func (s *sink) router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(httprate.LimitByIP(600, time.Minute)).Post("/logs", s.handleIngest)
		r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	return r
}

// handleIngest decodes one log record, sanitizes its payloads, echoes it,
// and fans it out to the configured adapters. Adapter failures do not fail
// the ingest; the engine side treats delivery as best-effort either way.
func (s *sink) handleIngest(w http.ResponseWriter, r *http.Request) {
	var rec models.Record
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&rec); err != nil {
		http.Error(w, "invalid record", http.StatusBadRequest)
		return
	}
	if !rec.Level.Valid() {
		http.Error(w, "invalid level", http.StatusBadRequest)
		return
	}

	rec.Context = engine.SanitizeAny(s.sensitiveFields, rec.Context)
	rec.Metadata = engine.SanitizeAny(s.sensitiveFields, rec.Metadata)

	ingestID := uuid.NewString()
	s.echo(&rec, ingestID)

	for _, a := range s.adapters {
		if err := a.Write(&rec); err != nil {
			s.logger.Warn().Err(err).Str("adapter", a.Name()).Str("ingest_id", ingestID).Msg("persist failed")
		}
	}

	w.WriteHeader(http.StatusAccepted)
}

// echo re-emits the received record at its own level.
func (s *sink) echo(rec *models.Record, ingestID string) {
	var e *zerolog.Event
	switch rec.Level {
	case models.LevelDebug:
		e = s.logger.Debug()
	case models.LevelWarn:
		e = s.logger.Warn()
	case models.LevelError:
		e = s.logger.Error()
	default:
		e = s.logger.Info()
	}
	e = e.Str("ingest_id", ingestID).Time("record_time", rec.Timestamp)
	if rec.Context != nil {
		e = e.Interface("context", rec.Context)
	}
	if rec.Metadata != nil {
		e = e.Interface("metadata", rec.Metadata)
	}
	e.Msg(rec.Message)
}

// splitList parses a comma-separated list, trimming whitespace and dropping
// empty entries.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
