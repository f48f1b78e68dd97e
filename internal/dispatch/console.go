// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

package dispatch

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/tomtom215/logbook/internal/models"
)

// Console writes log records to a zerolog logger. Each engine instance owns
// its own Console; there is no process-global logger state.
type Console struct {
	logger zerolog.Logger
}

// NewConsole creates a console dispatcher writing to out in the given
// format ("json" or "console"). JSON is the production-friendly default;
// console format is human-readable for development.
func NewConsole(format string, out io.Writer) *Console {
	var w io.Writer = out
	if format == "console" {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
			NoColor:    false,
		}
	}
	return &Console{
		logger: zerolog.New(w).With().Timestamp().Logger(),
	}
}

// Logger returns the underlying zerolog logger, for callers that need to
// emit lines outside the record path (e.g. the engine's init line).
func (c *Console) Logger() zerolog.Logger {
	return c.logger
}

// Write emits a record at its mapped level with context and metadata as
// separate structured fields.
func (c *Console) Write(rec *models.Record) {
	e := c.event(rec.Level)
	if rec.Context != nil {
		e = e.Interface("context", rec.Context)
	}
	if rec.Metadata != nil {
		e = e.Interface("metadata", rec.Metadata)
	}
	e.Msg(rec.Message)
}

// event maps a record level to a zerolog event.
// debug->Debug, info->Info, warn->Warn, error->Error.
func (c *Console) event(level models.Level) *zerolog.Event {
	switch level {
	case models.LevelDebug:
		return c.logger.Debug()
	case models.LevelWarn:
		return c.logger.Warn()
	case models.LevelError:
		return c.logger.Error()
	default:
		return c.logger.Info()
	}
}
