// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

package engine

import (
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/tomtom215/logbook/internal/models"
)

// emojiRanges is the single code-point range set used for leading-emoji
// extraction: Miscellaneous Technical (stopwatch etc.), Miscellaneous
// Symbols and Dingbats (check mark, cross mark), and the supplementary
// symbol planes.
var emojiRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2300, Hi: 0x23FF, Stride: 1},
		{Lo: 0x2600, Hi: 0x27BF, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1F300, Hi: 0x1FAFF, Stride: 1},
	},
}

// leadingEmoji returns the first character of message when it is an emoji,
// else empty string. Only the leading position is examined; the rest of the
// string is never scanned.
func leadingEmoji(message string) string {
	r, size := utf8.DecodeRuneInString(message)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	if unicode.Is(emojiRanges, r) {
		return string(r)
	}
	return ""
}

// AddTraceStep appends a trace step to the current session. No-op unless a
// current session exists and its type is exactly trace. The step's emoji is
// derived from the leading character of message; metadata is sanitized.
// The step is echoed to the console dispatcher so trace-heavy flows stay
// readable during development; the echo never enters the log buffer.
func (e *Engine) AddTraceStep(level models.TraceLevel, message string, metadata models.Fields) {
	e.addTraceStep(level, message, nil, metadata)
}

// addTraceStep is AddTraceStep with an optional pre-computed duration.
func (e *Engine) addTraceStep(level models.TraceLevel, message string, duration *int64, metadata models.Fields) {
	step := &models.TraceStep{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
		Duration:  duration,
		Emoji:     leadingEmoji(message),
		Metadata:  Sanitize(e.cfg.SensitiveFields, metadata),
	}

	e.mu.Lock()
	cur := e.currentLocked()
	if cur == nil || cur.Type != models.SessionTrace {
		e.mu.Unlock()
		return
	}
	cur.Steps = append(cur.Steps, step)
	e.mu.Unlock()

	if e.console != nil {
		logger := e.console.Logger()
		logger.Info().
			Str("trace_level", string(level)).
			Msg(message)
	}
}

// StartTraceStep records the start time for stepName in the engine's timer
// table and emits a start-level trace step. The stopwatch prefix keeps a
// two-character gap because the glyph renders double-width in most
// terminals.
func (e *Engine) StartTraceStep(stepName, message string, metadata models.Fields) {
	e.mu.Lock()
	e.recordTraceStartLocked(stepName, nowMillis())
	e.mu.Unlock()

	e.addTraceStep(models.TraceStart, "⏱️  "+message, nil, metadata)
}

// CompleteTraceStep computes the elapsed time for stepName and emits a
// complete-level trace step. A step name that was never started (or whose
// timer was evicted) is treated as zero-duration rather than an error. The
// timer entry is removed afterwards, so reusing the name starts fresh.
//
// The computed duration is placed in the step metadata first and caller
// metadata is merged after it, so a caller-supplied "duration" key wins
// over the computed value. Preserved behavior; see the package tests.
func (e *Engine) CompleteTraceStep(stepName, message string, metadata models.Fields) {
	now := nowMillis()

	e.mu.Lock()
	var duration int64
	if start, ok := e.traceStarts[stepName]; ok {
		duration = now - start
		e.dropTraceStartLocked(stepName)
	}
	e.mu.Unlock()

	if message == "" {
		message = stepName
	}

	md := models.Fields{"duration": duration}
	for k, v := range metadata {
		md[k] = v
	}

	e.addTraceStep(
		models.TraceComplete,
		fmt.Sprintf("✅ %s completed in %dms", message, duration),
		&duration,
		md,
	)
}

// LogCustom emits an info-level trace step with a caller-chosen emoji
// prefix. The emoji field of the step is re-derived from the constructed
// message by the usual leading-character extraction.
func (e *Engine) LogCustom(emoji, message string, metadata models.Fields) {
	e.addTraceStep(models.TraceInfo, emoji+" "+message, nil, metadata)
}

// recordTraceStartLocked inserts a timer entry, evicting the oldest entry
// when the table is at capacity. The table is bounded by MaxLogs so
// abandoned start calls cannot grow it without limit. Must be called with
// e.mu held.
func (e *Engine) recordTraceStartLocked(stepName string, start int64) {
	if _, exists := e.traceStarts[stepName]; !exists {
		for len(e.traceStarts) >= e.cfg.MaxLogs && len(e.traceOrder) > 0 {
			oldest := e.traceOrder[0]
			e.traceOrder = e.traceOrder[1:]
			delete(e.traceStarts, oldest)
		}
		e.traceOrder = append(e.traceOrder, stepName)
	}
	e.traceStarts[stepName] = start
}

// dropTraceStartLocked removes a timer entry and its order slot. Must be
// called with e.mu held.
func (e *Engine) dropTraceStartLocked(stepName string) {
	delete(e.traceStarts, stepName)
	for i, name := range e.traceOrder {
		if name == stepName {
			e.traceOrder = append(e.traceOrder[:i], e.traceOrder[i+1:]...)
			break
		}
	}
}
