// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

package engine

import (
	"errors"
	"fmt"

	"github.com/tomtom215/logbook/internal/models"
)

// StartStep appends a started execution step to the current session and
// echoes an info line through the general log path. No-op when no current
// session exists. Start does not check the session type; only the
// complete/fail lookups are gated to execution sessions.
//
// The stored step's metadata is sanitized; the echoed log line receives
// the raw metadata. Callers see the difference when a sensitive key is
// present. Preserved behavior.
func (e *Engine) StartStep(stepID, stepName string, metadata models.Fields) {
	step := &models.ExecutionStep{
		StepID:    stepID,
		StepName:  stepName,
		StartTime: nowMillis(),
		Status:    models.StepStarted,
		Metadata:  Sanitize(e.cfg.SensitiveFields, metadata),
	}

	e.mu.Lock()
	cur := e.currentLocked()
	if cur == nil {
		e.mu.Unlock()
		return
	}
	cur.Steps = append(cur.Steps, step)
	e.mu.Unlock()

	e.log(models.LevelInfo, "⏱️ Starting: "+stepName, nil, metadata)
}

// CompleteStep transitions the identified step to completed, stamping its
// end time and duration, and shallow-merges sanitized metadata into the
// step's existing metadata (new keys win). No-op when there is no current
// execution session or the step id is not found.
//
// There is no double-call guard: completing the same id twice re-stamps
// the end time and emits a second log line.
func (e *Engine) CompleteStep(stepID string, metadata models.Fields) {
	now := nowMillis()

	e.mu.Lock()
	step := e.execStepLocked(stepID)
	if step == nil {
		e.mu.Unlock()
		return
	}
	step.EndTime = &now
	duration := now - step.StartTime
	step.Duration = &duration
	step.Status = models.StepCompleted
	if metadata != nil {
		if step.Metadata == nil {
			step.Metadata = models.Fields{}
		}
		for k, v := range Sanitize(e.cfg.SensitiveFields, metadata) {
			step.Metadata[k] = v
		}
	}
	stepName := step.StepName
	e.mu.Unlock()

	e.log(models.LevelInfo, fmt.Sprintf("✅ Completed: %s (%dms)", stepName, duration), nil, nil)
}

// FailStep transitions the identified step to failed, recording the error
// string, and echoes an error-level log line. No-op when there is no
// current execution session or the step id is not found; a never-started
// id produces no log line at all.
func (e *Engine) FailStep(stepID, errMsg string) {
	now := nowMillis()

	e.mu.Lock()
	step := e.execStepLocked(stepID)
	if step == nil {
		e.mu.Unlock()
		return
	}
	step.EndTime = &now
	duration := now - step.StartTime
	step.Duration = &duration
	step.Status = models.StepFailed
	step.Error = errMsg
	stepName := step.StepName
	e.mu.Unlock()

	e.Error("❌ Failed: "+stepName, errors.New(errMsg), nil, nil)
}

// execStepLocked finds an execution step in the current session by id,
// gated to execution-type sessions: lookups in a session of any other type
// are silent no-ops even when a start call placed an execution step there.
// Must be called with e.mu held.
func (e *Engine) execStepLocked(stepID string) *models.ExecutionStep {
	cur := e.currentLocked()
	if cur == nil || cur.Type != models.SessionExecution {
		return nil
	}
	return findExecutionStep(cur, stepID)
}
