// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

// Compile-time checks: the step union is exactly these three shapes.
var (
	_ Step = (*Record)(nil)
	_ Step = (*TraceStep)(nil)
	_ Step = (*ExecutionStep)(nil)
)

func TestStepKinds(t *testing.T) {
	tests := []struct {
		step Step
		want StepKind
	}{
		{&Record{}, StepKindLog},
		{&TraceStep{}, StepKindTrace},
		{&ExecutionStep{}, StepKindExecution},
	}
	for _, tt := range tests {
		if got := tt.step.Kind(); got != tt.want {
			t.Errorf("Kind() = %q, want %q", got, tt.want)
		}
	}
}

func TestLevelValid(t *testing.T) {
	for _, l := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		if !l.Valid() {
			t.Errorf("Level %q should be valid", l)
		}
	}
	for _, l := range []Level{"", "fatal", "INFO"} {
		if Level(l).Valid() {
			t.Errorf("Level %q should be invalid", l)
		}
	}
}

func TestFieldsClone(t *testing.T) {
	var nilFields Fields
	if nilFields.Clone() != nil {
		t.Error("Clone of nil Fields should be nil")
	}

	orig := Fields{"a": 1}
	clone := orig.Clone()
	clone["b"] = 2
	if _, ok := orig["b"]; ok {
		t.Error("Clone should not share storage with the original")
	}
}

func TestRecordJSONShape(t *testing.T) {
	rec := &Record{
		Level:     LevelInfo,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Message:   "hello",
		Context:   Fields{"a": 1},
	}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(data)

	for _, want := range []string{`"level":"info"`, `"message":"hello"`, `"context":{"a":1}`, `"timestamp":"2026-01-02T03:04:05Z"`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s missing %s", s, want)
		}
	}
	// Unset metadata must be omitted, not encoded as null.
	if strings.Contains(s, "metadata") {
		t.Errorf("JSON %s should omit empty metadata", s)
	}
}

func TestExecutionStepJSONShape(t *testing.T) {
	end := int64(2000)
	dur := int64(1000)
	step := &ExecutionStep{
		StepID:    "s1",
		StepName:  "Step One",
		StartTime: 1000,
		EndTime:   &end,
		Duration:  &dur,
		Status:    StepCompleted,
	}
	data, err := json.Marshal(step)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"stepId":"s1"`, `"stepName":"Step One"`, `"startTime":1000`, `"endTime":2000`, `"duration":1000`, `"status":"completed"`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s missing %s", s, want)
		}
	}
}
