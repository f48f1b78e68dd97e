// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

package engine

import "github.com/tomtom215/logbook/internal/models"

// recordBuffer is a fixed-capacity FIFO ring over log records. On overflow
// the oldest record is dropped, one slot per insert. There is no blocking
// and no backpressure: fullness never delays a log call.
//
// Not safe for concurrent use; the engine's mutex guards it.
type recordBuffer struct {
	max   int
	items []*models.Record
	head  int // index of the oldest record
	size  int
}

func newRecordBuffer(max int) *recordBuffer {
	return &recordBuffer{
		max:   max,
		items: make([]*models.Record, max),
	}
}

// Append inserts rec, evicting the oldest record when full. Returns true
// when an eviction occurred.
func (b *recordBuffer) Append(rec *models.Record) bool {
	if b.size < b.max {
		b.items[(b.head+b.size)%b.max] = rec
		b.size++
		return false
	}
	b.items[b.head] = rec
	b.head = (b.head + 1) % b.max
	return true
}

// Snapshot returns the buffered records in insertion order. The returned
// slice is a copy; callers cannot corrupt the capacity invariant through it.
func (b *recordBuffer) Snapshot() []*models.Record {
	out := make([]*models.Record, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.items[(b.head+i)%b.max]
	}
	return out
}

// Len returns the number of buffered records.
func (b *recordBuffer) Len() int { return b.size }

// Clear drops all buffered records.
func (b *recordBuffer) Clear() {
	for i := range b.items {
		b.items[i] = nil
	}
	b.head = 0
	b.size = 0
}
