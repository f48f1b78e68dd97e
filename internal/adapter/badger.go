// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

package adapter

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/logbook/internal/models"
)

// recordKeyPrefix namespaces log records in the store.
const recordKeyPrefix = "log:"

// Badger stores log records in a BadgerDB database. Keys are
// "log:<fixed-width UTC timestamp>:<uuid>", so a prefix scan returns
// records in time order; values are the JSON-encoded record.
type Badger struct {
	db *badger.DB
}

// NewBadger opens (or creates) a BadgerDB store at dir.
func NewBadger(dir string) (*Badger, error) {
	opts := badger.DefaultOptions(dir)
	// Badger's own chatter does not belong on the host's log streams.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store %s: %w", dir, err)
	}
	return &Badger{db: db}, nil
}

// Name implements the engine adapter contract.
func (a *Badger) Name() string { return "badger" }

// Write persists rec under a fresh time-ordered key.
func (a *Badger) Write(rec *models.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	// Fixed-width fractional seconds keep lexicographic key order equal to
	// chronological order.
	key := fmt.Sprintf("%s%s:%s", recordKeyPrefix, rec.Timestamp.UTC().Format("2006-01-02T15:04:05.000000000Z"), uuid.NewString())
	err = a.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("store record: %w", err)
	}
	return nil
}

// Records returns up to limit stored records in time order (oldest first).
// A non-positive limit returns everything.
func (a *Badger) Records(limit int) ([]*models.Record, error) {
	var out []*models.Record
	err := a.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(recordKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(out) >= limit {
				break
			}
			err := it.Item().Value(func(val []byte) error {
				rec := &models.Record{}
				if err := json.Unmarshal(val, rec); err != nil {
					return fmt.Errorf("decode record %s: %w", it.Item().Key(), err)
				}
				out = append(out, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close closes the underlying database.
func (a *Badger) Close() error {
	return a.db.Close()
}
