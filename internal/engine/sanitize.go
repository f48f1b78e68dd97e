// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

package engine

import (
	"strings"

	"github.com/tomtom215/logbook/internal/models"
)

// Sanitize returns a copy of data with every key removed for which any
// sensitive field is a case-insensitive substring of the key. Values pass
// through unchanged; there is no recursion into nested maps, so nested
// sensitive keys are not redacted. The input is never mutated.
//
// A nil input returns nil, distinguishing "no data supplied" from an empty
// mapping: an empty non-nil input returns an empty non-nil mapping.
func Sanitize(sensitiveFields []string, data models.Fields) models.Fields {
	if data == nil {
		return nil
	}
	out := make(models.Fields, len(data))
	for k, v := range data {
		if isSensitiveKey(sensitiveFields, k) {
			continue
		}
		out[k] = v
	}
	return out
}

// SanitizeAny applies the sanitization contract to untyped data arriving at
// a process boundary (the log-sink receiver): nil stays nil, a key/value
// mapping is sanitized, and any other shape (string, number, bool, slice)
// collapses to an empty mapping.
func SanitizeAny(sensitiveFields []string, data interface{}) models.Fields {
	if data == nil {
		return nil
	}
	switch m := data.(type) {
	case models.Fields:
		return Sanitize(sensitiveFields, m)
	case map[string]interface{}:
		return Sanitize(sensitiveFields, models.Fields(m))
	default:
		return models.Fields{}
	}
}

// isSensitiveKey reports whether any sensitive field matches key as a
// case-insensitive substring.
func isSensitiveKey(sensitiveFields []string, key string) bool {
	lowerKey := strings.ToLower(key)
	for _, field := range sensitiveFields {
		if field == "" {
			continue
		}
		if strings.Contains(lowerKey, strings.ToLower(field)) {
			return true
		}
	}
	return false
}
