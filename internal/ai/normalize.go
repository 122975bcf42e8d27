// Package ai provides the AI validation client interface and implementations.
package ai

import "strings"

// unknownConfidence is substituted when the model omits the confidence
// field entirely.
const unknownConfidence = 0.5

// NormalizeConfidence clamps an untrusted confidence value into [0, 1].
// A nil value means the model did not report one; the schema midpoint is
// returned. Never fails.
func NormalizeConfidence(v *float64) float64 {
	if v == nil {
		return unknownConfidence
	}
	if *v < 0 {
		return 0
	}
	if *v > 1 {
		return 1
	}
	return *v
}

// coerceStringList converts a loosely decoded JSON array into a list of
// non-empty strings. Non-string elements and blank strings are dropped so
// a result never carries an empty entry.
func coerceStringList(items []interface{}) []string {
	out := []string{}
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
