// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package tiklink

import "strings"

// Link configuration options using the functional options pattern

// WithLogger configures a custom logger for the link
//
// By default, the link uses NoOpLogger which discards all log messages.
// Attribute values whose names look sensitive are masked in debug logs,
// see WithRedactedAttributes.
//
// Example:
//
//	logger := tiklink.NewDefaultLogger(tiklink.LogLevelDebug)
//	link, _ := tiklink.NewLink(transport, tiklink.WithLogger(logger))
func WithLogger(logger Logger) func(*Link) {
	return func(l *Link) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMetrics records command counts and durations in m
func WithMetrics(m *Metrics) func(*Link) {
	return func(l *Link) {
		l.metrics = m
	}
}

// WithRedactedAttributes adds attribute name fragments whose values are
// masked in debug logs. Matching is case-insensitive on substrings; the
// defaults (password, secret, key, token, community, passphrase) stay in
// effect.
func WithRedactedAttributes(fragments ...string) func(*Link) {
	return func(l *Link) {
		merged := make([]string, 0, len(l.redacted)+len(fragments))
		merged = append(merged, l.redacted...)
		for _, f := range fragments {
			if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
				merged = append(merged, f)
			}
		}
		l.redacted = merged
	}
}
