// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package rest

import (
	"net/http"
	"regexp"
	"time"

	"github.com/netascode/go-tiklink"
)

// Transport configuration options using the functional options pattern

// Username sets the username for HTTP basic authentication
func Username(username string) func(*Transport) {
	return func(t *Transport) {
		t.username = username
	}
}

// Password sets the password for HTTP basic authentication
func Password(password string) func(*Transport) {
	return func(t *Transport) {
		t.password = password
	}
}

// VerifyCertificate enables or disables TLS certificate verification (default: true)
//
// WARNING: Disabling certificate verification makes the connection vulnerable
// to Man-in-the-Middle attacks. Only use this in testing environments.
// Has no effect when WithHTTPClient is used.
func VerifyCertificate(verify bool) func(*Transport) {
	return func(t *Transport) {
		t.VerifyCertificate = verify
	}
}

// OperationTimeout sets the timeout of a single HTTP exchange when the
// context carries no deadline (default: 15s)
func OperationTimeout(duration time.Duration) func(*Transport) {
	return func(t *Transport) {
		t.OperationTimeout = duration
	}
}

// MaxRetries sets the maximum number of retry attempts for print commands (default: 3)
func MaxRetries(retries int) func(*Transport) {
	return func(t *Transport) {
		t.MaxRetries = retries
	}
}

// BackoffMinDelay sets the minimum backoff delay (default: 1s)
func BackoffMinDelay(duration time.Duration) func(*Transport) {
	return func(t *Transport) {
		t.BackoffMinDelay = duration
	}
}

// BackoffMaxDelay sets the maximum backoff delay (default: 60s)
func BackoffMaxDelay(duration time.Duration) func(*Transport) {
	return func(t *Transport) {
		t.BackoffMaxDelay = duration
	}
}

// BackoffDelayFactor sets the backoff multiplication factor (default: 2.0)
func BackoffDelayFactor(factor float64) func(*Transport) {
	return func(t *Transport) {
		t.BackoffDelayFactor = factor
	}
}

// WithLogger configures a logger for the transport
//
// Request and response bodies are logged at Debug level with sensitive
// members redacted.
func WithLogger(logger tiklink.Logger) func(*Transport) {
	return func(t *Transport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithPrettyPrintLogs enables indented JSON in debug logs (default: false)
func WithPrettyPrintLogs(enabled bool) func(*Transport) {
	return func(t *Transport) {
		t.prettyPrintLogs = enabled
	}
}

// WithRedactionPattern adds a pattern whose matches are redacted in debug
// logs. The pattern must capture the member name in its first group, e.g.
// `"(pre-shared-key)"\s*:\s*"[^"]*"`.
func WithRedactionPattern(pattern *regexp.Regexp) func(*Transport) {
	return func(t *Transport) {
		if pattern != nil {
			t.redactionPatterns = append(t.redactionPatterns, pattern)
		}
	}
}

// WithHTTPClient replaces the HTTP client, e.g. to configure proxies or
// client certificates
func WithHTTPClient(client *http.Client) func(*Transport) {
	return func(t *Transport) {
		if client != nil {
			t.httpClient = client
		}
	}
}
