// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package gnmi

import (
	"regexp"
	"time"

	"github.com/netascode/go-tiklink"
)

// Transport configuration options using the functional options pattern

// Username sets the username for gNMI authentication
func Username(username string) func(*Transport) {
	return func(t *Transport) {
		t.username = username
	}
}

// Password sets the password for gNMI authentication
func Password(password string) func(*Transport) {
	return func(t *Transport) {
		t.password = password
	}
}

// TLSCert sets the TLS certificate file path for authentication
//
// The file must exist when the transport is created; it is loaded when the
// connection is established.
func TLSCert(certPath string) func(*Transport) {
	return func(t *Transport) {
		t.tlsCert = certPath
	}
}

// TLSKey sets the TLS private key file path for authentication
func TLSKey(keyPath string) func(*Transport) {
	return func(t *Transport) {
		t.tlsKey = keyPath
	}
}

// TLSCA sets the TLS CA certificate file path for server verification
func TLSCA(caPath string) func(*Transport) {
	return func(t *Transport) {
		t.tlsCA = caPath
	}
}

// Port sets the gNMI port (default: 57400)
func Port(port int) func(*Transport) {
	return func(t *Transport) {
		t.Port = port
	}
}

// TLS enables or disables TLS (default: true)
//
// WARNING: Disabling TLS sends credentials and configuration in clear text.
// Only use this in isolated lab environments.
func TLS(enabled bool) func(*Transport) {
	return func(t *Transport) {
		t.UseTLS = enabled
	}
}

// VerifyCertificate enables or disables TLS certificate verification (default: true)
//
// Example:
//
//	transport, _ := gnmi.NewTransport("192.168.88.1",
//	    gnmi.Username("admin"),
//	    gnmi.Password("secret"),
//	    gnmi.VerifyCertificate(false))  // Insecure, use only for testing
func VerifyCertificate(verify bool) func(*Transport) {
	return func(t *Transport) {
		t.VerifyCertificate = verify
	}
}

// ConnectTimeout sets the connection timeout (default: 30s)
func ConnectTimeout(duration time.Duration) func(*Transport) {
	return func(t *Transport) {
		t.ConnectTimeout = duration
	}
}

// OperationTimeout sets the per-attempt timeout (default: 15s)
func OperationTimeout(duration time.Duration) func(*Transport) {
	return func(t *Transport) {
		t.OperationTimeout = duration
	}
}

// MaxRetries sets the maximum number of retries of a print command (default: 3)
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

// BackoffDelayFactor sets the exponential backoff multiplier (default: 2)
func BackoffDelayFactor(factor float64) func(*Transport) {
	return func(t *Transport) {
		t.BackoffDelayFactor = factor
	}
}

// Encoding sets the JSON encoding of Get and Set payloads (default: json_ietf)
func Encoding(encoding string) func(*Transport) {
	return func(t *Transport) {
		t.Encoding = encoding
	}
}

// WithLogger configures the logger of the transport
//
// By default, the transport discards all log messages. A nil logger is
// ignored.
func WithLogger(logger tiklink.Logger) func(*Transport) {
	return func(t *Transport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithPrettyPrintLogs enables or disables indentation of JSON payloads in
// debug logs (default: true)
func WithPrettyPrintLogs(enabled bool) func(*Transport) {
	return func(t *Transport) {
		t.prettyPrintLogs = enabled
	}
}

// WithRedactionPattern adds a pattern whose first group names a JSON member
// to be masked in debug logs
func WithRedactionPattern(pattern *regexp.Regexp) func(*Transport) {
	return func(t *Transport) {
		if pattern != nil {
			t.redactionPatterns = append(t.redactionPatterns, pattern)
		}
	}
}
