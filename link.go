// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package tiklink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Transport executes one command against the device.
//
// A returned error means the exchange itself failed (network, protocol,
// cancellation). A Result with a non-nil Trap means the device rejected the
// command. Implementations must be safe for concurrent use; retry policy, if
// any, belongs to the implementation.
type Transport interface {
	Call(ctx context.Context, cmd *Command) (*Result, error)
}

// TransportFunc adapts a function to the Transport interface
type TransportFunc func(ctx context.Context, cmd *Command) (*Result, error)

// Call invokes f
func (f TransportFunc) Call(ctx context.Context, cmd *Command) (*Result, error) {
	return f(ctx, cmd)
}

// defaultRedactedAttributes are attribute name fragments whose values are
// masked in debug logs
var defaultRedactedAttributes = []string{
	"password", "secret", "key", "token", "community", "passphrase",
}

// RedactedValue replaces sensitive attribute values in logs
const RedactedValue = "[REDACTED]"

// Link binds the record engine to a Transport.
//
// A Link holds no mutable state after construction and is safe for
// concurrent use when its Transport is.
type Link struct {
	transport Transport
	logger    Logger
	metrics   *Metrics
	redacted  []string
}

// NewLink creates a Link over the given transport
//
// Example:
//
//	transport, err := rest.NewTransport("https://192.168.88.1",
//	    rest.Username("admin"),
//	    rest.Password("secret"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	link, err := tiklink.NewLink(transport,
//	    tiklink.WithLogger(tiklink.NewDefaultLogger(tiklink.LogLevelInfo)))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer link.Close()
func NewLink(transport Transport, opts ...func(*Link)) (*Link, error) {
	if transport == nil {
		return nil, errors.New("transport cannot be nil")
	}

	link := &Link{
		transport: transport,
		logger:    &NoOpLogger{},
		redacted:  defaultRedactedAttributes,
	}

	for _, opt := range opts {
		opt(link)
	}

	return link, nil
}

// Logger returns the configured logger
func (l *Link) Logger() Logger {
	return l.logger
}

// Transport returns the underlying transport
func (l *Link) Transport() Transport {
	return l.transport
}

// Call sends one command through the transport.
//
// Transport failures are returned wrapped with the command word. Device
// rejections are returned as *CallError together with the Result.
func (l *Link) Call(ctx context.Context, cmd *Command) (*Result, error) {
	if err := checkContextCancellation(ctx); err != nil {
		return nil, err
	}

	l.logger.Debug(ctx, "Sending command",
		"command", cmd.Word(),
		"attributes", l.redact(cmd.Attributes).String(),
		"queries", strings.Join(cmd.Queries, " "),
		"proplist", strings.Join(cmd.Properties, ","))

	start := time.Now()
	res, err := l.transport.Call(ctx, cmd)
	elapsed := time.Since(start)

	if err != nil {
		l.metrics.observeCommand(cmd, OutcomeTransport, elapsed)
		l.logger.Error(ctx, "Command failed",
			"command", cmd.Word(),
			"error", err.Error(),
			"duration", elapsed)
		return nil, fmt.Errorf("%s: %w", cmd.Word(), err)
	}
	if res == nil {
		res = &Result{}
	}

	if res.IsError() {
		l.metrics.observeCommand(cmd, OutcomeTrap, elapsed)
		callErr := newCallError(cmd, res)
		l.logger.Debug(ctx, "Command rejected by device",
			"command", cmd.Word(),
			"message", callErr.Message,
			"duration", elapsed)
		return res, callErr
	}

	l.metrics.observeCommand(cmd, OutcomeOK, elapsed)
	l.logger.Debug(ctx, "Command completed",
		"command", cmd.Word(),
		"sentences", len(res.Sentences),
		"duration", elapsed)
	return res, nil
}

// Close closes the transport when it implements io.Closer
func (l *Link) Close() error {
	if closer, ok := l.transport.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// redact masks the values of sensitive attributes
func (l *Link) redact(attrs AttributeSet) AttributeSet {
	if len(attrs) == 0 {
		return attrs
	}
	out := attrs.Clone()
	for name := range out {
		lower := strings.ToLower(name)
		for _, fragment := range l.redacted {
			if strings.Contains(lower, fragment) {
				out[name] = RedactedValue
				break
			}
		}
	}
	return out
}

// checkContextCancellation returns the context error if ctx is done
func checkContextCancellation(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
