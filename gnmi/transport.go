// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package gnmi implements a tiklink.Transport over gNMI, using the gnmic
// API for request building and connection handling.
//
// Commands map onto gNMI RPCs as follows:
//
//	print   Get of the menu path, predicates and projection applied locally
//	add     Set update of the menu path
//	update  Set update of path[.id=<id>]
//	remove  Set delete of path[.id=<id>]
//
// The connection is established lazily on the first command. Only print
// commands are retried; Set requests are serialized and sent once.
//
// Example:
//
//	transport, err := gnmi.NewTransport("192.168.88.1",
//	    gnmi.Username("admin"),
//	    gnmi.Password("secret"),
//	    gnmi.VerifyCertificate(false))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	link, err := tiklink.NewLink(transport)
//	defer link.Close()
package gnmi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/netascode/go-tiklink"
	"github.com/netascode/go-tiklink/internal/backoff"
	"github.com/netascode/go-tiklink/internal/wire"
	gnmipb "github.com/openconfig/gnmi/proto/gnmi"
	"github.com/openconfig/gnmic/pkg/api"
	target "github.com/openconfig/gnmic/pkg/api/target"
	"github.com/tidwall/pretty"
)

// Default transport configuration values
const (
	DefaultPort               = 57400
	DefaultMaxRetries         = backoff.DefaultMaxRetries
	DefaultBackoffMinDelay    = backoff.DefaultMinDelay
	DefaultBackoffMaxDelay    = backoff.DefaultMaxDelay
	DefaultBackoffDelayFactor = backoff.DefaultDelayFactor
	DefaultConnectTimeout     = 30 * time.Second
	DefaultOperationTimeout   = 15 * time.Second
	DefaultUseTLS             = true
	DefaultVerifyCertificate  = true
	DefaultPrettyPrintLogs    = true
	DefaultEncoding           = EncodingJSONIETF
)

// Security limits for JSON logging
const (
	MaxJSONSizeForLogging = 1 * 1024 * 1024 // 1MB limit to prevent ReDoS attacks
)

// JSONTooLargeMessage replaces payloads too large to be logged
const JSONTooLargeMessage = "[JSON TOO LARGE FOR LOGGING]"

// defaultRedactionPattern matches sensitive members in JSON payloads
var defaultRedactionPattern = regexp.MustCompile(
	`"([^"]*(?:password|secret|passphrase|community|token|auth|key)[^"]*)"\s*:\s*"[^"]*"`)

// session is the part of a connected gnmic target used by the transport
type session interface {
	Get(ctx context.Context, req *gnmipb.GetRequest) (*gnmipb.GetResponse, error)
	Set(ctx context.Context, req *gnmipb.SetRequest) (*gnmipb.SetResponse, error)
	Capabilities(ctx context.Context) (*gnmipb.CapabilityResponse, error)
	Close() error
}

// targetSession adapts a gnmic target to session
type targetSession struct {
	target *target.Target
}

func (s *targetSession) Get(ctx context.Context, req *gnmipb.GetRequest) (*gnmipb.GetResponse, error) {
	return s.target.Get(ctx, req)
}

func (s *targetSession) Set(ctx context.Context, req *gnmipb.SetRequest) (*gnmipb.SetResponse, error) {
	return s.target.Set(ctx, req)
}

func (s *targetSession) Capabilities(ctx context.Context) (*gnmipb.CapabilityResponse, error) {
	return s.target.Capabilities(ctx)
}

func (s *targetSession) Close() error {
	return s.target.Close()
}

// CapabilitiesRes describes what the gNMI server supports
type CapabilitiesRes struct {
	// Version is the gNMI service version
	Version string

	// Encodings lists the supported payload encodings
	Encodings []string

	// Models lists the names of the supported data models
	Models []string
}

// Transport sends commands to a device over gNMI
type Transport struct {
	// mu guards sess, closed and capabilities
	mu           sync.RWMutex
	sess         session
	closed       bool
	capabilities []string

	// setMu serializes Set requests
	setMu sync.Mutex

	// dial establishes a new session
	dial func(ctx context.Context) (session, error)

	// Connection parameters
	Target   string
	Port     int
	username string // unexported for security
	password string // unexported for security

	// TLS configuration
	tlsCert string // unexported for security
	tlsKey  string // unexported for security
	tlsCA   string // unexported for security

	UseTLS            bool
	VerifyCertificate bool

	// Timeout configuration
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration

	// Retry configuration
	MaxRetries         int
	BackoffMinDelay    time.Duration
	BackoffMaxDelay    time.Duration
	BackoffDelayFactor float64

	// Encoding of Get and Set payloads
	Encoding string

	logger            tiklink.Logger
	prettyPrintLogs   bool
	redactionPatterns []*regexp.Regexp
}

// NewTransport creates a gNMI transport for the device at address ("host"
// or "host:port").
//
// No connection is established until the first command, Ping or
// Capabilities call.
func NewTransport(address string, opts ...func(*Transport)) (*Transport, error) {
	t := &Transport{
		Target:             strings.TrimSpace(address),
		Port:               DefaultPort,
		UseTLS:             DefaultUseTLS,
		VerifyCertificate:  DefaultVerifyCertificate,
		ConnectTimeout:     DefaultConnectTimeout,
		OperationTimeout:   DefaultOperationTimeout,
		MaxRetries:         DefaultMaxRetries,
		BackoffMinDelay:    DefaultBackoffMinDelay,
		BackoffMaxDelay:    DefaultBackoffMaxDelay,
		BackoffDelayFactor: DefaultBackoffDelayFactor,
		Encoding:           DefaultEncoding,
		logger:             &tiklink.NoOpLogger{},
		prettyPrintLogs:    DefaultPrettyPrintLogs,
		redactionPatterns:  []*regexp.Regexp{defaultRedactionPattern},
	}

	for _, opt := range opts {
		opt(t)
	}

	if err := t.validateConfig(); err != nil {
		return nil, err
	}

	// Build the target once to surface configuration errors early
	if _, err := t.createTarget(); err != nil {
		return nil, err
	}
	t.dial = t.dialTarget

	t.logger.Info(context.Background(), "gNMI transport created",
		"target", t.Target,
		"port", t.Port,
		"connection", "lazy")

	return t, nil
}

// validateConfig validates the transport configuration
func (t *Transport) validateConfig() error {
	if t.Target == "" {
		return fmt.Errorf("target address cannot be empty")
	}
	if t.Port < 1 || t.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", t.Port)
	}
	if t.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive, got: %v", t.ConnectTimeout)
	}
	if t.OperationTimeout <= 0 {
		return fmt.Errorf("operation timeout must be positive, got: %v", t.OperationTimeout)
	}
	if t.MaxRetries < 0 {
		return fmt.Errorf("max retries must be non-negative, got: %d", t.MaxRetries)
	}
	if err := t.policy().Validate(); err != nil {
		return err
	}
	if err := ValidateEncoding(t.Encoding); err != nil {
		return err
	}

	if !t.UseTLS {
		t.logger.Warn(context.Background(), "TLS disabled - connection is not encrypted",
			"target", t.Target,
			"security_risk", "Credentials and data transmitted in clear text",
			"recommendation", "Enable TLS for production use")
	} else if !t.VerifyCertificate {
		t.logger.Warn(context.Background(), "TLS certificate verification disabled",
			"target", t.Target,
			"security_risk", "Man-in-the-Middle attacks possible",
			"recommendation", "Use only in testing environments")
	}

	for _, f := range []struct{ kind, path string }{
		{"certificate", t.tlsCert},
		{"key", t.tlsKey},
		{"CA", t.tlsCA},
	} {
		if f.path == "" {
			continue
		}
		if _, err := os.Stat(f.path); err != nil {
			t.logger.Debug(context.Background(), "TLS file validation failed",
				"path", f.path,
				"error", err.Error())
			// Only the file name, the full path stays in debug logs
			return fmt.Errorf("TLS %s file not found: %s", f.kind, filepath.Base(f.path))
		}
	}

	if !t.HasCredentials() {
		t.logger.Warn(context.Background(), "No credentials configured",
			"target", t.Target,
			"message", "device may reject connection")
	}

	return nil
}

// HasCredentials reports whether a username, password or client
// certificate is configured
func (t *Transport) HasCredentials() bool {
	return t.username != "" || t.password != "" || t.tlsCert != ""
}

func (t *Transport) policy() backoff.Policy {
	return backoff.Policy{
		MinDelay: t.BackoffMinDelay,
		MaxDelay: t.BackoffMaxDelay,
		Factor:   t.BackoffDelayFactor,
	}
}

// Backoff returns the delay before retry attempt (0-indexed)
func (t *Transport) Backoff(attempt int) time.Duration {
	delay, secure := t.policy().Delay(attempt)
	if !secure {
		t.logger.Warn(context.Background(), "crypto/rand failed, using timestamp-based jitter",
			"attempt", attempt)
	}
	return delay
}

// address returns host:port of the target
func (t *Transport) address() string {
	if strings.Contains(t.Target, ":") {
		return t.Target
	}
	return fmt.Sprintf("%s:%d", t.Target, t.Port)
}

// createTarget builds a gnmic target without connecting
func (t *Transport) createTarget() (*target.Target, error) {
	targetOpts := []api.TargetOption{
		api.Name(t.Target),
		api.Address(t.address()),
		api.Timeout(t.ConnectTimeout),
	}

	if t.username != "" {
		targetOpts = append(targetOpts, api.Username(t.username))
	}
	if t.password != "" {
		targetOpts = append(targetOpts, api.Password(t.password))
	}
	if t.tlsCert != "" {
		targetOpts = append(targetOpts, api.TLSCert(t.tlsCert))
	}
	if t.tlsKey != "" {
		targetOpts = append(targetOpts, api.TLSKey(t.tlsKey))
	}
	if t.tlsCA != "" {
		targetOpts = append(targetOpts, api.TLSCA(t.tlsCA))
	}
	targetOpts = append(targetOpts,
		api.Insecure(!t.UseTLS),
		api.SkipVerify(!t.VerifyCertificate))

	tg, err := api.NewTarget(targetOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gnmic target: %w", err)
	}
	return tg, nil
}

// dialTarget creates a target and establishes its gRPC connection
func (t *Transport) dialTarget(ctx context.Context) (session, error) {
	tg, err := t.createTarget()
	if err != nil {
		return nil, err
	}
	if err := tg.CreateGNMIClient(ctx); err != nil {
		return nil, fmt.Errorf("failed to establish connection: %w", err)
	}
	return &targetSession{target: tg}, nil
}

// session returns the current session, connecting first if needed
func (t *Transport) session(ctx context.Context) (session, error) {
	t.mu.RLock()
	s, closed := t.sess, t.closed
	t.mu.RUnlock()
	if closed {
		return nil, errors.New("transport closed")
	}
	if s != nil {
		return s, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, errors.New("transport closed")
	}
	if t.sess != nil {
		return t.sess, nil
	}

	t.logger.Debug(ctx, "Establishing gNMI connection",
		"target", t.Target,
		"port", t.Port)

	s, err := t.dial(ctx)
	if err != nil {
		return nil, err
	}
	t.sess = s

	t.logger.Info(ctx, "gNMI connection established",
		"target", t.Target)
	return s, nil
}

// drop discards a broken session so the next command reconnects. It is a
// no-op when another caller already replaced it.
func (t *Transport) drop(ctx context.Context, broken session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sess != broken {
		return
	}
	t.logger.Warn(ctx, "gNMI connection dropped",
		"target", t.Target,
		"reason", "transport error")
	_ = broken.Close() //nolint:errcheck // connection is already broken
	t.sess = nil
}

// reconnect replaces a broken session with a new one
func (t *Transport) reconnect(ctx context.Context, broken session) error {
	t.drop(ctx, broken)
	if _, err := t.session(ctx); err != nil {
		t.logger.Error(ctx, "gNMI reconnection failed",
			"target", t.Target,
			"error", err.Error())
		return err
	}
	return nil
}

// Disconnect closes the connection but keeps the transport usable; the next
// command reconnects.
func (t *Transport) Disconnect() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sess == nil {
		return nil
	}
	if err := t.sess.Close(); err != nil {
		t.logger.Warn(context.Background(), "gNMI connection close returned error during disconnect",
			"target", t.Target,
			"error", err.Error())
	}
	t.sess = nil

	t.logger.Info(context.Background(), "gNMI connection disconnected",
		"target", t.Target,
		"reusable", true)
	return nil
}

// Close closes the connection. The transport cannot be used afterwards;
// calling Close again is a no-op.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	if t.sess == nil {
		return nil
	}
	s := t.sess
	t.sess = nil
	if err := s.Close(); err != nil {
		return err
	}

	t.logger.Info(context.Background(), "gNMI connection closed",
		"target", t.Target,
		"reusable", false)
	return nil
}

// Capabilities performs a gNMI Capabilities RPC and remembers the supported
// encodings for HasCapability
func (t *Transport) Capabilities(ctx context.Context) (CapabilitiesRes, error) {
	if err := ctx.Err(); err != nil {
		return CapabilitiesRes{}, err
	}
	s, err := t.session(ctx)
	if err != nil {
		return CapabilitiesRes{}, fmt.Errorf("gnmi: %w", err)
	}

	attemptCtx, cancel := t.createAttemptContext(ctx)
	defer cancel()

	resp, err := s.Capabilities(attemptCtx)
	if err != nil {
		t.logger.Error(ctx, "gNMI Capabilities failed",
			"target", t.Target,
			"error", err.Error())
		if isTransportError(err) {
			t.drop(ctx, s)
		}
		return CapabilitiesRes{}, fmt.Errorf("gnmi: capabilities request failed: %w", err)
	}

	res := CapabilitiesRes{Version: resp.GetGNMIVersion()}
	for _, enc := range resp.GetSupportedEncodings() {
		res.Encodings = append(res.Encodings, strings.ToLower(enc.String()))
	}
	for _, m := range resp.GetSupportedModels() {
		res.Models = append(res.Models, m.GetName())
	}

	t.mu.Lock()
	t.capabilities = append([]string(nil), res.Encodings...)
	t.mu.Unlock()

	t.logger.Debug(ctx, "gNMI Capabilities response",
		"version", res.Version,
		"encodings", len(res.Encodings),
		"models", len(res.Models))
	return res, nil
}

// Ping verifies connectivity with a Capabilities RPC
func (t *Transport) Ping(ctx context.Context) error {
	_, err := t.Capabilities(ctx)
	return err
}

// HasCapability reports whether the last Capabilities call listed encoding
func (t *Transport) HasCapability(encoding string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, c := range t.capabilities {
		if c == encoding {
			return true
		}
	}
	return false
}

// ServerCapabilities returns a copy of the encodings reported by the last
// Capabilities call
func (t *Transport) ServerCapabilities() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.capabilities...)
}

// Call sends cmd as a gNMI Get or Set.
//
// Status codes by which the device rejects a request (InvalidArgument,
// NotFound, AlreadyExists, FailedPrecondition, PermissionDenied, OutOfRange,
// Unimplemented, Unauthenticated) come back as a Result with Trap set.
// Verbs without a gNMI equivalent fail with ErrNotSupported.
func (t *Transport) Call(ctx context.Context, cmd *tiklink.Command) (*tiklink.Result, error) {
	if cmd == nil {
		return nil, errors.New("gnmi: nil command")
	}
	if !isValidPath(cmd.Path) {
		return nil, fmt.Errorf("gnmi: invalid command path %q", cmd.Path)
	}

	switch cmd.Verb {
	case tiklink.VerbPrint:
		return t.get(ctx, cmd)
	case tiklink.VerbAdd:
		doc, err := wire.Object(cmd.Attributes)
		if err != nil {
			return nil, fmt.Errorf("gnmi: %w", err)
		}
		return t.set(ctx, cmd, doc, api.Update(api.Path(cmd.Path), api.Value(doc, t.Encoding)))
	case tiklink.VerbUpdate:
		id, ok := cmd.Attributes.Get(tiklink.IDAttribute)
		if !ok || id == "" {
			return nil, fmt.Errorf("gnmi: %s without %s", cmd.Word(), tiklink.IDAttribute)
		}
		attrs := cmd.Attributes.Clone()
		delete(attrs, tiklink.IDAttribute)
		doc, err := wire.Object(attrs)
		if err != nil {
			return nil, fmt.Errorf("gnmi: %w", err)
		}
		return t.set(ctx, cmd, doc, api.Update(api.Path(recordPath(cmd.Path, id)), api.Value(doc, t.Encoding)))
	case tiklink.VerbRemove:
		id, ok := cmd.Attributes.Get(tiklink.IDAttribute)
		if !ok || id == "" {
			return nil, fmt.Errorf("gnmi: %s without %s", cmd.Word(), tiklink.IDAttribute)
		}
		return t.set(ctx, cmd, "", api.Delete(recordPath(cmd.Path, id)))
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotSupported, cmd.Word())
	}
}

// get executes a print command, retrying transient failures
func (t *Transport) get(ctx context.Context, cmd *tiklink.Command) (*tiklink.Result, error) {
	getReq, err := api.NewGetRequest(
		api.Encoding(t.Encoding),
		api.Path(cmd.Path))
	if err != nil {
		return nil, fmt.Errorf("gnmi: failed to create get request: %w", err)
	}

	t.logger.Debug(ctx, "gNMI Get request",
		"target", t.Target,
		"path", cmd.Path,
		"encoding", t.Encoding)

	var lastErr error
	for attempt := 0; attempt <= t.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s, err := t.session(ctx)
		if err != nil {
			return nil, fmt.Errorf("gnmi: %w", err)
		}

		attemptCtx, cancel := t.createAttemptContext(ctx)
		resp, err := s.Get(attemptCtx, getReq)
		cancel()

		if err == nil {
			records, err := decodeNotifications(resp.GetNotification())
			if err != nil {
				return nil, fmt.Errorf("gnmi: %w", err)
			}
			sentences, err := selectRecords(records, cmd)
			if err != nil {
				return nil, fmt.Errorf("gnmi: %w", err)
			}
			t.logger.Debug(ctx, "gNMI Get response",
				"target", t.Target,
				"notifications", len(resp.GetNotification()),
				"records", len(records),
				"selected", len(sentences))
			return &tiklink.Result{Sentences: sentences}, nil
		}

		if trap := rejection(err); trap != nil {
			return &tiklink.Result{Trap: trap}, nil
		}

		lastErr = err
		if !isTransient(err) || attempt == t.MaxRetries {
			break
		}

		if isTransportError(err) {
			if rerr := t.reconnect(ctx, s); rerr != nil {
				return nil, fmt.Errorf("gnmi: reconnection failed: %w", rerr)
			}
		}

		delay := t.Backoff(attempt)
		t.logger.Warn(ctx, "transient error, retrying",
			"operation", cmd.Word(),
			"attempt", attempt+1,
			"max_retries", t.MaxRetries,
			"backoff", delay,
			"error", err.Error())
		if err := backoff.Sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("gnmi: context canceled during backoff: %w", err)
		}
	}

	t.logger.Error(ctx, "gNMI Get failed",
		"target", t.Target,
		"error", lastErr.Error())
	return nil, fmt.Errorf("gnmi: get request failed: %w", lastErr)
}

// set executes a write command once. A transport failure drops the session
// so the next command reconnects.
func (t *Transport) set(ctx context.Context, cmd *tiklink.Command, doc string, op api.GNMIOption) (*tiklink.Result, error) {
	setReq, err := api.NewSetRequest(op)
	if err != nil {
		return nil, fmt.Errorf("gnmi: failed to create set request: %w", err)
	}

	t.setMu.Lock()
	defer t.setMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s, err := t.session(ctx)
	if err != nil {
		return nil, fmt.Errorf("gnmi: %w", err)
	}

	t.logger.Debug(ctx, "gNMI Set request",
		"target", t.Target,
		"command", cmd.Word(),
		"value", t.prepareJSONForLogging(doc))

	attemptCtx, cancel := t.createAttemptContext(ctx)
	defer cancel()

	resp, err := s.Set(attemptCtx, setReq)
	if err != nil {
		if trap := rejection(err); trap != nil {
			return &tiklink.Result{Trap: trap}, nil
		}
		if isTransportError(err) {
			t.drop(ctx, s)
		}
		t.logger.Error(ctx, "gNMI Set failed",
			"target", t.Target,
			"error", err.Error())
		return nil, fmt.Errorf("gnmi: set request failed: %w", err)
	}

	t.logger.Debug(ctx, "gNMI Set response",
		"target", t.Target,
		"results", len(resp.GetResponse()))
	return &tiklink.Result{}, nil
}

// createAttemptContext bounds one attempt by the context deadline or, when
// there is none, by OperationTimeout
func (t *Transport) createAttemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, t.OperationTimeout)
}

// prepareJSONForLogging redacts sensitive members and optionally
// pretty-prints the payload
func (t *Transport) prepareJSONForLogging(jsonStr string) string {
	if len(jsonStr) > MaxJSONSizeForLogging {
		return JSONTooLargeMessage
	}

	redacted := jsonStr
	for _, pattern := range t.redactionPatterns {
		redacted = pattern.ReplaceAllString(redacted, `"$1":"[REDACTED]"`)
	}

	if t.prettyPrintLogs && redacted != "" {
		return string(pretty.Pretty([]byte(redacted)))
	}
	return redacted
}
