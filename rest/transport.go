// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package rest implements a tiklink.Transport over the device's REST API.
//
// Every command is sent as POST {base}/rest{path}/{command} with a JSON
// body. Only print commands are retried on transient failures; add, set and
// remove are sent once.
//
// Example:
//
//	transport, err := rest.NewTransport("https://192.168.88.1",
//	    rest.Username("admin"),
//	    rest.Password("secret"),
//	    rest.VerifyCertificate(false))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	link, err := tiklink.NewLink(transport)
package rest

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/netascode/go-tiklink"
	"github.com/netascode/go-tiklink/internal/backoff"
	"github.com/tidwall/pretty"
)

// Default transport configuration values
const (
	DefaultOperationTimeout   = 15 * time.Second
	DefaultMaxRetries         = backoff.DefaultMaxRetries
	DefaultBackoffMinDelay    = backoff.DefaultMinDelay
	DefaultBackoffMaxDelay    = backoff.DefaultMaxDelay
	DefaultBackoffDelayFactor = backoff.DefaultDelayFactor
	DefaultVerifyCertificate  = true
)

// Security limits for response processing and logging
const (
	MaxResponseSize       = 32 * 1024 * 1024 // 32MB
	MaxJSONSizeForLogging = 1 * 1024 * 1024  // 1MB limit to prevent ReDoS attacks
)

// JSONTooLargeMessage replaces bodies too large to be logged
const JSONTooLargeMessage = "[JSON TOO LARGE FOR LOGGING]"

// defaultRedactionPattern matches sensitive members in JSON bodies
var defaultRedactionPattern = regexp.MustCompile(
	`"([^"]*(?:password|secret|passphrase|community|token|auth|key)[^"]*)"\s*:\s*"[^"]*"`)

// retryStatus lists the HTTP status codes retried for print commands
var retryStatus = map[int]bool{
	http.StatusTooManyRequests:    true,
	http.StatusBadGateway:         true,
	http.StatusServiceUnavailable: true,
	http.StatusGatewayTimeout:     true,
}

// StatusError is returned when the device answers with an HTTP status that
// does not describe a rejected command (5xx, 429, 408)
type StatusError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("rest: HTTP %d: %s", e.StatusCode, e.Message)
}

// Transport sends commands to the REST API of a device
type Transport struct {
	// BaseURL is the device URL without the /rest prefix
	BaseURL string

	username string // unexported for security
	password string // unexported for security

	VerifyCertificate bool
	OperationTimeout  time.Duration

	// Retry configuration
	MaxRetries         int
	BackoffMinDelay    time.Duration
	BackoffMaxDelay    time.Duration
	BackoffDelayFactor float64

	httpClient        *http.Client
	logger            tiklink.Logger
	prettyPrintLogs   bool
	redactionPatterns []*regexp.Regexp
}

// NewTransport creates a REST transport for the device at baseURL (e.g.
// "https://192.168.88.1"). No request is sent until the first Call.
func NewTransport(baseURL string, opts ...func(*Transport)) (*Transport, error) {
	t := &Transport{
		BaseURL:            strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		VerifyCertificate:  DefaultVerifyCertificate,
		OperationTimeout:   DefaultOperationTimeout,
		MaxRetries:         DefaultMaxRetries,
		BackoffMinDelay:    DefaultBackoffMinDelay,
		BackoffMaxDelay:    DefaultBackoffMaxDelay,
		BackoffDelayFactor: DefaultBackoffDelayFactor,
		logger:             &tiklink.NoOpLogger{},
		redactionPatterns:  []*regexp.Regexp{defaultRedactionPattern},
	}

	for _, opt := range opts {
		opt(t)
	}

	if err := t.validateConfig(); err != nil {
		return nil, err
	}

	if t.httpClient == nil {
		t.httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					//nolint:gosec // G402: opt-in via VerifyCertificate(false)
					InsecureSkipVerify: !t.VerifyCertificate,
					MinVersion:         tls.VersionTLS12,
				},
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	t.logger.Info(context.Background(), "REST transport created",
		"url", t.BaseURL)

	return t, nil
}

// HasCredentials reports whether a username was configured
func (t *Transport) HasCredentials() bool {
	return t.username != ""
}

// Close releases idle HTTP connections. The transport stays usable.
func (t *Transport) Close() error {
	t.httpClient.CloseIdleConnections()
	return nil
}

// validateConfig validates the transport configuration
func (t *Transport) validateConfig() error {
	if t.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	u, err := url.Parse(t.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL scheme must be http or https, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL must include a host")
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

	if u.Scheme == "http" {
		t.logger.Warn(context.Background(), "TLS disabled - connection is not encrypted",
			"url", t.BaseURL,
			"security_risk", "Credentials and data transmitted in clear text",
			"recommendation", "Use https for production use")
	} else if !t.VerifyCertificate {
		t.logger.Warn(context.Background(), "TLS certificate verification disabled",
			"url", t.BaseURL,
			"security_risk", "Man-in-the-Middle attacks possible",
			"recommendation", "Use only in testing environments")
	}

	if !t.HasCredentials() {
		t.logger.Warn(context.Background(), "No credentials configured",
			"url", t.BaseURL,
			"message", "device may reject requests")
	}

	return nil
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

// commandName maps a verb to the REST command segment
func commandName(verb tiklink.Verb) string {
	if verb == tiklink.VerbUpdate {
		return "set"
	}
	return string(verb)
}

// endpoint returns the URL a command is posted to
func (t *Transport) endpoint(cmd *tiklink.Command) string {
	return t.BaseURL + "/rest" + cmd.Path + "/" + commandName(cmd.Verb)
}

// Call sends cmd and decodes the response.
//
// 4xx answers other than 408 and 429 are device rejections and come back
// as a Result with Trap set. Print commands are retried on network timeouts,
// refused connections and 408/429/502/503/504.
func (t *Transport) Call(ctx context.Context, cmd *tiklink.Command) (*tiklink.Result, error) {
	if cmd == nil {
		return nil, errors.New("rest: nil command")
	}
	if !strings.HasPrefix(cmd.Path, "/") {
		return nil, fmt.Errorf("rest: invalid command path %q", cmd.Path)
	}

	body, err := commandBody(cmd)
	if err != nil {
		return nil, fmt.Errorf("rest: %w", err)
	}

	endpoint := t.endpoint(cmd)
	retries := 0
	if cmd.Verb == tiklink.VerbPrint {
		retries = t.MaxRetries
	}

	t.logger.Debug(ctx, "REST request",
		"url", endpoint,
		"body", t.prepareJSONForLogging(string(body)))

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		status, respBody, err := t.do(ctx, endpoint, body)
		switch {
		case err != nil:
			lastErr = err
			if !isTransientNetError(err) {
				return nil, fmt.Errorf("rest: %w", err)
			}
		case status >= 200 && status < 300:
			t.logger.Debug(ctx, "REST response",
				"url", endpoint,
				"status", status,
				"body", t.prepareJSONForLogging(string(respBody)))
			res, err := decodeResult(respBody)
			if err != nil {
				return nil, fmt.Errorf("rest: %w", err)
			}
			return res, nil
		case status == http.StatusRequestTimeout || retryStatus[status]:
			lastErr = &StatusError{StatusCode: status, Message: decodeTrap(status, respBody)["message"]}
		case status >= 400 && status < 500:
			trap := decodeTrap(status, respBody)
			t.logger.Debug(ctx, "REST command rejected",
				"url", endpoint,
				"status", status,
				"message", trap["message"])
			return &tiklink.Result{Trap: trap}, nil
		default:
			return nil, &StatusError{StatusCode: status, Message: decodeTrap(status, respBody)["message"]}
		}

		if attempt == retries {
			break
		}

		delay := t.Backoff(attempt)
		t.logger.Warn(ctx, "transient error, retrying",
			"operation", cmd.Word(),
			"attempt", attempt+1,
			"max_retries", retries,
			"backoff", delay,
			"error", lastErr.Error())
		if err := backoff.Sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("rest: context canceled during backoff: %w", err)
		}
	}

	t.logger.Error(ctx, "REST request failed",
		"url", endpoint,
		"error", lastErr.Error())

	var statusErr *StatusError
	if errors.As(lastErr, &statusErr) {
		return nil, statusErr
	}
	return nil, fmt.Errorf("rest: %w", lastErr)
}

// do performs a single HTTP exchange
func (t *Transport) do(ctx context.Context, endpoint string, body []byte) (int, []byte, error) {
	attemptCtx, cancel := t.createAttemptContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if t.username != "" {
		req.SetBasicAuth(t.username, t.password)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return 0, nil, err
	}
	if len(respBody) > MaxResponseSize {
		return 0, nil, fmt.Errorf("response exceeds %d bytes", MaxResponseSize)
	}
	return resp.StatusCode, respBody, nil
}

// createAttemptContext bounds one attempt by the context deadline or, when
// there is none, by OperationTimeout
func (t *Transport) createAttemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, t.OperationTimeout)
}

// isTransientNetError reports network failures worth retrying
func isTransientNetError(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET)
}

// prepareJSONForLogging redacts sensitive members and optionally
// pretty-prints the body
func (t *Transport) prepareJSONForLogging(jsonStr string) string {
	if len(jsonStr) > MaxJSONSizeForLogging {
		return JSONTooLargeMessage
	}

	redacted := jsonStr
	for _, pattern := range t.redactionPatterns {
		redacted = pattern.ReplaceAllString(redacted, `"$1":"[REDACTED]"`)
	}

	if t.prettyPrintLogs {
		return string(pretty.Pretty([]byte(redacted)))
	}
	return redacted
}
