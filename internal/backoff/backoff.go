// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package backoff computes retry delays for the transports.
package backoff

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// Default retry configuration values
const (
	DefaultMaxRetries  = 3
	DefaultMinDelay    = 1 * time.Second
	DefaultMaxDelay    = 60 * time.Second
	DefaultDelayFactor = 2
)

// Policy describes an exponential backoff
type Policy struct {
	MinDelay time.Duration
	MaxDelay time.Duration
	Factor   float64
}

// Default returns the default policy
func Default() Policy {
	return Policy{
		MinDelay: DefaultMinDelay,
		MaxDelay: DefaultMaxDelay,
		Factor:   DefaultDelayFactor,
	}
}

// Validate checks the policy parameters
func (p Policy) Validate() error {
	if p.MinDelay <= 0 {
		return fmt.Errorf("backoff min delay must be positive, got: %v", p.MinDelay)
	}
	if p.MaxDelay <= p.MinDelay {
		return fmt.Errorf("backoff max delay (%v) must be greater than min delay (%v)",
			p.MaxDelay, p.MinDelay)
	}
	if p.Factor < 1.0 {
		return fmt.Errorf("backoff delay factor must be >= 1.0, got: %f", p.Factor)
	}
	return nil
}

// Delay returns the wait before retry attempt (0-indexed):
// min(MinDelay * Factor^attempt, MaxDelay) plus up to 10% jitter.
//
// Jitter comes from crypto/rand; if that fails a timestamp is used instead
// and the second return value is false.
func (p Policy) Delay(attempt int) (time.Duration, bool) {
	delay := float64(p.MinDelay) * math.Pow(p.Factor, float64(attempt))
	if math.IsInf(delay, 1) || delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}

	secure := true
	jitterMax := int64(delay * 0.1)
	if jitterMax > 0 {
		var jitterBytes [8]byte
		var jitter int64
		if _, err := rand.Read(jitterBytes[:]); err == nil {
			//nolint:gosec // G115: masked to a non-negative int64
			jitter = int64(binary.BigEndian.Uint64(jitterBytes[:])&0x7FFFFFFFFFFFFFFF) % jitterMax
		} else {
			secure = false
			timestamp := time.Now().UnixNano()
			jitter = (timestamp%jitterMax + jitterMax) % jitterMax
		}
		delay += float64(jitter)
	}

	return time.Duration(delay), secure
}

// Budget returns the worst-case total of the delays for retries attempts,
// jitter included
func (p Policy) Budget(retries int) time.Duration {
	var total time.Duration
	for attempt := 0; attempt <= retries; attempt++ {
		d := float64(p.MinDelay) * math.Pow(p.Factor, float64(attempt))
		if math.IsInf(d, 1) || d > float64(p.MaxDelay) {
			d = float64(p.MaxDelay)
		}
		td := time.Duration(d)
		total += td + td/10
	}
	return total
}

// Sleep waits for d or until ctx is done, returning the context error in the
// latter case
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
