// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package tiklink

import (
	"errors"
	"fmt"
	"strconv"
	"testing"
)

// TestErrorMessages tests the error strings of the typed errors
func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{
			&InvalidArgumentError{Operation: "add", Path: "/ip/arp", Reason: "record is nil"},
			"tiklink: add /ip/arp: invalid argument: record is nil",
		},
		{
			&UnknownPropertyError{Path: "/ip/arp", Name: "bogus"},
			`tiklink: /ip/arp: unknown property "bogus"`,
		},
		{
			&NotFoundError{Path: "/ip/arp", ID: "*1"},
			`tiklink: /ip/arp: no record with id "*1"`,
		},
		{
			&AmbiguousResultError{Path: "/ip/arp", ID: "*1", Count: 2},
			`tiklink: /ip/arp: 2 records with id "*1"`,
		},
		{
			&ReadbackAmbiguousError{Path: "/ip/arp"},
			"tiklink: /ip/arp: readback found no new identifier",
		},
		{
			&ReadbackAmbiguousError{Path: "/ip/arp", Candidates: []string{"*4", "*5"}},
			"tiklink: /ip/arp: readback found 2 new identifiers (*4, *5)",
		},
		{
			&CallError{Operation: "/ip/arp/add", Message: "failure: already have such entry"},
			"tiklink: /ip/arp/add failed: failure: already have such entry",
		},
		{
			&DecodeError{Path: "/ip/arp", Wire: "disabled", Value: "maybe", Err: errors.New("invalid boolean")},
			`tiklink: /ip/arp: cannot decode disabled="maybe": invalid boolean`,
		},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%T", tt.err), func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestErrorMatching tests errors.Is against the sentinels, also when wrapped
func TestErrorMatching(t *testing.T) {
	sentinels := []error{
		ErrInvalidArgument, ErrUnknownProperty, ErrNotFound, ErrAmbiguousResult,
		ErrReadbackAmbiguous, ErrCall, ErrDecode,
	}
	tests := []struct {
		err     error
		matches []error
	}{
		{&InvalidArgumentError{}, []error{ErrInvalidArgument}},
		{&UnknownPropertyError{}, []error{ErrUnknownProperty, ErrInvalidArgument}},
		{&NotFoundError{}, []error{ErrNotFound}},
		{&AmbiguousResultError{}, []error{ErrAmbiguousResult}},
		{&ReadbackAmbiguousError{}, []error{ErrReadbackAmbiguous}},
		{&CallError{}, []error{ErrCall}},
		{&DecodeError{Err: errors.New("x")}, []error{ErrDecode}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%T", tt.err), func(t *testing.T) {
			wrapped := fmt.Errorf("context: %w", tt.err)
			for _, sentinel := range sentinels {
				want := false
				for _, m := range tt.matches {
					if m == sentinel {
						want = true
					}
				}
				if got := errors.Is(wrapped, sentinel); got != want {
					t.Errorf("errors.Is(%v) = %v, want %v", sentinel, got, want)
				}
			}
		})
	}
}

// TestDecodeError_Unwrap tests access to the codec error
func TestDecodeError_Unwrap(t *testing.T) {
	_, cause := strconv.Atoi("x")
	err := error(&DecodeError{Path: "/ip/arp", Wire: "mtu", Value: "x", Err: cause})

	var numErr *strconv.NumError
	if !errors.As(err, &numErr) {
		t.Errorf("errors.As(*strconv.NumError) failed for %v", err)
	}
}

// TestNewCallError tests conversion of error results
func TestNewCallError(t *testing.T) {
	cmd := &Command{Path: "/ip/arp", Verb: VerbUpdate}
	res := &Result{Trap: AttributeSet{"message": "no such item", "category": "1"}}

	err := newCallError(cmd, res)
	if err.Operation != "/ip/arp/update" || err.Path != "/ip/arp" || err.Message != "no such item" {
		t.Errorf("newCallError() = %+v", err)
	}

	res.Trap["category"] = "2"
	if err.Attributes["category"] != "1" {
		t.Error("Attributes must be a copy of the trap")
	}
}
