// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package gnmi

import (
	"errors"
	"strconv"

	"github.com/netascode/go-tiklink"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// TransientErrors lists the gRPC status codes that make a print command
// eligible for retry.
//
// codes.Internal is not listed: it covers permanent failures as often as
// temporary ones.
var TransientErrors = []codes.Code{
	// Service temporarily unavailable
	codes.Unavailable,

	// Rate limiting or quota exceeded
	codes.ResourceExhausted,

	// Timeout or deadline exceeded
	codes.DeadlineExceeded,

	// Transaction aborted, may succeed on retry
	codes.Aborted,
}

// rejectionCodes are status codes by which the device rejects a command.
// They are reported as traps rather than transport errors.
var rejectionCodes = map[codes.Code]bool{
	codes.InvalidArgument:    true,
	codes.NotFound:           true,
	codes.AlreadyExists:      true,
	codes.FailedPrecondition: true,
	codes.PermissionDenied:   true,
	codes.OutOfRange:         true,
	codes.Unimplemented:      true,
	codes.Unauthenticated:    true,
}

// ErrNotSupported is returned for verbs that have no gNMI equivalent
var ErrNotSupported = errors.New("gnmi: command not supported")

// isTransient reports whether err carries a transient status code
func isTransient(err error) bool {
	st, ok := status.FromError(err)
	if !ok {
		return false
	}
	for _, code := range TransientErrors {
		if st.Code() == code {
			return true
		}
	}
	return false
}

// isTransportError reports whether err means the connection is unusable and
// must be re-established
func isTransportError(err error) bool {
	st, ok := status.FromError(err)
	if !ok {
		return false
	}
	return st.Code() == codes.Unavailable || st.Code() == codes.DeadlineExceeded
}

// rejection converts a device rejection into the error sentence of a trap.
// It returns nil when err is not a rejection.
func rejection(err error) tiklink.AttributeSet {
	st, ok := status.FromError(err)
	if !ok || !rejectionCodes[st.Code()] {
		return nil
	}
	msg := st.Message()
	if msg == "" {
		msg = st.Code().String()
	}
	return tiklink.AttributeSet{
		"message":  msg,
		"category": st.Code().String(),
		"code":     strconv.FormatUint(uint64(st.Code()), 10),
	}
}
