// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package tiklink

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is
var (
	// ErrInvalidArgument marks precondition violations detected before any
	// remote call
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownProperty marks a property name that resolves to no field.
	// Errors matching it also match ErrInvalidArgument.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrNotFound marks a Get that returned no record
	ErrNotFound = errors.New("record not found")

	// ErrAmbiguousResult marks a Get that returned more than one record
	ErrAmbiguousResult = errors.New("ambiguous result")

	// ErrReadbackAmbiguous marks an Add whose new identifier could not be
	// determined. The record may still have been created.
	ErrReadbackAmbiguous = errors.New("readback ambiguous")

	// ErrCall marks a command rejected by the device
	ErrCall = errors.New("remote call failed")

	// ErrDecode marks an attribute value that could not be decoded
	ErrDecode = errors.New("attribute decode failed")
)

// InvalidArgumentError is returned when an operation is called with
// arguments that violate its preconditions
type InvalidArgumentError struct {
	// Operation name (e.g. "add")
	Operation string

	// Path of the record type
	Path string

	// Reason describes the violated precondition
	Reason string
}

// Error implements the error interface
func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("tiklink: %s %s: invalid argument: %s", e.Operation, e.Path, e.Reason)
}

// Is matches ErrInvalidArgument
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// UnknownPropertyError is returned when a property name matches neither a
// field name nor a wire name of the record type
type UnknownPropertyError struct {
	Path string
	Name string
}

// Error implements the error interface
func (e *UnknownPropertyError) Error() string {
	return fmt.Sprintf("tiklink: %s: unknown property %q", e.Path, e.Name)
}

// Is matches ErrUnknownProperty and ErrInvalidArgument
func (e *UnknownPropertyError) Is(target error) bool {
	return target == ErrUnknownProperty || target == ErrInvalidArgument
}

// NotFoundError is returned when Get finds no record with the identifier
type NotFoundError struct {
	Path string
	ID   string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tiklink: %s: no record with id %q", e.Path, e.ID)
}

// Is matches ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AmbiguousResultError is returned when Get finds more than one record for
// an identifier
type AmbiguousResultError struct {
	Path  string
	ID    string
	Count int
}

// Error implements the error interface
func (e *AmbiguousResultError) Error() string {
	return fmt.Sprintf("tiklink: %s: %d records with id %q", e.Path, e.Count, e.ID)
}

// Is matches ErrAmbiguousResult
func (e *AmbiguousResultError) Is(target error) bool {
	return target == ErrAmbiguousResult
}

// ReadbackAmbiguousError is returned by Add with readback when the
// identifier set grew by zero or several identifiers.
//
// The add command itself succeeded; the caller decides whether to look for
// the record among Candidates or to treat the create as unknown.
type ReadbackAmbiguousError struct {
	Path string

	// Candidates holds the identifiers that appeared during the add, in
	// device order
	Candidates []string
}

// Error implements the error interface
func (e *ReadbackAmbiguousError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("tiklink: %s: readback found no new identifier", e.Path)
	}
	return fmt.Sprintf("tiklink: %s: readback found %d new identifiers (%s)",
		e.Path, len(e.Candidates), strings.Join(e.Candidates, ", "))
}

// Is matches ErrReadbackAmbiguous
func (e *ReadbackAmbiguousError) Is(target error) bool {
	return target == ErrReadbackAmbiguous
}

// CallError is returned when the device rejects a command. Message is the
// device supplied text, unchanged.
type CallError struct {
	// Operation is the command word (e.g. "/ip/arp/add")
	Operation string

	// Path of the record type
	Path string

	// Message is the remote diagnostic
	Message string

	// Attributes holds every attribute of the error sentence
	Attributes AttributeSet
}

// Error implements the error interface
func (e *CallError) Error() string {
	return fmt.Sprintf("tiklink: %s failed: %s", e.Operation, e.Message)
}

// Is matches ErrCall
func (e *CallError) Is(target error) bool {
	return target == ErrCall
}

// newCallError converts an error result into a CallError
func newCallError(cmd *Command, res *Result) *CallError {
	msg, ok := res.TrapMessage()
	if !ok {
		msg = "unknown error"
	}
	return &CallError{
		Operation:  cmd.Word(),
		Path:       cmd.Path,
		Message:    msg,
		Attributes: res.Trap.Clone(),
	}
}

// DecodeError is returned when a wire value cannot be converted to the
// field's type
type DecodeError struct {
	Path  string
	Wire  string
	Value string
	Err   error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	return fmt.Sprintf("tiklink: %s: cannot decode %s=%q: %v", e.Path, e.Wire, e.Value, e.Err)
}

// Unwrap returns the codec error
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is matches ErrDecode
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}
