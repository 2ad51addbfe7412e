// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package tiklink

import (
	"fmt"
	"strings"
	"time"
)

// Field binds one record field to its wire attribute.
//
// Fields are built with the typed constructors (String, Bool, Int, Duration,
// OptionalDuration, OptionalBool, StringList) or with NewField for a custom
// Codec.
type Field[R any] struct {
	// Name is the Go field name (e.g. "MacAddress")
	Name string

	// Wire is the attribute name used by the device (e.g. "mac-address")
	Wire string

	// ReadOnly fields are decoded from the device but never written
	ReadOnly bool

	encode func(r *R) (string, bool)
	decode func(r *R, s string) error
}

// FieldInfo describes a field without its accessors
type FieldInfo struct {
	Name     string
	Wire     string
	ReadOnly bool
}

// NewField builds a field from a codec and an accessor returning the address
// of the field inside the record.
func NewField[R, T any](name, wire string, codec Codec[T], at func(*R) *T) Field[R] {
	return Field[R]{
		Name: name,
		Wire: wire,
		encode: func(r *R) (string, bool) {
			return codec.Encode(*at(r))
		},
		decode: func(r *R, s string) error {
			v, err := codec.Decode(s)
			if err != nil {
				return err
			}
			*at(r) = v
			return nil
		},
	}
}

// String declares a string field. The empty string is treated as absent.
func String[R any](name, wire string, at func(*R) *string) Field[R] {
	return NewField(name, wire, StringCodec, at)
}

// Bool declares a boolean field. It is always sent on writes.
func Bool[R any](name, wire string, at func(*R) *bool) Field[R] {
	return NewField(name, wire, BoolCodec, at)
}

// Int declares an integer field
func Int[R any](name, wire string, at func(*R) *int) Field[R] {
	return NewField(name, wire, IntCodec, at)
}

// Duration declares a required duration field
func Duration[R any](name, wire string, at func(*R) *time.Duration) Field[R] {
	return NewField(name, wire, DurationCodec, at)
}

// OptionalDuration declares a duration field where nil means absent
func OptionalDuration[R any](name, wire string, at func(*R) **time.Duration) Field[R] {
	return NewField(name, wire, OptionalDurationCodec, at)
}

// OptionalBool declares a boolean field where nil means absent
func OptionalBool[R any](name, wire string, at func(*R) **bool) Field[R] {
	return NewField(name, wire, OptionalBoolCodec, at)
}

// StringList declares a comma separated list field
func StringList[R any](name, wire string, at func(*R) *[]string) Field[R] {
	return NewField(name, wire, ListCodec, at)
}

// ReadOnly marks a field as read-only
func ReadOnly[R any](f Field[R]) Field[R] {
	f.ReadOnly = true
	return f
}

// idAliases are the accepted spellings of the identifier
var idAliases = []string{"ID", "Id", IDAttribute, "id"}

// Descriptor is the static field table of record type R.
//
// A descriptor is immutable once built and safe for concurrent use.
type Descriptor[R any] struct {
	path    string
	fields  []Field[R]
	byWire  map[string]int
	aliases map[string]string
	getID   func(*R) string
	setID   func(*R, string)
}

// NewDescriptor builds the descriptor of record type R. It is meant to be
// called once per type, into a package-level variable.
//
// NewDescriptor panics on programming errors: a path that is empty or not
// absolute, duplicate field or wire names, and fields that shadow the
// identifier.
func NewDescriptor[R any, P recordPtr[R]](path string, fields ...Field[R]) *Descriptor[R] {
	if path == "" || !strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") {
		panic(fmt.Sprintf("tiklink: invalid record path %q", path))
	}

	d := &Descriptor[R]{
		path:    path,
		fields:  make([]Field[R], 0, len(fields)),
		byWire:  make(map[string]int, len(fields)),
		aliases: make(map[string]string, 2*len(fields)+len(idAliases)),
		getID:   func(r *R) string { return P(r).GetID() },
		setID:   func(r *R, id string) { P(r).SetID(id) },
	}

	for _, alias := range idAliases {
		d.aliases[alias] = IDAttribute
	}

	names := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" || f.Wire == "" || f.encode == nil || f.decode == nil {
			panic(fmt.Sprintf("tiklink: %s: incomplete field %q/%q", path, f.Name, f.Wire))
		}
		if isIDAlias(f.Name) {
			panic(fmt.Sprintf("tiklink: %s: field %q shadows the identifier", path, f.Name))
		}
		if isIDAlias(f.Wire) {
			panic(fmt.Sprintf("tiklink: %s: wire name %q shadows the identifier", path, f.Wire))
		}
		if names[f.Name] {
			panic(fmt.Sprintf("tiklink: %s: duplicate field name %q", path, f.Name))
		}
		if _, ok := d.byWire[f.Wire]; ok {
			panic(fmt.Sprintf("tiklink: %s: duplicate wire name %q", path, f.Wire))
		}

		names[f.Name] = true
		d.byWire[f.Wire] = len(d.fields)
		d.fields = append(d.fields, f)
	}

	// Wire names win over field names.
	for _, f := range d.fields {
		d.aliases[f.Name] = f.Wire
	}
	for _, f := range d.fields {
		d.aliases[f.Wire] = f.Wire
	}

	return d
}

// Path returns the command path prefix of the record type (e.g. "/ip/arp")
func (d *Descriptor[R]) Path() string {
	return d.path
}

// Fields returns the field table in declaration order
func (d *Descriptor[R]) Fields() []FieldInfo {
	out := make([]FieldInfo, len(d.fields))
	for i, f := range d.fields {
		out[i] = FieldInfo{Name: f.Name, Wire: f.Wire, ReadOnly: f.ReadOnly}
	}
	return out
}

// IsReadOnly reports whether the wire name belongs to a read-only field. The
// identifier counts as read-only.
func (d *Descriptor[R]) IsReadOnly(wire string) bool {
	if wire == IDAttribute {
		return true
	}
	i, ok := d.byWire[wire]
	return ok && d.fields[i].ReadOnly
}

// ResolveAlias maps a field name or wire name to the canonical wire name.
//
// Field and wire names must match exactly. Only the identifier aliases are
// matched regardless of case. Any other name returns an
// *UnknownPropertyError.
func (d *Descriptor[R]) ResolveAlias(name string) (string, error) {
	if wire, ok := d.aliases[name]; ok {
		return wire, nil
	}
	if isIDAlias(name) {
		return IDAttribute, nil
	}
	return "", &UnknownPropertyError{Path: d.path, Name: name}
}

func isIDAlias(name string) bool {
	for _, alias := range idAliases {
		if strings.EqualFold(name, alias) {
			return true
		}
	}
	return false
}

// resolveAll resolves every name, failing on the first unknown one
func (d *Descriptor[R]) resolveAll(names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	wires := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		wire, err := d.ResolveAlias(name)
		if err != nil {
			return nil, err
		}
		if !seen[wire] {
			seen[wire] = true
			wires = append(wires, wire)
		}
	}
	return wires, nil
}

// ToAttributeSet encodes every non-absent field of r. Read-only fields and
// the identifier are only included when includeReadOnly is set.
func (d *Descriptor[R]) ToAttributeSet(r *R, includeReadOnly bool) AttributeSet {
	attrs := make(AttributeSet, len(d.fields)+1)
	if r == nil {
		return attrs
	}
	if includeReadOnly {
		if id := d.getID(r); id != "" {
			attrs[IDAttribute] = id
		}
	}
	for _, f := range d.fields {
		if f.ReadOnly && !includeReadOnly {
			continue
		}
		if v, ok := f.encode(r); ok {
			attrs[f.Wire] = v
		}
	}
	return attrs
}

// WriteAttributes builds the attribute set sent by add and update: read-only
// fields are excluded and, when properties is not empty, only the resolved
// properties are kept.
func (d *Descriptor[R]) WriteAttributes(r *R, properties []string) (AttributeSet, error) {
	wires, err := d.resolveAll(properties)
	if err != nil {
		return nil, err
	}
	attrs := d.ToAttributeSet(r, false)
	if len(wires) == 0 {
		return attrs, nil
	}
	keep := make(map[string]bool, len(wires))
	for _, w := range wires {
		keep[w] = true
	}
	for k := range attrs {
		if !keep[k] {
			delete(attrs, k)
		}
	}
	return attrs, nil
}

// ApplyAttributeSet decodes the known attributes into r, in field order.
// Unknown wire names are ignored. The first failure is returned as a
// *DecodeError; fields decoded before it keep their new values.
func (d *Descriptor[R]) ApplyAttributeSet(r *R, attrs AttributeSet) error {
	if r == nil {
		return &InvalidArgumentError{Operation: "apply", Path: d.path, Reason: "record is nil"}
	}
	if id, ok := attrs[IDAttribute]; ok {
		d.setID(r, id)
	}
	for _, f := range d.fields {
		v, ok := attrs[f.Wire]
		if !ok {
			continue
		}
		if err := f.decode(r, v); err != nil {
			return &DecodeError{Path: d.path, Wire: f.Wire, Value: v, Err: err}
		}
	}
	return nil
}

// ResolveAlias resolves name against the descriptor of R
func ResolveAlias[R any, P RecordType[R]](name string) (string, error) {
	return DescriptorOf[R, P]().ResolveAlias(name)
}

// Attributes encodes r through the descriptor of R
func Attributes[R any, P RecordType[R]](r *R, includeReadOnly bool) AttributeSet {
	return DescriptorOf[R, P]().ToAttributeSet(r, includeReadOnly)
}

// Apply decodes attrs into r through the descriptor of R
func Apply[R any, P RecordType[R]](r *R, attrs AttributeSet) error {
	return DescriptorOf[R, P]().ApplyAttributeSet(r, attrs)
}
