// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package rest

import (
	"fmt"

	"github.com/netascode/go-tiklink"
	"github.com/netascode/go-tiklink/internal/wire"
	"github.com/tidwall/sjson"
)

// Body builds the JSON request body of a command using sjson.
//
// Member names are taken literally: attribute names such as ".id" or
// "mac-address" are escaped before they reach sjson's path syntax. The first
// error is kept and makes every later call a no-op.
//
// Example:
//
//	body := rest.Body{}.
//	    Set("address", "192.168.88.10").
//	    Set("mac-address", "00:11:22:33:44:55").
//	    Append(".proplist", ".id")
//	json, err := body.String()
type Body struct {
	// str contains the JSON string being built
	str string
	// err tracks the first error encountered during building
	err error
}

// Set sets member name to value
func (b Body) Set(name string, value any) Body {
	if b.err != nil {
		return b
	}
	if name == "" {
		return Body{str: b.str, err: fmt.Errorf("Set(%q): empty member name", name)}
	}

	result, err := sjson.Set(b.str, wire.EscapeMember(name), value)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("Set(%q): %w", name, err)}
	}
	return Body{str: result}
}

// Append appends value to the array member name, creating it if needed
func (b Body) Append(name string, value any) Body {
	if b.err != nil {
		return b
	}
	if name == "" {
		return Body{str: b.str, err: fmt.Errorf("Append(%q): empty member name", name)}
	}

	result, err := sjson.Set(b.str, wire.EscapeMember(name)+".-1", value)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("Append(%q): %w", name, err)}
	}
	return Body{str: result}
}

// String returns the JSON document and any error encountered during
// building. An empty body renders as "{}".
func (b Body) String() (string, error) {
	if b.str == "" && b.err == nil {
		return "{}", nil
	}
	return b.str, b.err
}

// Bytes returns the JSON document as a byte slice
func (b Body) Bytes() ([]byte, error) {
	s, err := b.String()
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// commandBody renders a command as the REST request body: attributes as
// string members, the projection as ".proplist" and the predicates as
// ".query" entries.
func commandBody(cmd *tiklink.Command) ([]byte, error) {
	body := Body{}
	for _, name := range cmd.Attributes.Keys() {
		body = body.Set(name, cmd.Attributes[name])
	}
	for _, p := range cmd.Properties {
		body = body.Append(".proplist", p)
	}
	for _, q := range cmd.Queries {
		wire, value, ok := tiklink.ParseQuery(q)
		if !ok {
			return nil, fmt.Errorf("invalid query %q", q)
		}
		body = body.Append(".query", wire+"="+value)
	}
	if cmd.Detail {
		body = body.Set("detail", "")
	}
	return body.Bytes()
}
