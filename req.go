// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package tiklink

import "strings"

// Req collects the per-call modifiers of an engine operation.
//
// Example:
//
//	leases, err := tiklink.List[records.IPDHCPServerLease](ctx, link,
//	    tiklink.Properties("Address", "mac-address"),
//	    tiklink.Where("server", "dhcp1"))
type Req struct {
	// Properties limits which attributes are requested (List, Get) or sent
	// (Add, Update). Entries may be field names or wire names.
	Properties []string

	// Filter maps names to required values, combined with logical AND.
	Filter map[string]string

	// ReadBack makes Add recover the device-assigned identifier and
	// refresh the record from the device.
	ReadBack bool
}

// newReq applies the modifiers to an empty request
func newReq(mods []func(*Req)) *Req {
	req := &Req{}
	for _, mod := range mods {
		mod(req)
	}
	return req
}

// Properties returns a request modifier limiting the attributes requested or
// sent. Names that do not resolve for the record type fail the operation.
func Properties(names ...string) func(*Req) {
	return func(req *Req) {
		req.Properties = append(req.Properties, names...)
	}
}

// Filter returns a request modifier adding equality predicates
func Filter(filter map[string]string) func(*Req) {
	return func(req *Req) {
		if req.Filter == nil {
			req.Filter = make(map[string]string, len(filter))
		}
		for k, v := range filter {
			req.Filter[k] = v
		}
	}
}

// Where returns a request modifier adding a single equality predicate
func Where(name, value string) func(*Req) {
	return Filter(map[string]string{name: value})
}

// ReadBack returns a request modifier enabling create-with-readback on Add.
//
// Readback costs two additional identifier listings and one fetch, and fails
// with ErrReadbackAmbiguous when another client adds a record of the same
// type in the meantime.
func ReadBack() func(*Req) {
	return func(req *Req) {
		req.ReadBack = true
	}
}

// Verb is the command applied to a record path
type Verb string

const (
	// VerbPrint lists records
	VerbPrint Verb = "print"

	// VerbAdd creates a record
	VerbAdd Verb = "add"

	// VerbUpdate modifies an existing record
	VerbUpdate Verb = "update"

	// VerbRemove deletes an existing record
	VerbRemove Verb = "remove"
)

// Command is a single request handed to a Transport
type Command struct {
	// Path is the record type's menu path (e.g. "/ip/arp")
	Path string

	// Verb selects the command applied to Path
	Verb Verb

	// Attributes carries the write attributes, including IDAttribute for
	// update and remove
	Attributes AttributeSet

	// Queries are "=<wire>=<value>" predicates combined with AND
	Queries []string

	// Properties limits the attributes returned by print
	Properties []string

	// Detail requests the full property set from print
	Detail bool
}

// Word returns the command word sent to the device, "<path>/<verb>"
func (c *Command) Word() string {
	return c.Path + "/" + string(c.Verb)
}

// Query formats an equality predicate
func Query(wire, value string) string {
	return "=" + wire + "=" + value
}

// ParseQuery splits a predicate built by Query
func ParseQuery(query string) (wire, value string, ok bool) {
	if !strings.HasPrefix(query, "=") {
		return "", "", false
	}
	wire, value, ok = strings.Cut(query[1:], "=")
	if !ok || wire == "" {
		return "", "", false
	}
	return wire, value, true
}
