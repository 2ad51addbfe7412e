// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package tiklink maps typed Go records onto the menu-based configuration
// model of RouterOS-style devices.
//
// Each record type declares a static Descriptor: its menu path and a field
// table binding Go fields to wire attribute names and codecs. The generic
// operations List, Get, Add, Update and Delete turn records into commands
// and hand them to a Transport; package rest talks to the device's REST API,
// package gnmi to a gNMI server.
//
// # Quick Start
//
//	transport, err := rest.NewTransport("https://192.168.88.1",
//	    rest.Username("admin"),
//	    rest.Password("secret"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	link, err := tiklink.NewLink(transport)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer link.Close()
//
//	ctx := context.Background()
//	arps, err := tiklink.List[records.IPArp](ctx, link,
//	    tiklink.Where("Interface", "bridge"))
//
// # Creating Records
//
// The device assigns identifiers. Add with ReadBack recovers the identifier
// by comparing the identifier sets before and after the add, then refreshes
// the record:
//
//	entry := &records.IPArp{Address: "192.168.88.10", MacAddress: "00:11:22:33:44:55"}
//	err := tiklink.Add(ctx, link, entry, tiklink.ReadBack())
//	if errors.Is(err, tiklink.ErrReadbackAmbiguous) {
//	    // another client added a record at the same time
//	}
//
// # Property Names
//
// Properties, Filter and Where accept Go field names ("MacAddress") or wire
// names ("mac-address"), matched exactly. The identifier is also accepted as
// "ID", "Id", "id" or ".id" in any case. Unknown names fail before anything
// is sent. A projection always includes the identifier.
//
// # Error Handling
//
// Errors can be matched with errors.Is against ErrInvalidArgument,
// ErrUnknownProperty, ErrNotFound, ErrAmbiguousResult, ErrReadbackAmbiguous,
// ErrCall and ErrDecode, or unwrapped with errors.As into the typed errors.
// The engine never retries; retry of read commands is left to transports.
//
// # Thread Safety
//
// Descriptors and Links are immutable after construction. Operations may run
// concurrently on one Link when its Transport allows it; both transports in
// this module do.
package tiklink
