// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package records declares typed records for device menus.
//
// Every record embeds tiklink.Entity and exposes a package-level descriptor,
// so it can be used with the generic operations of package tiklink:
//
//	arps, err := tiklink.List[records.IPArp](ctx, link)
package records

import "github.com/netascode/go-tiklink"

// IPArp is an entry of the ARP table (/ip/arp)
type IPArp struct {
	tiklink.Entity

	Address    string
	Interface  string
	MacAddress string
	Comment    string
	Disabled   bool

	// Read-only
	DHCP     bool
	Dynamic  bool
	Invalid  bool
	Complete bool
}

var ipArpDescriptor = tiklink.NewDescriptor[IPArp]("/ip/arp",
	tiklink.String("Address", "address", func(r *IPArp) *string { return &r.Address }),
	tiklink.String("Interface", "interface", func(r *IPArp) *string { return &r.Interface }),
	tiklink.String("MacAddress", "mac-address", func(r *IPArp) *string { return &r.MacAddress }),
	tiklink.String("Comment", "comment", func(r *IPArp) *string { return &r.Comment }),
	tiklink.Bool("Disabled", "disabled", func(r *IPArp) *bool { return &r.Disabled }),
	tiklink.ReadOnly(tiklink.Bool("DHCP", "dhcp", func(r *IPArp) *bool { return &r.DHCP })),
	tiklink.ReadOnly(tiklink.Bool("Dynamic", "dynamic", func(r *IPArp) *bool { return &r.Dynamic })),
	tiklink.ReadOnly(tiklink.Bool("Invalid", "invalid", func(r *IPArp) *bool { return &r.Invalid })),
	tiklink.ReadOnly(tiklink.Bool("Complete", "complete", func(r *IPArp) *bool { return &r.Complete })),
)

// Descriptor returns the field table of IPArp
func (*IPArp) Descriptor() *tiklink.Descriptor[IPArp] { return ipArpDescriptor }

// String renders the entry as "address=>mac"
func (r *IPArp) String() string {
	return r.Address + "=>" + r.MacAddress
}
