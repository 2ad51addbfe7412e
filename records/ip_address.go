// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package records

import "github.com/netascode/go-tiklink"

// IPAddress is an address assigned to an interface (/ip/address)
type IPAddress struct {
	tiklink.Entity

	// Address in CIDR form, e.g. "192.168.88.1/24"
	Address   string
	Network   string
	Interface string
	Comment   string
	Disabled  bool

	// Read-only
	ActualInterface string
	Dynamic         bool
	Invalid         bool
}

var ipAddressDescriptor = tiklink.NewDescriptor[IPAddress]("/ip/address",
	tiklink.String("Address", "address", func(r *IPAddress) *string { return &r.Address }),
	tiklink.String("Network", "network", func(r *IPAddress) *string { return &r.Network }),
	tiklink.String("Interface", "interface", func(r *IPAddress) *string { return &r.Interface }),
	tiklink.String("Comment", "comment", func(r *IPAddress) *string { return &r.Comment }),
	tiklink.Bool("Disabled", "disabled", func(r *IPAddress) *bool { return &r.Disabled }),
	tiklink.ReadOnly(tiklink.String("ActualInterface", "actual-interface", func(r *IPAddress) *string { return &r.ActualInterface })),
	tiklink.ReadOnly(tiklink.Bool("Dynamic", "dynamic", func(r *IPAddress) *bool { return &r.Dynamic })),
	tiklink.ReadOnly(tiklink.Bool("Invalid", "invalid", func(r *IPAddress) *bool { return &r.Invalid })),
)

// Descriptor returns the field table of IPAddress
func (*IPAddress) Descriptor() *tiklink.Descriptor[IPAddress] { return ipAddressDescriptor }
