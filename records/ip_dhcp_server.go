// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package records

import (
	"context"
	"time"

	"github.com/netascode/go-tiklink"
)

// IPDHCPServerLease is a DHCP server lease (/ip/dhcp-server/lease).
//
// Leases handed out by the server show up as dynamic records; static leases
// are added by the caller.
type IPDHCPServerLease struct {
	tiklink.Entity

	// Address is an IP address or pool; 0.0.0.0 uses the server's pool
	Address         string
	AddressList     string
	AlwaysBroadcast bool
	BlockAccess     bool
	ClientID        string

	// LeaseTime of 0s means the lease never expires; nil leaves the server
	// default in place
	LeaseTime     *time.Duration
	MacAddress    string
	SrcMacAddress string
	UseSrcMac     bool
	Server        string
	Disabled      bool
	Comment       string

	// Read-only
	ActiveAddress    string
	ActiveClientID   string
	ActiveMacAddress string
	ActiveServer     string
	AgentCircuitID   string
	AgentRemoteID    string
	Blocked          bool
	ExpiresAfter     *time.Duration
	HostName         string
	Radius           bool
	RateLimit        string
	Status           string
	Dynamic          bool
}

var ipDHCPServerLeaseDescriptor = tiklink.NewDescriptor[IPDHCPServerLease]("/ip/dhcp-server/lease",
	tiklink.String("Address", "address", func(r *IPDHCPServerLease) *string { return &r.Address }),
	tiklink.String("AddressList", "address-list", func(r *IPDHCPServerLease) *string { return &r.AddressList }),
	tiklink.Bool("AlwaysBroadcast", "always-broadcast", func(r *IPDHCPServerLease) *bool { return &r.AlwaysBroadcast }),
	tiklink.Bool("BlockAccess", "block-access", func(r *IPDHCPServerLease) *bool { return &r.BlockAccess }),
	tiklink.String("ClientID", "client-id", func(r *IPDHCPServerLease) *string { return &r.ClientID }),
	tiklink.OptionalDuration("LeaseTime", "lease-time", func(r *IPDHCPServerLease) **time.Duration { return &r.LeaseTime }),
	tiklink.String("MacAddress", "mac-address", func(r *IPDHCPServerLease) *string { return &r.MacAddress }),
	tiklink.String("SrcMacAddress", "src-mac-address", func(r *IPDHCPServerLease) *string { return &r.SrcMacAddress }),
	tiklink.Bool("UseSrcMac", "use-src-mac", func(r *IPDHCPServerLease) *bool { return &r.UseSrcMac }),
	tiklink.String("Server", "server", func(r *IPDHCPServerLease) *string { return &r.Server }),
	tiklink.Bool("Disabled", "disabled", func(r *IPDHCPServerLease) *bool { return &r.Disabled }),
	tiklink.String("Comment", "comment", func(r *IPDHCPServerLease) *string { return &r.Comment }),
	tiklink.ReadOnly(tiklink.String("ActiveAddress", "active-address", func(r *IPDHCPServerLease) *string { return &r.ActiveAddress })),
	tiklink.ReadOnly(tiklink.String("ActiveClientID", "active-client-id", func(r *IPDHCPServerLease) *string { return &r.ActiveClientID })),
	tiklink.ReadOnly(tiklink.String("ActiveMacAddress", "active-mac-address", func(r *IPDHCPServerLease) *string { return &r.ActiveMacAddress })),
	tiklink.ReadOnly(tiklink.String("ActiveServer", "active-server", func(r *IPDHCPServerLease) *string { return &r.ActiveServer })),
	tiklink.ReadOnly(tiklink.String("AgentCircuitID", "agent-circuit-id", func(r *IPDHCPServerLease) *string { return &r.AgentCircuitID })),
	tiklink.ReadOnly(tiklink.String("AgentRemoteID", "agent-remote-id", func(r *IPDHCPServerLease) *string { return &r.AgentRemoteID })),
	tiklink.ReadOnly(tiklink.Bool("Blocked", "blocked", func(r *IPDHCPServerLease) *bool { return &r.Blocked })),
	tiklink.ReadOnly(tiklink.OptionalDuration("ExpiresAfter", "expires-after", func(r *IPDHCPServerLease) **time.Duration { return &r.ExpiresAfter })),
	tiklink.ReadOnly(tiklink.String("HostName", "host-name", func(r *IPDHCPServerLease) *string { return &r.HostName })),
	tiklink.ReadOnly(tiklink.Bool("Radius", "radius", func(r *IPDHCPServerLease) *bool { return &r.Radius })),
	tiklink.ReadOnly(tiklink.String("RateLimit", "rate-limit", func(r *IPDHCPServerLease) *string { return &r.RateLimit })),
	tiklink.ReadOnly(tiklink.String("Status", "status", func(r *IPDHCPServerLease) *string { return &r.Status })),
	tiklink.ReadOnly(tiklink.Bool("Dynamic", "dynamic", func(r *IPDHCPServerLease) *bool { return &r.Dynamic })),
)

// Descriptor returns the field table of IPDHCPServerLease
func (*IPDHCPServerLease) Descriptor() *tiklink.Descriptor[IPDHCPServerLease] {
	return ipDHCPServerLeaseDescriptor
}

// MakeStatic converts the dynamic lease with identifier id into a static one
func MakeStatic(ctx context.Context, link *tiklink.Link, id string) error {
	return runByID(ctx, link, ipDHCPServerLeaseDescriptor.Path(), "make-static", id)
}

// IPDHCPServerAlert watches an interface for rogue DHCP servers
// (/ip/dhcp-server/alert)
type IPDHCPServerAlert struct {
	tiklink.Entity

	// AlertTimeout is how long an alert is remembered; nil means forever
	AlertTimeout *time.Duration
	Interface    string
	OnAlert      string
	ValidServer  []string
	Disabled     bool
	Comment      string

	// Read-only
	UnknownServer []string
	Invalid       bool
}

var ipDHCPServerAlertDescriptor = tiklink.NewDescriptor[IPDHCPServerAlert]("/ip/dhcp-server/alert",
	tiklink.OptionalDuration("AlertTimeout", "alert-timeout", func(r *IPDHCPServerAlert) **time.Duration { return &r.AlertTimeout }),
	tiklink.String("Interface", "interface", func(r *IPDHCPServerAlert) *string { return &r.Interface }),
	tiklink.String("OnAlert", "on-alert", func(r *IPDHCPServerAlert) *string { return &r.OnAlert }),
	tiklink.StringList("ValidServer", "valid-server", func(r *IPDHCPServerAlert) *[]string { return &r.ValidServer }),
	tiklink.Bool("Disabled", "disabled", func(r *IPDHCPServerAlert) *bool { return &r.Disabled }),
	tiklink.String("Comment", "comment", func(r *IPDHCPServerAlert) *string { return &r.Comment }),
	tiklink.ReadOnly(tiklink.StringList("UnknownServer", "unknown-server", func(r *IPDHCPServerAlert) *[]string { return &r.UnknownServer })),
	tiklink.ReadOnly(tiklink.Bool("Invalid", "invalid", func(r *IPDHCPServerAlert) *bool { return &r.Invalid })),
)

// Descriptor returns the field table of IPDHCPServerAlert
func (*IPDHCPServerAlert) Descriptor() *tiklink.Descriptor[IPDHCPServerAlert] {
	return ipDHCPServerAlertDescriptor
}

// ResetAlert clears the detected unknown servers of the alert with
// identifier id
func ResetAlert(ctx context.Context, link *tiklink.Link, id string) error {
	return runByID(ctx, link, ipDHCPServerAlertDescriptor.Path(), "reset-alert", id)
}

// runByID sends a menu command that takes only an identifier
func runByID(ctx context.Context, link *tiklink.Link, path string, verb tiklink.Verb, id string) error {
	if id == "" {
		return &tiklink.InvalidArgumentError{Operation: string(verb), Path: path, Reason: "id is empty"}
	}
	if link == nil {
		return &tiklink.InvalidArgumentError{Operation: string(verb), Path: path, Reason: "link is nil"}
	}
	_, err := link.Call(ctx, &tiklink.Command{
		Path:       path,
		Verb:       verb,
		Attributes: tiklink.AttributeSet{tiklink.IDAttribute: id},
	})
	return err
}
