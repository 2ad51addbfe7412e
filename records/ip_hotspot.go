// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package records

import (
	"time"

	"github.com/netascode/go-tiklink"
)

// IPHotspotUserProfile groups settings shared by hotspot users
// (/ip/hotspot/user/profile)
type IPHotspotUserProfile struct {
	tiklink.Entity

	Name         string
	AddressPool  string
	AddressList  string
	SharedUsers  int
	RateLimit    string
	AddMacCookie bool

	// Timeouts use nil for "none"
	IdleTimeout      *time.Duration
	KeepaliveTimeout *time.Duration
	MacCookieTimeout *time.Duration
	SessionTimeout   *time.Duration

	StatusAutorefresh time.Duration
	TransparentProxy  bool
	OpenStatusPage    string
	OnLogin           string
	OnLogout          string

	// Read-only
	Default bool
}

var ipHotspotUserProfileDescriptor = tiklink.NewDescriptor[IPHotspotUserProfile]("/ip/hotspot/user/profile",
	tiklink.String("Name", "name", func(r *IPHotspotUserProfile) *string { return &r.Name }),
	tiklink.String("AddressPool", "address-pool", func(r *IPHotspotUserProfile) *string { return &r.AddressPool }),
	tiklink.String("AddressList", "address-list", func(r *IPHotspotUserProfile) *string { return &r.AddressList }),
	tiklink.Int("SharedUsers", "shared-users", func(r *IPHotspotUserProfile) *int { return &r.SharedUsers }),
	tiklink.String("RateLimit", "rate-limit", func(r *IPHotspotUserProfile) *string { return &r.RateLimit }),
	tiklink.Bool("AddMacCookie", "add-mac-cookie", func(r *IPHotspotUserProfile) *bool { return &r.AddMacCookie }),
	tiklink.OptionalDuration("IdleTimeout", "idle-timeout", func(r *IPHotspotUserProfile) **time.Duration { return &r.IdleTimeout }),
	tiklink.OptionalDuration("KeepaliveTimeout", "keepalive-timeout", func(r *IPHotspotUserProfile) **time.Duration { return &r.KeepaliveTimeout }),
	tiklink.OptionalDuration("MacCookieTimeout", "mac-cookie-timeout", func(r *IPHotspotUserProfile) **time.Duration { return &r.MacCookieTimeout }),
	tiklink.OptionalDuration("SessionTimeout", "session-timeout", func(r *IPHotspotUserProfile) **time.Duration { return &r.SessionTimeout }),
	tiklink.Duration("StatusAutorefresh", "status-autorefresh", func(r *IPHotspotUserProfile) *time.Duration { return &r.StatusAutorefresh }),
	tiklink.Bool("TransparentProxy", "transparent-proxy", func(r *IPHotspotUserProfile) *bool { return &r.TransparentProxy }),
	tiklink.String("OpenStatusPage", "open-status-page", func(r *IPHotspotUserProfile) *string { return &r.OpenStatusPage }),
	tiklink.String("OnLogin", "on-login", func(r *IPHotspotUserProfile) *string { return &r.OnLogin }),
	tiklink.String("OnLogout", "on-logout", func(r *IPHotspotUserProfile) *string { return &r.OnLogout }),
	tiklink.ReadOnly(tiklink.Bool("Default", "default", func(r *IPHotspotUserProfile) *bool { return &r.Default })),
)

// Descriptor returns the field table of IPHotspotUserProfile
func (*IPHotspotUserProfile) Descriptor() *tiklink.Descriptor[IPHotspotUserProfile] {
	return ipHotspotUserProfileDescriptor
}
