// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package tiklink

import (
	"strings"
	"testing"
)

// TestReqModifiers tests composition of request modifiers
func TestReqModifiers(t *testing.T) {
	req := newReq([]func(*Req){
		Properties("Name"),
		Properties("address", "mtu"),
		Where("disabled", "false"),
		Filter(map[string]string{"interface": "ether1", "disabled": "true"}),
		ReadBack(),
	})

	if strings.Join(req.Properties, ",") != "Name,address,mtu" {
		t.Errorf("Properties = %v", req.Properties)
	}
	if len(req.Filter) != 2 || req.Filter["disabled"] != "true" || req.Filter["interface"] != "ether1" {
		t.Errorf("Filter = %v", req.Filter)
	}
	if !req.ReadBack {
		t.Error("ReadBack not set")
	}

	if empty := newReq(nil); empty.Properties != nil || empty.Filter != nil || empty.ReadBack {
		t.Errorf("newReq(nil) = %+v", empty)
	}
}

// TestFilter_DoesNotAlias tests that Filter copies its argument
func TestFilter_DoesNotAlias(t *testing.T) {
	filter := map[string]string{"name": "a"}
	req := newReq([]func(*Req){Filter(filter)})
	filter["name"] = "b"
	if req.Filter["name"] != "a" {
		t.Error("request filter follows caller map")
	}
}

// TestCommandWord tests the command word
func TestCommandWord(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{Command{Path: "/ip/arp", Verb: VerbPrint}, "/ip/arp/print"},
		{Command{Path: "/ip/dhcp-server/lease", Verb: VerbAdd}, "/ip/dhcp-server/lease/add"},
		{Command{Path: "/ip/hotspot/user", Verb: VerbUpdate}, "/ip/hotspot/user/update"},
		{Command{Path: "/ip/dhcp-server/alert", Verb: "reset-alert"}, "/ip/dhcp-server/alert/reset-alert"},
	}
	for _, tt := range tests {
		if got := tt.cmd.Word(); got != tt.want {
			t.Errorf("Word() = %q, want %q", got, tt.want)
		}
	}
}

// TestQuery tests predicate formatting and parsing
func TestQuery(t *testing.T) {
	tests := []struct {
		query       string
		wire, value string
		ok          bool
	}{
		{Query("address", "10.0.0.1"), "address", "10.0.0.1", true},
		{Query(".id", "*1"), ".id", "*1", true},
		{Query("comment", "a=b"), "comment", "a=b", true},
		{Query("comment", ""), "comment", "", true},
		{"address=10.0.0.1", "", "", false},
		{"==x", "", "", false},
		{"=address", "", "", false},
	}
	for _, tt := range tests {
		wire, value, ok := ParseQuery(tt.query)
		if wire != tt.wire || value != tt.value || ok != tt.ok {
			t.Errorf("ParseQuery(%q) = %q, %q, %v", tt.query, wire, value, ok)
		}
	}
}
