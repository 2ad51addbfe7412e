// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package rest

import (
	"strings"
	"testing"

	"github.com/netascode/go-tiklink"
	"github.com/tidwall/gjson"
)

// TestBodySet tests basic Set operation
func TestBodySet(t *testing.T) {
	tests := []struct {
		name     string
		member   string
		value    any
		wantJSON string
	}{
		{
			name:     "set string value",
			member:   "address",
			value:    "192.168.88.10",
			wantJSON: `{"address":"192.168.88.10"}`,
		},
		{
			name:     "set identifier",
			member:   ".id",
			value:    "*1A",
			wantJSON: `{".id":"*1A"}`,
		},
		{
			name:     "set dotted member name",
			member:   "a.b",
			value:    "x",
			wantJSON: `{"a.b":"x"}`,
		},
		{
			name:     "set empty string",
			member:   "detail",
			value:    "",
			wantJSON: `{"detail":""}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			json, err := Body{}.Set(tt.member, tt.value).String()
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if json != tt.wantJSON {
				t.Errorf("Expected JSON %s, got %s", tt.wantJSON, json)
			}
		})
	}
}

// TestBodyAppend tests building array members
func TestBodyAppend(t *testing.T) {
	json, err := Body{}.
		Append(".proplist", ".id").
		Append(".proplist", "address").
		String()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if json != `{".proplist":[".id","address"]}` {
		t.Errorf("Append() = %s", json)
	}
}

// TestBodyChainingWithErrors tests that the first error short-circuits further operations
func TestBodyChainingWithErrors(t *testing.T) {
	body := Body{}.
		Set("valid", "value1").
		Set("", "triggers-error").
		Set("should-be-skipped", "value2").
		Append("also-skipped", "value3")

	json, err := body.String()
	if err == nil {
		t.Fatal("Expected error from empty member name")
	}
	if !strings.Contains(err.Error(), "Set") {
		t.Errorf("Expected error message to contain 'Set', got: %v", err)
	}
	if !strings.Contains(json, "value1") {
		t.Errorf("Expected JSON to contain value1 (set before error)")
	}
	if strings.Contains(json, "value2") || strings.Contains(json, "value3") {
		t.Errorf("Operations after error should be no-ops, got: %s", json)
	}

	if b, err := body.Bytes(); err == nil || b != nil {
		t.Errorf("Bytes() = %q, %v, want nil and error", b, err)
	}
}

// TestBodyImmutability tests that Body operations are immutable
func TestBodyImmutability(t *testing.T) {
	body1 := Body{}.Set("name", "value1")
	body2 := body1.Set("name", "value2")

	json1, _ := body1.String() //nolint:errcheck // no error expected
	json2, _ := body2.String() //nolint:errcheck // no error expected

	if !strings.Contains(json1, "value1") {
		t.Errorf("Expected body1 to contain value1, got: %s", json1)
	}
	if !strings.Contains(json2, "value2") {
		t.Errorf("Expected body2 to contain value2, got: %s", json2)
	}
}

// TestBodyEmptyBody tests that an empty body renders as an empty object
func TestBodyEmptyBody(t *testing.T) {
	json, err := Body{}.String()
	if err != nil {
		t.Fatalf("Expected no error for empty body, got: %v", err)
	}
	if json != "{}" {
		t.Errorf("Expected {} for empty body, got: %s", json)
	}
}

// TestCommandBody tests rendering of commands as request bodies
func TestCommandBody(t *testing.T) {
	cmd := &tiklink.Command{
		Path:       "/ip/arp",
		Verb:       tiklink.VerbPrint,
		Queries:    []string{tiklink.Query("interface", "bridge"), tiklink.Query(".id", "*2")},
		Properties: []string{".id", "address"},
		Detail:     true,
	}

	body, err := commandBody(cmd)
	if err != nil {
		t.Fatalf("commandBody() unexpected error: %v", err)
	}
	json := string(body)

	if got := gjson.Get(json, `\.proplist`).String(); got != `[".id","address"]` {
		t.Errorf(".proplist = %s", got)
	}
	queries := gjson.Get(json, `\.query`).Array()
	if len(queries) != 2 || queries[0].String() != "interface=bridge" || queries[1].String() != ".id=*2" {
		t.Errorf(".query = %v", queries)
	}
	if !gjson.Get(json, "detail").Exists() {
		t.Errorf("detail flag missing: %s", json)
	}

	write := &tiklink.Command{
		Path:       "/ip/arp",
		Verb:       tiklink.VerbUpdate,
		Attributes: tiklink.AttributeSet{".id": "*1", "comment": "gw", "disabled": "false"},
	}
	body, err = commandBody(write)
	if err != nil {
		t.Fatalf("commandBody() unexpected error: %v", err)
	}
	if string(body) != `{".id":"*1","comment":"gw","disabled":"false"}` {
		t.Errorf("commandBody() = %s", body)
	}

	bad := &tiklink.Command{Path: "/ip/arp", Verb: tiklink.VerbPrint, Queries: []string{"address"}}
	if _, err := commandBody(bad); err == nil {
		t.Error("commandBody() expected error for malformed query")
	}
}
