// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package gnmi

import (
	"fmt"
	"strings"

	"github.com/netascode/go-tiklink"
	"github.com/netascode/go-tiklink/internal/wire"
	gnmipb "github.com/openconfig/gnmi/proto/gnmi"
	"github.com/tidwall/gjson"
)

// recordPath addresses a single record of a menu by identifier, e.g.
// /ip/arp[.id=*1]
func recordPath(path, id string) string {
	return path + "[" + tiklink.IDAttribute + "=" + id + "]"
}

// decodeNotifications collects the records carried by the JSON values of a
// GetResponse, in notification and update order
func decodeNotifications(notifications []*gnmipb.Notification) ([]tiklink.AttributeSet, error) {
	var out []tiklink.AttributeSet
	for _, n := range notifications {
		for _, u := range n.GetUpdate() {
			raw := u.GetVal().GetJsonIetfVal()
			if len(raw) == 0 {
				raw = u.GetVal().GetJsonVal()
			}
			if len(raw) == 0 {
				continue
			}
			records, err := decodeRecords(raw)
			if err != nil {
				return nil, err
			}
			out = append(out, records...)
		}
	}
	return out, nil
}

// decodeRecords decodes one JSON value. An array holds one record per
// element; an object is a single record, unless its only member is an array
// of objects (a module-qualified list), which is unwrapped. A single-member
// record whose value is a list of scalars stays a record.
func decodeRecords(raw []byte) ([]tiklink.AttributeSet, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("invalid JSON value (%d bytes)", len(raw))
	}
	root := gjson.ParseBytes(raw)

	if root.IsObject() {
		members := root.Map()
		if len(members) == 1 && !root.Get(wire.EscapeMember(tiklink.IDAttribute)).Exists() {
			for _, v := range members {
				if isRecordList(v) {
					root = v
				}
			}
		}
	}

	switch {
	case root.IsArray():
		var out []tiklink.AttributeSet
		for _, item := range root.Array() {
			if !item.IsObject() {
				return nil, fmt.Errorf("unexpected %s in record list", item.Type)
			}
			out = append(out, wire.Attributes(item))
		}
		return out, nil
	case root.IsObject():
		return []tiklink.AttributeSet{wire.Attributes(root)}, nil
	default:
		return nil, fmt.Errorf("unexpected %s value", root.Type)
	}
}

// isRecordList reports whether v is an array whose elements are all objects
func isRecordList(v gjson.Result) bool {
	if !v.IsArray() {
		return false
	}
	for _, item := range v.Array() {
		if !item.IsObject() {
			return false
		}
	}
	return true
}

// selectRecords applies the predicates and projection of a print command.
// gNMI has no query language, so both are evaluated locally.
func selectRecords(records []tiklink.AttributeSet, cmd *tiklink.Command) ([]tiklink.Sentence, error) {
	type predicate struct{ wire, value string }
	predicates := make([]predicate, 0, len(cmd.Queries))
	for _, q := range cmd.Queries {
		w, v, ok := tiklink.ParseQuery(q)
		if !ok {
			return nil, fmt.Errorf("invalid query %q", q)
		}
		predicates = append(predicates, predicate{w, v})
	}

	sentences := make([]tiklink.Sentence, 0, len(records))
	for _, rec := range records {
		match := true
		for _, p := range predicates {
			if v, ok := rec[p.wire]; !ok || v != p.value {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		sentences = append(sentences, tiklink.Sentence{
			Tag:        tiklink.TagReply,
			Attributes: project(rec, cmd.Properties),
		})
	}
	return sentences, nil
}

// project keeps the listed attributes; an empty list keeps all of them
func project(rec tiklink.AttributeSet, properties []string) tiklink.AttributeSet {
	if len(properties) == 0 {
		return rec
	}
	out := make(tiklink.AttributeSet, len(properties))
	for _, p := range properties {
		if v, ok := rec[p]; ok {
			out[p] = v
		}
	}
	return out
}

// isValidPath checks for an absolute, key-free menu path
func isValidPath(path string) bool {
	return strings.HasPrefix(path, "/") && !strings.ContainsAny(path, "[]")
}
