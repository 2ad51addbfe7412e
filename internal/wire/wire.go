// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package wire converts between JSON documents and attribute sets.
package wire

import (
	"strings"

	"github.com/netascode/go-tiklink"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Attributes flattens a JSON object into wire values
func Attributes(obj gjson.Result) tiklink.AttributeSet {
	attrs := make(tiklink.AttributeSet)
	obj.ForEach(func(key, value gjson.Result) bool {
		attrs[key.String()] = Value(value)
		return true
	})
	return attrs
}

// Value renders a JSON value as a wire string. Arrays become comma separated
// lists, null becomes empty.
func Value(v gjson.Result) string {
	switch {
	case v.IsArray():
		items := v.Array()
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, item.String())
		}
		return strings.Join(parts, ",")
	case v.Type == gjson.Null:
		return ""
	default:
		return v.String()
	}
}

// Object renders attrs as a JSON object of string members in key order
func Object(attrs tiklink.AttributeSet) (string, error) {
	doc := "{}"
	for _, name := range attrs.Keys() {
		var err error
		if doc, err = sjson.Set(doc, EscapeMember(name), attrs[name]); err != nil {
			return "", err
		}
	}
	return doc, nil
}

// EscapeMember escapes gjson/sjson path syntax in a literal member name
func EscapeMember(name string) string {
	var builder strings.Builder
	builder.Grow(len(name) + 4)
	for i := 0; i < len(name); i++ {
		switch c := name[i]; c {
		case '.', '*', '?', '\\', '|', '#', '@', '!', ':':
			builder.WriteByte('\\')
			builder.WriteByte(c)
		default:
			builder.WriteByte(c)
		}
	}
	return builder.String()
}
