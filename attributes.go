// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package tiklink

import (
	"sort"
	"strings"
)

// AttributeSet maps wire attribute names to wire values. It is the canonical
// form exchanged with a Transport.
type AttributeSet map[string]string

// Get returns the value for a wire name and whether it was present
func (a AttributeSet) Get(name string) (string, bool) {
	v, ok := a[name]
	return v, ok
}

// Clone returns a shallow copy. A nil set clones to an empty set.
func (a AttributeSet) Clone() AttributeSet {
	out := make(AttributeSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Keys returns the wire names in lexical order
func (a AttributeSet) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the set as space separated name=value pairs in key order.
func (a AttributeSet) String() string {
	var builder strings.Builder
	for i, k := range a.Keys() {
		if i > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(k)
		builder.WriteByte('=')
		builder.WriteString(a[k])
	}
	return builder.String()
}
