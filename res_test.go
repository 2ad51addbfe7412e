// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package tiklink

import "testing"

// TestResult tests reply selection and trap access
func TestResult(t *testing.T) {
	res := &Result{Sentences: []Sentence{
		{Tag: TagReply, Attributes: AttributeSet{".id": "*1"}},
		{Tag: "empty"},
		{Tag: TagReply, Attributes: AttributeSet{".id": "*2"}},
		{Tag: TagDone, Attributes: AttributeSet{"ret": "*3"}},
	}}

	replies := res.Replies()
	if len(replies) != 2 || replies[0].Attributes[".id"] != "*1" || replies[1].Attributes[".id"] != "*2" {
		t.Errorf("Replies() = %+v", replies)
	}
	if res.IsError() {
		t.Error("IsError() = true without trap")
	}
	if _, ok := res.TrapMessage(); ok {
		t.Error("TrapMessage() ok without trap")
	}

	res.Trap = AttributeSet{"message": "input does not match any value", "category": "1"}
	if !res.IsError() {
		t.Error("IsError() = false with trap")
	}
	if msg, ok := res.TrapMessage(); !ok || msg != "input does not match any value" {
		t.Errorf("TrapMessage() = %q, %v", msg, ok)
	}
	if cat, ok := res.TrapAttribute("category"); !ok || cat != "1" {
		t.Errorf("TrapAttribute(category) = %q, %v", cat, ok)
	}
}

// TestResult_Nil tests the nil receiver
func TestResult_Nil(t *testing.T) {
	var res *Result
	if res.IsError() || res.Replies() != nil {
		t.Error("nil result must be empty and successful")
	}
	if _, ok := res.TrapAttribute("message"); ok {
		t.Error("TrapAttribute() ok on nil result")
	}
}

// TestAttributeSet tests the canonical attribute map
func TestAttributeSet(t *testing.T) {
	attrs := AttributeSet{"name": "a", ".id": "*1", "comment": "x y"}

	if got := attrs.String(); got != ".id=*1 comment=x y name=a" {
		t.Errorf("String() = %q", got)
	}
	if keys := attrs.Keys(); len(keys) != 3 || keys[0] != ".id" || keys[2] != "name" {
		t.Errorf("Keys() = %v", keys)
	}
	if v, ok := attrs.Get("comment"); !ok || v != "x y" {
		t.Errorf("Get(comment) = %q, %v", v, ok)
	}
	if _, ok := attrs.Get("missing"); ok {
		t.Error("Get(missing) ok")
	}

	clone := attrs.Clone()
	clone["name"] = "b"
	if attrs["name"] != "a" {
		t.Error("Clone() shares storage")
	}

	var empty AttributeSet
	if c := empty.Clone(); c == nil || len(c) != 0 {
		t.Errorf("nil Clone() = %v", c)
	}
	if empty.String() != "" {
		t.Errorf("nil String() = %q", empty.String())
	}
}
