// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package tiklink

// Sentence tags used by transports
const (
	// TagReply marks a data sentence
	TagReply = "re"

	// TagDone marks the completion sentence
	TagDone = "done"

	// TagTrap marks an error sentence
	TagTrap = "trap"
)

// Sentence is one structured response unit returned by the device
type Sentence struct {
	// Tag classifies the sentence (re, done, trap)
	Tag string

	// Attributes carries the decoded attribute set
	Attributes AttributeSet
}

// Result is the outcome of a Transport call
type Result struct {
	// Sentences in the order returned by the device
	Sentences []Sentence

	// Trap carries the device's error attributes. A non-nil Trap marks the
	// result as an error.
	Trap AttributeSet
}

// IsError reports whether the device rejected the command
func (r *Result) IsError() bool {
	return r != nil && r.Trap != nil
}

// TrapAttribute returns an attribute of the error sentence
func (r *Result) TrapAttribute(name string) (string, bool) {
	if r == nil || r.Trap == nil {
		return "", false
	}
	return r.Trap.Get(name)
}

// TrapMessage returns the device supplied error message
func (r *Result) TrapMessage() (string, bool) {
	return r.TrapAttribute("message")
}

// Replies returns the data sentences in device order
func (r *Result) Replies() []Sentence {
	if r == nil {
		return nil
	}
	replies := make([]Sentence, 0, len(r.Sentences))
	for _, s := range r.Sentences {
		if s.Tag == TagReply {
			replies = append(replies, s)
		}
	}
	return replies
}
