// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package tiklink

// IDAttribute is the wire name of the device-assigned record identifier.
const IDAttribute = ".id"

// Record is implemented by every typed record.
//
// An empty identifier means the record has never been confirmed to exist on
// the device. A non-empty identifier refers to exactly one remote object.
type Record interface {
	GetID() string
	SetID(id string)
}

// Entity carries the device-assigned identifier. Record types embed it to
// satisfy the Record interface.
//
// Example:
//
//	type IPArp struct {
//	    tiklink.Entity
//	    Address string
//	}
type Entity struct {
	// ID is the opaque identifier assigned by the device (e.g. "*1A").
	ID string
}

// GetID returns the record identifier, empty when absent
func (e *Entity) GetID() string {
	return e.ID
}

// SetID sets the record identifier
func (e *Entity) SetID(id string) {
	e.ID = id
}

// recordPtr binds a record value type to its pointer implementing Record.
type recordPtr[R any] interface {
	*R
	Record
}

// RecordType is the capability bound of the generic engine: a pointer to R
// must be a Record and expose the statically declared Descriptor of R.
//
// Implementations return a package-level descriptor and never dereference
// the receiver:
//
//	var ipArpDescriptor = tiklink.NewDescriptor[IPArp]("/ip/arp", ...)
//
//	func (*IPArp) Descriptor() *tiklink.Descriptor[IPArp] { return ipArpDescriptor }
type RecordType[R any] interface {
	*R
	Record
	Descriptor() *Descriptor[R]
}

// DescriptorOf returns the descriptor of record type R.
func DescriptorOf[R any, P RecordType[R]]() *Descriptor[R] {
	return P(new(R)).Descriptor()
}
