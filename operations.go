// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package tiklink

import (
	"context"
	"fmt"
	"slices"
	"sort"
)

// List returns every record of type R, in the order the device returned
// them.
//
// Properties limits the attributes requested, the identifier is always
// included. Filter and Where add equality predicates combined with AND.
// Names are resolved through the descriptor before anything is sent, an
// unknown name fails with ErrUnknownProperty.
//
// Example:
//
//	arps, err := tiklink.List[records.IPArp](ctx, link,
//	    tiklink.Where("Interface", "bridge"),
//	    tiklink.Properties("Address", "MacAddress"))
func List[R any, P RecordType[R]](ctx context.Context, l *Link, mods ...func(*Req)) ([]*R, error) {
	desc := DescriptorOf[R, P]()
	if err := checkLink("list", desc.Path(), l); err != nil {
		return nil, err
	}

	req := newReq(mods)
	cmd, err := printCommand(desc, req.Properties, req.Filter, false)
	if err != nil {
		return nil, err
	}

	res, err := l.Call(ctx, cmd)
	if err != nil {
		return nil, err
	}

	replies := res.Replies()
	out := make([]*R, 0, len(replies))
	for _, s := range replies {
		r := new(R)
		if err := desc.ApplyAttributeSet(r, s.Attributes); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Get returns the record with identifier id.
//
// The record is requested with full detail. No match fails with ErrNotFound,
// several matches with ErrAmbiguousResult.
func Get[R any, P RecordType[R]](ctx context.Context, l *Link, id string, mods ...func(*Req)) (*R, error) {
	desc := DescriptorOf[R, P]()
	if err := checkLink("get", desc.Path(), l); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, &InvalidArgumentError{Operation: "get", Path: desc.Path(), Reason: "id is empty"}
	}

	req := newReq(mods)
	attrs, err := fetch(ctx, l, desc, id, req.Properties)
	if err != nil {
		return nil, err
	}

	r := new(R)
	if err := desc.ApplyAttributeSet(r, attrs); err != nil {
		return nil, err
	}
	if P(r).GetID() == "" {
		P(r).SetID(id)
	}
	return r, nil
}

// Add creates r on the device.
//
// r must not carry an identifier. Properties limits the attributes sent.
// Without ReadBack the identifier stays empty after a successful add.
//
// With ReadBack, Add lists the identifiers before and after the add and
// adopts the single new one, then replaces r with the record fetched from
// the device. When zero or several identifiers appeared, Add fails with a
// *ReadbackAmbiguousError and r keeps its empty identifier; the record may
// still have been created.
func Add[R any, P RecordType[R]](ctx context.Context, l *Link, r *R, mods ...func(*Req)) error {
	desc := DescriptorOf[R, P]()
	if r == nil {
		return &InvalidArgumentError{Operation: "add", Path: desc.Path(), Reason: "record is nil"}
	}
	if id := P(r).GetID(); id != "" {
		return &InvalidArgumentError{Operation: "add", Path: desc.Path(),
			Reason: fmt.Sprintf("record already has id %q", id)}
	}
	if err := checkLink("add", desc.Path(), l); err != nil {
		return err
	}

	req := newReq(mods)
	attrs, err := desc.WriteAttributes(r, req.Properties)
	if err != nil {
		return err
	}

	var before []string
	if req.ReadBack {
		if before, err = listIDs(ctx, l, desc); err != nil {
			return err
		}
	}

	if _, err := l.Call(ctx, &Command{Path: desc.Path(), Verb: VerbAdd, Attributes: attrs}); err != nil {
		return err
	}

	if !req.ReadBack {
		return nil
	}

	after, err := listIDs(ctx, l, desc)
	if err != nil {
		return err
	}

	candidates := newIDs(before, after)
	if len(candidates) != 1 {
		l.metrics.observeReadbackAmbiguous(desc.Path())
		l.logger.Warn(ctx, "Readback could not identify the new record",
			"path", desc.Path(),
			"candidates", len(candidates))
		return &ReadbackAmbiguousError{Path: desc.Path(), Candidates: candidates}
	}

	id := candidates[0]
	P(r).SetID(id)

	fetched, err := fetch(ctx, l, desc, id, nil)
	if err != nil {
		return err
	}

	var zero R
	*r = zero
	P(r).SetID(id)
	if err := desc.ApplyAttributeSet(r, fetched); err != nil {
		return err
	}

	l.logger.Debug(ctx, "Readback completed",
		"path", desc.Path(),
		"id", id)
	return nil
}

// Update writes the fields of r to the record with r's identifier.
//
// Read-only fields are never sent; Properties limits the attributes sent.
// r is not refreshed from the device.
func Update[R any, P RecordType[R]](ctx context.Context, l *Link, r *R, mods ...func(*Req)) error {
	desc := DescriptorOf[R, P]()
	if r == nil {
		return &InvalidArgumentError{Operation: "update", Path: desc.Path(), Reason: "record is nil"}
	}
	id := P(r).GetID()
	if id == "" {
		return &InvalidArgumentError{Operation: "update", Path: desc.Path(), Reason: "record has no id"}
	}
	if err := checkLink("update", desc.Path(), l); err != nil {
		return err
	}

	req := newReq(mods)
	attrs, err := desc.WriteAttributes(r, req.Properties)
	if err != nil {
		return err
	}
	attrs[IDAttribute] = id

	_, err = l.Call(ctx, &Command{Path: desc.Path(), Verb: VerbUpdate, Attributes: attrs})
	return err
}

// Delete removes the record with r's identifier. r must not be written to
// afterwards.
func Delete[R any, P RecordType[R]](ctx context.Context, l *Link, r *R) error {
	desc := DescriptorOf[R, P]()
	if r == nil {
		return &InvalidArgumentError{Operation: "remove", Path: desc.Path(), Reason: "record is nil"}
	}
	return DeleteByID[R, P](ctx, l, P(r).GetID())
}

// DeleteByID removes the record with identifier id
func DeleteByID[R any, P RecordType[R]](ctx context.Context, l *Link, id string) error {
	desc := DescriptorOf[R, P]()
	if id == "" {
		return &InvalidArgumentError{Operation: "remove", Path: desc.Path(), Reason: "record has no id"}
	}
	if err := checkLink("remove", desc.Path(), l); err != nil {
		return err
	}

	_, err := l.Call(ctx, &Command{
		Path:       desc.Path(),
		Verb:       VerbRemove,
		Attributes: AttributeSet{IDAttribute: id},
	})
	return err
}

// checkLink rejects a nil link before any remote call
func checkLink(op, path string, l *Link) error {
	if l == nil {
		return &InvalidArgumentError{Operation: op, Path: path, Reason: "link is nil"}
	}
	return nil
}

// printCommand builds a print command with resolved projection and filter.
// Filter predicates are ordered by wire name.
func printCommand[R any](desc *Descriptor[R], properties []string, filter map[string]string, detail bool) (*Command, error) {
	proplist, err := desc.resolveAll(properties)
	if err != nil {
		return nil, err
	}
	// Records must keep their identity under projection.
	if len(proplist) > 0 && !slices.Contains(proplist, IDAttribute) {
		proplist = append(proplist, IDAttribute)
	}

	predicates := make(map[string]string, len(filter))
	for name, value := range filter {
		wire, err := desc.ResolveAlias(name)
		if err != nil {
			return nil, err
		}
		if prev, ok := predicates[wire]; ok && prev != value {
			return nil, &InvalidArgumentError{Operation: "print", Path: desc.Path(),
				Reason: fmt.Sprintf("conflicting filter values for %q", wire)}
		}
		predicates[wire] = value
	}

	wires := make([]string, 0, len(predicates))
	for wire := range predicates {
		wires = append(wires, wire)
	}
	sort.Strings(wires)

	queries := make([]string, 0, len(wires))
	for _, wire := range wires {
		queries = append(queries, Query(wire, predicates[wire]))
	}

	return &Command{
		Path:       desc.Path(),
		Verb:       VerbPrint,
		Queries:    queries,
		Properties: proplist,
		Detail:     detail,
	}, nil
}

// fetch returns the attribute set of the single record with identifier id
func fetch[R any](ctx context.Context, l *Link, desc *Descriptor[R], id string, properties []string) (AttributeSet, error) {
	cmd, err := printCommand(desc, properties, map[string]string{IDAttribute: id}, true)
	if err != nil {
		return nil, err
	}

	res, err := l.Call(ctx, cmd)
	if err != nil {
		return nil, err
	}

	replies := res.Replies()
	switch len(replies) {
	case 0:
		return nil, &NotFoundError{Path: desc.Path(), ID: id}
	case 1:
		return replies[0].Attributes, nil
	default:
		return nil, &AmbiguousResultError{Path: desc.Path(), ID: id, Count: len(replies)}
	}
}

// listIDs returns the identifiers of every record of the type, in device
// order
func listIDs[R any](ctx context.Context, l *Link, desc *Descriptor[R]) ([]string, error) {
	res, err := l.Call(ctx, &Command{
		Path:       desc.Path(),
		Verb:       VerbPrint,
		Properties: []string{IDAttribute},
	})
	if err != nil {
		return nil, err
	}

	replies := res.Replies()
	ids := make([]string, 0, len(replies))
	for _, s := range replies {
		if id, ok := s.Attributes[IDAttribute]; ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// newIDs returns the identifiers of after missing from before, keeping the
// order of after
func newIDs(before, after []string) []string {
	known := make(map[string]bool, len(before))
	for _, id := range before {
		known[id] = true
	}
	var out []string
	for _, id := range after {
		if !known[id] {
			known[id] = true
			out = append(out, id)
		}
	}
	return out
}
