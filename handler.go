// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package tiklink

import "context"

// Handler is a per-type view over a Link.
//
// Example:
//
//	leases := tiklink.NewHandler[records.IPDHCPServerLease](link)
//	all, err := leases.List(ctx)
type Handler[R any, P RecordType[R]] struct {
	link *Link
}

// NewHandler returns the handler of record type R
func NewHandler[R any, P RecordType[R]](link *Link) *Handler[R, P] {
	return &Handler[R, P]{link: link}
}

// Path returns the command path of the record type
func (h *Handler[R, P]) Path() string {
	return DescriptorOf[R, P]().Path()
}

// List returns every record of the type, see List
func (h *Handler[R, P]) List(ctx context.Context, mods ...func(*Req)) ([]*R, error) {
	return List[R, P](ctx, h.link, mods...)
}

// Get returns the record with identifier id, see Get
func (h *Handler[R, P]) Get(ctx context.Context, id string, mods ...func(*Req)) (*R, error) {
	return Get[R, P](ctx, h.link, id, mods...)
}

// Add creates r, see Add
func (h *Handler[R, P]) Add(ctx context.Context, r *R, mods ...func(*Req)) error {
	return Add[R, P](ctx, h.link, r, mods...)
}

// Update writes r, see Update
func (h *Handler[R, P]) Update(ctx context.Context, r *R, mods ...func(*Req)) error {
	return Update[R, P](ctx, h.link, r, mods...)
}

// Delete removes r, see Delete
func (h *Handler[R, P]) Delete(ctx context.Context, r *R) error {
	return Delete[R, P](ctx, h.link, r)
}

// DeleteByID removes the record with identifier id
func (h *Handler[R, P]) DeleteByID(ctx context.Context, id string) error {
	return DeleteByID[R, P](ctx, h.link, id)
}
