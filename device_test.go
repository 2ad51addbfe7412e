// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package tiklink

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// memDevice is an in-memory Transport holding records per path
type memDevice struct {
	mu     sync.Mutex
	nextID int
	tables map[string][]AttributeSet

	// commands records every command received
	commands []*Command

	// fail, when set, is consulted before executing a command
	fail func(cmd *Command) (*Result, error)

	// afterAdd runs after a record was added, with the lock held
	afterAdd func(d *memDevice, path string)

	// duplicate makes print return every reply twice
	duplicate bool
}

func newMemDevice() *memDevice {
	return &memDevice{nextID: 1, tables: make(map[string][]AttributeSet)}
}

// insert adds a record; the lock must be held
func (d *memDevice) insert(path string, attrs AttributeSet) string {
	id := fmt.Sprintf("*%X", d.nextID)
	d.nextID++
	rec := attrs.Clone()
	rec[IDAttribute] = id
	d.tables[path] = append(d.tables[path], rec)
	return id
}

func (d *memDevice) seed(path string, items ...AttributeSet) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, item := range items {
		d.insert(path, item)
	}
}

func (d *memDevice) sent() []*Command {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Command(nil), d.commands...)
}

func (d *memDevice) Call(_ context.Context, cmd *Command) (*Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commands = append(d.commands, cmd)

	if d.fail != nil {
		if res, err := d.fail(cmd); res != nil || err != nil {
			return res, err
		}
	}

	switch cmd.Verb {
	case VerbPrint:
		return d.print(cmd)
	case VerbAdd:
		id := d.insert(cmd.Path, cmd.Attributes)
		if d.afterAdd != nil {
			d.afterAdd(d, cmd.Path)
		}
		return &Result{Sentences: []Sentence{{Tag: TagDone, Attributes: AttributeSet{"ret": id}}}}, nil
	case VerbUpdate, VerbRemove:
		id := cmd.Attributes[IDAttribute]
		table := d.tables[cmd.Path]
		for i, rec := range table {
			if rec[IDAttribute] != id {
				continue
			}
			if cmd.Verb == VerbRemove {
				d.tables[cmd.Path] = append(table[:i], table[i+1:]...)
			} else {
				for k, v := range cmd.Attributes {
					rec[k] = v
				}
			}
			return &Result{Sentences: []Sentence{{Tag: TagDone}}}, nil
		}
		return &Result{Trap: AttributeSet{"message": "no such item"}}, nil
	}
	return nil, errors.New("unsupported verb")
}

func (d *memDevice) print(cmd *Command) (*Result, error) {
	res := &Result{}
	for _, rec := range d.tables[cmd.Path] {
		match := true
		for _, q := range cmd.Queries {
			wire, value, ok := ParseQuery(q)
			if !ok {
				return nil, fmt.Errorf("bad query %q", q)
			}
			if rec[wire] != value {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		out := rec.Clone()
		if len(cmd.Properties) > 0 {
			out = make(AttributeSet, len(cmd.Properties))
			for _, p := range cmd.Properties {
				if v, ok := rec[p]; ok {
					out[p] = v
				}
			}
		}
		res.Sentences = append(res.Sentences, Sentence{Tag: TagReply, Attributes: out})
		if d.duplicate {
			res.Sentences = append(res.Sentences, Sentence{Tag: TagReply, Attributes: out.Clone()})
		}
	}
	res.Sentences = append(res.Sentences, Sentence{Tag: TagDone})
	return res, nil
}

func newTestLink(d *memDevice, opts ...func(*Link)) *Link {
	link, err := NewLink(d, opts...)
	if err != nil {
		panic(err)
	}
	return link
}
