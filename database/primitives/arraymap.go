// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.
//
// The N42 library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The N42 library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the N42 library. If not, see <http://www.gnu.org/licenses/>.

package primitives

import (
	"github.com/n42blockchain/archivestore/database/dberr"
	"github.com/n42blockchain/archivestore/database/file"
)

// Arraymap is a dense, identity-indexed array: each slot holds a link into
// a body record. Unlike Hashmap there is no key, no sieve, and no bucket
// math — the index is the key.
type Arraymap struct {
	Head *Head
	Body *Body
}

// NewArraymap constructs an Arraymap over head (which must be KindArray)
// and body.
func NewArraymap(head *Head, body *Body) *Arraymap {
	return &Arraymap{Head: head, Body: body}
}

// Create zeros the body counter and initializes the head's array.
func (a *Arraymap) Create() error {
	a.Body.SetCount(0)
	return a.Head.Create()
}

// Verify checks the head's size and that its body-count agrees with the
// body's allocation counter.
func (a *Arraymap) Verify() error {
	if err := a.Head.Verify(); err != nil {
		return err
	}
	persisted, err := a.Head.GetBodyCount()
	if err != nil {
		return err
	}
	if persisted != a.Body.Count() {
		return dberr.ErrIntegrity
	}
	return nil
}

// Count returns the number of addressable slots.
func (a *Arraymap) Count() uint64 { return a.Head.Buckets() }

// BodyCount returns the body's allocation counter.
func (a *Arraymap) BodyCount() Link { return a.Body.Count() }

// SyncBodyCount persists the body's current allocation counter into the
// head's prefix, so a later Verify against a reopened file agrees. The
// store calls this at snapshot and close.
func (a *Arraymap) SyncBodyCount() error { return a.Head.SetBodyCount(a.Body.Count()) }

// LoadBuckets recovers the array's current length from the head file's
// actual size, undoing the reset to the construction-time initial length
// that a fresh NewHead call otherwise implies. Call after Load, not Create.
func (a *Arraymap) LoadBuckets() error { return a.Head.LoadBuckets() }

// RestoreBodyCount loads the body's allocation counter from the head's
// persisted body-count prefix. A freshly constructed Body always starts
// at counter zero, even when Open is re-mapping an existing archive, so
// Open must call this (after Load, before Verify) to recover the real
// counter; otherwise Verify's persisted-vs-counter check fails on every
// non-empty table the moment it's reopened in a new process.
func (a *Arraymap) RestoreBodyCount() error {
	persisted, err := a.Head.GetBodyCount()
	if err != nil {
		return err
	}
	a.Body.SetCount(persisted)
	return nil
}

// Top returns the link stored at index, or terminal if index is beyond
// the array's current extent.
func (a *Arraymap) Top(index uint64) (Link, error) {
	if index >= a.Head.Buckets() {
		return Terminal(a.Head.width), nil
	}
	return a.Head.Top(index)
}

// Get returns a copy of the body bytes at index's link (see GetAt), or
// dberr.ErrUnknownState if the slot is unset.
func (a *Arraymap) Get(index uint64) ([]byte, error) {
	link, err := a.Top(index)
	if err != nil {
		return nil, err
	}
	width := a.Head.width
	if link.IsTerminal(width) {
		return nil, dberr.ErrUnknownState
	}
	return a.GetAt(link)
}

// GetAt returns a copy of the body bytes at a link already resolved via
// Top (or otherwise known). Record lengths are not stored, so the copy runs
// from the link to the end of the body's mapping; the record is its
// leading bytes.
func (a *Arraymap) GetAt(link Link) ([]byte, error) {
	m, err := a.Body.Get(link)
	if err != nil {
		return nil, err
	}
	defer m.Close()
	buf := m.Bytes()
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

// GetMemory returns a live memory handle over the record at link, for
// callers that want to decode in place without copying.
func (a *Arraymap) GetMemory(link Link) (*file.Memory, error) {
	return a.Body.Get(link)
}

// Allocate reserves units (1 for fixed-size record bodies, or the byte
// length for slab bodies) and returns the new link.
func (a *Arraymap) Allocate(units Link) (Link, error) {
	return a.Body.Allocate(units)
}

// SetRaw writes payload into the previously allocated link.
func (a *Arraymap) SetRaw(link Link, payload []byte) error {
	m, err := a.Body.Get(link)
	if err != nil {
		return err
	}
	defer m.Close()
	buf := m.Bytes()
	if len(buf) < len(payload) {
		return dberr.ErrIntegrity
	}
	copy(buf, payload)
	return nil
}

// Commit extends the array to cover index and publishes link as its
// value, returning the slot's prior link (usually terminal).
func (a *Arraymap) Commit(index uint64, link Link) (Link, error) {
	if err := a.Head.Extend(index); err != nil {
		return Terminal(a.Head.width), err
	}
	prev, _, err := a.Head.Push(link, index, 0)
	return prev, err
}

// Put allocates, writes, and commits payload at index, returning the new
// record's link. A second Put at the same index appends a new record and
// overwrites the slot, per the append-only/no-delete record model.
func (a *Arraymap) Put(index uint64, payload []byte) (Link, error) {
	units := Link(len(payload))
	if a.Body.recordSize > 0 {
		units = 1
	}
	link, err := a.Allocate(units)
	if err != nil {
		return Terminal(a.Head.width), err
	}
	if err := a.SetRaw(link, payload); err != nil {
		return Terminal(a.Head.width), err
	}
	return a.Commit(index, link)
}

// Truncate drops the array's view of indices >= count by lowering the
// head's slot count and persisting it with SetArrayLength; used by
// pop_candidate/pop_confirmed. It
// does not reclaim body space (records are never freed).
func (a *Arraymap) Truncate(count uint64) {
	if count < a.Head.buckets {
		a.Head.buckets = count
		_ = a.Head.SetArrayLength(count)
	}
}
