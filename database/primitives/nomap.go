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

// Nomap is a pure append-only body with no index of its own: records are
// always located through a link retained by another table (a tx's
// first_point, an outs descriptor's output links). Its companion head
// holds nothing but the persisted body-count prefix, so create/close/
// backup/restore/verify still have somewhere to park that count across a
// snapshot.
type Nomap struct {
	Head *Head // buckets == 0; only the body-count prefix is used
	Body *Body
}

// NewNomap constructs a Nomap over a zero-bucket head and body.
func NewNomap(head *Head, body *Body) *Nomap {
	return &Nomap{Head: head, Body: body}
}

// Create zeros the body counter and the companion head's prefix.
func (n *Nomap) Create() error {
	n.Body.SetCount(0)
	return n.Head.Create()
}

// Verify checks the companion head's body-count against the body's
// allocation counter.
func (n *Nomap) Verify() error {
	persisted, err := n.Head.GetBodyCount()
	if err != nil {
		return err
	}
	if persisted != n.Body.Count() {
		return dberr.ErrIntegrity
	}
	return nil
}

// Count returns the body's allocation counter.
func (n *Nomap) Count() Link { return n.Body.Count() }

// SyncBodyCount persists the body's current allocation counter into the
// head's prefix, so a later Verify against a reopened file agrees. The
// store calls this at snapshot and close.
func (n *Nomap) SyncBodyCount() error { return n.Head.SetBodyCount(n.Body.Count()) }

// LoadBuckets is a no-op: a nomap's head carries nothing but the
// body-count prefix, so there is no array length to recover.
func (n *Nomap) LoadBuckets() error { return nil }

// RestoreBodyCount loads the body's allocation counter from the
// companion head's persisted body-count prefix. A freshly constructed
// Body always starts at counter zero, even when Open is re-mapping an
// existing archive, so Open must call this (after Load, before Verify)
// to recover the real counter; otherwise Verify's persisted-vs-counter
// check fails on every non-empty table the moment it's reopened in a
// new process.
func (n *Nomap) RestoreBodyCount() error {
	persisted, err := n.Head.GetBodyCount()
	if err != nil {
		return err
	}
	n.Body.SetCount(persisted)
	return nil
}

// Allocate reserves units (records, or bytes for a slab body) and returns
// the new link. The caller is responsible for retaining the link — Nomap
// offers no way to rediscover it.
func (n *Nomap) Allocate(units Link) (Link, error) {
	return n.Body.Allocate(units)
}

// Set writes payload at a previously allocated link. There is no commit
// step: a Nomap record becomes visible to any reader holding its link the
// moment the write completes, since nothing indexes it.
func (n *Nomap) Set(link Link, payload []byte) error {
	m, err := n.Body.Get(link)
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

// Put allocates and writes payload in one step, returning the new link.
func (n *Nomap) Put(payload []byte) (Link, error) {
	units := Link(len(payload))
	if n.Body.recordSize > 0 {
		units = 1
	}
	link, err := n.Allocate(units)
	if err != nil {
		return Terminal(n.Head.width), err
	}
	if err := n.Set(link, payload); err != nil {
		return Terminal(n.Head.width), err
	}
	return link, nil
}

// Get returns a copy of the body bytes at link. Record lengths are not
// stored, so the copy runs from link to the end of the body's mapping; the
// record is its leading bytes.
func (n *Nomap) Get(link Link) ([]byte, error) {
	m, err := n.Body.Get(link)
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
func (n *Nomap) GetMemory(link Link) (*file.Memory, error) {
	return n.Body.Get(link)
}

// GetGroup returns a copy of count consecutive fixed-size records starting
// at link, used for contiguous groups such as a tx's point records.
func (n *Nomap) GetGroup(link Link, count int) ([]byte, error) {
	if count == 0 {
		return nil, nil
	}
	unit := n.Body.recordSize
	m, err := n.Body.file.Get(int64(link) * int64(unit))
	if err != nil {
		return nil, err
	}
	defer m.Close()
	buf := m.Bytes()
	total := unit * count
	if len(buf) < total {
		return nil, dberr.ErrIntegrity
	}
	out := make([]byte, total)
	copy(out, buf[:total])
	return out, nil
}
