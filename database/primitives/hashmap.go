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
	"bytes"

	"github.com/n42blockchain/archivestore/database/dberr"
)

// Hashmap is a chained hash table keyed by a fixed-length byte prefix.
// Record layout in the body is [next-link][key][payload]; payload is
// recordSize-width-keyLen bytes for fixed-size tables, or variable length
// for slab tables (recordSize == 0 at construction).
//
// Get/First and the iterator return copies or links, and close every
// *file.Memory handle they open before returning, so no result holds the
// body's remap lock.
type Hashmap struct {
	Head *Head
	Body *Body

	keyLen     int
	linkWidth  int
	recordSize int // 0 for slab
}

// NewHashmap constructs a Hashmap over head/body. recordSize is the full
// on-disk record size (next + key + payload) for fixed-size tables, or 0
// to select slab (variable payload length) mode.
func NewHashmap(head *Head, body *Body, keyLen, linkWidth, recordSize int) *Hashmap {
	return &Hashmap{Head: head, Body: body, keyLen: keyLen, linkWidth: linkWidth, recordSize: recordSize}
}

func (h *Hashmap) prefixLen() int { return h.linkWidth + h.keyLen }

// Create zeros the body counter and initializes the head's bucket array.
func (h *Hashmap) Create() error {
	h.Body.SetCount(0)
	return h.Head.Create()
}

// Verify checks the head's size and that its body-count agrees with the
// body's allocation counter.
func (h *Hashmap) Verify() error {
	if err := h.Head.Verify(); err != nil {
		return err
	}
	persisted, err := h.Head.GetBodyCount()
	if err != nil {
		return err
	}
	if persisted != h.Body.Count() {
		return dberr.ErrIntegrity
	}
	return nil
}

// Buckets returns the configured bucket count.
func (h *Hashmap) Buckets() uint64 { return h.Head.Buckets() }

// Enabled reports whether the table has more than one bucket.
func (h *Hashmap) Enabled() bool { return h.Head.Enabled() }

// Count returns the body's allocation counter.
func (h *Hashmap) Count() Link { return h.Body.Count() }

// SyncBodyCount persists the body's current allocation counter into the
// head's prefix, so a later Verify against a reopened file agrees. The
// store calls this at snapshot and close.
func (h *Hashmap) SyncBodyCount() error { return h.Head.SetBodyCount(h.Body.Count()) }

// LoadBuckets is a no-op: a hashmap's bucket count is a fixed schema
// setting, not something Open needs to recover from file size.
func (h *Hashmap) LoadBuckets() error { return nil }

// RestoreBodyCount loads the body's allocation counter from the head's
// persisted body-count prefix. A freshly constructed Body always starts
// at counter zero, even when Open is re-mapping an existing archive, so
// Open must call this (after Load, before Verify) to recover the real
// counter; otherwise Verify's persisted-vs-counter check fails on every
// non-empty table the moment it's reopened in a new process.
func (h *Hashmap) RestoreBodyCount() error {
	persisted, err := h.Head.GetBodyCount()
	if err != nil {
		return err
	}
	h.Body.SetCount(persisted)
	return nil
}

func (h *Hashmap) bucketOf(key []byte) uint64 {
	var v uint64
	n := len(key)
	if n > 8 {
		n = 8
	}
	for i := 0; i < n; i++ {
		v |= uint64(key[i]) << (8 * uint(i))
	}
	return v & h.Head.Mask()
}

// readRecord reads the next-link and stored key at link, returning the
// memory handle still positioned for payload access by the caller.
func (h *Hashmap) readRecord(link Link) (mem memoryLike, next Link, key []byte, err error) {
	m, err := h.Body.Get(link)
	if err != nil {
		return nil, 0, nil, err
	}
	buf := m.Bytes()
	if len(buf) < h.prefixLen() {
		m.Close()
		return nil, 0, nil, dberr.ErrIntegrity
	}
	next = GetLink(buf[:h.linkWidth], h.linkWidth)
	key = buf[h.linkWidth:h.prefixLen()]
	return m, next, key, nil
}

// memoryLike is the subset of *file.Memory this package touches, factored
// out so read helpers don't need to import the file package's handle type
// directly in signatures.
type memoryLike interface {
	Bytes() []byte
	Close()
}

// First returns the link of the most recently inserted record with key,
// or terminal if none exists. It consults the bucket sieve before
// touching the body.
func (h *Hashmap) First(key []byte) (Link, error) {
	if !h.Enabled() {
		return Terminal(h.linkWidth), nil
	}
	bucket := h.bucketOf(key)
	if h.Head.sieve {
		possible, err := h.Head.TestSieve(bucket, Fingerprint(key))
		if err != nil {
			return Terminal(h.linkWidth), err
		}
		if !possible {
			return Terminal(h.linkWidth), nil
		}
	}
	top, err := h.Head.Top(bucket)
	if err != nil {
		return Terminal(h.linkWidth), err
	}
	return h.walk(top, key)
}

func (h *Hashmap) walk(start Link, key []byte) (Link, error) {
	terminal := Terminal(h.linkWidth)
	link := start
	steps := uint64(0)
	limit := uint64(h.Body.Count()) + 1
	for link != terminal {
		if steps > limit {
			// Conflict chains must terminate within body.count() steps
			// (invariant 2); exceeding it indicates corruption, not a
			// legitimate long chain.
			return terminal, dberr.ErrIntegrity
		}
		steps++
		mem, next, storedKey, err := h.readRecord(link)
		if err != nil {
			return terminal, err
		}
		match := bytes.Equal(storedKey, key)
		mem.Close()
		if match {
			return link, nil
		}
		link = next
	}
	return terminal, nil
}

// Exists reports whether any record with key exists.
func (h *Hashmap) Exists(key []byte) (bool, error) {
	link, err := h.First(key)
	if err != nil {
		return false, err
	}
	return !link.IsTerminal(h.linkWidth), nil
}

// GetKey returns the search key stored at link.
func (h *Hashmap) GetKey(link Link) ([]byte, error) {
	mem, _, key, err := h.readRecord(link)
	if err != nil {
		return nil, err
	}
	defer mem.Close()
	out := make([]byte, len(key))
	copy(out, key)
	return out, nil
}

// Get returns a copy of the payload bytes stored at link. A slab record's
// length is not stored, so for slab tables the copy runs from the payload
// start to the end of the body's mapping; the caller's codec delimits it.
func (h *Hashmap) Get(link Link) ([]byte, error) {
	m, err := h.Body.Get(link)
	if err != nil {
		return nil, err
	}
	defer m.Close()
	buf := m.Bytes()
	if len(buf) < h.prefixLen() {
		return nil, dberr.ErrIntegrity
	}
	var payload []byte
	if h.recordSize > 0 {
		end := h.recordSize
		if end > len(buf) {
			return nil, dberr.ErrIntegrity
		}
		payload = buf[h.prefixLen():end]
	} else {
		payload = buf[h.prefixLen():]
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

// Allocate reserves units (1 record for fixed-size tables, or the total
// record byte length for slab tables) and returns the new link.
func (h *Hashmap) Allocate(units Link) (Link, error) {
	return h.Body.Allocate(units)
}

// SetRaw writes [placeholder-next][key][payload] into the previously
// allocated link. The record is not yet visible to readers.
func (h *Hashmap) SetRaw(link Link, key, payload []byte) error {
	total := h.prefixLen() + len(payload)
	m, err := h.Body.Get(link)
	if err != nil {
		return err
	}
	defer m.Close()
	buf := m.Bytes()
	if len(buf) < total {
		return dberr.ErrIntegrity
	}
	PutLink(buf[:h.linkWidth], Terminal(h.linkWidth), h.linkWidth)
	copy(buf[h.linkWidth:h.prefixLen()], key)
	copy(buf[h.prefixLen():total], payload)
	return nil
}

// Commit publishes the record at link to key: it swaps the bucket's top
// link to point at link and writes the evicted prior top into link's
// next-link field. This is the single visibility point (invariant 6).
func (h *Hashmap) Commit(link Link, key []byte) (Link, error) {
	bucket := h.bucketOf(key)
	prev, _, err := h.Head.Push(link, bucket, Fingerprint(key))
	if err != nil {
		return Terminal(h.linkWidth), err
	}
	m, err := h.Body.Get(link)
	if err != nil {
		return Terminal(h.linkWidth), err
	}
	defer m.Close()
	PutLink(m.Bytes()[:h.linkWidth], prev, h.linkWidth)
	return link, nil
}

// Put allocates, sets, and commits payload under key, returning the new
// record's link. Put is not idempotent: it always prepends a new record.
func (h *Hashmap) Put(key, payload []byte) (Link, error) {
	var units Link
	if h.recordSize > 0 {
		units = 1
	} else {
		units = Link(h.prefixLen() + len(payload))
	}
	link, err := h.Allocate(units)
	if err != nil {
		return Terminal(h.linkWidth), err
	}
	if err := h.SetRaw(link, key, payload); err != nil {
		return Terminal(h.linkWidth), err
	}
	return h.Commit(link, key)
}

// PutIf is idempotent: if key already exists, it returns the existing
// record's link without appending a new one.
func (h *Hashmap) PutIf(key, payload []byte) (Link, error) {
	if existing, err := h.First(key); err != nil {
		return Terminal(h.linkWidth), err
	} else if !existing.IsTerminal(h.linkWidth) {
		return existing, nil
	}
	return h.Put(key, payload)
}

// Iterator walks the conflict chain for a search key, skipping records
// whose stored key does not match.
type Iterator struct {
	hm   *Hashmap
	key  []byte
	link Link
	err  error
}

// It returns an iterator positioned at the first match for key (or
// terminal). Advance with Next.
func (h *Hashmap) It(key []byte) (*Iterator, error) {
	first, err := h.First(key)
	if err != nil {
		return nil, err
	}
	return &Iterator{hm: h, key: key, link: first}, nil
}

// Link returns the iterator's current link (terminal past the end).
func (it *Iterator) Link() Link { return it.link }

// Err returns the first error encountered while walking.
func (it *Iterator) Err() error { return it.err }

// Next advances the iterator to the next record sharing the search key,
// returning false at end of chain or on error.
func (it *Iterator) Next() bool {
	terminal := Terminal(it.hm.linkWidth)
	if it.link == terminal || it.err != nil {
		return false
	}
	mem, next, _, err := it.hm.readRecord(it.link)
	if err != nil {
		it.err = err
		it.link = terminal
		return false
	}
	mem.Close()
	nextLink, err := it.hm.walk(next, it.key)
	if err != nil {
		it.err = err
		it.link = terminal
		return false
	}
	it.link = nextLink
	return it.link != terminal
}
