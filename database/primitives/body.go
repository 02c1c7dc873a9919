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
	"sync/atomic"

	"github.com/n42blockchain/archivestore/database/dberr"
	"github.com/n42blockchain/archivestore/database/file"
)

// Body is the append-only data file underlying a table. When recordSize
// is non-zero, Link is a record index and allocations are measured in
// records (the hashmap/arraymap archives); when recordSize is zero
// ("slab"), Link is a byte offset and allocations are measured in bytes
// (variable-size archives such as input scripts or outputs).
type Body struct {
	file       *file.File
	recordSize int // 0 means slab (byte-addressed)
	linkWidth  int
	count      atomic.Uint64 // records, or bytes for slab bodies
}

// NewBody constructs a Body over file f. recordSize == 0 selects slab mode.
func NewBody(f *file.File, recordSize int, linkWidth int) *Body {
	return &Body{file: f, recordSize: recordSize, linkWidth: linkWidth}
}

func (b *Body) isSlab() bool { return b.recordSize == 0 }

// unitSize returns the byte size of one allocation unit: recordSize for
// record bodies, 1 for slab bodies.
func (b *Body) unitSize() int64 {
	if b.isSlab() {
		return 1
	}
	return int64(b.recordSize)
}

// Count returns the current allocation counter (records, or bytes if slab).
func (b *Body) Count() Link {
	return Link(b.count.Load())
}

// SetCount forcibly sets the allocation counter; used by Create/Restore.
func (b *Body) SetCount(n Link) {
	b.count.Store(uint64(n))
}

// Truncate sets the counter to n, dropping any partial appends beyond it.
// It does not shrink the backing file.
func (b *Body) Truncate(n Link) {
	b.count.Store(uint64(n))
}

// Allocate atomically reserves count units (records, or bytes if slab),
// returning the link to the first reserved unit. allocate(0) returns the
// current count unchanged. Returns terminal on disk-full.
func (b *Body) Allocate(count Link) (Link, error) {
	if count == 0 {
		return Link(b.count.Load()), nil
	}
	reserved := Link(b.count.Add(uint64(count)) - uint64(count))
	end := reserved + count
	required := int64(end) * b.unitSize()
	if err := b.file.EnsureCapacity(required); err != nil {
		return Terminal(b.linkWidth), dberr.ErrDiskFull
	}
	return reserved, nil
}

// Expand reserves backing capacity for count additional units without
// advancing the allocation counter.
func (b *Body) Expand(count Link) error {
	end := Link(b.count.Load()) + count
	required := int64(end) * b.unitSize()
	return b.file.EnsureCapacity(required)
}

// Get returns a memory handle positioned at the byte offset for link.
// Get(terminal) is invalid; callers must check for the terminal link
// themselves.
func (b *Body) Get(link Link) (*file.Memory, error) {
	offset := int64(link) * b.unitSize()
	return b.file.Get(offset)
}

// GetAll returns a whole-file memory handle.
func (b *Body) GetAll() (*file.Memory, error) {
	return b.file.GetAll()
}

// GetFault exposes the underlying file's fault code.
func (b *Body) GetFault() dberr.Kind {
	return b.file.GetFault()
}

// Reload attempts recovery from a prior disk-full fault.
func (b *Body) Reload() error {
	return b.file.Reload()
}

// Flush persists dirty pages to disk.
func (b *Body) Flush() error {
	return b.file.Flush()
}
