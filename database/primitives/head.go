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
	"sync"
	"sync/atomic"

	"github.com/n42blockchain/archivestore/database/dberr"
	"github.com/n42blockchain/archivestore/database/file"
)

// HeadKind distinguishes a bucketed hash index from a dense integer array.
type HeadKind int

const (
	// KindHash heads hold bucket_count conflict-list top links, indexed
	// by low_bits(key) & mask.
	KindHash HeadKind = iota
	// KindArray heads hold a dense, externally-extended sequence of
	// links, indexed by identity (small integer keys).
	KindArray
)

// Head is the fixed-size index file of a table: a body-count prefix
// followed by either bucket_count hash-bucket links or a dynamic array of
// index links, each optionally preceded by a sieve word.
type Head struct {
	file  *file.File
	width int // Link byte width
	kind  HeadKind
	sieve bool

	buckets uint64 // fixed slot count for KindHash; current count for KindArray

	// mu guards non-atomic pushes: sieve-bearing slots, or widths that do
	// not fit a native atomic word.
	mu sync.Mutex
}

func slotSize(width int, sieve bool) int {
	if sieve {
		return width + width // sieve word is link-width; word precedes link
	}
	return width
}

// NewHead constructs a Head bound to headFile. buckets is the fixed
// bucket count for KindHash, or the initial array length for KindArray.
func NewHead(headFile *file.File, width int, kind HeadKind, buckets uint64, sieve bool) *Head {
	return &Head{file: headFile, width: width, kind: kind, buckets: buckets, sieve: sieve}
}

// prefixSize is one link-width (the body-count slot) for KindHash, or two
// (body-count plus a persisted array-length slot) for KindArray. A
// KindArray head's length grows over its lifetime via Extend, and the
// backing file's capacity is only ever a ceiling on that length (Load and
// EnsureCapacity both round up), not its exact value — so the real length
// has to be persisted explicitly rather than inferred from file size.
func (h *Head) prefixSize() int64 {
	if h.kind == KindArray {
		return int64(h.width) * 2
	}
	return int64(h.width)
}

func (h *Head) slotOffset(index uint64) int64 {
	return h.prefixSize() + int64(index)*int64(slotSize(h.width, h.sieve))
}

// Create sizes the head file to hold h.buckets slots, fills every slot
// with the terminal link (and a zeroed/empty sieve word if enabled), and
// zeros the body-count prefix.
func (h *Head) Create() error {
	total := h.prefixSize() + int64(h.buckets)*int64(slotSize(h.width, h.sieve))
	if h.file.Size() < total {
		if err := h.file.EnsureCapacity(total); err != nil {
			return err
		}
	}
	mem, err := h.file.GetAll()
	if err != nil {
		return err
	}
	defer mem.Close()

	buf := mem.Bytes()
	for i := int64(0); i < h.prefixSize(); i++ {
		buf[i] = 0
	}
	terminal := Terminal(h.width)
	ss := slotSize(h.width, h.sieve)
	for i := uint64(0); i < h.buckets; i++ {
		off := h.prefixSize() + int64(i)*int64(ss)
		slot := buf[off : off+int64(ss)]
		if h.sieve {
			for j := 0; j < h.width; j++ {
				slot[j] = 0
			}
			PutLink(slot[h.width:], terminal, h.width)
		} else {
			PutLink(slot, terminal, h.width)
		}
	}
	return h.SetArrayLength(h.buckets)
}

// Verify asserts the file is at least big enough to hold the configured
// slot count. The file is commonly larger than this minimum: Load grows
// a fresh file straight to its configured Minimum capacity, and growth
// steps round up by Rate percent, so slack past the logical structure is
// normal. A file smaller than expected, on the other hand, can only mean
// the head was truncated or built against a different bucket count.
func (h *Head) Verify() error {
	expected := h.prefixSize() + int64(h.buckets)*int64(slotSize(h.width, h.sieve))
	if h.file.Size() < expected {
		return dberr.ErrIntegrity
	}
	return nil
}

// GetBodyCount reads the persisted body-count prefix.
func (h *Head) GetBodyCount() (Link, error) {
	mem, err := h.file.Get(0)
	if err != nil {
		return 0, err
	}
	defer mem.Close()
	return GetLink(mem.Bytes()[:h.width], h.width), nil
}

// SetBodyCount writes the body-count prefix.
func (h *Head) SetBodyCount(count Link) error {
	mem, err := h.file.Get(0)
	if err != nil {
		return err
	}
	defer mem.Close()
	PutLink(mem.Bytes()[:h.width], count, h.width)
	return nil
}

// GetArrayLength reads a KindArray head's persisted slot count. A no-op
// returning h.buckets for KindHash, which has no such slot.
func (h *Head) GetArrayLength() (uint64, error) {
	if h.kind != KindArray {
		return h.buckets, nil
	}
	mem, err := h.file.Get(0)
	if err != nil {
		return 0, err
	}
	defer mem.Close()
	return uint64(GetLink(mem.Bytes()[h.width:h.width*2], h.width)), nil
}

// SetArrayLength persists a KindArray head's current slot count. A no-op
// for KindHash.
func (h *Head) SetArrayLength(n uint64) error {
	if h.kind != KindArray {
		return nil
	}
	mem, err := h.file.Get(0)
	if err != nil {
		return err
	}
	defer mem.Close()
	PutLink(mem.Bytes()[h.width:h.width*2], Link(n), h.width)
	return nil
}

// Buckets returns the configured slot count.
func (h *Head) Buckets() uint64 { return h.buckets }

// LoadBuckets recovers a KindArray head's current slot count from its
// persisted array-length slot. A KindArray head's length grows over its
// lifetime (Extend), so the value a store passed to NewHead at
// construction time is only the initial length; after Open re-loads an
// existing file, this restores the real length as of the last Extend or
// Create. The backing file's capacity is never a reliable stand-in for
// this value, since Load and EnsureCapacity both round a file's size up
// past what the logical structure actually needs. A no-op for KindHash,
// whose bucket count is a fixed schema setting.
func (h *Head) LoadBuckets() error {
	if h.kind != KindArray {
		return nil
	}
	n, err := h.GetArrayLength()
	if err != nil {
		return err
	}
	h.buckets = n
	return nil
}

// Enabled reports whether the hash table has more than one bucket.
func (h *Head) Enabled() bool { return h.buckets > 1 }

// Mask returns the bucket-index mask for the configured bucket count
// (bucket_count must be a power of two).
func (h *Head) Mask() uint64 {
	if h.buckets == 0 {
		return 0
	}
	return h.buckets - 1
}

// Extend grows a KindArray head so that index slots up to (and including)
// target are addressable, filling new slots with terminal.
func (h *Head) Extend(target uint64) error {
	if h.kind != KindArray {
		return nil
	}
	if target < h.buckets {
		return nil
	}
	newCount := target + 1
	ss := slotSize(h.width, h.sieve)
	total := h.prefixSize() + int64(newCount)*int64(ss)
	if err := h.file.EnsureCapacity(total); err != nil {
		return err
	}
	mem, err := h.file.GetAll()
	if err != nil {
		return err
	}
	defer mem.Close()
	buf := mem.Bytes()
	terminal := Terminal(h.width)
	for i := h.buckets; i < newCount; i++ {
		off := h.prefixSize() + int64(i)*int64(ss)
		slot := buf[off : off+int64(ss)]
		if h.sieve {
			for j := 0; j < h.width; j++ {
				slot[j] = 0
			}
			PutLink(slot[h.width:], terminal, h.width)
		} else {
			PutLink(slot, terminal, h.width)
		}
	}
	h.buckets = newCount
	return h.SetArrayLength(newCount)
}

// Top returns the current link at the given bucket/index slot.
func (h *Head) Top(index uint64) (Link, error) {
	mem, err := h.file.Get(0)
	if err != nil {
		return 0, err
	}
	defer mem.Close()
	buf := mem.Bytes()
	ss := slotSize(h.width, h.sieve)
	off := h.slotOffset(index)
	if off+int64(ss) > int64(len(buf)) {
		return Terminal(h.width), nil
	}
	slot := buf[off : off+int64(ss)]
	if h.sieve {
		return GetLink(slot[h.width:], h.width), nil
	}
	return GetLink(slot, h.width), nil
}

// TestSieve reports whether fp is possibly present in the bucket's sieve.
// Always true when sieves are disabled.
func (h *Head) TestSieve(index uint64, fp uint64) (bool, error) {
	if !h.sieve {
		return true, nil
	}
	mem, err := h.file.Get(0)
	if err != nil {
		return true, err
	}
	defer mem.Close()
	buf := mem.Bytes()
	off := h.slotOffset(index)
	word := GetLink(buf[off:off+int64(h.width)], h.width)
	return sieveTest(uint64(word), h.width, fp), nil
}

// atomicEligible reports whether the link-only slot (no sieve) can be
// pushed with a lock-free atomic exchange: it must be aligned and no
// wider than a native machine word.
func (h *Head) atomicEligible() bool {
	return !h.sieve && (h.width == 4 || h.width == 8)
}

// Push atomically writes newLink at the given slot and returns the prior
// value (the new record's next-link). When sieves are enabled, fp is the
// key's fingerprint; Push also updates the bucket's sieve and reports
// whether the fingerprint collided with the existing screen.
func (h *Head) Push(newLink Link, index uint64, fp uint64) (previous Link, collision bool, err error) {
	mem, err := h.file.Get(0)
	if err != nil {
		return 0, false, err
	}
	defer mem.Close()
	buf := mem.Bytes()
	off := h.slotOffset(index)

	if h.atomicEligible() {
		switch h.width {
		case 4:
			p := (*uint32)(ptr32(buf[off : off+4]))
			prev := atomic.SwapUint32(p, uint32(newLink))
			return Link(prev), false, nil
		case 8:
			p := (*uint64)(ptr64(buf[off : off+8]))
			prev := atomic.SwapUint64(p, uint64(newLink))
			return Link(prev), false, nil
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ss := slotSize(h.width, h.sieve)
	slot := buf[off : off+int64(ss)]
	if h.sieve {
		word := GetLink(slot[:h.width], h.width)
		updated, coll := sieveInsert(uint64(word), h.width, fp)
		PutLink(slot[:h.width], Link(updated), h.width)
		prev := GetLink(slot[h.width:], h.width)
		PutLink(slot[h.width:], newLink, h.width)
		return prev, coll, nil
	}

	prev := GetLink(slot, h.width)
	PutLink(slot, newLink, h.width)
	return prev, false, nil
}
