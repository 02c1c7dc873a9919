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

package schema

import "github.com/n42blockchain/archivestore/database/primitives"

// Header record layout: [context:12][milestone:1][parent_link:4]
// [version:4][timestamp:4][bits:4][nonce:4][merkle_root:32], keyed by the
// 32-byte block hash.
const headerPayloadSize = 12 + 1 + 4 + 4 + 4 + 4 + 4 + 32
const headerRecordSize = LinkWidth + HashKeyLen + headerPayloadSize

// HeaderRecord is the decoded form of a header table record.
type HeaderRecord struct {
	Context    [12]byte
	Milestone  bool
	ParentLink primitives.Link
	Version    uint32
	Timestamp  uint32
	Bits       uint32
	Nonce      uint32
	MerkleRoot [32]byte
}

// ToData encodes the record's payload (excluding the next-link/key prefix
// that Hashmap manages).
func (h HeaderRecord) ToData() []byte {
	w := NewWriter()
	defer w.Release()
	w.WriteBytes(h.Context[:])
	w.WriteBool(h.Milestone)
	w.WriteUint(uint64(h.ParentLink), LinkWidth)
	w.WriteUint(uint64(h.Version), 4)
	w.WriteUint(uint64(h.Timestamp), 4)
	w.WriteUint(uint64(h.Bits), 4)
	w.WriteUint(uint64(h.Nonce), 4)
	w.WriteBytes(h.MerkleRoot[:])
	out := make([]byte, w.buf.Len())
	copy(out, w.Bytes())
	return out
}

// HeaderFromData decodes a header payload, returning ok=false on a short
// or malformed read.
func HeaderFromData(payload []byte) (HeaderRecord, bool) {
	r := NewReader(payload)
	var h HeaderRecord
	copy(h.Context[:], r.ReadBytes(12))
	h.Milestone = r.ReadBool()
	h.ParentLink = primitives.Link(r.ReadUint(LinkWidth))
	h.Version = uint32(r.ReadUint(4))
	h.Timestamp = uint32(r.ReadUint(4))
	h.Bits = uint32(r.ReadUint(4))
	h.Nonce = uint32(r.ReadUint(4))
	copy(h.MerkleRoot[:], r.ReadBytes(32))
	return h, r.Valid()
}

// HeaderTable binds the header hashmap to typed records.
type HeaderTable struct {
	hm *primitives.Hashmap
}

// NewHeaderTable wraps an already-constructed Hashmap primitive.
func NewHeaderTable(hm *primitives.Hashmap) *HeaderTable { return &HeaderTable{hm: hm} }

// Put inserts a new header record under its block hash, returning its link.
func (t *HeaderTable) Put(hash [32]byte, rec HeaderRecord) (primitives.Link, error) {
	return t.hm.Put(hash[:], rec.ToData())
}

// Get returns the most recently inserted record for hash.
func (t *HeaderTable) Get(hash [32]byte) (HeaderRecord, primitives.Link, error) {
	link, err := t.hm.First(hash[:])
	if err != nil {
		return HeaderRecord{}, link, err
	}
	if link.IsTerminal(LinkWidth) {
		return HeaderRecord{}, link, nil
	}
	rec, err := t.GetAt(link)
	return rec, link, err
}

// GetAt decodes the record stored at a link already resolved by the caller.
func (t *HeaderTable) GetAt(link primitives.Link) (HeaderRecord, error) {
	payload, err := t.hm.Get(link)
	if err != nil {
		return HeaderRecord{}, err
	}
	rec, ok := HeaderFromData(payload)
	if !ok {
		return HeaderRecord{}, errShortRecord
	}
	return rec, nil
}

// Exists reports whether any header record exists for hash.
func (t *HeaderTable) Exists(hash [32]byte) (bool, error) {
	return t.hm.Exists(hash[:])
}
