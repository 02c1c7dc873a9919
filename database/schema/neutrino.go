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

// Neutrino is the one hashmap keyed by something other than a hash: its
// key is the 4-byte header link itself, and its payload is a variable-
// length BIP157/158-style compact filter. Keying on the link (rather than
// the block hash) lets a filter lookup skip the header table entirely
// once the link is known. No sieve: one key per record, one record per
// block, so a bloom-style screen buys nothing.
type NeutrinoRecord struct {
	Filter []byte
}

// ToData encodes the record. The filter is varint length-prefixed like
// every other variable-length field in this schema, since a slab record's
// raw bytes otherwise have no way to tell where this record ends and the
// next one (appended immediately after in the body file) begins.
func (n NeutrinoRecord) ToData() []byte {
	w := NewWriter()
	defer w.Release()
	w.WriteVarint(uint64(len(n.Filter)))
	w.WriteBytes(n.Filter)
	out := make([]byte, w.buf.Len())
	copy(out, w.Bytes())
	return out
}

// NeutrinoFromData decodes a neutrino record.
func NeutrinoFromData(payload []byte) (NeutrinoRecord, bool) {
	r := NewReader(payload)
	length := r.ReadVarint()
	filter := r.ReadBytes(int(length))
	return NeutrinoRecord{Filter: append([]byte(nil), filter...)}, r.Valid()
}

// neutrinoKey encodes a header link as the table's 4-byte key.
func neutrinoKey(headerLink primitives.Link) []byte {
	w := NewWriter()
	defer w.Release()
	w.WriteUint(uint64(headerLink), LinkWidth)
	out := make([]byte, w.buf.Len())
	copy(out, w.Bytes())
	return out
}

// NeutrinoTable binds the neutrino hashmap to typed records.
type NeutrinoTable struct {
	hm *primitives.Hashmap
}

// NewNeutrinoTable wraps an already-constructed Hashmap primitive.
func NewNeutrinoTable(hm *primitives.Hashmap) *NeutrinoTable { return &NeutrinoTable{hm: hm} }

// Put stores the filter for the block at headerLink.
func (t *NeutrinoTable) Put(headerLink primitives.Link, rec NeutrinoRecord) (primitives.Link, error) {
	return t.hm.Put(neutrinoKey(headerLink), rec.ToData())
}

// Get returns the filter for the block at headerLink.
func (t *NeutrinoTable) Get(headerLink primitives.Link) (NeutrinoRecord, error) {
	link, err := t.hm.First(neutrinoKey(headerLink))
	if err != nil {
		return NeutrinoRecord{}, err
	}
	return t.GetAt(link)
}

// GetAt decodes the record stored at link.
func (t *NeutrinoTable) GetAt(link primitives.Link) (NeutrinoRecord, error) {
	payload, err := t.hm.Get(link)
	if err != nil {
		return NeutrinoRecord{}, err
	}
	rec, ok := NeutrinoFromData(payload)
	if !ok {
		return NeutrinoRecord{}, errShortRecord
	}
	return rec, nil
}
