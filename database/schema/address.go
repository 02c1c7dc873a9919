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

// Address record layout: [output_link:4], keyed by a 32-byte script hash.
// One script hash accumulates one record per output paying to it, linked
// through the hashmap's conflict chain — there is no single "the" address
// record, only the set reachable by iterating a script hash's chain.
const addressPayloadSize = LinkWidth
const addressRecordSize = LinkWidth + HashKeyLen + addressPayloadSize

// AddressRecord is the decoded form of an address table record.
type AddressRecord struct {
	OutputLink primitives.Link
}

// ToData encodes the record's payload.
func (a AddressRecord) ToData() []byte {
	w := NewWriter()
	defer w.Release()
	w.WriteUint(uint64(a.OutputLink), LinkWidth)
	out := make([]byte, w.buf.Len())
	copy(out, w.Bytes())
	return out
}

// AddressFromData decodes an address payload.
func AddressFromData(payload []byte) (AddressRecord, bool) {
	r := NewReader(payload)
	var a AddressRecord
	a.OutputLink = primitives.Link(r.ReadUint(LinkWidth))
	return a, r.Valid()
}

// AddressTable binds the address hashmap to typed records.
type AddressTable struct {
	hm *primitives.Hashmap
}

// NewAddressTable wraps an already-constructed Hashmap primitive.
func NewAddressTable(hm *primitives.Hashmap) *AddressTable { return &AddressTable{hm: hm} }

// Put associates a new output under scriptHash, chaining onto any prior
// outputs paying the same script.
func (t *AddressTable) Put(scriptHash [32]byte, rec AddressRecord) (primitives.Link, error) {
	return t.hm.Put(scriptHash[:], rec.ToData())
}

// It returns an iterator over every output paying scriptHash, most
// recent first.
func (t *AddressTable) It(scriptHash [32]byte) (*primitives.Iterator, error) {
	return t.hm.It(scriptHash[:])
}

// GetAt decodes the record stored at link.
func (t *AddressTable) GetAt(link primitives.Link) (AddressRecord, error) {
	payload, err := t.hm.Get(link)
	if err != nil {
		return AddressRecord{}, err
	}
	rec, ok := AddressFromData(payload)
	if !ok {
		return AddressRecord{}, errShortRecord
	}
	return rec, nil
}
