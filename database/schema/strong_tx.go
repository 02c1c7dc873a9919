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

// StrongTx record layout: [header_link:4][positive:1], keyed by tx hash.
// A transaction accumulates one record per block it was confirmed strong
// in; Positive distinguishes a strengthening from a later reorg's
// weakening record sharing the same hash. Walk the conflict chain via It
// to find the record for a specific header_link.
const strongTxPayloadSize = LinkWidth + 1
const strongTxRecordSize = LinkWidth + HashKeyLen + strongTxPayloadSize

// StrongTxRecord is the decoded form of a strong_tx table record.
type StrongTxRecord struct {
	HeaderLink primitives.Link
	Positive   bool
}

// ToData encodes the record's payload.
func (s StrongTxRecord) ToData() []byte {
	w := NewWriter()
	defer w.Release()
	w.WriteUint(uint64(s.HeaderLink), LinkWidth)
	w.WriteBool(s.Positive)
	out := make([]byte, w.buf.Len())
	copy(out, w.Bytes())
	return out
}

// StrongTxFromData decodes a strong_tx payload.
func StrongTxFromData(payload []byte) (StrongTxRecord, bool) {
	r := NewReader(payload)
	var s StrongTxRecord
	s.HeaderLink = primitives.Link(r.ReadUint(LinkWidth))
	s.Positive = r.ReadBool()
	return s, r.Valid()
}

// StrongTxTable binds the strong_tx hashmap to typed records.
type StrongTxTable struct {
	hm *primitives.Hashmap
}

// NewStrongTxTable wraps an already-constructed Hashmap primitive.
func NewStrongTxTable(hm *primitives.Hashmap) *StrongTxTable {
	return &StrongTxTable{hm: hm}
}

// Put inserts a new strong_tx record under hash, chaining onto any prior
// records sharing it.
func (t *StrongTxTable) Put(hash [32]byte, rec StrongTxRecord) (primitives.Link, error) {
	return t.hm.Put(hash[:], rec.ToData())
}

// It returns an iterator over every record sharing hash, most recent
// first — used to find the record matching a specific header_link.
func (t *StrongTxTable) It(hash [32]byte) (*primitives.Iterator, error) {
	return t.hm.It(hash[:])
}

// GetAt decodes the record stored at link.
func (t *StrongTxTable) GetAt(link primitives.Link) (StrongTxRecord, error) {
	payload, err := t.hm.Get(link)
	if err != nil {
		return StrongTxRecord{}, err
	}
	rec, ok := StrongTxFromData(payload)
	if !ok {
		return StrongTxRecord{}, errShortRecord
	}
	return rec, nil
}
