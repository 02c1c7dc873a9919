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

// Transaction record layout: [coinbase:1][light_size:4][heavy_size:4]
// [locktime:4][version:4][inputs:3][outputs:3][first_point:4]
// [outs_block:4], keyed by the 32-byte tx hash.
//
// Note: the source spec's prose states this record is "27 bytes"; the
// enumerated field list above sums to 31. This implementation follows
// the field list (the authoritative byte-for-byte layout per spec.md
// §4.9) and treats the prose total as a distillation error — see
// DESIGN.md.
const transactionPayloadSize = 1 + 4 + 4 + 4 + 4 + 3 + 3 + 4 + 4
const transactionRecordSize = LinkWidth + HashKeyLen + transactionPayloadSize

// TransactionRecord is the decoded form of a transaction table record.
type TransactionRecord struct {
	Coinbase   bool
	LightSize  uint32
	HeavySize  uint32
	Locktime   uint32
	Version    uint32
	Inputs     uint32 // 3-byte field, values must fit in 24 bits
	Outputs    uint32 // 3-byte field
	FirstPoint primitives.Link
	OutsBlock  primitives.Link
}

// ToData encodes the record's payload.
func (t TransactionRecord) ToData() []byte {
	w := NewWriter()
	defer w.Release()
	w.WriteBool(t.Coinbase)
	w.WriteUint(uint64(t.LightSize), 4)
	w.WriteUint(uint64(t.HeavySize), 4)
	w.WriteUint(uint64(t.Locktime), 4)
	w.WriteUint(uint64(t.Version), 4)
	w.WriteUint(uint64(t.Inputs), 3)
	w.WriteUint(uint64(t.Outputs), 3)
	w.WriteUint(uint64(t.FirstPoint), LinkWidth)
	w.WriteUint(uint64(t.OutsBlock), LinkWidth)
	out := make([]byte, w.buf.Len())
	copy(out, w.Bytes())
	return out
}

// TransactionFromData decodes a transaction payload.
func TransactionFromData(payload []byte) (TransactionRecord, bool) {
	r := NewReader(payload)
	var t TransactionRecord
	t.Coinbase = r.ReadBool()
	t.LightSize = uint32(r.ReadUint(4))
	t.HeavySize = uint32(r.ReadUint(4))
	t.Locktime = uint32(r.ReadUint(4))
	t.Version = uint32(r.ReadUint(4))
	t.Inputs = uint32(r.ReadUint(3))
	t.Outputs = uint32(r.ReadUint(3))
	t.FirstPoint = primitives.Link(r.ReadUint(LinkWidth))
	t.OutsBlock = primitives.Link(r.ReadUint(LinkWidth))
	return t, r.Valid()
}

// TransactionTable binds the transaction hashmap to typed records.
type TransactionTable struct {
	hm *primitives.Hashmap
}

// NewTransactionTable wraps an already-constructed Hashmap primitive.
func NewTransactionTable(hm *primitives.Hashmap) *TransactionTable {
	return &TransactionTable{hm: hm}
}

// Put inserts a new transaction record under its tx hash.
func (t *TransactionTable) Put(hash [32]byte, rec TransactionRecord) (primitives.Link, error) {
	return t.hm.Put(hash[:], rec.ToData())
}

// It returns an iterator over every record sharing hash, most recent
// first — used to walk duplicate tx hashes (e.g. the two historical
// coinbases sharing a hash).
func (t *TransactionTable) It(hash [32]byte) (*primitives.Iterator, error) {
	return t.hm.It(hash[:])
}

// GetKey returns the tx hash stored at link, recovering the key from a
// link alone (the reverse of Put/It, which go by hash).
func (t *TransactionTable) GetKey(link primitives.Link) ([32]byte, error) {
	var hash [32]byte
	key, err := t.hm.GetKey(link)
	if err != nil {
		return hash, err
	}
	copy(hash[:], key)
	return hash, nil
}

// GetAt decodes the record stored at link.
func (t *TransactionTable) GetAt(link primitives.Link) (TransactionRecord, error) {
	payload, err := t.hm.Get(link)
	if err != nil {
		return TransactionRecord{}, err
	}
	rec, ok := TransactionFromData(payload)
	if !ok {
		return TransactionRecord{}, errShortRecord
	}
	return rec, nil
}
