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

// wireSizeIntervalFlag is the high bit of the txs record's flagged_wire_size
// field, set when a merkle_interval trails the tx link array.
const wireSizeIntervalFlag = uint32(1) << 31

// Txs arraymap record (indexed by header link):
//
//	[tx_count:3][flagged_wire_size:4][tx_link * tx_count][merkle_interval:32]?[depth:1]?
//
// merkle_interval is present when the high bit of flagged_wire_size is set.
// depth trails only the genesis slot's record (callers of ToData/FromData
// pass HasDepth explicitly; nothing in the record itself names "genesis").
type TxsRecord struct {
	WireSize      uint32 // 31-bit field; high bit reserved for the interval flag
	TxLinks       []primitives.Link
	MerkleInterval [32]byte
	HasInterval   bool
	Depth         uint8
	HasDepth      bool
}

// ToData encodes the record.
func (t TxsRecord) ToData() []byte {
	w := NewWriter()
	defer w.Release()
	w.WriteUint(uint64(len(t.TxLinks)), 3)
	flagged := t.WireSize &^ wireSizeIntervalFlag
	if t.HasInterval {
		flagged |= wireSizeIntervalFlag
	}
	w.WriteUint(uint64(flagged), 4)
	for _, l := range t.TxLinks {
		w.WriteUint(uint64(l), LinkWidth)
	}
	if t.HasInterval {
		w.WriteBytes(t.MerkleInterval[:])
	}
	if t.HasDepth {
		w.WriteByte(t.Depth)
	}
	out := make([]byte, w.buf.Len())
	copy(out, w.Bytes())
	return out
}

// TxsFromData decodes a txs record. hasDepth must be supplied by the
// caller (true only for the genesis slot), since the record carries no
// self-describing marker for it.
func TxsFromData(payload []byte, hasDepth bool) (TxsRecord, bool) {
	r := NewReader(payload)
	var t TxsRecord
	count := r.ReadUint(3)
	flagged := uint32(r.ReadUint(4))
	t.HasInterval = flagged&wireSizeIntervalFlag != 0
	t.WireSize = flagged &^ wireSizeIntervalFlag
	t.TxLinks = make([]primitives.Link, count)
	for i := range t.TxLinks {
		t.TxLinks[i] = primitives.Link(r.ReadUint(LinkWidth))
	}
	if t.HasInterval {
		copy(t.MerkleInterval[:], r.ReadBytes(32))
	}
	if hasDepth {
		t.Depth = r.ReadByte()
		t.HasDepth = true
	}
	return t, r.Valid()
}

// TxsTable binds the txs arraymap to typed records.
type TxsTable struct {
	am *primitives.Arraymap
}

// NewTxsTable wraps an already-constructed Arraymap primitive.
func NewTxsTable(am *primitives.Arraymap) *TxsTable { return &TxsTable{am: am} }

// Put writes the txs descriptor for the block at header-link index.
func (t *TxsTable) Put(index uint64, rec TxsRecord) (primitives.Link, error) {
	return t.am.Put(index, rec.ToData())
}

// Get decodes the txs descriptor at index. hasDepth selects whether a
// trailing depth byte is expected (true only for the genesis slot).
func (t *TxsTable) Get(index uint64, hasDepth bool) (TxsRecord, error) {
	payload, err := t.am.Get(index)
	if err != nil {
		return TxsRecord{}, err
	}
	rec, ok := TxsFromData(payload, hasDepth)
	if !ok {
		return TxsRecord{}, errShortRecord
	}
	return rec, nil
}
