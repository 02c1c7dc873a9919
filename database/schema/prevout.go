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

// prevCoinbaseFlag is the high bit of a prevout spend's flagged_prev_tx
// field, marking the spent output's parent as a coinbase.
const prevCoinbaseFlag = uint32(1) << 31

// PrevoutSpend is one spending input's resolved prevout: which tx it
// spends from (terminal for a block-internal spend needing no lookup)
// and the input's sequence number. Stealing the top bit for Coinbase
// means any other PrevTx link of 2^31 or more does not round-trip: its
// top bit reads back as the Coinbase flag.
type PrevoutSpend struct {
	PrevTx   primitives.Link
	Coinbase bool
	Sequence uint32
}

// Prevout arraymap record (indexed by header link): a varint
// conflict_count, that many tx-links identifying txs with duplicate
// hashes in the block's ancestry, then one PrevoutSpend per spending
// input in the block. The spend count is the caller's responsibility
// (derived from the block's txs descriptor), since the record carries
// no count of its own after the conflict list.
type PrevoutRecord struct {
	ConflictTxLinks []primitives.Link
	Spends          []PrevoutSpend
}

// ToData encodes the record.
func (p PrevoutRecord) ToData() []byte {
	w := NewWriter()
	defer w.Release()
	w.WriteVarint(uint64(len(p.ConflictTxLinks)))
	for _, l := range p.ConflictTxLinks {
		w.WriteUint(uint64(l), LinkWidth)
	}
	for _, s := range p.Spends {
		flagged := uint32(s.PrevTx)
		if s.Coinbase {
			flagged |= prevCoinbaseFlag
		}
		w.WriteUint(uint64(flagged), 4)
		w.WriteUint(uint64(s.Sequence), 4)
	}
	out := make([]byte, w.buf.Len())
	copy(out, w.Bytes())
	return out
}

// PrevoutFromData decodes a prevout record given the number of spending
// inputs in the block.
func PrevoutFromData(payload []byte, spendCount int) (PrevoutRecord, bool) {
	r := NewReader(payload)
	var p PrevoutRecord
	conflictCount := r.ReadVarint()
	p.ConflictTxLinks = make([]primitives.Link, conflictCount)
	for i := range p.ConflictTxLinks {
		p.ConflictTxLinks[i] = primitives.Link(r.ReadUint(LinkWidth))
	}
	p.Spends = make([]PrevoutSpend, spendCount)
	for i := range p.Spends {
		flagged := uint32(r.ReadUint(4))
		if primitives.Link(flagged).IsTerminal(4) {
			p.Spends[i] = PrevoutSpend{PrevTx: primitives.Terminal(LinkWidth), Sequence: uint32(r.ReadUint(4))}
			continue
		}
		p.Spends[i] = PrevoutSpend{
			PrevTx:   primitives.Link(flagged &^ prevCoinbaseFlag),
			Coinbase: flagged&prevCoinbaseFlag != 0,
			Sequence: uint32(r.ReadUint(4)),
		}
	}
	return p, r.Valid()
}

// PrevoutTable binds the prevout arraymap to typed records.
type PrevoutTable struct {
	am *primitives.Arraymap
}

// NewPrevoutTable wraps an already-constructed Arraymap primitive.
func NewPrevoutTable(am *primitives.Arraymap) *PrevoutTable { return &PrevoutTable{am: am} }

// Put writes the prevout descriptor for the block at header-link index.
func (t *PrevoutTable) Put(index uint64, rec PrevoutRecord) (primitives.Link, error) {
	return t.am.Put(index, rec.ToData())
}

// Get decodes the prevout descriptor at index, given the block's
// spending-input count.
func (t *PrevoutTable) Get(index uint64, spendCount int) (PrevoutRecord, error) {
	payload, err := t.am.Get(index)
	if err != nil {
		return PrevoutRecord{}, err
	}
	rec, ok := PrevoutFromData(payload, spendCount)
	if !ok {
		return PrevoutRecord{}, errShortRecord
	}
	return rec, nil
}
