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

// Point record layout: [prevout_hash:32][prevout_index:3][sequence:4]
// [input_link:4][parent_tx:4]. Points are pure body records (no key, no
// next-link) reached only through a transaction's first_point and its
// input count: the contiguous group [first_point, first_point+inputs).
// A terminal prevout_index denotes the null prevout of a coinbase input.
const pointRecordSize = 32 + 3 + 4 + 4 + 4

// PointRecord is the decoded form of a point table record.
type PointRecord struct {
	PrevoutHash  [32]byte
	PrevoutIndex uint32 // 3-byte field; Terminal(3) marks the null prevout
	Sequence     uint32
	InputLink    primitives.Link
	ParentTx     primitives.Link
}

// ToData encodes the record.
func (p PointRecord) ToData() []byte {
	w := NewWriter()
	defer w.Release()
	w.WriteBytes(p.PrevoutHash[:])
	w.WriteUint(uint64(p.PrevoutIndex), 3)
	w.WriteUint(uint64(p.Sequence), 4)
	w.WriteUint(uint64(p.InputLink), LinkWidth)
	w.WriteUint(uint64(p.ParentTx), LinkWidth)
	out := make([]byte, w.buf.Len())
	copy(out, w.Bytes())
	return out
}

// PointFromData decodes a point record.
func PointFromData(payload []byte) (PointRecord, bool) {
	r := NewReader(payload)
	var p PointRecord
	copy(p.PrevoutHash[:], r.ReadBytes(32))
	p.PrevoutIndex = uint32(r.ReadUint(3))
	p.Sequence = uint32(r.ReadUint(4))
	p.InputLink = primitives.Link(r.ReadUint(LinkWidth))
	p.ParentTx = primitives.Link(r.ReadUint(LinkWidth))
	return p, r.Valid()
}

// IsNullPrevout reports whether PrevoutIndex is the terminal sentinel for
// its 3-byte field, marking a coinbase input's absent prevout.
func (p PointRecord) IsNullPrevout() bool {
	return primitives.Link(p.PrevoutIndex).IsTerminal(3)
}

// PointTable binds the point nomap to typed records.
type PointTable struct {
	nm *primitives.Nomap
}

// NewPointTable wraps an already-constructed Nomap primitive.
func NewPointTable(nm *primitives.Nomap) *PointTable { return &PointTable{nm: nm} }

// PutGroup allocates and writes a contiguous run of point records for one
// transaction's inputs, returning the link of the first record.
func (t *PointTable) PutGroup(points []PointRecord) (primitives.Link, error) {
	if len(points) == 0 {
		return t.nm.Body.Count(), nil
	}
	start, err := t.nm.Allocate(primitives.Link(len(points)))
	if err != nil {
		return start, err
	}
	for i, p := range points {
		if err := t.nm.Set(start+primitives.Link(i), p.ToData()); err != nil {
			return start, err
		}
	}
	return start, nil
}

// Get decodes the record at link.
func (t *PointTable) Get(link primitives.Link) (PointRecord, error) {
	payload, err := t.nm.Get(link)
	if err != nil {
		return PointRecord{}, err
	}
	rec, ok := PointFromData(payload)
	if !ok {
		return PointRecord{}, errShortRecord
	}
	return rec, nil
}

// GetGroup decodes count consecutive point records starting at link.
func (t *PointTable) GetGroup(link primitives.Link, count int) ([]PointRecord, error) {
	out := make([]PointRecord, count)
	for i := 0; i < count; i++ {
		rec, err := t.Get(link + primitives.Link(i))
		if err != nil {
			return nil, err
		}
		out[i] = rec
	}
	return out, nil
}
