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

// OutputRecord holds a single output: its owning transaction's link, its
// value in satoshis, and a length-prefixed script. Outputs are pure body
// records reached only through an outs descriptor.
type OutputRecord struct {
	ParentTx primitives.Link
	Value    uint64
	Script   []byte
}

// ToData encodes the record.
func (o OutputRecord) ToData() []byte {
	w := NewWriter()
	defer w.Release()
	w.WriteUint(uint64(o.ParentTx), LinkWidth)
	w.WriteUint(o.Value, 8)
	w.WriteVarint(uint64(len(o.Script)))
	w.WriteBytes(o.Script)
	out := make([]byte, w.buf.Len())
	copy(out, w.Bytes())
	return out
}

// OutputFromData decodes an output record.
func OutputFromData(payload []byte) (OutputRecord, bool) {
	r := NewReader(payload)
	var o OutputRecord
	o.ParentTx = primitives.Link(r.ReadUint(LinkWidth))
	o.Value = r.ReadUint(8)
	scriptLen := r.ReadVarint()
	o.Script = r.ReadBytes(int(scriptLen))
	return o, r.Valid()
}

// OutputTable binds the output nomap to typed records.
type OutputTable struct {
	nm *primitives.Nomap
}

// NewOutputTable wraps an already-constructed Nomap primitive.
func NewOutputTable(nm *primitives.Nomap) *OutputTable { return &OutputTable{nm: nm} }

// Put appends an output record, returning its link.
func (t *OutputTable) Put(rec OutputRecord) (primitives.Link, error) {
	return t.nm.Put(rec.ToData())
}

// Get decodes the record at link. The script length is self-delimiting,
// so decoding reads directly from the mapped region rather than copying
// the remaining body file tail.
func (t *OutputTable) Get(link primitives.Link) (OutputRecord, error) {
	mem, err := t.nm.GetMemory(link)
	if err != nil {
		return OutputRecord{}, err
	}
	defer mem.Close()
	rec, ok := OutputFromData(mem.Bytes())
	if !ok {
		return OutputRecord{}, errShortRecord
	}
	rec.Script = append([]byte(nil), rec.Script...)
	return rec, nil
}

// Outs descriptor: an ordered list of output links for one transaction,
// [output_link * count]. Stored as a single nomap record whose length
// (output count) the caller already knows from the transaction record.
type OutsRecord struct {
	Links []primitives.Link
}

// ToData encodes the descriptor.
func (o OutsRecord) ToData() []byte {
	w := NewWriter()
	defer w.Release()
	for _, l := range o.Links {
		w.WriteUint(uint64(l), LinkWidth)
	}
	out := make([]byte, w.buf.Len())
	copy(out, w.Bytes())
	return out
}

// OutsFromData decodes a descriptor of the given output count.
func OutsFromData(payload []byte, count int) (OutsRecord, bool) {
	r := NewReader(payload)
	rec := OutsRecord{Links: make([]primitives.Link, count)}
	for i := 0; i < count; i++ {
		rec.Links[i] = primitives.Link(r.ReadUint(LinkWidth))
	}
	return rec, r.Valid()
}

// OutsTable binds the outs nomap to typed descriptors.
type OutsTable struct {
	nm *primitives.Nomap
}

// NewOutsTable wraps an already-constructed Nomap primitive.
func NewOutsTable(nm *primitives.Nomap) *OutsTable { return &OutsTable{nm: nm} }

// Put appends a descriptor, returning its link.
func (t *OutsTable) Put(rec OutsRecord) (primitives.Link, error) {
	return t.nm.Put(rec.ToData())
}

// Get decodes the descriptor of count outputs at link. The descriptor
// carries no length prefix of its own — the caller already knows count
// from the owning transaction's Outputs field.
func (t *OutsTable) Get(link primitives.Link, count int) (OutsRecord, error) {
	mem, err := t.nm.GetMemory(link)
	if err != nil {
		return OutsRecord{}, err
	}
	defer mem.Close()
	rec, ok := OutsFromData(mem.Bytes(), count)
	if !ok {
		return OutsRecord{}, errShortRecord
	}
	return rec, nil
}
