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

// InputRecord holds an input's variable-length script and witness, each
// length-prefixed with a CompactSize varint. Inputs are pure body records
// reached only through a point record's input_link.
type InputRecord struct {
	Script  []byte
	Witness []byte
}

// ToData encodes the record.
func (in InputRecord) ToData() []byte {
	w := NewWriter()
	defer w.Release()
	w.WriteVarint(uint64(len(in.Script)))
	w.WriteBytes(in.Script)
	w.WriteVarint(uint64(len(in.Witness)))
	w.WriteBytes(in.Witness)
	out := make([]byte, w.buf.Len())
	copy(out, w.Bytes())
	return out
}

// InputFromData decodes an input record.
func InputFromData(payload []byte) (InputRecord, bool) {
	r := NewReader(payload)
	var in InputRecord
	scriptLen := r.ReadVarint()
	in.Script = r.ReadBytes(int(scriptLen))
	witnessLen := r.ReadVarint()
	in.Witness = r.ReadBytes(int(witnessLen))
	return in, r.Valid()
}

// InputTable binds the input nomap to typed records.
type InputTable struct {
	nm *primitives.Nomap
}

// NewInputTable wraps an already-constructed Nomap primitive.
func NewInputTable(nm *primitives.Nomap) *InputTable { return &InputTable{nm: nm} }

// Put appends an input record, returning its link.
func (t *InputTable) Put(rec InputRecord) (primitives.Link, error) {
	return t.nm.Put(rec.ToData())
}

// Get decodes the record at link. Variable-length slab records are
// self-delimiting (each field is length-prefixed), so decoding reads
// directly from the mapped region instead of copying the whole tail of
// the body file.
func (t *InputTable) Get(link primitives.Link) (InputRecord, error) {
	mem, err := t.nm.GetMemory(link)
	if err != nil {
		return InputRecord{}, err
	}
	defer mem.Close()
	rec, ok := InputFromData(mem.Bytes())
	if !ok {
		return InputRecord{}, errShortRecord
	}
	return InputRecord{Script: append([]byte(nil), rec.Script...), Witness: append([]byte(nil), rec.Witness...)}, nil
}
