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

// ValidatedBk record layout: [state_code:1][fees:8], indexed by header
// link. Records a whole block's validation verdict and total fees once
// validated; an unset slot means "unvalidated" (see the unassociated /
// unvalidated distinction in the query layer).
const validatedBkRecordSize = 1 + 8

// ValidatedBkRecord is the decoded form of a validated_bk table record.
type ValidatedBkRecord struct {
	StateCode uint8
	Fees      uint64
}

// ToData encodes the record.
func (v ValidatedBkRecord) ToData() []byte {
	w := NewWriter()
	defer w.Release()
	w.WriteByte(v.StateCode)
	w.WriteUint(v.Fees, 8)
	out := make([]byte, w.buf.Len())
	copy(out, w.Bytes())
	return out
}

// ValidatedBkFromData decodes a validated_bk record.
func ValidatedBkFromData(payload []byte) (ValidatedBkRecord, bool) {
	r := NewReader(payload)
	var v ValidatedBkRecord
	v.StateCode = r.ReadByte()
	v.Fees = r.ReadUint(8)
	return v, r.Valid()
}

// ValidatedBkTable binds the validated_bk arraymap to typed records.
type ValidatedBkTable struct {
	am *primitives.Arraymap
}

// NewValidatedBkTable wraps an already-constructed Arraymap primitive.
func NewValidatedBkTable(am *primitives.Arraymap) *ValidatedBkTable {
	return &ValidatedBkTable{am: am}
}

// Put records the verdict for the block at header-link index.
func (t *ValidatedBkTable) Put(index uint64, rec ValidatedBkRecord) (primitives.Link, error) {
	return t.am.Put(index, rec.ToData())
}

// Get decodes the verdict at index. Returns dberr.ErrUnknownState if the
// block has never been validated.
func (t *ValidatedBkTable) Get(index uint64) (ValidatedBkRecord, error) {
	payload, err := t.am.Get(index)
	if err != nil {
		return ValidatedBkRecord{}, err
	}
	rec, ok := ValidatedBkFromData(payload)
	if !ok {
		return ValidatedBkRecord{}, errShortRecord
	}
	return rec, nil
}
