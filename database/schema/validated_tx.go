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

// ValidatedTx record layout: [context:1][state_code:1][fee:8][sigops:4],
// keyed by tx hash. A tx can be individually validated against more than
// one block context (reorgs, duplicate hashes), hence the hashmap's
// multi-value conflict chain rather than a single slot per hash.
const validatedTxPayloadSize = 1 + 1 + 8 + 4
const validatedTxRecordSize = LinkWidth + HashKeyLen + validatedTxPayloadSize

// ValidatedTxRecord is the decoded form of a validated_tx table record.
type ValidatedTxRecord struct {
	Context   uint8
	StateCode uint8
	Fee       uint64
	Sigops    uint32
}

// ToData encodes the record's payload.
func (v ValidatedTxRecord) ToData() []byte {
	w := NewWriter()
	defer w.Release()
	w.WriteByte(v.Context)
	w.WriteByte(v.StateCode)
	w.WriteUint(v.Fee, 8)
	w.WriteUint(uint64(v.Sigops), 4)
	out := make([]byte, w.buf.Len())
	copy(out, w.Bytes())
	return out
}

// ValidatedTxFromData decodes a validated_tx payload.
func ValidatedTxFromData(payload []byte) (ValidatedTxRecord, bool) {
	r := NewReader(payload)
	var v ValidatedTxRecord
	v.Context = r.ReadByte()
	v.StateCode = r.ReadByte()
	v.Fee = r.ReadUint(8)
	v.Sigops = uint32(r.ReadUint(4))
	return v, r.Valid()
}

// ValidatedTxTable binds the validated_tx hashmap to typed records.
type ValidatedTxTable struct {
	hm *primitives.Hashmap
}

// NewValidatedTxTable wraps an already-constructed Hashmap primitive.
func NewValidatedTxTable(hm *primitives.Hashmap) *ValidatedTxTable {
	return &ValidatedTxTable{hm: hm}
}

// Put inserts a new validated_tx record under hash.
func (t *ValidatedTxTable) Put(hash [32]byte, rec ValidatedTxRecord) (primitives.Link, error) {
	return t.hm.Put(hash[:], rec.ToData())
}

// It returns an iterator over every record sharing hash, most recent
// first — used to find the verdict for a specific context.
func (t *ValidatedTxTable) It(hash [32]byte) (*primitives.Iterator, error) {
	return t.hm.It(hash[:])
}

// GetAt decodes the record stored at link.
func (t *ValidatedTxTable) GetAt(link primitives.Link) (ValidatedTxRecord, error) {
	payload, err := t.hm.Get(link)
	if err != nil {
		return ValidatedTxRecord{}, err
	}
	rec, ok := ValidatedTxFromData(payload)
	if !ok {
		return ValidatedTxRecord{}, errShortRecord
	}
	return rec, nil
}
