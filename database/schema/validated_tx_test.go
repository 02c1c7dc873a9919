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

import "testing"

func TestValidatedTxRecordRoundTrip(t *testing.T) {
	rec := ValidatedTxRecord{Context: 1, StateCode: 2, Fee: 1000, Sigops: 80}
	got, ok := ValidatedTxFromData(rec.ToData())
	if !ok {
		t.Fatalf("decode failed")
	}
	if got != rec {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, rec)
	}
}

func TestValidatedTxTableMultipleContexts(t *testing.T) {
	hm := newTestHashmap(t, 64, true, HashKeyLen, validatedTxRecordSize)
	table := NewValidatedTxTable(hm)

	h := hash32(0x77)
	if _, err := table.Put(h, ValidatedTxRecord{Context: 1, StateCode: 0, Fee: 10}); err != nil {
		t.Fatalf("put first: %v", err)
	}
	second, err := table.Put(h, ValidatedTxRecord{Context: 2, StateCode: 1, Fee: 20})
	if err != nil {
		t.Fatalf("put second: %v", err)
	}

	got, err := table.GetAt(second)
	if err != nil {
		t.Fatalf("get at: %v", err)
	}
	if got.Context != 2 || got.Fee != 20 {
		t.Fatalf("unexpected record: %+v", got)
	}
}
