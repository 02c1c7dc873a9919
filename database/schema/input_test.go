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

import (
	"bytes"
	"testing"
)

func TestInputRecordRoundTrip(t *testing.T) {
	rec := InputRecord{
		Script:  []byte{0x76, 0xa9, 0x14},
		Witness: []byte{0x02, 0x01, 0x02},
	}
	got, ok := InputFromData(rec.ToData())
	if !ok {
		t.Fatalf("decode failed")
	}
	if !bytes.Equal(got.Script, rec.Script) || !bytes.Equal(got.Witness, rec.Witness) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, rec)
	}
}

func TestInputRecordEmptyFields(t *testing.T) {
	rec := InputRecord{}
	got, ok := InputFromData(rec.ToData())
	if !ok {
		t.Fatalf("decode failed")
	}
	if len(got.Script) != 0 || len(got.Witness) != 0 {
		t.Fatalf("expected empty fields, got %+v", got)
	}
}

func TestInputTablePutGet(t *testing.T) {
	nm := newTestNomap(t, 0)
	table := NewInputTable(nm)

	rec := InputRecord{Script: []byte("script"), Witness: []byte("witness-data")}
	link, err := table.Put(rec)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := table.Get(link)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got.Script, rec.Script) || !bytes.Equal(got.Witness, rec.Witness) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, rec)
	}
}

func TestInputTableMultiplePutsIndependentGets(t *testing.T) {
	nm := newTestNomap(t, 0)
	table := NewInputTable(nm)

	first := InputRecord{Script: []byte("first-script"), Witness: []byte("w1")}
	second := InputRecord{Script: []byte("second"), Witness: []byte("witness-two")}

	l1, err := table.Put(first)
	if err != nil {
		t.Fatalf("put first: %v", err)
	}
	l2, err := table.Put(second)
	if err != nil {
		t.Fatalf("put second: %v", err)
	}

	got1, err := table.Get(l1)
	if err != nil {
		t.Fatalf("get first: %v", err)
	}
	got2, err := table.Get(l2)
	if err != nil {
		t.Fatalf("get second: %v", err)
	}
	if !bytes.Equal(got1.Script, first.Script) {
		t.Fatalf("first script mismatch")
	}
	if !bytes.Equal(got2.Script, second.Script) {
		t.Fatalf("second script mismatch")
	}
}
