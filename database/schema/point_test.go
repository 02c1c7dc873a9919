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
	"testing"

	"github.com/n42blockchain/archivestore/database/primitives"
)

func TestPointRecordRoundTrip(t *testing.T) {
	rec := PointRecord{
		PrevoutHash:  hash32(0x55),
		PrevoutIndex: 2,
		Sequence:     0xffffffff,
		InputLink:    5,
		ParentTx:     9,
	}
	got, ok := PointFromData(rec.ToData())
	if !ok {
		t.Fatalf("decode failed")
	}
	if got != rec {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, rec)
	}
}

func TestPointIsNullPrevout(t *testing.T) {
	coinbase := PointRecord{PrevoutIndex: uint32(primitives.Terminal(3))}
	if !coinbase.IsNullPrevout() {
		t.Fatalf("expected terminal prevout_index to be null")
	}
	spend := PointRecord{PrevoutIndex: 3}
	if spend.IsNullPrevout() {
		t.Fatalf("expected ordinary prevout_index to not be null")
	}
}

func TestPointTablePutGroupAndGetGroup(t *testing.T) {
	nm := newTestNomap(t, pointRecordSize)
	table := NewPointTable(nm)

	points := []PointRecord{
		{PrevoutHash: hash32(0x01), Sequence: 1, InputLink: 1, ParentTx: 100},
		{PrevoutHash: hash32(0x02), Sequence: 2, InputLink: 2, ParentTx: 100},
		{PrevoutHash: hash32(0x03), Sequence: 3, InputLink: 3, ParentTx: 100},
	}
	start, err := table.PutGroup(points)
	if err != nil {
		t.Fatalf("put group: %v", err)
	}

	got, err := table.GetGroup(start, len(points))
	if err != nil {
		t.Fatalf("get group: %v", err)
	}
	for i := range points {
		if got[i] != points[i] {
			t.Fatalf("point %d mismatch: got %+v want %+v", i, got[i], points[i])
		}
	}
}

func TestPointTablePutGroupEmpty(t *testing.T) {
	nm := newTestNomap(t, pointRecordSize)
	table := NewPointTable(nm)
	link, err := table.PutGroup(nil)
	if err != nil {
		t.Fatalf("put group: %v", err)
	}
	if link != 0 {
		t.Fatalf("expected link 0 for empty group, got %v", link)
	}
}
