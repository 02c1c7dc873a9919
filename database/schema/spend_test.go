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

func TestSpendTableUnsetIsUnspent(t *testing.T) {
	am := newTestArraymap(t, spendRecordSize)
	table := NewSpendTable(am)

	unspent, err := table.IsUnspent(0)
	if err != nil {
		t.Fatalf("is unspent: %v", err)
	}
	if !unspent {
		t.Fatalf("expected never-set output to be unspent")
	}
}

func TestSpendTablePutMarksSpent(t *testing.T) {
	am := newTestArraymap(t, spendRecordSize)
	table := NewSpendTable(am)

	if _, err := table.Put(5, 900); err != nil {
		t.Fatalf("put: %v", err)
	}
	link, err := table.Get(5)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if link != 900 {
		t.Fatalf("expected spending tx link 900, got %v", link)
	}
	unspent, err := table.IsUnspent(5)
	if err != nil {
		t.Fatalf("is unspent: %v", err)
	}
	if unspent {
		t.Fatalf("expected output 5 to be spent")
	}
}
