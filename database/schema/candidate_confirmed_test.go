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

func TestHeightTablePushGetPop(t *testing.T) {
	am := newTestArraymap(t, LinkWidth)
	table := NewHeightTable(am)

	for h := uint64(0); h < 5; h++ {
		if err := table.Push(h, primitives.Link(100+h)); err != nil {
			t.Fatalf("push(%d): %v", h, err)
		}
	}
	if table.Count() != 5 {
		t.Fatalf("expected count 5, got %d", table.Count())
	}

	link, err := table.Get(3)
	if err != nil {
		t.Fatalf("get(3): %v", err)
	}
	if link != 103 {
		t.Fatalf("expected link 103, got %v", link)
	}

	table.Pop(3)
	if table.Count() != 3 {
		t.Fatalf("expected count 3 after pop, got %d", table.Count())
	}
	if _, err := table.Get(4); err == nil {
		t.Fatalf("expected error reading popped height 4")
	}
}

func TestHeightTablePushOverwritesExistingHeight(t *testing.T) {
	am := newTestArraymap(t, LinkWidth)
	table := NewHeightTable(am)

	if err := table.Push(0, 1); err != nil {
		t.Fatalf("push first: %v", err)
	}
	if err := table.Push(0, 2); err != nil {
		t.Fatalf("push reorg: %v", err)
	}
	link, err := table.Get(0)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if link != 2 {
		t.Fatalf("expected most recent link 2, got %v", link)
	}
}
