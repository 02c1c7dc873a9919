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

package primitives

import "testing"

func TestBodyAllocateAdvancesCounter(t *testing.T) {
	f := newTestFile(t, "body.dat")
	b := NewBody(f, 16, 4)
	first, err := b.Allocate(2)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if first != 0 {
		t.Fatalf("first allocation = %d, want 0", first)
	}
	second, err := b.Allocate(3)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if second != 2 {
		t.Fatalf("second allocation = %d, want 2", second)
	}
	if b.Count() != 5 {
		t.Fatalf("count = %d, want 5", b.Count())
	}
}

func TestBodyAllocateZeroIsNoop(t *testing.T) {
	f := newTestFile(t, "body.dat")
	b := NewBody(f, 16, 4)
	if _, err := b.Allocate(4); err != nil {
		t.Fatalf("allocate: %v", err)
	}
	link, err := b.Allocate(0)
	if err != nil {
		t.Fatalf("allocate(0): %v", err)
	}
	if link != 4 {
		t.Fatalf("allocate(0) = %d, want current count 4", link)
	}
	if b.Count() != 4 {
		t.Fatalf("count changed by allocate(0): %d", b.Count())
	}
}

func TestBodySlabAddressingIsByteOffset(t *testing.T) {
	f := newTestFile(t, "body.dat")
	b := NewBody(f, 0, 4)
	first, err := b.Allocate(10)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	second, err := b.Allocate(20)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if second != first+10 {
		t.Fatalf("slab addressing broken: first=%d second=%d", first, second)
	}
}

func TestBodyGetWriteReadRoundTrip(t *testing.T) {
	f := newTestFile(t, "body.dat")
	b := NewBody(f, 16, 4)
	link, err := b.Allocate(1)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	mem, err := b.Get(link)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	copy(mem.Bytes(), []byte("0123456789abcdef"))
	mem.Close()

	mem2, err := b.Get(link)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer mem2.Close()
	if string(mem2.Bytes()[:16]) != "0123456789abcdef" {
		t.Fatalf("got %q", mem2.Bytes()[:16])
	}
}

func TestBodyTruncateDropsCounter(t *testing.T) {
	f := newTestFile(t, "body.dat")
	b := NewBody(f, 16, 4)
	if _, err := b.Allocate(10); err != nil {
		t.Fatalf("allocate: %v", err)
	}
	b.Truncate(3)
	if b.Count() != 3 {
		t.Fatalf("count = %d, want 3", b.Count())
	}
}
