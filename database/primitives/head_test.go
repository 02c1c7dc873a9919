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

func TestHeadCreateFillsTerminal(t *testing.T) {
	f := newTestFile(t, "head.dat")
	h := NewHead(f, 4, KindHash, 8, false)
	if err := h.Create(); err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := uint64(0); i < 8; i++ {
		top, err := h.Top(i)
		if err != nil {
			t.Fatalf("top(%d): %v", i, err)
		}
		if !top.IsTerminal(4) {
			t.Fatalf("bucket %d = %d, want terminal after create", i, top)
		}
	}
	count, err := h.GetBodyCount()
	if err != nil {
		t.Fatalf("get body count: %v", err)
	}
	if count != 0 {
		t.Fatalf("body count = %d, want 0 after create", count)
	}
}

func TestHeadPushReturnsPriorTop(t *testing.T) {
	f := newTestFile(t, "head.dat")
	h := NewHead(f, 4, KindHash, 4, false)
	if err := h.Create(); err != nil {
		t.Fatalf("create: %v", err)
	}
	prev, _, err := h.Push(10, 1, 0)
	if err != nil {
		t.Fatalf("push 1: %v", err)
	}
	if !prev.IsTerminal(4) {
		t.Fatalf("first push's prior top = %d, want terminal", prev)
	}
	prev2, _, err := h.Push(20, 1, 0)
	if err != nil {
		t.Fatalf("push 2: %v", err)
	}
	if prev2 != 10 {
		t.Fatalf("second push's prior top = %d, want 10", prev2)
	}
	top, err := h.Top(1)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if top != 20 {
		t.Fatalf("top = %d, want 20", top)
	}
}

func TestHeadArrayExtendGrowsAndFillsTerminal(t *testing.T) {
	f := newTestFile(t, "head.dat")
	h := NewHead(f, 4, KindArray, 0, false)
	if err := h.Create(); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := h.Extend(9); err != nil {
		t.Fatalf("extend: %v", err)
	}
	if h.Buckets() != 10 {
		t.Fatalf("buckets = %d, want 10", h.Buckets())
	}
	top, err := h.Top(9)
	if err != nil {
		t.Fatalf("top(9): %v", err)
	}
	if !top.IsTerminal(4) {
		t.Fatalf("fresh array slot = %d, want terminal", top)
	}
}

func TestHeadVerifyChecksSize(t *testing.T) {
	f := newTestFile(t, "head.dat")
	h := NewHead(f, 4, KindHash, 4, false)
	if err := h.Create(); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := h.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
	h2 := NewHead(f, 4, KindHash, 10000, false)
	if err := h2.Verify(); err == nil {
		t.Fatalf("expected verify to fail for a bucket count too large for the file")
	}
}

func TestHeadSieveRoundTrip(t *testing.T) {
	f := newTestFile(t, "head.dat")
	h := NewHead(f, 4, KindHash, 4, true)
	if err := h.Create(); err != nil {
		t.Fatalf("create: %v", err)
	}
	fp := Fingerprint(key32(0x09))
	if _, _, err := h.Push(5, 2, fp); err != nil {
		t.Fatalf("push: %v", err)
	}
	possible, err := h.TestSieve(2, fp)
	if err != nil {
		t.Fatalf("test sieve: %v", err)
	}
	if !possible {
		t.Fatalf("sieve must report possibly-present for an inserted fingerprint")
	}
	empty, err := h.TestSieve(1, fp)
	if err != nil {
		t.Fatalf("test sieve: %v", err)
	}
	if empty {
		t.Fatalf("untouched bucket's sieve must report definitely-absent")
	}
}
