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

func TestTerminalPerWidth(t *testing.T) {
	cases := map[int]Link{1: 0xFF, 2: 0xFFFF, 3: 0xFFFFFF, 4: 0xFFFFFFFF, 8: Link(^uint64(0))}
	for width, want := range cases {
		if got := Terminal(width); got != want {
			t.Fatalf("terminal(%d) = %#x, want %#x", width, got, want)
		}
	}
}

func TestPutGetLinkRoundTrip(t *testing.T) {
	for width := 1; width <= 8; width++ {
		buf := make([]byte, width)
		var v Link
		if width >= 8 {
			v = Link(0x0102030405060708)
		} else {
			v = Link((uint64(1) << uint(8*width)) - 2)
		}
		PutLink(buf, v, width)
		got := GetLink(buf, width)
		if got != v {
			t.Fatalf("width %d: round trip %#x -> %#x", width, v, got)
		}
	}
}

func TestLinkNotEndianSwapped(t *testing.T) {
	buf := make([]byte, 4)
	PutLink(buf, 0x01020304, 4)
	want := []byte{0x04, 0x03, 0x02, 0x01}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x (little-endian raw copy)", i, buf[i], want[i])
		}
	}
}

func TestIsTerminal(t *testing.T) {
	if !Terminal(4).IsTerminal(4) {
		t.Fatalf("terminal(4) must report IsTerminal(4)")
	}
	if Link(0).IsTerminal(4) {
		t.Fatalf("zero link must not be terminal")
	}
}
