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

func TestSieveEmptyWordRejectsEverything(t *testing.T) {
	for _, fp := range []uint64{0, 1, 0xDEADBEEF, ^uint64(0)} {
		if sieveTest(0, 4, fp) {
			t.Fatalf("empty sieve word must reject fp=%x", fp)
		}
	}
}

func TestSieveNeverFalseNegative(t *testing.T) {
	word := uint64(0)
	fps := []uint64{1, 2, 3, 42, 1000, 999999, 0xABCDEF}
	for _, fp := range fps {
		word, _ = sieveInsert(word, 4, fp)
	}
	for _, fp := range fps {
		if !sieveTest(word, 4, fp) {
			t.Fatalf("sieve false-negatived a fingerprint it was given: %x", fp)
		}
	}
}

func TestSieveSaturatesAfterManyInserts(t *testing.T) {
	word := uint64(0)
	for i := uint64(0); i < 20; i++ {
		word, _ = sieveInsert(word, 4, i*0x1234567)
	}
	selector, screen := sieveDecode(word, 4)
	if !isSaturated(selector, screen, 4) {
		t.Fatalf("selector/screen = %d/%x after 20 inserts, want saturated", selector, screen)
	}
	if !sieveTest(word, 4, 0xFFFFFFFF) {
		t.Fatalf("a saturated sieve must report possibly-present unconditionally")
	}
}

// TestSieveSaturatesOnEighthInsert exercises the documented boundary: a
// bucket tracks up to selectorMaxLevel (7) distinct screens, so the 8th
// colliding insert is the one that forces saturation, and every key
// inserted before or after it must still be found (no false negative).
func TestSieveSaturatesOnEighthInsert(t *testing.T) {
	word := uint64(0)
	fps := make([]uint64, 0, 9)
	for i := uint64(1); i <= 7; i++ {
		fp := i * 0x1234567
		fps = append(fps, fp)
		word, _ = sieveInsert(word, 4, fp)
		selector, screen := sieveDecode(word, 4)
		if isSaturated(selector, screen, 4) {
			t.Fatalf("bucket saturated after only %d inserts, want 8", i)
		}
	}

	word, _ = sieveInsert(word, 4, 0x89ABCDEF)
	fps = append(fps, 0x89ABCDEF)
	selector, screen := sieveDecode(word, 4)
	if !isSaturated(selector, screen, 4) {
		t.Fatalf("bucket not saturated after the 8th insert")
	}

	for _, fp := range fps {
		if !sieveTest(word, 4, fp) {
			t.Fatalf("saturated sieve false-negatived a previously inserted fp=%x", fp)
		}
	}
}

func TestSieveEncodeDecodeRoundTrip(t *testing.T) {
	word := sieveEncode(3, 0x1F, 4)
	selector, screen := sieveDecode(word, 4)
	if selector != 3 || screen != 0x1F {
		t.Fatalf("decode(%x) = (%d, %x), want (3, 0x1F)", word, selector, screen)
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	k := key32(0x07)
	if Fingerprint(k) != Fingerprint(k) {
		t.Fatalf("fingerprint must be deterministic for the same key")
	}
	if Fingerprint(k) == Fingerprint(key32(0x08)) {
		t.Fatalf("fingerprint collided trivially between distinct keys (not impossible, but suspicious for this test fixture)")
	}
}
