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

import "github.com/cespare/xxhash/v2"

// A sieve word is a single Link-width integer split into a 3-bit selector
// prefix and screenBits = width*8-3 bits of screen data. Selector 0 means
// the bucket's sieve is empty (definitely absent for any key). Selectors
// 1..selectorMaxLevel are screen levels, one per bucket insertion, up to
// the 3-bit field's ceiling of selectorMaxLevel (7) distinctly trackable
// levels. Saturation (the sieve giving up on screening this bucket; every
// read must fall through to the conflict chain) is signalled by the full
// word equaling the reserved terminal pattern: selector == selectorMaxLevel
// *and* every screen bit set. This is the "sentinel doubles as a terminal
// pattern" the source notes — it reuses level 7's selector value rather
// than spending a ninth state on a dedicated sentinel, since a 3-bit
// selector cannot hold empty + 8 populated levels + saturated (10 states)
// at once. The consequence, also noted by the source: a legitimately
// populated level-7 screen whose bits happen to all be set is indistinguishable
// from saturation and is conservatively treated as saturated. That is
// always the safe direction — screen bits are only ever added, and Test
// checks every level up to the selector, so a fingerprint once inserted is
// never reported absent; this sentinel reuse can only ever turn a possible
// hit into an unconditional one.
const (
	selectorEmpty    = 0
	selectorMaxLevel = 7
	bitsPerScreen    = 5
)

// Fingerprint derives the bucket-sieve fingerprint for a key.
func Fingerprint(key []byte) uint64 {
	return xxhash.Sum64(key)
}

// sieveScreenBits returns the number of screen bits available for a sieve
// word of the given byte width.
func sieveScreenBits(width int) uint {
	return uint(8*width) - 3
}

// sieveDecode splits a raw sieve word into its selector and screen bits.
func sieveDecode(word uint64, width int) (selector uint8, screen uint64) {
	screenBits := sieveScreenBits(width)
	screen = word & ((uint64(1) << screenBits) - 1)
	selector = uint8(word >> screenBits)
	return
}

func sieveEncode(selector uint8, screen uint64, width int) uint64 {
	screenBits := sieveScreenBits(width)
	return (uint64(selector) << screenBits) | (screen & ((uint64(1) << screenBits) - 1))
}

// screenMask picks bitsPerScreen screen-bit positions for fp at level,
// hashing fp with a per-level offset, so each level's positions are chosen
// independently of the others. A fingerprint written at level k stays
// discoverable because sieveTest checks every level from 1 up to the
// current selector.
func screenMask(fp uint64, level uint8, screenBits uint) uint64 {
	var mask uint64
	base := fp ^ (uint64(level) * 0x9E3779B97F4A7C15)
	for i := uint(0); i < bitsPerScreen; i++ {
		h := mixHash(base + uint64(i)*0xBF58476D1CE4E5B9)
		pos := h % uint64(screenBits)
		mask |= uint64(1) << pos
	}
	return mask
}

func mixHash(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

// fullScreenMask returns a screen field with every bit set, for the given
// word width — the reserved pattern that, paired with selectorMaxLevel,
// signals saturation rather than a real level-7 screen.
func fullScreenMask(width int) uint64 {
	screenBits := sieveScreenBits(width)
	return (uint64(1) << screenBits) - 1
}

// isSaturated reports whether the decoded (selector, screen) pair is the
// reserved saturated sentinel rather than a genuine level-selectorMaxLevel
// screen.
func isSaturated(selector uint8, screen uint64, width int) bool {
	return selector == selectorMaxLevel && screen == fullScreenMask(width)
}

// sieveTest reports whether fp is possibly present in the bucket's sieve.
// A false result is a guarantee of absence; a true result means "walk the
// conflict chain to find out".
func sieveTest(word uint64, width int, fp uint64) bool {
	selector, screen := sieveDecode(word, width)
	if selector == selectorEmpty {
		return false
	}
	if isSaturated(selector, screen, width) {
		return true
	}
	screenBits := sieveScreenBits(width)
	for level := uint8(1); level <= selector; level++ {
		m := screenMask(fp, level, screenBits)
		if screen&m == m {
			return true
		}
	}
	return false
}

// sieveInsert incorporates fp's fingerprint into the bucket's sieve,
// returning the updated word and whether fp already screened positive
// (a "collision": either a true repeat or a false positive against a
// different key already present). A bucket tracks up to selectorMaxLevel
// (7) distinct screens; an insert that would need an 8th forces the
// bucket straight to the saturated sentinel instead, since the 3-bit
// selector has no level left to assign it.
func sieveInsert(word uint64, width int, fp uint64) (updated uint64, collision bool) {
	selector, screen := sieveDecode(word, width)
	collision = sieveTest(word, width, fp)

	if selector >= selectorMaxLevel {
		return sieveEncode(selectorMaxLevel, fullScreenMask(width), width), collision
	}

	next := selector + 1
	screenBits := sieveScreenBits(width)
	screen |= screenMask(fp, next, screenBits)
	return sieveEncode(next, screen, width), collision
}
