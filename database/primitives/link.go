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

// Package primitives implements the L2/L3 layers: Head and Body files,
// and the Hashmap/Arraymap/Nomap table kinds built on top of them.
package primitives

// Link is a fixed-width unsigned integer serving as a position or index:
// a record number for record-kind bodies, or a byte offset for slab
// bodies. Link values are stored on disk as raw little-endian byte
// copies, never endian-swapped, truncated to the table's configured
// width (1-8 bytes).
type Link uint64

// Terminal is the reserved sentinel: end-of-chain, not-found, or an
// uninitialized slot, relative to a given byte Width.
func Terminal(width int) Link {
	return Link(mask(width))
}

// IsTerminal reports whether l is the terminal sentinel for width.
func (l Link) IsTerminal(width int) bool {
	return l == Terminal(width)
}

func mask(width int) uint64 {
	if width >= 8 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(8*width)) - 1
}

// PutLink writes l into dst (len(dst) == width) as a raw little-endian
// byte copy, truncated to width bytes.
func PutLink(dst []byte, l Link, width int) {
	v := uint64(l)
	for i := 0; i < width; i++ {
		dst[i] = byte(v >> (8 * uint(i)))
	}
}

// GetLink reads a Link from src (len(src) == width).
func GetLink(src []byte, width int) Link {
	var v uint64
	for i := 0; i < width; i++ {
		v |= uint64(src[i]) << (8 * uint(i))
	}
	return Link(v)
}
