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

import "unsafe"

// ptr32/ptr64 reinterpret a word-aligned byte slice as a pointer to a
// fixed-width unsigned integer, so the head's word-sized bucket slots can
// be pushed with a lock-free atomic exchange instead of the head mutex.
// Callers guarantee len(b) == 4 or 8 respectively; the slice backs the
// file's mmap'd region, which the OS page-aligns.
func ptr32(b []byte) unsafe.Pointer { return unsafe.Pointer(&b[0]) }
func ptr64(b []byte) unsafe.Pointer { return unsafe.Pointer(&b[0]) }
