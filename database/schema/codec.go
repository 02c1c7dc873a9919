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

// Package schema binds the named blockchain tables (plus a supplemented
// spend index) to the primitives package's Hashmap, Arraymap, and Nomap
// kinds, and implements their record codecs.
package schema

import (
	"bytes"

	"github.com/n42blockchain/archivestore/common/encoding"
)

const (
	varintTwoBytes   = 0xfd
	varintFourBytes  = 0xfe
	varintEightBytes = 0xff
)

// Reader decodes a record's fields in order, invalidating itself on the
// first short read so every subsequent field reads as zero/empty. This
// mirrors the source library's simple_reader: codecs never panic on
// truncated or corrupt records, they just report failure at the end.
type Reader struct {
	buf     []byte
	pos     int
	invalid bool
}

// NewReader wraps buf for sequential decoding.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// Valid reports whether every read so far has stayed in bounds.
func (r *Reader) Valid() bool { return !r.invalid }

// Pos returns the reader's current byte offset.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

func (r *Reader) bytes(n int) []byte {
	if r.invalid || n < 0 || r.pos+n > len(r.buf) {
		r.invalid = true
		return nil
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

// ReadBytes returns a copy of the next n bytes.
func (r *Reader) ReadBytes(n int) []byte {
	b := r.bytes(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// ReadByte returns the next single byte.
func (r *Reader) ReadByte() byte {
	b := r.bytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// ReadBool reads one byte as a boolean flag.
func (r *Reader) ReadBool() bool { return r.ReadByte() != 0 }

// ReadUint reads a width-byte little-endian unsigned integer (width <= 8).
func (r *Reader) ReadUint(width int) uint64 {
	b := r.bytes(width)
	if b == nil {
		return 0
	}
	var v uint64
	for i := 0; i < width; i++ {
		v |= uint64(b[i]) << (8 * uint(i))
	}
	return v
}

// ReadVarint reads a Bitcoin-style CompactSize variable-length integer.
func (r *Reader) ReadVarint() uint64 {
	marker := r.ReadByte()
	if r.invalid {
		return 0
	}
	switch {
	case marker < varintTwoBytes:
		return uint64(marker)
	case marker == varintTwoBytes:
		return r.ReadUint(2)
	case marker == varintFourBytes:
		return r.ReadUint(4)
	default:
		return r.ReadUint(8)
	}
}

// Writer accumulates a record's encoded bytes, backed by a pooled buffer.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter returns a Writer backed by a buffer drawn from the shared pool.
// Callers must call Release when done.
func NewWriter() *Writer {
	return &Writer{buf: encoding.GetBuffer()}
}

// Release returns the writer's buffer to the pool. The Writer must not be
// used afterward.
func (w *Writer) Release() { encoding.PutBuffer(w.buf) }

// Bytes returns the writer's accumulated bytes. Valid until Release.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// WriteBytes appends b verbatim.
func (w *Writer) WriteBytes(b []byte) { w.buf.Write(b) }

// WriteByte appends a single byte.
func (w *Writer) WriteByte(b byte) { w.buf.WriteByte(b) }

// WriteBool appends a single byte flag.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// WriteUint appends v as a width-byte little-endian unsigned integer.
func (w *Writer) WriteUint(v uint64, width int) {
	tmp := make([]byte, width)
	for i := 0; i < width; i++ {
		tmp[i] = byte(v >> (8 * uint(i)))
	}
	w.buf.Write(tmp)
}

// WriteVarint appends v as a Bitcoin-style CompactSize integer.
func (w *Writer) WriteVarint(v uint64) {
	switch {
	case v < varintTwoBytes:
		w.buf.WriteByte(byte(v))
	case v <= 0xFFFF:
		w.buf.WriteByte(varintTwoBytes)
		w.WriteUint(v, 2)
	case v <= 0xFFFFFFFF:
		w.buf.WriteByte(varintFourBytes)
		w.WriteUint(v, 4)
	default:
		w.buf.WriteByte(varintEightBytes)
		w.WriteUint(v, 8)
	}
}
