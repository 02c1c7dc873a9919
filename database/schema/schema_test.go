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
	"path/filepath"
	"testing"

	"github.com/n42blockchain/archivestore/database/file"
	"github.com/n42blockchain/archivestore/database/primitives"
)

func newTestFile(t *testing.T, name string) *file.File {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if !file.Create(path) {
		t.Fatalf("create(%s) failed", path)
	}
	f := file.New(path, file.Options{Minimum: 4096, Rate: 50})
	if err := f.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := f.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func newTestHashmap(t *testing.T, buckets uint64, sieve bool, keyLen, recordSize int) *primitives.Hashmap {
	t.Helper()
	headFile := newTestFile(t, "head.dat")
	bodyFile := newTestFile(t, "body.dat")
	head := primitives.NewHead(headFile, LinkWidth, primitives.KindHash, buckets, sieve)
	body := primitives.NewBody(bodyFile, recordSize, LinkWidth)
	hm := primitives.NewHashmap(head, body, keyLen, LinkWidth, recordSize)
	if err := hm.Create(); err != nil {
		t.Fatalf("create: %v", err)
	}
	return hm
}

func newTestArraymap(t *testing.T, recordSize int) *primitives.Arraymap {
	t.Helper()
	headFile := newTestFile(t, "head.dat")
	bodyFile := newTestFile(t, "body.dat")
	head := primitives.NewHead(headFile, LinkWidth, primitives.KindArray, 0, false)
	body := primitives.NewBody(bodyFile, recordSize, LinkWidth)
	am := primitives.NewArraymap(head, body)
	if err := am.Create(); err != nil {
		t.Fatalf("create: %v", err)
	}
	return am
}

func newTestNomap(t *testing.T, recordSize int) *primitives.Nomap {
	t.Helper()
	headFile := newTestFile(t, "head.dat")
	bodyFile := newTestFile(t, "body.dat")
	head := primitives.NewHead(headFile, LinkWidth, primitives.KindArray, 0, false)
	body := primitives.NewBody(bodyFile, recordSize, LinkWidth)
	nm := primitives.NewNomap(head, body)
	if err := nm.Create(); err != nil {
		t.Fatalf("create: %v", err)
	}
	return nm
}

func hash32(b byte) [32]byte {
	var h [32]byte
	for i := range h {
		h[i] = b
	}
	return h
}
