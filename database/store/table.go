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

package store

import (
	"path/filepath"

	"github.com/n42blockchain/archivestore/conf"
	"github.com/n42blockchain/archivestore/database/file"
	"github.com/n42blockchain/archivestore/database/primitives"
	"github.com/n42blockchain/archivestore/database/schema"
)

const (
	headExt = ".idx"
	bodyExt = ".dat"
)

// headPath and bodyPath join dir and a table name into its two file paths,
// per the filesystem layout in spec.md section 6.
func headPath(dir, name string) string { return filepath.Join(dir, "archive_"+name+headExt) }
func bodyPath(dir, name string) string { return filepath.Join(dir, "archive_"+name+bodyExt) }

// primitive is the subset of Hashmap/Arraymap/Nomap the store's generic
// lifecycle code needs; the typed schema wrapper built on top of each one
// is what application code actually calls.
type primitive interface {
	Create() error
	Verify() error
	SyncBodyCount() error
	LoadBuckets() error
	RestoreBodyCount() error
}

// table bundles one schema table's on-disk files with its primitive, so
// the store's lifecycle methods (create/open/snapshot/restore/reload/
// close) can loop over every table identically regardless of kind.
type table struct {
	name string
	head *file.File
	body *file.File
	prim primitive
}

// buildTable constructs the file.File pair and primitive for one
// descriptor, wired to the table's configured disk options. It does not
// touch the filesystem.
func buildTable(dir string, d schema.Descriptor, opt conf.TableOption) *table {
	headOpts := file.Options{Minimum: opt.Size, Rate: opt.Rate}
	bodyOpts := file.Options{Minimum: opt.Size, Rate: opt.Rate}

	hf := file.New(headPath(dir, d.Name), headOpts)
	bf := file.New(bodyPath(dir, d.Name), bodyOpts)

	var kind primitives.HeadKind
	var buckets uint64
	sieve := d.Sieve && opt.Sieve
	switch d.Kind {
	case schema.KindHashmap:
		kind = primitives.KindHash
		buckets = opt.Buckets
	case schema.KindArraymap:
		kind = primitives.KindArray
		buckets = 0
	case schema.KindNomap:
		kind = primitives.KindArray
		buckets = 0
		sieve = false
	}

	head := primitives.NewHead(hf, schema.LinkWidth, kind, buckets, sieve)
	body := primitives.NewBody(bf, d.RecordSize, schema.LinkWidth)

	var prim primitive
	switch d.Kind {
	case schema.KindHashmap:
		prim = primitives.NewHashmap(head, body, d.KeyLen, schema.LinkWidth, d.RecordSize)
	case schema.KindArraymap:
		prim = primitives.NewArraymap(head, body)
	case schema.KindNomap:
		prim = primitives.NewNomap(head, body)
	}

	return &table{name: d.Name, head: hf, body: bf, prim: prim}
}

// createFiles creates (but does not open) the table's two backing files.
func (tb *table) createFiles() bool {
	return file.Create(tb.head.Path()) && file.Create(tb.body.Path())
}

// openLoad opens and loads both files. Used by Store.Create, after
// createFiles; Create then calls the primitive's Create to zero-initialize
// its on-disk layout.
func (tb *table) openLoad() error {
	if err := tb.head.Open(); err != nil {
		return err
	}
	if err := tb.body.Open(); err != nil {
		return err
	}
	if err := tb.head.Load(); err != nil {
		return err
	}
	if err := tb.body.Load(); err != nil {
		return err
	}
	return nil
}

// unloadClose unmaps and closes both files. Used by Store.Close.
func (tb *table) unloadClose() error {
	if err := tb.head.Close(); err != nil {
		return err
	}
	if err := tb.body.Close(); err != nil {
		return err
	}
	return nil
}

// reload retries Load on both files after a disk-full fault clears.
func (tb *table) reload() error {
	if err := tb.head.Reload(); err != nil {
		return err
	}
	return tb.body.Reload()
}
