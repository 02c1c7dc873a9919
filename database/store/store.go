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

// Package store orchestrates the fifteen schema tables (plus the
// supplemented spend index) as a single archive: create, open, snapshot,
// restore, reload, and close all of them together, guarded by a
// Transactor and a pair of on-disk locks. Grounded on the original
// store<Storage> template's create/open/snapshot/close bodies
// (original_source/src/store/store.cpp, include/bitcoin/database/store.hpp).
package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bits-and-blooms/bitset"
	"github.com/gofrs/flock"

	"github.com/n42blockchain/archivestore/conf"
	"github.com/n42blockchain/archivestore/database/dberr"
	"github.com/n42blockchain/archivestore/database/primitives"
	"github.com/n42blockchain/archivestore/database/schema"
	"github.com/n42blockchain/archivestore/log"
)

const (
	processLockName = "process.lck"
	flushLockName   = "flush.lck"
	primaryDir      = "primary"
	secondaryDir    = "secondary"
	stagingDir      = "primary.tmp"
)

// Store is the top-level handle onto one archive directory. Its exported
// table fields are the typed schema wrappers application code calls
// directly (Store.Header.Get, Store.Spend.IsUnspent, ...); the unexported
// tables slice exists purely so the lifecycle methods below can loop over
// every table uniformly.
type Store struct {
	dir        string
	settings   conf.Settings
	transactor Transactor

	processLock *flock.Flock
	flushPath   string
	opened      bool

	tables []*table

	Header      *schema.HeaderTable
	Transaction *schema.TransactionTable
	Point       *schema.PointTable
	Input       *schema.InputTable
	Output      *schema.OutputTable
	Outs        *schema.OutsTable
	Txs         *schema.TxsTable
	Candidate   *schema.HeightTable
	Confirmed   *schema.HeightTable
	StrongTx    *schema.StrongTxTable
	Prevout     *schema.PrevoutTable
	ValidatedBk *schema.ValidatedBkTable
	ValidatedTx *schema.ValidatedTxTable
	Address     *schema.AddressTable
	Neutrino    *schema.NeutrinoTable
	Spend       *schema.SpendTable
}

// New builds a Store bound to settings.Dir. It touches no filesystem
// state; call Create or Open (or Startup) to actually acquire it.
func New(settings conf.Settings) (*Store, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	dir := settings.Dir
	s := &Store{
		dir:         dir,
		settings:    settings,
		processLock: flock.New(filepath.Join(dir, processLockName)),
		flushPath:   filepath.Join(dir, flushLockName),
	}

	for _, d := range schema.Descriptors {
		s.tables = append(s.tables, buildTable(dir, d, settings.Table(d.Name)))
	}
	return s, nil
}

// Transactor exposes the store's shared/unique guard for writers and
// maintenance operations outside this package (the query layer takes the
// shared side for the span of a push_candidate/push_confirmed).
func (s *Store) Transactor() *Transactor { return &s.transactor }

// Dir returns the archive directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) tableByName(name string) *table {
	for _, tb := range s.tables {
		if tb.name == name {
			return tb
		}
	}
	return nil
}

// wireTypedTables binds each exported *XTable field to the concrete
// primitive built for its descriptor. Split out from New/Open/Create so
// every entry point ends up with the same wiring.
func (s *Store) wireTypedTables() {
	hm := func(name string) *primitives.Hashmap { return s.tableByName(name).prim.(*primitives.Hashmap) }
	am := func(name string) *primitives.Arraymap { return s.tableByName(name).prim.(*primitives.Arraymap) }
	nm := func(name string) *primitives.Nomap { return s.tableByName(name).prim.(*primitives.Nomap) }

	s.Header = schema.NewHeaderTable(hm(schema.Header))
	s.Transaction = schema.NewTransactionTable(hm(schema.Transaction))
	s.Point = schema.NewPointTable(nm(schema.Point))
	s.Input = schema.NewInputTable(nm(schema.Input))
	s.Output = schema.NewOutputTable(nm(schema.Output))
	s.Outs = schema.NewOutsTable(nm(schema.Outs))
	s.Txs = schema.NewTxsTable(am(schema.Txs))
	s.Candidate = schema.NewHeightTable(am(schema.Candidate))
	s.Confirmed = schema.NewHeightTable(am(schema.Confirmed))
	s.StrongTx = schema.NewStrongTxTable(hm(schema.StrongTx))
	s.Prevout = schema.NewPrevoutTable(am(schema.Prevout))
	s.ValidatedBk = schema.NewValidatedBkTable(am(schema.ValidatedBk))
	s.ValidatedTx = schema.NewValidatedTxTable(hm(schema.ValidatedTx))
	s.Address = schema.NewAddressTable(hm(schema.Address))
	s.Neutrino = schema.NewNeutrinoTable(hm(schema.Neutrino))
	s.Spend = schema.NewSpendTable(am(schema.Spend))
}

// clearDir removes and recreates dir, per the original create()'s
// file::clear(dir) step.
func clearDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// Create clears the directory and lays down every table's files,
// zero-initialized, ready for immediate use. It leaves the store open
// (there is no separate Open call needed after Create).
func (s *Store) Create(report Handler) error {
	if err := clearDir(s.dir); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	locked, err := s.processLock.TryLock()
	if err != nil || !locked {
		return dberr.NewFault(dberr.KindProcessLock, "")
	}

	for _, tb := range s.tables {
		if !tb.createFiles() {
			return dberr.NewFault(dberr.KindCreateTable, tb.name)
		}
		report.report(CreateFile, tb.name)

		if err := tb.openLoad(); err != nil {
			return dberr.NewFault(dberr.KindCreateTable, tb.name)
		}
		report.report(LoadFile, tb.name)

		if err := tb.prim.Create(); err != nil {
			return dberr.NewFault(dberr.KindCreateTable, tb.name)
		}
	}

	s.wireTypedTables()
	s.opened = true
	return nil
}

// Open acquires the process lock and the flush lock, loads every table's
// files, and verifies each one. On any failure it unwinds (unloads/closes
// whatever it opened, releases locks) and returns the fault describing
// which table failed.
func (s *Store) Open(report Handler) error {
	locked, err := s.processLock.TryLock()
	if err != nil || !locked {
		return dberr.NewFault(dberr.KindProcessLock, "")
	}

	// The flush lock file's mere presence (not any OS-level lock on it) is
	// the unclean-shutdown signal Startup checks for; Open always
	// (re)creates it and Close always removes it on the way out.
	flushFile, err := os.OpenFile(s.flushPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		_ = s.processLock.Unlock()
		return dberr.NewFault(dberr.KindFlushLock, "")
	}
	_ = flushFile.Close()

	for _, tb := range s.tables {
		if err := tb.head.Open(); err != nil {
			s.unwindOpen(report)
			return dberr.NewFault(dberr.KindLoadFailure, tb.name)
		}
		if err := tb.body.Open(); err != nil {
			s.unwindOpen(report)
			return dberr.NewFault(dberr.KindLoadFailure, tb.name)
		}
		report.report(OpenFile, tb.name)

		if err := tb.head.Load(); err != nil {
			s.unwindOpen(report)
			return dberr.NewFault(dberr.KindLoadFailure, tb.name)
		}
		if err := tb.body.Load(); err != nil {
			s.unwindOpen(report)
			return dberr.NewFault(dberr.KindLoadFailure, tb.name)
		}
		report.report(LoadFile, tb.name)

		if err := tb.prim.LoadBuckets(); err != nil {
			s.unwindOpen(report)
			return dberr.NewFault(dberr.KindVerifyTable, tb.name)
		}
		// A freshly constructed Body always starts at counter zero, even
		// when it's mapping an existing archive's file — restore it from
		// the head's persisted body-count prefix before Verify compares
		// the two, and before any caller can Allocate against a wrong
		// counter.
		if err := tb.prim.RestoreBodyCount(); err != nil {
			s.unwindOpen(report)
			return dberr.NewFault(dberr.KindVerifyTable, tb.name)
		}
		if err := tb.prim.Verify(); err != nil {
			s.unwindOpen(report)
			return dberr.NewFault(dberr.KindVerifyTable, tb.name)
		}
	}

	s.wireTypedTables()
	s.opened = true
	return nil
}

// unwindOpen releases everything a partially-succeeded Open acquired, so
// a verify failure on table N doesn't leak the locks or mappings for
// tables 0..N-1.
func (s *Store) unwindOpen(report Handler) {
	for _, tb := range s.tables {
		_ = tb.unloadClose()
		report.report(CloseFile, tb.name)
	}
	_ = os.Remove(s.flushPath)
	_ = s.processLock.Unlock()
	s.opened = false
}

// Startup is the convenience entry point: if a flush lock file is present
// on disk, the prior process did not shut down cleanly (Close never ran
// to remove it), so Startup restores from the latest snapshot before
// opening. Otherwise it opens directly.
func (s *Store) Startup(report Handler) error {
	if _, err := os.Stat(s.flushPath); err == nil {
		log.Warn("archive flush lock present at startup, restoring from snapshot", "dir", s.dir)
		return s.Restore(report)
	}
	return s.Open(report)
}

// Snapshot blocks new write transactions, flushes every body to disk,
// and copies the head files into the primary backup slot, demoting the
// previous primary to secondary. It builds the new snapshot in a staging
// directory first and only rotates directories once every head has been
// copied successfully, so a crash mid-snapshot leaves the prior primary/
// secondary pair untouched.
func (s *Store) Snapshot(report Handler) error {
	unlock := s.transactor.Unique(report)
	defer unlock()

	report.report(ArchiveSnapshot, "")

	staging := filepath.Join(s.dir, stagingDir)
	if err := os.RemoveAll(staging); err != nil {
		return fmt.Errorf("clear snapshot staging dir: %w", err)
	}
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return fmt.Errorf("create snapshot staging dir: %w", err)
	}

	for _, tb := range s.tables {
		if err := tb.prim.SyncBodyCount(); err != nil {
			return dberr.NewFault(dberr.KindBackupTable, tb.name)
		}
		if err := tb.body.Flush(); err != nil {
			return dberr.NewFault(dberr.KindBackupTable, tb.name)
		}
		if err := tb.head.Flush(); err != nil {
			return dberr.NewFault(dberr.KindBackupTable, tb.name)
		}
		report.report(FlushTable, tb.name)

		dst := filepath.Join(staging, filepath.Base(tb.head.Path()))
		if err := copyFile(tb.head.Path(), dst); err != nil {
			return dberr.NewFault(dberr.KindBackupTable, tb.name)
		}
		report.report(CopyHead, tb.name)
	}

	primary := filepath.Join(s.dir, primaryDir)
	secondary := filepath.Join(s.dir, secondaryDir)

	if err := os.RemoveAll(secondary); err != nil {
		return fmt.Errorf("clear secondary backup slot: %w", err)
	}
	if _, err := os.Stat(primary); err == nil {
		if err := os.Rename(primary, secondary); err != nil {
			return fmt.Errorf("rotate primary to secondary: %w", err)
		}
	}
	if err := os.Rename(staging, primary); err != nil {
		return fmt.Errorf("promote staging to primary: %w", err)
	}

	for _, tb := range s.tables {
		report.report(BackupTable, tb.name)
	}
	return nil
}

// Restore replaces the live head files with the most recent backup slot
// (primary, falling back to secondary), then opens the store. It returns
// a dberr.Fault of kind dberr.KindMissingSnapshot if neither slot exists.
func (s *Store) Restore(report Handler) error {
	primary := filepath.Join(s.dir, primaryDir)
	secondary := filepath.Join(s.dir, secondaryDir)

	src := primary
	if _, err := os.Stat(src); err != nil {
		src = secondary
		if _, err := os.Stat(src); err != nil {
			return dberr.NewFault(dberr.KindMissingSnapshot, "")
		}
	}

	for _, d := range schema.Descriptors {
		live := headPath(s.dir, d.Name)
		backup := filepath.Join(src, filepath.Base(live))
		if err := copyFile(backup, live); err != nil {
			return dberr.NewFault(dberr.KindRestoreTable, d.Name)
		}
		report.report(RestoreTable, d.Name)
	}

	_ = os.Remove(s.flushPath)
	return s.Open(report)
}

// Reload retries mapping every table's files after a disk-full fault has
// been resolved (more space freed on the volume), clearing the fault on
// success.
func (s *Store) Reload(report Handler) error {
	for _, tb := range s.tables {
		if err := tb.reload(); err != nil {
			return dberr.NewFault(dberr.KindLoadFailure, tb.name)
		}
		report.report(LoadFile, tb.name)
	}
	return nil
}

// Close blocks until every outstanding write transaction finishes, then
// unloads and closes every table's files and releases both locks. The
// flush lock file's removal is what tells a future Startup the shutdown
// was clean.
func (s *Store) Close(report Handler) error {
	unlock := s.transactor.Unique(report)
	defer unlock()

	var first error
	for _, tb := range s.tables {
		if err := tb.prim.SyncBodyCount(); err != nil && first == nil {
			first = dberr.NewFault(dberr.KindCloseTable, tb.name)
		}
		if err := tb.unloadClose(); err != nil && first == nil {
			first = dberr.NewFault(dberr.KindCloseTable, tb.name)
		}
		report.report(CloseFile, tb.name)
	}

	if err := os.Remove(s.flushPath); err != nil && !os.IsNotExist(err) && first == nil {
		first = dberr.NewFault(dberr.KindFlushLock, "")
	}
	if err := s.processLock.Unlock(); err != nil && first == nil {
		first = dberr.NewFault(dberr.KindProcessLock, "")
	}
	s.opened = false
	return first
}

// VerifyAll re-runs Verify against every table of an already-opened store,
// without stopping at the first failure, and reports which tables failed
// as a bitset indexed by schema.Descriptors order (bit set means that
// table's Verify returned an error). Used by archivectl's verify
// subcommand, which wants to name every bad table in one pass rather than
// just the first one Open would have faulted on.
func (s *Store) VerifyAll() (*bitset.BitSet, []error) {
	bad := bitset.New(uint(len(s.tables)))
	var errs []error
	for i, tb := range s.tables {
		if err := tb.prim.Verify(); err != nil {
			bad.Set(uint(i))
			errs = append(errs, fmt.Errorf("%s: %w", tb.name, err))
		}
	}
	return bad, errs
}

// TableReport is one table's body allocation counter, as read by Report:
// a record count for fixed-size bodies, a byte count for slab bodies.
type TableReport struct {
	Name  string
	Count uint64
}

// Report returns every table's current body allocation counter, in schema
// order. Used by archivectl's report subcommand; safe to call on an
// opened, read-only store.
func (s *Store) Report() []TableReport {
	out := make([]TableReport, 0, len(s.tables))
	for _, tb := range s.tables {
		var count uint64
		switch p := tb.prim.(type) {
		case *primitives.Hashmap:
			count = uint64(p.Count())
		case *primitives.Arraymap:
			count = uint64(p.BodyCount())
		case *primitives.Nomap:
			count = uint64(p.Count())
		}
		out = append(out, TableReport{Name: tb.name, Count: count})
	}
	return out
}

// copyFile copies src to dst, overwriting dst if it exists.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
