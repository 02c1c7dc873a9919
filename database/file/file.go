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

// Package file implements the L1 layer: a reference-counted, memory-mapped
// byte region that can grow, survive disk-full conditions, and be copied to
// alternate paths for backup.
package file

import (
	"os"
	"sync"
	"sync/atomic"

	"github.com/edsrzf/mmap-go"
	"golang.org/x/sys/unix"

	"github.com/n42blockchain/archivestore/database/dberr"
)

// Options controls growth behavior for a File.
type Options struct {
	// Minimum is the initial capacity reserved on create, in bytes.
	Minimum int64
	// Rate is the growth percentage applied on each expansion: the new
	// capacity is max(required, current*(1+Rate/100)).
	Rate uint
}

// DefaultOptions mirrors the defaults the original store assumed when a
// table did not override its <table>_size/<table>_rate settings.
func DefaultOptions() Options {
	return Options{Minimum: 1 << 20, Rate: 50}
}

// File is a growable, memory-mapped region backed by a single OS file.
// Many goroutines may call Get concurrently; a Grow blocks until every
// handle returned by Get has been released (Close'd).
type File struct {
	path string
	opts Options

	// mu is held in read mode by every live Memory handle and in write
	// mode while remapping (growing). This is what makes "growth blocks
	// until all handles drop" true without a separate wait mechanism.
	mu sync.RWMutex

	f *os.File
	m mmap.MMap

	fault atomic.Uint32 // dberr.Kind, zero means no fault
}

// New constructs a File for path. It does not touch the filesystem.
func New(path string, opts Options) *File {
	if opts.Minimum <= 0 {
		opts.Minimum = DefaultOptions().Minimum
	}
	return &File{path: path, opts: opts}
}

// Path returns the backing file's path.
func (fl *File) Path() string { return fl.path }

// Create creates an empty file at path if it does not already exist.
// Idempotent: returns success if the file already exists.
func Create(path string) bool {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// Open opens the underlying file descriptor. Idempotent with respect to
// "already open".
func (fl *File) Open() error {
	if fl.f != nil {
		return nil
	}
	f, err := os.OpenFile(fl.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		fl.setFault(dberr.KindLoadFailure)
		return dberr.ErrLoadFailure
	}
	fl.f = f
	return nil
}

// Close unmaps (if loaded) and closes the descriptor. Idempotent.
func (fl *File) Close() error {
	if fl.m != nil {
		if err := fl.unloadLocked(); err != nil {
			return err
		}
	}
	if fl.f == nil {
		return nil
	}
	err := fl.f.Close()
	fl.f = nil
	if err != nil {
		fl.setFault(dberr.KindUnmapFailure)
		return dberr.ErrUnmapFailure
	}
	return nil
}

// Load reserves the memory mapping. The file is grown to at least
// opts.Minimum bytes first if it is smaller (a fresh, empty file).
func (fl *File) Load() error {
	if fl.f == nil {
		return dberr.ErrUnloadedFile
	}
	if fl.m != nil {
		return nil
	}

	info, err := fl.f.Stat()
	if err != nil {
		fl.setFault(dberr.KindLoadFailure)
		return dberr.ErrLoadFailure
	}
	size := info.Size()
	if size < fl.opts.Minimum {
		if err := allocate(fl.f, size, fl.opts.Minimum); err != nil {
			fl.setFault(dberr.KindFtruncateFailure)
			return dberr.ErrFtruncateFailure
		}
		size = fl.opts.Minimum
	}
	if size == 0 {
		// mmap cannot map a zero-length file; this should not happen once
		// the truncate above has run, but guard defensively.
		return dberr.ErrMmapFailure
	}

	m, err := mmap.Map(fl.f, mmap.RDWR, 0)
	if err != nil {
		fl.setFault(dberr.KindMmapFailure)
		return dberr.ErrMmapFailure
	}
	fl.m = m
	fl.fault.Store(0)
	return nil
}

// Unload releases the mapping within the open descriptor.
func (fl *File) Unload() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return fl.unloadLocked()
}

func (fl *File) unloadLocked() error {
	if fl.m == nil {
		return nil
	}
	err := fl.m.Unmap()
	fl.m = nil
	if err != nil {
		fl.setFault(dberr.KindUnmapFailure)
		return dberr.ErrUnmapFailure
	}
	return nil
}

// Reload retries Load after a prior disk-full fault, clearing the fault on success.
func (fl *File) Reload() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.m == nil {
		if err := fl.Load(); err != nil {
			return err
		}
	}
	fl.fault.Store(0)
	return nil
}

// GetFault returns the file's current fault kind (KindNone if healthy).
func (fl *File) GetFault() dberr.Kind {
	return dberr.Kind(fl.fault.Load())
}

func (fl *File) setFault(k dberr.Kind) {
	fl.fault.Store(uint32(k))
}

// Size returns the current mapped capacity in bytes.
func (fl *File) Size() int64 {
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	return int64(len(fl.m))
}

// Memory is a reference-counted handle onto a byte range of a File's
// mapping. The mapping cannot be grown while any handle is outstanding.
// Handles must be Close'd promptly; they are not safe to hold across
// long-running operations.
type Memory struct {
	data    []byte
	release func()
	once    sync.Once
}

// Bytes returns the handle's byte slice. It is invalid after Close.
func (m *Memory) Bytes() []byte { return m.data }

// Close releases the shared lock on the file's mapping.
func (m *Memory) Close() {
	m.once.Do(func() {
		if m.release != nil {
			m.release()
		}
	})
}

// Get returns a memory handle positioned at offset, extending to the end
// of the current mapping. offset defaults to 0 (whole-file handle).
func (fl *File) Get(offset int64) (*Memory, error) {
	fl.mu.RLock()
	if fl.m == nil {
		fl.mu.RUnlock()
		return nil, dberr.ErrUnloadedFile
	}
	if offset < 0 || offset > int64(len(fl.m)) {
		fl.mu.RUnlock()
		return nil, dberr.ErrMmapFailure
	}
	return &Memory{data: fl.m[offset:], release: fl.mu.RUnlock}, nil
}

// GetAll is equivalent to Get(0).
func (fl *File) GetAll() (*Memory, error) {
	return fl.Get(0)
}

// EnsureCapacity grows the backing file and its mapping so that at least
// required bytes are addressable, applying the configured growth rate.
// It blocks until all outstanding Memory handles are released. On growth
// failure the file's fault is set to disk_full and ErrDiskFull is
// returned; subsequent calls return ErrDiskFull until Reload succeeds.
func (fl *File) EnsureCapacity(required int64) error {
	if fl.GetFault() == dberr.KindDiskFull {
		return dberr.ErrDiskFull
	}
	fl.mu.RLock()
	have := int64(len(fl.m))
	fl.mu.RUnlock()
	if have >= required {
		return nil
	}

	fl.mu.Lock()
	defer fl.mu.Unlock()

	have = int64(len(fl.m))
	if have >= required {
		return nil
	}

	grown := int64(float64(have) * (1.0 + float64(fl.opts.Rate)/100.0))
	newSize := required
	if grown > newSize {
		newSize = grown
	}

	if err := allocate(fl.f, have, newSize); err != nil {
		fl.setFault(dberr.KindDiskFull)
		return dberr.ErrDiskFull
	}

	if fl.m != nil {
		if err := fl.m.Unmap(); err != nil {
			fl.setFault(dberr.KindRemapFailure)
			return dberr.ErrRemapFailure
		}
	}
	m, err := mmap.Map(fl.f, mmap.RDWR, 0)
	if err != nil {
		fl.setFault(dberr.KindRemapFailure)
		return dberr.ErrRemapFailure
	}
	fl.m = m
	return nil
}

// Flush asks the OS to persist dirty pages. Failure is recorded on the
// file's fault code but is not fatal to in-memory state.
func (fl *File) Flush() error {
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	if fl.m == nil {
		return nil
	}
	if err := fl.m.Flush(); err != nil {
		fl.setFault(dberr.KindFsyncFailure)
		return dberr.ErrFsyncFailure
	}
	// mmap's Flush only covers the dirty pages it tracks; fsync the
	// descriptor directly too, so a snapshot's copy of this file (taken
	// right after) reads back a durable image even across a crash that
	// lands between the two.
	if err := unix.Fsync(int(fl.f.Fd())); err != nil {
		fl.setFault(dberr.KindFsyncFailure)
		return dberr.ErrFsyncFailure
	}
	return nil
}

// allocate grows f from oldSize to newSize. It tries posix_fallocate
// first so the archive's body/head files get real, non-sparse blocks
// (avoiding fragmentation under the append-heavy growth pattern); a
// filesystem that rejects fallocate (EOPNOTSUPP and friends)
// falls back to a plain truncate, which is sparse but always available.
func allocate(f *os.File, oldSize, newSize int64) error {
	if err := unix.Fallocate(int(f.Fd()), 0, oldSize, newSize-oldSize); err != nil {
		return f.Truncate(newSize)
	}
	return nil
}

// Remove deletes the backing file. Used by restore when replacing a live
// head file with a backup copy.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether path names an existing file.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
