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

// Package dberr centralizes the abstract error kinds returned by the
// archive store and its primitives, so that callers can match on a code
// rather than a message.
package dberr

import (
	"errors"
	"fmt"
)

// =====================
// Lifecycle & verification
// =====================

var (
	// ErrSuccess is never returned; it documents the zero value of Kind.
	ErrSuccess = errors.New("success")

	// ErrIntegrity is returned when a table fails verification: head size
	// mismatch, or head body-count disagreeing with the body's record count.
	ErrIntegrity = errors.New("table failed integrity verification")

	// ErrMissingSnapshot is returned by restore when neither backup slot exists.
	ErrMissingSnapshot = errors.New("no snapshot available to restore")

	// ErrUnloadedFile is returned when an operation requires a loaded file
	// and the file has not been loaded.
	ErrUnloadedFile = errors.New("file is not loaded")

	// ErrUnknownState is returned when a persisted validation state code
	// does not match any known verdict.
	ErrUnknownState = errors.New("unknown validation state code")
)

// =====================
// OS / file faults
// =====================

var (
	// ErrDiskFull is returned when a body allocation fails because the
	// backing file could not grow.
	ErrDiskFull = errors.New("disk full")

	// ErrMmapFailure is returned when mapping a file into memory fails.
	ErrMmapFailure = errors.New("mmap failed")

	// ErrRemapFailure is returned when growing an existing mapping fails.
	ErrRemapFailure = errors.New("remap failed")

	// ErrUnmapFailure is returned when releasing a mapping fails.
	ErrUnmapFailure = errors.New("munmap failed")

	// ErrFsyncFailure is returned when flushing dirty pages to disk fails.
	ErrFsyncFailure = errors.New("fsync failed")

	// ErrFtruncateFailure is returned when resizing the backing file fails.
	ErrFtruncateFailure = errors.New("ftruncate failed")

	// ErrLoadFailure is returned when opening or loading a file fails.
	ErrLoadFailure = errors.New("load failed")
)

// =====================
// Locks
// =====================

var (
	// ErrTransactorLock is returned when the transactor's shared or unique
	// guard could not be acquired.
	ErrTransactorLock = errors.New("transactor lock unavailable")

	// ErrProcessLock is returned when the on-disk process lock is held by
	// another process.
	ErrProcessLock = errors.New("process lock unavailable")

	// ErrFlushLock is returned when the flush lock file could not be
	// created or removed.
	ErrFlushLock = errors.New("flush lock unavailable")
)

// =====================
// Per-table lifecycle
// =====================

var (
	// ErrCreateTable is returned when a table's files could not be created.
	ErrCreateTable = errors.New("table create failed")

	// ErrCloseTable is returned when a table's files could not be unloaded/closed.
	ErrCloseTable = errors.New("table close failed")

	// ErrBackupTable is returned when a table's head could not be copied to a backup slot.
	ErrBackupTable = errors.New("table backup failed")

	// ErrRestoreTable is returned when a table's head could not be restored from backup.
	ErrRestoreTable = errors.New("table restore failed")

	// ErrVerifyTable is returned when table verification fails.
	ErrVerifyTable = errors.New("table verify failed")
)

// =====================
// Validation verdicts (persisted, not computed here)
// =====================

var (
	ErrBlockValid         = errors.New("block valid")
	ErrBlockConfirmable   = errors.New("block confirmable")
	ErrBlockUnconfirmable = errors.New("block unconfirmable")
	ErrTxConnected        = errors.New("tx connected")
	ErrTxDisconnected     = errors.New("tx disconnected")
)

// =====================
// Information-absence
// =====================

var (
	// ErrUnassociated is returned when a block has no recorded txs.
	ErrUnassociated = errors.New("block has no associated txs")

	// ErrUnvalidated is returned when a block has txs but no recorded verdict.
	ErrUnvalidated = errors.New("block has no validation verdict")
)

// =====================
// Cancellation
// =====================

var (
	// ErrQueryCanceled is returned when a caller-supplied cancellation flag
	// aborts a batch query between units of work.
	ErrQueryCanceled = errors.New("query canceled")
)

// Kind classifies a Fault for programmatic dispatch without string matching.
type Kind uint8

const (
	KindNone Kind = iota
	KindIntegrity
	KindDiskFull
	KindMmapFailure
	KindRemapFailure
	KindUnmapFailure
	KindFsyncFailure
	KindFtruncateFailure
	KindLoadFailure
	KindTransactorLock
	KindProcessLock
	KindFlushLock
	KindCreateTable
	KindCloseTable
	KindBackupTable
	KindRestoreTable
	KindVerifyTable
	KindMissingSnapshot
	KindUnloadedFile
	KindUnknownState
	KindQueryCanceled
)

var kindErrors = map[Kind]error{
	KindNone:            nil,
	KindIntegrity:       ErrIntegrity,
	KindDiskFull:        ErrDiskFull,
	KindMmapFailure:     ErrMmapFailure,
	KindRemapFailure:    ErrRemapFailure,
	KindUnmapFailure:    ErrUnmapFailure,
	KindFsyncFailure:    ErrFsyncFailure,
	KindFtruncateFailure: ErrFtruncateFailure,
	KindLoadFailure:     ErrLoadFailure,
	KindTransactorLock:  ErrTransactorLock,
	KindProcessLock:     ErrProcessLock,
	KindFlushLock:       ErrFlushLock,
	KindCreateTable:     ErrCreateTable,
	KindCloseTable:      ErrCloseTable,
	KindBackupTable:     ErrBackupTable,
	KindRestoreTable:    ErrRestoreTable,
	KindVerifyTable:     ErrVerifyTable,
	KindMissingSnapshot: ErrMissingSnapshot,
	KindUnloadedFile:    ErrUnloadedFile,
	KindUnknownState:    ErrUnknownState,
	KindQueryCanceled:   ErrQueryCanceled,
}

// Error returns the sentinel error associated with k, or nil for KindNone.
func (k Kind) Error() error {
	return kindErrors[k]
}

// Fault pairs a Kind with the table identifier it occurred on, if any.
// A zero-value Fault (Kind: KindNone) represents success.
type Fault struct {
	Kind  Kind
	Table string
}

// Ok reports whether f represents success.
func (f Fault) Ok() bool {
	return f.Kind == KindNone
}

// Error implements the error interface; Fault is itself usable as an error.
func (f Fault) Error() string {
	if f.Ok() {
		return "success"
	}
	if f.Table == "" {
		return f.Kind.Error().Error()
	}
	return fmt.Sprintf("%s: table %s", f.Kind.Error(), f.Table)
}

// NewFault builds a Fault from a Kind and an optional table identifier.
func NewFault(kind Kind, table string) Fault {
	return Fault{Kind: kind, Table: table}
}

// Success is the zero-value Fault returned by operations that completed.
var Success = Fault{Kind: KindNone}
