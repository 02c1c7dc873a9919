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

// EventKind names one step of a store lifecycle operation, reported to a
// caller-supplied Handler as the operation progresses table by table.
// Mirrors the original store's event_handler taxonomy (create_file,
// open_file, ...), with one addition (DeadlockHint) for the Go transactor's
// timed-retry acquire loop.
type EventKind int

const (
	CreateFile EventKind = iota
	OpenFile
	LoadFile
	FlushTable
	UnloadFile
	CloseFile
	BackupTable
	CopyHead
	ArchiveSnapshot
	RestoreTable
	// DeadlockHint is reported once per failed attempt while Snapshot or
	// Close wait on the unique transactor guard (see Transactor.Unique).
	DeadlockHint
)

var eventNames = map[EventKind]string{
	CreateFile:      "create_file",
	OpenFile:        "open_file",
	LoadFile:        "load_file",
	FlushTable:      "flush_table",
	UnloadFile:      "unload_file",
	CloseFile:       "close_file",
	BackupTable:     "backup_table",
	CopyHead:        "copy_head",
	ArchiveSnapshot: "archive_snapshot",
	RestoreTable:    "restore_table",
	DeadlockHint:    "deadlock_hint",
}

// String returns the event's wire/log name.
func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event reports one step of a lifecycle operation against one table.
// Table is empty for events that are not table-scoped (DeadlockHint).
type Event struct {
	Kind  EventKind
	Table string
}

// Handler receives lifecycle events as Create/Open/Snapshot/Restore/
// Reload/Close progress. A nil Handler is valid; events are simply
// dropped.
type Handler func(Event)

func (h Handler) report(kind EventKind, table string) {
	if h != nil {
		h(Event{Kind: kind, Table: table})
	}
}
