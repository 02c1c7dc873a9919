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
	"sync"
	"time"
)

// Transactor serializes table-mutating transactions against whole-store
// maintenance operations. The original store expressed this with a
// std::shared_timed_mutex: a write transaction holds the shared side for
// its whole allocate-then-commit span, while snapshot and close take the
// unique side and block new transactions until every outstanding one
// completes. sync.RWMutex gives the same two-sided discipline directly.
type Transactor struct {
	mu sync.RWMutex
}

// SharedGuard releases one writer's hold on the transactor's shared side.
type SharedGuard struct {
	t *Transactor
}

// Release ends the writer's transaction span.
func (g SharedGuard) Release() {
	g.t.mu.RUnlock()
}

// Shared begins a write transaction: held from the first allocate through
// the final commit, so a concurrent Snapshot or Close cannot observe a
// half-written record.
func (t *Transactor) Shared() SharedGuard {
	t.mu.RLock()
	return SharedGuard{t: t}
}

// retryInterval is the spec's one-second timeout between unique-lock
// attempts; each failed attempt reports a deadlock hint so an operator can
// tell a slow snapshot from a hung one.
const retryInterval = time.Second

// Unique blocks until every outstanding Shared guard has released, then
// returns an unlock func. It polls rather than blocking directly on Lock
// so it can report progress: a Snapshot sitting behind a long-running
// write transaction is a normal, if slow, occurrence, not necessarily a
// real deadlock.
func (t *Transactor) Unique(report Handler) func() {
	for !t.mu.TryLock() {
		report.report(DeadlockHint, "")
		time.Sleep(retryInterval)
	}
	return t.mu.Unlock
}
