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

package query

import (
	"testing"

	"github.com/n42blockchain/archivestore/conf"
	"github.com/n42blockchain/archivestore/database/primitives"
	"github.com/n42blockchain/archivestore/database/schema"
	"github.com/n42blockchain/archivestore/database/store"
)

func smallSettings(dir string) conf.Settings {
	s := conf.DefaultSettings(dir)
	for name, opt := range s.Tables {
		opt.Buckets = 64
		opt.Size = 4096
		s.Tables[name] = opt
	}
	return s
}

func headerWithHeight(height uint32) schema.HeaderRecord {
	var rec schema.HeaderRecord
	primitives.PutLink(rec.Context[:schema.LinkWidth], primitives.Link(height), schema.LinkWidth)
	rec.ParentLink = primitives.Terminal(schema.LinkWidth)
	return rec
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(smallSettings(t.TempDir()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := st.Create(nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(nil) })
	return st
}

// TestConfirmationAndReorganization reproduces spec.md's scenarios 4 and
// 5: pushing a confirmed block writes a positive strong-tx record for
// its coinbase before the height slot is visible, and popping it writes
// a negative record rather than erasing the positive one.
func TestConfirmationAndReorganization(t *testing.T) {
	st := newTestStore(t)
	q := New(st)

	genesisHash := [32]byte{0, 0, 0, 1}
	genesisLink, err := st.Header.Put(genesisHash, headerWithHeight(0))
	if err != nil {
		t.Fatalf("put genesis header: %v", err)
	}
	if err := q.PushCandidate(0, genesisLink); err != nil {
		t.Fatalf("push candidate genesis: %v", err)
	}
	if err := q.PushConfirmed(0, genesisLink, [32]byte{}, false); err != nil {
		t.Fatalf("push confirmed genesis: %v", err)
	}

	blockHash := [32]byte{0, 0, 0, 2}
	headerLink, err := st.Header.Put(blockHash, headerWithHeight(1))
	if err != nil {
		t.Fatalf("put header: %v", err)
	}
	if err := q.PushCandidate(1, headerLink); err != nil {
		t.Fatalf("push candidate: %v", err)
	}

	coinbaseHash := [32]byte{7, 7, 7}
	coinbaseLink, err := st.Transaction.Put(coinbaseHash, schema.TransactionRecord{Coinbase: true})
	if err != nil {
		t.Fatalf("put coinbase tx: %v", err)
	}

	if err := q.PushConfirmed(1, headerLink, coinbaseHash, true); err != nil {
		t.Fatalf("push confirmed: %v", err)
	}

	gotHeader, err := q.ToBlock(coinbaseLink)
	if err != nil {
		t.Fatalf("to_block: %v", err)
	}
	if gotHeader != headerLink {
		t.Fatalf("to_block = %d, want %d", gotHeader, headerLink)
	}

	confirmed, err := q.IsConfirmedBlock(headerLink)
	if err != nil {
		t.Fatalf("is_confirmed_block: %v", err)
	}
	if !confirmed {
		t.Fatalf("expected header to be confirmed after push_confirmed")
	}

	txLink, strongHeader, err := q.ToStrong(coinbaseHash)
	if err != nil {
		t.Fatalf("to_strong: %v", err)
	}
	if txLink != coinbaseLink || strongHeader != headerLink {
		t.Fatalf("to_strong = (%d, %d), want (%d, %d)", txLink, strongHeader, coinbaseLink, headerLink)
	}

	// Scenario 5: reorganization.
	if err := q.PopConfirmed(coinbaseHash); err != nil {
		t.Fatalf("pop confirmed: %v", err)
	}

	gotHeader, err = q.ToBlock(coinbaseLink)
	if err != nil {
		t.Fatalf("to_block after pop: %v", err)
	}
	if !gotHeader.IsTerminal(schema.LinkWidth) {
		t.Fatalf("to_block after pop = %d, want terminal", gotHeader)
	}

	confirmed, err = q.IsConfirmedBlock(headerLink)
	if err != nil {
		t.Fatalf("is_confirmed_block after pop: %v", err)
	}
	if confirmed {
		t.Fatalf("expected header to no longer be confirmed after pop_confirmed")
	}

	// The positive record is not removed: walking the full chain still
	// finds it, just not first.
	it, err := st.StrongTx.It(coinbaseHash)
	if err != nil {
		t.Fatalf("strong_tx it: %v", err)
	}
	var sawPositive bool
	for link := it.Link(); !link.IsTerminal(schema.LinkWidth); link = it.Link() {
		rec, err := st.StrongTx.GetAt(link)
		if err != nil {
			t.Fatalf("strong_tx get_at: %v", err)
		}
		if rec.Positive {
			sawPositive = true
		}
		if !it.Next() {
			break
		}
	}
	if !sawPositive {
		t.Fatalf("expected the original positive strong-tx record to survive the reorg")
	}
}

func TestPopConfirmedRejectsGenesis(t *testing.T) {
	st := newTestStore(t)
	q := New(st)

	genesisHash := [32]byte{1}
	genesisLink, err := st.Header.Put(genesisHash, headerWithHeight(0))
	if err != nil {
		t.Fatalf("put genesis header: %v", err)
	}
	if err := q.PushConfirmed(0, genesisLink, [32]byte{}, false); err != nil {
		t.Fatalf("push confirmed genesis: %v", err)
	}

	if err := q.PopConfirmed([32]byte{}); err != ErrGenesisPop {
		t.Fatalf("pop confirmed genesis = %v, want ErrGenesisPop", err)
	}
}

func TestPopCandidateRejectsGenesis(t *testing.T) {
	st := newTestStore(t)
	q := New(st)

	genesisHash := [32]byte{1}
	genesisLink, err := st.Header.Put(genesisHash, headerWithHeight(0))
	if err != nil {
		t.Fatalf("put genesis header: %v", err)
	}
	if err := q.PushCandidate(0, genesisLink); err != nil {
		t.Fatalf("push candidate genesis: %v", err)
	}

	if err := q.PopCandidate(); err != ErrGenesisPop {
		t.Fatalf("pop candidate genesis = %v, want ErrGenesisPop", err)
	}
}

func TestToBlockTerminalForUnknownTx(t *testing.T) {
	st := newTestStore(t)
	q := New(st)

	got, err := q.ToBlock(primitives.Terminal(schema.LinkWidth))
	if err != nil {
		t.Fatalf("to_block: %v", err)
	}
	if !got.IsTerminal(schema.LinkWidth) {
		t.Fatalf("to_block(terminal) = %d, want terminal", got)
	}
}
