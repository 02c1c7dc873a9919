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

// Package query implements the traversal helpers that sit on top of the
// schema tables: resolving a transaction to the block that confirms it,
// and pushing/popping the candidate and confirmed height chains. It is
// grounded on the original query<Store> facade's set_header/set_tx/
// push_confirmed bodies (original_source/test/query.cpp names the shape;
// the candidate/confirmed/strong-tx bookkeeping itself is described in
// store.hpp's block_database/history_database callers). The full query
// facade (fee estimation, merkle proofs) is out of scope; only the
// primitives the store's own invariants depend on live here.
package query

import (
	"errors"

	"github.com/n42blockchain/archivestore/database/dberr"
	"github.com/n42blockchain/archivestore/database/primitives"
	"github.com/n42blockchain/archivestore/database/schema"
	"github.com/n42blockchain/archivestore/database/store"
)

// ErrGenesisPop is returned by PopCandidate/PopConfirmed when asked to
// pop the last remaining (genesis) height.
var ErrGenesisPop = errors.New("cannot pop the genesis height")

// Query wraps a *store.Store with the traversal and chain-maintenance
// helpers that the store's own invariants reference.
type Query struct {
	db *store.Store
}

// New wraps an opened store. It does not itself open or create anything.
func New(db *store.Store) *Query { return &Query{db: db} }

func terminal() primitives.Link { return primitives.Terminal(schema.LinkWidth) }

// heightOf extracts the height packed into a header record's context
// field: [height:LinkWidth][flags:4][mtp:4], per spec.md section 4.9's
// context layout with this store's uniform 4-byte link width.
func heightOf(rec schema.HeaderRecord) uint64 {
	return uint64(primitives.GetLink(rec.Context[:schema.LinkWidth], schema.LinkWidth))
}

// ToBlock looks up the strong-tx record for txLink and returns the
// header link it names iff the record's positive flag is set; terminal
// otherwise (including when no strong-tx record exists at all). This is
// the definition of "which block contains this tx" for confirmation
// purposes: a later reorg does not erase the positive record, it adds a
// negative one that this lookup finds first.
func (q *Query) ToBlock(txLink primitives.Link) (primitives.Link, error) {
	if txLink.IsTerminal(schema.LinkWidth) {
		return terminal(), nil
	}
	hash, err := q.db.Transaction.GetKey(txLink)
	if err != nil {
		return terminal(), err
	}
	it, err := q.db.StrongTx.It(hash)
	if err != nil {
		return terminal(), err
	}
	link := it.Link()
	if link.IsTerminal(schema.LinkWidth) {
		return terminal(), nil
	}
	rec, err := q.db.StrongTx.GetAt(link)
	if err != nil {
		return terminal(), err
	}
	if !rec.Positive {
		return terminal(), nil
	}
	return rec.HeaderLink, nil
}

// ToStrong iterates every transaction record sharing txHash (duplicate
// hashes occur, e.g. the two historical coinbases) and returns the first
// one whose ToBlock resolves to a confirmed header, along with that
// header's link. It returns two terminal links if none qualify.
func (q *Query) ToStrong(txHash [32]byte) (txLink primitives.Link, headerLink primitives.Link, err error) {
	it, err := q.db.Transaction.It(txHash)
	if err != nil {
		return terminal(), terminal(), err
	}
	for link := it.Link(); !link.IsTerminal(schema.LinkWidth); link = it.Link() {
		h, err := q.ToBlock(link)
		if err != nil {
			return terminal(), terminal(), err
		}
		if !h.IsTerminal(schema.LinkWidth) {
			confirmed, err := q.IsConfirmedBlock(h)
			if err != nil {
				return terminal(), terminal(), err
			}
			if confirmed {
				return link, h, nil
			}
		}
		if !it.Next() {
			break
		}
	}
	if it.Err() != nil {
		return terminal(), terminal(), it.Err()
	}
	return terminal(), terminal(), nil
}

// IsConfirmedBlock reports whether the confirmed height array names
// headerLink at its own recorded height, guarding against a stale
// strong-tx record left behind by a reorganization.
func (q *Query) IsConfirmedBlock(headerLink primitives.Link) (bool, error) {
	if headerLink.IsTerminal(schema.LinkWidth) {
		return false, nil
	}
	rec, err := q.db.Header.GetAt(headerLink)
	if err != nil {
		return false, err
	}
	height := heightOf(rec)
	link, err := q.db.Confirmed.Get(height)
	if errors.Is(err, dberr.ErrUnknownState) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return link == headerLink, nil
}

// IsUnspent reports whether point (an output link) has no recorded
// spend, built directly on schema.SpendTable.IsUnspent — the query
// package's public name for it, per the supplemented spend-index
// traversal the original store's unspent_outputs/unspent_transaction
// tests exercise.
func (q *Query) IsUnspent(point primitives.Link) (bool, error) {
	return q.db.Spend.IsUnspent(uint64(point))
}

// PushCandidate reserves the slot at height in the candidate array and
// commits headerLink into it.
func (q *Query) PushCandidate(height uint64, headerLink primitives.Link) error {
	guard := q.db.Transactor().Shared()
	defer guard.Release()
	return q.db.Candidate.Push(height, headerLink)
}

// PopCandidate truncates the candidate array by one height. It refuses
// to pop the genesis height (the array's last remaining slot).
func (q *Query) PopCandidate() error {
	guard := q.db.Transactor().Shared()
	defer guard.Release()
	count := q.db.Candidate.Count()
	if count <= 1 {
		return ErrGenesisPop
	}
	q.db.Candidate.Pop(count - 1)
	return nil
}

// PushConfirmed commits headerLink at height in the confirmed array. If
// strong is set, it first writes a positive strong-tx record for the
// block's coinbase (coinbaseHash), so that any reader who observes the
// confirmed slot can also observe the strong-tx record (spec.md section
// 5's ordering guarantee) — the strong-tx write happens-before the
// height-slot publication, never after.
func (q *Query) PushConfirmed(height uint64, headerLink primitives.Link, coinbaseHash [32]byte, strong bool) error {
	guard := q.db.Transactor().Shared()
	defer guard.Release()
	if strong {
		rec := schema.StrongTxRecord{HeaderLink: headerLink, Positive: true}
		if _, err := q.db.StrongTx.Put(coinbaseHash, rec); err != nil {
			return err
		}
	}
	return q.db.Confirmed.Push(height, headerLink)
}

// PopConfirmed reverses the top confirmed height: it writes a negative
// strong-tx record for coinbaseHash against the current top header link
// (records are never deleted, so the positive record from PushConfirmed
// survives), then truncates the confirmed array. It refuses to pop the
// genesis height.
func (q *Query) PopConfirmed(coinbaseHash [32]byte) error {
	guard := q.db.Transactor().Shared()
	defer guard.Release()
	count := q.db.Confirmed.Count()
	if count <= 1 {
		return ErrGenesisPop
	}
	top := count - 1
	headerLink, err := q.db.Confirmed.Get(top)
	if err != nil {
		return err
	}
	rec := schema.StrongTxRecord{HeaderLink: headerLink, Positive: false}
	if _, err := q.db.StrongTx.Put(coinbaseHash, rec); err != nil {
		return err
	}
	q.db.Confirmed.Pop(top)
	return nil
}
