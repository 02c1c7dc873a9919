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
	"testing"

	"github.com/n42blockchain/archivestore/database/primitives"
)

func TestTransactionRecordRoundTrip(t *testing.T) {
	rec := TransactionRecord{
		Coinbase:   true,
		LightSize:  250,
		HeavySize:  400,
		Locktime:   0,
		Version:    2,
		Inputs:     1,
		Outputs:    2,
		FirstPoint: 10,
		OutsBlock:  20,
	}
	got, ok := TransactionFromData(rec.ToData())
	if !ok {
		t.Fatalf("decode failed")
	}
	if got != rec {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, rec)
	}
}

func TestTransactionTableDuplicateHashChain(t *testing.T) {
	hm := newTestHashmap(t, 64, true, HashKeyLen, transactionRecordSize)
	table := NewTransactionTable(hm)

	h := hash32(0x33)
	first, err := table.Put(h, TransactionRecord{Version: 1, Inputs: 1, Outputs: 1})
	if err != nil {
		t.Fatalf("put first: %v", err)
	}
	second, err := table.Put(h, TransactionRecord{Version: 2, Inputs: 1, Outputs: 1})
	if err != nil {
		t.Fatalf("put second: %v", err)
	}

	it, err := table.It(h)
	if err != nil {
		t.Fatalf("it: %v", err)
	}
	var links []primitives.Link
	for it.Link() != primitives.Terminal(LinkWidth) {
		links = append(links, it.Link())
		if !it.Next() {
			break
		}
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iterate: %v", err)
	}
	if len(links) != 2 || links[0] != second || links[1] != first {
		t.Fatalf("expected chain [second, first], got %v (second=%d first=%d)", links, second, first)
	}
}
