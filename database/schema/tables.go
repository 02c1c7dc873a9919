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

// =============================================================================
// Table Registry
// =============================================================================
//
// Fifteen named tables sit atop the three primitive kinds. Each table name
// below names its on-disk files, relative to the archive directory
// ("archive_<name>.idx"/"archive_<name>.dat"), and is the key into
// conf.Settings.Tables.
//
//	header        hashmap   block-hash(32)   -> context/milestone/parent/version/timestamp/bits/nonce/merkle_root
//	transaction   hashmap   tx-hash(32)       -> coinbase/sizes/locktime/version/counts/first_point/outs_block
//	point         nomap     (implicit)        -> prevout_hash/prevout_index/sequence/input_link/parent_tx
//	input         nomap     (implicit)        -> script/witness (variable)
//	output        nomap     (implicit)        -> parent_tx/value/script (variable)
//	outs          nomap     (implicit)        -> ordered output links for one tx
//	txs           arraymap  header-link       -> tx_count/wire_size/tx_links[]/merkle_interval?/depth?
//	candidate     arraymap  height            -> header-link
//	confirmed     arraymap  height            -> header-link
//	strong_tx     hashmap   tx-hash(32)       -> header_link/positive flag (multi-value)
//	prevout       arraymap  header-link       -> conflict tx-links + per-input (prev_tx/sequence)
//	validated_bk  arraymap  header-link       -> state_code/fees
//	validated_tx  hashmap   tx-hash(32)       -> context/state_code/fee/sigops (multi-value)
//	address       hashmap   script-hash(32)   -> output_link (multi-value)
//	neutrino      hashmap   header-link(4)    -> filter bytes
//	spend         arraymap  output-link       -> spending tx-link (supplemented, see DESIGN.md)
//
// Kind, KeyLen, and RecordSize (0 = slab / variable) for each table:
type Kind uint8

const (
	KindHashmap Kind = iota
	KindArraymap
	KindNomap
)

// Table name constants, shared with conf.KnownTables.
const (
	Header      = "header"
	Transaction = "transaction"
	Point       = "point"
	Input       = "input"
	Output      = "output"
	Outs        = "outs"
	Txs         = "txs"
	Candidate   = "candidate"
	Confirmed   = "confirmed"
	StrongTx    = "strong_tx"
	Prevout     = "prevout"
	ValidatedBk = "validated_bk"
	ValidatedTx = "validated_tx"
	Address     = "address"
	Neutrino    = "neutrino"
	Spend       = "spend"
)

// LinkWidth is the uniform link byte width used by every table in this
// implementation (see DESIGN.md: spec.md allows 1-8 byte links per table,
// this store standardizes on 4 for tractability — 4 billion records/bytes
// per table is far beyond any plausible single-node archive size).
const LinkWidth = 4

// HashKeyLen is the key width for hash-keyed tables (block and tx hashes,
// script hashes).
const HashKeyLen = 32

// Descriptor describes one table's primitive-layer shape.
type Descriptor struct {
	Name       string
	Kind       Kind
	KeyLen     int // hashmap only
	RecordSize int // 0 selects slab/variable-length bodies
	Sieve      bool
}

// Descriptors enumerates every table's shape, in schema order.
var Descriptors = []Descriptor{
	{Name: Header, Kind: KindHashmap, KeyLen: HashKeyLen, RecordSize: headerRecordSize, Sieve: true},
	{Name: Transaction, Kind: KindHashmap, KeyLen: HashKeyLen, RecordSize: transactionRecordSize, Sieve: true},
	{Name: Point, Kind: KindNomap, RecordSize: pointRecordSize},
	{Name: Input, Kind: KindNomap, RecordSize: 0},
	{Name: Output, Kind: KindNomap, RecordSize: 0},
	{Name: Outs, Kind: KindNomap, RecordSize: 0},
	{Name: Txs, Kind: KindArraymap, RecordSize: 0},
	{Name: Candidate, Kind: KindArraymap, RecordSize: LinkWidth},
	{Name: Confirmed, Kind: KindArraymap, RecordSize: LinkWidth},
	{Name: StrongTx, Kind: KindHashmap, KeyLen: HashKeyLen, RecordSize: strongTxRecordSize, Sieve: true},
	{Name: Prevout, Kind: KindArraymap, RecordSize: 0},
	{Name: ValidatedBk, Kind: KindArraymap, RecordSize: validatedBkRecordSize},
	{Name: ValidatedTx, Kind: KindHashmap, KeyLen: HashKeyLen, RecordSize: validatedTxRecordSize, Sieve: true},
	{Name: Address, Kind: KindHashmap, KeyLen: HashKeyLen, RecordSize: addressRecordSize, Sieve: true},
	{Name: Neutrino, Kind: KindHashmap, KeyLen: LinkWidth, RecordSize: 0, Sieve: false},
	{Name: Spend, Kind: KindArraymap, RecordSize: spendRecordSize},
}
