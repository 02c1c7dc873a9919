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
	"github.com/n42blockchain/archivestore/database/dberr"
	"github.com/n42blockchain/archivestore/database/primitives"
)

// HeightTable binds a height-indexed arraymap (candidate or confirmed) to
// header links. Both tables share this identical shape: height -> header
// link, with no record of their own beyond the link itself.
type HeightTable struct {
	am *primitives.Arraymap
}

// NewHeightTable wraps an already-constructed Arraymap primitive.
func NewHeightTable(am *primitives.Arraymap) *HeightTable { return &HeightTable{am: am} }

// Count returns the number of heights currently populated (one past the
// current top height).
func (t *HeightTable) Count() uint64 { return t.am.Count() }

// Push commits headerLink as the header at height, extending the array
// if height is beyond its current extent.
func (t *HeightTable) Push(height uint64, headerLink primitives.Link) error {
	_, err := t.am.Commit(height, headerLink)
	return err
}

// Get returns the header link at height, or dberr.ErrUnknownState if
// height has never been populated.
func (t *HeightTable) Get(height uint64) (primitives.Link, error) {
	link, err := t.am.Top(height)
	if err != nil {
		return link, err
	}
	if link.IsTerminal(LinkWidth) {
		return link, dberr.ErrUnknownState
	}
	return link, nil
}

// Pop truncates the array so heights >= count are no longer visible. It
// does not reclaim any body storage (there is none: the link lives
// directly in the head array).
func (t *HeightTable) Pop(count uint64) { t.am.Truncate(count) }
