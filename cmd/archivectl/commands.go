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

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/n42blockchain/archivestore/conf"
	"github.com/n42blockchain/archivestore/database/dberr"
	"github.com/n42blockchain/archivestore/database/schema"
	"github.com/n42blockchain/archivestore/database/store"
)

// openReadOnly opens the archive directory named by the global --dir flag
// and returns the handle alongside a closer to defer. It uses Startup
// rather than Open directly so a missing directory reports the same
// dberr.Fault a writer would see.
func openReadOnly(c *cli.Context) (*store.Store, func(), error) {
	dir := c.String("dir")
	settings := conf.DefaultSettings(dir)
	st, err := store.New(settings)
	if err != nil {
		return nil, nil, err
	}
	if err := st.Startup(nil); err != nil {
		return nil, nil, err
	}
	return st, func() { _ = st.Close(nil) }, nil
}

func parseHash(s string) ([32]byte, error) {
	var hash [32]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return hash, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	if len(b) != len(hash) {
		return hash, fmt.Errorf("hash %q must be %d bytes, got %d", s, len(hash), len(b))
	}
	copy(hash[:], b)
	return hash, nil
}

var openCommand = &cli.Command{
	Name:  "open",
	Usage: "confirm the archive directory opens cleanly, then close it",
	Action: func(c *cli.Context) error {
		_, closeFn, err := openReadOnly(c)
		if err != nil {
			return err
		}
		closeFn()
		fmt.Println("ok")
		return nil
	},
}

var verifyCommand = &cli.Command{
	Name:  "verify",
	Usage: "open the archive and confirm every table's head and body agree",
	Action: func(c *cli.Context) error {
		st, closeFn, err := openReadOnly(c)
		if err != nil {
			return err
		}
		defer closeFn()
		bad, errs := st.VerifyAll()
		if bad.None() {
			fmt.Println("ok")
			return nil
		}
		for _, e := range errs {
			fmt.Println(e)
		}
		return fmt.Errorf("%d table(s) failed verification", bad.Count())
	},
}

var reportCommand = &cli.Command{
	Name:  "report",
	Usage: "print each table's body allocation count (records, or bytes for slab tables)",
	Action: func(c *cli.Context) error {
		st, closeFn, err := openReadOnly(c)
		if err != nil {
			return err
		}
		defer closeFn()
		for _, tr := range st.Report() {
			fmt.Printf("%-12s %d\n", tr.Name, tr.Count)
		}
		return nil
	},
}

var headerCommand = &cli.Command{
	Name:  "header",
	Usage: "inspect the header table",
	Subcommands: []*cli.Command{
		{
			Name:      "get",
			Usage:     "fetch a header by block hash",
			ArgsUsage: "<hash>",
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return errors.New("usage: header get <hash>")
				}
				hash, err := parseHash(c.Args().Get(0))
				if err != nil {
					return err
				}
				st, closeFn, err := openReadOnly(c)
				if err != nil {
					return err
				}
				defer closeFn()
				rec, link, err := st.Header.Get(hash)
				if err != nil {
					return err
				}
				fmt.Printf("link:        %d\n", link)
				fmt.Printf("milestone:   %t\n", rec.Milestone)
				fmt.Printf("parent_link: %d\n", rec.ParentLink)
				fmt.Printf("version:     %d\n", rec.Version)
				fmt.Printf("timestamp:   %d\n", rec.Timestamp)
				fmt.Printf("bits:        %d\n", rec.Bits)
				fmt.Printf("nonce:       %d\n", rec.Nonce)
				fmt.Printf("merkle_root: %s\n", hex.EncodeToString(rec.MerkleRoot[:]))
				return nil
			},
		},
	},
}

var txCommand = &cli.Command{
	Name:  "tx",
	Usage: "inspect the transaction table",
	Subcommands: []*cli.Command{
		{
			Name:      "get",
			Usage:     "fetch the most recent transaction record by hash",
			ArgsUsage: "<hash>",
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return errors.New("usage: tx get <hash>")
				}
				hash, err := parseHash(c.Args().Get(0))
				if err != nil {
					return err
				}
				st, closeFn, err := openReadOnly(c)
				if err != nil {
					return err
				}
				defer closeFn()
				it, err := st.Transaction.It(hash)
				if err != nil {
					return err
				}
				link := it.Link()
				if link.IsTerminal(schema.LinkWidth) {
					return fmt.Errorf("no transaction found for hash %x", hash)
				}
				rec, err := st.Transaction.GetAt(link)
				if err != nil {
					return err
				}
				fmt.Printf("link:        %d\n", link)
				fmt.Printf("coinbase:    %t\n", rec.Coinbase)
				fmt.Printf("light_size:  %d\n", rec.LightSize)
				fmt.Printf("heavy_size:  %d\n", rec.HeavySize)
				fmt.Printf("locktime:    %d\n", rec.Locktime)
				fmt.Printf("version:     %d\n", rec.Version)
				fmt.Printf("inputs:      %d\n", rec.Inputs)
				fmt.Printf("outputs:     %d\n", rec.Outputs)
				fmt.Printf("first_point: %d\n", rec.FirstPoint)
				fmt.Printf("outs_block:  %d\n", rec.OutsBlock)
				return nil
			},
		},
	},
}

var heightCommand = &cli.Command{
	Name:  "height",
	Usage: "look up a header link by height in the candidate or confirmed chain",
	Subcommands: []*cli.Command{
		heightSubcommand("candidate", func(st *store.Store) *schema.HeightTable { return st.Candidate }),
		heightSubcommand("confirmed", func(st *store.Store) *schema.HeightTable { return st.Confirmed }),
	},
}

func heightSubcommand(name string, table func(*store.Store) *schema.HeightTable) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     fmt.Sprintf("fetch the %s header link at a height", name),
		ArgsUsage: "<height>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: height %s <height>", name)
			}
			height, err := strconv.ParseUint(c.Args().Get(0), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid height %q: %w", c.Args().Get(0), err)
			}
			st, closeFn, err := openReadOnly(c)
			if err != nil {
				return err
			}
			defer closeFn()
			link, err := table(st).Get(height)
			if errors.Is(err, dberr.ErrUnknownState) {
				fmt.Println("unset")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Println(link)
			return nil
		},
	}
}
