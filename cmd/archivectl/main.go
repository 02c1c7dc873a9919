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

// archivectl is a read-only inspection tool over an archive directory:
// the idiomatic-Go analogue of the original store's tools/block_db and
// tools/spend_db debug utilities, reworked around urfave/cli the way the
// teacher's cmd/n42 entrypoint is built. It adds no records — every
// subcommand opens the store through Startup, inspects, and closes it.
// Opening still takes the process lock and creates the flush-lock file,
// Startup restores from the latest snapshot when it finds a flush-lock
// file left behind, and Close writes each table's body count back to its
// head.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const usageText = `archivectl [global options] command [command options] [arguments...]

Inspect an archive directory without adding records to it:
  archivectl --dir ./data open                 confirm the directory opens cleanly
  archivectl --dir ./data verify               check every table's head/body agree
  archivectl --dir ./data report               print per-table counts
  archivectl --dir ./data header get <hash>    fetch a header by block hash
  archivectl --dir ./data tx get <hash>        fetch a transaction by hash
  archivectl --dir ./data height candidate 10  look up the candidate link at height 10
  archivectl --dir ./data height confirmed 10  look up the confirmed link at height 10`

func main() {
	app := &cli.App{
		Name:      "archivectl",
		Usage:     "inspect an archivestore directory",
		UsageText: usageText,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "dir",
				Aliases:  []string{"d"},
				Usage:    "archive directory to open",
				Required: true,
			},
		},
		Commands: []*cli.Command{
			openCommand,
			verifyCommand,
			reportCommand,
			headerCommand,
			txCommand,
			heightCommand,
		},
		Copyright: "Copyright 2022-2026 The N42 Authors",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "archivectl: %v\n", err)
		os.Exit(1)
	}
}
