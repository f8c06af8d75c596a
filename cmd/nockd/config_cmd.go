// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// ConfigCmd resolves the common flag set into a config.Config,
// validates it, and prints it — useful for checking a flag
// combination before handing it to a long-running bench or a future
// serve command.
var ConfigCmd = cli.Command{
	Action: doConfig,
	Name:   "config",
	Usage:  "resolve, validate, and print the effective kernel configuration",
	Flags:  commonFlags,
}

func doConfig(ctx *cli.Context) error {
	cfg, err := configFromFlags(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("stack-words:     %d\n", cfg.StackWords)
	fmt.Printf("local-slots:     %d\n", cfg.LocalSlots)
	fmt.Printf("warm-cache-size: %d\n", cfg.WarmCacheSize)
	fmt.Printf("memo-cache-size: %d\n", cfg.MemoCacheSize)
	fmt.Printf("checkpoint-dir:  %q\n", cfg.CheckpointDir)
	fmt.Printf("log-level:       %s\n", cfg.LogLevel)
	return nil
}
