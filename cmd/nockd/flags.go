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
	"runtime"

	"github.com/urfave/cli/v2"

	"github.com/nockrt/nockrt/config"
)

// Flag wrapper types follow go/ct/driver/cli/flags.go's pattern: embed
// the urfave/cli flag type, give it package-level defaults, and expose
// a typed Fetch method so callers never re-type a flag name string.

type stackWordsFlagType struct {
	cli.Uint64Flag
}

var stackWordsFlag = &stackWordsFlagType{
	cli.Uint64Flag{
		Name:  "stack-words",
		Usage: "split-arena stack capacity, in words",
		Value: config.Default().StackWords,
	},
}

func (f *stackWordsFlagType) Fetch(ctx *cli.Context) uint64 {
	return ctx.Uint64(f.Name)
}

type localSlotsFlagType struct {
	cli.IntFlag
}

var localSlotsFlag = &localSlotsFlagType{
	cli.IntFlag{
		Name:  "local-slots",
		Usage: "named local-variable slots reserved per frame",
		Value: config.Default().LocalSlots,
	},
}

func (f *localSlotsFlagType) Fetch(ctx *cli.Context) int {
	return ctx.Int(f.Name)
}

type warmCacheSizeFlagType struct {
	cli.IntFlag
}

var warmCacheSizeFlag = &warmCacheSizeFlagType{
	cli.IntFlag{
		Name:  "warm-cache-size",
		Usage: "capacity of the %fast-promoted warm jet table",
		Value: config.Default().WarmCacheSize,
	},
}

func (f *warmCacheSizeFlagType) Fetch(ctx *cli.Context) int {
	return ctx.Int(f.Name)
}

type memoCacheSizeFlagType struct {
	cli.IntFlag
}

var memoCacheSizeFlag = &memoCacheSizeFlagType{
	cli.IntFlag{
		Name:  "memo-cache-size",
		Usage: "capacity of the %memo hint cache",
		Value: config.Default().MemoCacheSize,
	},
}

func (f *memoCacheSizeFlagType) Fetch(ctx *cli.Context) int {
	return ctx.Int(f.Name)
}

type checkpointDirFlagType struct {
	cli.StringFlag
}

var checkpointDirFlag = &checkpointDirFlagType{
	cli.StringFlag{
		Name:  "checkpoint-dir",
		Usage: "directory checkpointed roots are written to, if set",
	},
}

func (f *checkpointDirFlagType) Fetch(ctx *cli.Context) string {
	return ctx.String(f.Name)
}

type logLevelFlagType struct {
	cli.StringFlag
}

var logLevelFlag = &logLevelFlagType{
	cli.StringFlag{
		Name:  "log-level",
		Usage: "minimum %slog level emitted: debug, info, warn, error",
		Value: config.Default().LogLevel,
	},
}

func (f *logLevelFlagType) Fetch(ctx *cli.Context) string {
	return ctx.String(f.Name)
}

type jobsFlagType struct {
	cli.IntFlag
}

var jobsFlag = &jobsFlagType{
	cli.IntFlag{
		Name:    "jobs",
		Aliases: []string{"j"},
		Usage:   "number of goroutines submitting pokes concurrently",
		Value:   runtime.NumCPU(),
	},
}

func (f *jobsFlagType) Fetch(ctx *cli.Context) int {
	return ctx.Int(f.Name)
}

type countFlagType struct {
	cli.IntFlag
}

var countFlag = &countFlagType{
	cli.IntFlag{
		Name:    "count",
		Aliases: []string{"n"},
		Usage:   "total number of pokes to submit",
		Value:   10000,
	},
}

func (f *countFlagType) Fetch(ctx *cli.Context) int {
	return ctx.Int(f.Name)
}

// commonFlags are accepted by every subcommand that builds a kernel.
var commonFlags = []cli.Flag{
	&stackWordsFlag.Uint64Flag,
	&localSlotsFlag.IntFlag,
	&warmCacheSizeFlag.IntFlag,
	&memoCacheSizeFlag.IntFlag,
	&checkpointDirFlag.StringFlag,
	&logLevelFlag.StringFlag,
}

// configFromFlags builds and validates a config.Config from the
// common flag set, the same "flags are the only configuration layer"
// discipline SPEC_FULL.md and package config document.
func configFromFlags(ctx *cli.Context) (config.Config, error) {
	c := config.Config{
		StackWords:    stackWordsFlag.Fetch(ctx),
		LocalSlots:    localSlotsFlag.Fetch(ctx),
		WarmCacheSize: warmCacheSizeFlag.Fetch(ctx),
		MemoCacheSize: memoCacheSizeFlag.Fetch(ctx),
		CheckpointDir: checkpointDirFlag.Fetch(ctx),
		LogLevel:      logLevelFlag.Fetch(ctx),
	}
	if err := c.Validate(); err != nil {
		return config.Config{}, err
	}
	return c, nil
}
