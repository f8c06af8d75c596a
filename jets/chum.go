// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package jets implements the cold/warm jet table and %memo cache the
// interpreter consults at op 9 and at the %fast/%memo/%sham hints
// (spec §4.E): a fixed, compiled-in table of native implementations
// keyed by battery identity, a bounded runtime-learned warm table, and
// a bounded result cache. Package interpreter depends only on the
// interfaces this package implements (interpreter.JetTable,
// JetRegistrar, Memoizer, ShamLookup, Snapshotter); jets is free to
// import interpreter for the NativeFunc type without creating a cycle.
package jets

import "github.com/nockrt/nockrt/noun"

// Chum identifies a jetted battery by the structural mug of the
// formula (or core) a jet is registered against — the same identity
// the reference runtime's chum mechanism names by a Hoon hash, here
// reduced to the mug already computed and cached on every heap-
// resident noun (spec §6.3).
type Chum uint32

// ChumOf derives the Chum a cold or warm registration is keyed on.
func ChumOf(battery noun.Noun) Chum {
	return Chum(noun.Mug(battery))
}
