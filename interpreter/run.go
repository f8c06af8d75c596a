// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package interpreter

import "github.com/nockrt/nockrt/noun"

// Snapshotter is implemented by a JetTable that keeps mutable state
// (cold/warm registrations, a memo cache) a failed call should not be
// allowed to leave half-updated. Snapshot captures that state opaquely;
// Restore puts it back exactly as it was.
type Snapshotter interface {
	Snapshot() any
	Restore(any)
}

// Run is the entry point package serf calls for one kernel request. It
// wraps Eval with the snapshot/restore discipline the original
// interpreter applies around every top-level call: on a deterministic
// or non-deterministic exit, any cold/warm/memo state a jet mutated
// along the way (via %fast or %memo hints) is rolled back, so a failed
// call is invisible to anything that inspects jet state afterward.
func Run(ctx *Context, subject, formula noun.Noun) (noun.Noun, error) {
	snapper, ok := ctx.Jets.(Snapshotter)
	if !ok {
		return Eval(ctx, subject, formula)
	}
	snapshot := snapper.Snapshot()
	result, err := Eval(ctx, subject, formula)
	if err != nil {
		snapper.Restore(snapshot)
		return noun.Noun{}, err
	}
	return result, nil
}
