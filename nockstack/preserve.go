// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package nockstack

import (
	"math"

	"github.com/nockrt/nockrt/noun"
)

// pendingPatch is one entry of the copy worklist: a source noun still
// to be resolved, plus the slot in already-allocated parent storage
// that should receive its copy once resolved. This is the Go
// equivalent of spec §4.B's "(source_noun, destination_slot) pairs"
// worklist, deliberately implemented with an explicit queue (a plain
// slice used FIFO) rather than host recursion, so preserving a very
// deep but narrow structure — a long Nock list, say — cannot blow the
// goroutine stack the way a naive recursive copy could.
type pendingPatch struct {
	src noun.Noun
	set func(noun.Noun)
}

// Preserve copies v out of the current (about-to-be-popped) frame and
// into its parent, following forwarding pointers already installed by
// an earlier preserve or unifying-equality rewrite, and installing new
// ones for anything copied for the first time. Nouns already living
// outside the current frame (in an ancestor, or Immortal) are returned
// unchanged — they are still reachable and need no copy.
func (s *Stack) Preserve(v noun.Noun) (noun.Noun, error) {
	cur := s.top
	parent := cur.parent
	if parent == nil {
		return noun.Noun{}, ErrNotRootFrame
	}
	cur.copyMode = true

	var result noun.Noun
	queue := []pendingPatch{{src: v, set: func(r noun.Noun) { result = r }}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		next, more, err := preserveStep(cur, parent, item.src)
		if err != nil {
			return noun.Noun{}, err
		}
		item.set(next)
		queue = append(queue, more...)
	}
	return result, nil
}

// preserveStep resolves one source noun: direct atoms and nouns that
// already live outside the doomed frame pass through unchanged; a
// noun already forwarded (by a prior step of this same preserve call,
// or by an earlier one) resolves to its existing copy; anything else
// is allocated fresh in the parent frame's arena, with child slots of
// a freshly-copied cell returned as further pending patches.
func preserveStep(cur, parent *Frame, n noun.Noun) (noun.Noun, []pendingPatch, error) {
	if n.IsDirect() {
		return n, nil, nil
	}

	resolved := noun.Resolve(n)
	if !noun.Identical(resolved, n) {
		// Already forwarded by an earlier encounter of this object.
		return resolved, nil, nil
	}
	if resolved.Owner().Depth() != cur.depth {
		// Lives in an ancestor frame (or is Immortal): still live.
		return resolved, nil, nil
	}

	if resolved.IsCell() {
		h, err := resolved.Head()
		if err != nil {
			return noun.Noun{}, nil, err
		}
		t, err := resolved.Tail()
		if err != nil {
			return noun.Noun{}, nil, err
		}
		// Allocate the copy with placeholder children; they are
		// patched in place once the worklist resolves them. This
		// lets us install the forwarding pointer before recursing,
		// which is what makes shared substructure (the same cell
		// reachable via two paths) get copied only once.
		cp, err := parent.NewCell(h, t)
		if err != nil {
			return noun.Noun{}, nil, err
		}
		noun.Forward(resolved, cp)
		dst := cp
		return cp, []pendingPatch{
			{src: h, set: func(v noun.Noun) { _ = dst.SetHead(v) }},
			{src: t, set: func(v noun.Noun) { _ = dst.SetTail(v) }},
		}, nil
	}

	val, err := resolved.AsBigInt()
	if err != nil {
		return noun.Noun{}, nil, err
	}
	cp, err := parent.NewIndirectAtom(val)
	if err != nil {
		return noun.Noun{}, nil, err
	}
	noun.Forward(resolved, cp)
	return cp, nil, nil
}

// CheckNoJuniorPointers walks every root and asserts that no allocated
// descendant points into a frame younger than the frame containing the
// root itself — the invariant spec §4.B requires pop-copy to uphold.
// It is a debug/test assertion, not a hot-path check: callers in
// production code are not expected to run it on every operation.
func (s *Stack) CheckNoJuniorPointers(roots ...noun.Noun) error {
	for _, r := range roots {
		if err := checkNoJunior(r, noJuniorBoundUnset); err != nil {
			return err
		}
	}
	return nil
}

// noJuniorBoundUnset marks that no ancestor on the current path has a
// tracked owner yet, so any depth is still allowed below it.
const noJuniorBoundUnset = int64(math.MaxInt64)

// checkNoJunior walks n asserting that every descendant's owning frame
// is at least as senior (same or lower depth) as maxDepthAllowed, the
// depth of the shallowest owner seen so far on the path from the root.
// A descendant owned by a strictly deeper (younger) frame than an
// ancestor above it would mean a senior noun points into a junior
// frame — exactly what pop-time preserve exists to prevent.
func checkNoJunior(n noun.Noun, maxDepthAllowed int64) error {
	if n.IsDirect() {
		return nil
	}
	owner := n.Owner()
	if owner.Tracked() && maxDepthAllowed != noJuniorBoundUnset && owner.Depth() > maxDepthAllowed {
		return ErrNoJuniorPointerViolation
	}
	next := maxDepthAllowed
	if owner.Tracked() && (next == noJuniorBoundUnset || owner.Depth() < next) {
		next = owner.Depth()
	}
	if n.IsCell() {
		h, err := n.Head()
		if err != nil {
			return err
		}
		if err := checkNoJunior(h, next); err != nil {
			return err
		}
		t, err := n.Tail()
		if err != nil {
			return err
		}
		return checkNoJunior(t, next)
	}
	return nil
}
