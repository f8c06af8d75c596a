// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package noun implements the Nock value model: atoms and cells, axis
// addressing, unifying equality, and the advisory mug hash.
//
// A Noun is a small, copyable handle, mirroring the spirit of the
// single-machine-word tagged handle described by the runtime's data
// model, but expressed as an explicit Go struct rather than packed
// pointer bits (idiomatic Go does not reach for manual tag-bit packing
// the way the reference runtime's systems-language implementation
// does). Atoms up to 256 bits are held inline by value (the common
// case, following the same "small value, no allocation" fast path
// Tosca's EVM stack takes with uint256.Int); atoms wider than that and
// all cells are heap objects carrying an owning FrameID used by
// package nockstack to drive pop-time copying and the no-junior-
// pointers invariant.
package noun

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Kind identifies the shape of a Noun.
type Kind uint8

const (
	KindAtom Kind = iota
	KindCell
)

// FrameID identifies the arena frame that allocated a heap-resident
// noun object (an indirect atom or a cell). It is assigned by package
// nockstack; the noun package only compares FrameIDs to decide which
// of two structurally-equal objects is "senior" (older, or allocated
// earlier within the same frame) when unifying equality aliases one
// pointer to the other.
//
// The zero value is NOT a valid tracked frame: use Immortal for nouns
// constructed outside of any NockStack (test fixtures, constants).
type FrameID struct {
	depth int64
	seq   uint64
}

// ImmortalDepth marks a FrameID as belonging to no managed frame: such
// an object is considered older than every real frame and is never
// reclaimed by a frame pop.
const ImmortalDepth int64 = -1

// Immortal is the FrameID used for nouns that live outside the managed
// arena entirely (constants, literals built by tests).
var Immortal = FrameID{depth: ImmortalDepth}

// NewFrameID is used by package nockstack to mint ids for a frame at
// the given depth together with a monotonic allocation sequence
// number, so two ids from the same frame still order correctly.
func NewFrameID(depth int64, seq uint64) FrameID {
	return FrameID{depth: depth, seq: seq}
}

// Depth reports the owning frame's depth (0 = bottom/root frame).
// ImmortalDepth is returned for untracked nouns.
func (f FrameID) Depth() int64 { return f.depth }

// Tracked reports whether this id belongs to a real, managed frame.
func (f FrameID) Tracked() bool { return f.depth != ImmortalDepth }

// Senior reports whether f was allocated no later than g: an older
// frame, or the same frame with an earlier sequence number. Aliasing
// always rewrites the junior object to forward to the senior one,
// which guarantees no pointer ever comes to point into a younger
// frame than its holder.
func (f FrameID) Senior(g FrameID) bool {
	if f.depth != g.depth {
		return f.depth < g.depth
	}
	return f.seq <= g.seq
}

// cell is the heap representation of a Nock cell [head tail].
type cell struct {
	head, tail Noun
	owner      FrameID
	forward    *cell // set once this cell has been copied to a parent frame
	mug        uint32
	mugValid   bool
}

// bigAtom is the heap representation of an atom too wide to fit in the
// inline 256-bit fast path.
type bigAtom struct {
	value    big.Int
	owner    FrameID
	forward  *bigAtom
	mug      uint32
	mugValid bool
}

// Noun is the universal value handle: either an atom (small, inline,
// or a *bigAtom reference) or a cell (*cell reference).
type Noun struct {
	k     Kind
	small uint256.Int
	big   *bigAtom
	c     *cell
}

// Atom constructs a direct (inline) atom noun from a machine word.
func Atom(v uint64) Noun {
	var n Noun
	n.k = KindAtom
	n.small.SetUint64(v)
	return n
}

// AtomFromUint256 constructs a direct atom noun from a 256-bit value.
func AtomFromUint256(v *uint256.Int) Noun {
	var n Noun
	n.k = KindAtom
	n.small = *v
	return n
}

// NewIndirectAtom constructs an arena-tracked atom wider than 256 bits.
// v must be non-negative: a negative v returns ErrMalformedIndirectAtom.
// big.Int is always canonical (it carries no leading zero limb), so v
// needs no further normalization.
func NewIndirectAtom(owner FrameID, v *big.Int) (Noun, error) {
	if v.Sign() < 0 {
		return Noun{}, ErrMalformedIndirectAtom
	}
	b := new(big.Int).Set(v)
	return Noun{k: KindAtom, big: &bigAtom{value: *b, owner: owner}}, nil
}

// NewCell constructs an arena-tracked cell [head tail].
func NewCell(owner FrameID, head, tail Noun) Noun {
	return Noun{k: KindCell, c: &cell{head: head, tail: tail, owner: owner}}
}

// IsCell reports whether n is a cell.
func (n Noun) IsCell() bool { return n.k == KindCell }

// IsAtom reports whether n is an atom.
func (n Noun) IsAtom() bool { return n.k == KindAtom }

// Kind returns the noun's kind, resolving through any forwarding.
func (n Noun) Kind() Kind { return n.resolve().k }

// Owner returns the FrameID of the heap object backing n, or
// Immortal for direct atoms (which carry no identity at all).
func (n Noun) Owner() FrameID {
	r := n.resolve()
	switch {
	case r.c != nil:
		return r.c.owner
	case r.big != nil:
		return r.big.owner
	default:
		return Immortal
	}
}

// resolve follows forwarding pointers left behind by a pop-time copy,
// returning the noun's current, live representation. Direct atoms are
// values, not references, and always resolve to themselves.
func (n Noun) resolve() Noun {
	for {
		if n.k == KindCell && n.c != nil && n.c.forward != nil {
			n = Noun{k: KindCell, c: n.c.forward}
			continue
		}
		if n.k == KindAtom && n.big != nil && n.big.forward != nil {
			n = Noun{k: KindAtom, big: n.big.forward}
			continue
		}
		return n
	}
}

// Head returns the head of a cell. Returns ErrNotACell for an atom.
func (n Noun) Head() (Noun, error) {
	r := n.resolve()
	if r.k != KindCell {
		return Noun{}, ErrNotACell
	}
	return r.c.head, nil
}

// Tail returns the tail of a cell. Returns ErrNotACell for an atom.
func (n Noun) Tail() (Noun, error) {
	r := n.resolve()
	if r.k != KindCell {
		return Noun{}, ErrNotACell
	}
	return r.c.tail, nil
}

// SetHead overwrites the head slot of a cell in place. This is only
// ever used by package nockstack while patching a freshly allocated
// copy during a pop-time preserve; it must never be called on a cell
// that might already be visible to other readers.
func (n Noun) SetHead(h Noun) error {
	r := n.resolve()
	if r.k != KindCell {
		return ErrNotACell
	}
	r.c.head = h
	return nil
}

// SetTail overwrites the tail slot of a cell in place, see SetHead.
func (n Noun) SetTail(t Noun) error {
	r := n.resolve()
	if r.k != KindCell {
		return ErrNotACell
	}
	r.c.tail = t
	return nil
}

// AsUint256 returns the inline 256-bit value of a direct atom and true,
// or false if n is a cell or a wider indirect atom.
func (n Noun) AsUint256() (uint256.Int, bool) {
	r := n.resolve()
	if r.k != KindAtom || r.big != nil {
		return uint256.Int{}, false
	}
	return r.small, true
}

// AsBigInt returns the arbitrary-precision value of any atom,
// regardless of whether it is stored inline or as an indirect atom.
// Returns ErrNotAnAtom for a cell.
func (n Noun) AsBigInt() (*big.Int, error) {
	r := n.resolve()
	if r.k != KindAtom {
		return nil, ErrNotAnAtom
	}
	if r.big != nil {
		return new(big.Int).Set(&r.big.value), nil
	}
	return r.small.ToBig(), nil
}

// IsDirect reports whether n is an atom represented inline (no arena
// object backing it at all).
func (n Noun) IsDirect() bool {
	r := n.resolve()
	return r.k == KindAtom && r.big == nil
}

// forwardTo installs a forwarding pointer from n's underlying object
// to to's underlying object. Both must resolve to objects of the same
// kind. Used exclusively by the unifying-equality rewrite and by
// nockstack's pop-time preserve.
func forwardTo(n, to Noun) {
	rn := n.resolve()
	rt := to.resolve()
	switch rn.k {
	case KindCell:
		if rn.c != nil && rt.c != nil && rn.c != rt.c {
			rn.c.forward = rt.c
		}
	case KindAtom:
		if rn.big != nil && rt.big != nil && rn.big != rt.big {
			rn.big.forward = rt.big
		}
	}
}

// Resolve follows any forwarding pointer and returns n's live
// representation. Exported for package nockstack, which needs it to
// detect whether a noun has already been copied out of a doomed frame
// during pop-time preserve.
func Resolve(n Noun) Noun { return n.resolve() }

// Forward installs a forwarding pointer from n's backing object to
// to's backing object. Exported for package nockstack's pop-time
// preserve; see forwardTo, which this wraps.
func Forward(n, to Noun) { forwardTo(n, to) }

// Identical reports whether a and b resolve to the exact same backing
// object (pointer identity) or are equal direct-atom values. It never
// recurses and never mutates; it is the O(1) short-circuit used by
// both Equal and UnifyingEqual.
func Identical(a, b Noun) bool {
	ra, rb := a.resolve(), b.resolve()
	if ra.k != rb.k {
		return false
	}
	switch ra.k {
	case KindCell:
		return ra.c == rb.c
	default:
		if ra.big != nil || rb.big != nil {
			return ra.big != nil && rb.big != nil && ra.big == rb.big
		}
		return ra.small == rb.small
	}
}
