// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package noun

// Equal reports structural equality without mutating either operand.
// It is UnifyingEqual's read-only twin, used wherever a caller cannot
// risk rewriting shared storage (e.g. while iterating a structure the
// caller does not own outright).
func Equal(a, b Noun) bool {
	return equal(a, b, false)
}

// UnifyingEqual reports structural equality and, whenever it proves
// two distinct heap objects equal, rewrites the junior one (the one
// allocated later, per FrameID.Senior) to forward to the senior one.
// Subsequent reads of the junior object transparently resolve to the
// senior's storage, so repeated comparisons of the same pair become
// O(1) identity checks. Rewriting a junior pointer to reference a
// senior one never introduces a reference from an older frame into a
// younger one, preserving the no-junior-pointers invariant.
func UnifyingEqual(a, b Noun) bool {
	return equal(a, b, true)
}

func equal(a, b Noun, unify bool) bool {
	ra, rb := a.resolve(), b.resolve()
	if Identical(ra, rb) {
		return true
	}
	if ra.k != rb.k {
		return false
	}
	if ra.k == KindAtom {
		av, aerr := ra.AsBigInt()
		bv, berr := rb.AsBigInt()
		if aerr != nil || berr != nil {
			return false
		}
		same := av.Cmp(bv) == 0
		if same && unify && ra.big != nil && rb.big != nil {
			alias(ra, rb)
		}
		return same
	}

	// Cells: a cached mug mismatch is a cheap, sound short-circuit.
	am, aok := cachedMug(ra)
	bm, bok := cachedMug(rb)
	if aok && bok && am != bm {
		return false
	}

	ah, _ := ra.Head()
	bh, _ := rb.Head()
	if !equal(ah, bh, unify) {
		return false
	}
	at, _ := ra.Tail()
	bt, _ := rb.Tail()
	if !equal(at, bt, unify) {
		return false
	}

	if unify {
		alias(ra, rb)
	}
	return true
}

// alias rewrites the junior of a, b to forward to the senior.
func alias(a, b Noun) {
	if Identical(a, b) {
		return
	}
	if a.Owner().Senior(b.Owner()) {
		forwardTo(b, a)
	} else {
		forwardTo(a, b)
	}
}
