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

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Increment returns n+1. n must be an atom; a cell returns ErrNotAnAtom
// (the deterministic failure raised by Nock opcode 4 on a cell
// subject). The result stays on the inline fast path whenever it fits
// in 256 bits, and is only promoted to an indirect atom owned by
// Immortal (not charged to any frame) when it overflows that range.
func Increment(n Noun) (Noun, error) {
	r := n.resolve()
	if r.k != KindAtom {
		return Noun{}, ErrNotAnAtom
	}
	if r.big == nil {
		var out uint256.Int
		if overflow := out.AddOverflow(&r.small, uint256.NewInt(1)); !overflow {
			return AtomFromUint256(&out), nil
		}
		v := r.small.ToBig()
		v.Add(v, big.NewInt(1))
		return bigResult(v), nil
	}
	v := new(big.Int).Add(&r.big.value, big.NewInt(1))
	return bigResult(v), nil
}

// bigResult wraps v as an untracked (Immortal) indirect atom. Callers
// needing it arena-tracked re-wrap it with NewIndirectAtom under the
// active frame.
func bigResult(v *big.Int) Noun {
	n, _ := NewIndirectAtom(Immortal, v)
	return n
}
