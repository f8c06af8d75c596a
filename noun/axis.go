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

import "math/big"

// Slot navigates to the subtree of n addressed by axis a. Axis 1 is
// the whole tree; bits are read from the most-significant set bit
// downward (skipping the leading 1 itself), 0 meaning "descend into
// head" and 1 meaning "descend into tail". Axis 0 and descending into
// an atom are both deterministic failures.
func Slot(n Noun, a *big.Int) (Noun, error) {
	if a.Sign() <= 0 {
		return Noun{}, ErrAxisZero
	}
	bits := a.BitLen()
	// The leading (most significant) bit is the implicit "axis 1"
	// marker and carries no directional meaning; only the remaining
	// bits, read MSB-first, steer the walk.
	cur := n
	for i := bits - 2; i >= 0; i-- {
		if cur.Kind() != KindCell {
			return Noun{}, ErrAxisIntoAtom
		}
		var err error
		if a.Bit(i) == 0 {
			cur, err = cur.Head()
		} else {
			cur, err = cur.Tail()
		}
		if err != nil {
			return Noun{}, err
		}
	}
	return cur, nil
}

// SlotUint64 is a convenience wrapper over Slot for the overwhelmingly
// common case of small axis values.
func SlotUint64(n Noun, axis uint64) (Noun, error) {
	if axis == 0 {
		return Noun{}, ErrAxisZero
	}
	return Slot(n, new(big.Int).SetUint64(axis))
}

// AxisPath decomposes axis a into the same head(false)/tail(true)
// sequence Slot walks internally, exposed so callers building a new
// tree along an axis (an in-place "edit") don't have to re-derive the
// bit-walk themselves.
func AxisPath(a *big.Int) ([]bool, error) {
	if a.Sign() <= 0 {
		return nil, ErrAxisZero
	}
	bits := a.BitLen()
	path := make([]bool, 0, bits-1)
	for i := bits - 2; i >= 0; i-- {
		path = append(path, a.Bit(i) == 1)
	}
	return path, nil
}

// Depth is the recursive head/tail walk used by the axis round-trip
// property: it computes the same subtree Slot would, by construction.
func Depth(n Noun, path []bool) (Noun, error) {
	cur := n
	for _, goTail := range path {
		if cur.Kind() != KindCell {
			return Noun{}, ErrAxisIntoAtom
		}
		var err error
		if goTail {
			cur, err = cur.Tail()
		} else {
			cur, err = cur.Head()
		}
		if err != nil {
			return Noun{}, err
		}
	}
	return cur, nil
}
