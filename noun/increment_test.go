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
	"testing"

	"github.com/holiman/uint256"
)

func TestIncrementDirect(t *testing.T) {
	got, err := Increment(Atom(41))
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(got, Atom(42)) {
		t.Fatalf("got %v", String(got))
	}
	if !got.IsDirect() {
		t.Fatal("small increments should stay on the direct fast path")
	}
}

func TestIncrementOverflowsToIndirect(t *testing.T) {
	max := uint256.NewInt(0)
	max.Not(max) // all-ones 256-bit value
	n, err := Increment(AtomFromUint256(max))
	if err != nil {
		t.Fatal(err)
	}
	want := new(big.Int).Lsh(big.NewInt(1), 256)
	got, err := n.AsBigInt()
	if err != nil || got.Cmp(want) != 0 {
		t.Fatalf("got %v want %v err %v", got, want, err)
	}
}

func TestIncrementOnCellFails(t *testing.T) {
	if _, err := Increment(Cell(Atom(1), Atom(2))); err != ErrNotAnAtom {
		t.Fatalf("expected ErrNotAnAtom, got %v", err)
	}
}
