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
)

func TestCellHeadTail(t *testing.T) {
	c := Cell(Atom(1), Atom(2))
	h, err := c.Head()
	if err != nil || !Equal(h, Atom(1)) {
		t.Fatalf("head = %v, %v", String(h), err)
	}
	tl, err := c.Tail()
	if err != nil || !Equal(tl, Atom(2)) {
		t.Fatalf("tail = %v, %v", String(tl), err)
	}
}

func TestHeadOnAtomFails(t *testing.T) {
	if _, err := Atom(5).Head(); err != ErrNotACell {
		t.Fatalf("expected ErrNotACell, got %v", err)
	}
}

func TestIndirectAtomRoundTrip(t *testing.T) {
	v := new(big.Int).Lsh(big.NewInt(1), 300)
	n, err := NewIndirectAtom(Immortal, v)
	if err != nil {
		t.Fatal(err)
	}
	if n.IsDirect() {
		t.Fatal("expected an indirect atom for a 300-bit value")
	}
	got, err := n.AsBigInt()
	if err != nil || got.Cmp(v) != 0 {
		t.Fatalf("got %v, err %v", got, err)
	}
}

func TestNegativeIndirectAtomRejected(t *testing.T) {
	v := big.NewInt(-1)
	if _, err := NewIndirectAtom(Immortal, v); err != ErrMalformedIndirectAtom {
		t.Fatalf("expected ErrMalformedIndirectAtom, got %v", err)
	}
}

func TestListString(t *testing.T) {
	n := List(Atom(1), Atom(2), Atom(3))
	if got, want := String(n), "[1 2 3]"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
