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

import "testing"

func TestAxisConstant(t *testing.T) {
	n := Cell(Atom(1), Cell(Atom(2), Atom(3)))
	got, err := SlotUint64(n, 1)
	if err != nil || !Equal(got, n) {
		t.Fatalf("axis 1 should be the whole tree, got %v err %v", String(got), err)
	}
}

func TestAxisWalk(t *testing.T) {
	// subject [1 [2 3]], axis 7 = tail of tail = 3
	n := Cell(Atom(1), Cell(Atom(2), Atom(3)))
	got, err := SlotUint64(n, 7)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(got, Atom(3)) {
		t.Fatalf("got %v want 3", String(got))
	}
}

func TestAxisZeroFails(t *testing.T) {
	if _, err := SlotUint64(Atom(0), 0); err != ErrAxisZero {
		t.Fatalf("expected ErrAxisZero, got %v", err)
	}
}

func TestAxisIntoAtomFails(t *testing.T) {
	if _, err := SlotUint64(Atom(5), 2); err != ErrAxisIntoAtom {
		t.Fatalf("expected ErrAxisIntoAtom, got %v", err)
	}
}

// TestAxisRoundTrip is the universal property from spec §8.1.1: for
// every cell and axis a>=1 where Slot is defined, it agrees with the
// recursive head/tail walk described by the axis's bit path.
func TestAxisRoundTrip(t *testing.T) {
	n := Cell(Cell(Atom(10), Atom(11)), Cell(Atom(20), Cell(Atom(21), Atom(22))))
	cases := []struct {
		axis uint64
		path []bool // false = head, true = tail
	}{
		{2, []bool{false}},
		{3, []bool{true}},
		{4, []bool{false, false}},
		{5, []bool{false, true}},
		{6, []bool{true, false}},
		{14, []bool{true, true, false}},
		{15, []bool{true, true, true}},
	}
	for _, c := range cases {
		bySlot, err := SlotUint64(n, c.axis)
		if err != nil {
			t.Fatalf("axis %d: %v", c.axis, err)
		}
		byWalk, err := Depth(n, c.path)
		if err != nil {
			t.Fatalf("axis %d: %v", c.axis, err)
		}
		if !Equal(bySlot, byWalk) {
			t.Fatalf("axis %d: Slot=%v Depth=%v", c.axis, String(bySlot), String(byWalk))
		}
	}
}
