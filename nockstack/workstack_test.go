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

import "testing"

type testRecord struct{ n int }

func TestWorkStackPushPopOrder(t *testing.T) {
	s := New(64, 0)
	f := s.top

	Push(f, testRecord{1})
	Push(f, testRecord{2})
	Push(f, testRecord{3})
	if WorkLen(f) != 3 {
		t.Fatalf("got len %d want 3", WorkLen(f))
	}

	for _, want := range []int{3, 2, 1} {
		got, err := Pop[testRecord](f)
		if err != nil {
			t.Fatal(err)
		}
		if got.n != want {
			t.Fatalf("got %d want %d", got.n, want)
		}
	}
	if !f.WorkStackEmpty() {
		t.Fatal("expected work-stack to be empty")
	}
}

func TestWorkStackPopUnderflow(t *testing.T) {
	s := New(64, 0)
	if _, err := Pop[testRecord](s.top); err != ErrWorkStackUnderflow {
		t.Fatalf("expected ErrWorkStackUnderflow, got %v", err)
	}
}

func TestWorkStackTopDoesNotRemove(t *testing.T) {
	s := New(64, 0)
	Push(s.top, testRecord{5})
	if got, err := Top[testRecord](s.top); err != nil || got.n != 5 {
		t.Fatalf("got %v err %v", got, err)
	}
	if WorkLen(s.top) != 1 {
		t.Fatal("expected Top to leave the record on the stack")
	}
}

func TestWorkStackWrongTypeUnderflows(t *testing.T) {
	s := New(64, 0)
	Push(s.top, 42)
	if _, err := Pop[string](s.top); err != ErrWorkStackUnderflow {
		t.Fatalf("expected ErrWorkStackUnderflow for a type mismatch, got %v", err)
	}
}
