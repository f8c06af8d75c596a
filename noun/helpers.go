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
	"fmt"
	"strings"
)

// Yes and No are the two booleans Nock itself understands: loobean 0
// is true/"yes", loobean 1 is false/"no" (the inverse of most host
// languages' conventions, and a frequent source of Nock confusion).
var (
	Yes = Atom(0)
	No  = Atom(1)
)

// Cell builds an immortal (untracked) cell [head tail], for use by
// tests and by callers constructing literal formulas/constants outside
// of any NockStack frame.
func Cell(head, tail Noun) Noun {
	return NewCell(Immortal, head, tail)
}

// List builds a right-associated tuple [a b c ... z] from the given
// nouns, the conventional Nock encoding of a list/tuple. Panics if
// called with zero elements: a list needs at least one element to form
// a noun.
func List(elems ...Noun) Noun {
	if len(elems) == 0 {
		panic("noun: List requires at least one element")
	}
	out := elems[len(elems)-1]
	for i := len(elems) - 2; i >= 0; i-- {
		out = Cell(elems[i], out)
	}
	return out
}

// String renders n as `[a b c]` for cells and a decimal literal for
// atoms, matching the conventional Nock pretty-printer shape used
// throughout the spec's examples.
func String(n Noun) string {
	var b strings.Builder
	writeNoun(&b, n)
	return b.String()
}

func writeNoun(b *strings.Builder, n Noun) {
	r := n.resolve()
	if r.k == KindAtom {
		v, err := r.AsBigInt()
		if err != nil {
			b.WriteString("<bad-atom>")
			return
		}
		b.WriteString(v.String())
		return
	}
	b.WriteByte('[')
	writeNoun(b, mustHead(r))
	cur := mustTail(r)
	for {
		cr := cur.resolve()
		if cr.k == KindCell {
			b.WriteByte(' ')
			writeNoun(b, mustHead(cr))
			cur = mustTail(cr)
			continue
		}
		b.WriteByte(' ')
		writeNoun(b, cur)
		break
	}
	b.WriteByte(']')
}

func mustHead(n Noun) Noun {
	h, err := n.Head()
	if err != nil {
		panic(fmt.Sprintf("noun: %v", err))
	}
	return h
}

func mustTail(n Noun) Noun {
	t, err := n.Tail()
	if err != nil {
		panic(fmt.Sprintf("noun: %v", err))
	}
	return t
}
