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

import "github.com/nockrt/nockrt/noun"

// Adopt copies n into f's own arena wherever some part of it is
// currently owned by a frame junior to f — deeper in the stack than f
// itself. Anything already owned by f, by one of f's ancestors, or
// Immortal passes through untouched: it is already at least as
// long-lived as f and can never violate the no-junior-pointers
// invariant from here.
//
// This is how a value manufactured outside the ordinary frame
// allocator — a native jet's hand-built result, say — is made safe to
// retain or structurally compare against f's own nouns (spec §4.D.4:
// a jet's result is adopted into the calling frame before the
// test-mode unifying-equality check runs, so the comparison never
// installs a forwarding pointer that would reach into a frame the jet
// does not know about).
func (f *Frame) Adopt(n noun.Noun) (noun.Noun, error) {
	var result noun.Noun
	queue := []pendingPatch{{src: n, set: func(r noun.Noun) { result = r }}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		next, more, err := adoptStep(f, item.src)
		if err != nil {
			return noun.Noun{}, err
		}
		item.set(next)
		queue = append(queue, more...)
	}
	return result, nil
}

func adoptStep(f *Frame, n noun.Noun) (noun.Noun, []pendingPatch, error) {
	if n.IsDirect() {
		return n, nil, nil
	}
	resolved := noun.Resolve(n)
	owner := resolved.Owner()
	if !owner.Tracked() || owner.Depth() <= f.depth {
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
		cp, err := f.NewCell(h, t)
		if err != nil {
			return noun.Noun{}, nil, err
		}
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
	cp, err := f.NewIndirectAtom(val)
	if err != nil {
		return noun.Noun{}, nil, err
	}
	return cp, nil, nil
}
