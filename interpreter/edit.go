// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package interpreter

import (
	"github.com/nockrt/nockrt/noun"
)

// frameAllocator is the slice of *nockstack.Frame this package actually
// uses: allocate a cell in the current arena. Kept as an interface so
// edit does not need to import nockstack just to name the type.
type frameAllocator interface {
	NewCell(head, tail noun.Noun) (noun.Noun, error)
}

// edit replaces the subtree of tree addressed by path with patch,
// rebuilding only the spine of cells the path passes through. Recursion
// here is bounded by len(path) — an axis's bit length, not by anything
// under program control — so plain Go recursion is the right tool,
// unlike the interpreter's own dispatch loop.
func edit(f frameAllocator, tree noun.Noun, path []bool, patch noun.Noun) (noun.Noun, error) {
	if len(path) == 0 {
		return patch, nil
	}
	if tree.Kind() != noun.KindCell {
		return noun.Noun{}, ErrAxisIntoAtomDuringEdit
	}
	h, err := tree.Head()
	if err != nil {
		return noun.Noun{}, err
	}
	t, err := tree.Tail()
	if err != nil {
		return noun.Noun{}, err
	}
	if !path[0] {
		newH, err := edit(f, h, path[1:], patch)
		if err != nil {
			return noun.Noun{}, err
		}
		return f.NewCell(newH, t)
	}
	newT, err := edit(f, t, path[1:], patch)
	if err != nil {
		return noun.Noun{}, err
	}
	return f.NewCell(h, newT)
}
