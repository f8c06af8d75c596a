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

// ConstError is an error type that can be used to define immutable
// comparable error constants, following the same shape as the
// interpreter's deterministic-failure sentinels.
type ConstError string

func (e ConstError) Error() string { return string(e) }

const (
	// ErrAxisZero is returned when axis 0 is addressed; axis 0 has no
	// meaning and accessing it is always a deterministic failure.
	ErrAxisZero = ConstError("noun: axis 0 is undefined")
	// ErrAxisIntoAtom is returned when an axis walk descends into an atom.
	ErrAxisIntoAtom = ConstError("noun: axis addresses into an atom")
	// ErrNotACell is returned by Head/Tail on an atom.
	ErrNotACell = ConstError("noun: not a cell")
	// ErrNotAnAtom is returned by atom-only accessors on a cell.
	ErrNotAnAtom = ConstError("noun: not an atom")
	// ErrMalformedIndirectAtom is returned by NewIndirectAtom when asked
	// to construct an atom from a negative value.
	ErrMalformedIndirectAtom = ConstError("noun: malformed indirect atom (negative value)")
)
