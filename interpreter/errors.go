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

// ConstError is an error type that can be used to define immutable
// comparable error constants, the same shape used throughout this
// runtime's packages.
type ConstError string

func (e ConstError) Error() string { return string(e) }

const (
	// ErrUnknownOpcode is raised when a formula's head atom is not a
	// direct opcode in 0..12.
	ErrUnknownOpcode = ConstError("interpreter: unknown opcode")
	// ErrMalformedFormula is raised when an opcode's cell shape does
	// not match what that opcode requires (missing argument cell,
	// axis/patch not shaped as [a p], and so on).
	ErrMalformedFormula = ConstError("interpreter: malformed formula")
	// ErrJetMismatch is the non-deterministic failure ("jest") raised
	// when a test-mode jet's native result disagrees with the ordinary
	// Nock interpretation of the same core.
	ErrJetMismatch = ConstError("interpreter: jet result disagrees with Nock interpretation")
	// ErrScryUnsupported is returned by the default scry handler: a
	// bare interpreter with no host-supplied namespace cannot resolve
	// op 12 at all.
	ErrScryUnsupported = ConstError("interpreter: no scry handler installed")
	// ErrScryBlocked surfaces a ScryBlocked status as an error: the
	// namespace exists but cannot answer this lookup synchronously.
	ErrScryBlocked = ConstError("interpreter: scry blocked, no value available")
	// ErrNotAnAtom is raised by opcodes that require an atom (4, 6's
	// test result) and are handed a cell instead.
	ErrNotAnAtom = ConstError("interpreter: expected an atom")
	// ErrOp6NotBoolean is raised when op 6's test value is an atom
	// other than 0 or 1; Nock only defines the branch for those two
	// values, and deterministically fails on anything else rather than
	// treating every non-zero value as "else".
	ErrOp6NotBoolean = ConstError("interpreter: op 6 test is neither 0 nor 1")
	// ErrAxisIntoAtomDuringEdit is raised by op 10 when the patched
	// axis descends past a leaf before the path is exhausted.
	ErrAxisIntoAtomDuringEdit = ConstError("interpreter: edit axis runs into an atom")
)
