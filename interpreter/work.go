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
	"math/big"

	"github.com/holiman/uint256"

	"github.com/nockrt/nockrt/noun"
)

// maxOpcode is the highest opcode Nock 4K defines; any larger formula
// head atom is malformed.
var maxOpcode = uint256.NewInt(12)

// evalTask requests evaluation of formula against subject. tail
// records whether this evaluation's result is, itself, the value
// Eval's caller is waiting for with nothing left to combine it with —
// the only condition under which opcodes 2 and 9 may elide a new
// frame push (spec §4.D.3).
type evalTask struct {
	subject, formula noun.Noun
	tail             bool
}

// consTask lowers an implicit autocons formula `[[b c] d]`, whose
// result is `[*[a [b c]] *[a d]]`. Neither branch is ever in tail
// position: both results are needed to build the final cell.
type consTask struct {
	subject  noun.Noun
	headF    noun.Noun
	tailF    noun.Noun
	headRes  noun.Noun
	seenHead bool
}

// work3Task is op 3 (cell test): evaluate f, then report whether the
// result is a cell.
type work3Task struct{}

// work4Task is op 4 (increment): evaluate f, then increment the atom.
type work4Task struct{}

// work2Task is op 2 (general apply): `[2 f g]` computes a new subject
// and new formula from the current subject, then evaluates the new
// formula against the new subject — the one genuine "function call"
// construct that frame-isolates on a non-tail invocation.
type work2Task struct {
	subject     noun.Noun
	fFormula    noun.Noun
	gFormula    noun.Noun
	newSubject  noun.Noun
	seenSubject bool
	tail        bool
}

// work5Task is op 5 (equality test).
type work5Task struct {
	subject  noun.Noun
	fFormula noun.Noun
	gFormula noun.Noun
	leftRes  noun.Noun
	seenLeft bool
}

// work6Task is op 6 (if/then/else): the chosen branch is evaluated in
// whatever tail position the `[6 ...]` formula itself occupies.
// zFormula runs when the test atom is 0, oFormula when it is 1; any
// other test value fails with ErrOp6NotBoolean.
type work6Task struct {
	subject  noun.Noun
	zFormula noun.Noun
	oFormula noun.Noun
	tail     bool
}

// work7Task is op 7 (compose): `s' = *s f`; result = `*s' g`. Never
// frame-isolates, regardless of tail position.
type work7Task struct {
	gFormula noun.Noun
	tail     bool
}

// work8Task is op 8 (pin): `v = *s f`; new subject is `[v s]`; result
// = `*[v s] g`. Never frame-isolates, regardless of tail position.
type work8Task struct {
	subject  noun.Noun
	gFormula noun.Noun
	tail     bool
}

// work9Task is op 9 (jet-dispatchable call): `core = *s f`; result =
// `*core slot(a, core)` — the second "function call" construct that
// frame-isolates on a non-tail invocation, and the one op-9 jet
// dispatch (spec §4.D.4) hooks into.
type work9Task struct {
	axis uint64
	tail bool
}

// work10Task is op 10 (edit): replace axis a of the tree `*s f` with
// the patch `*s p`.
type work10Task struct {
	subject   noun.Noun
	axis      []bool
	fFormula  noun.Noun
	patchRes  noun.Noun
	seenPatch bool
}

// work11DTask is a dynamic hint `[11 [tag h] f]`: h is itself a
// formula, evaluated before f and (for the trace-helper tags) used as
// the payload pushed onto the mean stack. A static hint `[11 tag f]`
// needs no record at all — dispatch just evaluates f in place.
type work11DTask struct {
	subject     noun.Noun
	tag         uint64
	fFormula    noun.Noun
	tail        bool
	seenHint    bool
	hintRes     noun.Noun
	popOnDone   bool
	memoPending bool
}

// work12Task is op 12 (scry): `ref = *s r`; `path = *s p`; result is
// whatever the host's namespace resolves for (ref, path).
type work12Task struct {
	subject  noun.Noun
	pFormula noun.Noun
	refRes   noun.Noun
	seenRef  bool
}

// decodedOp is the result of inspecting a formula's head: either it is
// a direct small-atom opcode in 0..12, or the formula's head is itself
// a cell (autocons), in which case op is meaningless and isCons is
// true.
type decodedOp struct {
	op      int
	isCons  bool
	headF   noun.Noun // autocons only: the head sub-formula
	tailF   noun.Noun // autocons only: the tail sub-formula
	rest    noun.Noun // opcode only: formula's tail, the operator's arguments
}

func decodeFormula(formula noun.Noun) (decodedOp, error) {
	if formula.Kind() != noun.KindCell {
		return decodedOp{}, ErrMalformedFormula
	}
	h, err := formula.Head()
	if err != nil {
		return decodedOp{}, err
	}
	t, err := formula.Tail()
	if err != nil {
		return decodedOp{}, err
	}
	if h.Kind() == noun.KindCell {
		return decodedOp{isCons: true, headF: h, tailF: t}, nil
	}
	v, ok := h.AsUint256()
	if !ok || v.Gt(maxOpcode) {
		return decodedOp{}, ErrUnknownOpcode
	}
	return decodedOp{op: int(v.Uint64()), rest: t}, nil
}

func cellArgs(rest noun.Noun) (noun.Noun, noun.Noun, error) {
	if rest.Kind() != noun.KindCell {
		return noun.Noun{}, noun.Noun{}, ErrMalformedFormula
	}
	h, _ := rest.Head()
	t, _ := rest.Tail()
	return h, t, nil
}

func axisLiteral(n noun.Noun) (uint64, error) {
	if n.Kind() != noun.KindAtom {
		return 0, ErrMalformedFormula
	}
	v, ok := n.AsUint256()
	if !ok {
		return 0, ErrMalformedFormula
	}
	return v.Uint64(), nil
}

func axisBig(n noun.Noun) (*big.Int, error) {
	if n.Kind() != noun.KindAtom {
		return nil, ErrMalformedFormula
	}
	return n.AsBigInt()
}
