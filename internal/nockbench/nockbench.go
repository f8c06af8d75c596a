// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package nockbench generates random nouns and formulas for property
// testing the interpreter, serf, and nockstack packages against each
// other rather than against a fixed example set. Grounded on
// go/ct/rlz's test-state generation: where a conformance-test rule
// enumerates EVM states for a given instruction, a Generator here
// enumerates Nock subjects and formulas for a given maximum tree
// depth. Random source: pgregory.net/rand, the same library
// go/ct/driver/coordination.go seeds per job for reproducibility.
package nockbench

import (
	"pgregory.net/rand"

	"github.com/nockrt/nockrt/noun"
	"github.com/nockrt/nockrt/nockstack"
)

// Generator produces random nouns and formulas from a seeded source,
// so a failing run is reproducible by reusing its seed.
type Generator struct {
	r *rand.Rand
}

// NewGenerator seeds a Generator. The same seed always produces the
// same sequence of nouns and formulas.
func NewGenerator(seed uint64) *Generator {
	return &Generator{r: rand.New(seed)}
}

// Noun builds a random noun: an atom with probability 1/3 (always, once
// the depth budget is spent), or a cell of two smaller random nouns
// otherwise. maxDepth bounds recursion so generation always
// terminates.
func (g *Generator) Noun(f *nockstack.Frame, maxDepth int) noun.Noun {
	if maxDepth <= 0 || g.r.Intn(3) == 0 {
		return noun.Atom(g.r.Uint64() % 64)
	}
	head := g.Noun(f, maxDepth-1)
	tail := g.Noun(f, maxDepth-1)
	n, err := f.NewCell(head, tail)
	if err != nil {
		// Arena exhaustion during a bench run is a budget problem, not
		// a generator bug; the caller sized the frame, so surface it
		// the same way a malformed formula would: as a panic the bench
		// driver recovers from and reports as a failing trial.
		panic(err)
	}
	return n
}

// formulaKind is one entry in the weighted grammar Formula draws from.
// Ops requiring well-formed sub-formulas are expressed recursively;
// axis literals are kept small (1-7) so most op-0 slot formulas
// resolve against the small subjects Noun generates instead of
// failing every time with an out-of-range axis.
type formulaKind int

const (
	fSlot formulaKind = iota
	fQuote
	fIsCell
	fIncrement
	fEquals
	fIfElse
	fCompose
	fCons
)

// Formula builds a random, structurally well-formed Nock formula:
// every op's arity is respected, but semantic validity (e.g. whether
// a slot axis actually exists in the subject a caller later supplies)
// is deliberately left to chance, the same way a fuzzer's job is to
// find exactly those edge cases.
func (g *Generator) Formula(f *nockstack.Frame, maxDepth int) noun.Noun {
	if maxDepth <= 0 {
		return g.leafFormula(f)
	}
	switch formulaKind(g.r.Intn(8)) {
	case fSlot:
		return g.leafFormula(f)
	case fQuote:
		return mustCell(f, noun.Atom(1), g.Noun(f, maxDepth-1))
	case fIsCell:
		return mustCell(f, noun.Atom(3), g.Formula(f, maxDepth-1))
	case fIncrement:
		return mustCell(f, noun.Atom(4), g.Formula(f, maxDepth-1))
	case fEquals:
		return mustCell(f, noun.Atom(5), mustCell(f, g.Formula(f, maxDepth-1), g.Formula(f, maxDepth-1)))
	case fIfElse:
		cond := g.Formula(f, maxDepth-1)
		yes := g.Formula(f, maxDepth-1)
		no := g.Formula(f, maxDepth-1)
		return mustCell(f, noun.Atom(6), mustCell(f, cond, mustCell(f, yes, no)))
	case fCompose:
		return mustCell(f, noun.Atom(7), mustCell(f, g.Formula(f, maxDepth-1), g.Formula(f, maxDepth-1)))
	case fCons:
		return mustCell(f, g.Formula(f, maxDepth-1), g.Formula(f, maxDepth-1))
	default:
		return g.leafFormula(f)
	}
}

// leafFormula returns a `[0 axis]` slot formula with a small axis, the
// base case every recursive branch above eventually bottoms out to.
func (g *Generator) leafFormula(f *nockstack.Frame) noun.Noun {
	axis := noun.Atom(1 + g.r.Uint64()%7)
	return mustCell(f, noun.Atom(0), axis)
}

func mustCell(f *nockstack.Frame, head, tail noun.Noun) noun.Noun {
	n, err := f.NewCell(head, tail)
	if err != nil {
		panic(err)
	}
	return n
}
