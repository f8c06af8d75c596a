// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package interpreter implements Nock evaluation as an explicit
// work-stack machine: no formula, however deeply nested or tail
// recursive, ever grows the Go call stack in proportion to its Nock
// evaluation depth. Only genuine non-tail calls (opcodes 2 and 9, the
// two Nock constructs that isolate a fresh mean-stack scope) recurse
// on the Go stack, bounded by the program's own non-tail call depth —
// exactly as a native recursive-descent interpreter would, and exactly
// what every real implementation of Nock does.
package interpreter

import (
	"time"

	"github.com/nockrt/nockrt/nockstack"
	"github.com/nockrt/nockrt/token"
)

// OpObserver is notified once per opcode dispatched by Eval's work-stack
// loop, with the raw opcode tag and how long producing its continuation
// took. A host that cares about per-opcode cost (package metrics'
// InMemory recorder, or serf.Metrics, which satisfies this interface
// structurally) wires it in through Context.Metrics; a bare Context
// defaults to NopObserver and pays nothing for the hook.
type OpObserver interface {
	ObserveOp(op uint64, dur time.Duration)
}

// NopObserver discards every observation.
type NopObserver struct{}

func (NopObserver) ObserveOp(uint64, time.Duration) {}

// Context bundles everything one evaluation needs that is not already
// reachable through the current subject/formula: the arena stack
// frame calls push and pop against, the cancellation token checked
// once per work-stack step, and the jet/scry hooks a host may wire in.
type Context struct {
	Stack   *nockstack.Stack
	Token   *token.Token
	Jets    JetTable
	Scry    ScryHandler
	Log     Slogger
	Metrics OpObserver
}

// New builds a Context over an existing NockStack and Token, defaulting
// to no jet acceleration, no scry support, a standard-library-backed
// slogger, and no metrics observation — a correct, if slow and
// scry-free, evaluator. Callers (typically package serf) replace Jets,
// Scry, and Metrics once the surrounding kernel state is available.
func New(stack *nockstack.Stack, tok *token.Token) *Context {
	return &Context{
		Stack:   stack,
		Token:   tok,
		Jets:    NopJets{},
		Scry:    NopScry{},
		Log:     stdSlogger{},
		Metrics: NopObserver{},
	}
}
