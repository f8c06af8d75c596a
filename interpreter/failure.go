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
	"errors"

	"github.com/nockrt/nockrt/noun"
	"github.com/nockrt/nockrt/nockstack"
	"github.com/nockrt/nockrt/token"
)

// FailureKind distinguishes the two failure classes Nock evaluation
// can report. Deterministic failures are a property of the program
// and formula alone and are reproducible; non-deterministic failures
// depend on the host environment (cancellation, memory pressure, a
// misbehaving jet) and must be treated as retryable.
type FailureKind int

const (
	Deterministic FailureKind = iota
	NonDeterministic
)

func (k FailureKind) String() string {
	if k == NonDeterministic {
		return "non-deterministic"
	}
	return "deterministic"
}

// Failure is the error type every evaluation failure surfaces as. It
// carries the welded mean-stack trace accumulated from every hint
// frame active when the failure occurred, outermost first.
type Failure struct {
	Kind  FailureKind
	Err   error
	Trace []noun.Noun
}

func (f *Failure) Error() string { return f.Err.Error() }
func (f *Failure) Unwrap() error { return f.Err }

// weld wraps err as a Failure, prepending mean (the mean-stack active
// in the frame the error is passing through) to any trace already
// attached. If err is already a *Failure its kind is preserved;
// otherwise it is classified by isNonDeterministic.
func weld(err error, mean []noun.Noun) *Failure {
	var existing *Failure
	if errors.As(err, &existing) {
		trace := make([]noun.Noun, 0, len(mean)+len(existing.Trace))
		trace = append(trace, mean...)
		trace = append(trace, existing.Trace...)
		return &Failure{Kind: existing.Kind, Err: existing.Err, Trace: trace}
	}
	kind := Deterministic
	if isNonDeterministic(err) {
		kind = NonDeterministic
	}
	trace := append([]noun.Noun{}, mean...)
	return &Failure{Kind: kind, Err: err, Trace: trace}
}

func isNonDeterministic(err error) bool {
	return errors.Is(err, token.ErrInterrupted) ||
		errors.Is(err, nockstack.ErrOutOfMemory) ||
		errors.Is(err, ErrJetMismatch)
}
