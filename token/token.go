// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package token implements the cooperative cancellation token that
// coordinates running interpretations with external cancel requests.
// It carries no reference to any interpreter or kernel state: it is a
// single atomic signed integer plus the three compare-and-swap loops
// that move it between its regions, handed around as an explicit,
// process-wide-shared handle rather than hidden behind a singleton
// (see DESIGN.md on why this runtime avoids singletons for everything
// else). The CAS-retry shape mirrors the coordination goroutines in
// Tosca's conformance test driver, which lean on the same
// sync/atomic primitives to coordinate a pool of workers with one
// controller.
package token

import "sync/atomic"

// Token is a process-wide handle: R = 0 means idle, R > 0 means k
// interpretations are currently running, R < 0 means a cancel has been
// requested and |R| interpretations are still unwinding toward it.
type Token struct {
	r atomic.Int64
}

// New returns an idle token.
func New() *Token {
	return &Token{}
}

// Enter attempts to register one more running interpretation. It
// returns ErrInterrupted without entering if the token is already in
// the cancelling region.
func (t *Token) Enter() error {
	for {
		r := t.r.Load()
		if r < 0 {
			return ErrInterrupted
		}
		if t.r.CompareAndSwap(r, r+1) {
			return nil
		}
	}
}

// Exit deregisters a finished interpretation, whether it finished by
// success or by an ordinary (non-cancellation) failure. If another
// canceller has already zeroed the token out from under a cancelling
// interpreter, Exit is a no-op: the token has already returned to idle.
func (t *Token) Exit() {
	for {
		r := t.r.Load()
		switch {
		case r > 0:
			if t.r.CompareAndSwap(r, r-1) {
				return
			}
		case r == 0:
			return
		default: // r < 0: acknowledge the cancel by moving toward zero
			if t.r.CompareAndSwap(r, r+1) {
				return
			}
		}
	}
}

// Cancel requests cancellation of every interpretation currently
// running under this token. It returns true if it actually negated a
// positive running count (meaning at least one interpretation was
// told to abort), and false if the token was already idle or already
// cancelling.
func (t *Token) Cancel() bool {
	for {
		r := t.r.Load()
		switch {
		case r == 0:
			return false
		case r < 0:
			return false
		default:
			if t.r.CompareAndSwap(r, -r) {
				return true
			}
		}
	}
}

// Cancelling reports whether the token is in the cancelling region.
// The interpreter's dispatch loop calls this exactly once per
// work-stack step; it must not be consulted mid-opcode.
func (t *Token) Cancelling() bool {
	return t.r.Load() < 0
}

// Running reports the current |R|: the number of interpretations
// either actively running (R > 0) or still unwinding after a cancel
// (R < 0). Used by metrics and by tests asserting cancellation
// monotonicity.
func (t *Token) Running() int64 {
	r := t.r.Load()
	if r < 0 {
		return -r
	}
	return r
}
