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
	"testing"

	"github.com/nockrt/nockrt/internal/nockbench"
	"github.com/nockrt/nockrt/nockstack"
	"github.com/nockrt/nockrt/token"
)

// TestEvalNeverPanicsOnRandomFormulas fuzzes Eval with random
// well-formed formulas against random subjects: many are semantically
// invalid (an axis that does not exist, an increment of a cell) and
// must fail with an ordinary error, but none may panic or hang. This
// is the property `Run`'s snapshot/restore and `dispatch`'s decoding
// are meant to uphold for any formula a host might ever evaluate,
// including ones no hand-written unit test thought to try.
func TestEvalNeverPanicsOnRandomFormulas(t *testing.T) {
	err := nockbench.RunConcurrent(4, 500, 1, func(gen *nockbench.Generator, index int) error {
		stack := nockstack.New(1<<16, 0)
		f := stack.Top()
		subject := gen.Noun(f, 4)
		formula := gen.Formula(f, 5)

		ctx := New(stack, token.New())
		// A malformed formula or an out-of-range axis is an expected,
		// ordinary outcome here; only a panic would be a bug, and
		// nockbench.RunConcurrent's errgroup already lets a real
		// panic propagate and fail the test.
		_, _ = Eval(ctx, subject, formula)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected trial failure: %v", err)
	}
}
