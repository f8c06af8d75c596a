// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package nockbench

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Trial is one property-test iteration: gen produces a fresh
// Generator re-seeded for this trial (reproducible independent of
// which worker goroutine happens to run it, the same "random is
// re-seeded for each rule" discipline go/ct/driver/coordination.go
// documents), and index is the trial's position for error reporting.
type Trial func(gen *Generator, index int) error

// RunConcurrent runs trials total invocations of trial across jobs
// goroutines and returns the first error encountered, wrapped with
// the trial index and seed that produced it. Grounded on
// go/ct/driver/coordination.go's worker-pool-over-channel shape,
// collapsed to errgroup.SetLimit the same way serf/kernel_test.go's
// TestKernelSerializesConcurrentPokes already does for this codebase
// — a second hand-rolled channel/WaitGroup pool would only duplicate
// that pattern.
func RunConcurrent(jobs, trials int, seed uint64, trial Trial) error {
	if jobs <= 0 {
		jobs = 1
	}
	errs, _ := errgroup.WithContext(context.Background())
	errs.SetLimit(jobs)
	for i := 0; i < trials; i++ {
		i := i
		errs.Go(func() error {
			trialSeed := seed + uint64(i)
			gen := NewGenerator(trialSeed)
			if err := trial(gen, i); err != nil {
				return fmt.Errorf("trial %d (seed %d): %w", i, trialSeed, err)
			}
			return nil
		})
	}
	return errs.Wait()
}
