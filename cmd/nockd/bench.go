// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/nockrt/nockrt/jets"
	"github.com/nockrt/nockrt/logging"
	"github.com/nockrt/nockrt/metrics"
	"github.com/nockrt/nockrt/noun"
	"github.com/nockrt/nockrt/nockstack"
	"github.com/nockrt/nockrt/serf"
	"github.com/nockrt/nockrt/token"
)

// BenchCmd drives a Kernel with many concurrent pokes of `[0 1]`
// (fetch the whole subject) against a fixed atom subject, the same
// "saturate the single serializing goroutine and report throughput"
// exercise as Tosca's own BenchmarkParallel_StressTests, retargeted
// from an EVM call benchmark to a Kernel poke benchmark.
var BenchCmd = cli.Command{
	Action: doBench,
	Name:   "bench",
	Usage:  "submit concurrent pokes to a kernel and report throughput",
	Flags:  append(append([]cli.Flag{}, commonFlags...), &jobsFlag.IntFlag, &countFlag.IntFlag),
}

func doBench(ctx *cli.Context) error {
	cfg, err := configFromFlags(ctx)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	stack := nockstack.New(cfg.StackWords, cfg.LocalSlots)
	table := jets.New(cfg.WarmCacheSize, cfg.MemoCacheSize)
	rec := metrics.New()

	k := serf.NewWithMetrics(stack, token.New(), table, rec)
	k.SetLogger(logging.New(level, os.Stderr))
	k.Start()
	defer k.Stop()

	jobs := jobsFlag.Fetch(ctx)
	count := countFlag.Fetch(ctx)
	if jobs <= 0 {
		jobs = 1
	}
	if count <= 0 {
		return fmt.Errorf("nockd: --count must be positive")
	}

	// [0 1]: fetch the whole subject, the cheapest possible formula,
	// so the benchmark measures dispatch/queueing overhead rather than
	// any particular opcode's cost.
	f := stack.Top()
	headFetch, err := f.NewCell(noun.Atom(0), noun.Atom(1))
	if err != nil {
		return err
	}

	start := time.Now()
	errs, _ := errgroup.WithContext(context.Background())
	errs.SetLimit(jobs)
	remaining := count
	for remaining > 0 {
		remaining--
		errs.Go(func() error {
			_, err := k.Poke(noun.Atom(7), headFetch)
			return err
		})
	}
	if err := errs.Wait(); err != nil {
		return fmt.Errorf("nockd: poke failed: %w", err)
	}
	elapsed := time.Since(start)

	stats := k.MetricsSnapshot()
	fmt.Printf("submitted %d pokes across %d goroutines in %s (%.0f pokes/sec)\n",
		count, jobs, elapsed, float64(count)/elapsed.Seconds())
	fmt.Printf("arena: %d/%d words used, high water %d\n",
		stats.UsedWords, stats.CapacityWords, stats.HighWaterWords)
	fmt.Println(rec.Summary())
	return nil
}
