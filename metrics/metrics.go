// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package metrics supplies a counting implementation of serf.Metrics:
// per-opcode counts and per-request-kind counts/error counts/total
// latency, hand-rolled in the style of Tosca's instruction_statistics.go
// rather than built on a metrics SDK (Tosca itself never imports one
// directly; DESIGN.md records the justification).
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/maps"
)

// opStat accumulates the count and total duration observed for one
// opcode tag.
type opStat struct {
	count uint64
	total time.Duration
}

// requestStat accumulates the count, error count, and total duration
// observed for one request kind ("poke", "peek", "checkpoint", ...).
type requestStat struct {
	count    uint64
	errCount uint64
	total    time.Duration
}

// InMemory is a process-local counting recorder. It satisfies
// serf.Metrics and interpreter.OpObserver structurally: neither this
// package nor serf needs to import the other for InMemory to be handed
// to serf.NewWithMetrics.
//
// Unlike Tosca's statisticRunner, InMemory does not track pairs,
// triples, or quads of consecutive opcodes — Nock's opcode set is 13
// entries wide and fixed, so a flat per-opcode count is already a
// complete picture; the n-gram tracking Tosca needs to spot EVM
// superinstruction candidates has no analogue here.
type InMemory struct {
	mu  sync.Mutex
	ops map[uint64]*opStat
	req map[string]*requestStat
}

// New returns an empty InMemory recorder.
func New() *InMemory {
	return &InMemory{
		ops: make(map[uint64]*opStat),
		req: make(map[string]*requestStat),
	}
}

// ObserveOp records one opcode dispatch.
func (m *InMemory) ObserveOp(op uint64, dur time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.ops[op]
	if !ok {
		s = &opStat{}
		m.ops[op] = s
	}
	s.count++
	s.total += dur
}

// ObserveRequest records one kernel request.
func (m *InMemory) ObserveRequest(kind string, dur time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.req[kind]
	if !ok {
		s = &requestStat{}
		m.req[kind] = s
	}
	s.count++
	s.total += dur
	if err != nil {
		s.errCount++
	}
}

// OpCount returns how many times op has been observed.
func (m *InMemory) OpCount(op uint64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.ops[op]; ok {
		return s.count
	}
	return 0
}

// RequestCount returns how many requests of the given kind have been
// observed, and how many of those carried a non-nil error.
func (m *InMemory) RequestCount(kind string) (count, errCount uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.req[kind]; ok {
		return s.count, s.errCount
	}
	return 0, 0
}

// Reset clears every counter.
func (m *InMemory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = make(map[uint64]*opStat)
	m.req = make(map[string]*requestStat)
}

// Summary renders a human-readable report, grounded on the teacher's
// statistics.print(): total steps, the five busiest opcodes by count,
// and per-request-kind counts/error counts/average latency.
func (m *InMemory) Summary() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	type opEntry struct {
		op    uint64
		count uint64
		total time.Duration
	}
	ops := make([]opEntry, 0, len(m.ops))
	var steps uint64
	for op, s := range m.ops {
		ops = append(ops, opEntry{op, s.count, s.total})
		steps += s.count
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].count > ops[j].count })
	if len(ops) > 5 {
		ops = ops[:5]
	}

	b := strings.Builder{}
	fmt.Fprintf(&b, "\n----- Metrics ------\n")
	fmt.Fprintf(&b, "\nSteps: %d\n", steps)
	fmt.Fprintf(&b, "\nOpcodes:\n")
	for _, e := range ops {
		avg := time.Duration(0)
		if e.count > 0 {
			avg = e.total / time.Duration(e.count)
		}
		fmt.Fprintf(&b, "\top %-3d: %d (avg %v)\n", e.op, e.count, avg)
	}

	kinds := maps.Keys(m.req)
	sort.Strings(kinds)
	fmt.Fprintf(&b, "\nRequests:\n")
	for _, k := range kinds {
		s := m.req[k]
		avg := time.Duration(0)
		if s.count > 0 {
			avg = s.total / time.Duration(s.count)
		}
		fmt.Fprintf(&b, "\t%-12s: %d (%d errors, avg %v)\n", k, s.count, s.errCount, avg)
	}
	return b.String()
}
