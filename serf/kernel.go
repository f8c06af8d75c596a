// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package serf implements the kernel driver (spec §4.F): a dedicated
// goroutine that owns one NockStack and one interpreter.Context and
// serializes every request against them, so a kernel's state is only
// ever touched by a single goroutine at a time even though many
// caller goroutines may be submitting requests concurrently.
package serf

import (
	"time"

	"github.com/nockrt/nockrt/interpreter"
	"github.com/nockrt/nockrt/nockstack"
	"github.com/nockrt/nockrt/noun"
	"github.com/nockrt/nockrt/token"
)

// requestKind tags the one kernel-driver request queue with what kind
// of work a request carries.
type requestKind int

const (
	kindPoke requestKind = iota
	kindPeek
	kindCheckpoint
	kindMetrics
	kindStop
	kindLoad
	kindApply
	kindExport
	kindImport
)

// request is one FIFO entry. reply is sized 1 so the owning goroutine
// never blocks handing its result back, even if the caller has already
// given up waiting for it.
type request struct {
	kind    requestKind
	subject noun.Noun
	formula noun.Noun
	path    noun.Noun
	roots   []noun.Noun
	state   State
	reply   chan response
}

type response struct {
	value   noun.Noun
	roots   []noun.Noun
	stats   Stats
	state   State
	err     error
}

// State is the kernel's persisted core, the piece of a serf a caller
// can export, hand to another process, and import back. Grounded on
// the reference runtime's LoadState (kernel_state + event_num); we
// drop its ker_hash field because battery-identity hashing is jet math
// this runtime's scope excludes (spec §1), and we carry no byte-level
// serialization of State — that is wire/persistence encoding, also out
// of scope — callers that need State on disk bring their own codec.
type State struct {
	EventNum    uint64
	KernelState noun.Noun
}

// Metrics is the observation hook a host wires into a Kernel: one call
// per opcode the interpreter dispatches and one call per kernel
// request handled. Its ObserveOp method gives Metrics the same shape
// as interpreter.OpObserver, so a Kernel can hand its Metrics straight
// to the Context it builds without either package importing the other.
// Package metrics supplies a counting implementation; NopMetrics is the
// zero-cost default.
type Metrics interface {
	ObserveOp(op uint64, dur time.Duration)
	ObserveRequest(kind string, dur time.Duration, err error)
}

// NopMetrics discards every observation.
type NopMetrics struct{}

func (NopMetrics) ObserveOp(uint64, time.Duration)             {}
func (NopMetrics) ObserveRequest(string, time.Duration, error) {}

// Stats is the snapshot a metrics request returns: request counters
// plus the arena's own high-water mark, hand-rolled per spec §4.F
// rather than built on a metrics SDK (see DESIGN.md: Tosca itself
// never imports one directly).
type Stats struct {
	Pokes          uint64
	Peeks          uint64
	Checkpoints    uint64
	CapacityWords  uint64
	UsedWords      uint64
	HighWaterWords uint64
}

// Kernel is the request/reply goroutine and the NockStack/Context it
// exclusively owns. Grounded on `go/ct/driver/coordination.go`'s
// channel-mediated worker topology: requests flow in over one buffered
// channel, a single consuming goroutine drains it and applies every
// request in order, and each request carries its own reply channel
// rather than sharing one — the driver's stateChannel/ruleChannel
// split generalized down to a single queue, since a kernel (unlike the
// test-state enumeration pipeline) has exactly one stage of work and
// must run it serially against its own arena.
type Kernel struct {
	ctx      *interpreter.Context
	requests chan request
	stopped  chan struct{}
	obs      Metrics
	stats    Stats

	// gate and state support the higher-level Apply call: gate is the
	// kernel core's poke formula, fixed by Load, and state is the
	// evolving subject Apply threads through successive calls. Poke
	// itself never touches these — it is the low-level one-shot
	// `*[subject formula]` entry point the reference runtime's `soft`
	// wraps; Apply is the `poke_swap` entry point built on top of it.
	gate     noun.Noun
	gateSet  bool
	state    noun.Noun
	eventNum uint64
}

// New builds a Kernel around the given stack, token, and jet table,
// with no metrics observation wired in. It does not start the driving
// goroutine; call Start for that.
func New(stack *nockstack.Stack, tok *token.Token, jets interpreter.JetTable) *Kernel {
	return newKernelWithMetrics(stack, tok, jets, NopMetrics{})
}

// NewWithMetrics is New plus a Metrics implementation (typically
// package metrics' InMemory recorder) observed once per dispatched
// opcode and once per kernel request.
func NewWithMetrics(stack *nockstack.Stack, tok *token.Token, jets interpreter.JetTable, obs Metrics) *Kernel {
	return newKernelWithMetrics(stack, tok, jets, obs)
}

func newKernelWithMetrics(stack *nockstack.Stack, tok *token.Token, jets interpreter.JetTable, obs Metrics) *Kernel {
	if obs == nil {
		obs = NopMetrics{}
	}
	ctx := interpreter.New(stack, tok)
	if jets != nil {
		ctx.Jets = jets
	}
	ctx.Metrics = obs
	return &Kernel{
		ctx:      ctx,
		requests: make(chan request, 64),
		stopped:  make(chan struct{}),
		obs:      obs,
	}
}

// SetLogger installs the interpreter.Slogger that backs %slog hints
// for this kernel's Context, replacing the package default. Call this
// before Start: the driving goroutine owns ctx exclusively once
// started, and Log is not itself synchronized.
func (k *Kernel) SetLogger(l interpreter.Slogger) {
	k.ctx.Log = l
}

// Start launches the kernel's driving goroutine. Callers must call
// Stop exactly once when done with the kernel.
func (k *Kernel) Start() {
	go k.run()
}

func (k *Kernel) run() {
	defer close(k.stopped)
	for req := range k.requests {
		start := time.Now()
		switch req.kind {
		case kindPoke:
			res, err := interpreter.Run(k.ctx, req.subject, req.formula)
			k.stats.Pokes++
			k.obs.ObserveRequest("poke", time.Since(start), err)
			req.reply <- response{value: res, err: err}

		case kindPeek:
			res, status, err := k.ctx.Scry.Scry(req.subject, req.path)
			k.stats.Peeks++
			if err == nil && status != interpreter.ScryResolved {
				err = ErrPeekUnresolved
			}
			k.obs.ObserveRequest("peek", time.Since(start), err)
			req.reply <- response{value: res, err: err}

		case kindCheckpoint:
			roots, err := k.ctx.Stack.FlipTopFrame(req.roots)
			k.stats.Checkpoints++
			k.obs.ObserveRequest("checkpoint", time.Since(start), err)
			req.reply <- response{roots: roots, err: err}

		case kindMetrics:
			snap := k.ctx.Stack.MemoryStateSnapshot()
			k.stats.CapacityWords = snap.CapacityWords
			k.stats.UsedWords = snap.UsedWords
			k.stats.HighWaterWords = snap.HighWater
			req.reply <- response{stats: k.stats}

		case kindLoad:
			k.gate = req.formula
			k.state = req.subject
			k.gateSet = true
			k.eventNum = 0
			k.obs.ObserveRequest("load", time.Since(start), nil)
			req.reply <- response{}

		case kindApply:
			effects, err := k.applyLocked(req.subject)
			k.obs.ObserveRequest("apply", time.Since(start), err)
			req.reply <- response{value: effects, err: err}

		case kindExport:
			req.reply <- response{state: State{EventNum: k.eventNum, KernelState: k.state}}

		case kindImport:
			k.state = req.state.KernelState
			k.eventNum = req.state.EventNum
			req.reply <- response{}

		case kindStop:
			req.reply <- response{}
			return
		}
	}
}

// applyLocked is poke_swap's analogue: it re-applies the kernel's
// fixed gate formula against `[eventNum state cause]`, expects back a
// `[effects newState]` cell, and advances k.state/k.eventNum only on
// success — a failed apply leaves the kernel's persisted core exactly
// where it was, the same "preserve only on Ok" discipline poke_swap
// applies around event_update.
func (k *Kernel) applyLocked(cause noun.Noun) (noun.Noun, error) {
	if !k.gateSet {
		return noun.Noun{}, ErrKernelNotLoaded
	}
	eventSubject := noun.NewCell(noun.Immortal, noun.Atom(k.eventNum+1), k.state)
	subject := noun.NewCell(noun.Immortal, eventSubject, cause)
	result, err := interpreter.Run(k.ctx, subject, k.gate)
	if err != nil {
		return noun.Noun{}, err
	}
	effects, err := result.Head()
	if err != nil {
		return noun.Noun{}, err
	}
	newState, err := result.Tail()
	if err != nil {
		return noun.Noun{}, err
	}
	k.state = newState
	k.eventNum++
	return effects, nil
}

func (k *Kernel) submit(req request) response {
	req.reply = make(chan response, 1)
	k.requests <- req
	return <-req.reply
}

// Poke evaluates formula against subject on the kernel's arena — the
// kernel driver's main entry point for driving the kernel forward one
// event (spec §4.F). Run, not Eval, is used underneath so a poke that
// fails leaves no half-applied jet-table mutation behind.
func (k *Kernel) Poke(subject, formula noun.Noun) (noun.Noun, error) {
	r := k.submit(request{kind: kindPoke, subject: subject, formula: formula})
	return r.value, r.err
}

// Peek resolves a read-only namespace lookup without mutating state.
func (k *Kernel) Peek(ref, path noun.Noun) (noun.Noun, error) {
	r := k.submit(request{kind: kindPeek, subject: ref, path: path})
	return r.value, r.err
}

// Checkpoint flips the kernel's root frame, preserving roots into a
// fresh arena of the opposite polarity and discarding everything else
// — the "preservation housekeeping" a long-lived kernel runs between
// batches of requests (spec §4.F) so garbage from many pokes ago never
// accumulates.
func (k *Kernel) Checkpoint(roots []noun.Noun) ([]noun.Noun, error) {
	r := k.submit(request{kind: kindCheckpoint, roots: roots})
	return r.roots, r.err
}

// MetricsSnapshot returns the kernel's current request counters and
// arena utilization.
func (k *Kernel) MetricsSnapshot() Stats {
	r := k.submit(request{kind: kindMetrics})
	return r.stats
}

// Load installs the kernel's core: gate is the formula Apply
// re-applies against `[eventNum state cause]` on every call, and
// initialState seeds the evolving state Apply threads forward.
// Grounded on the reference runtime's boot path, which installs a
// fixed kernel battery once and then only ever advances its state.
func (k *Kernel) Load(gate, initialState noun.Noun) {
	k.submit(request{kind: kindLoad, formula: gate, subject: initialState})
}

// Apply drives the loaded kernel forward by one event: it re-applies
// the installed gate to `[eventNum state cause]`, expects a
// `[effects newState]` cell back, and on success makes newState the
// kernel's state for the next call. Grounded on the reference
// runtime's poke_swap/event_update pair. Returns ErrKernelNotLoaded if
// Load has not been called.
func (k *Kernel) Apply(cause noun.Noun) (noun.Noun, error) {
	r := k.submit(request{kind: kindApply, subject: cause})
	return r.value, r.err
}

// Export returns the kernel's current persisted core (state and event
// number) for a caller to hold onto and later Import, e.g. into a
// freshly started Kernel picking up where this one left off.
func (k *Kernel) Export() State {
	r := k.submit(request{kind: kindExport})
	return r.state
}

// Import installs a previously Exported State as the kernel's current
// core, replacing whatever Load or prior Apply calls had built up.
func (k *Kernel) Import(state State) {
	k.submit(request{kind: kindImport, state: state})
}

// Stop asks the kernel's goroutine to exit after its current request
// queue drains, and waits for it to actually do so.
func (k *Kernel) Stop() {
	k.submit(request{kind: kindStop})
	<-k.stopped
}
