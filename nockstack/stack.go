// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package nockstack implements the split-arena stack allocator: a
// sequence of alternating-polarity frames, each pairing a value arena
// with a lightweight work-stack, and the pop-time copying discipline
// that lets a result escape a doomed frame into its parent.
//
// The reference runtime lays all of this out in one contiguous,
// manually bump-allocated byte region (see spec §3.2/§4.B). This port
// keeps every observable semantic — frame nesting, alternating
// polarity, bounded budget and deterministic out-of-memory, pop-time
// copying with forwarding pointers, the no-junior-pointers invariant —
// but replaces the mechanism with one bounded-budget arena per frame
// backed by ordinary garbage-collected Go objects (see DESIGN.md and
// spec §9's explicit GC-port allowance).
package nockstack

import "github.com/nockrt/nockrt/noun"

// Stack is the split-arena stack: one capacity-bounded budget shared
// across a LIFO sequence of Frames.
type Stack struct {
	capacityWords uint64
	usedWords     uint64
	highWater     uint64
	root          *Frame
	top           *Frame
}

// New creates a stack with the given total word budget and allocates
// the initial (root, West) frame with the given number of reserved
// local slots.
func New(capacityWords uint64, locals int) *Stack {
	s := &Stack{capacityWords: capacityWords}
	root := &Frame{stack: s, depth: 0, polarity: West, locals: locals}
	s.root = root
	s.top = root
	return s
}

// Top returns the current (innermost) frame.
func (s *Stack) Top() *Frame { return s.top }

// CapacityWords returns the stack's total word budget.
func (s *Stack) CapacityWords() uint64 { return s.capacityWords }

// UsedWords returns words currently charged against live frames.
func (s *Stack) UsedWords() uint64 { return s.usedWords }

// HighWaterWords returns the maximum UsedWords ever observed.
func (s *Stack) HighWaterWords() uint64 { return s.highWater }

// MemoryState is a debug/introspection snapshot, named after the
// spec's "memory_state" used by the tail-recursion test scenario.
type MemoryState struct {
	CapacityWords uint64
	UsedWords     uint64
	HighWater     uint64
	Depth         int64
}

// MemoryStateSnapshot returns a snapshot of the stack's current utilization.
func (s *Stack) MemoryStateSnapshot() MemoryState {
	return MemoryState{
		CapacityWords: s.capacityWords,
		UsedWords:     s.usedWords,
		HighWater:     s.highWater,
		Depth:         s.top.depth,
	}
}

// FramePush flips polarity and pushes a new frame with the given
// number of reserved local slots on top of the stack.
func (s *Stack) FramePush(locals int) (*Frame, error) {
	f := &Frame{
		stack:    s,
		parent:   s.top,
		depth:    s.top.depth + 1,
		polarity: s.top.polarity.flipped(),
		locals:   locals,
	}
	s.top = f
	return f, nil
}

// FramePop restores the caller frame. The caller must already have
// preserved any result it needs via Preserve; anything left
// unpreserved in the popped frame's arena becomes unreachable through
// this stack (though, as noted in DESIGN.md, Go's GC — not this
// package — is what actually reclaims it).
func (s *Stack) FramePop() error {
	if s.top.parent == nil {
		return ErrPopRoot
	}
	popped := s.top
	s.top = popped.parent
	s.usedWords -= popped.wordsUsed
	popped.copyMode = false
	return nil
}

// WithFrame pushes a new frame with the given local-slot budget, runs
// f with that frame current, preserves f's result into the parent
// frame, and pops — mirroring spec §4.B's with_frame contract exactly.
// If f returns an error, the frame is still popped and the error is
// propagated without attempting to preserve a result.
func WithFrame(s *Stack, locals int, f func(*Frame) (noun.Noun, error)) (noun.Noun, error) {
	child, err := s.FramePush(locals)
	if err != nil {
		return noun.Noun{}, err
	}
	result, err := f(child)
	if err != nil {
		_ = s.FramePop()
		return noun.Noun{}, err
	}
	preserved, err := s.Preserve(result)
	if err != nil {
		_ = s.FramePop()
		return noun.Noun{}, err
	}
	if err := s.FramePop(); err != nil {
		return noun.Noun{}, err
	}
	return preserved, nil
}

// FlipTopFrame may only be called on the root frame. It drops the
// current arena, stands up a fresh, empty frame of the opposite
// polarity, and re-homes the given roots into it via the same
// preserve discipline a frame pop uses — this is the "preservation
// housekeeping" the kernel driver runs between requests (spec §4.F).
func (s *Stack) FlipTopFrame(roots []noun.Noun) ([]noun.Noun, error) {
	if s.top.parent != nil {
		return nil, ErrNotRootFrame
	}
	old := s.top
	fresh := &Frame{stack: s, depth: 0, polarity: old.polarity.flipped()}
	// Temporarily treat `old` as a child of `fresh` so Preserve's
	// normal "copy from top into top.parent" path works unmodified.
	old.parent = fresh
	s.top = old
	out := make([]noun.Noun, len(roots))
	for i, r := range roots {
		p, err := s.Preserve(r)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	s.usedWords -= old.wordsUsed
	s.top = fresh
	return out, nil
}
