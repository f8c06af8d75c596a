// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package nockstack

import (
	"math/big"

	"github.com/nockrt/nockrt/noun"
)

// Polarity records which direction a frame's work-stack and value
// arena grow, alternating per frame as described by the spec so that a
// child frame can reuse its parent's free gap without copying. Since
// this port replaces the single shared byte-addressed region with one
// bounded-budget Go arena per frame (see DESIGN.md), polarity carries
// no addressing consequence here; it is retained purely as state the
// spec requires callers to be able to observe (e.g. for tracing/
// debugging parity with the reference runtime).
type Polarity uint8

const (
	West Polarity = iota
	East
)

func (p Polarity) flipped() Polarity {
	if p == West {
		return East
	}
	return West
}

const (
	cellWordCost = 3 // metadata + head + tail, per spec §4.A
)

// atomWordCost approximates the word footprint of an indirect atom of
// the given bit length: one header word plus one word per 64 bits.
func atomWordCost(bitLen int) uint64 {
	return 1 + uint64((bitLen+63)/64)
}

// Frame is one region of the split-arena stack: a value arena (word
// budget only; backing storage is ordinary Go objects stamped with
// this frame's FrameIDs), a lightweight work-stack of interpreter
// records, and the bookkeeping needed to drive pop-time copying.
type Frame struct {
	stack    *Stack
	parent   *Frame
	depth    int64
	polarity Polarity
	locals   int
	nextSeq  uint64
	wordsUsed uint64

	copyMode bool
	work     []any // the frame's own work-stack (interpreter Work records)
}

// Depth returns the frame's distance from the root frame (0 = root).
func (f *Frame) Depth() int64 { return f.depth }

// Polarity returns whether this frame is West or East.
func (f *Frame) Polarity() Polarity { return f.polarity }

// InCopyMode reports whether the frame is currently being popped.
func (f *Frame) InCopyMode() bool { return f.copyMode }

func (f *Frame) nextFrameID() noun.FrameID {
	id := noun.NewFrameID(f.depth, f.nextSeq)
	f.nextSeq++
	return id
}

func (f *Frame) charge(words uint64) error {
	if f.stack.usedWords+words > f.stack.capacityWords {
		return ErrOutOfMemory
	}
	f.stack.usedWords += words
	f.wordsUsed += words
	if f.stack.usedWords > f.stack.highWater {
		f.stack.highWater = f.stack.usedWords
	}
	return nil
}

// NewCell allocates [head tail] in this frame's arena. Forbidden while
// the frame is in pop-copy mode (use Stack.Preserve to move data out
// instead).
func (f *Frame) NewCell(head, tail noun.Noun) (noun.Noun, error) {
	if f.copyMode {
		return noun.Noun{}, ErrIllegalDuringCopy
	}
	if err := f.charge(cellWordCost); err != nil {
		return noun.Noun{}, err
	}
	return noun.NewCell(f.nextFrameID(), head, tail), nil
}

// NewIndirectAtom allocates an arena-tracked atom wider than the
// inline 256-bit fast path. Forbidden while in pop-copy mode.
func (f *Frame) NewIndirectAtom(v *big.Int) (noun.Noun, error) {
	if f.copyMode {
		return noun.Noun{}, ErrIllegalDuringCopy
	}
	if err := f.charge(atomWordCost(v.BitLen())); err != nil {
		return noun.Noun{}, err
	}
	return noun.NewIndirectAtom(f.nextFrameID(), v)
}

// allocInPreviousFrameCharge is alloc_in_previous_frame from spec §4.B: it
// puts f into copy mode (if not already) and charges the allocation
// against f.parent's budget instead of f's own.
func (f *Frame) allocInPreviousFrameCharge(words uint64) error {
	f.copyMode = true
	if f.parent == nil {
		return ErrNotRootFrame
	}
	return f.parent.charge(words)
}
