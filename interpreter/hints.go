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
	"log"

	"github.com/nockrt/nockrt/noun"
)

// tasTag packs a short ASCII tag (at most eight characters, the `@tas`
// convention every hint name in the spec uses) into a uint64 the same
// way an atom would hold it: first character in the low byte.
func tasTag(s string) uint64 {
	var v uint64
	for i := 0; i < len(s) && i < 8; i++ {
		v |= uint64(s[i]) << (8 * i)
	}
	return v
}

var (
	tagFast = tasTag("fast")
	tagMemo = tasTag("memo")
	tagSlog = tasTag("slog")
	tagBout = tasTag("bout")
	tagMean = tasTag("mean")
	tagHand = tasTag("hand")
	tagHunk = tasTag("hunk")
	tagLose = tasTag("lose")
	tagSpot = tasTag("spot")
	tagHela = tasTag("hela")
	tagDont = tasTag("dont")
	tagSham = tasTag("sham")
)

// isTraceTag reports whether tag is one of the five hints that exist
// only to annotate the mean-stack trace welded into a Failure.
func isTraceTag(tag uint64) bool {
	switch tag {
	case tagMean, tagHand, tagHunk, tagLose, tagSpot:
		return true
	default:
		return false
	}
}

// Slogger receives %slog hint payloads — printf-style diagnostic
// output a running formula asked the host to emit. priority mirrors
// the reference runtime's slog priority levels (0 = normal).
type Slogger interface {
	Slog(priority uint64, message noun.Noun)
}

// stdSlogger is the default Slogger, logging through the standard
// library the same way the teacher runtime's own diagnostic output
// does when no richer sink is wired up.
type stdSlogger struct{}

func (stdSlogger) Slog(priority uint64, message noun.Noun) {
	log.Printf("slog[%d]: %v", priority, message)
}

// JetRegistrar is implemented by a JetTable that can learn a new
// battery's chum from a live %fast hint, rather than only from a
// precompiled table. Package jets's warm table implements this;
// NopJets does not, so %fast is silently ignored on a bare evaluator.
type JetRegistrar interface {
	RegisterFast(core noun.Noun, chum noun.Noun) error
}

// Memoizer is implemented by a JetTable that wants %memo hints to seed
// its result cache directly, bypassing the cold/warm lookup path.
// MemoizeHint is called once the hint's body has actually finished
// evaluating, with key set to the hint payload (`[11 [%memo key] f]`)
// and result set to f's computed value — never with the payload alone,
// since caching the wrong half of the hint would make %memo silently
// useless.
type Memoizer interface {
	MemoizeHint(key, result noun.Noun)

	// InvalidateOnTail clears every cached %memo entry. Called whenever
	// a tail-call transition (op 2, 7, 8, or 9 in tail position) swaps
	// the formula running in the current frame: the program counter has
	// moved, so any entry keyed against the pre-transition subject/body
	// pair no longer describes what is actually executing.
	InvalidateOnTail()
}

// ShamLookup is implemented by a JetTable that can answer a %sham
// hint: name is the hint's payload, the jet's registered name, and
// subject is the core the hint's body formula would otherwise run
// against. When a jet is registered under name, Sham runs it against
// subject and returns its result; found is false when nothing is
// registered (or the jet punts), in which case the body must be
// evaluated the ordinary way.
type ShamLookup interface {
	Sham(name, subject noun.Noun) (result noun.Noun, testMode bool, found bool, err error)
}

// hintEffect is what applyDynamicHint decides to do once a dynamic
// hint's payload has resolved: push a trace entry, defer a memo-cache
// write until the hint's body itself resolves, or nothing further.
type hintEffect struct {
	pushedTrace bool
	deferMemo   bool
}

// applyDynamicHint runs the side effect associated with a resolved
// dynamic hint's tag. The %hand/%hunk/%lose/%mean/%spot trace family
// push their payload onto mean; %slog writes its payload to ctx.Log and
// %fast consults ctx.Jets's optional JetRegistrar interface, both taking
// effect immediately. %memo is different: its payload is the cache key, but
// the value worth caching is the hint's *body* result, which has not
// been computed yet — applyDynamicHint only flags that a memo write
// is owed once that result is in hand (deliverWork11Dynamic performs
// it on the hint's second visit). %sham is handled by the caller
// before applyDynamicHint ever runs: a hit short-circuits the body
// formula entirely, which this side-effect-only helper has no way to
// express.
func applyDynamicHint(ctx *Context, tag uint64, core, hintRes noun.Noun, mean *[]noun.Noun) hintEffect {
	if isTraceTag(tag) {
		*mean = append(*mean, hintRes)
		return hintEffect{pushedTrace: true}
	}
	switch tag {
	case tagSlog:
		ctx.Log.Slog(0, hintRes)
	case tagFast:
		if jr, ok := ctx.Jets.(JetRegistrar); ok {
			_ = jr.RegisterFast(core, hintRes)
		}
	case tagMemo:
		if _, ok := ctx.Jets.(Memoizer); ok {
			return hintEffect{deferMemo: true}
		}
	case tagHela, tagDont:
		// These hints have no effect here, with or without a jet table:
		// %hela does not print the mean stack and %dont does not fail
		// the computation.
	}
	return hintEffect{}
}
