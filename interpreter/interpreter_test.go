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
	"runtime"
	"testing"
	"time"

	"github.com/nockrt/nockrt/nockstack"
	"github.com/nockrt/nockrt/noun"
	"github.com/nockrt/nockrt/token"
)

func newCtx(t *testing.T) (*Context, *nockstack.Frame) {
	t.Helper()
	stack := nockstack.New(1<<20, 0)
	ctx := New(stack, token.New())
	return ctx, stack.Top()
}

func cell(t *testing.T, f *nockstack.Frame, items ...noun.Noun) noun.Noun {
	t.Helper()
	if len(items) == 0 {
		t.Fatal("cell: need at least one item")
	}
	n := items[len(items)-1]
	for i := len(items) - 2; i >= 0; i-- {
		var err error
		n, err = f.NewCell(items[i], n)
		if err != nil {
			t.Fatalf("NewCell: %v", err)
		}
	}
	return n
}

func mustEval(t *testing.T, ctx *Context, subject, formula noun.Noun) noun.Noun {
	t.Helper()
	v, err := Eval(ctx, subject, formula)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	return v
}

func atomEq(t *testing.T, n noun.Noun, want uint64) {
	t.Helper()
	v, ok := n.AsUint256()
	if !ok {
		t.Fatalf("not a direct atom: %#v", n)
	}
	if v.Uint64() != want {
		t.Fatalf("got %d, want %d", v.Uint64(), want)
	}
}

func TestOp0Slot(t *testing.T) {
	ctx, f := newCtx(t)
	subject := cell(t, f, noun.Atom(10), noun.Atom(20), noun.Atom(30))
	formula := cell(t, f, noun.Atom(0), noun.Atom(6)) // [0 6] -> tail's head == 20
	atomEq(t, mustEval(t, ctx, subject, formula), 20)
}

func TestOp1Quote(t *testing.T) {
	ctx, f := newCtx(t)
	formula := cell(t, f, noun.Atom(1), noun.Atom(42))
	atomEq(t, mustEval(t, ctx, noun.Atom(0), formula), 42)
}

func TestAutocons(t *testing.T) {
	ctx, f := newCtx(t)
	subject := noun.Atom(7)
	formula := cell(t, f, cell(t, f, noun.Atom(1), noun.Atom(1)), cell(t, f, noun.Atom(1), noun.Atom(2)))
	res := mustEval(t, ctx, subject, formula)
	if !res.IsCell() {
		t.Fatalf("expected cell result")
	}
	h, _ := res.Head()
	tl, _ := res.Tail()
	atomEq(t, h, 1)
	atomEq(t, tl, 2)
}

func TestOp3CellTest(t *testing.T) {
	ctx, f := newCtx(t)
	isCell := cell(t, f, noun.Atom(3), cell(t, f, noun.Atom(1), cell(t, f, noun.Atom(1), noun.Atom(2))))
	atomEq(t, mustEval(t, ctx, noun.Atom(0), isCell), 0)

	isAtom := cell(t, f, noun.Atom(3), cell(t, f, noun.Atom(1), noun.Atom(5)))
	atomEq(t, mustEval(t, ctx, noun.Atom(0), isAtom), 1)
}

func TestOp4Increment(t *testing.T) {
	ctx, f := newCtx(t)
	formula := cell(t, f, noun.Atom(4), cell(t, f, noun.Atom(1), noun.Atom(41)))
	atomEq(t, mustEval(t, ctx, noun.Atom(0), formula), 42)
}

func TestOp5EqualityTest(t *testing.T) {
	ctx, f := newCtx(t)
	eq := cell(t, f, noun.Atom(5), cell(t, f, cell(t, f, noun.Atom(1), noun.Atom(9)), cell(t, f, noun.Atom(1), noun.Atom(9))))
	atomEq(t, mustEval(t, ctx, noun.Atom(0), eq), 0)

	neq := cell(t, f, noun.Atom(5), cell(t, f, cell(t, f, noun.Atom(1), noun.Atom(9)), cell(t, f, noun.Atom(1), noun.Atom(8))))
	atomEq(t, mustEval(t, ctx, noun.Atom(0), neq), 1)
}

func TestOp6IfElse(t *testing.T) {
	ctx, f := newCtx(t)
	then := cell(t, f, noun.Atom(1), noun.Atom(100))
	els := cell(t, f, noun.Atom(1), noun.Atom(200))

	testZero := cell(t, f, noun.Atom(1), noun.Atom(0))
	fZero := cell(t, f, noun.Atom(6), cell(t, f, testZero, cell(t, f, then, els)))
	atomEq(t, mustEval(t, ctx, noun.Atom(0), fZero), 100)

	testOne := cell(t, f, noun.Atom(1), noun.Atom(1))
	fOne := cell(t, f, noun.Atom(6), cell(t, f, testOne, cell(t, f, then, els)))
	atomEq(t, mustEval(t, ctx, noun.Atom(0), fOne), 200)
}

func TestOp6RejectsNonBooleanTest(t *testing.T) {
	ctx, f := newCtx(t)
	then := cell(t, f, noun.Atom(1), noun.Atom(100))
	els := cell(t, f, noun.Atom(1), noun.Atom(200))

	testTwo := cell(t, f, noun.Atom(1), noun.Atom(2))
	formula := cell(t, f, noun.Atom(6), cell(t, f, testTwo, cell(t, f, then, els)))
	if _, err := Eval(ctx, noun.Atom(0), formula); !errors.Is(err, ErrOp6NotBoolean) {
		t.Fatalf("expected ErrOp6NotBoolean for a test atom of 2, got %v", err)
	}
}

func TestOp7Compose(t *testing.T) {
	ctx, f := newCtx(t)
	// [7 [1 5] [4 0 1]]: subject becomes 5, then increment it.
	formula := cell(t, f, noun.Atom(7), cell(t, f, cell(t, f, noun.Atom(1), noun.Atom(5)), cell(t, f, noun.Atom(4), cell(t, f, noun.Atom(0), noun.Atom(1)))))
	atomEq(t, mustEval(t, ctx, noun.Atom(0), formula), 6)
}

func TestOp8Pin(t *testing.T) {
	ctx, f := newCtx(t)
	// [8 [1 5] [0 2]]: pin 5 onto the subject, then read it back at axis 2.
	formula := cell(t, f, noun.Atom(8), cell(t, f, cell(t, f, noun.Atom(1), noun.Atom(5)), cell(t, f, noun.Atom(0), noun.Atom(2))))
	atomEq(t, mustEval(t, ctx, noun.Atom(99), formula), 5)
}

func TestOp9GeneralCall(t *testing.T) {
	ctx, f := newCtx(t)
	// Core is [arm subject] where arm is the formula [0 3] (read slot 3 of
	// the core, i.e. the pinned subject). [9 2 [1 core]] calls axis 2 of
	// that core (the arm itself) against the core.
	arm := cell(t, f, noun.Atom(0), noun.Atom(3))
	core := cell(t, f, arm, noun.Atom(77))
	formula := cell(t, f, noun.Atom(9), cell(t, f, noun.Atom(2), cell(t, f, noun.Atom(1), core)))
	atomEq(t, mustEval(t, ctx, noun.Atom(0), formula), 77)
}

func TestOp10Edit(t *testing.T) {
	ctx, f := newCtx(t)
	tree := cell(t, f, noun.Atom(10), noun.Atom(20), noun.Atom(30))
	// tree is [10 [20 30]]; axis 6 is the "20" leaf. Patch it to 99,
	// leaving [10 [99 30]].
	patchSpec := cell(t, f, noun.Atom(6), cell(t, f, noun.Atom(1), noun.Atom(99)))
	formula := cell(t, f, noun.Atom(10), cell(t, f, patchSpec, cell(t, f, noun.Atom(1), tree)))
	res := mustEval(t, ctx, noun.Atom(0), formula)
	h, _ := res.Head()
	atomEq(t, h, 10)
	tl, _ := res.Tail()
	tlh, _ := tl.Head()
	atomEq(t, tlh, 99)
}

func TestOp11StaticHintPassesThrough(t *testing.T) {
	ctx, f := newCtx(t)
	formula := cell(t, f, noun.Atom(11), cell(t, f, noun.Atom(123), cell(t, f, noun.Atom(1), noun.Atom(9))))
	atomEq(t, mustEval(t, ctx, noun.Atom(0), formula), 9)
}

func TestOp11DynamicMeanWeldsTraceOnFailure(t *testing.T) {
	ctx, f := newCtx(t)
	tagMeanAtom := noun.Atom(tagMean)
	hint := cell(t, f, noun.Atom(1), noun.Atom(1234)) // dynamic hint payload formula
	// body crashes by descending into an atom via slot 2 of an atom subject.
	body := cell(t, f, noun.Atom(0), noun.Atom(2))
	formula := cell(t, f, noun.Atom(11), cell(t, f, cell(t, f, tagMeanAtom, hint), body))

	_, err := Eval(ctx, noun.Atom(5), formula)
	if err == nil {
		t.Fatalf("expected failure")
	}
	var failure *Failure
	if !errors.As(err, &failure) {
		t.Fatalf("expected *Failure, got %T: %v", err, err)
	}
	if len(failure.Trace) != 1 {
		t.Fatalf("expected one welded trace entry, got %d", len(failure.Trace))
	}
	atomEq(t, failure.Trace[0], 1234)
}

func TestOp12ScryUsesHandler(t *testing.T) {
	ctx, f := newCtx(t)
	ctx.Scry = stubScry{result: noun.Atom(555)}
	formula := cell(t, f, noun.Atom(12), cell(t, f, cell(t, f, noun.Atom(1), noun.Atom(1)), cell(t, f, noun.Atom(1), noun.Atom(2))))
	atomEq(t, mustEval(t, ctx, noun.Atom(0), formula), 555)
}

type stubScry struct{ result noun.Noun }

func (s stubScry) Scry(noun.Noun, noun.Noun) (noun.Noun, ScryStatus, error) {
	return s.result, ScryResolved, nil
}

// TestTailCallChainDoesNotGrowArenaDepth builds a long chain of op-2
// calls, each one in tail position, and checks the stack never leaves
// its root frame: every call eliding into the same frame's work-stack
// rather than recursing is exactly the property that keeps a
// thousands-deep Nock tail loop from ever touching the Go call stack.
func TestTailCallChainDoesNotGrowArenaDepth(t *testing.T) {
	ctx, f := newCtx(t)
	const depth = 2000

	inner := cell(t, f, noun.Atom(1), noun.Atom(99))
	for i := 0; i < depth; i++ {
		quoteSubject := cell(t, f, noun.Atom(1), noun.Atom(uint64(i)))
		quoteFormula := cell(t, f, noun.Atom(1), inner)
		inner = cell(t, f, noun.Atom(2), cell(t, f, quoteSubject, quoteFormula))
	}

	result := mustEval(t, ctx, noun.Atom(0), inner)
	atomEq(t, result, 99)
	if ctx.Stack.Top().Depth() != 0 {
		t.Fatalf("expected to stay on the root frame, depth = %d", ctx.Stack.Top().Depth())
	}
}

type fakeJets struct {
	axis    uint64
	fn      NativeFunc
	testing bool
}

func (j fakeJets) Lookup(core noun.Noun, axis uint64) (NativeFunc, bool, bool) {
	if axis != j.axis {
		return nil, false, false
	}
	return j.fn, j.testing, true
}

func TestOp9JetDispatchOverridesOrdinaryEvaluation(t *testing.T) {
	ctx, f := newCtx(t)
	ctx.Jets = fakeJets{axis: 2, fn: func(noun.Noun) (noun.Noun, bool, error) {
		return noun.Atom(9001), false, nil
	}}
	arm := cell(t, f, noun.Atom(0), noun.Atom(3))
	core := cell(t, f, arm, noun.Atom(1))
	formula := cell(t, f, noun.Atom(9), cell(t, f, noun.Atom(2), cell(t, f, noun.Atom(1), core)))
	atomEq(t, mustEval(t, ctx, noun.Atom(0), formula), 9001)
}

func TestOp9JetTestModeMismatchIsReported(t *testing.T) {
	ctx, f := newCtx(t)
	ctx.Jets = fakeJets{axis: 2, testing: true, fn: func(noun.Noun) (noun.Noun, bool, error) {
		return noun.Atom(1), false, nil // disagrees with the real arm, which computes 2
	}}
	arm := cell(t, f, noun.Atom(0), noun.Atom(3))
	core := cell(t, f, arm, noun.Atom(2)) // arm actually computes 2
	formula := cell(t, f, noun.Atom(9), cell(t, f, noun.Atom(2), cell(t, f, noun.Atom(1), core)))
	_, err := Eval(ctx, noun.Atom(0), formula)
	if !errors.Is(err, ErrJetMismatch) {
		t.Fatalf("expected ErrJetMismatch, got %v", err)
	}
}

// TestOp9JetTestModeAdoptsNativeResultBeforeComparing builds a native
// jet result in a transient child frame and pops it — exactly the
// shape a jet that borrows scratch arena space internally would hand
// back — and checks the test-mode comparison still succeeds. Without
// copying the jet's result into the calling frame first, comparing
// against a noun owned by an already-popped, junior frame would leave
// a forwarding pointer reaching into a frame nothing else references.
func TestOp9JetTestModeAdoptsNativeResultBeforeComparing(t *testing.T) {
	ctx, f := newCtx(t)

	var borrowed noun.Noun
	child, err := ctx.Stack.FramePush(0)
	if err != nil {
		t.Fatalf("FramePush: %v", err)
	}
	borrowed, err = child.NewCell(noun.Atom(1), noun.Atom(2))
	if err != nil {
		t.Fatalf("NewCell: %v", err)
	}
	if err := ctx.Stack.FramePop(); err != nil {
		t.Fatalf("FramePop: %v", err)
	}

	ctx.Jets = fakeJets{axis: 2, testing: true, fn: func(noun.Noun) (noun.Noun, bool, error) {
		return borrowed, false, nil
	}}
	// Real arm computes the same [1 2] cell via ordinary Nock, so the
	// unifying-equality check should pass once borrowed is adopted.
	arm := cell(t, f, noun.Atom(1), cell(t, f, noun.Atom(1), noun.Atom(2)))
	core := cell(t, f, arm, noun.Atom(0))
	formula := cell(t, f, noun.Atom(9), cell(t, f, noun.Atom(2), cell(t, f, noun.Atom(1), core)))

	res := mustEval(t, ctx, noun.Atom(0), formula)
	h, _ := res.Head()
	tl, _ := res.Tail()
	atomEq(t, h, 1)
	atomEq(t, tl, 2)
}

type fakeMemoizer struct {
	key, result noun.Noun
	called      bool
	invalidated int
}

func (m *fakeMemoizer) MemoizeHint(key, result noun.Noun) {
	m.key, m.result, m.called = key, result, true
}

func (m *fakeMemoizer) InvalidateOnTail() {
	m.invalidated++
}

// fakeJetsWithMemo composes fakeJets's Lookup with a Memoizer so a
// %memo hint has somewhere to land.
type fakeJetsWithMemo struct {
	fakeJets
	*fakeMemoizer
}

func TestOp11DynamicMemoCachesBodyResultNotPayload(t *testing.T) {
	ctx, f := newCtx(t)
	mz := &fakeMemoizer{}
	ctx.Jets = fakeJetsWithMemo{fakeJets: fakeJets{}, fakeMemoizer: mz}

	tagMemoAtom := noun.Atom(tagMemo)
	key := cell(t, f, noun.Atom(1), noun.Atom(111)) // hint payload: the cache key
	body := cell(t, f, noun.Atom(1), noun.Atom(222)) // hint body: the value worth caching
	formula := cell(t, f, noun.Atom(11), cell(t, f, cell(t, f, tagMemoAtom, key), body))

	atomEq(t, mustEval(t, ctx, noun.Atom(0), formula), 222)

	if !mz.called {
		t.Fatalf("expected MemoizeHint to be called")
	}
	atomEq(t, mz.key, 111)
	atomEq(t, mz.result, 222)
}

type fakeSham struct {
	fakeJets
	name   noun.Noun
	result noun.Noun
	found  bool
	err    error
	called bool
}

func (s *fakeSham) Sham(name, subject noun.Noun) (noun.Noun, bool, bool, error) {
	s.called = true
	if !noun.UnifyingEqual(name, s.name) {
		return noun.Noun{}, false, false, nil
	}
	return s.result, false, s.found, s.err
}

func TestOp11DynamicShamRunsJetInsteadOfBody(t *testing.T) {
	ctx, f := newCtx(t)
	tagShamAtom := noun.Atom(tagSham)
	jetName := noun.Atom(7)
	sh := &fakeSham{name: jetName, result: noun.Atom(555), found: true}
	ctx.Jets = sh

	payload := cell(t, f, noun.Atom(1), jetName)
	body := cell(t, f, noun.Atom(1), noun.Atom(999)) // would be the result if not shammed
	formula := cell(t, f, noun.Atom(11), cell(t, f, cell(t, f, tagShamAtom, payload), body))

	atomEq(t, mustEval(t, ctx, noun.Atom(0), formula), 555)
	if !sh.called {
		t.Fatalf("expected Sham to be consulted")
	}
}

func TestOp11DynamicShamMissEvaluatesBody(t *testing.T) {
	ctx, f := newCtx(t)
	tagShamAtom := noun.Atom(tagSham)
	sh := &fakeSham{name: noun.Atom(7), found: false}
	ctx.Jets = sh

	payload := cell(t, f, noun.Atom(1), noun.Atom(9999)) // no jet registered under this name
	body := cell(t, f, noun.Atom(1), noun.Atom(999))
	formula := cell(t, f, noun.Atom(11), cell(t, f, cell(t, f, tagShamAtom, payload), body))

	atomEq(t, mustEval(t, ctx, noun.Atom(0), formula), 999)
	if !sh.called {
		t.Fatalf("expected Sham to be consulted")
	}
}

func TestTailCallInvalidatesMemoCache(t *testing.T) {
	ctx, f := newCtx(t)
	mz := &fakeMemoizer{}
	ctx.Jets = fakeJetsWithMemo{fakeJets: fakeJets{}, fakeMemoizer: mz}

	// [8 [1 5] [0 2]] evaluated at the top level runs op 8 in tail
	// position (Eval's own root call is always tail: true), so the
	// formula swap it performs must invalidate the memo cache.
	formula := cell(t, f, noun.Atom(8), cell(t, f, cell(t, f, noun.Atom(1), noun.Atom(5)), cell(t, f, noun.Atom(0), noun.Atom(2))))
	atomEq(t, mustEval(t, ctx, noun.Atom(99), formula), 5)

	if mz.invalidated == 0 {
		t.Fatalf("expected memo cache invalidation on tail transition")
	}
}

// TestCancelOnIdleTokenIsANoOp checks token.Token's own documented
// behavior end to end: Cancel against an idle (R == 0) token has
// nothing to negate, so a call started afterward runs to completion
// rather than observing a cancelling token.
func TestCancelOnIdleTokenIsANoOp(t *testing.T) {
	ctx, f := newCtx(t)
	if ctx.Token.Cancel() {
		t.Fatalf("expected Cancel on an idle token to report no-op")
	}
	formula := cell(t, f, noun.Atom(1), noun.Atom(1))
	res, err := Eval(ctx, noun.Atom(0), formula)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	atomEq(t, res, 1)
}

// TestCancellationInterruptsRunningInterpretation is the scenario a
// host actually relies on: cancel a genuinely running call from
// another goroutine and see it unwind with ErrInterrupted. [2 [0 1]
// [0 1]] run with itself as its own subject never terminates — each
// step re-evaluates the same subject/formula pair in tail position —
// giving the cancelling goroutine unbounded time to see Eval's
// Token.Enter() move the token out of the idle region.
func TestCancellationInterruptsRunningInterpretation(t *testing.T) {
	ctx, f := newCtx(t)
	loop := cell(t, f, noun.Atom(2), cell(t, f, cell(t, f, noun.Atom(0), noun.Atom(1)), cell(t, f, noun.Atom(0), noun.Atom(1))))

	done := make(chan error, 1)
	go func() {
		_, err := Eval(ctx, loop, loop)
		done <- err
	}()

	for ctx.Token.Running() == 0 {
		runtime.Gosched()
	}
	if !ctx.Token.Cancel() {
		t.Fatalf("expected Cancel to negate a running token")
	}

	select {
	case err := <-done:
		if !errors.Is(err, token.ErrInterrupted) {
			t.Fatalf("expected ErrInterrupted, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for cancellation to interrupt the running loop")
	}
}
