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
	"time"

	"github.com/nockrt/nockrt/nockstack"
	"github.com/nockrt/nockrt/noun"
	"github.com/nockrt/nockrt/token"
)

// Eval computes *[subject formula] against the current top frame of
// ctx.Stack. It never recurses on the Go stack for a tail call: the
// pending-computation records every opcode below produces live on the
// current frame's work-stack (nockstack.Push/PopAny), and the loop
// below simply keeps popping and re-pushing until nothing is left to
// do. The one exception is a non-tail opcode 2 or 9 — those genuinely
// call out to a fresh Nock subject/formula pair whose result must
// itself be combined with something else, so they isolate a child
// frame with nockstack.WithFrame and recurse into Eval on the Go
// stack, exactly as any recursive-descent interpreter would for a
// real function call.
func Eval(ctx *Context, subject, formula noun.Noun) (noun.Noun, error) {
	if ctx.Token != nil {
		if err := ctx.Token.Enter(); err != nil {
			return noun.Noun{}, weld(err, nil)
		}
		defer ctx.Token.Exit()
	}

	f := ctx.Stack.Top()
	var mean []noun.Noun

	nockstack.Push[evalTask](f, evalTask{subject: subject, formula: formula, tail: true})

	var value noun.Noun
	haveValue := false

	for {
		if ctx.Token != nil && ctx.Token.Cancelling() {
			return noun.Noun{}, weld(token.ErrInterrupted, mean)
		}

		if haveValue && f.WorkStackEmpty() {
			return value, nil
		}

		rec, err := nockstack.PopAny(f)
		if err != nil {
			return noun.Noun{}, weld(err, mean)
		}

		if haveValue {
			value, haveValue, err = deliver(ctx, f, &mean, rec, value)
		} else {
			task, ok := rec.(evalTask)
			if !ok {
				return noun.Noun{}, weld(ErrMalformedFormula, mean)
			}
			value, haveValue, err = dispatch(ctx, f, &mean, task)
		}
		if err != nil {
			return noun.Noun{}, weld(err, mean)
		}
	}
}

// evalChild runs a genuinely non-tail Nock call in its own arena
// frame: the reference runtime's with_frame, preserving the child's
// result into the parent's arena and popping the child frame on the
// way out (spec §4.B, §4.D.3).
func evalChild(ctx *Context, subject, formula noun.Noun) (noun.Noun, error) {
	return nockstack.WithFrame(ctx.Stack, 0, func(*nockstack.Frame) (noun.Noun, error) {
		return Eval(ctx, subject, formula)
	})
}

// autoconsOpTag is the ObserveOp tag reported for an autocons formula
// (`[f g]`), which carries no opcode number of its own.
const autoconsOpTag uint64 = ^uint64(0)

// dispatch decodes a fresh evalTask's formula and either produces a
// final value outright (opcodes 0 and 1 need nothing further) or
// pushes whatever continuation and next sub-evalTask the opcode
// requires, in that order, so the sub-evalTask is popped first on the
// next loop iteration.
func dispatch(ctx *Context, f *nockstack.Frame, mean *[]noun.Noun, t evalTask) (noun.Noun, bool, error) {
	start := time.Now()
	d, err := decodeFormula(t.formula)
	if err != nil {
		return noun.Noun{}, false, err
	}

	if d.isCons {
		nockstack.Push[consTask](f, consTask{subject: t.subject, headF: d.headF, tailF: d.tailF})
		pushEval(f, t.subject, d.headF, false)
		ctx.Metrics.ObserveOp(autoconsOpTag, time.Since(start))
		return noun.Noun{}, false, nil
	}
	defer func() { ctx.Metrics.ObserveOp(uint64(d.op), time.Since(start)) }()

	switch d.op {
	case 0:
		axis, err := axisBig(d.rest)
		if err != nil {
			return noun.Noun{}, false, err
		}
		res, err := noun.Slot(t.subject, axis)
		if err != nil {
			return noun.Noun{}, false, err
		}
		return res, true, nil

	case 1:
		return d.rest, true, nil

	case 2:
		h, g, err := cellArgs(d.rest)
		if err != nil {
			return noun.Noun{}, false, err
		}
		nockstack.Push[work2Task](f, work2Task{subject: t.subject, fFormula: h, gFormula: g, tail: t.tail})
		pushEval(f, t.subject, h, false)
		return noun.Noun{}, false, nil

	case 3:
		nockstack.Push[work3Task](f, work3Task{})
		pushEval(f, t.subject, d.rest, false)
		return noun.Noun{}, false, nil

	case 4:
		nockstack.Push[work4Task](f, work4Task{})
		pushEval(f, t.subject, d.rest, false)
		return noun.Noun{}, false, nil

	case 5:
		h, g, err := cellArgs(d.rest)
		if err != nil {
			return noun.Noun{}, false, err
		}
		nockstack.Push[work5Task](f, work5Task{subject: t.subject, fFormula: h, gFormula: g})
		pushEval(f, t.subject, h, false)
		return noun.Noun{}, false, nil

	case 6:
		h, rest2, err := cellArgs(d.rest)
		if err != nil {
			return noun.Noun{}, false, err
		}
		thenF, elseF, err := cellArgs(rest2)
		if err != nil {
			return noun.Noun{}, false, err
		}
		nockstack.Push[work6Task](f, work6Task{subject: t.subject, zFormula: thenF, oFormula: elseF, tail: t.tail})
		pushEval(f, t.subject, h, false)
		return noun.Noun{}, false, nil

	case 7:
		h, g, err := cellArgs(d.rest)
		if err != nil {
			return noun.Noun{}, false, err
		}
		nockstack.Push[work7Task](f, work7Task{gFormula: g, tail: t.tail})
		pushEval(f, t.subject, h, false)
		return noun.Noun{}, false, nil

	case 8:
		h, g, err := cellArgs(d.rest)
		if err != nil {
			return noun.Noun{}, false, err
		}
		nockstack.Push[work8Task](f, work8Task{subject: t.subject, gFormula: g, tail: t.tail})
		pushEval(f, t.subject, h, false)
		return noun.Noun{}, false, nil

	case 9:
		h, c, err := cellArgs(d.rest)
		if err != nil {
			return noun.Noun{}, false, err
		}
		axis, err := axisLiteral(h)
		if err != nil {
			return noun.Noun{}, false, err
		}
		nockstack.Push[work9Task](f, work9Task{axis: axis, tail: t.tail})
		pushEval(f, t.subject, c, false)
		return noun.Noun{}, false, nil

	case 10:
		h0, fFormula, err := cellArgs(d.rest)
		if err != nil {
			return noun.Noun{}, false, err
		}
		axisNoun, pFormula, err := cellArgs(h0)
		if err != nil {
			return noun.Noun{}, false, err
		}
		axis, err := axisBig(axisNoun)
		if err != nil {
			return noun.Noun{}, false, err
		}
		path, err := noun.AxisPath(axis)
		if err != nil {
			return noun.Noun{}, false, err
		}
		nockstack.Push[work10Task](f, work10Task{subject: t.subject, axis: path, fFormula: fFormula})
		pushEval(f, t.subject, pFormula, false)
		return noun.Noun{}, false, nil

	case 11:
		h0, fFormula, err := cellArgs(d.rest)
		if err != nil {
			return noun.Noun{}, false, err
		}
		if h0.Kind() != noun.KindCell {
			// Static hint: no payload to compute, the tag carries no
			// further information the evaluator needs to act on.
			pushEval(f, t.subject, fFormula, t.tail)
			return noun.Noun{}, false, nil
		}
		tagNoun, hFormula, err := cellArgs(h0)
		if err != nil {
			return noun.Noun{}, false, err
		}
		tag, err := axisLiteral(tagNoun)
		if err != nil {
			return noun.Noun{}, false, err
		}
		nockstack.Push[work11DTask](f, work11DTask{subject: t.subject, tag: tag, fFormula: fFormula, tail: t.tail})
		pushEval(f, t.subject, hFormula, false)
		return noun.Noun{}, false, nil

	case 12:
		h, p, err := cellArgs(d.rest)
		if err != nil {
			return noun.Noun{}, false, err
		}
		nockstack.Push[work12Task](f, work12Task{subject: t.subject, pFormula: p})
		pushEval(f, t.subject, h, false)
		return noun.Noun{}, false, nil

	default:
		return noun.Noun{}, false, ErrUnknownOpcode
	}
}

// pushEval schedules a sub-evaluation on f's work-stack.
func pushEval(f *nockstack.Frame, subject, formula noun.Noun, tail bool) {
	nockstack.Push[evalTask](f, evalTask{subject: subject, formula: formula, tail: tail})
}

// deliver hands a just-computed value to the continuation record
// below it on the work-stack, advancing that record's stage or
// finishing it outright.
func deliver(ctx *Context, f *nockstack.Frame, mean *[]noun.Noun, rec any, value noun.Noun) (noun.Noun, bool, error) {
	switch w := rec.(type) {
	case consTask:
		if !w.seenHead {
			w.headRes = value
			w.seenHead = true
			nockstack.Push[consTask](f, w)
			pushEval(f, w.subject, w.tailF, false)
			return noun.Noun{}, false, nil
		}
		cell, err := f.NewCell(w.headRes, value)
		return cell, true, err

	case work2Task:
		return deliverWork2(ctx, f, w, value)

	case work3Task:
		if value.IsCell() {
			return noun.Atom(0), true, nil
		}
		return noun.Atom(1), true, nil

	case work4Task:
		res, err := noun.Increment(value)
		return res, true, err

	case work5Task:
		if !w.seenLeft {
			w.leftRes = value
			w.seenLeft = true
			nockstack.Push[work5Task](f, w)
			pushEval(f, w.subject, w.gFormula, false)
			return noun.Noun{}, false, nil
		}
		if noun.UnifyingEqual(w.leftRes, value) {
			return noun.Atom(0), true, nil
		}
		return noun.Atom(1), true, nil

	case work6Task:
		v, ok := value.AsUint256()
		if !ok {
			return noun.Noun{}, false, ErrNotAnAtom
		}
		var branch noun.Noun
		switch {
		case v.IsZero():
			branch = w.zFormula
		case v.IsUint64() && v.Uint64() == 1:
			branch = w.oFormula
		default:
			return noun.Noun{}, false, ErrOp6NotBoolean
		}
		pushEval(f, w.subject, branch, w.tail)
		return noun.Noun{}, false, nil

	case work7Task:
		if w.tail {
			invalidateMemoOnTail(ctx)
		}
		pushEval(f, value, w.gFormula, w.tail)
		return noun.Noun{}, false, nil

	case work8Task:
		cell, err := f.NewCell(value, w.subject)
		if err != nil {
			return noun.Noun{}, false, err
		}
		if w.tail {
			invalidateMemoOnTail(ctx)
		}
		pushEval(f, cell, w.gFormula, w.tail)
		return noun.Noun{}, false, nil

	case work9Task:
		return deliverWork9(ctx, f, w, value)

	case work10Task:
		if !w.seenPatch {
			w.patchRes = value
			w.seenPatch = true
			nockstack.Push[work10Task](f, w)
			pushEval(f, w.subject, w.fFormula, false)
			return noun.Noun{}, false, nil
		}
		res, err := edit(f, value, w.axis, w.patchRes)
		return res, true, err

	case work11DTask:
		return deliverWork11Dynamic(ctx, f, mean, w, value)

	case work12Task:
		if !w.seenRef {
			w.refRes = value
			w.seenRef = true
			nockstack.Push[work12Task](f, w)
			pushEval(f, w.subject, w.pFormula, false)
			return noun.Noun{}, false, nil
		}
		res, status, err := ctx.Scry.Scry(w.refRes, value)
		if err != nil {
			return noun.Noun{}, false, err
		}
		if status == ScryBlocked {
			return noun.Noun{}, false, ErrScryBlocked
		}
		if status == ScryCrashed {
			return noun.Noun{}, false, ErrMalformedFormula
		}
		return res, true, nil

	default:
		return noun.Noun{}, false, ErrMalformedFormula
	}
}

func deliverWork2(ctx *Context, f *nockstack.Frame, w work2Task, value noun.Noun) (noun.Noun, bool, error) {
	if !w.seenSubject {
		w.newSubject = value
		w.seenSubject = true
		nockstack.Push[work2Task](f, w)
		pushEval(f, w.subject, w.gFormula, false)
		return noun.Noun{}, false, nil
	}
	newFormula := value
	if w.tail {
		invalidateMemoOnTail(ctx)
		pushEval(f, w.newSubject, newFormula, true)
		return noun.Noun{}, false, nil
	}
	res, err := evalChild(ctx, w.newSubject, newFormula)
	return res, true, err
}

func deliverWork9(ctx *Context, f *nockstack.Frame, w work9Task, core noun.Noun) (noun.Noun, bool, error) {
	newFormula, err := noun.SlotUint64(core, w.axis)
	if err != nil {
		return noun.Noun{}, false, err
	}

	if fn, testMode, found := ctx.Jets.Lookup(core, w.axis); found {
		native, punt, jerr := fn(core)
		if jerr != nil {
			return noun.Noun{}, false, jerr
		}
		if !punt {
			if testMode {
				adopted, err := f.Adopt(native)
				if err != nil {
					return noun.Noun{}, false, err
				}
				nockRes, err := evalChild(ctx, core, newFormula)
				if err != nil {
					return noun.Noun{}, false, err
				}
				if !noun.UnifyingEqual(adopted, nockRes) {
					return noun.Noun{}, false, ErrJetMismatch
				}
				return adopted, true, nil
			}
			return native, true, nil
		}
	}

	if w.tail {
		invalidateMemoOnTail(ctx)
		pushEval(f, core, newFormula, true)
		return noun.Noun{}, false, nil
	}
	res, err := evalChild(ctx, core, newFormula)
	return res, true, err
}

// invalidateMemoOnTail clears ctx.Jets's %memo cache, if it implements
// Memoizer, at a tail-call transition (spec §4.D.3): the effective
// program counter has moved to a new formula in the same frame, so any
// entry cached before the jump no longer describes what is running.
func invalidateMemoOnTail(ctx *Context) {
	if m, ok := ctx.Jets.(Memoizer); ok {
		m.InvalidateOnTail()
	}
}

func deliverWork11Dynamic(ctx *Context, f *nockstack.Frame, mean *[]noun.Noun, w work11DTask, value noun.Noun) (noun.Noun, bool, error) {
	if !w.seenHint {
		hintRes := value
		if w.tag == tagSham {
			if sl, ok := ctx.Jets.(ShamLookup); ok {
				native, testMode, found, err := sl.Sham(hintRes, w.subject)
				if err != nil {
					return noun.Noun{}, false, err
				}
				if found {
					adopted, err := f.Adopt(native)
					if err != nil {
						return noun.Noun{}, false, err
					}
					if testMode {
						nockRes, err := evalChild(ctx, w.subject, w.fFormula)
						if err != nil {
							return noun.Noun{}, false, err
						}
						if !noun.UnifyingEqual(adopted, nockRes) {
							return noun.Noun{}, false, ErrJetMismatch
						}
					}
					return adopted, true, nil
				}
			}
		}
		effect := applyDynamicHint(ctx, w.tag, w.subject, hintRes, mean)
		// A pending trace pop or memo write means this hint's body is not
		// really in tail position even if the [11 ...] formula itself was:
		// there is still work to do on this frame after the body resolves.
		needsFollowup := (effect.pushedTrace && !w.tail) || effect.deferMemo
		w.seenHint = true
		w.hintRes = hintRes
		w.popOnDone = effect.pushedTrace && !w.tail
		w.memoPending = effect.deferMemo
		if needsFollowup {
			nockstack.Push[work11DTask](f, w)
		}
		pushEval(f, w.subject, w.fFormula, w.tail && !needsFollowup)
		return noun.Noun{}, false, nil
	}
	if w.popOnDone && len(*mean) > 0 {
		*mean = (*mean)[:len(*mean)-1]
	}
	if w.memoPending {
		if m, ok := ctx.Jets.(Memoizer); ok {
			m.MemoizeHint(w.hintRes, value)
		}
	}
	return value, true, nil
}
