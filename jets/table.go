// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package jets

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nockrt/nockrt/interpreter"
	"github.com/nockrt/nockrt/noun"
)

// entry pairs a native implementation with whether it should run in
// test mode (compared against ordinary Nock rather than trusted
// outright).
type entry struct {
	fn       interpreter.NativeFunc
	testMode bool
}

// Table is the jet table described by spec §4.E: a fixed, compiled-in
// cold table a binary registers its native arms into at startup, a
// bounded warm table %fast hints populate at runtime, and a bounded
// memo cache %memo hints seed. It implements interpreter.JetTable,
// JetRegistrar, Memoizer, ShamLookup, and Snapshotter, so a *Table can
// be dropped into interpreter.Context.Jets directly.
type Table struct {
	mu   sync.Mutex
	cold map[Chum]entry
	sham map[Chum]entry
	warm *lru.Cache[Chum, entry]
	memo *memoCache
}

// New builds an empty Table. warmCapacity bounds the number of %fast
// registrations retained at once; memoCapacity bounds the number of
// %memo entries retained at once.
func New(warmCapacity, memoCapacity int) *Table {
	warm, err := lru.New[Chum, entry](warmCapacity)
	if err != nil {
		// Only returned by golang-lru for a non-positive capacity,
		// which is a programming error in the caller, not a runtime
		// condition this constructor should make callers handle.
		panic(fmt.Sprintf("jets: %v", err))
	}
	return &Table{
		cold: make(map[Chum]entry),
		sham: make(map[Chum]entry),
		warm: warm,
		memo: newMemoCache(memoCapacity),
	}
}

// RegisterCold installs a compiled-in native implementation for the
// battery identified by chum. Intended for package-init-time calls,
// before any Lookup runs; a duplicate registration panics, mirroring
// the reference registry's panic-on-duplicate-name discipline rather
// than silently overwriting one jet's behavior with another's.
func (t *Table) RegisterCold(chum Chum, fn interpreter.NativeFunc, testMode bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, found := t.cold[chum]; found {
		panic(fmt.Sprintf("jets: duplicate cold registration for chum %08x", chum))
	}
	t.cold[chum] = entry{fn: fn, testMode: testMode}
}

// RegisterSham installs a native implementation a %sham hint can name
// directly by a tag noun, independent of any battery's chum: a %sham
// hit runs fn against the hint's subject instead of evaluating the
// hint body at all. Duplicate registration for the same name panics,
// for the same reason RegisterCold's does.
func (t *Table) RegisterSham(name noun.Noun, fn interpreter.NativeFunc, testMode bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	chum := ChumOf(name)
	if _, found := t.sham[chum]; found {
		panic(fmt.Sprintf("jets: duplicate sham registration for chum %08x", chum))
	}
	t.sham[chum] = entry{fn: fn, testMode: testMode}
}

// Lookup implements interpreter.JetTable. The cold table is checked
// before the warm table: a compiled-in jet always takes precedence
// over one a %fast hint registered at runtime for the same battery.
func (t *Table) Lookup(core noun.Noun, axis uint64) (interpreter.NativeFunc, bool, bool) {
	battery, err := noun.SlotUint64(core, axis)
	if err != nil {
		return nil, false, false
	}
	chum := ChumOf(battery)

	t.mu.Lock()
	defer t.mu.Unlock()
	if e, found := t.cold[chum]; found {
		return e.fn, e.testMode, true
	}
	if e, found := t.warm.Get(chum); found {
		return e.fn, e.testMode, true
	}
	return nil, false, false
}

// RegisterFast implements interpreter.JetRegistrar. A %fast hint's
// payload is expected to carry the chum of an already-registered cold
// jet (by convention, the low word of the payload atom); %fast only
// ever copies an existing cold registration into the warm table under
// the same chum, it never introduces a native implementation of its
// own.
func (t *Table) RegisterFast(core noun.Noun, payload noun.Noun) error {
	v, ok := payload.AsUint256()
	if !ok {
		return ErrMalformedChumPayload
	}
	chum := Chum(v.Uint64())

	t.mu.Lock()
	defer t.mu.Unlock()
	e, found := t.cold[chum]
	if !found {
		return ErrUnknownChum
	}
	t.warm.Add(chum, e)
	return nil
}

// MemoizeHint implements interpreter.Memoizer.
func (t *Table) MemoizeHint(key, result noun.Noun) {
	t.memo.put(key, result)
}

// InvalidateOnTail implements interpreter.Memoizer.
func (t *Table) InvalidateOnTail() {
	t.memo.clear()
}

// Sham implements interpreter.ShamLookup.
func (t *Table) Sham(name, subject noun.Noun) (noun.Noun, bool, bool, error) {
	t.mu.Lock()
	e, found := t.sham[ChumOf(name)]
	t.mu.Unlock()
	if !found {
		return noun.Noun{}, false, false, nil
	}
	res, punt, err := e.fn(subject)
	if err != nil {
		return noun.Noun{}, false, false, err
	}
	if punt {
		return noun.Noun{}, false, false, nil
	}
	return res, e.testMode, true, nil
}

// MemoLookup returns the result memoized under key, if any. The
// interpreter package never calls it: a %memo hint only writes the
// cache after its body has been evaluated, and never reads it back, so
// a cached result does not spare the body's re-evaluation.
func (t *Table) MemoLookup(key noun.Noun) (noun.Noun, bool) {
	return t.memo.get(key)
}
