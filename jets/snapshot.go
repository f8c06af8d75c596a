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

// tableSnapshot is the opaque state interpreter.Run rolls a Table back
// to when a top-level call fails (spec's ContextSnapshot-equivalent
// behavior). The cold table never actually changes after init, but is
// captured anyway since nothing stops a caller from registering more
// jets between requests.
type tableSnapshot struct {
	cold     map[Chum]entry
	warmKeys []Chum
	warmVals []entry
	memo     *memoCache
}

// Snapshot implements interpreter.Snapshotter.
func (t *Table) Snapshot() any {
	t.mu.Lock()
	defer t.mu.Unlock()

	coldCopy := make(map[Chum]entry, len(t.cold))
	for k, v := range t.cold {
		coldCopy[k] = v
	}

	keys := t.warm.Keys()
	vals := make([]entry, 0, len(keys))
	liveKeys := make([]Chum, 0, len(keys))
	for _, k := range keys {
		if v, ok := t.warm.Peek(k); ok {
			liveKeys = append(liveKeys, k)
			vals = append(vals, v)
		}
	}

	return tableSnapshot{
		cold:     coldCopy,
		warmKeys: liveKeys,
		warmVals: vals,
		memo:     t.memo.clone(),
	}
}

// Restore implements interpreter.Snapshotter.
func (t *Table) Restore(s any) {
	snap, ok := s.(tableSnapshot)
	if !ok {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cold = snap.cold
	t.warm.Purge()
	for i, k := range snap.warmKeys {
		t.warm.Add(k, snap.warmVals[i])
	}
	t.memo = snap.memo
}
