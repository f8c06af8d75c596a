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
	"sync"

	"github.com/nockrt/nockrt/noun"
)

// memoCache is a fixed-capacity LRU mapping a %memo key noun to the
// result a hint body produced for it, indexed by the key's mug rather
// than the noun itself (noun.Noun is not comparable the way a fixed-
// size byte array is), with a full structural equality check on any
// mug collision. Grounded on the teacher's intrusive doubly-linked-list
// hashCache[K]: a preallocated entry slab, an index map, and pred/succ
// pointers for LRU order, adapted from a comparable scalar key to a
// noun key that needs its own equality check.
type memoCache struct {
	entries    []memoCacheEntry
	index      map[uint32][]*memoCacheEntry
	head, tail *memoCacheEntry
	nextFree   int
	lock       sync.Mutex
}

type memoCacheEntry struct {
	idx         int // fixed slot within the owning memoCache.entries slab
	key, result noun.Noun
	valid       bool
	pred, succ  *memoCacheEntry
}

func newMemoCache(capacity int) *memoCache {
	if capacity <= 0 {
		capacity = 1
	}
	entries := make([]memoCacheEntry, capacity)
	for i := range entries {
		entries[i].idx = i
	}
	return &memoCache{
		entries: entries,
		index:   make(map[uint32][]*memoCacheEntry, capacity),
	}
}

func (m *memoCache) get(key noun.Noun) (noun.Noun, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	mug := noun.Mug(key)
	for _, e := range m.index[mug] {
		if noun.UnifyingEqual(e.key, key) {
			m.moveToFront(e)
			return e.result, true
		}
	}
	return noun.Noun{}, false
}

func (m *memoCache) put(key, result noun.Noun) {
	m.lock.Lock()
	defer m.lock.Unlock()
	mug := noun.Mug(key)
	for _, e := range m.index[mug] {
		if noun.UnifyingEqual(e.key, key) {
			e.result = result
			m.moveToFront(e)
			return
		}
	}

	entry := m.getFree()
	entry.key, entry.result, entry.valid = key, result, true
	entry.pred, entry.succ = nil, m.head
	if m.head != nil {
		m.head.pred = entry
	}
	m.head = entry
	if m.tail == nil {
		m.tail = entry
	}
	m.index[mug] = append(m.index[mug], entry)
}

func (m *memoCache) moveToFront(e *memoCacheEntry) {
	if e == m.head {
		return
	}
	if e.pred != nil {
		e.pred.succ = e.succ
	}
	if e.succ != nil {
		e.succ.pred = e.pred
	} else {
		m.tail = e.pred
	}
	e.pred = nil
	e.succ = m.head
	if m.head != nil {
		m.head.pred = e
	}
	m.head = e
}

func (m *memoCache) getFree() *memoCacheEntry {
	if m.nextFree < len(m.entries) {
		res := &m.entries[m.nextFree]
		m.nextFree++
		return res
	}
	res := m.tail
	m.evict(res)
	return res
}

func (m *memoCache) evict(e *memoCacheEntry) {
	if !e.valid {
		return
	}
	mug := noun.Mug(e.key)
	bucket := m.index[mug]
	for i, candidate := range bucket {
		if candidate == e {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(m.index, mug)
	} else {
		m.index[mug] = bucket
	}
	if e.pred != nil {
		e.pred.succ = nil
	}
	m.tail = e.pred
	if m.tail == nil {
		m.head = nil
	}
	e.valid = false
}

// clear discards every entry at once. A tail transition moves the
// effective program counter to a new formula in the same frame, so any
// %memo entry already cached is keyed against a subject/body pair that
// no longer corresponds to what is actually running; leaving it live
// would let a later, unrelated call with a colliding key read back a
// stale result.
func (m *memoCache) clear() {
	m.lock.Lock()
	defer m.lock.Unlock()
	for i := range m.entries {
		m.entries[i] = memoCacheEntry{idx: i}
	}
	m.index = make(map[uint32][]*memoCacheEntry, len(m.entries))
	m.head, m.tail = nil, nil
	m.nextFree = 0
}

// snapshot/restore support rollback: clone copies the entry slab and
// rebuilds the index and list links over the copy; the nouns themselves
// are shared, since noun.Noun is an immutable handle once built.
func (m *memoCache) clone() *memoCache {
	m.lock.Lock()
	defer m.lock.Unlock()
	c := &memoCache{
		entries:  make([]memoCacheEntry, len(m.entries)),
		index:    make(map[uint32][]*memoCacheEntry, len(m.index)),
		nextFree: m.nextFree,
	}
	copy(c.entries, m.entries)
	relink := func(e *memoCacheEntry) *memoCacheEntry {
		if e == nil {
			return nil
		}
		return &c.entries[e.idx]
	}
	for i := range c.entries {
		c.entries[i].pred = relink(m.entries[i].pred)
		c.entries[i].succ = relink(m.entries[i].succ)
	}
	c.head = relink(m.head)
	c.tail = relink(m.tail)
	for mug, bucket := range m.index {
		newBucket := make([]*memoCacheEntry, len(bucket))
		for i, e := range bucket {
			newBucket[i] = relink(e)
		}
		c.index[mug] = newBucket
	}
	return c
}
