// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package noun

// Mug computes (and, for heap-resident objects, caches) the 31-bit
// advisory hash of n. It is folded FNV-1a, per spec §6.3: "a defined
// folded FNV-like scheme". The mug is only ever used to short-circuit
// equality checks and as a cache/jet-table key; it carries no semantic
// weight of its own.
func Mug(n Noun) uint32 {
	if m, ok := cachedMug(n); ok {
		return m
	}
	r := n.resolve()
	var m uint32
	if r.k == KindAtom {
		v, _ := r.AsBigInt()
		m = mugBytes(v.Bytes())
	} else {
		h, _ := r.Head()
		t, _ := r.Tail()
		m = mugFold(Mug(h), Mug(t))
	}
	storeMug(r, m)
	return m
}

func cachedMug(n Noun) (uint32, bool) {
	r := n.resolve()
	switch {
	case r.c != nil:
		if r.c.mugValid {
			return r.c.mug, true
		}
	case r.big != nil:
		if r.big.mugValid {
			return r.big.mug, true
		}
	default:
		// Direct atoms are cheap enough to recompute; no cache slot
		// exists for them.
	}
	return 0, false
}

func storeMug(n Noun, m uint32) {
	switch {
	case n.c != nil:
		n.c.mug, n.c.mugValid = m, true
	case n.big != nil:
		n.big.mug, n.big.mugValid = m, true
	}
}

// mugBytes is the 31-bit FNV-1a fold over a byte string.
func mugBytes(data []byte) uint32 {
	const (
		offset = 2166136261
		prime  = 16777619
		mask   = 1<<31 - 1
	)
	h := uint32(offset)
	for _, b := range data {
		h ^= uint32(b)
		h *= prime
	}
	h &= mask
	if h == 0 {
		// 0 is reserved to mean "uncomputed" in some callers; fold to
		// a fixed non-zero value instead of ever returning it.
		h = 1
	}
	return h
}

// mugFold combines two child mugs into a parent mug using the same
// FNV-1a fold applied to their big-endian byte representation.
func mugFold(a, b uint32) uint32 {
	buf := [8]byte{
		byte(a >> 24), byte(a >> 16), byte(a >> 8), byte(a),
		byte(b >> 24), byte(b >> 16), byte(b >> 8), byte(b),
	}
	return mugBytes(buf[:])
}
