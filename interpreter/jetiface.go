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

import "github.com/nockrt/nockrt/noun"

//go:generate go run go.uber.org/mock/mockgen -source=jetiface.go -destination=mock_jetiface_test.go -package=interpreter

// NativeFunc is a jet's native implementation of some core's battery
// arm. It is handed the subject the arm would ordinarily run against
// and returns either a result, or punt=true to ask the interpreter to
// fall through to ordinary Nock evaluation instead.
type NativeFunc func(subject noun.Noun) (result noun.Noun, punt bool, err error)

// JetTable is consulted at op-9 ComputeResult before falling through
// to ordinary Nock evaluation (spec §4.D.4). Package jets supplies the
// warm/cold-backed implementation; interpreter depends only on this
// interface so the two packages do not import one another.
type JetTable interface {
	// Lookup returns the native implementation registered for the
	// battery reachable from core at axis, whether it runs in
	// test mode (compare against Nock rather than trust outright),
	// and whether anything was found at all.
	Lookup(core noun.Noun, axis uint64) (fn NativeFunc, testMode bool, found bool)
}

// ScryStatus distinguishes the three outcomes of a namespace lookup.
type ScryStatus int

const (
	ScryResolved ScryStatus = iota
	ScryBlocked
	ScryCrashed
)

// ScryHandler resolves op 12 (`[12 r p]`) lookups against whatever
// namespace the host has wired up. A bare interpreter with no handler
// installed fails every scry with ErrScryUnsupported.
type ScryHandler interface {
	Scry(ref, path noun.Noun) (noun.Noun, ScryStatus, error)
}

// NopJets never matches anything; it lets a Context run with no jet
// acceleration at all (pure-Nock evaluation), which is always a valid,
// if slow, implementation of every jetted arm.
type NopJets struct{}

func (NopJets) Lookup(noun.Noun, uint64) (NativeFunc, bool, bool) { return nil, false, false }

// NopScry rejects every scry; suitable for formulas known not to use
// op 12, or as a safe default before a host wires in its namespace.
type NopScry struct{}

func (NopScry) Scry(noun.Noun, noun.Noun) (noun.Noun, ScryStatus, error) {
	return noun.Noun{}, ScryCrashed, ErrScryUnsupported
}
