// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package serf

// ConstError mirrors the interpreter package's sentinel error style:
// a string constant that implements error without allocating.
type ConstError string

func (e ConstError) Error() string { return string(e) }

const (
	// ErrPeekUnresolved is returned by Peek when the scry handler
	// neither resolved nor crashed but left the lookup blocked on
	// data the host has not supplied yet.
	ErrPeekUnresolved = ConstError("serf: peek path did not resolve")

	// ErrKernelNotLoaded is returned by Apply when called before Load.
	ErrKernelNotLoaded = ConstError("serf: kernel core not loaded")
)
