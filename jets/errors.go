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

// ConstError is an error type that can be used to define immutable
// comparable error constants, the same shape used throughout this
// runtime's packages.
type ConstError string

func (e ConstError) Error() string { return string(e) }

const (
	// ErrMalformedChumPayload is raised when a %fast hint's payload is
	// a cell or an atom wider than 256 bits. A narrower atom is accepted
	// and truncated to a Chum's width.
	ErrMalformedChumPayload = ConstError("jets: malformed %fast chum payload")
	// ErrUnknownChum is raised when a %fast hint names a chum with no
	// matching cold registration to promote into the warm table.
	ErrUnknownChum = ConstError("jets: %fast hint names an unregistered chum")
)
