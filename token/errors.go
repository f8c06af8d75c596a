// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package token

// ConstError is an error type that can be used to define immutable
// comparable error constants, the same shape used throughout this
// runtime's packages.
type ConstError string

func (e ConstError) Error() string { return string(e) }

// ErrInterrupted is returned by Enter when the token is already in the
// cancelling region: the caller must report a non-deterministic
// interrupt instead of starting an interpretation.
const ErrInterrupted = ConstError("token: interpretation interrupted before entry")
