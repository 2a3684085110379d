// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package contract - operations, assignments and bundles
//
// every owned state assignment is held in one of four forms depending
// on how much of it the holder has been shown:
//
//   Revealed           seal and state in plaintext
//   Confidential       seal and state both concealed
//   ConfidentialSeal   seal concealed, state in plaintext
//   ConfidentialState  seal in plaintext, state concealed
//
// identifiers commit only to the concealed form, so revealing or
// concealing data never changes an identifier.  Two copies of the same
// object may be merged; the result holds whatever either copy revealed.
package contract
