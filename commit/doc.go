// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package commit - domain separated commitment hashing
//
// every identifier in a consignment is a tagged SHA-256 hash:
//
//   SHA256(SHA256(tag) || SHA256(tag) || message)
//
// the first block is the same for every message with a given tag, so
// the hasher state after that block (the midstate) is computed once
// when the package loads and each new hash starts from it
//
// messages are built with an Encoder which writes fixed width little
// endian integers and Varint64 length prefixes
package commit
