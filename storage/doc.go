// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - backends for the stash, state and index stores
//
// two backends are provided:
//
// 1. memory: MemStash, MemState and MemIndex keep maps and snapshot
//    them when a transaction begins; rollback restores the snapshot.
//    Each can be written to, and read from, a single file:
//
//      stash.dat  state.dat  index.dat
//
//    file layout:
//
//      magic (8 bytes) ++ length (BE uint32) ++ zstd(CBOR) ++ blake3-256
//
//    the compressed body may not exceed MaxFileSize
//
// 2. LevelDB: LevelStash, LevelState and LevelIndex share one database
//    split into tables by a single byte prefix.  Each store has its
//    own batch and write cache, so a transaction on one store does not
//    commit the others
package storage
