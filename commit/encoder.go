// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package commit

import (
	"encoding/binary"
	"hash"

	"github.com/bitmark-inc/consignd/util"
)

// Encoder - deterministic writer feeding a tagged hasher
type Encoder struct {
	h       hash.Hash
	scratch [util.Varint64MaximumBytes]byte
}

func (e *Encoder) WriteU8(v uint8) {
	e.scratch[0] = v
	e.h.Write(e.scratch[:1])
}

func (e *Encoder) WriteBool(v bool) {
	if v {
		e.WriteU8(1)
	} else {
		e.WriteU8(0)
	}
}

func (e *Encoder) WriteU16(v uint16) {
	binary.LittleEndian.PutUint16(e.scratch[:2], v)
	e.h.Write(e.scratch[:2])
}

func (e *Encoder) WriteU32(v uint32) {
	binary.LittleEndian.PutUint32(e.scratch[:4], v)
	e.h.Write(e.scratch[:4])
}

func (e *Encoder) WriteU64(v uint64) {
	binary.LittleEndian.PutUint64(e.scratch[:8], v)
	e.h.Write(e.scratch[:8])
}

func (e *Encoder) WriteI64(v int64) {
	e.WriteU64(uint64(v))
}

// WriteLen - a Varint64 count, used before every variable length item
func (e *Encoder) WriteLen(n int) {
	e.h.Write(util.AppendVarint64(e.scratch[:0], uint64(n)))
}

func (e *Encoder) WriteBytes(b []byte) {
	e.WriteLen(len(b))
	e.h.Write(b)
}

func (e *Encoder) WriteString(s string) {
	e.WriteBytes([]byte(s))
}

// WriteDigest - raw 32 bytes, no length prefix
func (e *Encoder) WriteDigest(d [DigestLength]byte) {
	e.h.Write(d[:])
}

// Sum - finish the commitment
func (e *Encoder) Sum() Digest {
	var d Digest
	copy(d[:], e.h.Sum(nil))
	return d
}
