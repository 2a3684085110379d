// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package commit

import (
	"crypto/sha256"
	"encoding"
	"hash"

	"github.com/bitmark-inc/consignd/fault"
)

// offset of the eight state words in a marshalled SHA-256 hasher,
// following the four byte magic
const (
	stateStart = 4
	stateEnd   = stateStart + DigestLength
)

// Tag - a hashing domain with its precomputed midstate
type Tag struct {
	name  string
	state []byte
}

// the protocol tags
var (
	TagAnchor      = NewTag("urn:consignd:anchor#v1")
	TagAttachment  = NewTag("urn:consignd:attachment#v1")
	TagBundle      = NewTag("urn:consignd:bundle#v1")
	TagConsignment = NewTag("urn:consignd:consignment#v1")
	TagOperation   = NewTag("urn:consignd:operation#v1")
	TagSchema      = NewTag("urn:consignd:schema#v1")
	TagSeal        = NewTag("urn:consignd:seal#v1")
	TagState       = NewTag("urn:consignd:state#v1")
)

// NewTag - absorb the doubled tag hash and keep the hasher state
func NewTag(name string) Tag {
	t := sha256.Sum256([]byte(name))

	h := sha256.New()
	h.Write(t[:])
	h.Write(t[:])

	state, err := h.(encoding.BinaryMarshaler).MarshalBinary()
	fault.PanicIfError("commit: marshal midstate for "+name, err)

	return Tag{
		name:  name,
		state: state,
	}
}

// Name - the tag string
func (t Tag) Name() string {
	return t.name
}

// Midstate - the eight SHA-256 state words after the tag block
func (t Tag) Midstate() [DigestLength]byte {
	var m [DigestLength]byte
	copy(m[:], t.state[stateStart:stateEnd])
	return m
}

// Hasher - a SHA-256 hasher that has already absorbed the tag block
func (t Tag) Hasher() hash.Hash {
	h := sha256.New()
	err := h.(encoding.BinaryUnmarshaler).UnmarshalBinary(t.state)
	fault.PanicIfError("commit: restore midstate for "+t.name, err)
	return h
}

// Sum - tagged hash of a complete message
func (t Tag) Sum(message []byte) Digest {
	h := t.Hasher()
	h.Write(message)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Encoder - start a new commitment in this domain
func (t Tag) Encoder() *Encoder {
	return &Encoder{
		h: t.Hasher(),
	}
}
