// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package commit_test

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/consignd/commit"
)

// any change to a tag name or to the midstate derivation alters every
// identifier, so the midstates are pinned here
func TestMidstates(t *testing.T) {
	pinned := []struct {
		tag      commit.Tag
		midstate string
	}{
		{commit.TagAnchor, "0227391fff5efaff7e7ed0db495d549c596f5ce3725272a82d52f3ab0cdc726e"},
		{commit.TagAttachment, "f666e5bc2e32a60ee2b74d4649f9e81e8c643015984a45c915bcde16485b239d"},
		{commit.TagBundle, "cf0d1ef6ca35414a3889ce35926b8af89d51884f1049731e646631c29612c9ba"},
		{commit.TagConsignment, "f73af4ee6bf0cfd811a982b51a2b9cd185b8ea40fe26128ea62d3ef6f6ba19de"},
		{commit.TagOperation, "71262919a005c02975f54b8a9618cc5efd9d1e386ed07dc8f2002b0b5ae365be"},
		{commit.TagSchema, "0538ce599381870216f93b41baf8cfd2bec2e9cf1e5ce67da041df123ac0f04d"},
		{commit.TagSeal, "caca6c47f7f7cd6177fe70797ff6fc03f05c094e2221f0d68ac5ddde2214d09a"},
		{commit.TagState, "709892e0c7714254ad30a8fd926d4a4a04ebb1802bc4d88cc7debb65cac23d8f"},
	}

	for _, item := range pinned {
		m := item.tag.Midstate()
		assert.Equal(t, item.midstate, hex.EncodeToString(m[:]), "midstate changed for: %s", item.tag.Name())
	}
}

func TestTaggedHash(t *testing.T) {
	tag := commit.TagOperation

	assert.Equal(t, "5a26b8b430da232ef6224eb62d2b4aaee7e85719fd400f2a02b168cf42b98d99", tag.Sum(nil).String(), "empty message")
	assert.Equal(t, "61a7b7355d662f4331dedb5e16c2a216420aa1c502e29f1f8ea60480c8f07a09", tag.Sum([]byte("abc")).String(), "abc message")

	// same as hashing the doubled tag directly
	th := sha256.Sum256([]byte(tag.Name()))
	direct := sha256.Sum256(append(append(append([]byte{}, th[:]...), th[:]...), "abc"...))
	assert.Equal(t, direct, [32]byte(tag.Sum([]byte("abc"))), "midstate path differs from direct hash")
}

func TestHasherIsFresh(t *testing.T) {
	tag := commit.TagSeal
	h1 := tag.Hasher()
	h1.Write([]byte("first"))
	h2 := tag.Hasher()
	empty := tag.Sum(nil)
	assert.Equal(t, empty[:], h2.Sum(nil), "hasher shares state")
}

func TestEncoder(t *testing.T) {
	e := commit.TagState.Encoder()
	e.WriteU8(1)
	e.WriteU16(0x0302)
	e.WriteU32(0x07060504)
	e.WriteBool(true)
	e.WriteBytes([]byte{0xaa, 0xbb})
	e.WriteDigest(commit.Digest{0x11})

	message := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x01, 0x02, 0xaa, 0xbb, 0x11}
	message = append(message, make([]byte, 31)...)

	assert.Equal(t, commit.TagState.Sum(message), e.Sum(), "wrong encoding")
}

func TestDigestText(t *testing.T) {
	d := commit.TagSchema.Sum([]byte("text"))
	text, err := d.MarshalText()
	assert.Nil(t, err, "marshal")

	var back commit.Digest
	assert.Nil(t, back.UnmarshalText(text), "unmarshal")
	assert.Equal(t, d, back, "text round trip")
	assert.NotNil(t, back.UnmarshalText(text[2:]), "short text accepted")

	assert.True(t, commit.Digest{}.IsZero(), "zero digest")
	assert.False(t, d.IsZero(), "non-zero digest")
}
