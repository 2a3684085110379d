// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package commit

import (
	"bytes"
	"encoding/hex"

	"github.com/bitmark-inc/consignd/fault"
)

// DigestLength - number of bytes in the digest
const DigestLength = 32

// Digest - the result of a commitment hash
// to convert to bytes just use d[:]
type Digest [DigestLength]byte

// IsZero - true if every byte is zero
func (digest Digest) IsZero() bool {
	return digest == Digest{}
}

// Compare - byte order comparison, for sorting
func (digest Digest) Compare(other Digest) int {
	return bytes.Compare(digest[:], other[:])
}

// String - hex string for use by the fmt package (for %s)
func (digest Digest) String() string {
	return hex.EncodeToString(digest[:])
}

// GoString - hex string for use by the fmt package (for %#v)
func (digest Digest) GoString() string {
	return "<SHA256:" + hex.EncodeToString(digest[:]) + ">"
}

// MarshalText - convert digest to hex text
func (digest Digest) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(DigestLength))
	hex.Encode(buffer, digest[:])
	return buffer, nil
}

// UnmarshalText - convert hex text into a digest
func (digest *Digest) UnmarshalText(s []byte) error {
	if DigestLength != hex.DecodedLen(len(s)) {
		return fault.ErrInvalidIdentifierLength
	}
	buffer := make([]byte, DigestLength)
	if _, err := hex.Decode(buffer, s); nil != err {
		return err
	}
	copy(digest[:], buffer)
	return nil
}

// DigestFromBytes - convert and validate a byte slice to a digest
func DigestFromBytes(digest *Digest, buffer []byte) error {
	if DigestLength != len(buffer) {
		return fault.ErrInvalidIdentifierLength
	}
	copy(digest[:], buffer)
	return nil
}
