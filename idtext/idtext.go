// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package idtext - human readable identifiers
//
// an identifier is written as:
//
//   <prefix>:<base58 of (payload || checksum)>
//
// where checksum is the first four bytes of SHA3-256(prefix || payload),
// and the base58 string is split into chunks of eight characters
// separated by '-'
package idtext

import (
	"bytes"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/consignd/fault"
)

// sizes
const (
	PayloadLength  = 32
	checksumLength = 4
	chunkLength    = 8
	separator      = "-"
)

// the identifier prefixes
const (
	ContractPrefix    = "contract"
	ConsignmentPrefix = "consign"
	TransferPrefix    = "transfer"
	SchemaPrefix      = "schema"
	BundlePrefix      = "bundle"
)

func checksum(prefix string, payload []byte) []byte {
	digest := sha3.Sum256(append([]byte(prefix), payload...))
	return digest[:checksumLength]
}

// Encode - text form of a 32 byte identifier
func Encode(prefix string, payload [PayloadLength]byte) string {
	buffer := make([]byte, 0, PayloadLength+checksumLength)
	buffer = append(buffer, payload[:]...)
	buffer = append(buffer, checksum(prefix, payload[:])...)

	encoded := base58.Encode(buffer)

	chunks := make([]string, 0, len(encoded)/chunkLength+1)
	for len(encoded) > chunkLength {
		chunks = append(chunks, encoded[:chunkLength])
		encoded = encoded[chunkLength:]
	}
	chunks = append(chunks, encoded)

	return prefix + ":" + strings.Join(chunks, separator)
}

// Decode - parse and verify the text form of an identifier
//
// chunk separators are optional
func Decode(prefix string, text string) ([PayloadLength]byte, error) {
	payload := [PayloadLength]byte{}

	body := strings.TrimPrefix(text, prefix+":")
	if body == text {
		return payload, fault.ErrWrongIdentifierPrefix
	}

	buffer, err := base58.Decode(strings.ReplaceAll(body, separator, ""))
	if nil != err {
		return payload, fault.ErrInvalidIdentifier
	}
	if PayloadLength+checksumLength != len(buffer) {
		return payload, fault.ErrInvalidIdentifierLength
	}

	if !bytes.Equal(checksum(prefix, buffer[:PayloadLength]), buffer[PayloadLength:]) {
		return payload, fault.ErrChecksumMismatch
	}

	copy(payload[:], buffer)
	return payload, nil
}
