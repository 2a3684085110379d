// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package idtext_test

import (
	"strings"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/consignd/fault"
	"github.com/bitmark-inc/consignd/idtext"
)

var payload = [idtext.PayloadLength]byte{
	0x5a, 0x26, 0xb8, 0xb4, 0x30, 0xda, 0x23, 0x2e,
	0xf6, 0x22, 0x4e, 0xb6, 0x2d, 0x2b, 0x4a, 0xae,
	0xe7, 0xe8, 0x57, 0x19, 0xfd, 0x40, 0x0f, 0x2a,
	0x02, 0xb1, 0x68, 0xcf, 0x42, 0xb9, 0x8d, 0x99,
}

func TestRoundTrip(t *testing.T) {
	for _, prefix := range []string{idtext.ContractPrefix, idtext.ConsignmentPrefix, idtext.TransferPrefix} {
		text := idtext.Encode(prefix, payload)
		assert.True(t, strings.HasPrefix(text, prefix+":"), "missing prefix: %s", text)

		chunks := strings.Split(strings.TrimPrefix(text, prefix+":"), "-")
		assert.True(t, len(chunks) > 1, "not chunked: %s", text)
		for _, c := range chunks[:len(chunks)-1] {
			assert.Equal(t, 8, len(c), "wrong chunk size: %s", text)
		}

		decoded, err := idtext.Decode(prefix, text)
		assert.Nil(t, err, "decode: %s", text)
		assert.Equal(t, payload, decoded, "wrong payload: %s", text)

		// separators are optional
		decoded, err = idtext.Decode(prefix, strings.ReplaceAll(text, "-", ""))
		assert.Nil(t, err, "decode without separators: %s", text)
		assert.Equal(t, payload, decoded, "wrong payload without separators")
	}
}

func TestWrongPrefix(t *testing.T) {
	text := idtext.Encode(idtext.ConsignmentPrefix, payload)
	_, err := idtext.Decode(idtext.TransferPrefix, text)
	assert.Equal(t, fault.ErrWrongIdentifierPrefix, err, "wrong prefix accepted")

	// the prefix is part of the checksum
	swapped := idtext.TransferPrefix + strings.TrimPrefix(text, idtext.ConsignmentPrefix)
	_, err = idtext.Decode(idtext.TransferPrefix, swapped)
	assert.Equal(t, fault.ErrChecksumMismatch, err, "prefix swap accepted")
}

func TestBadChecksum(t *testing.T) {
	buffer := append(append([]byte{}, payload[:]...), 0, 0, 0, 0)
	text := idtext.ContractPrefix + ":" + base58.Encode(buffer)
	_, err := idtext.Decode(idtext.ContractPrefix, text)
	assert.Equal(t, fault.ErrChecksumMismatch, err, "bad checksum accepted")
}

func TestMalformed(t *testing.T) {
	_, err := idtext.Decode(idtext.ContractPrefix, "contract:0OIl")
	assert.Equal(t, fault.ErrInvalidIdentifier, err, "non base58 accepted")

	_, err = idtext.Decode(idtext.ContractPrefix, "contract:"+base58.Encode([]byte{1, 2, 3}))
	assert.Equal(t, fault.ErrInvalidIdentifierLength, err, "short identifier accepted")
}
