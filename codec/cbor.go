// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package codec - canonical binary serialisation
//
// all records, in consignments and in the store files, are CBOR using
// Core Deterministic Encoding so the same value always produces the
// same bytes
package codec

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

var encMode cbor.EncMode
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if nil != err {
		panic("codec: CBOR encoder initialisation failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		MaxArrayElements: 1 << 20,
		MaxMapPairs:      1 << 20,
	}.DecMode()
	if nil != err {
		panic("codec: CBOR decoder initialisation failed: " + err.Error())
	}
}

// Marshal - encode using Core Deterministic Encoding
func Marshal(v interface{}) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal - decode CBOR data into v
func Unmarshal(data []byte, v interface{}) error {
	return decMode.Unmarshal(data, v)
}

// Encoder - stream encoder
type Encoder = cbor.Encoder

// Decoder - stream decoder
type Decoder = cbor.Decoder

// NewEncoder - stream encoder writing deterministic CBOR to w
func NewEncoder(w io.Writer) *Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder - stream decoder reading from r
func NewDecoder(r io.Reader) *Decoder {
	return decMode.NewDecoder(r)
}
