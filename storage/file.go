// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/bitmark-inc/consignd/codec"
	"github.com/bitmark-inc/consignd/fault"
)

// store file names
const (
	StashFile = "stash.dat"
	StateFile = "state.dat"
	IndexFile = "index.dat"
)

// MaxFileSize - ceiling on the compressed body of a store file
const MaxFileSize = 64 << 20

// file layout:
//
//   magic (8 bytes) ++ length (BE uint32) ++ zstd(CBOR) ++ blake3-256
//
// the checksum covers everything before it
var (
	stashMagic = []byte("CSGSTSH1")
	stateMagic = []byte("CSGSTAT1")
	indexMagic = []byte("CSGINDX1")
)

const (
	magicLength    = 8
	lengthLength   = 4
	checksumLength = 32
	headerLength   = magicLength + lengthLength
)

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if nil != err {
		panic("storage: zstd encoder initialisation failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil,
		zstd.WithDecoderMaxMemory(4*MaxFileSize),
	)
	if nil != err {
		panic("storage: zstd decoder initialisation failed: " + err.Error())
	}
}

// write a file via a temporary so a failure leaves the old one intact
func writeFile(filename string, magic []byte, v interface{}) error {
	body, err := codec.Marshal(v)
	if nil != err {
		return err
	}
	compressed := zstdEncoder.EncodeAll(body, nil)
	if len(compressed) > MaxFileSize {
		return fault.ErrFileTooLarge
	}

	buffer := make([]byte, 0, headerLength+len(compressed)+checksumLength)
	buffer = append(buffer, magic...)
	buffer = binary.BigEndian.AppendUint32(buffer, uint32(len(compressed)))
	buffer = append(buffer, compressed...)
	sum := blake3.Sum256(buffer)
	buffer = append(buffer, sum[:]...)

	temporary := filename + ".new"
	if err := os.WriteFile(temporary, buffer, 0600); nil != err {
		return fault.Connectivity("file write", err)
	}
	return fault.Connectivity("file write", os.Rename(temporary, filename))
}

// read and verify a file, decoding the body into v
func readFile(filename string, magic []byte, v interface{}) error {
	info, err := os.Stat(filename)
	if nil != err {
		return fault.Connectivity("file read", err)
	}
	if info.Size() > int64(headerLength+MaxFileSize+checksumLength) {
		return fault.ErrFileTooLarge
	}

	buffer, err := os.ReadFile(filename)
	if nil != err {
		return fault.Connectivity("file read", err)
	}
	if len(buffer) < headerLength+checksumLength {
		return fault.ErrTruncatedFile
	}
	if !bytes.Equal(magic, buffer[:magicLength]) {
		return fault.ErrInvalidFileHeader
	}

	n := int(binary.BigEndian.Uint32(buffer[magicLength:headerLength]))
	if n > MaxFileSize {
		return fault.ErrFileTooLarge
	}
	if headerLength+n+checksumLength != len(buffer) {
		return fault.ErrTruncatedFile
	}

	sum := blake3.Sum256(buffer[:headerLength+n])
	if !bytes.Equal(sum[:], buffer[headerLength+n:]) {
		return fault.ErrFileChecksumMismatch
	}

	body, err := zstdDecoder.DecodeAll(buffer[headerLength:headerLength+n], nil)
	if nil != err {
		return fault.ErrInvalidFileHeader
	}
	return codec.Unmarshal(body, v)
}

// FilesExist - true if all three store files are in the directory
func FilesExist(dir string) bool {
	for _, name := range []string{StashFile, StateFile, IndexFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); nil != err {
			return false
		}
	}
	return true
}
