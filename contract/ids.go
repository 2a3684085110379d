// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"bytes"
	"encoding/hex"

	"github.com/bitmark-inc/consignd/commit"
	"github.com/bitmark-inc/consignd/fault"
	"github.com/bitmark-inc/consignd/idtext"
)

// Txid - witness transaction id
// stored as little endian, printed as big endian hex
type Txid commit.Digest

// OpID - operation id
type OpID commit.Digest

// ContractID - the id of the genesis operation
type ContractID commit.Digest

// BundleID - commitment to a bundle input map
type BundleID commit.Digest

// SchemaID - commitment to a schema
type SchemaID commit.Digest

// SecretSeal - concealed seal
type SecretSeal commit.Digest

// ConcealedState - concealed state
type ConcealedState commit.Digest

// AttachID - commitment to attachment content
type AttachID commit.Digest

// IfaceID - interface identifier
type IfaceID commit.Digest

// TxidFromString - parse big endian hex
func TxidFromString(s string) (Txid, error) {
	txid := Txid{}
	if hex.EncodedLen(len(txid)) != len(s) {
		return txid, fault.ErrInvalidIdentifierLength
	}
	buffer, err := hex.DecodeString(s)
	if nil != err {
		return txid, fault.ErrInvalidIdentifier
	}
	for i, v := range buffer {
		txid[len(txid)-1-i] = v
	}
	return txid, nil
}

func (txid Txid) String() string {
	buffer := make([]byte, len(txid))
	for i, v := range txid {
		buffer[len(txid)-1-i] = v
	}
	return hex.EncodeToString(buffer)
}

func (txid Txid) IsZero() bool { return txid == Txid{} }

func (txid Txid) Compare(other Txid) int { return bytes.Compare(txid[:], other[:]) }

func (id OpID) String() string { return hex.EncodeToString(id[:]) }

func (id OpID) Compare(other OpID) int { return bytes.Compare(id[:], other[:]) }

// String - checksummed text form with "contract:" prefix
func (id ContractID) String() string { return idtext.Encode(idtext.ContractPrefix, id) }

func (id ContractID) Compare(other ContractID) int { return bytes.Compare(id[:], other[:]) }

// ParseContractID - parse the text form of a contract id
func ParseContractID(s string) (ContractID, error) {
	payload, err := idtext.Decode(idtext.ContractPrefix, s)
	return ContractID(payload), err
}

func (id BundleID) String() string { return hex.EncodeToString(id[:]) }

func (id BundleID) Compare(other BundleID) int { return bytes.Compare(id[:], other[:]) }

func (id SchemaID) String() string { return idtext.Encode(idtext.SchemaPrefix, id) }

// ParseSchemaID - parse the text form of a schema id
func ParseSchemaID(s string) (SchemaID, error) {
	payload, err := idtext.Decode(idtext.SchemaPrefix, s)
	return SchemaID(payload), err
}

func (s SecretSeal) String() string { return hex.EncodeToString(s[:]) }

func (s SecretSeal) Compare(other SecretSeal) int { return bytes.Compare(s[:], other[:]) }

func (s ConcealedState) String() string { return hex.EncodeToString(s[:]) }

func (id AttachID) String() string { return hex.EncodeToString(id[:]) }

func (id AttachID) Compare(other AttachID) int { return bytes.Compare(id[:], other[:]) }

// AttachIDFromData - commitment to attachment content
func AttachIDFromData(data []byte) AttachID {
	return AttachID(commit.TagAttachment.Sum(data))
}
