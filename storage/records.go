// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"sort"

	"github.com/bitmark-inc/consignd/contract"
	"github.com/bitmark-inc/consignd/history"
)

// stored form of an anchored bundle
type bundleRecord struct {
	Contract contract.ContractID
	Bundle   contract.WitnessBundle
}

type attachmentRecord struct {
	ID   contract.AttachID
	Data []byte
}

// file bodies, every list sorted by id
type stashFile struct {
	Schemata    []contract.Schema
	Geneses     []contract.Genesis
	Bundles     []bundleRecord
	Extensions  []contract.Extension
	Attachments []attachmentRecord
	Seals       []contract.Seal
}

type stateFile struct {
	Histories []*history.ContractHistory
}

type opBundleRecord struct {
	Op     contract.OpID
	Bundle contract.BundleID
}

type opContractRecord struct {
	Op       contract.OpID
	Contract contract.ContractID
}

type bundleContractRecord struct {
	Bundle   contract.BundleID
	Contract contract.ContractID
}

type sealRecord struct {
	Seal   contract.SecretSeal
	Opouts []contract.Opout
}

type outpointRecord struct {
	Outpoint contract.Outpoint
	Opouts   []contract.Opout
}

type indexFile struct {
	OpBundles       []opBundleRecord
	OpContracts     []opContractRecord
	BundleContracts []bundleContractRecord
	Seals           []sealRecord
	Outpoints       []outpointRecord
}

// opout key:  opid ++ type (BE uint16) ++ number (BE uint16)
const opoutKeyLength = 32 + 2 + 2

func opoutKey(o contract.Opout) []byte {
	key := make([]byte, opoutKeyLength)
	copy(key, o.Op[:])
	binary.BigEndian.PutUint16(key[32:], uint16(o.Type))
	binary.BigEndian.PutUint16(key[34:], o.No)
	return key
}

func opoutFromKey(key []byte) (contract.Opout, bool) {
	if opoutKeyLength != len(key) {
		return contract.Opout{}, false
	}
	o := contract.Opout{
		Type: contract.AssignmentType(binary.BigEndian.Uint16(key[32:])),
		No:   binary.BigEndian.Uint16(key[34:]),
	}
	copy(o.Op[:], key[:32])
	return o, true
}

// outpoint key:  txid ++ vout (BE uint32)
func outpointKey(o contract.Outpoint) []byte {
	key := make([]byte, 32+4)
	copy(key, o.Txid[:])
	binary.BigEndian.PutUint32(key[32:], o.Vout)
	return key
}

// add to a sorted opout set
func insertOpout(list []contract.Opout, o contract.Opout) []contract.Opout {
	n := sort.Search(len(list), func(i int) bool { return list[i].Compare(o) >= 0 })
	if n < len(list) && list[n] == o {
		return list
	}
	list = append(list, contract.Opout{})
	copy(list[n+1:], list[n:])
	list[n] = o
	return list
}
