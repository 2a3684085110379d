// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract_test

import (
	"github.com/bitmark-inc/consignd/contract"
)

const (
	assetOwner  = contract.AssignmentType(4000)
	assetRights = contract.AssignmentType(4001)
	assetTicker = contract.GlobalType(2000)
	transferTy  = uint16(10000)
)

func testTxid(b byte) contract.Txid {
	t := contract.Txid{}
	t[0] = b
	t[31] = 0xee
	return t
}

func testSeal(vout uint32) contract.Seal {
	return contract.NewSeal(testTxid(1), vout, 0x1000+uint64(vout))
}

func testValue(amount uint64) contract.RevealedValue {
	return contract.RevealedValue{Amount: amount, Blinding: [32]byte{byte(amount), 0x55}}
}

func testSchema() contract.Schema {
	return contract.Schema{
		Name:        "test-asset",
		GlobalTypes: []contract.GlobalType{assetTicker},
		OwnedTypes: map[contract.AssignmentType]contract.StateShape{
			assetOwner:  contract.ShapeFungible,
			assetRights: contract.ShapeDeclarative,
		},
		TransitionTypes: []uint16{transferTy},
	}
}

func testGenesis() contract.Genesis {
	return contract.Genesis{
		SchemaID:  testSchema().SchemaID(),
		Timestamp: 1600000000,
		GlobalState: contract.GlobalState{
			assetTicker: [][]byte{[]byte("TST")},
		},
		Assignments: contract.Assignments{
			assetOwner: contract.FungibleAssigns(
				contract.RevealedAssign(testSeal(0), testValue(1000)),
			),
		},
	}
}

// transition spending the genesis output to the given seals
func testTransition(contractID contract.ContractID, prev contract.OpID, nonce uint64, seals ...contract.Seal) contract.Transition {
	list := make([]contract.Assign[contract.RevealedValue], len(seals))
	for i, s := range seals {
		list[i] = contract.RevealedAssign(s, testValue(uint64(100*(i+1))))
	}
	return contract.Transition{
		Contract:       contractID,
		TransitionType: transferTy,
		Nonce:          nonce,
		Prevouts:       []contract.Opout{{Op: prev, Type: assetOwner, No: 0}},
		Assignments: contract.Assignments{
			assetOwner: contract.FungibleAssigns(list...),
		},
	}
}
