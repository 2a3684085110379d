// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - builders of test contracts and consignments
package fixtures

import (
	"encoding/binary"

	"github.com/bitmark-inc/consignd/consignment"
	"github.com/bitmark-inc/consignd/contract"
	"github.com/bitmark-inc/consignd/resolver"
)

// schema types of the test asset
const (
	OwnerType     = contract.AssignmentType(4000)
	RightsType    = contract.AssignmentType(4001)
	TickerType    = contract.GlobalType(2000)
	NameType      = contract.GlobalType(2001)
	TransferType  = uint16(10000)
	ExtensionType = uint16(20000)
)

// Schema - a fungible asset schema
func Schema() contract.Schema {
	return contract.Schema{
		Name:        "fixture-asset",
		GlobalTypes: []contract.GlobalType{TickerType, NameType},
		OwnedTypes: map[contract.AssignmentType]contract.StateShape{
			OwnerType:  contract.ShapeFungible,
			RightsType: contract.ShapeDeclarative,
		},
		TransitionTypes: []uint16{TransferType},
		ExtensionTypes:  []uint16{ExtensionType},
	}
}

// Txid - a recognisable txid
func Txid(b byte) contract.Txid {
	t := contract.Txid{}
	for i := range t {
		t[i] = b
	}
	return t
}

// Seal - seal over an output of a fixed funding transaction
func Seal(vout uint32, blinding uint64) contract.Seal {
	return contract.NewSeal(Txid(0xaa), vout, blinding)
}

// Value - fungible state with a blinding derived from the amount
func Value(amount uint64) contract.RevealedValue {
	v := contract.RevealedValue{Amount: amount}
	binary.LittleEndian.PutUint64(v.Blinding[:], amount^0x5a5a5a5a)
	return v
}

// Output - one output of a transfer
type Output struct {
	Seal    contract.Seal
	Amount  uint64
	Conceal bool
}

func (o Output) assign() contract.Assign[contract.RevealedValue] {
	if o.Conceal {
		return contract.ConfidentialSealAssign(o.Seal.Conceal(), Value(o.Amount))
	}
	return contract.RevealedAssign(o.Seal, Value(o.Amount))
}

// Asset - a contract and the state needed to extend it
type Asset struct {
	Schema  contract.Schema
	Genesis contract.Genesis
	Issue   contract.Seal
	height  uint32
}

// NewAsset - genesis issuing the supply to one seal
func NewAsset(supply uint64) *Asset {
	schema := Schema()
	issue := Seal(0, 1)
	return &Asset{
		Schema: schema,
		Issue:  issue,
		Genesis: contract.Genesis{
			SchemaID:  schema.SchemaID(),
			Timestamp: 1600000000,
			GlobalState: contract.GlobalState{
				TickerType: [][]byte{[]byte("FIX")},
				NameType:   [][]byte{[]byte("Fixture Token")},
			},
			Assignments: contract.Assignments{
				OwnerType: contract.FungibleAssigns(contract.RevealedAssign(issue, Value(supply))),
			},
		},
		height: 100,
	}
}

// ContractID - id of the asset
func (a *Asset) ContractID() contract.ContractID {
	return a.Genesis.ContractID()
}

// IssueOpout - the genesis output holding the supply
func (a *Asset) IssueOpout() contract.Opout {
	return contract.Opout{Op: a.Genesis.OpID(), Type: OwnerType, No: 0}
}

// Step - one anchored transition
type Step struct {
	Transition contract.Transition
	Bundle     contract.WitnessBundle
	Ord        contract.WitnessOrd
}

// Opout - an output of the step's transition
func (s Step) Opout(no uint16) contract.Opout {
	return contract.Opout{Op: s.Transition.OpID(), Type: OwnerType, No: no}
}

// Terminal - terminal entry for some of the step's seals
func (s Step) Terminal(seals ...contract.Seal) contract.Terminal {
	secrets := make([]contract.SecretSeal, len(seals))
	for i, seal := range seals {
		secrets[i] = seal.Conceal()
	}
	return contract.NewTerminal(s.Bundle.BundleID(), secrets...)
}

// Spend - transition spending one output, anchored in a new witness
func (a *Asset) Spend(prev contract.Opout, nonce uint64, outputs ...Output) Step {
	list := make([]contract.Assign[contract.RevealedValue], len(outputs))
	for i, o := range outputs {
		list[i] = o.assign()
	}
	t := contract.Transition{
		Contract:       a.ContractID(),
		TransitionType: TransferType,
		Nonce:          nonce,
		Prevouts:       []contract.Opout{prev},
		Assignments: contract.Assignments{
			OwnerType: contract.FungibleAssigns(list...),
		},
	}
	opid := t.OpID()

	bundle, err := contract.NewTransitionBundle(map[contract.Vin]contract.OpID{0: opid}, t)
	if nil != err {
		panic(err)
	}
	anchor := contract.NewAnchor(contract.OpretFirst, a.ContractID(), bundle.BundleID())
	commitment := anchor.Commitment()

	tx := []byte("witness:")
	tx = append(tx, opid[:]...)
	tx = append(tx, commitment[:]...)

	a.height += 1
	return Step{
		Transition: t,
		Bundle: contract.WitnessBundle{
			Witness: contract.NewPubWitness(tx),
			Anchor:  anchor,
			Bundle:  bundle,
		},
		Ord: contract.MinedOrd(a.height, 1600000000+int64(a.height)*600),
	}
}

// Resolver - static resolver knowing the witnesses of the steps
func Resolver(steps ...Step) *resolver.Static {
	r := resolver.NewStatic()
	for _, s := range steps {
		r.Add(s.Bundle.Witness, s.Ord)
	}
	return r
}

// Consignment - consignment of the asset carrying the steps' bundles
func Consignment[K consignment.Kind](a *Asset, terminals []contract.Terminal, steps ...Step) *consignment.Consignment[K] {
	c := consignment.New[K](a.Schema, a.Genesis.Clone())
	for _, s := range steps {
		if err := c.AddBundle(s.Bundle.Clone()); nil != err {
			panic(err)
		}
	}
	for _, term := range terminals {
		c.AddTerminal(term)
	}
	return c
}
