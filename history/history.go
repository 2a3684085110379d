// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package history - contract state derived from operations
//
// the lists are kept sorted so the same operations always give the
// same history whatever order they were added in
package history

import (
	"sort"

	"github.com/bitmark-inc/consignd/contract"
)

// GlobalItem - one global state value
type GlobalItem struct {
	Ord   contract.OpOrd
	Type  contract.GlobalType
	Index uint16
	Value []byte
}

// OwnedItem - one fully revealed owned state assignment
type OwnedItem struct {
	Opout   contract.Opout
	Seal    contract.Seal
	State   contract.OwnedState
	Witness contract.Txid
	Ord     contract.OpOrd
}

// ContractHistory - the known state of one contract
type ContractHistory struct {
	SchemaID   contract.SchemaID
	ContractID contract.ContractID
	Global     []GlobalItem
	Owned      []OwnedItem
	Spent      []contract.Opout
}

// New - history containing only the genesis
func New(genesis contract.Genesis) *ContractHistory {
	h := &ContractHistory{
		SchemaID:   genesis.SchemaID,
		ContractID: genesis.ContractID(),
	}
	h.AddGenesis(genesis)
	return h
}

// AddGenesis - add genesis state
func (h *ContractHistory) AddGenesis(g contract.Genesis) {
	ord := contract.OpOrd{Kind: contract.OpGenesis, OpID: g.OpID()}
	h.addOperation(g, contract.Txid{}, ord)
}

// AddExtension - add extension state
func (h *ContractHistory) AddExtension(x contract.Extension) {
	ord := contract.OpOrd{Kind: contract.OpExtension, OpID: x.OpID()}
	h.addOperation(x, contract.Txid{}, ord)
}

// AddTransition - spend the inputs and add the outputs
//
// transitions with an archived witness are ignored
func (h *ContractHistory) AddTransition(t contract.Transition, witness contract.Txid, wo contract.WitnessOrd) {
	if wo.IsArchived() {
		return
	}
	ord := contract.OpOrd{Kind: contract.OpTransition, Witness: wo, Nonce: t.Nonce, OpID: t.OpID()}
	for _, in := range t.Prevouts {
		h.spend(in)
	}
	h.addOperation(t, witness, ord)
}

func (h *ContractHistory) addOperation(op contract.Operation, witness contract.Txid, ord contract.OpOrd) {
	opid := op.OpID()

	globals := op.Globals()
	for _, t := range globals.Types() {
		for i, v := range globals[t] {
			h.addGlobal(GlobalItem{
				Ord:   ord,
				Type:  t,
				Index: uint16(i),
				Value: append([]byte(nil), v...),
			})
		}
	}

	owned := op.Owned()
	for _, t := range owned.Types() {
	outputs:
		for _, out := range owned[t].Outputs() {
			if !out.SealKnown || !out.StateKnown {
				continue outputs
			}
			seal := out.Seal
			if seal.IsWitnessRelative() {
				if witness.IsZero() {
					continue outputs
				}
				seal = seal.Resolve(witness)
			}
			h.addOwned(OwnedItem{
				Opout:   contract.Opout{Op: opid, Type: t, No: out.No},
				Seal:    seal,
				State:   out.State,
				Witness: witness,
				Ord:     ord,
			})
		}
	}
}

func (h *ContractHistory) addGlobal(item GlobalItem) {
	for i, g := range h.Global {
		if g.Ord.OpID == item.Ord.OpID && g.Type == item.Type && g.Index == item.Index {
			h.Global[i] = item
			h.sortGlobal()
			return
		}
	}
	h.Global = append(h.Global, item)
	h.sortGlobal()
}

func (h *ContractHistory) sortGlobal() {
	sort.Slice(h.Global, func(i, j int) bool {
		a, b := h.Global[i], h.Global[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if c := a.Ord.Compare(b.Ord); 0 != c {
			return c < 0
		}
		return a.Index < b.Index
	})
}

func (h *ContractHistory) addOwned(item OwnedItem) {
	n := sort.Search(len(h.Owned), func(i int) bool { return h.Owned[i].Opout.Compare(item.Opout) >= 0 })
	if n < len(h.Owned) && h.Owned[n].Opout == item.Opout {
		h.Owned[n] = item
		return
	}
	h.Owned = append(h.Owned, OwnedItem{})
	copy(h.Owned[n+1:], h.Owned[n:])
	h.Owned[n] = item
}

func (h *ContractHistory) spend(opout contract.Opout) {
	n := sort.Search(len(h.Spent), func(i int) bool { return h.Spent[i].Compare(opout) >= 0 })
	if n < len(h.Spent) && h.Spent[n] == opout {
		return
	}
	h.Spent = append(h.Spent, contract.Opout{})
	copy(h.Spent[n+1:], h.Spent[n:])
	h.Spent[n] = opout
}

// IsSpent - true if a known transition consumed the output
func (h *ContractHistory) IsSpent(opout contract.Opout) bool {
	n := sort.Search(len(h.Spent), func(i int) bool { return h.Spent[i].Compare(opout) >= 0 })
	return n < len(h.Spent) && h.Spent[n] == opout
}

// Unspent - owned state not consumed by any known transition
func (h *ContractHistory) Unspent() []OwnedItem {
	result := []OwnedItem{}
	for _, item := range h.Owned {
		if !h.IsSpent(item.Opout) {
			result = append(result, item)
		}
	}
	return result
}

// Balance - sum of unspent fungible state of one type
func (h *ContractHistory) Balance(t contract.AssignmentType) uint64 {
	total := uint64(0)
	for _, item := range h.Unspent() {
		if item.Opout.Type == t && contract.ShapeFungible == item.State.Shape {
			total += item.State.Value.Amount
		}
	}
	return total
}

// Clone - deep copy
func (h *ContractHistory) Clone() *ContractHistory {
	c := &ContractHistory{
		SchemaID:   h.SchemaID,
		ContractID: h.ContractID,
		Global:     make([]GlobalItem, len(h.Global)),
		Owned:      make([]OwnedItem, len(h.Owned)),
		Spent:      append([]contract.Opout(nil), h.Spent...),
	}
	for i, g := range h.Global {
		g.Value = append([]byte(nil), g.Value...)
		c.Global[i] = g
	}
	for i, o := range h.Owned {
		o.State.Data.Value = append([]byte(nil), o.State.Data.Value...)
		c.Owned[i] = o
	}
	return c
}
