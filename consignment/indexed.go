// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consignment

import (
	"github.com/bitmark-inc/consignd/contract"
	"github.com/bitmark-inc/consignd/validation"
)

// Indexed - read only view with operation lookups
type Indexed[K Kind] struct {
	c         *Consignment[K]
	opWitness map[contract.OpID]contract.Txid
	opBundle  map[contract.OpID]contract.BundleID
}

var _ validation.ConsignmentAPI = (*Indexed[TransferKind])(nil)

// NewIndexed - index the transitions of a consignment
func NewIndexed[K Kind](c *Consignment[K]) *Indexed[K] {
	ix := &Indexed[K]{
		c:         c,
		opWitness: make(map[contract.OpID]contract.Txid),
		opBundle:  make(map[contract.OpID]contract.BundleID),
	}
	for _, wb := range c.Bundles {
		bid := wb.BundleID()
		for _, opid := range wb.Bundle.OpIDs() {
			ix.opWitness[opid] = wb.WitnessID()
			ix.opBundle[opid] = bid
		}
	}
	return ix
}

func (ix *Indexed[K]) ContractID() contract.ContractID { return ix.c.ContractID() }
func (ix *Indexed[K]) Schema() contract.Schema         { return ix.c.Schema }
func (ix *Indexed[K]) Genesis() contract.Genesis       { return ix.c.Genesis }

func (ix *Indexed[K]) WitnessBundles() []contract.WitnessBundle { return ix.c.Bundles }
func (ix *Indexed[K]) Extensions() []contract.Extension         { return ix.c.Extensions }
func (ix *Indexed[K]) Terminals() []contract.Terminal           { return ix.c.Terminals }
func (ix *Indexed[K]) Signatures() []contract.ContentSignature  { return ix.c.Signatures }

func (ix *Indexed[K]) Attachments() map[contract.AttachID][]byte {
	m := make(map[contract.AttachID][]byte, len(ix.c.Attachments))
	for _, a := range ix.c.Attachments {
		m[a.ID] = a.Data
	}
	return m
}

func (ix *Indexed[K]) Operation(opid contract.OpID) (contract.Operation, bool) {
	return ix.c.Operation(opid)
}

// OpWitnessID - witness of the bundle whose input map names the operation
func (ix *Indexed[K]) OpWitnessID(opid contract.OpID) (contract.Txid, bool) {
	txid, ok := ix.opWitness[opid]
	return txid, ok
}

// OpBundleID - bundle whose input map names the operation
func (ix *Indexed[K]) OpBundleID(opid contract.OpID) (contract.BundleID, bool) {
	bid, ok := ix.opBundle[opid]
	return bid, ok
}
