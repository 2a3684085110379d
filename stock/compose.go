// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stock

import (
	"errors"
	"sort"

	"github.com/bitmark-inc/consignd/consignment"
	"github.com/bitmark-inc/consignd/contract"
	"github.com/bitmark-inc/consignd/fault"
)

// ExportContract - contract consignment of everything stored for a contract
func (s *Stock) ExportContract(cid contract.ContractID) (*consignment.Contract, error) {
	c, err := newConsignment[consignment.ContractKind](s, cid)
	if nil != err {
		return nil, err
	}

	extensions, err := s.stash.ContractExtensions(cid)
	if nil != err {
		return nil, err
	}
	for _, opid := range extensions {
		x, err := s.stash.Extension(opid)
		if nil != err {
			return nil, fault.ErrStashInconsistency
		}
		if err := c.AddExtension(x); nil != err {
			return nil, err
		}
	}

	bundles, err := s.stash.ContractBundles(cid)
	if nil != err {
		return nil, err
	}
	for _, bid := range bundles {
		wb, err := s.stash.WitnessBundle(bid)
		if nil != err {
			return nil, fault.ErrStashInconsistency
		}
		if err := c.AddBundle(wb); nil != err {
			return nil, err
		}
	}

	if err := finishConsignment(s, c); nil != err {
		return nil, err
	}
	return c, nil
}

// Transfer - transfer consignment ending at outputs held by the recipient
//
// the terminals are the outputs closing over the given outpoints or
// assigned to the given secret seals, the consignment holds every
// bundle on the way back to genesis
func (s *Stock) Transfer(cid contract.ContractID, outpoints []contract.Outpoint, secrets []contract.SecretSeal) (*consignment.Transfer, error) {
	c, err := newConsignment[consignment.TransferKind](s, cid)
	if nil != err {
		return nil, err
	}

	opouts := []contract.Opout{}
	for _, outpoint := range outpoints {
		list, err := s.index.OutpointOpouts(outpoint)
		if nil != err {
			return nil, err
		}
		opouts = append(opouts, list...)
	}
	for _, secret := range secrets {
		list, err := s.index.SealOpouts(secret)
		if nil != err {
			return nil, err
		}
		opouts = append(opouts, list...)
	}

	genesisID := c.Genesis.OpID()
	pending := []contract.OpID{}
	targets := []contract.Opout{}
	for _, opout := range opouts {
		owner, err := s.index.OpContract(opout.Op)
		if nil != err || owner != cid {
			continue
		}
		targets = append(targets, opout)
		pending = append(pending, opout.Op)
	}
	if 0 == len(targets) {
		return nil, fault.ErrUnknownSeal
	}

	done := make(map[contract.OpID]struct{})
	for len(pending) > 0 {
		opid := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if _, ok := done[opid]; ok || genesisID == opid {
			continue
		}
		done[opid] = struct{}{}

		x, err := s.stash.Extension(opid)
		if nil == err {
			if err := c.AddExtension(x); nil != err {
				return nil, err
			}
			continue
		}
		if !errors.Is(err, fault.ErrUnknownOperation) {
			return nil, err
		}

		wb, t, err := s.transition(opid)
		if nil != err {
			return nil, err
		}
		if err := c.AddBundle(wb); nil != err {
			return nil, err
		}
		for _, in := range t.Prevouts {
			pending = append(pending, in.Op)
		}
	}

	for _, opout := range targets {
		bid, err := s.index.OpBundle(opout.Op)
		if nil != err {
			// genesis and extension outputs are not bundle terminals
			continue
		}
		wb, ok := c.WitnessBundle(bid)
		if !ok {
			return nil, fault.ErrIndexInconsistency
		}
		t, _ := wb.Bundle.Transition(opout.Op)
		outputs := t.Assignments[opout.Type].Outputs()
		if int(opout.No) >= len(outputs) {
			return nil, fault.ErrIndexInconsistency
		}
		c.AddTerminal(contract.NewTerminal(bid, outputs[opout.No].Secret))
	}

	if err := finishConsignment(s, c); nil != err {
		return nil, err
	}
	s.log.Infof("transfer: %s  contract: %s  terminals: %d", c.TransferID(), cid, len(c.Terminals))
	return c, nil
}

// a known transition and the anchored bundle holding it
func (s *Stock) transition(opid contract.OpID) (contract.WitnessBundle, contract.Transition, error) {
	bid, err := s.index.OpBundle(opid)
	if nil != err {
		return contract.WitnessBundle{}, contract.Transition{}, err
	}
	wb, err := s.stash.WitnessBundle(bid)
	if nil != err {
		return contract.WitnessBundle{}, contract.Transition{}, fault.ErrIndexInconsistency
	}
	t, ok := wb.Bundle.Transition(opid)
	if !ok {
		return contract.WitnessBundle{}, contract.Transition{}, fault.ErrConcealedTransition
	}
	return wb, t, nil
}

func newConsignment[K consignment.Kind](s *Stock, cid contract.ContractID) (*consignment.Consignment[K], error) {
	genesis, err := s.stash.Genesis(cid)
	if errors.Is(err, fault.ErrUnknownContract) {
		return nil, &UnknownContractError{ContractID: cid}
	}
	if nil != err {
		return nil, err
	}
	schema, err := s.stash.Schema(genesis.SchemaID)
	if nil != err {
		return nil, err
	}
	return consignment.New[K](schema, genesis), nil
}

// order the bundles and add the attachments the operations refer to
func finishConsignment[K consignment.Kind](s *Stock, c *consignment.Consignment[K]) error {
	sort.Slice(c.Bundles, func(i, j int) bool {
		return c.Bundles[i].BundleID().Compare(c.Bundles[j].BundleID()) < 0
	})

	operations := []contract.Operation{c.Genesis}
	for _, x := range c.Extensions {
		operations = append(operations, x)
	}
	for _, wb := range c.Bundles {
		for _, t := range wb.Bundle.KnownTransitions() {
			operations = append(operations, t)
		}
	}

	for _, op := range operations {
		owned := op.Owned()
		for _, t := range owned.Types() {
			for _, out := range owned[t].Outputs() {
				if !out.StateKnown || contract.ShapeAttachment != out.State.Shape {
					continue
				}
				data, err := s.stash.Attachment(out.State.Attach.ID)
				if errors.Is(err, fault.ErrUnknownAttachment) {
					continue
				}
				if nil != err {
					return err
				}
				c.AddAttachment(data)
			}
		}
	}
	return nil
}
