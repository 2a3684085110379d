// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stock

import (
	"errors"

	"github.com/bitmark-inc/consignd/consignment"
	"github.com/bitmark-inc/consignd/contract"
	"github.com/bitmark-inc/consignd/fault"
	"github.com/bitmark-inc/consignd/history"
	"github.com/bitmark-inc/consignd/resolver"
	"github.com/bitmark-inc/consignd/validation"
)

// ImportContract - store a validated contract consignment
func (s *Stock) ImportContract(v *consignment.Valid[consignment.ContractKind], r resolver.WitnessResolver) (validation.Status, error) {
	return consume(s, v, r)
}

// AcceptTransfer - store a validated transfer consignment
//
// seals of the terminals that were stored with StoreSecretSeal are
// revealed before the content is merged into the stash
func (s *Stock) AcceptTransfer(v *consignment.Valid[consignment.TransferKind], r resolver.WitnessResolver) (validation.Status, error) {
	return consume(s, v, r)
}

func consume[K consignment.Kind](s *Stock, v *consignment.Valid[K], r resolver.WitnessResolver) (validation.Status, error) {
	status := v.Status()
	c := v.Consignment().Clone()
	id := c.ID()
	cid := c.ContractID()

	revealed, err := revealSecrets(s, c)
	if nil != err {
		return status, err
	}

	err = s.transaction(func() error {
		if err := mergeStash(s, c); nil != err {
			return err
		}
		err := s.CreateOrUpdateState(cid, func(h *history.ContractHistory) (*history.ContractHistory, error) {
			if nil == h {
				h = history.New(c.Genesis)
			}
			return h, c.UpdateHistory(h, c.WitnessResolver(r))
		})
		if nil != err {
			return err
		}
		return indexConsignment(s, c)
	})
	if nil != err {
		s.log.Warnf("consignment: %s  rejected: %s", id, err)
		return status, err
	}

	s.log.Infof("consignment: %s  contract: %s  bundles: %d  revealed: %d", id, cid, len(c.Bundles), revealed)
	return status, nil
}

// reveal every terminal seal whose plaintext is in the stash
func revealSecrets[K consignment.Kind](s *Stock, c *consignment.Consignment[K]) (int, error) {
	n := 0
	for _, t := range c.Terminals {
		for _, secret := range t.Seals {
			seal, err := s.stash.SecretSeal(secret)
			if errors.Is(err, fault.ErrUnknownSeal) {
				continue
			}
			if nil != err {
				return n, err
			}
			n += c.RevealBundleSeal(t.Bundle, seal)
		}
	}
	return n, nil
}

// merge the consignment with the stash copies and write the result
//
// the merged content is left in c so state and index see everything
// known about each operation
func mergeStash[K consignment.Kind](s *Stock, c *consignment.Consignment[K]) error {
	cid := c.ContractID()

	if err := s.stash.PutSchema(c.Schema); nil != err {
		return err
	}

	existing, err := s.stash.Genesis(cid)
	switch {
	case nil == err:
		merged, err := existing.MergeReveal(c.Genesis)
		if nil != err {
			return err
		}
		c.Genesis = merged
	case !errors.Is(err, fault.ErrUnknownContract):
		return err
	}
	if err := s.stash.PutGenesis(c.Genesis); nil != err {
		return err
	}

	for i, x := range c.Extensions {
		merged, err := mergeExtension(s, x)
		if nil != err {
			return err
		}
		c.Extensions[i] = merged
		if err := s.stash.PutExtension(merged); nil != err {
			return err
		}
	}

	for i, wb := range c.Bundles {
		merged, err := mergeBundle(s, cid, wb)
		if nil != err {
			return err
		}
		c.Bundles[i] = merged
		if err := s.stash.PutWitnessBundle(cid, merged); nil != err {
			return err
		}
	}

	for _, a := range c.Attachments {
		if err := s.stash.PutAttachment(a.ID, a.Data); nil != err {
			return err
		}
	}
	return nil
}

func mergeExtension(s *Stock, x contract.Extension) (contract.Extension, error) {
	existing, err := s.stash.Extension(x.OpID())
	if errors.Is(err, fault.ErrUnknownOperation) {
		return x, nil
	}
	if nil != err {
		return x, err
	}
	return existing.MergeReveal(x)
}

// merge an anchored bundle with the stash copy, which must belong to
// the same contract
func mergeBundle(s *Stock, cid contract.ContractID, wb contract.WitnessBundle) (contract.WitnessBundle, error) {
	bid := wb.BundleID()
	existing, err := s.stash.WitnessBundle(bid)
	if errors.Is(err, fault.ErrUnknownBundle) {
		return wb, nil
	}
	if nil != err {
		return wb, err
	}

	owner, err := s.index.BundleContract(bid)
	if nil == err && owner != cid {
		return wb, fault.ErrContractMismatch
	}
	return existing.MergeReveal(wb)
}

// index every operation of a consignment
func indexConsignment[K consignment.Kind](s *Stock, c *consignment.Consignment[K]) error {
	cid := c.ContractID()
	if err := s.index.IndexOperation(c.Genesis.OpID(), cid); nil != err {
		return err
	}
	if err := indexOutputs(s.index, c.Genesis, contract.Txid{}); nil != err {
		return err
	}
	for _, x := range c.Extensions {
		if err := s.index.IndexOperation(x.OpID(), cid); nil != err {
			return err
		}
		if err := indexOutputs(s.index, x, contract.Txid{}); nil != err {
			return err
		}
	}
	for _, wb := range c.Bundles {
		if err := indexBundle(s.index, cid, wb); nil != err {
			return err
		}
	}
	return nil
}

// index a bundle, every opid of its input map and the outputs of its
// known transitions
func indexBundle(index IndexWriteProvider, cid contract.ContractID, wb contract.WitnessBundle) error {
	if err := index.IndexBundle(wb.BundleID(), cid, wb.Bundle.OpIDs()); nil != err {
		return err
	}
	for _, t := range wb.Bundle.KnownTransitions() {
		if err := indexOutputs(index, t, wb.WitnessID()); nil != err {
			return err
		}
	}
	return nil
}

// index each output by its secret seal and, when the seal is known,
// by the outpoint it closes over
func indexOutputs(index IndexWriteProvider, op contract.Operation, witness contract.Txid) error {
	opid := op.OpID()
	owned := op.Owned()
	for _, t := range owned.Types() {
		for _, out := range owned[t].Outputs() {
			opout := contract.Opout{Op: opid, Type: t, No: out.No}
			if err := index.IndexSeal(out.Secret, opout); nil != err {
				return err
			}
			if !out.SealKnown {
				continue
			}
			seal := out.Seal
			if !witness.IsZero() {
				seal = seal.Resolve(witness)
			}
			outpoint, ok := seal.Outpoint()
			if !ok {
				continue
			}
			if err := index.IndexOutpoint(outpoint, opout); nil != err {
				return err
			}
		}
	}
	return nil
}

// ConsumeBundle - store a locally built bundle before its witness is mined
//
// the transitions known in the bundle must all be named by its input map
func (s *Stock) ConsumeBundle(cid contract.ContractID, wb contract.WitnessBundle, r resolver.WitnessResolver) error {
	bid := wb.BundleID()
	for _, t := range wb.Bundle.KnownTransitions() {
		if !wb.Bundle.References(t.OpID()) {
			return fault.ErrTransitionNotInInputMap
		}
		if t.Contract != cid {
			return fault.ErrContractMismatch
		}
	}
	if _, err := s.stash.Genesis(cid); nil != err {
		if errors.Is(err, fault.ErrUnknownContract) {
			return &UnknownContractError{ContractID: cid}
		}
		return err
	}

	err := s.transaction(func() error {
		merged, err := mergeBundle(s, cid, wb)
		if nil != err {
			return err
		}
		if err := s.stash.PutWitnessBundle(cid, merged); nil != err {
			return err
		}
		if err := indexBundle(s.index, cid, merged); nil != err {
			return err
		}

		txid := merged.WitnessID()
		ord, err := r.ResolveWitnessOrd(txid)
		if nil != err {
			return err
		}
		err = s.UpdateState(cid, func(h *history.ContractHistory) error {
			for _, t := range merged.Bundle.KnownTransitions() {
				h.AddTransition(t, txid, ord)
			}
			return nil
		})

		// genesis is in the stash so the history must exist
		if errors.Is(err, fault.ErrUnknownContract) {
			s.log.Errorf("contract: %s  has no history", cid)
			return fault.ErrStateInconsistency
		}
		return err
	})
	if nil != err {
		return err
	}

	s.log.Infof("bundle: %s  contract: %s  witness: %s", bid, cid, wb.WitnessID())
	return nil
}

// Regenerate - rebuild state and index from the stash
//
// every witness is ordered again through the resolver
func (s *Stock) Regenerate(r resolver.WitnessResolver) error {
	contracts, err := s.stash.Contracts()
	if nil != err {
		return err
	}

	err = s.transaction(func() error {
		if err := s.state.ClearState(); nil != err {
			return err
		}
		if err := s.index.ClearIndex(); nil != err {
			return err
		}
		for _, cid := range contracts {
			if err := s.regenerateContract(cid, r); nil != err {
				return err
			}
		}
		return nil
	})
	if nil != err {
		return err
	}

	s.log.Infof("regenerated: %d contracts", len(contracts))
	return nil
}

func (s *Stock) regenerateContract(cid contract.ContractID, r resolver.WitnessResolver) error {
	genesis, err := s.stash.Genesis(cid)
	if nil != err {
		return err
	}
	h := history.New(genesis)
	if err := s.index.IndexOperation(genesis.OpID(), cid); nil != err {
		return err
	}
	if err := indexOutputs(s.index, genesis, contract.Txid{}); nil != err {
		return err
	}

	extensions, err := s.stash.ContractExtensions(cid)
	if nil != err {
		return err
	}
	for _, opid := range extensions {
		x, err := s.stash.Extension(opid)
		if nil != err {
			return fault.ErrStashInconsistency
		}
		h.AddExtension(x)
		if err := s.index.IndexOperation(opid, cid); nil != err {
			return err
		}
		if err := indexOutputs(s.index, x, contract.Txid{}); nil != err {
			return err
		}
	}

	bundles, err := s.stash.ContractBundles(cid)
	if nil != err {
		return err
	}
	for _, bid := range bundles {
		wb, err := s.stash.WitnessBundle(bid)
		if nil != err {
			return fault.ErrStashInconsistency
		}
		txid := wb.WitnessID()
		ord, err := r.ResolveWitnessOrd(txid)
		if nil != err {
			return err
		}
		for _, t := range wb.Bundle.KnownTransitions() {
			h.AddTransition(t, txid, ord)
		}
		if err := indexBundle(s.index, cid, wb); nil != err {
			return err
		}
	}

	return s.state.PutHistory(h)
}
