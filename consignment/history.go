// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consignment

import (
	"github.com/bitmark-inc/consignd/fault"
	"github.com/bitmark-inc/consignd/history"
	"github.com/bitmark-inc/consignd/resolver"
)

// UpdateHistory - add the consigned operations to a contract history
//
// transitions are ordered by the witness ordering from the resolver
func (c *Consignment[K]) UpdateHistory(h *history.ContractHistory, r resolver.WitnessResolver) error {
	if h.ContractID != c.ContractID() {
		return fault.ErrContractMismatch
	}

	h.AddGenesis(c.Genesis)
	for _, x := range c.Extensions {
		h.AddExtension(x)
	}
	for _, wb := range c.Bundles {
		txid := wb.WitnessID()
		ord, err := r.ResolveWitnessOrd(txid)
		if nil != err {
			return err
		}
		for _, t := range wb.Bundle.KnownTransitions() {
			h.AddTransition(t, txid, ord)
		}
	}
	return nil
}
