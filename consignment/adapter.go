// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consignment

import (
	"errors"

	"github.com/bitmark-inc/consignd/contract"
	"github.com/bitmark-inc/consignd/fault"
	"github.com/bitmark-inc/consignd/resolver"
)

// witness data carried by the consignment is used first, the external
// resolver fills the gaps; ordering always comes from outside
type witnessAdapter struct {
	own      map[contract.Txid]contract.PubWitness
	external resolver.WitnessResolver
}

// WitnessResolver - resolver preferring the consignment's own witnesses
func (c *Consignment[K]) WitnessResolver(external resolver.WitnessResolver) resolver.WitnessResolver {
	a := &witnessAdapter{
		own:      make(map[contract.Txid]contract.PubWitness),
		external: external,
	}
	for _, wb := range c.Bundles {
		txid := wb.WitnessID()
		existing, ok := a.own[txid]
		if !ok {
			a.own[txid] = wb.Witness
			continue
		}
		if merged, err := existing.MergeReveal(wb.Witness); nil == err {
			a.own[txid] = merged
		}
	}
	return a
}

func (a *witnessAdapter) ResolvePubWitness(txid contract.Txid) (contract.PubWitness, error) {
	own, ok := a.own[txid]
	if ok && own.HasTx() {
		return own, nil
	}

	w, err := a.external.ResolvePubWitness(txid)
	if nil != err {
		if ok && errors.Is(err, fault.ErrUnknownWitness) {
			return own, nil
		}
		return contract.PubWitness{}, err
	}
	if ok {
		if merged, err := own.MergeReveal(w); nil == err {
			return merged, nil
		}
	}
	return w, nil
}

func (a *witnessAdapter) ResolveWitnessOrd(txid contract.Txid) (contract.WitnessOrd, error) {
	return a.external.ResolveWitnessOrd(txid)
}
