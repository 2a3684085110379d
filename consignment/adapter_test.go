// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consignment_test

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/consignd/contract"
	"github.com/bitmark-inc/consignd/fault"
	"github.com/bitmark-inc/consignd/fixtures"
	"github.com/bitmark-inc/consignd/mocks"
)

func TestAdapterPrefersOwnWitness(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s := newScenario()
	tr := s.transfer()
	txid := s.step.Bundle.WitnessID()

	external := mocks.NewMockWitnessResolver(ctl)
	external.EXPECT().ResolveWitnessOrd(txid).Return(contract.MinedOrd(500, 1600000000), nil).Times(1)

	r := tr.WitnessResolver(external)

	w, err := r.ResolvePubWitness(txid)
	assert.Nil(t, err, "own witness")
	assert.Equal(t, s.step.Bundle.Witness, w, "witness body")

	ord, err := r.ResolveWitnessOrd(txid)
	assert.Nil(t, err, "ordering")
	assert.Equal(t, contract.MinedOrd(500, 1600000000), ord, "ordering from external")
}

func TestAdapterFallsBackToExternal(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s := newScenario()
	tr := s.transfer()
	txid := s.step.Bundle.WitnessID()
	tr.Bundles[0].Witness = contract.TxidWitness(txid)

	external := mocks.NewMockWitnessResolver(ctl)
	external.EXPECT().ResolvePubWitness(txid).Return(s.step.Bundle.Witness, nil).Times(1)

	w, err := tr.WitnessResolver(external).ResolvePubWitness(txid)
	assert.Nil(t, err, "external witness")
	assert.True(t, w.HasTx(), "body from external")
	assert.Equal(t, s.step.Bundle.Witness, w, "witness")
}

func TestAdapterUnknownWitness(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s := newScenario()
	tr := s.transfer()
	txid := s.step.Bundle.WitnessID()
	tr.Bundles[0].Witness = contract.TxidWitness(txid)
	stranger := fixtures.Txid(0x33)

	external := mocks.NewMockWitnessResolver(ctl)
	external.EXPECT().ResolvePubWitness(txid).Return(contract.PubWitness{}, fault.ErrUnknownWitness).Times(1)
	external.EXPECT().ResolvePubWitness(stranger).Return(contract.PubWitness{}, fault.ErrUnknownWitness).Times(1)

	r := tr.WitnessResolver(external)

	w, err := r.ResolvePubWitness(txid)
	assert.Nil(t, err, "own txid witness")
	assert.Equal(t, contract.TxidWitness(txid), w, "txid only")

	_, err = r.ResolvePubWitness(stranger)
	assert.ErrorIs(t, err, fault.ErrUnknownWitness, "stranger")
}

func TestAdapterConnectivity(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s := newScenario()
	tr := s.transfer()
	txid := s.step.Bundle.WitnessID()
	tr.Bundles[0].Witness = contract.TxidWitness(txid)

	cause := fault.Connectivity("lookup", errors.New("timeout"))
	external := mocks.NewMockWitnessResolver(ctl)
	external.EXPECT().ResolvePubWitness(txid).Return(contract.PubWitness{}, cause).Times(1)

	_, err := tr.WitnessResolver(external).ResolvePubWitness(txid)
	assert.True(t, fault.IsErrConnectivity(err), "connectivity passed through")
}
