// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/consignd/contract"
	"github.com/bitmark-inc/consignd/fault"
)

type valueAssign = contract.Assign[contract.RevealedValue]

// every form of the same assignment
func allForms(seal contract.Seal, state contract.RevealedValue) []valueAssign {
	return []valueAssign{
		contract.RevealedAssign(seal, state),
		contract.ConfidentialAssign[contract.RevealedValue](seal.Conceal(), state.Conceal()),
		contract.ConfidentialSealAssign(seal.Conceal(), state),
		contract.ConfidentialStateAssign[contract.RevealedValue](seal, state.Conceal()),
	}
}

func TestRevealSeal(t *testing.T) {
	seal := testSeal(3)
	state := testValue(42)

	expected := map[contract.Form]contract.Form{
		contract.FormRevealed:          contract.FormRevealed,
		contract.FormConfidential:      contract.FormConfidentialState,
		contract.FormConfidentialSeal:  contract.FormRevealed,
		contract.FormConfidentialState: contract.FormConfidentialState,
	}

	for _, a := range allForms(seal, state) {
		r := a.RevealSeal(seal)
		assert.Equal(t, expected[a.Form], r.Form, "wrong form after reveal of %s", a.Form)

		s, ok := r.RevealedSeal()
		assert.True(t, ok, "seal not revealed from %s", a.Form)
		assert.Equal(t, seal, s, "wrong seal from %s", a.Form)

		// idempotent
		assert.Equal(t, r, r.RevealSeal(seal), "second reveal changed %s", a.Form)

		// commitments never move
		assert.Equal(t, a.SecretSeal(), r.SecretSeal(), "secret seal changed for %s", a.Form)
		assert.Equal(t, a.ConcealedState(), r.ConcealedState(), "concealed state changed for %s", a.Form)
	}
}

func TestRevealWrongSeal(t *testing.T) {
	seal := testSeal(3)
	other := testSeal(4)
	for _, a := range allForms(seal, testValue(42)) {
		assert.Equal(t, a, a.RevealSeal(other), "unmatched seal applied to %s", a.Form)
	}
}

func TestConceal(t *testing.T) {
	seal := testSeal(1)
	state := testValue(7)
	for _, a := range allForms(seal, state) {
		c := a.Conceal()
		assert.Equal(t, contract.FormConfidential, c.Form, "not confidential")
		assert.Equal(t, seal.Conceal(), c.SecretSeal(), "wrong secret seal")
		assert.Equal(t, state.Conceal(), c.ConcealedState(), "wrong concealed state")
	}
}

func TestMergeRevealDominance(t *testing.T) {
	seal := testSeal(5)
	state := testValue(500)
	forms := allForms(seal, state)

	for _, a := range forms {
		for _, b := range forms {
			ab, err := a.MergeReveal(b)
			assert.Nil(t, err, "merge %s with %s", a.Form, b.Form)
			ba, err := b.MergeReveal(a)
			assert.Nil(t, err, "merge %s with %s", b.Form, a.Form)
			assert.Equal(t, ab, ba, "merge of %s and %s not commutative", a.Form, b.Form)

			_, aSeal := a.RevealedSeal()
			_, bSeal := b.RevealedSeal()
			_, mSeal := ab.RevealedSeal()
			assert.Equal(t, aSeal || bSeal, mSeal, "seal knowledge lost merging %s and %s", a.Form, b.Form)

			_, aState := a.RevealedState()
			_, bState := b.RevealedState()
			_, mState := ab.RevealedState()
			assert.Equal(t, aState || bState, mState, "state knowledge lost merging %s and %s", a.Form, b.Form)
		}
	}

	// seal known on one side and state on the other gives everything
	m, err := forms[2].MergeReveal(forms[3])
	assert.Nil(t, err, "merge")
	assert.Equal(t, contract.RevealedAssign(seal, state), m, "not fully revealed")
}

func TestMergeRevealMismatch(t *testing.T) {
	a := contract.RevealedAssign(testSeal(1), testValue(10))
	b := contract.RevealedAssign(testSeal(1), testValue(11))

	_, err := a.MergeReveal(b)
	assert.NotNil(t, err, "different states merged")
	assert.True(t, errors.Is(err, fault.ErrMergeMismatch), "wrong error: %s", err)

	var me *contract.MergeError
	assert.True(t, errors.As(err, &me), "not a merge error")
	assert.Equal(t, contract.MergeAssignmentMismatch, me.Kind, "wrong kind")
}

func TestInvalidFormPanics(t *testing.T) {
	a := valueAssign{}
	assert.Panics(t, func() { a.SecretSeal() }, "zero form accepted")
}
