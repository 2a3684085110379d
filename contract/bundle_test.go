// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/consignd/codec"
	"github.com/bitmark-inc/consignd/contract"
	"github.com/bitmark-inc/consignd/fault"
)

func testBundle(t *testing.T) (contract.TransitionBundle, contract.Transition, contract.Transition) {
	g := testGenesis()
	cid := g.ContractID()
	t1 := testTransition(cid, g.OpID(), 1, testSeal(10))
	t2 := testTransition(cid, g.OpID(), 2, testSeal(11), testSeal(12))

	inputMap := map[contract.Vin]contract.OpID{
		0: t1.OpID(),
		1: t2.OpID(),
		2: t2.OpID(),
	}
	b, err := contract.NewTransitionBundle(inputMap, t1)
	assert.Nil(t, err, "new bundle")
	return b, t1, t2
}

func TestNewTransitionBundle(t *testing.T) {
	_, err := contract.NewTransitionBundle(nil)
	assert.Equal(t, fault.ErrEmptyBundle, err, "empty bundle")

	b, t1, t2 := testBundle(t)
	_, err = contract.NewTransitionBundle(map[contract.Vin]contract.OpID{0: t1.OpID()}, t2)
	assert.Equal(t, fault.ErrTransitionNotInInputMap, err, "unreferenced transition")

	assert.Equal(t, []contract.OpID{t1.OpID(), t2.OpID()}, sortedIDs(t1.OpID(), t2.OpID()), "helper")
	assert.Equal(t, sortedIDs(t1.OpID(), t2.OpID()), b.OpIDs(), "distinct opids")
}

func sortedIDs(a contract.OpID, b contract.OpID) []contract.OpID {
	if a.Compare(b) < 0 {
		return []contract.OpID{a, b}
	}
	return []contract.OpID{b, a}
}

func TestRevealTransition(t *testing.T) {
	b, t1, t2 := testBundle(t)
	id := b.BundleID()
	inputs := b.InputMap()

	newly, err := b.RevealTransition(t2)
	assert.Nil(t, err, "reveal t2")
	assert.True(t, newly, "t2 should be newly revealed")
	assert.True(t, b.IsKnown(t2.OpID()), "t2 not known")

	newly, err = b.RevealTransition(t1)
	assert.Nil(t, err, "reveal t1")
	assert.False(t, newly, "t1 was already known")

	g := testGenesis()
	stranger := testTransition(g.ContractID(), g.OpID(), 99, testSeal(20))
	newly, err = b.RevealTransition(stranger)
	assert.False(t, newly, "stranger revealed")
	assert.True(t, errors.Is(err, fault.ErrUnrelatedTransition), "wrong error: %v", err)

	var ue *contract.UnrelatedTransitionError
	assert.True(t, errors.As(err, &ue), "not unrelated transition error")
	assert.Equal(t, stranger.OpID(), ue.OpID, "wrong opid in error")
	assert.Equal(t, stranger.Nonce, ue.Transition.Nonce, "transition not carried")

	assert.False(t, b.IsKnown(stranger.OpID()), "stranger inserted")
	assert.Equal(t, inputs, b.InputMap(), "input map changed")
	assert.Equal(t, id, b.BundleID(), "bundle id changed")
	assert.Equal(t, 2, len(b.KnownTransitions()), "wrong known count")
}

func TestBundleRevealSeal(t *testing.T) {
	g := testGenesis()
	cid := g.ContractID()
	seal := testSeal(30)
	tr := testTransition(cid, g.OpID(), 5, seal)
	owned := tr.Assignments[assetOwner]
	owned.Fungible[0] = contract.ConfidentialSealAssign(seal.Conceal(), testValue(100))
	tr.Assignments[assetOwner] = owned
	opid := tr.OpID()

	b, err := contract.NewTransitionBundle(map[contract.Vin]contract.OpID{0: opid}, tr)
	assert.Nil(t, err, "new bundle")

	assert.Equal(t, 0, b.RevealSeal(testSeal(31)), "unrelated seal revealed")
	assert.Equal(t, 1, b.RevealSeal(seal), "seal not revealed")
	assert.Equal(t, 0, b.RevealSeal(seal), "second reveal changed something")

	known, ok := b.Transition(opid)
	assert.True(t, ok, "transition lost")
	assert.Equal(t, opid, known.OpID(), "opid changed by reveal")
	assert.Equal(t, []contract.Seal{seal}, known.Assignments.FilterRevealedSeals(), "seal not in plaintext")
}

func TestBundleKeepsOwnCopy(t *testing.T) {
	g := testGenesis()
	cid := g.ContractID()
	seal := testSeal(40)
	first := testTransition(cid, g.OpID(), 6, testSeal(41))
	tr := testTransition(cid, g.OpID(), 7, seal)
	owned := tr.Assignments[assetOwner]
	owned.Fungible[0] = contract.ConfidentialSealAssign(seal.Conceal(), testValue(100))
	tr.Assignments[assetOwner] = owned

	b, err := contract.NewTransitionBundle(map[contract.Vin]contract.OpID{0: first.OpID(), 1: tr.OpID()}, first)
	assert.Nil(t, err, "new bundle")
	newly, err := b.RevealTransition(tr)
	assert.Nil(t, err, "reveal transition")
	assert.True(t, newly, "transition not revealed")

	assert.Equal(t, 1, b.RevealSeal(seal), "seal not revealed")
	assert.Empty(t, tr.Assignments.FilterRevealedSeals(), "caller's transition changed")

	known, ok := b.Transition(tr.OpID())
	assert.True(t, ok, "transition lost")
	assert.Equal(t, []contract.Seal{seal}, known.Assignments.FilterRevealedSeals(), "bundle copy not revealed")

	// the transition given at construction is copied too
	first.Assignments[assetOwner] = contract.FungibleAssigns()
	known, ok = b.Transition(first.OpID())
	assert.True(t, ok, "first transition lost")
	assert.Equal(t, []contract.Seal{testSeal(41)}, known.Assignments.FilterRevealedSeals(), "constructor copy changed")
}

func TestBundleMergeReveal(t *testing.T) {
	b, t1, t2 := testBundle(t)
	other, err := contract.NewTransitionBundle(b.InputMap(), t2)
	assert.Nil(t, err, "other bundle")

	m1, err := b.MergeReveal(other)
	assert.Nil(t, err, "merge")
	m2, err := other.MergeReveal(b)
	assert.Nil(t, err, "reverse merge")

	assert.Equal(t, b.BundleID(), m1.BundleID(), "id changed")
	assert.True(t, m1.IsKnown(t1.OpID()) && m1.IsKnown(t2.OpID()), "union lost a transition")
	assert.Equal(t, len(m1.KnownTransitions()), len(m2.KnownTransitions()), "not commutative")

	g := testGenesis()
	t3 := testTransition(g.ContractID(), g.OpID(), 3, testSeal(40))
	unrelated, _ := contract.NewTransitionBundle(map[contract.Vin]contract.OpID{0: t3.OpID()}, t3)
	_, err = b.MergeReveal(unrelated)
	assert.True(t, errors.Is(err, fault.ErrMergeMismatch), "different bundles merged")

	// conflicting signatures on the same transition
	s1 := t1
	s1.Signature = []byte{1}
	s2 := t1
	s2.Signature = []byte{2}
	ba, _ := contract.NewTransitionBundle(b.InputMap(), s1)
	bb, _ := contract.NewTransitionBundle(b.InputMap(), s2)
	_, err = ba.MergeReveal(bb)
	assert.True(t, errors.Is(err, fault.ErrMergeConflict), "signature conflict not detected: %v", err)
}

func TestBundleEncoding(t *testing.T) {
	b, t1, _ := testBundle(t)
	data, err := codec.Marshal(b)
	assert.Nil(t, err, "marshal")

	var back contract.TransitionBundle
	assert.Nil(t, codec.Unmarshal(data, &back), "unmarshal")
	assert.Equal(t, b.BundleID(), back.BundleID(), "id changed")
	assert.True(t, back.IsKnown(t1.OpID()), "known transition lost")
}

func TestBundleIDIgnoresKnown(t *testing.T) {
	b, _, t2 := testBundle(t)
	empty, err := contract.NewTransitionBundle(b.InputMap())
	assert.Nil(t, err, "bundle without transitions")
	full, err := contract.NewTransitionBundle(b.InputMap(), b.KnownTransitions()[0], t2)
	assert.Nil(t, err, "bundle with all transitions")
	assert.Equal(t, empty.BundleID(), full.BundleID(), "id depends on known transitions")
}
