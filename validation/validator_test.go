// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/consignd/consignment"
	"github.com/bitmark-inc/consignd/contract"
	"github.com/bitmark-inc/consignd/fixtures"
	"github.com/bitmark-inc/consignd/resolver"
	"github.com/bitmark-inc/consignd/validation"
)

func setup() (*fixtures.Asset, fixtures.Step, *consignment.Contract) {
	asset := fixtures.NewAsset(100)
	step := asset.Spend(asset.IssueOpout(), 1,
		fixtures.Output{Seal: fixtures.Seal(1, 1), Amount: 100},
	)
	return asset, step, fixtures.Consignment[consignment.ContractKind](asset, nil, step)
}

func failureKinds(s validation.Status) []validation.FailureKind {
	kinds := []validation.FailureKind{}
	for _, f := range s.Failures {
		kinds = append(kinds, f.Kind)
	}
	return kinds
}

func warningKinds(s validation.Status) []validation.WarningKind {
	kinds := []validation.WarningKind{}
	for _, w := range s.Warnings {
		kinds = append(kinds, w.Kind)
	}
	return kinds
}

func TestStatusValidity(t *testing.T) {
	s := validation.Status{}
	assert.Equal(t, validation.Valid, s.Validity(), "empty")
	assert.Equal(t, "valid", s.String(), "empty string")

	s.AddWarning(validation.WarnBadSignature, "w %d", 1)
	assert.Equal(t, validation.ValidWithWarnings, s.Validity(), "warning")

	s.AddFailure(validation.FailAttachmentMismatch, "f %d", 2)
	assert.Equal(t, validation.Invalid, s.Validity(), "failure")
	assert.Equal(t, "invalid\n  failure: f 2\n  warning: w 1", s.String(), "string")

	txid := fixtures.Txid(1)
	s.AddUnresolved(txid)
	s.AddUnresolved(txid)
	assert.Equal(t, []contract.Txid{txid}, s.Unresolved, "unresolved deduplicated")
}

func TestStructuralValid(t *testing.T) {
	_, step, c := setup()
	s := validation.Structural{}.Validate(consignment.NewIndexed(c), fixtures.Resolver(step))
	assert.Equal(t, validation.Valid, s.Validity(), "status: %s", s)
}

func TestSchemaMismatch(t *testing.T) {
	_, step, c := setup()
	c.Schema.Name = "other"

	s := validation.Structural{}.Validate(consignment.NewIndexed(c), fixtures.Resolver(step))
	assert.Equal(t, []validation.FailureKind{validation.FailSchemaMismatch}, failureKinds(s), "failures")
}

func TestOperationSchema(t *testing.T) {
	asset := fixtures.NewAsset(100)
	asset.Genesis.GlobalState[contract.GlobalType(9)] = [][]byte{[]byte("stray")}
	c := fixtures.Consignment[consignment.ContractKind](asset, nil)

	s := validation.Structural{}.Validate(consignment.NewIndexed(c), resolver.Offline{})
	assert.Equal(t, []validation.FailureKind{validation.FailOperationSchema}, failureKinds(s), "failures")
}

func TestWitnessWithoutCommitment(t *testing.T) {
	_, _, c := setup()
	tx := []byte("unrelated transaction")
	c.Bundles[0].Witness = contract.NewPubWitness(tx)

	r := resolver.NewStatic()
	r.Add(contract.NewPubWitness(tx), contract.MinedOrd(1, 1))

	s := validation.Structural{}.Validate(consignment.NewIndexed(c), r)
	assert.Equal(t, []validation.FailureKind{validation.FailWitnessNoCommitment}, failureKinds(s), "failures")
}

func TestWitnessTxidMismatch(t *testing.T) {
	_, step, c := setup()
	r := resolver.NewStatic()
	r.Add(contract.PubWitness{Txid: step.Bundle.WitnessID(), Tx: []byte("tampered")}, step.Ord)

	s := validation.Structural{}.Validate(consignment.NewIndexed(c), r)
	assert.Equal(t, []validation.FailureKind{validation.FailWitnessMismatch}, failureKinds(s), "failures")
}

func TestUnresolvedWitness(t *testing.T) {
	_, step, c := setup()

	s := validation.Structural{}.Validate(consignment.NewIndexed(c), resolver.NewStatic())
	assert.Equal(t, validation.ValidWithWarnings, s.Validity(), "validity")
	assert.Equal(t, []validation.WarningKind{validation.WarnUnresolvedWitness}, warningKinds(s), "warnings")
	assert.Equal(t, []contract.Txid{step.Bundle.WitnessID()}, s.Unresolved, "unresolved")
}

func TestMissingInput(t *testing.T) {
	asset := fixtures.NewAsset(100)
	first := asset.Spend(asset.IssueOpout(), 1, fixtures.Output{Seal: fixtures.Seal(1, 1), Amount: 100})
	second := asset.Spend(first.Opout(0), 2, fixtures.Output{Seal: fixtures.Seal(2, 2), Amount: 100})
	c := fixtures.Consignment[consignment.ContractKind](asset, nil, second)

	s := validation.Structural{}.Validate(consignment.NewIndexed(c), fixtures.Resolver(first, second))
	assert.Equal(t, validation.ValidWithWarnings, s.Validity(), "validity")
	assert.Equal(t, []validation.FailureKind{}, failureKinds(s), "failures")
	assert.Equal(t, []validation.WarningKind{validation.WarnMissingInput}, warningKinds(s), "warnings")
}

func TestMissingRedeemed(t *testing.T) {
	asset := fixtures.NewAsset(100)
	c := fixtures.Consignment[consignment.ContractKind](asset, nil)
	unknown := contract.OpID{}
	unknown[0] = 0x77
	err := c.AddExtension(contract.Extension{
		Contract:      asset.ContractID(),
		ExtensionType: fixtures.ExtensionType,
		Redeemed:      []contract.OpID{unknown},
	})
	assert.NoError(t, err, "add extension")

	s := validation.Structural{}.Validate(consignment.NewIndexed(c), fixtures.Resolver())
	assert.Equal(t, validation.ValidWithWarnings, s.Validity(), "validity")
	assert.Equal(t, []validation.FailureKind{}, failureKinds(s), "failures")
	assert.Equal(t, []validation.WarningKind{validation.WarnMissingInput}, warningKinds(s), "warnings")
}

func TestContractMismatch(t *testing.T) {
	_, step, _ := setup()
	other := fixtures.NewAsset(7)
	c := fixtures.Consignment[consignment.ContractKind](other, nil, step)

	s := validation.Structural{}.Validate(consignment.NewIndexed(c), fixtures.Resolver(step))
	assert.Contains(t, failureKinds(s), validation.FailContractMismatch, "failures")
}

func TestTerminals(t *testing.T) {
	asset, step, _ := setup()
	stray := fixtures.Seal(30, 30)
	terminals := []contract.Terminal{
		step.Terminal(fixtures.Seal(1, 1), stray),
		contract.NewTerminal(contract.BundleID{}),
	}
	c := fixtures.Consignment[consignment.TransferKind](asset, terminals, step)

	s := validation.Structural{}.Validate(consignment.NewIndexed(c), fixtures.Resolver(step))
	assert.Equal(t, validation.ValidWithWarnings, s.Validity(), "validity")
	assert.ElementsMatch(t, []validation.WarningKind{validation.WarnTerminalBundleAbsent, validation.WarnTerminalSealAbsent}, warningKinds(s), "warnings")
}

func TestAttachmentsAndSignatures(t *testing.T) {
	_, step, c := setup()
	id := c.AddAttachment([]byte("document"))

	_, key, err := ed25519.GenerateKey(nil)
	assert.Nil(t, err, "generate key")
	c.AddSignature(contract.SignContent(id, key))

	s := validation.Structural{}.Validate(consignment.NewIndexed(c), fixtures.Resolver(step))
	assert.Equal(t, validation.Valid, s.Validity(), "status: %s", s)

	bad := contract.SignContent(c.Genesis.OpID(), key)
	bad.Signature[0] ^= 0xff
	c.AddSignature(bad)
	s = validation.Structural{}.Validate(consignment.NewIndexed(c), fixtures.Resolver(step))
	assert.Equal(t, []validation.WarningKind{validation.WarnBadSignature}, warningKinds(s), "warnings")

	c.Attachments[0].Data = []byte("forged")
	s = validation.Structural{}.Validate(consignment.NewIndexed(c), fixtures.Resolver(step))
	assert.Equal(t, []validation.FailureKind{validation.FailAttachmentMismatch}, failureKinds(s), "failures")
}
