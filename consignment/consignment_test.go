// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consignment_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/consignd/consignment"
	"github.com/bitmark-inc/consignd/contract"
	"github.com/bitmark-inc/consignd/fault"
	"github.com/bitmark-inc/consignd/fixtures"
	"github.com/bitmark-inc/consignd/history"
	"github.com/bitmark-inc/consignd/resolver"
	"github.com/bitmark-inc/consignd/validation"
)

// a transfer of part of the supply to a recipient who supplied a
// blinded seal, plus change back to the sender
type scenario struct {
	asset     *fixtures.Asset
	step      fixtures.Step
	recipient contract.Seal
	change    contract.Seal
}

func newScenario() scenario {
	asset := fixtures.NewAsset(1000)
	recipient := fixtures.Seal(5, 55)
	change := fixtures.Seal(6, 66)
	step := asset.Spend(asset.IssueOpout(), 1,
		fixtures.Output{Seal: recipient, Amount: 400, Conceal: true},
		fixtures.Output{Seal: change, Amount: 600},
	)
	return scenario{
		asset:     asset,
		step:      step,
		recipient: recipient,
		change:    change,
	}
}

func (s scenario) transfer() *consignment.Transfer {
	return fixtures.Consignment[consignment.TransferKind](s.asset, []contract.Terminal{s.step.Terminal(s.recipient)}, s.step)
}

func TestNew(t *testing.T) {
	s := newScenario()

	tr := s.transfer()
	assert.True(t, tr.Transfer, "transfer flag")
	assert.Equal(t, uint16(consignment.CurrentVersion), tr.Version, "version")
	assert.Equal(t, s.asset.ContractID(), tr.ContractID(), "contract id")
	assert.Equal(t, s.asset.Schema.SchemaID(), tr.SchemaID(), "schema id")

	c := fixtures.Consignment[consignment.ContractKind](s.asset, nil, s.step)
	assert.False(t, c.Transfer, "contract flag")

	op, ok := tr.Operation(s.step.Transition.OpID())
	require.True(t, ok, "transition not found")
	assert.Equal(t, contract.OpTransition, op.Kind(), "operation kind")

	_, ok = tr.Operation(contract.OpID{})
	assert.False(t, ok, "zero opid found")
}

func TestIDStableUnderReveal(t *testing.T) {
	s := newScenario()
	tr := s.transfer()
	before := tr.ID()

	n := tr.RevealSeal(s.recipient)
	assert.Equal(t, 1, n, "revealed count")
	assert.Equal(t, before, tr.ID(), "id changed by reveal")

	assert.Equal(t, 0, tr.RevealSeal(s.recipient), "second reveal")
	assert.Equal(t, before, tr.ID(), "id changed by repeated reveal")

	n = tr.RevealBundleSeal(s.step.Bundle.BundleID(), s.recipient)
	assert.Equal(t, 0, n, "bundle reveal after full reveal")
}

func TestIDCommitsToTerminalsAndAttachments(t *testing.T) {
	s := newScenario()
	tr := s.transfer()
	id := tr.ID()

	other := s.transfer()
	other.AddTerminal(s.step.Terminal(s.change))
	assert.NotEqual(t, id, other.ID(), "terminal not committed")

	other = s.transfer()
	other.AddAttachment([]byte("data"))
	assert.NotEqual(t, id, other.ID(), "attachment not committed")

	contractForm := fixtures.Consignment[consignment.ContractKind](s.asset, []contract.Terminal{s.step.Terminal(s.recipient)}, s.step)
	assert.NotEqual(t, id, contractForm.ID(), "kind flag not committed")
}

func TestTextID(t *testing.T) {
	s := newScenario()
	tr := s.transfer()
	id := tr.ID()

	text := id.String()
	assert.Contains(t, text, "consign:", "prefix")

	parsed, err := consignment.ParseConsignmentID(text)
	require.NoError(t, err, "parse consignment id")
	assert.Equal(t, id, parsed, "consignment id round trip")

	tid, err := consignment.ParseTransferID(tr.TransferID().String())
	require.NoError(t, err, "parse transfer id")
	assert.Equal(t, tr.TransferID(), tid, "transfer id round trip")

	_, err = consignment.ParseTransferID(text)
	assert.ErrorIs(t, err, fault.ErrWrongIdentifierPrefix, "wrong prefix")
}

func TestArmorRoundTrip(t *testing.T) {
	s := newScenario()
	tr := s.transfer()
	tr.AddAttachment([]byte("an attachment"))

	text, err := tr.ArmorString()
	require.NoError(t, err, "armor")
	assert.Contains(t, text, "-----BEGIN CONSIGNMENT-----", "title")
	assert.Contains(t, text, "Type: transfer", "type header")
	assert.Contains(t, text, "Terminal: bundle:", "terminal header")

	parsed, err := consignment.ParseArmored[consignment.TransferKind](text)
	require.NoError(t, err, "parse armored")
	assert.Equal(t, tr.ID(), parsed.ID(), "id")
	assert.Equal(t, tr, parsed, "content")

	again, err := parsed.ArmorString()
	require.NoError(t, err, "re-armor")
	assert.Equal(t, text, again, "armor not byte identical")

	_, err = consignment.ParseArmored[consignment.ContractKind](text)
	assert.ErrorIs(t, err, fault.ErrArmorTypeMismatch, "static kind")

	schemaText, err := consignment.ArmorSchema(s.asset.Schema)
	require.NoError(t, err, "armor schema")
	_, err = consignment.ParseArmored[consignment.TransferKind](schemaText)
	assert.ErrorIs(t, err, fault.ErrInvalidArmorTitle, "schema as consignment")
}

func TestSchemaArmor(t *testing.T) {
	schema := fixtures.Schema()
	text, err := consignment.ArmorSchema(schema)
	require.NoError(t, err, "armor schema")
	assert.Contains(t, text, "Name: fixture-asset", "name header")

	parsed, err := consignment.ParseArmoredSchema(text)
	require.NoError(t, err, "parse schema")
	assert.Equal(t, schema.SchemaID(), parsed.SchemaID(), "schema id")
}

func TestValidate(t *testing.T) {
	s := newScenario()
	tr := s.transfer()

	valid, err := tr.Validate(validation.Structural{}, fixtures.Resolver(s.step))
	require.NoError(t, err, "validate")
	assert.Equal(t, validation.Valid, valid.Status().Validity(), "validity: %s", valid.Status())
	assert.Equal(t, tr, valid.Consignment(), "consignment kept")
}

func TestTypeMismatchWarning(t *testing.T) {
	s := newScenario()
	c := fixtures.Consignment[consignment.ContractKind](s.asset, nil, s.step)
	c.Transfer = true

	valid, err := c.Validate(validation.Structural{}, fixtures.Resolver(s.step))
	require.NoError(t, err, "validate")

	status := valid.Status()
	assert.Equal(t, validation.ValidWithWarnings, status.Validity(), "validity")
	require.Equal(t, 1, len(status.Warnings), "warnings: %s", status)
	assert.Equal(t, validation.WarnConsignmentType, status.Warnings[0].Kind, "warning kind")
	assert.Equal(t, "invalid consignment type", status.Warnings[0].Message, "warning message")
	assert.Equal(t, 0, len(status.Failures), "failures")
}

func TestInvalidKeepsConsignment(t *testing.T) {
	s := newScenario()
	tr := s.transfer()
	tr.Attachments = append(tr.Attachments, consignment.Attachment{
		ID:   contract.AttachIDFromData([]byte("expected")),
		Data: []byte("substituted"),
	})

	valid, err := tr.Validate(validation.Structural{}, fixtures.Resolver(s.step))
	assert.Nil(t, valid, "valid result")
	assert.ErrorIs(t, err, fault.ErrInvalidConsignment, "error class")

	var invalid *consignment.InvalidError[consignment.TransferKind]
	require.True(t, errors.As(err, &invalid), "error type")
	assert.Equal(t, tr, invalid.Consignment, "consignment kept")
	assert.Equal(t, validation.FailAttachmentMismatch, invalid.Status.Failures[0].Kind, "failure kind")
}

func TestUnresolvedWitness(t *testing.T) {
	s := newScenario()
	tr := s.transfer()
	tr.Bundles[0].Witness = contract.TxidWitness(s.step.Bundle.WitnessID())

	valid, err := tr.Validate(validation.Structural{}, resolver.Offline{})
	require.NoError(t, err, "validate")
	status := valid.Status()
	assert.Equal(t, validation.ValidWithWarnings, status.Validity(), "validity")
	assert.Equal(t, []contract.Txid{s.step.Bundle.WitnessID()}, status.Unresolved, "unresolved")
	assert.Equal(t, validation.WarnUnresolvedWitness, status.Warnings[0].Kind, "warning kind")
}

func TestMergeReveal(t *testing.T) {
	s := newScenario()
	concealed := s.transfer()
	revealed := s.transfer()
	revealed.RevealSeal(s.recipient)
	revealed.AddSignature(contract.ContentSignature{Content: [32]byte{1}})

	merged, err := concealed.MergeReveal(revealed)
	require.NoError(t, err, "merge")
	assert.Equal(t, concealed.ID(), merged.ID(), "id")
	assert.Equal(t, 1, len(merged.Signatures), "signatures")

	other, err := revealed.MergeReveal(concealed)
	require.NoError(t, err, "reverse merge")
	assert.Equal(t, merged.Bundles, other.Bundles, "merge not commutative")

	h := history.New(s.asset.Genesis)
	require.NoError(t, merged.UpdateHistory(h, fixtures.Resolver(s.step)), "update history")
	assert.Equal(t, uint64(1000), h.Balance(fixtures.OwnerType), "revealed recipient output")

	unrelated := fixtures.Consignment[consignment.TransferKind](fixtures.NewAsset(5), nil)
	_, err = concealed.MergeReveal(unrelated)
	assert.ErrorIs(t, err, fault.ErrMergeMismatch, "different consignments")
}

func TestUpdateHistory(t *testing.T) {
	s := newScenario()
	next := s.asset.Spend(s.step.Opout(1), 2,
		fixtures.Output{Seal: fixtures.Seal(7, 77), Amount: 600},
	)
	c := fixtures.Consignment[consignment.ContractKind](s.asset, nil, s.step, next)

	h := history.New(s.asset.Genesis)
	err := c.UpdateHistory(h, fixtures.Resolver(s.step, next))
	require.NoError(t, err, "update history")
	assert.True(t, h.IsSpent(s.asset.IssueOpout()), "issue spent")
	assert.True(t, h.IsSpent(s.step.Opout(1)), "change spent")
	assert.Equal(t, uint64(600), h.Balance(fixtures.OwnerType), "visible balance")

	err = c.UpdateHistory(h, resolver.NewStatic())
	assert.ErrorIs(t, err, fault.ErrUnknownWitness, "unknown ordering")

	wrong := history.New(fixtures.NewAsset(1).Genesis)
	assert.ErrorIs(t, c.UpdateHistory(wrong, fixtures.Resolver(s.step)), fault.ErrContractMismatch, "wrong contract")
}

func TestRevealTransition(t *testing.T) {
	s := newScenario()
	tr := s.transfer()
	bid := s.step.Bundle.BundleID()

	added, err := tr.RevealTransition(bid, s.step.Transition)
	require.NoError(t, err, "reveal known")
	assert.False(t, added, "already known")

	stranger := s.asset.Spend(s.asset.IssueOpout(), 99, fixtures.Output{Seal: fixtures.Seal(9, 9), Amount: 1})
	_, err = tr.RevealTransition(bid, stranger.Transition)
	assert.ErrorIs(t, err, fault.ErrUnrelatedTransition, "unrelated")
}

func TestIntoContract(t *testing.T) {
	s := newScenario()
	tr := s.transfer()
	c := tr.IntoContract()
	assert.False(t, c.Transfer, "flag")
	assert.Equal(t, tr.Bundles, c.Bundles, "bundles")
	assert.NotEqual(t, tr.ID(), c.ID(), "kind committed")
}
