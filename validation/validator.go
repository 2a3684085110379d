// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package validation - consistency checks of a consignment
//
// a validator only reads the consignment; the findings are returned
// in a Status and never change committed content
package validation

import (
	"errors"

	"github.com/bitmark-inc/consignd/contract"
	"github.com/bitmark-inc/consignd/fault"
	"github.com/bitmark-inc/consignd/resolver"
)

// ConsignmentAPI - the view of a consignment a validator needs
type ConsignmentAPI interface {
	ContractID() contract.ContractID
	Schema() contract.Schema
	Genesis() contract.Genesis
	WitnessBundles() []contract.WitnessBundle
	Extensions() []contract.Extension
	Terminals() []contract.Terminal
	Attachments() map[contract.AttachID][]byte
	Signatures() []contract.ContentSignature
	Operation(opid contract.OpID) (contract.Operation, bool)
}

// Validator - produces findings for a consignment
type Validator interface {
	Validate(c ConsignmentAPI, r resolver.WitnessResolver) Status
}

// Structural - checks commitments and references, not operation rules
type Structural struct{}

var _ Validator = Structural{}

func (Structural) Validate(c ConsignmentAPI, r resolver.WitnessResolver) Status {
	s := Status{}
	cid := c.ContractID()
	schema := c.Schema()
	genesis := c.Genesis()

	if schema.SchemaID() != genesis.SchemaID {
		s.AddFailure(FailSchemaMismatch, "genesis schema %s is not %s", genesis.SchemaID, schema.SchemaID())
	}
	checkOperation(&s, schema, genesis)

	for _, x := range c.Extensions() {
		if x.Contract != cid {
			s.AddFailure(FailContractMismatch, "extension %s belongs to %s", x.OpID(), x.Contract)
		}
		checkOperation(&s, schema, x)
		for _, opid := range x.Redeemed {
			if _, ok := c.Operation(opid); !ok {
				s.AddWarning(WarnMissingInput, "extension %s redeems unknown %s", x.OpID(), opid)
			}
		}
	}

	for _, wb := range c.WitnessBundles() {
		bid := wb.BundleID()
		if wb.Anchor.Bundle != bid {
			s.AddFailure(FailAnchorMismatch, "anchor commits to %s not bundle %s", wb.Anchor.Bundle, bid)
		}
		if wb.Anchor.Contract != cid {
			s.AddFailure(FailContractMismatch, "bundle %s anchored to %s", bid, wb.Anchor.Contract)
		}
		checkWitness(&s, r, wb)

		for _, t := range wb.Bundle.KnownTransitions() {
			if t.Contract != cid {
				s.AddFailure(FailContractMismatch, "transition %s belongs to %s", t.OpID(), t.Contract)
			}
			checkOperation(&s, schema, t)
			for _, in := range t.Prevouts {
				if _, ok := c.Operation(in.Op); !ok {
					s.AddWarning(WarnMissingInput, "transition %s spends unknown %s", t.OpID(), in)
				}
			}
		}
	}

	checkTerminals(&s, c)

	for id, data := range c.Attachments() {
		if contract.AttachIDFromData(data) != id {
			s.AddFailure(FailAttachmentMismatch, "attachment %s content does not match", id)
		}
	}

	for _, sig := range c.Signatures() {
		if !sig.Verify() {
			s.AddWarning(WarnBadSignature, "bad signature over %x", sig.Content)
		}
	}

	return s
}

func checkOperation(s *Status, schema contract.Schema, op contract.Operation) {
	if err := schema.CheckOperation(op); nil != err {
		s.AddFailure(FailOperationSchema, "%s %s: %s", op.Kind(), op.OpID(), err)
	}
}

// a witness that cannot be found, or has no body, is unresolved
func checkWitness(s *Status, r resolver.WitnessResolver, wb contract.WitnessBundle) {
	txid := wb.WitnessID()
	w, err := r.ResolvePubWitness(txid)
	if nil != err {
		if errors.Is(err, fault.ErrUnknownWitness) || fault.IsErrConnectivity(err) {
			s.AddUnresolved(txid)
			s.AddWarning(WarnUnresolvedWitness, "witness %s: %s", txid, err)
			return
		}
		s.AddFailure(FailWitnessMismatch, "witness %s: %s", txid, err)
		return
	}
	if w.Txid != txid {
		s.AddFailure(FailWitnessMismatch, "resolved witness %s for %s", w.Txid, txid)
		return
	}
	if !w.HasTx() {
		s.AddUnresolved(txid)
		s.AddWarning(WarnUnresolvedWitness, "witness %s: transaction body unavailable", txid)
		return
	}
	if contract.TxidFromTx(w.Tx) != txid {
		s.AddFailure(FailWitnessMismatch, "witness %s body hashes to %s", txid, contract.TxidFromTx(w.Tx))
		return
	}
	if !w.Commits(wb.Anchor) {
		s.AddFailure(FailWitnessNoCommitment, "witness %s does not commit to bundle %s", txid, wb.Anchor.Bundle)
	}
}

func checkTerminals(s *Status, c ConsignmentAPI) {
	bundles := make(map[contract.BundleID]contract.TransitionBundle)
	for _, wb := range c.WitnessBundles() {
		bundles[wb.BundleID()] = wb.Bundle
	}

	for _, term := range c.Terminals() {
		b, ok := bundles[term.Bundle]
		if !ok {
			s.AddWarning(WarnTerminalBundleAbsent, "terminal bundle %s absent", term.Bundle)
			continue
		}
		assigned := make(map[contract.SecretSeal]struct{})
		for _, t := range b.KnownTransitions() {
			for _, seal := range t.Assignments.SecretSeals() {
				assigned[seal] = struct{}{}
			}
		}
		for _, seal := range term.Seals {
			if _, ok := assigned[seal]; !ok {
				s.AddWarning(WarnTerminalSealAbsent, "terminal seal %s not assigned in bundle %s", seal, term.Bundle)
			}
		}
	}
}
