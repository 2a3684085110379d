// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"bytes"
	"crypto/sha256"

	"github.com/bitmark-inc/consignd/commit"
)

// PubWitness - a witness transaction, the body may be absent
type PubWitness struct {
	Txid Txid
	Tx   []byte
}

// TxidFromTx - double SHA-256 of the serialised transaction
func TxidFromTx(tx []byte) Txid {
	first := sha256.Sum256(tx)
	return Txid(sha256.Sum256(first[:]))
}

// NewPubWitness - witness with its transaction body
func NewPubWitness(tx []byte) PubWitness {
	return PubWitness{
		Txid: TxidFromTx(tx),
		Tx:   append([]byte(nil), tx...),
	}
}

// TxidWitness - witness known only by its id
func TxidWitness(txid Txid) PubWitness {
	return PubWitness{Txid: txid}
}

// HasTx - true if the transaction body is present
func (w PubWitness) HasTx() bool {
	return 0 != len(w.Tx)
}

// Commits - true if the transaction carries the anchor commitment
func (w PubWitness) Commits(a Anchor) bool {
	c := a.Commitment()
	return bytes.Contains(w.Tx, c[:])
}

// MergeReveal - keep the transaction body from either side
func (w PubWitness) MergeReveal(other PubWitness) (PubWitness, error) {
	if w.Txid != other.Txid {
		return w, mergeError(MergeTxidMismatch, "witness %s and %s", w.Txid, other.Txid)
	}
	switch {
	case !w.HasTx():
		return PubWitness{Txid: w.Txid, Tx: append([]byte(nil), other.Tx...)}, nil
	case other.HasTx() && !bytes.Equal(w.Tx, other.Tx):
		return w, mergeError(MergeWitnessConflict, "witness %s", w.Txid)
	}
	return PubWitness{Txid: w.Txid, Tx: append([]byte(nil), w.Tx...)}, nil
}

// AnchorMethod - how the commitment is placed in the witness
type AnchorMethod uint8

const (
	OpretFirst AnchorMethod = iota
	TapretFirst
)

// Anchor - binds a bundle of a contract to a witness transaction
type Anchor struct {
	Method   AnchorMethod
	Contract ContractID
	Bundle   BundleID
}

// NewAnchor - anchor a bundle
func NewAnchor(method AnchorMethod, contract ContractID, bundle BundleID) Anchor {
	return Anchor{
		Method:   method,
		Contract: contract,
		Bundle:   bundle,
	}
}

// Commitment - the 32 bytes a witness must carry
func (a Anchor) Commitment() commit.Digest {
	e := commit.TagAnchor.Encoder()
	e.WriteU8(uint8(a.Method))
	e.WriteDigest(a.Contract)
	e.WriteDigest(a.Bundle)
	return e.Sum()
}

// MergeReveal - anchors carry no concealed data so must be equal
func (a Anchor) MergeReveal(other Anchor) (Anchor, error) {
	if a != other {
		return a, mergeError(MergeAnchorMismatch, "bundle %s", a.Bundle)
	}
	return a, nil
}

// WitnessBundle - a bundle with its anchor and witness
type WitnessBundle struct {
	Witness PubWitness
	Anchor  Anchor
	Bundle  TransitionBundle
}

// WitnessID - txid of the witness
func (wb WitnessBundle) WitnessID() Txid {
	return wb.Witness.Txid
}

// BundleID - id of the contained bundle
func (wb WitnessBundle) BundleID() BundleID {
	return wb.Bundle.BundleID()
}

// Clone - deep copy
func (wb WitnessBundle) Clone() WitnessBundle {
	return WitnessBundle{
		Witness: PubWitness{Txid: wb.Witness.Txid, Tx: append([]byte(nil), wb.Witness.Tx...)},
		Anchor:  wb.Anchor,
		Bundle:  wb.Bundle.Clone(),
	}
}

// MergeReveal - combine two copies of the same anchored bundle
func (wb WitnessBundle) MergeReveal(other WitnessBundle) (WitnessBundle, error) {
	if wb.BundleID() != other.BundleID() {
		return wb, mergeError(MergeBundleMismatch, "bundle %s and %s", wb.BundleID(), other.BundleID())
	}
	witness, err := wb.Witness.MergeReveal(other.Witness)
	if nil != err {
		return wb, err
	}
	anchor, err := wb.Anchor.MergeReveal(other.Anchor)
	if nil != err {
		return wb, err
	}
	bundle, err := wb.Bundle.MergeReveal(other.Bundle)
	if nil != err {
		return wb, err
	}
	return WitnessBundle{
		Witness: witness,
		Anchor:  anchor,
		Bundle:  bundle,
	}, nil
}
