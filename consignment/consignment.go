// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package consignment - self-contained contract history for exchange
//
// a consignment is built once, optionally validated, then merged into
// a stock; after construction only reveals are allowed, and a reveal
// never changes the consignment id
package consignment

import (
	"sort"

	"github.com/bitmark-inc/consignd/contract"
)

// CurrentVersion - version written by New
const CurrentVersion = 2

// Kind - static discriminant of a consignment
type Kind interface {
	isTransfer() bool
}

// TransferKind - consignment transferring state to a recipient
type TransferKind struct{}

// ContractKind - consignment carrying a whole contract
type ContractKind struct{}

func (TransferKind) isTransfer() bool { return true }
func (ContractKind) isTransfer() bool { return false }

// Attachment - a data blob referenced by attachment state
type Attachment struct {
	ID   contract.AttachID
	Data []byte
}

// Consignment - the container exchanged between parties
//
// Transfer is the stored flag; it should agree with K, a mismatch is
// reported by Validate as a warning
type Consignment[K Kind] struct {
	Version     uint16
	Transfer    bool
	Schema      contract.Schema
	Ifaces      []contract.IfaceImpl
	Genesis     contract.Genesis
	Terminals   []contract.Terminal
	Bundles     []contract.WitnessBundle
	Extensions  []contract.Extension
	Attachments []Attachment
	Signatures  []contract.ContentSignature
}

// Transfer - a transfer consignment
type Transfer = Consignment[TransferKind]

// Contract - a contract consignment
type Contract = Consignment[ContractKind]

// IsTransfer - the static kind of K
func IsTransfer[K Kind]() bool {
	var k K
	return k.isTransfer()
}

// New - consignment holding only the schema and genesis
func New[K Kind](schema contract.Schema, genesis contract.Genesis) *Consignment[K] {
	return &Consignment[K]{
		Version:  CurrentVersion,
		Transfer: IsTransfer[K](),
		Schema:   schema,
		Genesis:  genesis,
	}
}

// ContractID - id of the consigned contract
func (c *Consignment[K]) ContractID() contract.ContractID {
	return c.Genesis.ContractID()
}

// SchemaID - id of the carried schema
func (c *Consignment[K]) SchemaID() contract.SchemaID {
	return c.Schema.SchemaID()
}

// AddBundle - add an anchored bundle, merging with a copy already held
func (c *Consignment[K]) AddBundle(wb contract.WitnessBundle) error {
	bid := wb.BundleID()
	for i, existing := range c.Bundles {
		if existing.BundleID() != bid {
			continue
		}
		merged, err := existing.MergeReveal(wb)
		if nil != err {
			return err
		}
		c.Bundles[i] = merged
		return nil
	}
	c.Bundles = append(c.Bundles, wb)
	return nil
}

// AddExtension - add an extension, merging with a copy already held
func (c *Consignment[K]) AddExtension(x contract.Extension) error {
	opid := x.OpID()
	for i, existing := range c.Extensions {
		if existing.OpID() != opid {
			continue
		}
		merged, err := existing.MergeReveal(x)
		if nil != err {
			return err
		}
		c.Extensions[i] = merged
		return nil
	}
	c.Extensions = append(c.Extensions, x)
	return nil
}

// AddTerminal - add terminal seals, kept sorted by bundle id
func (c *Consignment[K]) AddTerminal(t contract.Terminal) {
	for i, existing := range c.Terminals {
		if existing.Bundle == t.Bundle {
			seals := append(append([]contract.SecretSeal(nil), existing.Seals...), t.Seals...)
			c.Terminals[i] = contract.NewTerminal(t.Bundle, seals...)
			return
		}
	}
	c.Terminals = append(c.Terminals, contract.NewTerminal(t.Bundle, t.Seals...))
	sort.Slice(c.Terminals, func(i, j int) bool {
		return c.Terminals[i].Bundle.Compare(c.Terminals[j].Bundle) < 0
	})
}

// AddAttachment - store a blob, kept sorted by id
func (c *Consignment[K]) AddAttachment(data []byte) contract.AttachID {
	id := contract.AttachIDFromData(data)
	for _, a := range c.Attachments {
		if a.ID == id {
			return id
		}
	}
	c.Attachments = append(c.Attachments, Attachment{ID: id, Data: append([]byte(nil), data...)})
	sort.Slice(c.Attachments, func(i, j int) bool {
		return c.Attachments[i].ID.Compare(c.Attachments[j].ID) < 0
	})
	return id
}

// AddSignature - add a content signature unless already present
func (c *Consignment[K]) AddSignature(sig contract.ContentSignature) {
	for _, s := range c.Signatures {
		if s.Content == sig.Content && string(s.Identity) == string(sig.Identity) {
			return
		}
	}
	c.Signatures = append(c.Signatures, sig)
}

// AddIface - record an interface implementation
func (c *Consignment[K]) AddIface(impl contract.IfaceImpl) {
	for _, i := range c.Ifaces {
		if i == impl {
			return
		}
	}
	c.Ifaces = append(c.Ifaces, impl)
}

// WitnessBundle - an anchored bundle by id
func (c *Consignment[K]) WitnessBundle(bid contract.BundleID) (contract.WitnessBundle, bool) {
	for _, wb := range c.Bundles {
		if wb.BundleID() == bid {
			return wb, true
		}
	}
	return contract.WitnessBundle{}, false
}

// Operation - genesis, extension or known transition by id
func (c *Consignment[K]) Operation(opid contract.OpID) (contract.Operation, bool) {
	if c.Genesis.OpID() == opid {
		return c.Genesis, true
	}
	for _, x := range c.Extensions {
		if x.OpID() == opid {
			return x, true
		}
	}
	for _, wb := range c.Bundles {
		if t, ok := wb.Bundle.Transition(opid); ok {
			return t, true
		}
	}
	return nil, false
}

// RevealBundleSeal - reveal a seal within one bundle, returns the count
func (c *Consignment[K]) RevealBundleSeal(bid contract.BundleID, seal contract.Seal) int {
	for _, wb := range c.Bundles {
		if wb.BundleID() == bid {
			return wb.Bundle.RevealSeal(seal)
		}
	}
	return 0
}

// RevealSeal - reveal a seal everywhere it is assigned, returns the count
func (c *Consignment[K]) RevealSeal(seal contract.Seal) int {
	n := c.Genesis.RevealSeal(seal)
	for _, x := range c.Extensions {
		n += x.RevealSeal(seal)
	}
	for _, wb := range c.Bundles {
		n += wb.Bundle.RevealSeal(seal)
	}
	return n
}

// RevealTransition - add a transition to the bundle whose input map names it
func (c *Consignment[K]) RevealTransition(bid contract.BundleID, t contract.Transition) (bool, error) {
	for i := range c.Bundles {
		if c.Bundles[i].BundleID() == bid {
			return c.Bundles[i].Bundle.RevealTransition(t)
		}
	}
	return false, &contract.UnrelatedTransitionError{OpID: t.OpID(), Transition: t}
}

// Clone - deep copy
func (c *Consignment[K]) Clone() *Consignment[K] {
	n := &Consignment[K]{
		Version:  c.Version,
		Transfer: c.Transfer,
		Schema:   c.Schema,
		Genesis:  c.Genesis.Clone(),
	}
	if nil != c.Ifaces {
		n.Ifaces = append([]contract.IfaceImpl{}, c.Ifaces...)
	}
	for _, t := range c.Terminals {
		n.Terminals = append(n.Terminals, contract.Terminal{
			Bundle: t.Bundle,
			Seals:  append([]contract.SecretSeal(nil), t.Seals...),
		})
	}
	for _, wb := range c.Bundles {
		n.Bundles = append(n.Bundles, wb.Clone())
	}
	for _, x := range c.Extensions {
		n.Extensions = append(n.Extensions, x.Clone())
	}
	for _, a := range c.Attachments {
		n.Attachments = append(n.Attachments, Attachment{ID: a.ID, Data: append([]byte(nil), a.Data...)})
	}
	if nil != c.Signatures {
		n.Signatures = append([]contract.ContentSignature{}, c.Signatures...)
	}
	return n
}

// MergeReveal - combine two consignments with the same id
//
// the result holds every bundle, extension, attachment and signature
// of either side; copies of the same item are merge-revealed
func (c *Consignment[K]) MergeReveal(other *Consignment[K]) (*Consignment[K], error) {
	if c.ID() != other.ID() {
		return c, &contract.MergeError{
			Kind:   contract.MergeContractMismatch,
			Detail: "consignment " + c.ID().String() + " and " + other.ID().String(),
		}
	}

	result := c.Clone()
	genesis, err := result.Genesis.MergeReveal(other.Genesis)
	if nil != err {
		return c, err
	}
	result.Genesis = genesis

	for _, wb := range other.Bundles {
		if err := result.AddBundle(wb.Clone()); nil != err {
			return c, err
		}
	}
	for _, x := range other.Extensions {
		if err := result.AddExtension(x.Clone()); nil != err {
			return c, err
		}
	}
	for _, a := range other.Attachments {
		result.AddAttachment(a.Data)
	}
	for _, s := range other.Signatures {
		result.AddSignature(s)
	}
	for _, i := range other.Ifaces {
		result.AddIface(i)
	}
	return result, nil
}

// IntoContract - the same content as a contract consignment
func (c *Consignment[K]) IntoContract() *Contract {
	n := c.Clone()
	return &Contract{
		Version:     n.Version,
		Transfer:    false,
		Schema:      n.Schema,
		Ifaces:      n.Ifaces,
		Genesis:     n.Genesis,
		Terminals:   n.Terminals,
		Bundles:     n.Bundles,
		Extensions:  n.Extensions,
		Attachments: n.Attachments,
		Signatures:  n.Signatures,
	}
}
