// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consignment

import (
	"encoding/hex"
	"sort"

	"github.com/bitmark-inc/consignd/commit"
	"github.com/bitmark-inc/consignd/contract"
	"github.com/bitmark-inc/consignd/idtext"
)

// ConsignmentID - commitment to the concealed content of a consignment
type ConsignmentID commit.Digest

// TransferID - a consignment id shown with the transfer prefix
type TransferID commit.Digest

func (id ConsignmentID) String() string { return idtext.Encode(idtext.ConsignmentPrefix, id) }

// GoString - hex form for debugging
func (id ConsignmentID) GoString() string { return "<consign:" + hex.EncodeToString(id[:]) + ">" }

func (id TransferID) String() string { return idtext.Encode(idtext.TransferPrefix, id) }

// ParseConsignmentID - decode the text form
func ParseConsignmentID(s string) (ConsignmentID, error) {
	payload, err := idtext.Decode(idtext.ConsignmentPrefix, s)
	return ConsignmentID(payload), err
}

// ParseTransferID - decode the text form
func ParseTransferID(s string) (TransferID, error) {
	payload, err := idtext.Decode(idtext.TransferPrefix, s)
	return TransferID(payload), err
}

// ID - commits in order to the stored kind flag, the contract id, each
// terminal (bundle id and sorted secret seals) and each attachment id
//
// bundle, anchor and operation bodies are not committed, so revealing
// data never changes the id
func (c *Consignment[K]) ID() ConsignmentID {
	e := commit.TagConsignment.Encoder()
	e.WriteBool(c.Transfer)
	e.WriteDigest(c.ContractID())

	terminals := make([]contract.Terminal, len(c.Terminals))
	for i, t := range c.Terminals {
		terminals[i] = contract.NewTerminal(t.Bundle, t.Seals...)
	}
	sort.Slice(terminals, func(i, j int) bool { return terminals[i].Bundle.Compare(terminals[j].Bundle) < 0 })

	e.WriteLen(len(terminals))
	for _, t := range terminals {
		e.WriteDigest(t.Bundle)
		e.WriteLen(len(t.Seals))
		for _, seal := range t.Seals {
			e.WriteDigest(seal)
		}
	}

	attachments := make([]contract.AttachID, len(c.Attachments))
	for i, a := range c.Attachments {
		attachments[i] = a.ID
	}
	sort.Slice(attachments, func(i, j int) bool { return attachments[i].Compare(attachments[j]) < 0 })

	e.WriteLen(len(attachments))
	for _, id := range attachments {
		e.WriteDigest(id)
	}
	return ConsignmentID(e.Sum())
}

// TransferID - the id in its transfer form
func (c *Consignment[K]) TransferID() TransferID {
	return TransferID(c.ID())
}
