// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"fmt"

	"github.com/bitmark-inc/consignd/commit"
)

// Outpoint - a transaction output
type Outpoint struct {
	Txid Txid
	Vout uint32
}

func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.Txid, o.Vout)
}

// Compare - order by txid then output number
func (o Outpoint) Compare(other Outpoint) int {
	if c := o.Txid.Compare(other.Txid); 0 != c {
		return c
	}
	switch {
	case o.Vout < other.Vout:
		return -1
	case o.Vout > other.Vout:
		return 1
	}
	return 0
}

// Seal - a single-use seal over a transaction output
//
// a zero txid refers to an output of the witness transaction that
// carries the operation defining the seal
type Seal struct {
	Txid     Txid
	Vout     uint32
	Blinding uint64
}

// NewSeal - seal over an existing output
func NewSeal(txid Txid, vout uint32, blinding uint64) Seal {
	return Seal{
		Txid:     txid,
		Vout:     vout,
		Blinding: blinding,
	}
}

// WitnessSeal - seal over an output of the witness transaction
func WitnessSeal(vout uint32, blinding uint64) Seal {
	return Seal{
		Vout:     vout,
		Blinding: blinding,
	}
}

// IsWitnessRelative - true if the txid comes from the witness
func (s Seal) IsWitnessRelative() bool {
	return s.Txid.IsZero()
}

// Resolve - fill in the witness txid for a witness relative seal
func (s Seal) Resolve(witness Txid) Seal {
	if s.IsWitnessRelative() {
		s.Txid = witness
	}
	return s
}

// Outpoint - the output closed by the seal, false if witness relative
func (s Seal) Outpoint() (Outpoint, bool) {
	if s.IsWitnessRelative() {
		return Outpoint{}, false
	}
	return Outpoint{Txid: s.Txid, Vout: s.Vout}, true
}

// Conceal - the secret seal committed to by operations
func (s Seal) Conceal() SecretSeal {
	e := commit.TagSeal.Encoder()
	e.WriteDigest(s.Txid)
	e.WriteU32(s.Vout)
	e.WriteU64(s.Blinding)
	return SecretSeal(e.Sum())
}
