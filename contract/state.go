// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"github.com/bitmark-inc/consignd/commit"
)

// StateShape - the four kinds of owned state
type StateShape uint8

const (
	ShapeDeclarative StateShape = iota
	ShapeFungible
	ShapeStructured
	ShapeAttachment
)

func (s StateShape) String() string {
	switch s {
	case ShapeDeclarative:
		return "declarative"
	case ShapeFungible:
		return "fungible"
	case ShapeStructured:
		return "structured"
	case ShapeAttachment:
		return "attachment"
	default:
		return "unknown"
	}
}

// ExposedState - plaintext state of one of the shapes
type ExposedState interface {
	Shape() StateShape
	Conceal() ConcealedState
}

// VoidState - declarative state, carries no data
type VoidState struct{}

// RevealedValue - fungible amount
type RevealedValue struct {
	Amount   uint64
	Blinding [32]byte
}

// RevealedData - structured data
type RevealedData struct {
	Value []byte
	Salt  uint64
}

// RevealedAttach - reference to attachment content
type RevealedAttach struct {
	ID        AttachID
	MediaType string
	Salt      uint64
}

func (VoidState) Shape() StateShape      { return ShapeDeclarative }
func (RevealedValue) Shape() StateShape  { return ShapeFungible }
func (RevealedData) Shape() StateShape   { return ShapeStructured }
func (RevealedAttach) Shape() StateShape { return ShapeAttachment }

func (v VoidState) Conceal() ConcealedState {
	e := commit.TagState.Encoder()
	e.WriteU8(uint8(ShapeDeclarative))
	return ConcealedState(e.Sum())
}

func (v RevealedValue) Conceal() ConcealedState {
	e := commit.TagState.Encoder()
	e.WriteU8(uint8(ShapeFungible))
	e.WriteU64(v.Amount)
	e.WriteDigest(v.Blinding)
	return ConcealedState(e.Sum())
}

func (d RevealedData) Conceal() ConcealedState {
	e := commit.TagState.Encoder()
	e.WriteU8(uint8(ShapeStructured))
	e.WriteBytes(d.Value)
	e.WriteU64(d.Salt)
	return ConcealedState(e.Sum())
}

func (a RevealedAttach) Conceal() ConcealedState {
	e := commit.TagState.Encoder()
	e.WriteU8(uint8(ShapeAttachment))
	e.WriteDigest(a.ID)
	e.WriteString(a.MediaType)
	e.WriteU64(a.Salt)
	return ConcealedState(e.Sum())
}

// OwnedState - any one of the plaintext shapes, as held in history
type OwnedState struct {
	Shape  StateShape
	Value  RevealedValue
	Data   RevealedData
	Attach RevealedAttach
}

func ownedVoid(VoidState) OwnedState { return OwnedState{Shape: ShapeDeclarative} }
func ownedValue(v RevealedValue) OwnedState {
	return OwnedState{Shape: ShapeFungible, Value: v}
}
func ownedData(d RevealedData) OwnedState {
	return OwnedState{Shape: ShapeStructured, Data: d}
}
func ownedAttach(a RevealedAttach) OwnedState {
	return OwnedState{Shape: ShapeAttachment, Attach: a}
}
