// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"bytes"
	"sort"

	"github.com/bitmark-inc/consignd/commit"
)

// OpKind - the three kinds of operation, in history order
type OpKind uint8

const (
	OpGenesis OpKind = iota
	OpExtension
	OpTransition
)

func (k OpKind) String() string {
	switch k {
	case OpGenesis:
		return "genesis"
	case OpExtension:
		return "extension"
	case OpTransition:
		return "transition"
	default:
		return "unknown"
	}
}

// GlobalType - schema defined global state type
type GlobalType uint16

// GlobalState - global state values by type
type GlobalState map[GlobalType][][]byte

// Types - global types in ascending order
func (g GlobalState) Types() []GlobalType {
	types := make([]GlobalType, 0, len(g))
	for t := range g {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Clone - deep copy
func (g GlobalState) Clone() GlobalState {
	if nil == g {
		return nil
	}
	result := make(GlobalState, len(g))
	for t, values := range g {
		c := make([][]byte, len(values))
		for i, v := range values {
			c[i] = append([]byte{}, v...)
		}
		result[t] = c
	}
	return result
}

func (g GlobalState) commit(e *commit.Encoder) {
	types := g.Types()
	e.WriteLen(len(types))
	for _, t := range types {
		e.WriteU16(uint16(t))
		e.WriteLen(len(g[t]))
		for _, v := range g[t] {
			e.WriteBytes(v)
		}
	}
}

// Operation - common view of genesis, extensions and transitions
type Operation interface {
	OpID() OpID
	Kind() OpKind
	ContractID() ContractID
	Type() uint16
	Globals() GlobalState
	Owned() Assignments
	Inputs() []Opout
}

// Genesis - the first operation of a contract
type Genesis struct {
	SchemaID    SchemaID
	Timestamp   int64
	Testnet     bool
	Metadata    []byte
	GlobalState GlobalState
	Assignments Assignments
}

// Extension - operation redeeming public rights of a contract
type Extension struct {
	Contract      ContractID
	ExtensionType uint16
	Metadata      []byte
	GlobalState   GlobalState
	Redeemed      []OpID
	Assignments   Assignments
}

// Transition - operation spending owned state
//
// the signature is not part of the operation id
type Transition struct {
	Contract       ContractID
	TransitionType uint16
	Nonce          uint64
	Metadata       []byte
	GlobalState    GlobalState
	Prevouts       []Opout
	Assignments    Assignments
	Signature      []byte
}

var (
	_ Operation = Genesis{}
	_ Operation = Extension{}
	_ Operation = Transition{}
)

func (g Genesis) OpID() OpID {
	e := commit.TagOperation.Encoder()
	e.WriteU8(uint8(OpGenesis))
	e.WriteDigest(g.SchemaID)
	e.WriteI64(g.Timestamp)
	e.WriteBool(g.Testnet)
	e.WriteBytes(g.Metadata)
	g.GlobalState.commit(e)
	g.Assignments.commit(e)
	return OpID(e.Sum())
}

func (g Genesis) Kind() OpKind             { return OpGenesis }
func (g Genesis) ContractID() ContractID   { return ContractID(g.OpID()) }
func (g Genesis) Type() uint16             { return 0 }
func (g Genesis) Globals() GlobalState     { return g.GlobalState }
func (g Genesis) Owned() Assignments       { return g.Assignments }
func (g Genesis) Inputs() []Opout          { return nil }
func (g Genesis) RevealSeal(seal Seal) int { return g.Assignments.RevealSeal(seal) }

// Clone - deep copy
func (g Genesis) Clone() Genesis {
	g.Metadata = append([]byte(nil), g.Metadata...)
	g.GlobalState = g.GlobalState.Clone()
	g.Assignments = g.Assignments.Clone()
	return g
}

// MergeReveal - combine two copies of the genesis
func (g Genesis) MergeReveal(other Genesis) (Genesis, error) {
	if g.OpID() != other.OpID() {
		return g, mergeError(MergeOperationMismatch, "genesis %s and %s", g.OpID(), other.OpID())
	}
	a, err := g.Assignments.MergeReveal(other.Assignments)
	if nil != err {
		return g, err
	}
	result := g.Clone()
	result.Assignments = a
	return result, nil
}

func (x Extension) OpID() OpID {
	e := commit.TagOperation.Encoder()
	e.WriteU8(uint8(OpExtension))
	e.WriteDigest(x.Contract)
	e.WriteU16(x.ExtensionType)
	e.WriteBytes(x.Metadata)
	x.GlobalState.commit(e)
	e.WriteLen(len(x.Redeemed))
	for _, r := range x.Redeemed {
		e.WriteDigest(r)
	}
	x.Assignments.commit(e)
	return OpID(e.Sum())
}

func (x Extension) Kind() OpKind             { return OpExtension }
func (x Extension) ContractID() ContractID   { return x.Contract }
func (x Extension) Type() uint16             { return x.ExtensionType }
func (x Extension) Globals() GlobalState     { return x.GlobalState }
func (x Extension) Owned() Assignments       { return x.Assignments }
func (x Extension) Inputs() []Opout          { return nil }
func (x Extension) RevealSeal(seal Seal) int { return x.Assignments.RevealSeal(seal) }

// Clone - deep copy
func (x Extension) Clone() Extension {
	x.Metadata = append([]byte(nil), x.Metadata...)
	x.GlobalState = x.GlobalState.Clone()
	x.Redeemed = append([]OpID(nil), x.Redeemed...)
	x.Assignments = x.Assignments.Clone()
	return x
}

// MergeReveal - combine two copies of an extension
func (x Extension) MergeReveal(other Extension) (Extension, error) {
	if x.OpID() != other.OpID() {
		return x, mergeError(MergeOperationMismatch, "extension %s and %s", x.OpID(), other.OpID())
	}
	a, err := x.Assignments.MergeReveal(other.Assignments)
	if nil != err {
		return x, err
	}
	result := x.Clone()
	result.Assignments = a
	return result, nil
}

func (t Transition) OpID() OpID {
	e := commit.TagOperation.Encoder()
	e.WriteU8(uint8(OpTransition))
	e.WriteDigest(t.Contract)
	e.WriteU16(t.TransitionType)
	e.WriteU64(t.Nonce)
	e.WriteBytes(t.Metadata)
	t.GlobalState.commit(e)
	e.WriteLen(len(t.Prevouts))
	for _, p := range t.Prevouts {
		e.WriteDigest(p.Op)
		e.WriteU16(uint16(p.Type))
		e.WriteU16(p.No)
	}
	t.Assignments.commit(e)
	return OpID(e.Sum())
}

func (t Transition) Kind() OpKind           { return OpTransition }
func (t Transition) ContractID() ContractID { return t.Contract }
func (t Transition) Type() uint16           { return t.TransitionType }
func (t Transition) Globals() GlobalState   { return t.GlobalState }
func (t Transition) Owned() Assignments     { return t.Assignments }
func (t Transition) Inputs() []Opout        { return t.Prevouts }

// RevealSeal - reveal in place, the assignments map is shared by copies
func (t Transition) RevealSeal(seal Seal) int { return t.Assignments.RevealSeal(seal) }

// Clone - deep copy
func (t Transition) Clone() Transition {
	t.Metadata = append([]byte(nil), t.Metadata...)
	t.GlobalState = t.GlobalState.Clone()
	t.Prevouts = append([]Opout(nil), t.Prevouts...)
	t.Assignments = t.Assignments.Clone()
	t.Signature = append([]byte(nil), t.Signature...)
	return t
}

// MergeReveal - combine two copies of a transition
//
// a signature present on only one side is kept, two different
// signatures are a conflict
func (t Transition) MergeReveal(other Transition) (Transition, error) {
	if t.OpID() != other.OpID() {
		return t, mergeError(MergeOperationMismatch, "transition %s and %s", t.OpID(), other.OpID())
	}

	signature := t.Signature
	if 0 == len(signature) {
		signature = other.Signature
	} else if 0 != len(other.Signature) && !bytes.Equal(signature, other.Signature) {
		return t, mergeError(MergeSignatureMismatch, "transition %s", t.OpID())
	}

	a, err := t.Assignments.MergeReveal(other.Assignments)
	if nil != err {
		return t, err
	}
	result := t.Clone()
	result.Assignments = a
	result.Signature = append([]byte(nil), signature...)
	return result, nil
}
