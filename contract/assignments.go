// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"fmt"
	"sort"

	"github.com/bitmark-inc/consignd/commit"
)

// AssignmentType - schema defined owned state type
type AssignmentType uint16

// Opout - one output of an operation
type Opout struct {
	Op   OpID
	Type AssignmentType
	No   uint16
}

func (o Opout) String() string {
	return fmt.Sprintf("%s/%d/%d", o.Op, o.Type, o.No)
}

// Compare - order by operation, type then position
func (o Opout) Compare(other Opout) int {
	if c := o.Op.Compare(other.Op); 0 != c {
		return c
	}
	switch {
	case o.Type < other.Type:
		return -1
	case o.Type > other.Type:
		return 1
	case o.No < other.No:
		return -1
	case o.No > other.No:
		return 1
	}
	return 0
}

// Output - what is known about one assignment
type Output struct {
	No         uint16
	Secret     SecretSeal
	Seal       Seal
	SealKnown  bool
	State      OwnedState
	StateKnown bool
}

// TypedAssigns - the assignments of one type, all of the same shape
type TypedAssigns struct {
	Shape       StateShape
	Declarative []Assign[VoidState]
	Fungible    []Assign[RevealedValue]
	Structured  []Assign[RevealedData]
	Attachment  []Assign[RevealedAttach]
}

func DeclarativeAssigns(list ...Assign[VoidState]) TypedAssigns {
	return TypedAssigns{Shape: ShapeDeclarative, Declarative: list}
}

func FungibleAssigns(list ...Assign[RevealedValue]) TypedAssigns {
	return TypedAssigns{Shape: ShapeFungible, Fungible: list}
}

func StructuredAssigns(list ...Assign[RevealedData]) TypedAssigns {
	return TypedAssigns{Shape: ShapeStructured, Structured: list}
}

func AttachmentAssigns(list ...Assign[RevealedAttach]) TypedAssigns {
	return TypedAssigns{Shape: ShapeAttachment, Attachment: list}
}

// Len - number of assignments
func (ta TypedAssigns) Len() int {
	switch ta.Shape {
	case ShapeDeclarative:
		return len(ta.Declarative)
	case ShapeFungible:
		return len(ta.Fungible)
	case ShapeStructured:
		return len(ta.Structured)
	case ShapeAttachment:
		return len(ta.Attachment)
	}
	return 0
}

// RevealSeal - reveal a seal in every assignment it conceals
// returns the number of assignments changed
func (ta *TypedAssigns) RevealSeal(seal Seal) int {
	switch ta.Shape {
	case ShapeDeclarative:
		return revealList(ta.Declarative, seal)
	case ShapeFungible:
		return revealList(ta.Fungible, seal)
	case ShapeStructured:
		return revealList(ta.Structured, seal)
	case ShapeAttachment:
		return revealList(ta.Attachment, seal)
	}
	return 0
}

func revealList[S ExposedState](list []Assign[S], seal Seal) int {
	n := 0
	for i, a := range list {
		r := a.RevealSeal(seal)
		if r.Form != a.Form {
			list[i] = r
			n += 1
		}
	}
	return n
}

// FilterRevealedSeals - every seal held in plaintext
func (ta TypedAssigns) FilterRevealedSeals() []Seal {
	seals := []Seal{}
	for _, out := range ta.Outputs() {
		if out.SealKnown {
			seals = append(seals, out.Seal)
		}
	}
	return seals
}

// SecretSeals - concealed seals in assignment order
func (ta TypedAssigns) SecretSeals() []SecretSeal {
	outs := ta.Outputs()
	seals := make([]SecretSeal, len(outs))
	for i, out := range outs {
		seals[i] = out.Secret
	}
	return seals
}

// Outputs - per assignment view
func (ta TypedAssigns) Outputs() []Output {
	switch ta.Shape {
	case ShapeDeclarative:
		return outputList(ta.Declarative, ownedVoid)
	case ShapeFungible:
		return outputList(ta.Fungible, ownedValue)
	case ShapeStructured:
		return outputList(ta.Structured, ownedData)
	case ShapeAttachment:
		return outputList(ta.Attachment, ownedAttach)
	}
	return nil
}

func outputList[S ExposedState](list []Assign[S], wrap func(S) OwnedState) []Output {
	outs := make([]Output, len(list))
	for i, a := range list {
		outs[i] = a.output(uint16(i), wrap)
	}
	return outs
}

// Conceal - fully confidential copy
func (ta TypedAssigns) Conceal() TypedAssigns {
	return TypedAssigns{
		Shape:       ta.Shape,
		Declarative: concealList(ta.Declarative),
		Fungible:    concealList(ta.Fungible),
		Structured:  concealList(ta.Structured),
		Attachment:  concealList(ta.Attachment),
	}
}

func concealList[S ExposedState](list []Assign[S]) []Assign[S] {
	if nil == list {
		return nil
	}
	result := make([]Assign[S], len(list))
	for i, a := range list {
		result[i] = a.Conceal()
	}
	return result
}

// Clone - copy not sharing any slice
func (ta TypedAssigns) Clone() TypedAssigns {
	return TypedAssigns{
		Shape:       ta.Shape,
		Declarative: cloneList(ta.Declarative),
		Fungible:    cloneList(ta.Fungible),
		Structured:  cloneList(ta.Structured),
		Attachment:  cloneList(ta.Attachment),
	}
}

func cloneList[S ExposedState](list []Assign[S]) []Assign[S] {
	if nil == list {
		return nil
	}
	return append(make([]Assign[S], 0, len(list)), list...)
}

// MergeReveal - combine two copies of the same assignment list
func (ta TypedAssigns) MergeReveal(other TypedAssigns) (TypedAssigns, error) {
	if ta.Shape != other.Shape || ta.Len() != other.Len() {
		return ta, mergeError(MergeAssignmentMismatch, "shape %s/%d and %s/%d", ta.Shape, ta.Len(), other.Shape, other.Len())
	}
	result := TypedAssigns{Shape: ta.Shape}
	var err error
	switch ta.Shape {
	case ShapeDeclarative:
		result.Declarative, err = mergeList(ta.Declarative, other.Declarative)
	case ShapeFungible:
		result.Fungible, err = mergeList(ta.Fungible, other.Fungible)
	case ShapeStructured:
		result.Structured, err = mergeList(ta.Structured, other.Structured)
	case ShapeAttachment:
		result.Attachment, err = mergeList(ta.Attachment, other.Attachment)
	}
	if nil != err {
		return ta, err
	}
	return result, nil
}

func mergeList[S ExposedState](a []Assign[S], b []Assign[S]) ([]Assign[S], error) {
	result := make([]Assign[S], len(a))
	for i := range a {
		m, err := a[i].MergeReveal(b[i])
		if nil != err {
			return nil, err
		}
		result[i] = m
	}
	return result, nil
}

func (ta TypedAssigns) commit(e *commit.Encoder) {
	e.WriteU8(uint8(ta.Shape))
	e.WriteLen(ta.Len())
	switch ta.Shape {
	case ShapeDeclarative:
		commitList(e, ta.Declarative)
	case ShapeFungible:
		commitList(e, ta.Fungible)
	case ShapeStructured:
		commitList(e, ta.Structured)
	case ShapeAttachment:
		commitList(e, ta.Attachment)
	}
}

func commitList[S ExposedState](e *commit.Encoder, list []Assign[S]) {
	for _, a := range list {
		a.commit(e)
	}
}

// Assignments - owned state of an operation by type
type Assignments map[AssignmentType]TypedAssigns

// Types - assignment types in ascending order
func (a Assignments) Types() []AssignmentType {
	types := make([]AssignmentType, 0, len(a))
	for t := range a {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// RevealSeal - reveal a seal in every assignment it conceals
func (a Assignments) RevealSeal(seal Seal) int {
	n := 0
	for t, ta := range a {
		if c := ta.RevealSeal(seal); c > 0 {
			a[t] = ta
			n += c
		}
	}
	return n
}

// FilterRevealedSeals - every seal held in plaintext, in type order
func (a Assignments) FilterRevealedSeals() []Seal {
	seals := []Seal{}
	for _, t := range a.Types() {
		seals = append(seals, a[t].FilterRevealedSeals()...)
	}
	return seals
}

// SecretSeals - every concealed seal, in type order
func (a Assignments) SecretSeals() []SecretSeal {
	seals := []SecretSeal{}
	for _, t := range a.Types() {
		seals = append(seals, a[t].SecretSeals()...)
	}
	return seals
}

// Conceal - fully confidential copy
func (a Assignments) Conceal() Assignments {
	result := make(Assignments, len(a))
	for t, ta := range a {
		result[t] = ta.Conceal()
	}
	return result
}

// Clone - deep copy
func (a Assignments) Clone() Assignments {
	if nil == a {
		return nil
	}
	result := make(Assignments, len(a))
	for t, ta := range a {
		result[t] = ta.Clone()
	}
	return result
}

// MergeReveal - combine two copies of the same assignments
func (a Assignments) MergeReveal(other Assignments) (Assignments, error) {
	if len(a) != len(other) {
		return a, mergeError(MergeAssignmentKeys, "%d and %d types", len(a), len(other))
	}
	result := make(Assignments, len(a))
	for t, ta := range a {
		o, ok := other[t]
		if !ok {
			return a, mergeError(MergeAssignmentKeys, "type %d missing", t)
		}
		m, err := ta.MergeReveal(o)
		if nil != err {
			return a, err
		}
		result[t] = m
	}
	return result, nil
}

func (a Assignments) commit(e *commit.Encoder) {
	types := a.Types()
	e.WriteLen(len(types))
	for _, t := range types {
		e.WriteU16(uint16(t))
		a[t].commit(e)
	}
}
