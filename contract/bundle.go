// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"sort"

	"github.com/bitmark-inc/consignd/codec"
	"github.com/bitmark-inc/consignd/commit"
	"github.com/bitmark-inc/consignd/fault"
)

// Vin - input position in the witness transaction
type Vin uint32

// TransitionBundle - the transitions of one contract closed by one witness
//
// the input map fixes which transition spends each witness input and
// is never changed after construction; the known transitions are those
// the holder has been shown, always a subset of the input map
type TransitionBundle struct {
	inputMap         map[Vin]OpID
	knownTransitions map[OpID]Transition
}

// NewTransitionBundle - build a bundle, checking every transition is referenced
func NewTransitionBundle(inputMap map[Vin]OpID, transitions ...Transition) (TransitionBundle, error) {
	b := TransitionBundle{
		inputMap:         make(map[Vin]OpID, len(inputMap)),
		knownTransitions: make(map[OpID]Transition, len(transitions)),
	}
	if 0 == len(inputMap) {
		return b, fault.ErrEmptyBundle
	}
	for vin, opid := range inputMap {
		b.inputMap[vin] = opid
	}
	for _, t := range transitions {
		opid := t.OpID()
		if !b.References(opid) {
			return b, fault.ErrTransitionNotInInputMap
		}
		b.knownTransitions[opid] = t.Clone()
	}
	return b, nil
}

// BundleID - commitment to the input map only
func (b TransitionBundle) BundleID() BundleID {
	vins := b.vins()
	e := commit.TagBundle.Encoder()
	e.WriteLen(len(vins))
	for _, vin := range vins {
		e.WriteU32(uint32(vin))
		e.WriteDigest(b.inputMap[vin])
	}
	return BundleID(e.Sum())
}

func (b TransitionBundle) vins() []Vin {
	vins := make([]Vin, 0, len(b.inputMap))
	for vin := range b.inputMap {
		vins = append(vins, vin)
	}
	sort.Slice(vins, func(i, j int) bool { return vins[i] < vins[j] })
	return vins
}

// InputMap - copy of the input map
func (b TransitionBundle) InputMap() map[Vin]OpID {
	m := make(map[Vin]OpID, len(b.inputMap))
	for vin, opid := range b.inputMap {
		m[vin] = opid
	}
	return m
}

// OpIDs - distinct operations named by the input map, ascending
func (b TransitionBundle) OpIDs() []OpID {
	seen := make(map[OpID]struct{}, len(b.inputMap))
	ids := make([]OpID, 0, len(b.inputMap))
	for _, opid := range b.inputMap {
		if _, ok := seen[opid]; !ok {
			seen[opid] = struct{}{}
			ids = append(ids, opid)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Compare(ids[j]) < 0 })
	return ids
}

// References - true if the input map names the operation
func (b TransitionBundle) References(opid OpID) bool {
	for _, id := range b.inputMap {
		if id == opid {
			return true
		}
	}
	return false
}

// IsKnown - true if the transition has been revealed
func (b TransitionBundle) IsKnown(opid OpID) bool {
	_, ok := b.knownTransitions[opid]
	return ok
}

// Transition - a revealed transition
func (b TransitionBundle) Transition(opid OpID) (Transition, bool) {
	t, ok := b.knownTransitions[opid]
	return t, ok
}

// KnownTransitions - revealed transitions in opid order
func (b TransitionBundle) KnownTransitions() []Transition {
	ids := make([]OpID, 0, len(b.knownTransitions))
	for opid := range b.knownTransitions {
		ids = append(ids, opid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Compare(ids[j]) < 0 })

	list := make([]Transition, len(ids))
	for i, opid := range ids {
		list[i] = b.knownTransitions[opid]
	}
	return list
}

// RevealSeal - reveal a seal in every known transition
func (b TransitionBundle) RevealSeal(seal Seal) int {
	n := 0
	for _, t := range b.knownTransitions {
		n += t.RevealSeal(seal)
	}
	return n
}

// RevealTransition - add a transition the input map refers to
//
// returns true if newly revealed, false if already known, and an
// UnrelatedTransitionError if the input map does not name it
func (b *TransitionBundle) RevealTransition(t Transition) (bool, error) {
	opid := t.OpID()
	if !b.References(opid) {
		return false, &UnrelatedTransitionError{OpID: opid, Transition: t}
	}
	if b.IsKnown(opid) {
		return false, nil
	}

	size := len(b.inputMap)
	b.knownTransitions[opid] = t.Clone()
	if len(b.inputMap) != size {
		fault.Panicf("contract: bundle %s input map changed size: %d -> %d", b.BundleID(), size, len(b.inputMap))
	}
	return true, nil
}

// Clone - deep copy
func (b TransitionBundle) Clone() TransitionBundle {
	c := TransitionBundle{
		inputMap:         b.InputMap(),
		knownTransitions: make(map[OpID]Transition, len(b.knownTransitions)),
	}
	for opid, t := range b.knownTransitions {
		c.knownTransitions[opid] = t.Clone()
	}
	return c
}

// MergeReveal - union of known transitions, merging those known to both
func (b TransitionBundle) MergeReveal(other TransitionBundle) (TransitionBundle, error) {
	if b.BundleID() != other.BundleID() {
		return b, mergeError(MergeBundleMismatch, "bundle %s and %s", b.BundleID(), other.BundleID())
	}
	result := b.Clone()
	for opid, t := range other.knownTransitions {
		existing, ok := result.knownTransitions[opid]
		if !ok {
			result.knownTransitions[opid] = t.Clone()
			continue
		}
		merged, err := existing.MergeReveal(t)
		if nil != err {
			return b, err
		}
		result.knownTransitions[opid] = merged
	}
	return result, nil
}

// serialised form
type bundleInput struct {
	Vin Vin
	Op  OpID
}

type bundleRecord struct {
	InputMap    []bundleInput
	Transitions []Transition
}

// MarshalCBOR - encode with the input map as a sorted list
func (b TransitionBundle) MarshalCBOR() ([]byte, error) {
	r := bundleRecord{
		InputMap:    make([]bundleInput, 0, len(b.inputMap)),
		Transitions: b.KnownTransitions(),
	}
	for _, vin := range b.vins() {
		r.InputMap = append(r.InputMap, bundleInput{Vin: vin, Op: b.inputMap[vin]})
	}
	return codec.Marshal(r)
}

// UnmarshalCBOR - decode, rejecting transitions outside the input map
func (b *TransitionBundle) UnmarshalCBOR(data []byte) error {
	r := bundleRecord{}
	if err := codec.Unmarshal(data, &r); nil != err {
		return err
	}
	inputMap := make(map[Vin]OpID, len(r.InputMap))
	for _, in := range r.InputMap {
		inputMap[in.Vin] = in.Op
	}
	nb, err := NewTransitionBundle(inputMap, r.Transitions...)
	if nil != err {
		return err
	}
	*b = nb
	return nil
}
