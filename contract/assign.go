// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"github.com/bitmark-inc/consignd/commit"
	"github.com/bitmark-inc/consignd/fault"
)

// Form - how much of an assignment is known
type Form uint8

const (
	FormRevealed Form = iota + 1
	FormConfidential
	FormConfidentialSeal
	FormConfidentialState
)

func (f Form) String() string {
	switch f {
	case FormRevealed:
		return "revealed"
	case FormConfidential:
		return "confidential"
	case FormConfidentialSeal:
		return "confidential-seal"
	case FormConfidentialState:
		return "confidential-state"
	default:
		return "invalid"
	}
}

// Assign - state of shape S bound to a seal
//
// which fields are meaningful depends on Form:
//
//   FormRevealed           Seal, State
//   FormConfidential       SealHash, StateHash
//   FormConfidentialSeal   SealHash, State
//   FormConfidentialState  Seal, StateHash
type Assign[S ExposedState] struct {
	Form      Form
	Seal      Seal
	SealHash  SecretSeal
	State     S
	StateHash ConcealedState
}

// RevealedAssign - seal and state both known
func RevealedAssign[S ExposedState](seal Seal, state S) Assign[S] {
	return Assign[S]{Form: FormRevealed, Seal: seal, State: state}
}

// ConfidentialAssign - nothing known beyond the commitments
func ConfidentialAssign[S ExposedState](seal SecretSeal, state ConcealedState) Assign[S] {
	return Assign[S]{Form: FormConfidential, SealHash: seal, StateHash: state}
}

// ConfidentialSealAssign - state known, seal concealed
func ConfidentialSealAssign[S ExposedState](seal SecretSeal, state S) Assign[S] {
	return Assign[S]{Form: FormConfidentialSeal, SealHash: seal, State: state}
}

// ConfidentialStateAssign - seal known, state concealed
func ConfidentialStateAssign[S ExposedState](seal Seal, state ConcealedState) Assign[S] {
	return Assign[S]{Form: FormConfidentialState, Seal: seal, StateHash: state}
}

func (a Assign[S]) invalid() {
	fault.Panicf("contract: assignment has invalid form: %d", a.Form)
}

// SecretSeal - the concealed seal whatever the form
func (a Assign[S]) SecretSeal() SecretSeal {
	switch a.Form {
	case FormRevealed, FormConfidentialState:
		return a.Seal.Conceal()
	case FormConfidential, FormConfidentialSeal:
		return a.SealHash
	}
	a.invalid()
	return SecretSeal{}
}

// ConcealedState - the concealed state whatever the form
func (a Assign[S]) ConcealedState() ConcealedState {
	switch a.Form {
	case FormRevealed, FormConfidentialSeal:
		return a.State.Conceal()
	case FormConfidential, FormConfidentialState:
		return a.StateHash
	}
	a.invalid()
	return ConcealedState{}
}

// RevealedSeal - the plaintext seal if known
func (a Assign[S]) RevealedSeal() (Seal, bool) {
	switch a.Form {
	case FormRevealed, FormConfidentialState:
		return a.Seal, true
	case FormConfidential, FormConfidentialSeal:
		return Seal{}, false
	}
	a.invalid()
	return Seal{}, false
}

// RevealedState - the plaintext state if known
func (a Assign[S]) RevealedState() (S, bool) {
	var zero S
	switch a.Form {
	case FormRevealed, FormConfidentialSeal:
		return a.State, true
	case FormConfidential, FormConfidentialState:
		return zero, false
	}
	a.invalid()
	return zero, false
}

// Conceal - fully confidential copy
func (a Assign[S]) Conceal() Assign[S] {
	return ConfidentialAssign[S](a.SecretSeal(), a.ConcealedState())
}

// RevealSeal - move a concealed seal to plaintext if it matches
//
// anything else, including a seal whose concealment does not match,
// returns the assignment unchanged
func (a Assign[S]) RevealSeal(seal Seal) Assign[S] {
	switch a.Form {
	case FormConfidential:
		if a.SealHash == seal.Conceal() {
			return ConfidentialStateAssign[S](seal, a.StateHash)
		}
	case FormConfidentialSeal:
		if a.SealHash == seal.Conceal() {
			return RevealedAssign(seal, a.State)
		}
	case FormRevealed, FormConfidentialState:
	default:
		a.invalid()
	}
	return a
}

// MergeReveal - combine two copies of the same assignment
func (a Assign[S]) MergeReveal(b Assign[S]) (Assign[S], error) {
	secret := a.SecretSeal()
	concealed := a.ConcealedState()
	if secret != b.SecretSeal() || concealed != b.ConcealedState() {
		return a, mergeError(MergeAssignmentMismatch, "commitments differ")
	}

	seal, hasSeal := a.RevealedSeal()
	if other, ok := b.RevealedSeal(); ok {
		if hasSeal && other != seal {
			return a, mergeError(MergeSealConflict, "seal %s", secret)
		}
		seal, hasSeal = other, true
	}

	state, hasState := a.RevealedState()
	if other, ok := b.RevealedState(); ok {
		if hasState && other.Conceal() != state.Conceal() {
			return a, mergeError(MergeStateConflict, "state %s", concealed)
		}
		state, hasState = other, true
	}

	switch {
	case hasSeal && hasState:
		return RevealedAssign(seal, state), nil
	case hasSeal:
		return ConfidentialStateAssign[S](seal, concealed), nil
	case hasState:
		return ConfidentialSealAssign(secret, state), nil
	default:
		return ConfidentialAssign[S](secret, concealed), nil
	}
}

// owned output view, for building history
func (a Assign[S]) output(no uint16, wrap func(S) OwnedState) Output {
	out := Output{
		No:     no,
		Secret: a.SecretSeal(),
	}
	out.Seal, out.SealKnown = a.RevealedSeal()
	if s, ok := a.RevealedState(); ok {
		out.State = wrap(s)
		out.StateKnown = true
	}
	return out
}

func (a Assign[S]) commit(e *commit.Encoder) {
	e.WriteDigest(a.SecretSeal())
	e.WriteDigest(a.ConcealedState())
}
