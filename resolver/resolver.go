// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package resolver - witness lookup
//
// a resolver returns witness transactions and their position on the
// chain; it answers fault.ErrUnknownWitness for a witness it has never
// seen and wraps transport problems in a fault.ConnectivityError
package resolver

import (
	"sync"

	"github.com/bitmark-inc/consignd/contract"
	"github.com/bitmark-inc/consignd/fault"
)

//go:generate mockgen -destination=../mocks/resolver.go -package=mocks github.com/bitmark-inc/consignd/resolver WitnessResolver

// WitnessResolver - source of witness data and ordering
type WitnessResolver interface {
	ResolvePubWitness(txid contract.Txid) (contract.PubWitness, error)
	ResolveWitnessOrd(txid contract.Txid) (contract.WitnessOrd, error)
}

type staticEntry struct {
	witness contract.PubWitness
	ord     contract.WitnessOrd
}

// Static - resolver over a fixed set of witnesses
type Static struct {
	sync.RWMutex
	entries map[contract.Txid]staticEntry
}

// NewStatic - empty static resolver
func NewStatic() *Static {
	return &Static{
		entries: make(map[contract.Txid]staticEntry),
	}
}

// Add - make a witness known at a position
func (s *Static) Add(witness contract.PubWitness, ord contract.WitnessOrd) {
	s.Lock()
	defer s.Unlock()
	s.entries[witness.Txid] = staticEntry{witness: witness, ord: ord}
}

// ResolvePubWitness - the stored witness
func (s *Static) ResolvePubWitness(txid contract.Txid) (contract.PubWitness, error) {
	s.RLock()
	defer s.RUnlock()
	e, ok := s.entries[txid]
	if !ok {
		return contract.PubWitness{}, fault.ErrUnknownWitness
	}
	return e.witness, nil
}

// ResolveWitnessOrd - the stored position
func (s *Static) ResolveWitnessOrd(txid contract.Txid) (contract.WitnessOrd, error) {
	s.RLock()
	defer s.RUnlock()
	e, ok := s.entries[txid]
	if !ok {
		return contract.WitnessOrd{}, fault.ErrUnknownWitness
	}
	return e.ord, nil
}

// Offline - resolver used without chain access
//
// no witness body is ever found and every witness is tentative
type Offline struct{}

func (Offline) ResolvePubWitness(txid contract.Txid) (contract.PubWitness, error) {
	return contract.PubWitness{}, fault.ErrUnknownWitness
}

func (Offline) ResolveWitnessOrd(txid contract.Txid) (contract.WitnessOrd, error) {
	return contract.TentativeOrd(), nil
}
