// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package stock - coordinates the stash, state and index stores
//
// the stash is the only store that cannot be recomputed, state and
// index are derived from it and may be regenerated at any time
package stock

import (
	"errors"
	"fmt"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/consignd/contract"
	"github.com/bitmark-inc/consignd/fault"
	"github.com/bitmark-inc/consignd/history"
	"github.com/bitmark-inc/consignd/storage"
)

// Stock - the three stores used together
//
// there is no locking, callers serialise access
type Stock struct {
	log   *logger.L
	stash StashProvider
	state StateProvider
	index IndexProvider
}

// New - stock over the given backends
func New(stash StashProvider, state StateProvider, index IndexProvider) *Stock {
	return &Stock{
		log:   logger.New("stock"),
		stash: stash,
		state: state,
		index: index,
	}
}

// InMemory - empty stock held in memory
func InMemory() *Stock {
	return New(storage.NewMemStash(), storage.NewMemState(), storage.NewMemIndex())
}

// FromDatabase - stock over the stores of an open database
func FromDatabase(d *storage.Database) *Stock {
	return New(d.Stash(), d.State(), d.Index())
}

// Load - read all three store files from a directory
//
// the stock is only built when every file loads, later commits save
// back to the same directory
func Load(dir string) (*Stock, error) {
	stash, err := storage.LoadStash(dir)
	if nil != err {
		return nil, err
	}
	state, err := storage.LoadState(dir)
	if nil != err {
		return nil, err
	}
	index, err := storage.LoadIndex(dir)
	if nil != err {
		return nil, err
	}

	stash.Persist(dir)
	state.Persist(dir)
	index.Persist(dir)

	s := New(stash, state, index)
	s.log.Infof("loaded from: %q", dir)
	return s, nil
}

// Store - write all three stores to a directory
func (s *Stock) Store(dir string) error {
	for _, p := range []interface{}{s.stash, s.state, s.index} {
		f, ok := p.(fileStore)
		if !ok {
			return fault.ErrNotFileBacked
		}
		if err := f.Store(dir); nil != err {
			return err
		}
	}
	return nil
}

// BeginTransaction - open a transaction on all three stores
func (s *Stock) BeginTransaction() error {
	if err := s.stash.BeginTransaction(); nil != err {
		return err
	}
	if err := s.state.BeginTransaction(); nil != err {
		s.stash.RollbackTransaction()
		return err
	}
	if err := s.index.BeginTransaction(); nil != err {
		s.state.RollbackTransaction()
		s.stash.RollbackTransaction()
		return err
	}
	return nil
}

// CommitTransaction - commit the stash, then the derived stores
//
// if a derived store fails after the stash is committed it is rolled
// back and the error matches fault.ErrStateInconsistency as well as
// its cause; Regenerate brings state and index back in line
func (s *Stock) CommitTransaction() error {
	if err := s.stash.CommitTransaction(); nil != err {
		s.state.RollbackTransaction()
		s.index.RollbackTransaction()
		s.stash.RollbackTransaction()
		return err
	}
	if err := s.state.CommitTransaction(); nil != err {
		s.log.Errorf("state commit failed after stash commit: %s", err)
		s.index.RollbackTransaction()
		s.state.RollbackTransaction()
		return fmt.Errorf("%w: state commit: %w", fault.ErrStateInconsistency, err)
	}
	if err := s.index.CommitTransaction(); nil != err {
		s.log.Errorf("index commit failed after stash commit: %s", err)
		s.index.RollbackTransaction()
		return fmt.Errorf("%w: index commit: %w", fault.ErrStateInconsistency, err)
	}
	return nil
}

// RollbackTransaction - discard all changes since begin
func (s *Stock) RollbackTransaction() {
	s.index.RollbackTransaction()
	s.state.RollbackTransaction()
	s.stash.RollbackTransaction()
}

// run f inside a transaction, rolling back if it fails
func (s *Stock) transaction(f func() error) error {
	if err := s.BeginTransaction(); nil != err {
		return err
	}
	if err := f(); nil != err {
		s.RollbackTransaction()
		return err
	}
	return s.CommitTransaction()
}

// Contracts - ids of every contract in the stash
func (s *Stock) Contracts() ([]contract.ContractID, error) {
	return s.stash.Contracts()
}

// ContractHistory - the current history of a contract
func (s *Stock) ContractHistory(cid contract.ContractID) (*history.ContractHistory, error) {
	h, err := s.state.ContractHistory(cid)
	if errors.Is(err, fault.ErrUnknownContract) {
		return nil, &UnknownContractError{ContractID: cid}
	}
	return h, err
}

// CreateOrUpdateState - install the history produced by updater
//
// updater receives nil for a contract with no history
func (s *Stock) CreateOrUpdateState(cid contract.ContractID, updater func(*history.ContractHistory) (*history.ContractHistory, error)) error {
	h, err := s.state.ContractHistory(cid)
	if errors.Is(err, fault.ErrUnknownContract) {
		h = nil
	} else if nil != err {
		return err
	}

	h, err = updater(h)
	if nil != err {
		return err
	}
	if nil == h || h.ContractID != cid {
		return fault.ErrContractMismatch
	}
	return s.state.PutHistory(h)
}

// UpdateState - change an existing history
func (s *Stock) UpdateState(cid contract.ContractID, transformer func(*history.ContractHistory) error) error {
	h, err := s.ContractHistory(cid)
	if nil != err {
		return err
	}
	if err := transformer(h); nil != err {
		return err
	}
	if h.ContractID != cid {
		return fault.ErrContractMismatch
	}
	return s.state.PutHistory(h)
}

// StoreSecretSeal - remember a seal so incoming state can be revealed
func (s *Stock) StoreSecretSeal(seal contract.Seal) error {
	if err := s.stash.BeginTransaction(); nil != err {
		return err
	}
	if err := s.stash.PutSecretSeal(seal); nil != err {
		s.stash.RollbackTransaction()
		return err
	}
	return s.stash.CommitTransaction()
}

// ImportSchema - add a schema to the stash
func (s *Stock) ImportSchema(schema contract.Schema) error {
	if err := s.stash.BeginTransaction(); nil != err {
		return err
	}
	if err := s.stash.PutSchema(schema); nil != err {
		s.stash.RollbackTransaction()
		return err
	}
	s.log.Infof("schema: %s  name: %q", schema.SchemaID(), schema.Name)
	return s.stash.CommitTransaction()
}
