// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"path/filepath"
	"sort"

	"github.com/bitmark-inc/consignd/contract"
	"github.com/bitmark-inc/consignd/fault"
	"github.com/bitmark-inc/consignd/history"
)

type stateData map[contract.ContractID]*history.ContractHistory

func (d stateData) clone() stateData {
	c := make(stateData, len(d))
	for cid, h := range d {
		c[cid] = h.Clone()
	}
	return c
}

func (d stateData) contracts() []contract.ContractID {
	ids := make([]contract.ContractID, 0, len(d))
	for cid := range d {
		ids = append(ids, cid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Compare(ids[j]) < 0 })
	return ids
}

// MemState - contract histories held in memory
type MemState struct {
	data     stateData
	snapshot stateData
	dir      string
}

// NewMemState - empty state
func NewMemState() *MemState {
	return &MemState{
		data: make(stateData),
	}
}

// LoadState - read the state file from a directory
func LoadState(dir string) (*MemState, error) {
	f := &stateFile{}
	if err := readFile(filepath.Join(dir, StateFile), stateMagic, f); nil != err {
		return nil, err
	}
	s := NewMemState()
	for _, h := range f.Histories {
		s.data[h.ContractID] = h
	}
	return s, nil
}

// Store - write the state file into a directory
func (s *MemState) Store(dir string) error {
	f := &stateFile{}
	for _, cid := range s.data.contracts() {
		f.Histories = append(f.Histories, s.data[cid])
	}
	return writeFile(filepath.Join(dir, StateFile), stateMagic, f)
}

// Persist - save to this directory on every commit, empty to stop
func (s *MemState) Persist(dir string) {
	s.dir = dir
}

func (s *MemState) BeginTransaction() error {
	if nil != s.snapshot {
		return fault.ErrTransactionInProgress
	}
	s.snapshot = s.data.clone()
	return nil
}

func (s *MemState) CommitTransaction() error {
	if nil == s.snapshot {
		return fault.ErrNoTransaction
	}
	if "" != s.dir {
		if err := s.Store(s.dir); nil != err {
			return err
		}
	}
	s.snapshot = nil
	return nil
}

func (s *MemState) RollbackTransaction() {
	if nil != s.snapshot {
		s.data = s.snapshot
		s.snapshot = nil
	}
}

func (s *MemState) ContractHistory(cid contract.ContractID) (*history.ContractHistory, error) {
	h, ok := s.data[cid]
	if !ok {
		return nil, fault.ErrUnknownContract
	}
	return h.Clone(), nil
}

func (s *MemState) HistoryContracts() ([]contract.ContractID, error) {
	return s.data.contracts(), nil
}

func (s *MemState) PutHistory(h *history.ContractHistory) error {
	s.data[h.ContractID] = h.Clone()
	return nil
}

func (s *MemState) ClearState() error {
	s.data = make(stateData)
	return nil
}
