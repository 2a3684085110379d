// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stock

import (
	"github.com/bitmark-inc/consignd/contract"
	"github.com/bitmark-inc/consignd/history"
	"github.com/bitmark-inc/consignd/storage"
)

// Transactor - the transaction bracket of one store
type Transactor interface {
	BeginTransaction() error
	CommitTransaction() error
	RollbackTransaction()
}

// StashReadProvider - read access to the consensus critical data
type StashReadProvider interface {
	Schema(contract.SchemaID) (contract.Schema, error)
	Genesis(contract.ContractID) (contract.Genesis, error)
	Contracts() ([]contract.ContractID, error)
	WitnessBundle(contract.BundleID) (contract.WitnessBundle, error)
	ContractBundles(contract.ContractID) ([]contract.BundleID, error)
	Extension(contract.OpID) (contract.Extension, error)
	ContractExtensions(contract.ContractID) ([]contract.OpID, error)
	Attachment(contract.AttachID) ([]byte, error)
	SecretSeal(contract.SecretSeal) (contract.Seal, error)
	Seals() ([]contract.Seal, error)
}

// StashWriteProvider - additions to the stash
//
// a put replaces any previous value, callers merge first
type StashWriteProvider interface {
	PutSchema(contract.Schema) error
	PutGenesis(contract.Genesis) error
	PutWitnessBundle(contract.ContractID, contract.WitnessBundle) error
	PutExtension(contract.Extension) error
	PutAttachment(contract.AttachID, []byte) error
	PutSecretSeal(contract.Seal) error
}

// StashProvider - a complete stash backend
type StashProvider interface {
	Transactor
	StashReadProvider
	StashWriteProvider
}

// StateReadProvider - read access to derived histories
type StateReadProvider interface {
	ContractHistory(contract.ContractID) (*history.ContractHistory, error)
	HistoryContracts() ([]contract.ContractID, error)
}

// StateWriteProvider - replacement of derived histories
type StateWriteProvider interface {
	PutHistory(*history.ContractHistory) error
	ClearState() error
}

// StateProvider - a complete state backend
type StateProvider interface {
	Transactor
	StateReadProvider
	StateWriteProvider
}

// IndexReadProvider - derived lookups
type IndexReadProvider interface {
	OpBundle(contract.OpID) (contract.BundleID, error)
	OpContract(contract.OpID) (contract.ContractID, error)
	BundleContract(contract.BundleID) (contract.ContractID, error)
	SealOpouts(contract.SecretSeal) ([]contract.Opout, error)
	OutpointOpouts(contract.Outpoint) ([]contract.Opout, error)
}

// IndexWriteProvider - additions to the lookups
type IndexWriteProvider interface {
	IndexOperation(contract.OpID, contract.ContractID) error
	IndexBundle(contract.BundleID, contract.ContractID, []contract.OpID) error
	IndexSeal(contract.SecretSeal, contract.Opout) error
	IndexOutpoint(contract.Outpoint, contract.Opout) error
	ClearIndex() error
}

// IndexProvider - a complete index backend
type IndexProvider interface {
	Transactor
	IndexReadProvider
	IndexWriteProvider
}

// backends that can be written to a directory
type fileStore interface {
	Store(dir string) error
}

var (
	_ StashProvider = (*storage.MemStash)(nil)
	_ StateProvider = (*storage.MemState)(nil)
	_ IndexProvider = (*storage.MemIndex)(nil)

	_ StashProvider = (*storage.LevelStash)(nil)
	_ StateProvider = (*storage.LevelState)(nil)
	_ IndexProvider = (*storage.LevelIndex)(nil)

	_ fileStore = (*storage.MemStash)(nil)
	_ fileStore = (*storage.MemState)(nil)
	_ fileStore = (*storage.MemIndex)(nil)
)
