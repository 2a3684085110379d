// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/bitmark-inc/consignd/contract"
	"github.com/bitmark-inc/consignd/fault"
	"github.com/bitmark-inc/consignd/history"
)

// keys:
//
//   S ++ schema id                  - schema
//   G ++ contract id                - genesis
//   B ++ bundle id                  - contract id and anchored bundle
//   D ++ contract id ++ bundle id   - (empty)
//   E ++ opid                       - extension
//   X ++ contract id ++ opid        - (empty)
//   A ++ attachment id              - raw attachment
//   K ++ secret seal                - seal
//   H ++ contract id                - contract history
//   O ++ opid                       - bundle id
//   C ++ opid                       - contract id
//   N ++ bundle id                  - contract id
//   L ++ secret seal ++ opout       - (empty)
//   P ++ txid ++ vout ++ opout      - (empty)

// transaction bracket shared by the three stores
type levelTransactor struct {
	access Access
}

func (t levelTransactor) BeginTransaction() error  { return t.access.Begin() }
func (t levelTransactor) CommitTransaction() error { return t.access.Commit() }
func (t levelTransactor) RollbackTransaction()     { t.access.Abort() }

func mapIDs[T ~[32]byte](p *PoolHandle, sub []byte) ([]T, error) {
	ids := []T{}
	err := p.Map(sub, func(key []byte, value []byte) error {
		if len(key) != len(sub)+32 {
			return fault.ErrStashInconsistency
		}
		raw := [32]byte{}
		copy(raw[:], key[len(sub):])
		ids = append(ids, T(raw))
		return nil
	})
	return ids, err
}

func mapOpouts(p *PoolHandle, sub []byte) ([]contract.Opout, error) {
	opouts := []contract.Opout{}
	err := p.Map(sub, func(key []byte, value []byte) error {
		o, ok := opoutFromKey(key[len(sub):])
		if !ok {
			return fault.ErrIndexInconsistency
		}
		opouts = append(opouts, o)
		return nil
	})
	return opouts, err
}

// LevelStash - stash in the database
type LevelStash struct {
	access Access
	pools  *pools
}

func (s *LevelStash) BeginTransaction() error  { return levelTransactor{s.access}.BeginTransaction() }
func (s *LevelStash) CommitTransaction() error { return levelTransactor{s.access}.CommitTransaction() }
func (s *LevelStash) RollbackTransaction()     { levelTransactor{s.access}.RollbackTransaction() }

func (s *LevelStash) Schema(id contract.SchemaID) (contract.Schema, error) {
	schema := contract.Schema{}
	found, err := s.pools.Schemata.getRecord(id[:], &schema)
	if nil != err {
		return contract.Schema{}, err
	}
	if !found {
		return contract.Schema{}, fault.ErrUnknownSchema
	}
	return schema, nil
}

func (s *LevelStash) Genesis(cid contract.ContractID) (contract.Genesis, error) {
	g := contract.Genesis{}
	found, err := s.pools.Geneses.getRecord(cid[:], &g)
	if nil != err {
		return contract.Genesis{}, err
	}
	if !found {
		return contract.Genesis{}, fault.ErrUnknownContract
	}
	return g, nil
}

func (s *LevelStash) Contracts() ([]contract.ContractID, error) {
	return mapIDs[contract.ContractID](s.pools.Geneses, nil)
}

func (s *LevelStash) WitnessBundle(bid contract.BundleID) (contract.WitnessBundle, error) {
	r := bundleRecord{}
	found, err := s.pools.Bundles.getRecord(bid[:], &r)
	if nil != err {
		return contract.WitnessBundle{}, err
	}
	if !found {
		return contract.WitnessBundle{}, fault.ErrUnknownBundle
	}
	return r.Bundle, nil
}

func (s *LevelStash) ContractBundles(cid contract.ContractID) ([]contract.BundleID, error) {
	return mapIDs[contract.BundleID](s.pools.ContractBundles, cid[:])
}

func (s *LevelStash) Extension(opid contract.OpID) (contract.Extension, error) {
	x := contract.Extension{}
	found, err := s.pools.Extensions.getRecord(opid[:], &x)
	if nil != err {
		return contract.Extension{}, err
	}
	if !found {
		return contract.Extension{}, fault.ErrUnknownOperation
	}
	return x, nil
}

func (s *LevelStash) ContractExtensions(cid contract.ContractID) ([]contract.OpID, error) {
	return mapIDs[contract.OpID](s.pools.ContractExtensions, cid[:])
}

func (s *LevelStash) Attachment(id contract.AttachID) ([]byte, error) {
	data, found, err := s.pools.Attachments.Get(id[:])
	if nil != err {
		return nil, err
	}
	if !found {
		return nil, fault.ErrUnknownAttachment
	}
	return append([]byte(nil), data...), nil
}

func (s *LevelStash) SecretSeal(secret contract.SecretSeal) (contract.Seal, error) {
	seal := contract.Seal{}
	found, err := s.pools.Seals.getRecord(secret[:], &seal)
	if nil != err {
		return contract.Seal{}, err
	}
	if !found {
		return contract.Seal{}, fault.ErrUnknownSeal
	}
	return seal, nil
}

func (s *LevelStash) Seals() ([]contract.Seal, error) {
	secrets, err := mapIDs[contract.SecretSeal](s.pools.Seals, nil)
	if nil != err {
		return nil, err
	}
	seals := make([]contract.Seal, 0, len(secrets))
	for _, secret := range secrets {
		seal, err := s.SecretSeal(secret)
		if nil != err {
			return nil, err
		}
		seals = append(seals, seal)
	}
	return seals, nil
}

func (s *LevelStash) PutSchema(schema contract.Schema) error {
	id := schema.SchemaID()
	return s.pools.Schemata.putRecord(id[:], schema)
}

func (s *LevelStash) PutGenesis(g contract.Genesis) error {
	cid := g.ContractID()
	return s.pools.Geneses.putRecord(cid[:], g)
}

func (s *LevelStash) PutWitnessBundle(cid contract.ContractID, wb contract.WitnessBundle) error {
	bid := wb.BundleID()
	if err := s.pools.Bundles.putRecord(bid[:], bundleRecord{Contract: cid, Bundle: wb}); nil != err {
		return err
	}
	return s.pools.ContractBundles.Put(append(cid[:], bid[:]...), []byte{})
}

func (s *LevelStash) PutExtension(x contract.Extension) error {
	opid := x.OpID()
	if err := s.pools.Extensions.putRecord(opid[:], x); nil != err {
		return err
	}
	return s.pools.ContractExtensions.Put(append(x.Contract[:], opid[:]...), []byte{})
}

func (s *LevelStash) PutAttachment(id contract.AttachID, data []byte) error {
	return s.pools.Attachments.Put(id[:], data)
}

func (s *LevelStash) PutSecretSeal(seal contract.Seal) error {
	secret := seal.Conceal()
	return s.pools.Seals.putRecord(secret[:], seal)
}

// LevelState - contract histories in the database
type LevelState struct {
	access Access
	pools  *pools
}

func (s *LevelState) BeginTransaction() error  { return levelTransactor{s.access}.BeginTransaction() }
func (s *LevelState) CommitTransaction() error { return levelTransactor{s.access}.CommitTransaction() }
func (s *LevelState) RollbackTransaction()     { levelTransactor{s.access}.RollbackTransaction() }

func (s *LevelState) ContractHistory(cid contract.ContractID) (*history.ContractHistory, error) {
	h := &history.ContractHistory{}
	found, err := s.pools.Histories.getRecord(cid[:], h)
	if nil != err {
		return nil, err
	}
	if !found {
		return nil, fault.ErrUnknownContract
	}
	return h, nil
}

func (s *LevelState) HistoryContracts() ([]contract.ContractID, error) {
	return mapIDs[contract.ContractID](s.pools.Histories, nil)
}

func (s *LevelState) PutHistory(h *history.ContractHistory) error {
	return s.pools.Histories.putRecord(h.ContractID[:], h)
}

func (s *LevelState) ClearState() error {
	return s.pools.Histories.Clear()
}

// LevelIndex - lookups in the database
type LevelIndex struct {
	access Access
	pools  *pools
}

func (x *LevelIndex) BeginTransaction() error  { return levelTransactor{x.access}.BeginTransaction() }
func (x *LevelIndex) CommitTransaction() error { return levelTransactor{x.access}.CommitTransaction() }
func (x *LevelIndex) RollbackTransaction()     { levelTransactor{x.access}.RollbackTransaction() }

func (x *LevelIndex) OpBundle(opid contract.OpID) (contract.BundleID, error) {
	value, found, err := x.pools.OpBundle.Get(opid[:])
	if nil != err {
		return contract.BundleID{}, err
	}
	if !found || 32 != len(value) {
		return contract.BundleID{}, fault.ErrUnknownOperation
	}
	bid := contract.BundleID{}
	copy(bid[:], value)
	return bid, nil
}

func (x *LevelIndex) OpContract(opid contract.OpID) (contract.ContractID, error) {
	value, found, err := x.pools.OpContract.Get(opid[:])
	if nil != err {
		return contract.ContractID{}, err
	}
	if !found || 32 != len(value) {
		return contract.ContractID{}, fault.ErrUnknownOperation
	}
	cid := contract.ContractID{}
	copy(cid[:], value)
	return cid, nil
}

func (x *LevelIndex) BundleContract(bid contract.BundleID) (contract.ContractID, error) {
	value, found, err := x.pools.BundleContract.Get(bid[:])
	if nil != err {
		return contract.ContractID{}, err
	}
	if !found || 32 != len(value) {
		return contract.ContractID{}, fault.ErrUnknownBundle
	}
	cid := contract.ContractID{}
	copy(cid[:], value)
	return cid, nil
}

func (x *LevelIndex) SealOpouts(secret contract.SecretSeal) ([]contract.Opout, error) {
	return mapOpouts(x.pools.SealOpouts, secret[:])
}

func (x *LevelIndex) OutpointOpouts(outpoint contract.Outpoint) ([]contract.Opout, error) {
	return mapOpouts(x.pools.OutpointOpouts, outpointKey(outpoint))
}

func (x *LevelIndex) IndexOperation(opid contract.OpID, cid contract.ContractID) error {
	return x.pools.OpContract.Put(opid[:], cid[:])
}

func (x *LevelIndex) IndexBundle(bid contract.BundleID, cid contract.ContractID, opids []contract.OpID) error {
	if err := x.pools.BundleContract.Put(bid[:], cid[:]); nil != err {
		return err
	}
	for _, opid := range opids {
		if err := x.pools.OpBundle.Put(opid[:], bid[:]); nil != err {
			return err
		}
		if err := x.pools.OpContract.Put(opid[:], cid[:]); nil != err {
			return err
		}
	}
	return nil
}

func (x *LevelIndex) IndexSeal(secret contract.SecretSeal, opout contract.Opout) error {
	return x.pools.SealOpouts.Put(append(secret[:], opoutKey(opout)...), []byte{})
}

func (x *LevelIndex) IndexOutpoint(outpoint contract.Outpoint, opout contract.Opout) error {
	return x.pools.OutpointOpouts.Put(append(outpointKey(outpoint), opoutKey(opout)...), []byte{})
}

func (x *LevelIndex) ClearIndex() error {
	for _, p := range []*PoolHandle{
		x.pools.OpBundle,
		x.pools.OpContract,
		x.pools.BundleContract,
		x.pools.SealOpouts,
		x.pools.OutpointOpouts,
	} {
		if err := p.Clear(); nil != err {
			return err
		}
	}
	return nil
}
