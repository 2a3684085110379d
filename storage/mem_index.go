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
)

type indexData struct {
	opBundle       map[contract.OpID]contract.BundleID
	opContract     map[contract.OpID]contract.ContractID
	bundleContract map[contract.BundleID]contract.ContractID
	sealOpouts     map[contract.SecretSeal][]contract.Opout
	outpointOpouts map[contract.Outpoint][]contract.Opout
}

func newIndexData() *indexData {
	return &indexData{
		opBundle:       make(map[contract.OpID]contract.BundleID),
		opContract:     make(map[contract.OpID]contract.ContractID),
		bundleContract: make(map[contract.BundleID]contract.ContractID),
		sealOpouts:     make(map[contract.SecretSeal][]contract.Opout),
		outpointOpouts: make(map[contract.Outpoint][]contract.Opout),
	}
}

func (d *indexData) clone() *indexData {
	c := newIndexData()
	for k, v := range d.opBundle {
		c.opBundle[k] = v
	}
	for k, v := range d.opContract {
		c.opContract[k] = v
	}
	for k, v := range d.bundleContract {
		c.bundleContract[k] = v
	}
	for k, v := range d.sealOpouts {
		c.sealOpouts[k] = append([]contract.Opout(nil), v...)
	}
	for k, v := range d.outpointOpouts {
		c.outpointOpouts[k] = append([]contract.Opout(nil), v...)
	}
	return c
}

func (d *indexData) record() *indexFile {
	f := &indexFile{}
	for op, bid := range d.opBundle {
		f.OpBundles = append(f.OpBundles, opBundleRecord{Op: op, Bundle: bid})
	}
	sort.Slice(f.OpBundles, func(i, j int) bool { return f.OpBundles[i].Op.Compare(f.OpBundles[j].Op) < 0 })

	for op, cid := range d.opContract {
		f.OpContracts = append(f.OpContracts, opContractRecord{Op: op, Contract: cid})
	}
	sort.Slice(f.OpContracts, func(i, j int) bool { return f.OpContracts[i].Op.Compare(f.OpContracts[j].Op) < 0 })

	for bid, cid := range d.bundleContract {
		f.BundleContracts = append(f.BundleContracts, bundleContractRecord{Bundle: bid, Contract: cid})
	}
	sort.Slice(f.BundleContracts, func(i, j int) bool {
		return f.BundleContracts[i].Bundle.Compare(f.BundleContracts[j].Bundle) < 0
	})

	for seal, opouts := range d.sealOpouts {
		f.Seals = append(f.Seals, sealRecord{Seal: seal, Opouts: opouts})
	}
	sort.Slice(f.Seals, func(i, j int) bool { return f.Seals[i].Seal.Compare(f.Seals[j].Seal) < 0 })

	for outpoint, opouts := range d.outpointOpouts {
		f.Outpoints = append(f.Outpoints, outpointRecord{Outpoint: outpoint, Opouts: opouts})
	}
	sort.Slice(f.Outpoints, func(i, j int) bool {
		return f.Outpoints[i].Outpoint.Compare(f.Outpoints[j].Outpoint) < 0
	})
	return f
}

func indexFromRecord(f *indexFile) *indexData {
	d := newIndexData()
	for _, r := range f.OpBundles {
		d.opBundle[r.Op] = r.Bundle
	}
	for _, r := range f.OpContracts {
		d.opContract[r.Op] = r.Contract
	}
	for _, r := range f.BundleContracts {
		d.bundleContract[r.Bundle] = r.Contract
	}
	for _, r := range f.Seals {
		d.sealOpouts[r.Seal] = r.Opouts
	}
	for _, r := range f.Outpoints {
		d.outpointOpouts[r.Outpoint] = r.Opouts
	}
	return d
}

// MemIndex - lookups derived from the stash, held in memory
type MemIndex struct {
	data     *indexData
	snapshot *indexData
	dir      string
}

// NewMemIndex - empty index
func NewMemIndex() *MemIndex {
	return &MemIndex{
		data: newIndexData(),
	}
}

// LoadIndex - read the index file from a directory
func LoadIndex(dir string) (*MemIndex, error) {
	f := &indexFile{}
	if err := readFile(filepath.Join(dir, IndexFile), indexMagic, f); nil != err {
		return nil, err
	}
	return &MemIndex{data: indexFromRecord(f)}, nil
}

// Store - write the index file into a directory
func (x *MemIndex) Store(dir string) error {
	return writeFile(filepath.Join(dir, IndexFile), indexMagic, x.data.record())
}

// Persist - save to this directory on every commit, empty to stop
func (x *MemIndex) Persist(dir string) {
	x.dir = dir
}

func (x *MemIndex) BeginTransaction() error {
	if nil != x.snapshot {
		return fault.ErrTransactionInProgress
	}
	x.snapshot = x.data.clone()
	return nil
}

func (x *MemIndex) CommitTransaction() error {
	if nil == x.snapshot {
		return fault.ErrNoTransaction
	}
	if "" != x.dir {
		if err := x.Store(x.dir); nil != err {
			return err
		}
	}
	x.snapshot = nil
	return nil
}

func (x *MemIndex) RollbackTransaction() {
	if nil != x.snapshot {
		x.data = x.snapshot
		x.snapshot = nil
	}
}

func (x *MemIndex) OpBundle(opid contract.OpID) (contract.BundleID, error) {
	bid, ok := x.data.opBundle[opid]
	if !ok {
		return contract.BundleID{}, fault.ErrUnknownOperation
	}
	return bid, nil
}

func (x *MemIndex) OpContract(opid contract.OpID) (contract.ContractID, error) {
	cid, ok := x.data.opContract[opid]
	if !ok {
		return contract.ContractID{}, fault.ErrUnknownOperation
	}
	return cid, nil
}

func (x *MemIndex) BundleContract(bid contract.BundleID) (contract.ContractID, error) {
	cid, ok := x.data.bundleContract[bid]
	if !ok {
		return contract.ContractID{}, fault.ErrUnknownBundle
	}
	return cid, nil
}

func (x *MemIndex) SealOpouts(secret contract.SecretSeal) ([]contract.Opout, error) {
	return append([]contract.Opout{}, x.data.sealOpouts[secret]...), nil
}

func (x *MemIndex) OutpointOpouts(outpoint contract.Outpoint) ([]contract.Opout, error) {
	return append([]contract.Opout{}, x.data.outpointOpouts[outpoint]...), nil
}

func (x *MemIndex) IndexOperation(opid contract.OpID, cid contract.ContractID) error {
	x.data.opContract[opid] = cid
	return nil
}

func (x *MemIndex) IndexBundle(bid contract.BundleID, cid contract.ContractID, opids []contract.OpID) error {
	x.data.bundleContract[bid] = cid
	for _, opid := range opids {
		x.data.opBundle[opid] = bid
		x.data.opContract[opid] = cid
	}
	return nil
}

func (x *MemIndex) IndexSeal(secret contract.SecretSeal, opout contract.Opout) error {
	x.data.sealOpouts[secret] = insertOpout(x.data.sealOpouts[secret], opout)
	return nil
}

func (x *MemIndex) IndexOutpoint(outpoint contract.Outpoint, opout contract.Opout) error {
	x.data.outpointOpouts[outpoint] = insertOpout(x.data.outpointOpouts[outpoint], opout)
	return nil
}

func (x *MemIndex) ClearIndex() error {
	x.data = newIndexData()
	return nil
}
