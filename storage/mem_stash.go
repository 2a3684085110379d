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

type stashData struct {
	schemata    map[contract.SchemaID]contract.Schema
	geneses     map[contract.ContractID]contract.Genesis
	bundles     map[contract.BundleID]bundleRecord
	extensions  map[contract.OpID]contract.Extension
	attachments map[contract.AttachID][]byte
	seals       map[contract.SecretSeal]contract.Seal
}

func newStashData() *stashData {
	return &stashData{
		schemata:    make(map[contract.SchemaID]contract.Schema),
		geneses:     make(map[contract.ContractID]contract.Genesis),
		bundles:     make(map[contract.BundleID]bundleRecord),
		extensions:  make(map[contract.OpID]contract.Extension),
		attachments: make(map[contract.AttachID][]byte),
		seals:       make(map[contract.SecretSeal]contract.Seal),
	}
}

func (d *stashData) clone() *stashData {
	c := newStashData()
	for id, s := range d.schemata {
		c.schemata[id] = s
	}
	for id, g := range d.geneses {
		c.geneses[id] = g.Clone()
	}
	for id, b := range d.bundles {
		c.bundles[id] = bundleRecord{Contract: b.Contract, Bundle: b.Bundle.Clone()}
	}
	for id, x := range d.extensions {
		c.extensions[id] = x.Clone()
	}
	for id, a := range d.attachments {
		c.attachments[id] = append([]byte(nil), a...)
	}
	for id, s := range d.seals {
		c.seals[id] = s
	}
	return c
}

func (d *stashData) record() *stashFile {
	f := &stashFile{}
	for _, s := range d.schemata {
		f.Schemata = append(f.Schemata, s)
	}
	sort.Slice(f.Schemata, func(i, j int) bool {
		a, b := f.Schemata[i].SchemaID(), f.Schemata[j].SchemaID()
		return string(a[:]) < string(b[:])
	})
	for _, g := range d.geneses {
		f.Geneses = append(f.Geneses, g)
	}
	sort.Slice(f.Geneses, func(i, j int) bool {
		return f.Geneses[i].ContractID().Compare(f.Geneses[j].ContractID()) < 0
	})
	for _, b := range d.bundles {
		f.Bundles = append(f.Bundles, b)
	}
	sort.Slice(f.Bundles, func(i, j int) bool {
		return f.Bundles[i].Bundle.BundleID().Compare(f.Bundles[j].Bundle.BundleID()) < 0
	})
	for _, x := range d.extensions {
		f.Extensions = append(f.Extensions, x)
	}
	sort.Slice(f.Extensions, func(i, j int) bool {
		return f.Extensions[i].OpID().Compare(f.Extensions[j].OpID()) < 0
	})
	for id, a := range d.attachments {
		f.Attachments = append(f.Attachments, attachmentRecord{ID: id, Data: a})
	}
	sort.Slice(f.Attachments, func(i, j int) bool {
		return f.Attachments[i].ID.Compare(f.Attachments[j].ID) < 0
	})
	for _, s := range d.seals {
		f.Seals = append(f.Seals, s)
	}
	sort.Slice(f.Seals, func(i, j int) bool {
		return f.Seals[i].Conceal().Compare(f.Seals[j].Conceal()) < 0
	})
	return f
}

func stashFromRecord(f *stashFile) *stashData {
	d := newStashData()
	for _, s := range f.Schemata {
		d.schemata[s.SchemaID()] = s
	}
	for _, g := range f.Geneses {
		d.geneses[g.ContractID()] = g
	}
	for _, b := range f.Bundles {
		d.bundles[b.Bundle.BundleID()] = b
	}
	for _, x := range f.Extensions {
		d.extensions[x.OpID()] = x
	}
	for _, a := range f.Attachments {
		d.attachments[a.ID] = a.Data
	}
	for _, s := range f.Seals {
		d.seals[s.Conceal()] = s
	}
	return d
}

// MemStash - stash held in memory, optionally saved on each commit
type MemStash struct {
	data     *stashData
	snapshot *stashData
	dir      string
}

// NewMemStash - empty stash
func NewMemStash() *MemStash {
	return &MemStash{
		data: newStashData(),
	}
}

// LoadStash - read the stash file from a directory
func LoadStash(dir string) (*MemStash, error) {
	f := &stashFile{}
	if err := readFile(filepath.Join(dir, StashFile), stashMagic, f); nil != err {
		return nil, err
	}
	return &MemStash{data: stashFromRecord(f)}, nil
}

// Store - write the stash file into a directory
func (s *MemStash) Store(dir string) error {
	return writeFile(filepath.Join(dir, StashFile), stashMagic, s.data.record())
}

// Persist - save to this directory on every commit, empty to stop
func (s *MemStash) Persist(dir string) {
	s.dir = dir
}

func (s *MemStash) BeginTransaction() error {
	if nil != s.snapshot {
		return fault.ErrTransactionInProgress
	}
	s.snapshot = s.data.clone()
	return nil
}

func (s *MemStash) CommitTransaction() error {
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

func (s *MemStash) RollbackTransaction() {
	if nil != s.snapshot {
		s.data = s.snapshot
		s.snapshot = nil
	}
}

func (s *MemStash) Schema(id contract.SchemaID) (contract.Schema, error) {
	schema, ok := s.data.schemata[id]
	if !ok {
		return contract.Schema{}, fault.ErrUnknownSchema
	}
	return schema, nil
}

func (s *MemStash) Genesis(cid contract.ContractID) (contract.Genesis, error) {
	g, ok := s.data.geneses[cid]
	if !ok {
		return contract.Genesis{}, fault.ErrUnknownContract
	}
	return g.Clone(), nil
}

func (s *MemStash) Contracts() ([]contract.ContractID, error) {
	ids := make([]contract.ContractID, 0, len(s.data.geneses))
	for cid := range s.data.geneses {
		ids = append(ids, cid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Compare(ids[j]) < 0 })
	return ids, nil
}

func (s *MemStash) WitnessBundle(bid contract.BundleID) (contract.WitnessBundle, error) {
	b, ok := s.data.bundles[bid]
	if !ok {
		return contract.WitnessBundle{}, fault.ErrUnknownBundle
	}
	return b.Bundle.Clone(), nil
}

func (s *MemStash) ContractBundles(cid contract.ContractID) ([]contract.BundleID, error) {
	ids := []contract.BundleID{}
	for bid, b := range s.data.bundles {
		if b.Contract == cid {
			ids = append(ids, bid)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Compare(ids[j]) < 0 })
	return ids, nil
}

func (s *MemStash) Extension(opid contract.OpID) (contract.Extension, error) {
	x, ok := s.data.extensions[opid]
	if !ok {
		return contract.Extension{}, fault.ErrUnknownOperation
	}
	return x.Clone(), nil
}

func (s *MemStash) ContractExtensions(cid contract.ContractID) ([]contract.OpID, error) {
	ids := []contract.OpID{}
	for opid, x := range s.data.extensions {
		if x.Contract == cid {
			ids = append(ids, opid)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Compare(ids[j]) < 0 })
	return ids, nil
}

func (s *MemStash) Attachment(id contract.AttachID) ([]byte, error) {
	a, ok := s.data.attachments[id]
	if !ok {
		return nil, fault.ErrUnknownAttachment
	}
	return append([]byte(nil), a...), nil
}

func (s *MemStash) SecretSeal(secret contract.SecretSeal) (contract.Seal, error) {
	seal, ok := s.data.seals[secret]
	if !ok {
		return contract.Seal{}, fault.ErrUnknownSeal
	}
	return seal, nil
}

func (s *MemStash) Seals() ([]contract.Seal, error) {
	seals := make([]contract.Seal, 0, len(s.data.seals))
	for _, seal := range s.data.seals {
		seals = append(seals, seal)
	}
	sort.Slice(seals, func(i, j int) bool { return seals[i].Conceal().Compare(seals[j].Conceal()) < 0 })
	return seals, nil
}

func (s *MemStash) PutSchema(schema contract.Schema) error {
	s.data.schemata[schema.SchemaID()] = schema
	return nil
}

func (s *MemStash) PutGenesis(g contract.Genesis) error {
	s.data.geneses[g.ContractID()] = g.Clone()
	return nil
}

func (s *MemStash) PutWitnessBundle(cid contract.ContractID, wb contract.WitnessBundle) error {
	s.data.bundles[wb.BundleID()] = bundleRecord{Contract: cid, Bundle: wb.Clone()}
	return nil
}

func (s *MemStash) PutExtension(x contract.Extension) error {
	s.data.extensions[x.OpID()] = x.Clone()
	return nil
}

func (s *MemStash) PutAttachment(id contract.AttachID, data []byte) error {
	s.data.attachments[id] = append([]byte(nil), data...)
	return nil
}

func (s *MemStash) PutSecretSeal(seal contract.Seal) error {
	s.data.seals[seal.Conceal()] = seal
	return nil
}
