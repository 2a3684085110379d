// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sort"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/consignd/fault"
)

// Access - transactional view of the database
//
// while a transaction is open writes are staged in a batch and a cache
// so reads see them; outside a transaction writes go straight to the
// database
type Access interface {
	Abort()
	Begin() error
	Commit() error
	Delete([]byte) error
	Get([]byte) ([]byte, bool, error)
	Has([]byte) (bool, error)
	InUse() bool
	Put([]byte, []byte) error
	Range([]byte, func(key []byte, value []byte) error) error
}

type AccessData struct {
	sync.Mutex
	inUse bool
	db    *leveldb.DB
	batch *leveldb.Batch
	cache Cache
}

func newDA(db *leveldb.DB, trx *leveldb.Batch, cache Cache) Access {
	return &AccessData{
		inUse: false,
		db:    db,
		batch: trx,
		cache: cache,
	}
}

func (d *AccessData) Begin() error {
	d.Lock()
	defer d.Unlock()

	if d.inUse {
		return fault.ErrTransactionInProgress
	}

	d.inUse = true
	return nil
}

func (d *AccessData) Put(key []byte, value []byte) error {
	if !d.inUse {
		return fault.Connectivity("leveldb put", d.db.Put(key, value, nil))
	}
	d.cache.Set(dbPut, string(key), append([]byte{}, value...))
	d.batch.Put(key, value)
	return nil
}

func (d *AccessData) Delete(key []byte) error {
	if !d.inUse {
		return fault.Connectivity("leveldb delete", d.db.Delete(key, nil))
	}
	d.cache.Set(dbDelete, string(key), nil)
	d.batch.Delete(key)
	return nil
}

func (d *AccessData) Commit() error {
	d.Lock()
	defer d.Unlock()

	if !d.inUse {
		return fault.ErrNoTransaction
	}
	err := d.db.Write(d.batch, nil)
	if nil != err {
		return fault.Connectivity("leveldb write", err)
	}
	d.batch.Reset()
	d.cache.Clear()
	d.inUse = false
	return nil
}

// Get - value for a key, found is false if absent
func (d *AccessData) Get(key []byte) ([]byte, bool, error) {
	val, deleted, found := d.cache.Get(string(key))
	if found {
		if deleted {
			return nil, false, nil
		}
		return val, true, nil
	}

	val, err := d.db.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return nil, false, nil
	}
	if nil != err {
		return nil, false, fault.Connectivity("leveldb get", err)
	}
	return val, true, nil
}

func (d *AccessData) Has(key []byte) (bool, error) {
	_, deleted, found := d.cache.Get(string(key))
	if found {
		return !deleted, nil
	}
	ok, err := d.db.Has(key, nil)
	return ok, fault.Connectivity("leveldb has", err)
}

// Range - call f on every key with the prefix in key order, staged
// writes included
func (d *AccessData) Range(prefix []byte, f func(key []byte, value []byte) error) error {
	entries := make(map[string][]byte)

	iter := d.db.NewIterator(ldb_util.BytesPrefix(prefix), nil)
	for iter.Next() {
		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		entries[string(iter.Key())] = append([]byte{}, iter.Value()...)
	}
	iter.Release()
	if err := iter.Error(); nil != err {
		return fault.Connectivity("leveldb iterate", err)
	}

	for key, value := range d.cache.Pending(string(prefix)) {
		if nil == value {
			delete(entries, key)
		} else {
			entries[key] = value
		}
	}

	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := f([]byte(key), entries[key]); nil != err {
			return err
		}
	}
	return nil
}

func (d *AccessData) InUse() bool {
	return d.inUse
}

func (d *AccessData) Abort() {
	d.Lock()
	defer d.Unlock()

	d.batch.Reset()
	d.cache.Clear()
	d.inUse = false
}
