// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"fmt"

	"github.com/bitmark-inc/consignd/codec"
	"github.com/bitmark-inc/consignd/fault"
)

// PoolHandle - one table of the database
type PoolHandle struct {
	prefix byte
	access Access
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Put - store a key/value bytes pair
func (p *PoolHandle) Put(key []byte, value []byte) error {
	return p.access.Put(p.prefixKey(key), value)
}

// Delete - remove a key
func (p *PoolHandle) Delete(key []byte) error {
	return p.access.Delete(p.prefixKey(key))
}

// Get - read a value, found is false if the key is absent
func (p *PoolHandle) Get(key []byte) ([]byte, bool, error) {
	return p.access.Get(p.prefixKey(key))
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) (bool, error) {
	return p.access.Has(p.prefixKey(key))
}

// Map - run a function on all elements whose key starts with sub
//
// the pool prefix is stripped from the keys passed to f
func (p *PoolHandle) Map(sub []byte, f func(key []byte, value []byte) error) error {
	return p.access.Range(p.prefixKey(sub), func(key []byte, value []byte) error {
		return f(key[1:], value)
	})
}

// Clear - delete every element of the pool
func (p *PoolHandle) Clear() error {
	keys := [][]byte{}
	err := p.Map(nil, func(key []byte, value []byte) error {
		keys = append(keys, key)
		return nil
	})
	if nil != err {
		return err
	}
	for _, key := range keys {
		if err := p.Delete(key); nil != err {
			return err
		}
	}
	return nil
}

// store a record in canonical encoding
func (p *PoolHandle) putRecord(key []byte, v interface{}) error {
	data, err := codec.Marshal(v)
	if nil != err {
		return err
	}
	return p.Put(key, data)
}

// read a record, false if absent
func (p *PoolHandle) getRecord(key []byte, v interface{}) (bool, error) {
	data, found, err := p.Get(key)
	if nil != err || !found {
		return false, err
	}
	if err := codec.Unmarshal(data, v); nil != err {
		return false, fmt.Errorf("%w: %x: %s", fault.ErrInvalidRecord, key, err)
	}
	return true, nil
}
