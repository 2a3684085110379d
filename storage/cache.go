// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"strings"

	cache "github.com/patrickmn/go-cache"
)

//go:generate mockgen -destination=../mocks/cache.go -package=mocks github.com/bitmark-inc/consignd/storage Cache

// Cache - overlay of writes staged in a batch
//
// Get reports deleted keys separately so a staged delete hides the
// database value
type Cache interface {
	Get(string) (value []byte, deleted bool, found bool)
	Set(int, string, []byte)
	Pending(string) map[string][]byte
	Clear()
}

const (
	dbPut = iota
	dbDelete
)

type dbCache struct {
	cache *cache.Cache
}

type cacheData struct {
	op    int
	value []byte
}

// staged entries live until commit or abort, so they never expire
func newCache() Cache {
	return &dbCache{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (c *dbCache) Get(key string) ([]byte, bool, bool) {
	obj, found := c.cache.Get(key)
	if !found {
		return nil, false, false
	}

	data := obj.(cacheData)
	if dbDelete == data.op {
		return nil, true, true
	}
	return data.value, false, true
}

func (c *dbCache) Set(op int, key string, value []byte) {
	cached := cacheData{
		op:    op,
		value: value,
	}
	c.cache.Set(key, cached, cache.NoExpiration)
}

// Pending - staged entries under a prefix, deletes have a nil value
func (c *dbCache) Pending(prefix string) map[string][]byte {
	result := make(map[string][]byte)
	for key, item := range c.cache.Items() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		data := item.Object.(cacheData)
		if dbDelete == data.op {
			result[key] = nil
		} else {
			result[key] = data.value
		}
	}
	return result
}

func (c *dbCache) Clear() {
	c.cache.Flush()
}
