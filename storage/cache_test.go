// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setupTestCache() Cache {
	return newCache()
}

func TestWriteThenRead(t *testing.T) {
	cache := setupTestCache()

	key := "test"
	expected := []byte{'a', 'b', 'c', 'd'}

	actual, _, found := cache.Get(key)
	assert.False(t, found, "key %s already exists with value %v", key, actual)

	cache.Set(dbPut, key, expected)
	actual, deleted, found := cache.Get(key)
	assert.True(t, found, "key not found")
	assert.False(t, deleted, "key deleted")
	assert.Equal(t, expected, actual, "wrong value")
}

func TestClear(t *testing.T) {
	cache := setupTestCache()

	key := "test"
	data := []byte{'a', 'b', 'c', 'd'}

	cache.Set(dbPut, key, data)
	cache.Clear()

	_, _, found := cache.Get(key)
	assert.False(t, found, "clear did not empty the cache")
}

func TestReadDeleteOperation(t *testing.T) {
	cache := setupTestCache()

	key := "test"
	cache.Set(dbDelete, key, nil)

	value, deleted, found := cache.Get(key)
	assert.True(t, found, "delete not recorded")
	assert.True(t, deleted, "delete should hide the key")
	assert.Nil(t, value, "deleted key has a value")
}

func TestPending(t *testing.T) {
	cache := setupTestCache()

	cache.Set(dbPut, "a1", []byte("one"))
	cache.Set(dbPut, "a2", []byte{})
	cache.Set(dbDelete, "a3", nil)
	cache.Set(dbPut, "b1", []byte("other"))

	expected := map[string][]byte{
		"a1": []byte("one"),
		"a2": {},
		"a3": nil,
	}
	assert.Equal(t, expected, cache.Pending("a"), "pending entries")
}
