// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/consignd/fault"
	"github.com/bitmark-inc/consignd/fixtures"
	"github.com/bitmark-inc/consignd/mocks"
)

const (
	dbName     = "data-access"
	defaultKey = "key"
)

var (
	db           *leveldb.DB
	defaultValue = []byte{'a'}
)

func initialiseVars() {
	if nil == db {
		db, _ = leveldb.OpenFile(dbName, nil)
	}
}

func newMockCache(t *testing.T) (*mocks.MockCache, *gomock.Controller) {
	ctl := gomock.NewController(t)
	return mocks.NewMockCache(ctl), ctl
}

func setupTestDataAccess(cache Cache) Access {
	return newDA(db, new(leveldb.Batch), cache)
}

func removeDir(dirName string) {
	dirPath, _ := filepath.Abs(dirName)
	_ = os.RemoveAll(dirPath)
}

func teardownTestDataAccess() {
	_ = db.Close()
	removeDir(dbName)
}

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	initialiseVars()
	result := m.Run()
	teardownTestDataAccess()
	fixtures.TeardownTestLogger()
	os.Exit(result)
}

func TestBeginShouldErrorWhenAlreadyInTransaction(t *testing.T) {
	da := setupTestDataAccess(newCache())

	err := da.Begin()
	assert.Nil(t, err, "first time Begin should not error")

	err = da.Begin()
	assert.Equal(t, fault.ErrTransactionInProgress, err, "second time Begin should return error")
	da.Abort()
}

func TestCommitWithoutBegin(t *testing.T) {
	da := setupTestDataAccess(newCache())
	assert.Equal(t, fault.ErrNoTransaction, da.Commit(), "commit outside transaction")
}

func TestCommitUnlocksInUse(t *testing.T) {
	da := setupTestDataAccess(newCache())

	_ = da.Begin()
	assert.True(t, da.InUse(), "not in use after begin")
	_ = da.Commit()
	assert.False(t, da.InUse(), "still in use after commit")

	err := da.Begin()
	assert.Nil(t, err, "begin after commit")
	da.Abort()
}

func TestCommitWriteToDB(t *testing.T) {
	da := setupTestDataAccess(newCache())
	key := []byte("commit-" + defaultKey)

	_ = da.Begin()
	_ = da.Put(key, defaultValue)

	_, err := db.Get(key, nil)
	assert.Equal(t, leveldb.ErrNotFound, err, "write reached db before commit")

	actual, found, err := da.Get(key)
	assert.Nil(t, err, "get error")
	assert.True(t, found, "staged write not visible")
	assert.Equal(t, defaultValue, actual, "staged value")

	err = da.Commit()
	assert.Nil(t, err, "commit error")

	actual, err = db.Get(key, nil)
	assert.Nil(t, err, "commit did not write to db")
	assert.Equal(t, defaultValue, actual, "committed value")
}

func TestAbortDiscards(t *testing.T) {
	da := setupTestDataAccess(newCache())
	key := []byte("abort-" + defaultKey)

	_ = da.Begin()
	_ = da.Put(key, defaultValue)
	da.Abort()

	_, found, err := da.Get(key)
	assert.Nil(t, err, "get error")
	assert.False(t, found, "aborted write visible")
	assert.False(t, da.InUse(), "in use after abort")
}

func TestPutOutsideTransaction(t *testing.T) {
	da := setupTestDataAccess(newCache())
	key := []byte("direct-" + defaultKey)

	err := da.Put(key, defaultValue)
	assert.Nil(t, err, "put error")

	actual, err := db.Get(key, nil)
	assert.Nil(t, err, "direct put did not reach db")
	assert.Equal(t, defaultValue, actual, "value")
}

func TestGetPrefersCache(t *testing.T) {
	mc, ctl := newMockCache(t)
	defer ctl.Finish()

	key := []byte("cached-" + defaultKey)
	mc.EXPECT().Get(string(key)).Return([]byte("cached"), false, true).Times(1)

	da := setupTestDataAccess(mc)
	actual, found, err := da.Get(key)
	assert.Nil(t, err, "get error")
	assert.True(t, found, "not found")
	assert.Equal(t, []byte("cached"), actual, "value not from cache")
}

func TestDeleteHidesDatabaseValue(t *testing.T) {
	mc, ctl := newMockCache(t)
	defer ctl.Finish()

	key := []byte("hidden-" + defaultKey)
	_ = db.Put(key, defaultValue, nil)

	mc.EXPECT().Get(string(key)).Return(nil, true, true).Times(2)

	da := setupTestDataAccess(mc)
	_, found, err := da.Get(key)
	assert.Nil(t, err, "get error")
	assert.False(t, found, "deleted key found")

	ok, err := da.Has(key)
	assert.Nil(t, err, "has error")
	assert.False(t, ok, "deleted key present")
}

func TestRangeMergesStagedWrites(t *testing.T) {
	da := setupTestDataAccess(newCache())

	_ = db.Put([]byte("r1"), []byte("one"), nil)
	_ = db.Put([]byte("r2"), []byte("two"), nil)
	_ = db.Put([]byte("s1"), []byte("other"), nil)

	_ = da.Begin()
	defer da.Abort()
	_ = da.Put([]byte("r3"), []byte("three"))
	_ = da.Delete([]byte("r1"))

	keys := []string{}
	values := []string{}
	err := da.Range([]byte("r"), func(key []byte, value []byte) error {
		keys = append(keys, string(key))
		values = append(values, string(value))
		return nil
	})
	assert.Nil(t, err, "range error")
	assert.Equal(t, []string{"r2", "r3"}, keys, "keys")
	assert.Equal(t, []string{"two", "three"}, values, "values")
}
