// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/consignd/fault"
	"github.com/bitmark-inc/logger"
)

// database tables
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type pools struct {
	Schemata           *PoolHandle `prefix:"S" store:"stash"`
	Geneses            *PoolHandle `prefix:"G" store:"stash"`
	Bundles            *PoolHandle `prefix:"B" store:"stash"`
	ContractBundles    *PoolHandle `prefix:"D" store:"stash"`
	Extensions         *PoolHandle `prefix:"E" store:"stash"`
	ContractExtensions *PoolHandle `prefix:"X" store:"stash"`
	Attachments        *PoolHandle `prefix:"A" store:"stash"`
	Seals              *PoolHandle `prefix:"K" store:"stash"`
	Histories          *PoolHandle `prefix:"H" store:"state"`
	OpBundle           *PoolHandle `prefix:"O" store:"index"`
	OpContract         *PoolHandle `prefix:"C" store:"index"`
	BundleContract     *PoolHandle `prefix:"N" store:"index"`
	SealOpouts         *PoolHandle `prefix:"L" store:"index"`
	OutpointOpouts     *PoolHandle `prefix:"P" store:"index"`
}

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentDBVersion = 0x100

// Database - one LevelDB holding all three stores
//
// each store has its own batch and cache so the stores commit
// independently
type Database struct {
	sync.Mutex
	log   *logger.L
	db    *leveldb.DB
	pools pools
	stash *LevelStash
	state *LevelState
	index *LevelIndex
}

// OpenDatabase - open or create the database
func OpenDatabase(name string, readOnly bool) (*Database, error) {
	log := logger.New("storage")

	db, version, err := getDB(name, readOnly)
	if nil != err {
		return nil, err
	}

	ok := false
	defer func() {
		if !ok {
			db.Close()
		}
	}()

	// ensure no database downgrade
	if version > currentDBVersion {
		log.Criticalf("database version: %d > current version: %d", version, currentDBVersion)
		return nil, fault.ErrIncompatibleDatabase
	}
	if 0 == version && !readOnly {
		// database was empty so tag as current version
		if err := putVersion(db, currentDBVersion); nil != err {
			return nil, fault.Connectivity("leveldb put", err)
		}
	}

	access := map[string]Access{
		"stash": newDA(db, new(leveldb.Batch), newCache()),
		"state": newDA(db, new(leveldb.Batch), newCache()),
		"index": newDA(db, new(leveldb.Batch), newCache()),
	}

	d := &Database{
		log: log,
		db:  db,
	}

	// this will be a struct type
	poolType := reflect.TypeOf(d.pools)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(&d.pools).Elem()

	// scan each field
	for i := 0; i < poolType.NumField(); i += 1 {

		fieldInfo := poolType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			return nil, fmt.Errorf("pool: %v has invalid prefix: %q", fieldInfo, prefixTag)
		}

		storeName := fieldInfo.Tag.Get("store")
		dataAccess, found := access[storeName]
		if !found {
			return nil, fmt.Errorf("pool: %v has invalid store: %q", fieldInfo, storeName)
		}

		p := &PoolHandle{
			prefix: prefixTag[0],
			access: dataAccess,
		}
		poolValue.Field(i).Set(reflect.ValueOf(p))
	}

	d.stash = &LevelStash{access: access["stash"], pools: &d.pools}
	d.state = &LevelState{access: access["state"], pools: &d.pools}
	d.index = &LevelIndex{access: access["index"], pools: &d.pools}

	log.Infof("opened: %q  version: %d", name, version)
	ok = true // prevent db close
	return d, nil
}

// Stash - the stash store
func (d *Database) Stash() *LevelStash {
	return d.stash
}

// State - the state store
func (d *Database) State() *LevelState {
	return d.state
}

// Index - the index store
func (d *Database) Index() *LevelIndex {
	return d.index
}

// Close - close the database connection
func (d *Database) Close() error {
	d.Lock()
	defer d.Unlock()

	if nil == d.db {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	d.log.Info("closed")
	return err
}

// return:
//   database handle
//   version number
func getDB(name string, readOnly bool) (*leveldb.DB, int, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, 0, fault.Connectivity("leveldb open", err)
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return db, 0, nil
	} else if nil != err {
		db.Close()
		return nil, 0, fault.Connectivity("leveldb get", err)
	}

	if 4 != len(versionValue) {
		db.Close()
		return nil, 0, fmt.Errorf("%w: expected length: %d  actual: %d", fault.ErrIncompatibleDatabase, 4, len(versionValue))
	}

	version := int(binary.BigEndian.Uint32(versionValue))
	return db, version, nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}
