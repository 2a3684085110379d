// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/consignd/configuration"
	"github.com/bitmark-inc/consignd/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultBackend        = backendFiles
	defaultStoreDirectory = "stock"
	defaultDatabase       = "consignd.leveldb"

	defaultInboxDirectory    = "inbox"
	defaultAcceptedDirectory = "accepted"
	defaultRejectedDirectory = "rejected"

	defaultLogDirectory = "log"
	defaultLogFile      = "consignd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// store backends
const (
	backendFiles   = "files"
	backendLevelDB = "leveldb"
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		"main":            "info",
		logger.DefaultTag: "critical",
	}
)

type StoreType struct {
	Backend   string `gluamapper:"backend" json:"backend"`
	Directory string `gluamapper:"directory" json:"directory"`
	Database  string `gluamapper:"database" json:"database"`
}

type InboxType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Accepted  string `gluamapper:"accepted" json:"accepted"`
	Rejected  string `gluamapper:"rejected" json:"rejected"`
}

type Configuration struct {
	DataDirectory string               `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string               `gluamapper:"pidfile" json:"pidfile"`
	Store         StoreType            `gluamapper:"store" json:"store"`
	Inbox         InboxType            `gluamapper:"inbox" json:"inbox"`
	Logging       logger.Configuration `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		Store: StoreType{
			Backend:   defaultBackend,
			Directory: defaultStoreDirectory,
			Database:  defaultDatabase,
		},

		Inbox: InboxType{
			Directory: defaultInboxDirectory,
			Accepted:  defaultAcceptedDirectory,
			Rejected:  defaultRejectedDirectory,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	options.Store.Backend = strings.ToLower(options.Store.Backend)
	switch options.Store.Backend {
	case backendFiles, backendLevelDB:
	default:
		return nil, fmt.Errorf("Store: backend %q is not supported", options.Store.Backend)
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = util.EnsureAbsolute(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("Files: %q is not plain name", *f[0])
		}
	}

	options.Store.Database = util.EnsureAbsolute(options.DataDirectory, options.Store.Database)

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Logging.Directory,
		&options.Store.Directory,
		&options.Inbox.Directory,
		&options.Inbox.Accepted,
		&options.Inbox.Rejected,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := util.EnsureDirectory(*d); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}
