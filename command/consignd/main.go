// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/consignd/fault"
	"github.com/bitmark-inc/consignd/resolver"
	"github.com/bitmark-inc/consignd/stock"
	"github.com/bitmark-inc/consignd/storage"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		exitwithstatus.Message("%s: version: %s", program, version)
	}

	if len(options["help"]) > 0 {
		exitwithstatus.Message("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]", program)
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	masterConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// start logging
	if err = logger.Initialise(masterConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// start of panic logging
	if err = fault.Initialise(); nil != err {
		exitwithstatus.Message("%s: fault setup failed with error: %s", program, err)
	}
	defer fault.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("shutting down…")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("masterConfiguration: %v", masterConfiguration)

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != masterConfiguration.PidFile {
		lockFile, err := os.OpenFile(masterConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, masterConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(masterConfiguration.PidFile)
	}

	s, closer, err := openStock(masterConfiguration.Store)
	if nil != err {
		log.Criticalf("open stock error: %s", err)
		exitwithstatus.Message("%s: open stock: %q  error: %s", program, masterConfiguration.Store.Backend, err)
	}
	defer closer()

	// witnesses are not looked up on chain; consignments must carry them
	r := resolver.Offline{}

	// command processing
	if len(arguments) > 0 {
		if err := processCommand(os.Stdout, s, r, arguments); nil != err {
			log.Errorf("command: %q  error: %s", arguments[0], err)
			exitwithstatus.Message("%s: command: %q  error: %s", program, arguments[0], err)
		}
		return
	}

	box, err := newInbox(s, r, masterConfiguration.Inbox, logger.New(inboxLoggerPrefix))
	if nil != err {
		log.Criticalf("inbox setup error: %s", err)
		exitwithstatus.Message("%s: inbox setup error: %s", program, err)
	}
	if err := box.Start(); nil != err {
		log.Criticalf("inbox start error: %s", err)
		exitwithstatus.Message("%s: inbox start error: %s", program, err)
	}
	defer box.Stop()

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down...\n")
	}
}

// open the configured backend, the returned function releases it
func openStock(configuration StoreType) (*stock.Stock, func(), error) {
	switch configuration.Backend {
	case backendLevelDB:
		d, err := storage.OpenDatabase(configuration.Database, false)
		if nil != err {
			return nil, nil, err
		}
		return stock.FromDatabase(d), func() { d.Close() }, nil

	default:
		dir := configuration.Directory
		if !storage.FilesExist(dir) {
			if err := stock.InMemory().Store(dir); nil != err {
				return nil, nil, err
			}
		}
		s, err := stock.Load(dir)
		if nil != err {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}
