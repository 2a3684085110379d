// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/consignd/consignment"
	"github.com/bitmark-inc/consignd/fault"
	"github.com/bitmark-inc/consignd/resolver"
	"github.com/bitmark-inc/consignd/stock"
	"github.com/bitmark-inc/consignd/util"
	"github.com/bitmark-inc/consignd/validation"
)

const (
	inboxLoggerPrefix = "inbox"

	// only files with this extension are read, writers should
	// create them elsewhere and rename into the inbox
	armorExtension = ".armor"
)

// inbox - a directory watched for armored consignments and schemas
type inbox struct {
	sync.WaitGroup

	log      *logger.L
	stock    *stock.Stock
	resolver resolver.WitnessResolver
	watcher  *fsnotify.Watcher

	directory string
	accepted  string
	rejected  string
}

func newInbox(s *stock.Stock, r resolver.WitnessResolver, configuration InboxType, log *logger.L) (*inbox, error) {
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	for _, d := range []string{configuration.Directory, configuration.Accepted, configuration.Rejected} {
		if err := util.EnsureDirectory(d); nil != err {
			return nil, err
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		log.Errorf("new watcher with error: %s", err)
		return nil, err
	}

	return &inbox{
		log:       log,
		stock:     s,
		resolver:  r,
		watcher:   watcher,
		directory: configuration.Directory,
		accepted:  configuration.Accepted,
		rejected:  configuration.Rejected,
	}, nil
}

// Start - watch the directory, then read anything already present
func (in *inbox) Start() error {
	if err := in.watcher.Add(in.directory); nil != err {
		in.log.Errorf("watcher add error: %s, abort", err)
		return err
	}

	in.Add(1)
	go in.loop()

	return in.scan()
}

// Stop - close the watcher and wait for the loop to finish
func (in *inbox) Stop() {
	in.watcher.Close()
	in.Wait()
	in.log.Info("stopped")
}

func (in *inbox) loop() {
	defer in.Done()
	for {
		select {
		case event, ok := <-in.watcher.Events:
			if !ok {
				return
			}
			in.log.Debugf("file event: %v", event)
			if 0 == event.Op&(fsnotify.Create|fsnotify.Write) {
				continue
			}
			in.ingest(event.Name)

		case err, ok := <-in.watcher.Errors:
			if !ok {
				return
			}
			in.log.Errorf("watcher error: %s", err)
		}
	}
}

// read all the files currently in the inbox
func (in *inbox) scan() error {
	entries, err := os.ReadDir(in.directory)
	if nil != err {
		return err
	}
	for _, e := range entries {
		if e.Type().IsRegular() {
			in.ingest(filepath.Join(in.directory, e.Name()))
		}
	}
	return nil
}

// consume one file and move it to the accepted or rejected directory
func (in *inbox) ingest(name string) {
	if armorExtension != filepath.Ext(name) {
		return
	}

	// may already have been moved by an earlier event
	if !util.EnsureFileExists(name) {
		return
	}

	text, err := os.ReadFile(name)
	if nil != err {
		in.log.Errorf("read: %q  error: %s", name, err)
		return
	}

	base := filepath.Base(name)
	target := in.accepted
	if err := in.consume(string(text)); nil != err {
		in.log.Warnf("rejected: %q  error: %s", base, err)
		target = in.rejected
	} else {
		in.log.Infof("accepted: %q", base)
	}

	if _, err := util.MoveToDirectory(name, target); nil != err {
		in.log.Errorf("move: %q  error: %s", base, err)
	}
}

// dispatch on the armor title and type header
func (in *inbox) consume(text string) error {
	transfer, err := consignment.ParseArmored[consignment.TransferKind](text)
	if nil == err {
		valid, err := transfer.Validate(validation.Structural{}, in.resolver)
		if nil != err {
			return err
		}
		status, err := in.stock.AcceptTransfer(valid, in.resolver)
		in.log.Infof("transfer: %s  status: %s", transfer.ID(), status)
		return err
	}

	if errors.Is(err, fault.ErrArmorTypeMismatch) {
		contract, err := consignment.ParseArmored[consignment.ContractKind](text)
		if nil != err {
			return err
		}
		valid, err := contract.Validate(validation.Structural{}, in.resolver)
		if nil != err {
			return err
		}
		status, err := in.stock.ImportContract(valid, in.resolver)
		in.log.Infof("contract: %s  status: %s", contract.ContractID(), status)
		return err
	}

	if !errors.Is(err, fault.ErrInvalidArmorTitle) {
		return err
	}

	schema, err := consignment.ParseArmoredSchema(text)
	if nil != err {
		return err
	}
	in.log.Infof("schema: %s", schema.SchemaID())
	return in.stock.ImportSchema(schema)
}
