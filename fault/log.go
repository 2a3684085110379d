// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"fmt"
	"runtime"
	"time"

	"github.com/bitmark-inc/logger"
)

// hold a logger channel
var log *logger.L

// Initialise - setup a log channel for last attempt to log something
func Initialise() error {
	if nil != log {
		return ErrAlreadyInitialised
	}
	log = logger.New("PANIC")
	if nil == log {
		return ErrInvalidLoggerChannel
	}
	return nil
}

// Finalise - flush any data
func Finalise() {
	if nil != log {
		log.Flush()
	}
}

// Panicf - log the message with the caller's position, then panic
//
// only for internal invariant violations, never for bad input
func Panicf(format string, arguments ...interface{}) {
	abort(located(fmt.Sprintf(format, arguments...)))
}

// PanicIfError - conditional panic
func PanicIfError(message string, err error) {
	if nil == err {
		return
	}
	abort(located(fmt.Sprintf("%s failed with error: %s", message, err)))
}

// prefix with the file and line two frames up
func located(message string) string {
	if _, file, line, ok := runtime.Caller(2); ok {
		return fmt.Sprintf("(%q:%d) %s", file, line, message)
	}
	return message
}

func abort(message string) {
	if nil == log {
		fmt.Printf("*** %s\n", message)
		panic(message)
	}
	log.Criticalf("%s", message)
	log.Flush()                        // make sure log file is saved
	time.Sleep(100 * time.Millisecond) // to allow logging output
	panic(message)
}
