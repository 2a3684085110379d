// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
	"fmt"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised        = ExistsError("already initialised")
	ErrAnchorMismatch            = InvalidError("anchor does not match bundle")
	ErrArmorIDMismatch           = InvalidError("armor id header does not match content")
	ErrArmorTypeMismatch         = InvalidError("armor type header does not match content")
	ErrBundleInputMapChanged     = ProcessError("bundle input map changed size")
	ErrChecksumMismatch          = InvalidError("checksum mismatch")
	ErrConcealedTransition       = NotFoundError("transition is concealed")
	ErrConfigurationFileRequired = InvalidError("configuration file is required")
	ErrConfigurationNotTable     = InvalidError("configuration did not return a table")
	ErrContractMismatch          = InvalidError("contract id mismatch")
	ErrEmptyBundle               = InvalidError("bundle has no inputs")
	ErrFileChecksumMismatch      = RecordError("file checksum mismatch")
	ErrFileTooLarge              = LengthError("file exceeds maximum size")
	ErrIncompatibleDatabase      = InvalidError("incompatible database version")
	ErrIndexInconsistency        = ProcessError("index is inconsistent with stash")
	ErrInvalidArmor              = InvalidError("invalid armor")
	ErrInvalidArmorTitle         = InvalidError("invalid armor title")
	ErrInvalidCommand            = InvalidError("invalid command")
	ErrInvalidConsignment        = InvalidError("invalid consignment")
	ErrInvalidFileHeader         = RecordError("invalid file header")
	ErrInvalidIdentifier         = InvalidError("invalid identifier")
	ErrInvalidIdentifierLength   = LengthError("invalid identifier length")
	ErrInvalidLoggerChannel      = InvalidError("invalid logger channel")
	ErrInvalidRecord             = RecordError("invalid record")
	ErrMergeConflict             = InvalidError("merge of conflicting revealed data")
	ErrMergeMismatch             = InvalidError("merge of different objects")
	ErrNoTransaction             = ProcessError("no transaction in progress")
	ErrNotFileBacked             = ProcessError("store is not file backed")
	ErrNotInitialised            = NotFoundError("not initialised")
	ErrSchemaMismatch            = InvalidError("schema mismatch")
	ErrStashInconsistency        = ProcessError("stash is internally inconsistent")
	ErrStateInconsistency        = ProcessError("state is inconsistent with stash")
	ErrTransactionInProgress     = ExistsError("transaction already in progress")
	ErrTransitionNotInInputMap   = InvalidError("transition is not referenced by bundle input map")
	ErrTruncatedFile             = RecordError("file is truncated")
	ErrUnknownAttachment         = NotFoundError("unknown attachment")
	ErrUnknownBundle             = NotFoundError("unknown bundle")
	ErrUnknownContract           = NotFoundError("unknown contract")
	ErrUnknownOperation          = NotFoundError("unknown operation")
	ErrUnknownSchema             = NotFoundError("unknown schema")
	ErrUnknownSeal               = NotFoundError("unknown seal")
	ErrUnknownWitness            = NotFoundError("unknown witness")
	ErrUnrelatedTransition       = InvalidError("transition is not related to bundle")
	ErrWitnessTxidMismatch       = InvalidError("witness txid mismatch")
	ErrWrongIdentifierPrefix     = InvalidError("wrong identifier prefix")
)

// ConnectivityError - a failure to reach a store or a resolver
//
// these are transient and may be retried, the cause is kept
type ConnectivityError struct {
	Op  string
	Err error
}

// Connectivity - wrap an error as a connectivity failure
// returns nil if err is nil
func Connectivity(op string, err error) error {
	if nil == err {
		return nil
	}
	return &ConnectivityError{Op: op, Err: err}
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s: connectivity failure: %s", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { var x ExistsError; return errors.As(e, &x) }
func IsErrInvalid(e error) bool  { var x InvalidError; return errors.As(e, &x) }
func IsErrLength(e error) bool   { var x LengthError; return errors.As(e, &x) }
func IsErrNotFound(e error) bool { var x NotFoundError; return errors.As(e, &x) }
func IsErrProcess(e error) bool  { var x ProcessError; return errors.As(e, &x) }
func IsErrRecord(e error) bool   { var x RecordError; return errors.As(e, &x) }

// IsErrConnectivity - true for a connectivity failure anywhere in the chain
func IsErrConnectivity(e error) bool {
	var x *ConnectivityError
	return errors.As(e, &x)
}
