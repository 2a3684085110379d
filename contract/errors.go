// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"fmt"

	"github.com/bitmark-inc/consignd/fault"
)

// MergeErrorKind - why a merge failed
type MergeErrorKind uint8

const (
	MergeOperationMismatch MergeErrorKind = iota + 1
	MergeBundleMismatch
	MergeTxidMismatch
	MergeAnchorMismatch
	MergeContractMismatch
	MergeAssignmentKeys
	MergeAssignmentMismatch
	MergeSignatureMismatch
	MergeWitnessConflict
	MergeSealConflict
	MergeStateConflict
)

var mergeErrorNames = map[MergeErrorKind]string{
	MergeOperationMismatch:  "operation mismatch",
	MergeBundleMismatch:     "bundle mismatch",
	MergeTxidMismatch:       "witness txid mismatch",
	MergeAnchorMismatch:     "anchors not equal",
	MergeContractMismatch:   "contract mismatch",
	MergeAssignmentKeys:     "assignments have different keys",
	MergeAssignmentMismatch: "assignments differ",
	MergeSignatureMismatch:  "signature mismatch",
	MergeWitnessConflict:    "witness transaction conflict",
	MergeSealConflict:       "revealed seals conflict",
	MergeStateConflict:      "revealed states conflict",
}

func (k MergeErrorKind) String() string {
	if s, ok := mergeErrorNames[k]; ok {
		return s
	}
	return "unknown"
}

// IsConflict - same object but different revealed data
func (k MergeErrorKind) IsConflict() bool {
	switch k {
	case MergeSignatureMismatch, MergeWitnessConflict, MergeSealConflict, MergeStateConflict:
		return true
	}
	return false
}

// MergeError - a merge that could not be performed
//
// matches fault.ErrMergeConflict or fault.ErrMergeMismatch with errors.Is
type MergeError struct {
	Kind   MergeErrorKind
	Detail string
}

func mergeError(kind MergeErrorKind, format string, arguments ...interface{}) *MergeError {
	return &MergeError{
		Kind:   kind,
		Detail: fmt.Sprintf(format, arguments...),
	}
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("merge-reveal: %s: %s", e.Kind, e.Detail)
}

func (e *MergeError) Is(target error) bool {
	if e.Kind.IsConflict() {
		return target == fault.ErrMergeConflict
	}
	return target == fault.ErrMergeMismatch
}

// UnrelatedTransitionError - a transition the bundle does not reference
type UnrelatedTransitionError struct {
	OpID       OpID
	Transition Transition
}

func (e *UnrelatedTransitionError) Error() string {
	return fmt.Sprintf("%s: %s", fault.ErrUnrelatedTransition, e.OpID)
}

func (e *UnrelatedTransitionError) Is(target error) bool {
	return target == fault.ErrUnrelatedTransition
}
