// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package validation

import (
	"fmt"
	"strings"

	"github.com/bitmark-inc/consignd/contract"
)

// Validity - overall verdict
type Validity uint8

const (
	Valid Validity = iota
	ValidWithWarnings
	Invalid
)

func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case ValidWithWarnings:
		return "valid with warnings"
	default:
		return "invalid"
	}
}

// FailureKind - a finding that makes a consignment invalid
type FailureKind uint8

const (
	FailSchemaMismatch FailureKind = iota + 1
	FailOperationSchema
	FailContractMismatch
	FailAnchorMismatch
	FailWitnessMismatch
	FailWitnessNoCommitment
	FailAttachmentMismatch
)

// WarningKind - a finding that does not invalidate
type WarningKind uint8

const (
	WarnConsignmentType WarningKind = iota + 1
	WarnUnresolvedWitness
	WarnTerminalBundleAbsent
	WarnTerminalSealAbsent
	WarnBadSignature
	WarnMissingInput
)

type Failure struct {
	Kind    FailureKind
	Message string
}

type Warning struct {
	Kind    WarningKind
	Message string
}

// Status - findings of a validation run
//
// unresolved witnesses could not be checked; they make the result
// inconclusive for those bundles rather than invalid
type Status struct {
	Failures   []Failure
	Warnings   []Warning
	Unresolved []contract.Txid
}

func (s *Status) AddFailure(kind FailureKind, format string, arguments ...interface{}) {
	s.Failures = append(s.Failures, Failure{Kind: kind, Message: fmt.Sprintf(format, arguments...)})
}

func (s *Status) AddWarning(kind WarningKind, format string, arguments ...interface{}) {
	s.Warnings = append(s.Warnings, Warning{Kind: kind, Message: fmt.Sprintf(format, arguments...)})
}

func (s *Status) AddUnresolved(txid contract.Txid) {
	for _, u := range s.Unresolved {
		if u == txid {
			return
		}
	}
	s.Unresolved = append(s.Unresolved, txid)
}

// Validity - invalid if any failure, otherwise warnings decide
func (s Status) Validity() Validity {
	switch {
	case 0 != len(s.Failures):
		return Invalid
	case 0 != len(s.Warnings):
		return ValidWithWarnings
	default:
		return Valid
	}
}

func (s Status) String() string {
	b := strings.Builder{}
	b.WriteString(s.Validity().String())
	for _, f := range s.Failures {
		b.WriteString("\n  failure: " + f.Message)
	}
	for _, w := range s.Warnings {
		b.WriteString("\n  warning: " + w.Message)
	}
	return b.String()
}
