// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"fmt"
)

// WitnessStatus - where a witness is on the chain
type WitnessStatus uint8

const (
	StatusMined WitnessStatus = iota
	StatusTentative
	StatusArchived
)

// WitnessOrd - ordering position of a witness
type WitnessOrd struct {
	Status    WitnessStatus
	Height    uint32
	Timestamp int64
}

func MinedOrd(height uint32, timestamp int64) WitnessOrd {
	return WitnessOrd{Status: StatusMined, Height: height, Timestamp: timestamp}
}

func TentativeOrd() WitnessOrd { return WitnessOrd{Status: StatusTentative} }

func ArchivedOrd() WitnessOrd { return WitnessOrd{Status: StatusArchived} }

func (o WitnessOrd) String() string {
	switch o.Status {
	case StatusMined:
		return fmt.Sprintf("mined@%d", o.Height)
	case StatusTentative:
		return "tentative"
	default:
		return "archived"
	}
}

// IsArchived - witness dropped from the chain
func (o WitnessOrd) IsArchived() bool {
	return StatusArchived == o.Status
}

// Depth - number of confirmations at the given chain tip
//
// false for witnesses not mined or above the tip
func (o WitnessOrd) Depth(tip uint32) (uint32, bool) {
	if StatusMined != o.Status || o.Height > tip {
		return 0, false
	}
	return tip - o.Height + 1, true
}

// Compare - mined by height then time, then tentative, then archived
func (o WitnessOrd) Compare(other WitnessOrd) int {
	switch {
	case o.Status < other.Status:
		return -1
	case o.Status > other.Status:
		return 1
	case StatusMined != o.Status:
		return 0
	case o.Height < other.Height:
		return -1
	case o.Height > other.Height:
		return 1
	case o.Timestamp < other.Timestamp:
		return -1
	case o.Timestamp > other.Timestamp:
		return 1
	}
	return 0
}

// OpOrd - total order of operations in a contract history
//
// genesis first, then extensions, then transitions by witness
type OpOrd struct {
	Kind    OpKind
	Witness WitnessOrd
	Nonce   uint64
	OpID    OpID
}

// Compare - total order
func (o OpOrd) Compare(other OpOrd) int {
	switch {
	case o.Kind < other.Kind:
		return -1
	case o.Kind > other.Kind:
		return 1
	}
	if c := o.Witness.Compare(other.Witness); 0 != c {
		return c
	}
	switch {
	case o.Nonce < other.Nonce:
		return -1
	case o.Nonce > other.Nonce:
		return 1
	}
	return o.OpID.Compare(other.OpID)
}
