// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stock

import (
	"github.com/bitmark-inc/consignd/contract"
	"github.com/bitmark-inc/consignd/fault"
)

// UnknownContractError - the contract has no stored history
type UnknownContractError struct {
	ContractID contract.ContractID
}

func (e *UnknownContractError) Error() string {
	return fault.ErrUnknownContract.Error() + ": " + e.ContractID.String()
}

// Is - matches fault.ErrUnknownContract
func (e *UnknownContractError) Is(target error) bool {
	return target == fault.ErrUnknownContract
}
