// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consignment

import (
	"github.com/bitmark-inc/consignd/fault"
	"github.com/bitmark-inc/consignd/resolver"
	"github.com/bitmark-inc/consignd/validation"
)

// Valid - a consignment that passed validation, possibly with warnings
type Valid[K Kind] struct {
	consignment *Consignment[K]
	status      validation.Status
}

// Consignment - the validated consignment
func (v *Valid[K]) Consignment() *Consignment[K] {
	return v.consignment
}

// Status - findings of the validation
func (v *Valid[K]) Status() validation.Status {
	return v.status
}

// InvalidError - failed validation, the consignment is kept for diagnostics
type InvalidError[K Kind] struct {
	Consignment *Consignment[K]
	Status      validation.Status
}

func (e *InvalidError[K]) Error() string {
	return fault.ErrInvalidConsignment.Error() + ": " + e.Status.String()
}

func (e *InvalidError[K]) Is(target error) bool {
	return target == fault.ErrInvalidConsignment
}

// Validate - run a validator with this consignment's witnesses in front
// of the external resolver
func (c *Consignment[K]) Validate(v validation.Validator, r resolver.WitnessResolver) (*Valid[K], error) {
	status := v.Validate(NewIndexed(c), c.WitnessResolver(r))
	if IsTransfer[K]() != c.Transfer {
		status.AddWarning(validation.WarnConsignmentType, "invalid consignment type")
	}

	if validation.Invalid == status.Validity() {
		return nil, &InvalidError[K]{
			Consignment: c,
			Status:      status,
		}
	}
	return &Valid[K]{
		consignment: c,
		status:      status,
	}, nil
}
