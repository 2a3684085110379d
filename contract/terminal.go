// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"sort"
)

// Terminal - a bundle ending a transfer and the seals it assigns to
// the recipient
type Terminal struct {
	Bundle BundleID
	Seals  []SecretSeal
}

// NewTerminal - seals are kept sorted and distinct
func NewTerminal(bundle BundleID, seals ...SecretSeal) Terminal {
	s := append([]SecretSeal(nil), seals...)
	sort.Slice(s, func(i, j int) bool { return s[i].Compare(s[j]) < 0 })

	distinct := s[:0]
	for i, seal := range s {
		if 0 == i || seal != s[i-1] {
			distinct = append(distinct, seal)
		}
	}
	return Terminal{
		Bundle: bundle,
		Seals:  distinct,
	}
}
