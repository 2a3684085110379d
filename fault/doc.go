// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches
//
// errors fall into three groups:
//
//   structural: a class from this package, never retried
//   connectivity: a ConnectivityError wrapping the cause, may be retried
//   findings: validation warnings, which are not errors at all
package fault
