// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"fmt"
	"sort"

	"github.com/bitmark-inc/consignd/commit"
	"github.com/bitmark-inc/consignd/fault"
)

// Schema - the types a contract may use
type Schema struct {
	Name            string
	GlobalTypes     []GlobalType
	OwnedTypes      map[AssignmentType]StateShape
	TransitionTypes []uint16
	ExtensionTypes  []uint16
}

// IfaceImpl - binding of an interface to a schema, carried opaquely
type IfaceImpl struct {
	Iface  IfaceID
	Schema SchemaID
	Name   string
}

func sortedU16(list []uint16) []uint16 {
	s := append([]uint16(nil), list...)
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	return s
}

// SchemaID - commitment to the schema content
func (s Schema) SchemaID() SchemaID {
	e := commit.TagSchema.Encoder()
	e.WriteString(s.Name)

	globals := make([]uint16, len(s.GlobalTypes))
	for i, g := range s.GlobalTypes {
		globals[i] = uint16(g)
	}
	globals = sortedU16(globals)
	e.WriteLen(len(globals))
	for _, g := range globals {
		e.WriteU16(g)
	}

	owned := make([]uint16, 0, len(s.OwnedTypes))
	for t := range s.OwnedTypes {
		owned = append(owned, uint16(t))
	}
	owned = sortedU16(owned)
	e.WriteLen(len(owned))
	for _, t := range owned {
		e.WriteU16(t)
		e.WriteU8(uint8(s.OwnedTypes[AssignmentType(t)]))
	}

	for _, list := range [][]uint16{s.TransitionTypes, s.ExtensionTypes} {
		sorted := sortedU16(list)
		e.WriteLen(len(sorted))
		for _, t := range sorted {
			e.WriteU16(t)
		}
	}
	return SchemaID(e.Sum())
}

func containsU16(list []uint16, v uint16) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// CheckOperation - every type used by the operation is declared
func (s Schema) CheckOperation(op Operation) error {
	switch op.Kind() {
	case OpTransition:
		if !containsU16(s.TransitionTypes, op.Type()) {
			return fmt.Errorf("%w: transition type %d", fault.ErrSchemaMismatch, op.Type())
		}
	case OpExtension:
		if !containsU16(s.ExtensionTypes, op.Type()) {
			return fmt.Errorf("%w: extension type %d", fault.ErrSchemaMismatch, op.Type())
		}
	}

globals:
	for _, t := range op.Globals().Types() {
		for _, g := range s.GlobalTypes {
			if g == t {
				continue globals
			}
		}
		return fmt.Errorf("%w: global type %d", fault.ErrSchemaMismatch, t)
	}

	owned := op.Owned()
	for _, t := range owned.Types() {
		shape, ok := s.OwnedTypes[t]
		if !ok {
			return fmt.Errorf("%w: owned type %d", fault.ErrSchemaMismatch, t)
		}
		if shape != owned[t].Shape {
			return fmt.Errorf("%w: owned type %d is %s not %s", fault.ErrSchemaMismatch, t, owned[t].Shape, shape)
		}
	}
	return nil
}
