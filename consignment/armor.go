// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consignment

import (
	"strconv"

	"github.com/bitmark-inc/consignd/armor"
	"github.com/bitmark-inc/consignd/codec"
	"github.com/bitmark-inc/consignd/contract"
	"github.com/bitmark-inc/consignd/fault"
	"github.com/bitmark-inc/consignd/idtext"
)

// armor titles
const (
	ArmorTitle       = "CONSIGNMENT"
	SchemaArmorTitle = "CONTRACT SCHEMA"
)

// armor header names
const (
	headerID       = "Id"
	headerVersion  = "Version"
	headerType     = "Type"
	headerContract = "Contract-Id"
	headerTerminal = "Terminal"
	headerSchemaID = "Schema-Id"
	headerName     = "Name"
)

func kindName(transfer bool) string {
	if transfer {
		return "transfer"
	}
	return "contract"
}

// Marshal - canonical binary form
func (c *Consignment[K]) Marshal() ([]byte, error) {
	return codec.Marshal(c)
}

// Unmarshal - decode the binary form
func Unmarshal[K Kind](data []byte) (*Consignment[K], error) {
	c := &Consignment[K]{}
	if err := codec.Unmarshal(data, c); nil != err {
		return nil, err
	}
	return c, nil
}

// Armor - envelope with descriptive headers
func (c *Consignment[K]) Armor() (*armor.Armor, error) {
	data, err := c.Marshal()
	if nil != err {
		return nil, err
	}
	a := &armor.Armor{
		Title: ArmorTitle,
		Headers: []armor.Header{
			{Name: headerID, Value: c.ID().String()},
			{Name: headerVersion, Value: strconv.Itoa(int(c.Version))},
			{Name: headerType, Value: kindName(IsTransfer[K]())},
			{Name: headerContract, Value: c.ContractID().String()},
		},
		Data: data,
	}
	for _, t := range c.Terminals {
		a.Headers = append(a.Headers, armor.Header{
			Name:  headerTerminal,
			Value: idtext.Encode(idtext.BundlePrefix, t.Bundle),
		})
	}
	return a, nil
}

// ArmorString - the armored text
func (c *Consignment[K]) ArmorString() (string, error) {
	a, err := c.Armor()
	if nil != err {
		return "", err
	}
	return a.Marshal(), nil
}

// ParseArmored - decode armored text, checking the headers agree
// with the content
func ParseArmored[K Kind](text string) (*Consignment[K], error) {
	a, err := armor.Parse(text)
	if nil != err {
		return nil, err
	}
	if ArmorTitle != a.Title {
		return nil, fault.ErrInvalidArmorTitle
	}

	c, err := Unmarshal[K](a.Data)
	if nil != err {
		return nil, err
	}

	if typ, ok := a.Value(headerType); !ok || kindName(IsTransfer[K]()) != typ {
		return nil, fault.ErrArmorTypeMismatch
	}
	if id, ok := a.Value(headerID); !ok || c.ID().String() != id {
		return nil, fault.ErrArmorIDMismatch
	}
	if cid, ok := a.Value(headerContract); ok && c.ContractID().String() != cid {
		return nil, fault.ErrContractMismatch
	}
	if v, ok := a.Value(headerVersion); ok && strconv.Itoa(int(c.Version)) != v {
		return nil, fault.ErrInvalidArmor
	}
	return c, nil
}

// ArmorSchema - armored text of a schema
func ArmorSchema(s contract.Schema) (string, error) {
	data, err := codec.Marshal(s)
	if nil != err {
		return "", err
	}
	a := &armor.Armor{
		Title: SchemaArmorTitle,
		Headers: []armor.Header{
			{Name: headerSchemaID, Value: s.SchemaID().String()},
			{Name: headerName, Value: s.Name},
		},
		Data: data,
	}
	return a.Marshal(), nil
}

// ParseArmoredSchema - decode an armored schema
func ParseArmoredSchema(text string) (contract.Schema, error) {
	a, err := armor.Parse(text)
	if nil != err {
		return contract.Schema{}, err
	}
	if SchemaArmorTitle != a.Title {
		return contract.Schema{}, fault.ErrInvalidArmorTitle
	}
	s := contract.Schema{}
	if err := codec.Unmarshal(a.Data, &s); nil != err {
		return contract.Schema{}, err
	}
	if id, ok := a.Value(headerSchemaID); !ok || s.SchemaID().String() != id {
		return contract.Schema{}, fault.ErrArmorIDMismatch
	}
	return s, nil
}
