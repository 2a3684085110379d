// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/consignd/consignment"
	"github.com/bitmark-inc/consignd/fault"
	"github.com/bitmark-inc/consignd/fixtures"
	"github.com/bitmark-inc/consignd/resolver"
	"github.com/bitmark-inc/consignd/stock"
)

func TestCommandHelp(t *testing.T) {
	w := &bytes.Buffer{}
	err := processCommand(w, stock.InMemory(), resolver.Offline{}, nil)
	assert.NoError(t, err, "help")
	assert.Contains(t, w.String(), "supported commands", "help text")

	w.Reset()
	err = processCommand(w, stock.InMemory(), resolver.Offline{}, []string{"no-such-command"})
	assert.Equal(t, fault.ErrInvalidCommand, err, "unknown command")
	assert.Contains(t, w.String(), "no such command", "error text")
}

func TestCommandSeal(t *testing.T) {
	s := stock.InMemory()
	w := &bytes.Buffer{}

	seal := fixtures.Seal(5, 55)
	err := processCommand(w, s, resolver.Offline{}, []string{"seal", seal.Txid.String(), "5", "55"})
	require.NoError(t, err, "seal")
	assert.Equal(t, seal.Conceal().String()+"\n", w.String(), "secret seal")

	err = processCommand(w, s, resolver.Offline{}, []string{"seal", "xyz", "5", "55"})
	assert.Error(t, err, "bad txid")
}

func TestCommandExportAndTransfer(t *testing.T) {
	asset := fixtures.NewAsset(1000)
	change := fixtures.Seal(6, 66)
	step := asset.Spend(asset.IssueOpout(), 1,
		fixtures.Output{Seal: fixtures.Seal(5, 55), Amount: 400, Conceal: true},
		fixtures.Output{Seal: change, Amount: 600},
	)
	r := fixtures.Resolver(step)

	s := stock.InMemory()
	importAsset(t, s, asset)
	require.NoError(t, s.ConsumeBundle(asset.ContractID(), step.Bundle.Clone(), r), "consume bundle")

	w := &bytes.Buffer{}
	err := processCommand(w, s, r, []string{"contracts"})
	require.NoError(t, err, "contracts")
	assert.True(t, strings.HasPrefix(w.String(), asset.ContractID().String()), "contract listed")

	w.Reset()
	err = processCommand(w, s, r, []string{"export", asset.ContractID().String()})
	require.NoError(t, err, "export")
	exported, err := consignment.ParseArmored[consignment.ContractKind](w.String())
	require.NoError(t, err, "parse export")
	assert.Equal(t, asset.ContractID(), exported.ContractID(), "exported contract")

	name := filepath.Join(t.TempDir(), "transfer.armor")
	outpoint := fmt.Sprintf("%s:%d", change.Txid, change.Vout)
	err = processCommand(w, s, r, []string{"transfer", asset.ContractID().String(), name, outpoint})
	require.NoError(t, err, "transfer")

	text, err := os.ReadFile(name)
	require.NoError(t, err, "read transfer")
	transfer, err := consignment.ParseArmored[consignment.TransferKind](string(text))
	require.NoError(t, err, "parse transfer")
	assert.Equal(t, 1, len(transfer.Terminals), "terminals")

	err = processCommand(w, s, r, []string{"transfer", asset.ContractID().String(), name, "1234"})
	assert.Error(t, err, "short secret seal")

	err = processCommand(w, s, r, []string{"regenerate"})
	assert.NoError(t, err, "regenerate")
}

func TestCommandSchema(t *testing.T) {
	s := stock.InMemory()
	schema := fixtures.Schema()
	text, err := consignment.ArmorSchema(schema)
	require.NoError(t, err, "armor schema")

	name := filepath.Join(t.TempDir(), "schema.armor")
	require.NoError(t, os.WriteFile(name, []byte(text), 0600), "write schema")

	w := &bytes.Buffer{}
	err = processCommand(w, s, resolver.Offline{}, []string{"schema", name})
	require.NoError(t, err, "schema")
	assert.Equal(t, schema.SchemaID().String()+"\n", w.String(), "schema id")
}

func TestParseOutpoint(t *testing.T) {
	txid := fixtures.Txid(0x12)

	o, err := parseOutpoint(txid.String() + ":7")
	require.NoError(t, err, "valid outpoint")
	assert.Equal(t, txid, o.Txid, "txid")
	assert.Equal(t, uint32(7), o.Vout, "vout")

	_, err = parseOutpoint(txid.String())
	assert.Equal(t, fault.ErrInvalidIdentifier, err, "missing vout")

	_, err = parseOutpoint(txid.String() + ":x")
	assert.Error(t, err, "bad vout")
}
