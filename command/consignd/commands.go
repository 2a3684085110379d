// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bitmark-inc/consignd/consignment"
	"github.com/bitmark-inc/consignd/contract"
	"github.com/bitmark-inc/consignd/fault"
	"github.com/bitmark-inc/consignd/resolver"
	"github.com/bitmark-inc/consignd/stock"
)

// data command handler
// the stock is open so these commands can read and/or change it
func processCommand(w io.Writer, s *stock.Stock, r resolver.WitnessResolver, arguments []string) error {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {

	case "contracts", "c":
		contracts, err := s.Contracts()
		if nil != err {
			return err
		}
		for _, cid := range contracts {
			h, err := s.ContractHistory(cid)
			if nil != err {
				return err
			}
			fmt.Fprintf(w, "%s  schema: %s  unspent: %d\n", cid, h.SchemaID, len(h.Unspent()))
		}

	case "history", "h":
		if len(arguments) < 1 {
			return fmt.Errorf("missing contract id argument")
		}
		cid, err := contract.ParseContractID(arguments[0])
		if nil != err {
			return err
		}
		h, err := s.ContractHistory(cid)
		if nil != err {
			return err
		}
		b, err := json.MarshalIndent(h, "", "  ")
		if nil != err {
			return err
		}
		fmt.Fprintf(w, "%s\n", b)

	case "export", "x":
		if len(arguments) < 1 {
			return fmt.Errorf("missing contract id argument")
		}
		cid, err := contract.ParseContractID(arguments[0])
		if nil != err {
			return err
		}
		c, err := s.ExportContract(cid)
		if nil != err {
			return err
		}
		text, err := c.ArmorString()
		if nil != err {
			return err
		}
		return writeOutput(w, arguments[1:], text)

	case "transfer", "t":
		if len(arguments) < 3 {
			return fmt.Errorf("usage: transfer CONTRACT FILE (TXID:VOUT|SECRET-SEAL)...")
		}
		cid, err := contract.ParseContractID(arguments[0])
		if nil != err {
			return err
		}
		outpoints := []contract.Outpoint{}
		secrets := []contract.SecretSeal{}
		for _, a := range arguments[2:] {
			if strings.Contains(a, ":") {
				o, err := parseOutpoint(a)
				if nil != err {
					return err
				}
				outpoints = append(outpoints, o)
				continue
			}
			secret, err := parseSecretSeal(a)
			if nil != err {
				return err
			}
			secrets = append(secrets, secret)
		}
		c, err := s.Transfer(cid, outpoints, secrets)
		if nil != err {
			return err
		}
		text, err := c.ArmorString()
		if nil != err {
			return err
		}
		return writeOutput(w, arguments[1:2], text)

	case "seal", "s":
		if len(arguments) < 3 {
			return fmt.Errorf("usage: seal TXID VOUT BLINDING")
		}
		txid, err := contract.TxidFromString(arguments[0])
		if nil != err {
			return err
		}
		vout, err := strconv.ParseUint(arguments[1], 10, 32)
		if nil != err {
			return err
		}
		blinding, err := strconv.ParseUint(arguments[2], 10, 64)
		if nil != err {
			return err
		}
		seal := contract.NewSeal(txid, uint32(vout), blinding)
		if err := s.StoreSecretSeal(seal); nil != err {
			return err
		}
		fmt.Fprintf(w, "%s\n", seal.Conceal())

	case "schema":
		if len(arguments) < 1 {
			return fmt.Errorf("missing file name argument")
		}
		text, err := os.ReadFile(arguments[0])
		if nil != err {
			return err
		}
		schema, err := consignment.ParseArmoredSchema(string(text))
		if nil != err {
			return err
		}
		if err := s.ImportSchema(schema); nil != err {
			return err
		}
		fmt.Fprintf(w, "%s\n", schema.SchemaID())

	case "regenerate", "r":
		return s.Regenerate(r)

	default:
		switch command {
		case "help", "?":
		default:
			fmt.Fprintf(w, "error: no such command: %q\n", command)
		}
		fmt.Fprintf(w, "supported commands:\n\n")
		fmt.Fprintf(w, "  help                          (?)  - display this message\n\n")
		fmt.Fprintf(w, "  contracts                     (c)  - list known contracts\n\n")
		fmt.Fprintf(w, "  history CONTRACT              (h)  - dump the contract state as JSON\n\n")
		fmt.Fprintf(w, "  export CONTRACT [FILE]        (x)  - write an armored contract consignment\n\n")
		fmt.Fprintf(w, "  transfer CONTRACT FILE ITEMS  (t)  - write an armored transfer consignment\n")
		fmt.Fprintf(w, "                                       ITEMS are TXID:VOUT outpoints or secret seals\n\n")
		fmt.Fprintf(w, "  seal TXID VOUT BLINDING       (s)  - remember a seal, display its secret form\n\n")
		fmt.Fprintf(w, "  schema FILE                        - import an armored schema\n\n")
		fmt.Fprintf(w, "  regenerate                    (r)  - rebuild state and index from the stash\n\n")
		if "help" != command && "?" != command {
			return fault.ErrInvalidCommand
		}
	}

	return nil
}

// write to the named file, or the writer if no name or "-"
func writeOutput(w io.Writer, arguments []string, text string) error {
	if 0 == len(arguments) || "-" == arguments[0] || "" == arguments[0] {
		_, err := io.WriteString(w, text)
		return err
	}
	return os.WriteFile(arguments[0], []byte(text), 0600)
}

func parseOutpoint(s string) (contract.Outpoint, error) {
	n := strings.LastIndex(s, ":")
	if n < 0 {
		return contract.Outpoint{}, fault.ErrInvalidIdentifier
	}
	txid, err := contract.TxidFromString(s[:n])
	if nil != err {
		return contract.Outpoint{}, err
	}
	vout, err := strconv.ParseUint(s[n+1:], 10, 32)
	if nil != err {
		return contract.Outpoint{}, err
	}
	return contract.Outpoint{Txid: txid, Vout: uint32(vout)}, nil
}

func parseSecretSeal(s string) (contract.SecretSeal, error) {
	secret := contract.SecretSeal{}
	b, err := hex.DecodeString(s)
	if nil != err {
		return secret, err
	}
	if len(secret) != len(b) {
		return secret, fault.ErrInvalidIdentifierLength
	}
	copy(secret[:], b)
	return secret, nil
}
