// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package armor - ASCII armored envelope for binary containers
//
//   -----BEGIN <TITLE>-----
//   Name: value              (zero or more, order kept, may repeat)
//   Check-SHA256: <hex>      (always last, added by Marshal)
//
//   <base64, 64 columns>
//
//   -----END <TITLE>-----
package armor

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/bitmark-inc/consignd/fault"
)

const (
	beginPrefix  = "-----BEGIN "
	endPrefix    = "-----END "
	dashes       = "-----"
	checkHeader  = "Check-SHA256"
	headerSep    = ": "
	lineLength   = 64
	lineTerminal = "\n"
)

// Header - one armor header line
type Header struct {
	Name  string
	Value string
}

// Armor - a decoded envelope
type Armor struct {
	Title   string
	Headers []Header
	Data    []byte
}

// Values - every value of a header, in order
func (a *Armor) Values(name string) []string {
	values := []string(nil)
	for _, h := range a.Headers {
		if h.Name == name {
			values = append(values, h.Value)
		}
	}
	return values
}

// Value - first value of a header
func (a *Armor) Value(name string) (string, bool) {
	for _, h := range a.Headers {
		if h.Name == name {
			return h.Value, true
		}
	}
	return "", false
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Marshal - produce the armored text
func (a *Armor) Marshal() string {
	b := strings.Builder{}

	b.WriteString(beginPrefix + a.Title + dashes + lineTerminal)
	for _, h := range a.Headers {
		b.WriteString(h.Name + headerSep + h.Value + lineTerminal)
	}
	b.WriteString(checkHeader + headerSep + checksum(a.Data) + lineTerminal)
	b.WriteString(lineTerminal)

	encoded := base64.StdEncoding.EncodeToString(a.Data)
	for len(encoded) > lineLength {
		b.WriteString(encoded[:lineLength] + lineTerminal)
		encoded = encoded[lineLength:]
	}
	if len(encoded) > 0 {
		b.WriteString(encoded + lineTerminal)
	}

	b.WriteString(lineTerminal)
	b.WriteString(endPrefix + a.Title + dashes + lineTerminal)

	return b.String()
}

// Parse - decode armored text, verifying the checksum
func Parse(text string) (*Armor, error) {
	lines := strings.Split(strings.TrimSuffix(text, lineTerminal), lineTerminal)
	if len(lines) < 4 {
		return nil, fault.ErrInvalidArmor
	}

	first := lines[0]
	if !strings.HasPrefix(first, beginPrefix) || !strings.HasSuffix(first, dashes) || len(first) <= len(beginPrefix)+len(dashes) {
		return nil, fault.ErrInvalidArmorTitle
	}
	title := first[len(beginPrefix) : len(first)-len(dashes)]
	if lines[len(lines)-1] != endPrefix+title+dashes {
		return nil, fault.ErrInvalidArmorTitle
	}
	lines = lines[1 : len(lines)-1]

	a := &Armor{
		Title: title,
	}

	check := ""
	n := 0
headers:
	for ; n < len(lines); n += 1 {
		line := lines[n]
		if "" == line {
			break headers
		}
		if "" != check {
			// nothing may follow the checksum
			return nil, fault.ErrInvalidArmor
		}
		s := strings.SplitN(line, headerSep, 2)
		if 2 != len(s) || "" == s[0] {
			return nil, fault.ErrInvalidArmor
		}
		if checkHeader == s[0] {
			check = s[1]
			continue headers
		}
		a.Headers = append(a.Headers, Header{Name: s[0], Value: s[1]})
	}
	if n >= len(lines) || "" == check {
		return nil, fault.ErrInvalidArmor
	}

	body := lines[n+1:]
	if 0 == len(body) || "" != body[len(body)-1] {
		return nil, fault.ErrInvalidArmor
	}
	body = body[:len(body)-1]
	for i, line := range body {
		if "" == line || len(line) > lineLength || (i < len(body)-1 && len(line) != lineLength) {
			return nil, fault.ErrInvalidArmor
		}
	}

	data, err := base64.StdEncoding.DecodeString(strings.Join(body, ""))
	if nil != err {
		return nil, fault.ErrInvalidArmor
	}
	if checksum(data) != check {
		return nil, fault.ErrChecksumMismatch
	}
	a.Data = data

	return a, nil
}
