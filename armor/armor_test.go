// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package armor_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/consignd/armor"
	"github.com/bitmark-inc/consignd/fault"
)

func sample() *armor.Armor {
	return &armor.Armor{
		Title: "CONSIGNMENT",
		Headers: []armor.Header{
			{Name: "Id", Value: "consign:abc"},
			{Name: "Version", Value: "2"},
			{Name: "Terminal", Value: "one"},
			{Name: "Terminal", Value: "two"},
		},
		Data: bytes.Repeat([]byte{0x01, 0xfe, 0x7a}, 70),
	}
}

func TestRoundTrip(t *testing.T) {
	a := sample()
	text := a.Marshal()

	parsed, err := armor.Parse(text)
	assert.Nil(t, err, "parse")
	assert.Equal(t, a, parsed, "structure changed")
	assert.Equal(t, text, parsed.Marshal(), "text is not byte identical")
	assert.Equal(t, []string{"one", "two"}, parsed.Values("Terminal"), "repeated headers")

	v, ok := parsed.Value("Version")
	assert.True(t, ok, "missing header")
	assert.Equal(t, "2", v, "header value")
}

func TestLayout(t *testing.T) {
	text := sample().Marshal()
	lines := strings.Split(text, "\n")

	assert.Equal(t, "-----BEGIN CONSIGNMENT-----", lines[0], "title line")
	assert.Equal(t, "Id: consign:abc", lines[1], "first header")
	assert.True(t, strings.HasPrefix(lines[5], "Check-SHA256: "), "checksum header")
	assert.Equal(t, "", lines[6], "blank after headers")
	assert.Equal(t, 64, len(lines[7]), "body width")
	assert.Equal(t, "-----END CONSIGNMENT-----", lines[len(lines)-2], "end line")
	assert.Equal(t, "", lines[len(lines)-1], "final newline")
}

func TestEmptyData(t *testing.T) {
	a := &armor.Armor{Title: "EMPTY"}
	text := a.Marshal()
	parsed, err := armor.Parse(text)
	assert.Nil(t, err, "parse")
	assert.Equal(t, 0, len(parsed.Data), "data appeared")
	assert.Equal(t, text, parsed.Marshal(), "text is not byte identical")
}

func TestDamaged(t *testing.T) {
	text := sample().Marshal()

	_, err := armor.Parse(strings.Replace(text, "BEGIN CONSIGNMENT", "BEGIN CONTRACT", 1))
	assert.Equal(t, fault.ErrInvalidArmorTitle, err, "title mismatch")

	lines := strings.Split(text, "\n")
	body := []byte(lines[7])
	if 'A' == body[0] {
		body[0] = 'B'
	} else {
		body[0] = 'A'
	}
	lines[7] = string(body)
	_, err = armor.Parse(strings.Join(lines, "\n"))
	assert.Equal(t, fault.ErrChecksumMismatch, err, "damaged body")

	_, err = armor.Parse("garbage")
	assert.Equal(t, fault.ErrInvalidArmor, err, "garbage")
}
