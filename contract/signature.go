// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"golang.org/x/crypto/ed25519"
)

// ContentSignature - an identity vouching for a piece of content
// by its 32 byte id
type ContentSignature struct {
	Content   [32]byte
	Identity  []byte
	Signature []byte
}

// SignContent - sign a content id
func SignContent(content [32]byte, key ed25519.PrivateKey) ContentSignature {
	return ContentSignature{
		Content:   content,
		Identity:  append([]byte(nil), key.Public().(ed25519.PublicKey)...),
		Signature: ed25519.Sign(key, content[:]),
	}
}

// Verify - check the signature
func (s ContentSignature) Verify() bool {
	if ed25519.PublicKeySize != len(s.Identity) || ed25519.SignatureSize != len(s.Signature) {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(s.Identity), s.Content[:], s.Signature)
}
