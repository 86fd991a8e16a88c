//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package chatrouille

import "github.com/cloudflare/circl/sign/ed25519"

// VerifySignature checks a signed query's detached signature against a
// candidate Ed25519 public key. The signed-query construction signs the
// ciphertext and header, not the plaintext, so this can authenticate a
// packet's origin without ever touching the server's X448 secret; the
// caller is free to pair it with any client identifier carried inside
// the already-decrypted plaintext.
func VerifySignature(sig *SignatureHandle, public ed25519.PublicKey) error {
	if sig == nil {
		return ErrSignatureError
	}
	if len(sig.Signature) != signatureLength {
		return ErrSignatureError
	}
	if !ed25519.Verify(public, sig.PreHash, sig.Signature) {
		return ErrVerifySignatureError
	}
	return nil
}
