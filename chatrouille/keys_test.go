//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package chatrouille

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestGenX448SecretProducesDistinctKeys(t *testing.T) {
	secretA, publicA, err := GenX448Secret(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	secretB, publicB, err := GenX448Secret(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	if secretA == secretB {
		t.Fatal("two generated secrets are identical")
	}
	if publicA == publicB {
		t.Fatal("two generated public keys are identical")
	}
	if PublicOf(secretA) != publicA {
		t.Fatal("PublicOf does not match the key returned by GenX448Secret")
	}
}

func TestDeriveSymmetricKeyDomainSeparated(t *testing.T) {
	_, shared, err := GenX448Secret(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	queryKey, err := deriveSymmetricKey(shared, ModeQuery.Byte())
	if err != nil {
		t.Fatal(err)
	}
	responseKey, err := deriveSymmetricKey(shared, ModeResponse.Byte())
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(queryKey[:], responseKey[:]) {
		t.Fatal("query and response keys must differ for the same shared secret")
	}
}

func TestEd25519KeypairFromSeedIsDeterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, 32)
	kp1 := Ed25519KeypairFromSeed(seed)
	kp2 := Ed25519KeypairFromSeed(seed)
	if !bytes.Equal(kp1.Public, kp2.Public) {
		t.Fatal("same seed produced different public keys")
	}
}

func TestDecodeKeyRejectsWrongLength(t *testing.T) {
	encoded := EncodeKey(make([]byte, 56))
	if _, err := DecodeKey(encoded, 32); err == nil {
		t.Fatal("expected an error decoding a 56-byte key as a 32-byte key")
	}
}
