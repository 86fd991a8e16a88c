//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package chatrouille

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"pgregory.net/rapid"
)

func genServerKeypair(t *rapid.T) (ServerSecret, ServerPublic) {
	secret, public, err := GenX448Secret(rand.Reader)
	if err != nil {
		t.Fatalf("gen server keypair: %v", err)
	}
	return secret, public
}

// Invariant 1: unsigned round trip for all plaintexts and server keypairs.
func TestPropertyUnsignedRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		secret, public := genServerKeypair(t)
		plaintext := rapid.SliceOfN(rapid.Byte(), 0, 2048).Draw(t, "plaintext")

		packet, _, err := PackUnsignedQuery(plaintext, public)
		if err != nil {
			t.Fatalf("pack: %v", err)
		}
		got, err := UnpackQuery(packet, secret)
		if err != nil {
			t.Fatalf("unpack: %v", err)
		}
		if !bytes.Equal(got.Payload, plaintext) {
			t.Fatalf("payload mismatch")
		}
		if got.Mode != ModeQuery {
			t.Fatalf("mode = %v, want Query", got.Mode)
		}
	})
}

// Invariant 2: signed round trip verifies against the signer's key and
// fails against an unrelated one.
func TestPropertySignedRoundTripVerifies(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		secret, public := genServerKeypair(t)
		plaintext := rapid.SliceOfN(rapid.Byte(), 0, 1024).Draw(t, "plaintext")

		keypair, err := GenEd25519Keypair(rand.Reader)
		if err != nil {
			t.Fatalf("gen keypair: %v", err)
		}
		other, err := GenEd25519Keypair(rand.Reader)
		if err != nil {
			t.Fatalf("gen other keypair: %v", err)
		}

		packet, _, err := PackSignedQuery(plaintext, public, keypair)
		if err != nil {
			t.Fatalf("pack: %v", err)
		}
		got, err := UnpackQuery(packet, secret)
		if err != nil {
			t.Fatalf("unpack: %v", err)
		}
		if err := VerifySignature(got.Signature, keypair.Public); err != nil {
			t.Fatalf("verify against signer: %v", err)
		}
		if err := VerifySignature(got.Signature, other.Public); err == nil {
			t.Fatalf("verify against unrelated key unexpectedly succeeded")
		}
	})
}

// Invariant 3: response round trip for every shared secret produced by a
// successful query.
func TestPropertyResponseRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		secret, public := genServerKeypair(t)
		query := rapid.SliceOfN(rapid.Byte(), 0, 512).Draw(t, "query")
		response := rapid.SliceOfN(rapid.Byte(), 0, 512).Draw(t, "response")

		qPacket, clientShared, err := PackUnsignedQuery(query, public)
		if err != nil {
			t.Fatalf("pack query: %v", err)
		}
		unpacked, err := UnpackQuery(qPacket, secret)
		if err != nil {
			t.Fatalf("unpack query: %v", err)
		}

		rPacket, err := PackResponse(response, unpacked.Shared)
		if err != nil {
			t.Fatalf("pack response: %v", err)
		}
		got, err := UnpackResponse(rPacket, clientShared)
		if err != nil {
			t.Fatalf("unpack response: %v", err)
		}
		if !bytes.Equal(got, response) {
			t.Fatalf("response payload mismatch")
		}
	})
}

// Invariant 4: key freshness — two successive packs of the same plaintext
// against the same server key produce distinct packets and shared secrets.
func TestPropertyKeyFreshness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		_, public := genServerKeypair(t)
		plaintext := rapid.SliceOfN(rapid.Byte(), 1, 256).Draw(t, "plaintext")

		packetA, sharedA, err := PackUnsignedQuery(plaintext, public)
		if err != nil {
			t.Fatalf("pack a: %v", err)
		}
		packetB, sharedB, err := PackUnsignedQuery(plaintext, public)
		if err != nil {
			t.Fatalf("pack b: %v", err)
		}
		if bytes.Equal(packetA, packetB) {
			t.Fatalf("two packs produced identical packets")
		}
		if sharedA == sharedB {
			t.Fatalf("two packs produced identical shared secrets")
		}

		respA, err := PackResponse([]byte("r"), sharedA)
		if err != nil {
			t.Fatal(err)
		}
		respB, err := PackResponse([]byte("r"), sharedB)
		if err != nil {
			t.Fatal(err)
		}
		if bytes.Equal(respA, respB) {
			t.Fatalf("responses under distinct shared secrets collided")
		}
	})
}

// Invariant 6: the compressed-plus-padded plaintext length is always a
// multiple of 32, observable as the AEAD body length matching the
// nonce+tag+multiple-of-32 shape.
func TestPropertyLengthQuantization(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		_, public := genServerKeypair(t)
		plaintext := rapid.SliceOfN(rapid.Byte(), 0, 4096).Draw(t, "plaintext")

		packet, _, err := PackUnsignedQuery(plaintext, public)
		if err != nil {
			t.Fatalf("pack: %v", err)
		}
		aeadLen := len(packet) - (packetVersionLength + modeLength + clientPublicKeyLength)
		bodyLen := aeadLen - aeadNonceLength - aeadTagLength
		if bodyLen%paddingBlockSize != 0 {
			t.Fatalf("padded body length %d is not a multiple of %d", bodyLen, paddingBlockSize)
		}
	})
}

// Invariant 7: tamper detection. Flipping a byte in the AEAD-covered
// region breaks decryption; flipping the version prefix or the mode byte
// is caught earlier, by the corresponding structural check.
func TestPropertyTamperDetection(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		secret, public := genServerKeypair(t)
		plaintext := rapid.SliceOfN(rapid.Byte(), 1, 256).Draw(t, "plaintext")

		packet, _, err := PackUnsignedQuery(plaintext, public)
		if err != nil {
			t.Fatalf("pack: %v", err)
		}

		idx := rapid.IntRange(packetVersionLength+modeLength+clientPublicKeyLength, len(packet)-1).Draw(t, "tamper index")
		tampered := append([]byte(nil), packet...)
		tampered[idx] ^= 0xff

		if _, err := UnpackQuery(tampered, secret); err == nil {
			t.Fatalf("tampered packet unpacked without error")
		}

		prefixTampered := append([]byte(nil), packet...)
		prefixTampered[0] ^= 0xff
		if _, err := UnpackQuery(prefixTampered, secret); !errors.Is(err, ErrInvalidDataPrefix) {
			t.Fatalf("prefix tamper err = %v, want ErrInvalidDataPrefix", err)
		}

		modeTampered := append([]byte(nil), packet...)
		modeTampered[packetVersionLength] = 0xAA
		if _, err := UnpackQuery(modeTampered, secret); !errors.Is(err, ErrInvalidModeInData) {
			t.Fatalf("mode tamper err = %v, want ErrInvalidModeInData", err)
		}
	})
}

// Invariant 8: base64 idempotence — decode(encode(k)) = k, and decode
// rejects out-of-alphabet or wrong-length strings.
func TestPropertyBase64Idempotence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 64).Draw(t, "key length")
		key := rapid.SliceOfN(rapid.Byte(), n, n).Draw(t, "key")

		encoded := EncodeKey(key)
		decoded, err := DecodeKey(encoded, n)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !bytes.Equal(decoded, key) {
			t.Fatalf("decode(encode(k)) != k")
		}

		if _, err := DecodeKey(encoded, n+1); err == nil {
			t.Fatalf("decode accepted wrong expected length")
		}
		if _, err := DecodeKey(encoded+"!!not-base64!!", n); err == nil {
			t.Fatalf("decode accepted out-of-alphabet input")
		}
	})
}
