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
)

// s1ServerSecret is the literal server secret from spec.md scenario S1/S2.
var s1ServerSecret = ServerSecret{
	0x1c, 0x30, 0x6a, 0x7a, 0xc2, 0xa0, 0xe2, 0xe0, 0x99, 0x0b, 0x29, 0x44, 0x70, 0xcb, 0xa3, 0x39,
	0xe6, 0x45, 0x37, 0x72, 0xb0, 0x75, 0x81, 0x1d, 0x8f, 0xad, 0x0d, 0x1d, 0x69, 0x27, 0xc1, 0x20,
	0xbb, 0x5e, 0xe8, 0x97, 0x2b, 0x0d, 0x3e, 0x21, 0x37, 0x4c, 0x9c, 0x92, 0x1b, 0x09, 0xd1, 0xb0,
	0x36, 0x6f, 0x10, 0xb6, 0x51, 0x73, 0x99, 0x2d,
}

// S1: unsigned round trip with a literal server keypair and plaintext.
func TestS1UnsignedRoundTrip(t *testing.T) {
	serverPublic := PublicOf(s1ServerSecret)
	plaintext := []byte("Bonjour le monde.")

	packet, _, err := PackUnsignedQuery(plaintext, serverPublic)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	got, err := UnpackQuery(packet, s1ServerSecret)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if !bytes.Equal(got.Payload, plaintext) {
		t.Fatalf("payload mismatch: got %q want %q", got.Payload, plaintext)
	}
	if got.Mode != ModeQuery {
		t.Fatalf("mode = %v, want Query", got.Mode)
	}
}

// S2: signed query round trip; flipping the last byte breaks verification.
func TestS2SignedRoundTripAndTamper(t *testing.T) {
	serverPublic := PublicOf(s1ServerSecret)
	plaintext := []byte("Bonjour le monde.")

	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		t.Fatal(err)
	}
	keypair := Ed25519KeypairFromSeed(seed)

	packet, _, err := PackSignedQuery(plaintext, serverPublic, keypair)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	got, err := UnpackQuery(packet, s1ServerSecret)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if got.Signature == nil {
		t.Fatal("expected a signature handle for a signed query")
	}
	if err := VerifySignature(got.Signature, keypair.Public); err != nil {
		t.Fatalf("verify: %v", err)
	}

	tampered := append([]byte(nil), packet...)
	tampered[len(tampered)-1] ^= 0xff
	gotTampered, err := UnpackQuery(tampered, s1ServerSecret)
	if err != nil {
		t.Fatalf("unpack tampered: %v", err)
	}
	if err := VerifySignature(gotTampered.Signature, keypair.Public); !errors.Is(err, ErrVerifySignatureError) {
		t.Fatalf("verify tampered = %v, want ErrVerifySignatureError", err)
	}
}

// S3: empty plaintext round trips and the padded ciphertext body is a
// multiple of 32 bytes (excluding the header, AEAD nonce and tag).
func TestS3EmptyPlaintext(t *testing.T) {
	serverSecret, serverPublic, err := GenX448Secret(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	packet, _, err := PackUnsignedQuery(nil, serverPublic)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	got, err := UnpackQuery(packet, serverSecret)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if len(got.Payload) != 0 {
		t.Fatalf("payload = %q, want empty", got.Payload)
	}
	body := len(packet) - (packetVersionLength + modeLength + clientPublicKeyLength + aeadNonceLength + aeadTagLength)
	if body%paddingBlockSize != 0 {
		t.Fatalf("padded body length %d is not a multiple of %d", body, paddingBlockSize)
	}
}

// S4: an empty packet is rejected as NotEnoughData.
func TestS4EmptyPacket(t *testing.T) {
	serverSecret, _, err := GenX448Secret(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	_, err = UnpackQuery(nil, serverSecret)
	if !errors.Is(err, ErrNotEnoughData) {
		t.Fatalf("err = %v, want ErrNotEnoughData", err)
	}
}

// S5: a corrupted version prefix is rejected as InvalidDataPrefix.
func TestS5InvalidPrefix(t *testing.T) {
	serverSecret, serverPublic, err := GenX448Secret(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	packet, _, err := PackUnsignedQuery([]byte("hello"), serverPublic)
	if err != nil {
		t.Fatal(err)
	}
	packet[0] = 0x80
	_, err = UnpackQuery(packet, serverSecret)
	if !errors.Is(err, ErrInvalidDataPrefix) {
		t.Fatalf("err = %v, want ErrInvalidDataPrefix", err)
	}
}

// S6: a query packet whose mode byte is forced to SignedQuery but has no
// trailing signature is rejected as NotEnoughData.
func TestS6ForcedSignedModeTooShort(t *testing.T) {
	serverSecret, serverPublic, err := GenX448Secret(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	packet, _, err := PackUnsignedQuery([]byte("hello"), serverPublic)
	if err != nil {
		t.Fatal(err)
	}
	packet[packetVersionLength] = byte(ModeSignedQuery)
	_, err = UnpackQuery(packet, serverSecret)
	if !errors.Is(err, ErrNotEnoughData) {
		t.Fatalf("err = %v, want ErrNotEnoughData", err)
	}
}

func TestResponseRoundTrip(t *testing.T) {
	serverSecret, serverPublic, err := GenX448Secret(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	query := []byte("query payload")
	packet, shared, err := PackUnsignedQuery(query, serverPublic)
	if err != nil {
		t.Fatal(err)
	}
	unpacked, err := UnpackQuery(packet, serverSecret)
	if err != nil {
		t.Fatal(err)
	}

	response := []byte("response payload")
	respPacket, err := PackResponse(response, unpacked.Shared)
	if err != nil {
		t.Fatalf("pack response: %v", err)
	}
	got, err := UnpackResponse(respPacket, shared)
	if err != nil {
		t.Fatalf("unpack response: %v", err)
	}
	if !bytes.Equal(got, response) {
		t.Fatalf("response = %q, want %q", got, response)
	}
}

func TestDomainSeparation(t *testing.T) {
	serverSecret, serverPublic, err := GenX448Secret(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	packet, shared, err := PackUnsignedQuery([]byte("hi"), serverPublic)
	if err != nil {
		t.Fatal(err)
	}
	// A query packet's AEAD frame, wrapped in a response header, must not
	// open under the response-mode key.
	aead := packet[packetVersionLength+modeLength+clientPublicKeyLength:]
	respShaped := append(append([]byte{}, packetVersion...), byte(ModeResponse))
	respShaped = append(respShaped, aead...)
	if _, err := UnpackResponse(respShaped, shared); !errors.Is(err, ErrDecryptionError) {
		t.Fatalf("err = %v, want ErrDecryptionError", err)
	}
}

func TestMissingKeypairOnSignedQuery(t *testing.T) {
	_, serverPublic, err := GenX448Secret(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = PackSignedQuery([]byte("hi"), serverPublic, SigningKeypair{})
	if !errors.Is(err, ErrMissingKeypair) {
		t.Fatalf("err = %v, want ErrMissingKeypair", err)
	}
}

func TestUnknownModeRejected(t *testing.T) {
	serverSecret, serverPublic, err := GenX448Secret(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	packet, _, err := PackUnsignedQuery([]byte("hi"), serverPublic)
	if err != nil {
		t.Fatal(err)
	}
	packet[packetVersionLength] = 0x99
	if _, err := UnpackQuery(packet, serverSecret); !errors.Is(err, ErrInvalidModeInData) {
		t.Fatalf("err = %v, want ErrInvalidModeInData", err)
	}
}
