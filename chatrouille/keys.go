//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package chatrouille

import (
	"crypto/rand"
	"encoding/base64"
	"io"

	"github.com/cloudflare/circl/dh/x25519"
	"github.com/cloudflare/circl/dh/x448"
	"github.com/cloudflare/circl/sign/ed25519"
	"golang.org/x/crypto/blake2b"
)

// ServerSecret is a long-lived X448 scalar. It never leaves the process
// that loaded it.
type ServerSecret = x448.Key

// ServerPublic is the X448 public key derived from a ServerSecret.
type ServerPublic = x448.Key

// SharedSecret is the raw output of an X448 agreement. It is derived on
// demand and must never be persisted; it is owned by whichever side
// derives it and passed by reference into a single logical exchange.
type SharedSecret = x448.Key

// SymmetricKey is a 32-byte AEAD key derived from a SharedSecret and a
// single-byte domain tag.
type SymmetricKey [symmetricKeySize]byte

// SigningKeypair is a long-lived Ed25519 identity, optionally held by a
// pseudonymous client.
type SigningKeypair struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// GenX448Secret generates a fresh long-lived (or ephemeral) X448 scalar
// from rng, along with its public counterpart.
func GenX448Secret(rng io.Reader) (secret ServerSecret, public ServerPublic, err error) {
	if rng == nil {
		rng = rand.Reader
	}
	if _, err = io.ReadFull(rng, secret[:]); err != nil {
		return ServerSecret{}, ServerPublic{}, err
	}
	x448.KeyGen(&public, &secret)
	return secret, public, nil
}

// PublicOf derives the X448 public key for a secret.
func PublicOf(secret ServerSecret) ServerPublic {
	var public ServerPublic
	x448.KeyGen(&public, &secret)
	return public
}

// GenEd25519Keypair generates a fresh Ed25519 signing keypair from rng.
func GenEd25519Keypair(rng io.Reader) (SigningKeypair, error) {
	if rng == nil {
		rng = rand.Reader
	}
	pub, priv, err := ed25519.GenerateKey(rng)
	if err != nil {
		return SigningKeypair{}, err
	}
	return SigningKeypair{Public: pub, Private: priv}, nil
}

// Ed25519KeypairFromSeed reconstructs a signing keypair from its 32-byte
// seed, as used by the literal test vectors in spec.md §8.
func Ed25519KeypairFromSeed(seed []byte) SigningKeypair {
	priv := ed25519.NewKeyFromSeed(seed)
	pub := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(pub, priv[ed25519.SeedSize:])
	return SigningKeypair{Public: pub, Private: priv}
}

// GenX25519Secret generates an X25519 static secret. It is an
// application-level artifact (see spec.md §9 open questions) used by the
// surrounding client-side key-derivation toolkit; the codec itself never
// touches it.
func GenX25519Secret(rng io.Reader) (secret x25519.Key, public x25519.Key, err error) {
	if rng == nil {
		rng = rand.Reader
	}
	if _, err = io.ReadFull(rng, secret[:]); err != nil {
		return x25519.Key{}, x25519.Key{}, err
	}
	x25519.KeyGen(&public, &secret)
	return secret, public, nil
}

// deriveSymmetricKey computes the AEAD key for a (sharedSecret, domainTag)
// pair: BLAKE2b keyed with domainTag (1..64 bytes), hashing the raw bytes of shared,
// truncated/emitted at 32 bytes. domainTag is always the single mode byte
// of the packet being sealed or opened, which is what keeps query and
// response keys distinct even for the same shared secret.
func deriveSymmetricKey(shared SharedSecret, domainTag byte) (SymmetricKey, error) {
	h, err := blake2b.New(symmetricKeySize, []byte{domainTag})
	if err != nil {
		return SymmetricKey{}, err
	}
	if _, err := h.Write(shared[:]); err != nil {
		return SymmetricKey{}, err
	}
	var key SymmetricKey
	copy(key[:], h.Sum(nil))
	return key, nil
}

// EncodeKey base64-encodes a raw key with the standard alphabet, no
// padding, per spec.md §2 and §6.
func EncodeKey(key []byte) string {
	return base64.RawStdEncoding.EncodeToString(key)
}

// DecodeKey decodes a base64 (standard alphabet, no padding) key and
// checks it against the expected length. It rejects non-alphabet input
// and incorrect lengths.
func DecodeKey(s string, expectedLen int) ([]byte, error) {
	b, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(b) != expectedLen {
		return nil, ErrKeyLoadingError
	}
	return b, nil
}

// zero overwrites a byte slice with zeros on a best-effort basis. Go's
// garbage collector and stack copies mean this is not a hard security
// guarantee, only a defense-in-depth measure the teacher's own
// crypto/prng buffer-reuse style already favors.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
