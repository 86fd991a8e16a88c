//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package chatrouille

import (
	"crypto/rand"
	"io"

	"github.com/cloudflare/circl/dh/x448"
	"github.com/cloudflare/circl/sign/ed25519"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20poly1305"
)

// PackUnsignedQuery builds an unsigned query packet for plaintext,
// directed at serverPublic. It generates a fresh ephemeral X448 secret,
// derives the shared secret, and returns the assembled packet alongside
// that shared secret so the caller can later unpack the matching
// response.
func PackUnsignedQuery(plaintext []byte, serverPublic ServerPublic) ([]byte, SharedSecret, error) {
	return packQuery(plaintext, serverPublic, nil, nil)
}

// PackSignedQuery is PackUnsignedQuery plus a detached Ed25519 signature
// over BLAKE2b(header ‖ ciphertext), computed with keypair.
func PackSignedQuery(plaintext []byte, serverPublic ServerPublic, keypair SigningKeypair) ([]byte, SharedSecret, error) {
	if keypair.Private == nil {
		return nil, SharedSecret{}, ErrMissingKeypair
	}
	return packQuery(plaintext, serverPublic, &keypair, rand.Reader)
}

func packQuery(plaintext []byte, serverPublic ServerPublic, keypair *SigningKeypair, rng io.Reader) ([]byte, SharedSecret, error) {
	if rng == nil {
		rng = rand.Reader
	}
	var clientSecret, clientPublic x448.Key
	if _, err := io.ReadFull(rng, clientSecret[:]); err != nil {
		return nil, SharedSecret{}, err
	}
	x448.KeyGen(&clientPublic, &clientSecret)

	var shared SharedSecret
	if !x448.Shared(&shared, &clientSecret, &serverPublic) {
		return nil, SharedSecret{}, ErrDiffieHellmanFail
	}

	mode := ModeQuery
	if keypair != nil {
		mode = ModeSignedQuery
	}

	packet, err := pack(plaintext, mode, clientPublic[:], shared, keypair)
	if err != nil {
		return nil, SharedSecret{}, err
	}
	return packet, shared, nil
}

// PackResponse builds a response packet for plaintext using the shared
// secret agreed during the corresponding query. No public key is carried
// in response packets.
func PackResponse(plaintext []byte, shared SharedSecret) ([]byte, error) {
	return pack(plaintext, ModeResponse, nil, shared, nil)
}

// pack implements the shared algorithm behind all three packer entry
// points, parameterized by mode: compress, pad to a multiple of 32,
// derive a mode-scoped symmetric key, AEAD-seal, assemble the header,
// and (for SignedQuery) append a detached Ed25519 signature.
func pack(plaintext []byte, mode Mode, clientPublicKey []byte, shared SharedSecret, keypair *SigningKeypair) ([]byte, error) {
	compressed, err := compress(plaintext)
	if err != nil {
		return nil, ErrCompressionError
	}
	padded := pad(compressed)

	key, err := deriveSymmetricKey(shared, mode.Byte())
	if err != nil {
		return nil, ErrKeyDerivationError
	}
	defer zero(key[:])

	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, ErrKeyDerivationError
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, ErrEncryptionError
	}
	sealed := aead.Seal(nonce, nonce, padded, nil)

	headerLen := packetVersionLength + modeLength
	if mode == ModeQuery || mode == ModeSignedQuery {
		headerLen += clientPublicKeyLength
	}
	packet := make([]byte, 0, headerLen+len(sealed)+signatureLength)
	packet = append(packet, packetVersion...)
	packet = append(packet, mode.Byte())
	switch mode {
	case ModeQuery, ModeSignedQuery:
		if len(clientPublicKey) != clientPublicKeyLength {
			return nil, ErrInvalidMode
		}
		packet = append(packet, clientPublicKey...)
	case ModeResponse:
		// no public key carried
	default:
		return nil, ErrInvalidMode
	}
	packet = append(packet, sealed...)

	if mode == ModeSignedQuery {
		if keypair == nil || keypair.Private == nil {
			return nil, ErrMissingKeypair
		}
		preHash, err := computePreHash(packet)
		if err != nil {
			return nil, ErrKeyDerivationError
		}
		sig := ed25519.Sign(keypair.Private, preHash)
		packet = append(packet, sig...)
	}
	return packet, nil
}

// computePreHash returns BLAKE2b-64 of packetSoFar, keyed with the fixed
// 16-byte salt "chatrouille-1789". Changing either the output length or
// the key is a protocol-breaking change.
func computePreHash(packetSoFar []byte) ([]byte, error) {
	h, err := blake2b.New(preHashLength, sigSalt)
	if err != nil {
		return nil, err
	}
	if _, err := h.Write(packetSoFar); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}
