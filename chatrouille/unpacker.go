//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package chatrouille

import (
	"bytes"

	"github.com/cloudflare/circl/dh/x448"
	"golang.org/x/crypto/chacha20poly1305"
)

// SignatureHandle bundles a detached signature with the pre-hash it was
// computed over, so a later, independent step can verify it against any
// Ed25519 public key without re-deriving anything from the packet.
type SignatureHandle struct {
	PreHash   []byte
	Signature []byte
}

// UnpackedQuery is the result of successfully parsing a query packet.
type UnpackedQuery struct {
	Payload   []byte
	Mode      Mode
	Shared    SharedSecret
	Signature *SignatureHandle // present iff Mode == ModeSignedQuery
}

// UnpackQuery validates and parses an inbound query packet using the
// server's long-term X448 secret.
func UnpackQuery(packet []byte, serverSecret ServerSecret) (*UnpackedQuery, error) {
	if len(packet) < minimumQueryLength {
		return nil, ErrNotEnoughData
	}
	if !bytes.Equal(packet[:packetVersionLength], packetVersion) {
		return nil, ErrInvalidDataPrefix
	}

	mode := modeFromByte(packet[packetVersionLength])
	switch mode {
	case ModeSignedQuery:
		if len(packet) < minimumSignedQueryLength {
			return nil, ErrNotEnoughData
		}
	case ModeQuery:
		// minimum length already checked above
	default:
		return nil, ErrInvalidModeInData
	}

	keyStart := packetVersionLength + modeLength
	keyEnd := keyStart + clientPublicKeyLength
	var clientPublic x448.Key
	copy(clientPublic[:], packet[keyStart:keyEnd])

	var shared SharedSecret
	if !x448.Shared(&shared, &serverSecret, &clientPublic) {
		return nil, ErrDiffieHellmanFail
	}

	key, err := deriveSymmetricKey(shared, mode.Byte())
	if err != nil {
		return nil, ErrKeyDerivationError
	}
	defer zero(key[:])

	aeadEnd := len(packet)
	if mode == ModeSignedQuery {
		aeadEnd -= signatureLength
	}
	aeadBytes := packet[keyEnd:aeadEnd]

	payload, err := openAndDecompress(key, aeadBytes)
	if err != nil {
		return nil, err
	}

	result := &UnpackedQuery{Payload: payload, Mode: mode, Shared: shared}
	if mode == ModeSignedQuery {
		preHash, err := computePreHash(packet[:aeadEnd])
		if err != nil {
			return nil, ErrKeyDerivationError
		}
		sig := make([]byte, signatureLength)
		copy(sig, packet[aeadEnd:])
		result.Signature = &SignatureHandle{PreHash: preHash, Signature: sig}
	}
	return result, nil
}

// UnpackResponse validates and parses an inbound response packet using
// the shared secret agreed during the corresponding query.
func UnpackResponse(packet []byte, shared SharedSecret) ([]byte, error) {
	if len(packet) < minimumResponseLength {
		return nil, ErrNotEnoughData
	}
	if !bytes.Equal(packet[:packetVersionLength], packetVersion) {
		return nil, ErrInvalidDataPrefix
	}
	mode := modeFromByte(packet[packetVersionLength])
	if mode != ModeResponse {
		return nil, ErrInvalidModeInData
	}

	key, err := deriveSymmetricKey(shared, mode.Byte())
	if err != nil {
		return nil, ErrKeyDerivationError
	}
	defer zero(key[:])

	aeadBytes := packet[packetVersionLength+modeLength:]
	return openAndDecompress(key, aeadBytes)
}

func openAndDecompress(key SymmetricKey, aeadBytes []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, ErrKeyDerivationError
	}
	if len(aeadBytes) < chacha20poly1305.NonceSizeX+aeadTagLength {
		return nil, ErrDecryptionError
	}
	nonce := aeadBytes[:chacha20poly1305.NonceSizeX]
	ciphertext := aeadBytes[chacha20poly1305.NonceSizeX:]
	padded, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionError
	}
	payload, err := decompress(padded)
	if err != nil {
		return nil, ErrDecompressionError
	}
	return payload, nil
}
