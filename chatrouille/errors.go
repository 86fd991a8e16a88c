//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package chatrouille

import "errors"

// The codec surfaces a single closed taxonomy of error kinds. Every
// error is returned to the caller; nothing is retried inside the codec,
// and a decryption/decompression failure is never distinguished from a
// tampering attempt beyond what the AEAD itself already reveals.
var (
	// ErrNotEnoughData is returned when a packet is shorter than the
	// minimum length required by its (candidate) mode.
	ErrNotEnoughData = errors.New("chatrouille: not enough data")
	// ErrInvalidDataPrefix is returned when the 4-byte version prefix
	// doesn't match the expected packetVersion.
	ErrInvalidDataPrefix = errors.New("chatrouille: invalid data prefix")
	// ErrInvalidModeInData is returned when the mode byte isn't one this
	// parse function accepts.
	ErrInvalidModeInData = errors.New("chatrouille: invalid mode in data")
	// ErrKeyLoadingError is returned by DecodeKey when a decoded key has
	// the wrong length. The X448 implementation accepts any 56 bytes as a
	// public key, so a bad peer point in a packet surfaces as
	// ErrDiffieHellmanFail instead.
	ErrKeyLoadingError = errors.New("chatrouille: unable to load key")
	// ErrDiffieHellmanFail is returned when the X448 agreement produced a
	// low-order/all-zero result.
	ErrDiffieHellmanFail = errors.New("chatrouille: diffie-hellman agreement failed")
	// ErrKeyDerivationError is returned when the BLAKE2b KDF can't be
	// constructed (malformed domain tag length).
	ErrKeyDerivationError = errors.New("chatrouille: key derivation failed")
	// ErrEncryptionError is returned when the AEAD seal fails.
	ErrEncryptionError = errors.New("chatrouille: encryption failed")
	// ErrDecryptionError is returned when the AEAD open fails: tampering,
	// wrong key and truncation are all collapsed into this one kind.
	ErrDecryptionError = errors.New("chatrouille: decryption failed")
	// ErrCompressionError is returned when zlib compression fails.
	ErrCompressionError = errors.New("chatrouille: compression failed")
	// ErrDecompressionError is returned when zlib decompression fails.
	ErrDecompressionError = errors.New("chatrouille: decompression failed")
	// ErrSignatureError is returned when the trailing signature bytes
	// can't be parsed (wrong length).
	ErrSignatureError = errors.New("chatrouille: malformed signature")
	// ErrVerifySignatureError is returned when a detached signature
	// doesn't verify against the candidate public key.
	ErrVerifySignatureError = errors.New("chatrouille: signature verification failed")
	// ErrMissingKeypair is returned when packing a signed query without
	// a signing keypair.
	ErrMissingKeypair = errors.New("chatrouille: missing signing keypair")
	// ErrInvalidMode is an internal misuse guard for an unrecognized mode
	// passed to the shared pack routine.
	ErrInvalidMode = errors.New("chatrouille: invalid mode")
)
