//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package server

import (
	"errors"
	"net/http"

	"github.com/norgance/chatrouille/chatrouille"
)

// statusForError maps a chatrouille error kind to the fixed HTTP status
// table from spec.md §6: structural/mode/length and decrypt/decompress
// failures are 422, signature failures are 403.
func statusForError(err error) int {
	switch {
	case errors.Is(err, chatrouille.ErrVerifySignatureError),
		errors.Is(err, chatrouille.ErrSignatureError):
		return http.StatusForbidden
	case errors.Is(err, chatrouille.ErrNotEnoughData),
		errors.Is(err, chatrouille.ErrInvalidDataPrefix),
		errors.Is(err, chatrouille.ErrInvalidModeInData),
		errors.Is(err, chatrouille.ErrKeyLoadingError),
		errors.Is(err, chatrouille.ErrDiffieHellmanFail),
		errors.Is(err, chatrouille.ErrKeyDerivationError),
		errors.Is(err, chatrouille.ErrDecryptionError),
		errors.Is(err, chatrouille.ErrDecompressionError):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// errorKind returns a short label for metrics, matching the taxonomy in
// spec.md §7.
func errorKind(err error) string {
	switch {
	case errors.Is(err, chatrouille.ErrNotEnoughData):
		return "not_enough_data"
	case errors.Is(err, chatrouille.ErrInvalidDataPrefix):
		return "invalid_data_prefix"
	case errors.Is(err, chatrouille.ErrInvalidModeInData):
		return "invalid_mode_in_data"
	case errors.Is(err, chatrouille.ErrKeyLoadingError):
		return "key_loading_error"
	case errors.Is(err, chatrouille.ErrDiffieHellmanFail):
		return "diffie_hellman_fail"
	case errors.Is(err, chatrouille.ErrKeyDerivationError):
		return "key_derivation_error"
	case errors.Is(err, chatrouille.ErrDecryptionError):
		return "decryption_error"
	case errors.Is(err, chatrouille.ErrDecompressionError):
		return "decompression_error"
	case errors.Is(err, chatrouille.ErrSignatureError):
		return "signature_error"
	case errors.Is(err, chatrouille.ErrVerifySignatureError):
		return "verify_signature_error"
	default:
		return "unknown"
	}
}
