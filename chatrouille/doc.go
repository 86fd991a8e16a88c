package chatrouille

//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
//
// Chatrouille is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// Chatrouille is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

/*
 * --------------------------------------------------------------------
 * Chatrouille: a compact, opinionated end-to-end encrypted
 * request/response wire codec for a client-server application where
 * the server holds a long-lived X448 identity and clients are
 * anonymous or pseudonymous.
 *
 * Wire format ("duck emoji" version F0 9F A6 86):
 *
 *   query:    [version 4][mode 1][client X448 pubkey 56][AEAD frame n]
 *   response: [version 4][mode 1][AEAD frame n]
 *   signed:   query ‖ [Ed25519 signature 64]
 *
 * Every algorithm is fixed: there is no negotiation and no algorithm
 * agility. A protocol change means a different 4-byte version prefix,
 * never a field inside the current one.
 * --------------------------------------------------------------------
 */
