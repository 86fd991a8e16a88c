//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package main

import (
	"fmt"

	"github.com/norgance/chatrouille/chatrouille"
	"github.com/spf13/cobra"
)

var packSignSeed string

var packCmd = &cobra.Command{
	Use:   "pack <server-public-key-base64> <plaintext>",
	Short: "Build a query packet against a server X448 public key, for manual wire-format debugging",
	Example: `  # Unsigned query
  chatrouillectl pack <server-public> "hello"

  # Signed query, from a 32-byte base64 Ed25519 seed
  chatrouillectl pack --sign-seed <seed> <server-public> "hello"`,
	Args: cobra.ExactArgs(2),
	RunE: runPack,
}

func init() {
	rootCmd.AddCommand(packCmd)
	packCmd.Flags().StringVar(&packSignSeed, "sign-seed", "", "base64 32-byte Ed25519 seed to build a signed query instead of an unsigned one")
}

func runPack(cmd *cobra.Command, args []string) error {
	publicRaw, err := chatrouille.DecodeKey(args[0], 56)
	if err != nil {
		return fmt.Errorf("decoding server public key: %w", err)
	}
	var serverPublic chatrouille.ServerPublic
	copy(serverPublic[:], publicRaw)

	plaintext := []byte(args[1])

	var packet []byte
	var shared chatrouille.SharedSecret
	if packSignSeed == "" {
		packet, shared, err = chatrouille.PackUnsignedQuery(plaintext, serverPublic)
		if err != nil {
			return fmt.Errorf("packing query: %w", err)
		}
	} else {
		seed, err := chatrouille.DecodeKey(packSignSeed, 32)
		if err != nil {
			return fmt.Errorf("decoding signing seed: %w", err)
		}
		keypair := chatrouille.Ed25519KeypairFromSeed(seed)
		packet, shared, err = chatrouille.PackSignedQuery(plaintext, serverPublic, keypair)
		if err != nil {
			return fmt.Errorf("packing signed query: %w", err)
		}
	}

	fmt.Printf("packet: %s\n", chatrouille.EncodeKey(packet))
	fmt.Printf("shared: %s\n", chatrouille.EncodeKey(shared[:]))
	return nil
}
