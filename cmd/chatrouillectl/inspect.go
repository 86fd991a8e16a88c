//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package main

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect-key <base64-key>",
	Short: "Decode a base64 (standard alphabet, unpadded) key and report its length",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	raw, err := base64.RawStdEncoding.DecodeString(args[0])
	if err != nil {
		return fmt.Errorf("not a valid base64 (standard, unpadded) key: %w", err)
	}
	fmt.Printf("decoded length: %d bytes\n", len(raw))
	switch len(raw) {
	case 56:
		fmt.Println("kind: plausibly an X448 key (secret or public)")
	case 32:
		fmt.Println("kind: plausibly an Ed25519 public key, seed, or X25519 key")
	case 64:
		fmt.Println("kind: plausibly an Ed25519 private key")
	default:
		fmt.Println("kind: unrecognized length")
	}
	return nil
}
