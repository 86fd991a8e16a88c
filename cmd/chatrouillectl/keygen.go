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

var keygenFormat string

var keygenCmd = &cobra.Command{
	Use:   "keygen [x448|ed25519|x25519]",
	Short: "Generate a fresh key pair and print it base64-encoded",
	Example: `  # Generate the server's X448 key agreement secret
  chatrouillectl keygen x448

  # Generate an Ed25519 signing key pair for SignedQuery clients
  chatrouillectl keygen ed25519`,
	Args: cobra.ExactArgs(1),
	RunE: runKeygen,
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	keygenCmd.Flags().StringVarP(&keygenFormat, "format", "f", "base64", "Output format (base64 only, for now)")
}

func runKeygen(cmd *cobra.Command, args []string) error {
	switch args[0] {
	case "x448":
		secret, public, err := chatrouille.GenX448Secret(nil)
		if err != nil {
			return fmt.Errorf("generating x448 secret: %w", err)
		}
		fmt.Printf("secret: %s\n", chatrouille.EncodeKey(secret[:]))
		fmt.Printf("public: %s\n", chatrouille.EncodeKey(public[:]))
	case "ed25519":
		pair, err := chatrouille.GenEd25519Keypair(nil)
		if err != nil {
			return fmt.Errorf("generating ed25519 key pair: %w", err)
		}
		fmt.Printf("public:  %s\n", chatrouille.EncodeKey(pair.Public))
		fmt.Printf("private: %s\n", chatrouille.EncodeKey(pair.Private))
	case "x25519":
		secret, public, err := chatrouille.GenX25519Secret(nil)
		if err != nil {
			return fmt.Errorf("generating x25519 secret: %w", err)
		}
		fmt.Printf("secret: %s\n", chatrouille.EncodeKey(secret[:]))
		fmt.Printf("public: %s\n", chatrouille.EncodeKey(public[:]))
	default:
		return fmt.Errorf("unknown key type %q (want x448, ed25519 or x25519)", args[0])
	}
	return nil
}
