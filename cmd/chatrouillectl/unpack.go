//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package main

import (
	"encoding/base64"
	"fmt"

	"github.com/norgance/chatrouille/chatrouille"
	"github.com/spf13/cobra"
)

var unpackVerifyKey string

var unpackCmd = &cobra.Command{
	Use:   "unpack <server-secret-base64> <packet-base64>",
	Short: "Parse a query packet with a server X448 secret, for manual wire-format debugging",
	Example: `  # Unpack and print the plaintext
  chatrouillectl unpack <server-secret> <packet>

  # Also verify a SignedQuery's detached signature
  chatrouillectl unpack --verify-key <ed25519-public> <server-secret> <packet>`,
	Args: cobra.ExactArgs(2),
	RunE: runUnpack,
}

func init() {
	rootCmd.AddCommand(unpackCmd)
	unpackCmd.Flags().StringVar(&unpackVerifyKey, "verify-key", "", "base64 Ed25519 public key to verify a SignedQuery's signature against")
}

func runUnpack(cmd *cobra.Command, args []string) error {
	secretRaw, err := chatrouille.DecodeKey(args[0], 56)
	if err != nil {
		return fmt.Errorf("decoding server secret: %w", err)
	}
	var serverSecret chatrouille.ServerSecret
	copy(serverSecret[:], secretRaw)

	packet, err := base64.RawStdEncoding.DecodeString(args[1])
	if err != nil {
		return fmt.Errorf("decoding packet: %w", err)
	}

	unpacked, err := chatrouille.UnpackQuery(packet, serverSecret)
	if err != nil {
		return fmt.Errorf("unpacking query: %w", err)
	}

	fmt.Printf("mode:    %s\n", unpacked.Mode)
	fmt.Printf("payload: %q\n", unpacked.Payload)
	fmt.Printf("shared:  %s\n", chatrouille.EncodeKey(unpacked.Shared[:]))

	if unpacked.Signature != nil {
		fmt.Println("signature: present")
		if unpackVerifyKey != "" {
			pub, err := chatrouille.DecodeKey(unpackVerifyKey, 32)
			if err != nil {
				return fmt.Errorf("decoding verify key: %w", err)
			}
			if err := chatrouille.VerifySignature(unpacked.Signature, pub); err != nil {
				return fmt.Errorf("signature verification: %w", err)
			}
			fmt.Println("signature: verified")
		}
	}
	return nil
}
