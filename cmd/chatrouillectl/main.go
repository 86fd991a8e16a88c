//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
//
// Chatrouille is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

// Command chatrouillectl is the operator tool for a Chatrouille host:
// key generation, packet inspection, and running the HTTP host.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chatrouillectl",
	Short: "Operate a Chatrouille end-to-end encrypted request/response host",
	Long: `chatrouillectl manages the key material and transport host around the
Chatrouille codec: generating X448/Ed25519/X25519 keys, inspecting
base64-encoded keys and packets, and serving the HTTP host.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
