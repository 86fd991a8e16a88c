//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/norgance/chatrouille/chatrouille"
	gerr "github.com/norgance/chatrouille/errors"
	"github.com/norgance/chatrouille/internal/server"
	"github.com/norgance/chatrouille/logger"
	"github.com/spf13/cobra"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Chatrouille HTTP host",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "chatrouillectl.yaml", "Path to the host configuration file")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := server.LoadConfig(serveConfigPath)
	if err != nil {
		return gerr.New(err, "loading config %s", serveConfigPath)
	}
	if cfg.LogLevel != "" {
		logger.SetLogLevelFromName(cfg.LogLevel)
	}

	secretRaw, err := os.ReadFile(cfg.ServerSecretPath)
	if err != nil {
		return gerr.New(err, "reading server secret %s", cfg.ServerSecretPath)
	}
	var secret chatrouille.ServerSecret
	if len(secretRaw) != len(secret) {
		return fmt.Errorf("server secret at %s has length %d, want %d", cfg.ServerSecretPath, len(secretRaw), len(secret))
	}
	copy(secret[:], secretRaw)

	seedRaw, err := os.ReadFile(cfg.Ed25519SeedPath)
	if err != nil {
		return gerr.New(err, "reading ed25519 seed %s", cfg.Ed25519SeedPath)
	}
	if len(seedRaw) != ed25519.SeedSize {
		return fmt.Errorf("ed25519 seed at %s has length %d, want %d", cfg.Ed25519SeedPath, len(seedRaw), ed25519.SeedSize)
	}
	signingKey := ed25519.NewKeyFromSeed(seedRaw)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// echoHandler stands in for the application logic this repository
	// deliberately leaves out-of-scope: it returns the decrypted payload
	// unchanged, so `serve` is runnable end-to-end without a real backend.
	echoHandler := func(payload []byte) []byte { return payload }

	host := server.NewHost(ctx, cfg, secret, signingKey, echoHandler, nil)

	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: host.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf(logger.INFO, "[chatrouillectl] listening on %s\n", cfg.Listen)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Println(logger.INFO, "[chatrouillectl] shutting down")
		return httpServer.Shutdown(context.Background())
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return gerr.New(err, "serving http")
		}
		return nil
	}
}
