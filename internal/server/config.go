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

package server

import (
	"os"

	gerr "github.com/norgance/chatrouille/errors"
	"gopkg.in/yaml.v3"
)

// Config is the host process' on-disk configuration. It carries nothing
// about the codec itself (which has no configuration, by design), only
// the transport and key-material concerns the codec's spec explicitly
// hands off to its host.
type Config struct {
	// Listen is the "host:port" the HTTP host binds to.
	Listen string `yaml:"listen"`
	// ServerSecretPath points at the raw 56-byte X448 secret on disk.
	ServerSecretPath string `yaml:"server_secret_path"`
	// Ed25519SeedPath points at the raw 32-byte Ed25519 seed used to sign
	// the published server public key.
	Ed25519SeedPath string `yaml:"ed25519_seed_path"`
	// Workers is the size of the request-handling worker pool.
	Workers int `yaml:"workers"`
	// LogLevel is a logger.* level name ("INFO", "DBG", ...).
	LogLevel string `yaml:"log_level"`
	// RateLimit caps queries per [second, minute, hour, day, week] from a
	// single remote address; a zero entry disables that window. Empty
	// disables rate limiting entirely.
	RateLimit []int `yaml:"rate_limit"`
}

// DefaultConfig returns sane defaults for local development.
func DefaultConfig() Config {
	return Config{
		Listen:   "127.0.0.1:8787",
		Workers:  4,
		LogLevel: "INFO",
	}
}

// LoadConfig reads and parses a YAML configuration file, starting from
// DefaultConfig so a partial file only overrides what it mentions.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, gerr.New(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, gerr.New(err, "parsing config %s", path)
	}
	return cfg, nil
}
