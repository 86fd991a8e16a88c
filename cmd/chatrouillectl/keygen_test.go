//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package main

import "testing"

func TestRunKeygenRejectsUnknownType(t *testing.T) {
	if err := runKeygen(keygenCmd, []string{"rsa"}); err == nil {
		t.Fatal("expected an error for an unsupported key type")
	}
}

func TestRunKeygenAcceptsKnownTypes(t *testing.T) {
	for _, kind := range []string{"x448", "ed25519", "x25519"} {
		if err := runKeygen(keygenCmd, []string{kind}); err != nil {
			t.Errorf("runKeygen(%q) = %v, want nil", kind, err)
		}
	}
}
