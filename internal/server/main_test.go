//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package server

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies that cancelling a Host's context actually stops its
// worker pool goroutines, instead of trusting that by inspection. The
// logger package's background goroutine lives for the whole process by
// design, so it is excluded from the check.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreAnyFunction("github.com/norgance/chatrouille/logger.init.0.func1"))
}
