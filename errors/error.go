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

// Package errors lets the host and CLI attach runtime context to one of
// chatrouille's sentinel errors without losing errors.Is/errors.As
// comparability against it.
package errors

import "fmt"

// Context wraps a sentinel error with a formatted, call-site-specific
// description. errors.Is/errors.As still see through it to Err.
type Context struct {
	Err error  // the wrapped sentinel, compared via errors.Is/errors.As
	Msg string // formatted context describing where/why it occurred
}

// Unwrap exposes Err to the standard errors package.
func (c *Context) Unwrap() error {
	return c.Err
}

func (c *Context) Error() string {
	return c.Err.Error() + " [" + c.Msg + "]"
}

// New wraps err with a formatted context message.
func New(err error, format string, args ...interface{}) *Context {
	return &Context{
		Err: err,
		Msg: fmt.Sprintf(format, args...),
	}
}
