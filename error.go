// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshkit

import (
	"errors"
	"fmt"
)

// Error is the error type returned by every loader, writer, and codec
// operation in meshkit. It always carries a [Kind], and optionally the
// byte offset or line at which the failure was detected.
type Error struct {
	Kind Kind
	Op   string
	// Offset is the byte offset the failure was detected at, or -1
	// if not applicable.
	Offset int64
	// Line is the 1-based source line the failure was detected at,
	// or 0 if not applicable.
	Line int
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	} else if e.Offset >= 0 {
		msg += fmt.Sprintf(" (offset %d)", e.Offset)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// NewError returns an [*Error] with the given kind and operation, wrapping
// err. Offset and Line default to -1 and 0 (unknown); use [Error.At] or
// [Error.AtLine] to attach position information.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Offset: -1, Err: err}
}

// At returns a copy of e with its byte offset set.
func (e *Error) At(offset int64) *Error {
	c := *e
	c.Offset = offset
	return &c
}

// AtLine returns a copy of e with its source line set.
func (e *Error) AtLine(line int) *Error {
	c := *e
	c.Line = line
	return &c
}

// Is reports whether err is a meshkit [*Error] with the given kind.
func Is(err error, kind Kind) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Kind == kind
	}
	return false
}
