// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshkit

//go:generate core generate

// Kind categorizes the ways a loader or writer operation can fail.
type Kind int32 //enums:enum

const (
	// NotReady indicates an operation requires a file or target first.
	NotReady Kind = iota

	// Locked indicates an operation cannot mutate state while a
	// load or write is already in progress.
	Locked

	// IO indicates an underlying storage failure. It is never recovered
	// locally; it always bubbles up to the caller.
	IO

	// Malformed indicates a structural or numeric violation of a
	// format's contract. It is always fatal to the current iterator.
	Malformed

	// Unsupported indicates a declared format feature the parser does
	// not implement.
	Unsupported

	// InvalidTexture indicates a texture payload was rejected by a
	// validator callback.
	InvalidTexture

	// NotAvailable indicates Next was called on an iterator that has
	// already produced its last chunk.
	NotAvailable
)
