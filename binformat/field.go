// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package binformat implements the V2 container: the canonical on-disk
// format meshkit both reads and writes (spec.md §4.5). Every integer and
// float field is big-endian; a Reader and a Writer share the exact wire
// grammar through the [meshkit/bytestream.Stream] cursor.
package binformat

import (
	"errors"

	"meshkit"
	"meshkit/bytestream"
)

// Version is the only container version this package reads or writes.
const Version uint8 = 2

const (
	tagTexture   uint8 = 0x01
	tagNoMoreTex uint8 = 0x00
)

// fieldReader accumulates the first error encountered across a sequence
// of typed reads, so chunk-body parsing reads like a straight-line list
// of field names instead of an if-err-return after every call.
type fieldReader struct {
	s   *bytestream.Stream
	op  string
	err error
}

// fail records err as the reader's sticky failure. An err that is
// already a classified *meshkit.Error (e.g. a Malformed verdict from a
// section-size validator) is kept as-is rather than re-wrapped as IO,
// so a structural violation surfaces with its own Kind instead of
// always reading as a low-level I/O failure.
func (r *fieldReader) fail(err error) {
	if r.err != nil {
		return
	}
	var me *meshkit.Error
	if errors.As(err, &me) {
		r.err = me
		return
	}
	r.err = meshkit.NewError(meshkit.IO, r.op, err)
}

func (r *fieldReader) u8() uint8 {
	if r.err != nil {
		return 0
	}
	v, err := r.s.ReadU8()
	if err != nil {
		r.fail(err)
	}
	return v
}

func (r *fieldReader) i32() int32 {
	if r.err != nil {
		return 0
	}
	v, err := r.s.ReadI32(bytestream.BigEndian)
	if err != nil {
		r.fail(err)
	}
	return v
}

func (r *fieldReader) i64() int64 {
	if r.err != nil {
		return 0
	}
	v, err := r.s.ReadI64(bytestream.BigEndian)
	if err != nil {
		r.fail(err)
	}
	return v
}

func (r *fieldReader) u16() uint16 {
	if r.err != nil {
		return 0
	}
	v, err := r.s.ReadU16(bytestream.BigEndian)
	if err != nil {
		r.fail(err)
	}
	return v
}

func (r *fieldReader) f32() float32 {
	if r.err != nil {
		return 0
	}
	v, err := r.s.ReadF32(bytestream.BigEndian)
	if err != nil {
		r.fail(err)
	}
	return v
}

// fieldWriter is fieldReader's write-side counterpart.
type fieldWriter struct {
	s   *bytestream.Stream
	op  string
	err error
}

// fail mirrors fieldReader.fail: a pre-classified *meshkit.Error keeps
// its own Kind instead of being re-wrapped as IO.
func (w *fieldWriter) fail(err error) {
	if w.err != nil {
		return
	}
	var me *meshkit.Error
	if errors.As(err, &me) {
		w.err = me
		return
	}
	w.err = meshkit.NewError(meshkit.IO, w.op, err)
}

func (w *fieldWriter) u8(v uint8) {
	if w.err != nil {
		return
	}
	if err := w.s.WriteU8(v); err != nil {
		w.fail(err)
	}
}

func (w *fieldWriter) i32(v int32) {
	if w.err != nil {
		return
	}
	if err := w.s.WriteI32(v, bytestream.BigEndian); err != nil {
		w.fail(err)
	}
}

func (w *fieldWriter) i64(v int64) {
	if w.err != nil {
		return
	}
	if err := w.s.WriteI64(v, bytestream.BigEndian); err != nil {
		w.fail(err)
	}
}

func (w *fieldWriter) u16(v uint16) {
	if w.err != nil {
		return
	}
	if err := w.s.WriteU16(v, bytestream.BigEndian); err != nil {
		w.fail(err)
	}
}

func (w *fieldWriter) f32(v float32) {
	if w.err != nil {
		return
	}
	if err := w.s.WriteF32(v, bytestream.BigEndian); err != nil {
		w.fail(err)
	}
}

func (w *fieldWriter) bytes(p []byte) {
	if w.err != nil {
		return
	}
	if err := w.s.WriteBytes(p); err != nil {
		w.fail(err)
	}
}
