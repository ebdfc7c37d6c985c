// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bytestream implements the random-access, endian-aware byte
// cursor every meshkit format parser is built on (spec.md §3, §4.1). Two
// backends share one implementation: a heap-buffered backend for
// arbitrary files (including ones being written), and a memory-mapped,
// read-only backend selected for files below a configurable size
// threshold.
package bytestream

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"golang.org/x/text/encoding/charmap"

	"meshkit"
)

// Endian selects byte order for a single typed read or write.
type Endian int

const (
	LittleEndian Endian = iota
	BigEndian
)

func (e Endian) order() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// backend is the minimal random-access surface both implementations
// provide; Stream builds every typed accessor on top of it.
type backend interface {
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
	Len() int64
	Close() error
}

// Stream is a cursor over a bounded byte region. It is the concrete type
// returned by Open and Create; both the heap-buffered and memory-mapped
// backends are implemented once, here, against the backend interface,
// so typed reads/writes are guaranteed to agree bit-for-bit regardless
// of which backend is in play (spec.md §4.1's round-trip invariant).
type Stream struct {
	b      backend
	pos    int64
	closed bool
}

const op = "bytestream"

// Position returns the current cursor offset.
func (s *Stream) Position() int64 { return s.pos }

// Length returns the total size of the backing region.
func (s *Stream) Length() int64 { return s.b.Len() }

// EOF reports whether the cursor is at or past the end of the region.
func (s *Stream) EOF() bool { return s.pos >= s.b.Len() }

// Seek moves the cursor to an absolute offset.
func (s *Stream) Seek(pos int64) error {
	if pos < 0 {
		return meshkit.NewError(meshkit.Malformed, op+".Seek", errf("negative offset %d", pos))
	}
	s.pos = pos
	return nil
}

// Skip moves the cursor forward (or backward, for negative n) relative
// to its current position.
func (s *Stream) Skip(n int64) error { return s.Seek(s.pos + n) }

func (s *Stream) readN(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := s.b.ReadAt(buf, s.pos)
	if err != nil && err != io.EOF {
		return nil, meshkit.NewError(meshkit.IO, op+".read", err).At(s.pos)
	}
	if read < n {
		return nil, meshkit.NewError(meshkit.Malformed, op+".read", errf("unexpected EOF: wanted %d bytes, got %d", n, read)).At(s.pos)
	}
	s.pos += int64(n)
	return buf, nil
}

func (s *Stream) writeN(p []byte) error {
	n, err := s.b.WriteAt(p, s.pos)
	if err != nil {
		if me, ok := err.(*meshkit.Error); ok {
			return me
		}
		return meshkit.NewError(meshkit.IO, op+".write", err).At(s.pos)
	}
	s.pos += int64(n)
	return nil
}

// ReadU8 reads one unsigned byte.
func (s *Stream) ReadU8() (uint8, error) {
	b, err := s.readN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadI8 reads one signed byte.
func (s *Stream) ReadI8() (int8, error) {
	v, err := s.ReadU8()
	return int8(v), err
}

// ReadU16 reads an unsigned 16-bit integer in the given byte order.
func (s *Stream) ReadU16(e Endian) (uint16, error) {
	b, err := s.readN(2)
	if err != nil {
		return 0, err
	}
	return e.order().Uint16(b), nil
}

// ReadI16 reads a signed 16-bit integer in the given byte order.
func (s *Stream) ReadI16(e Endian) (int16, error) {
	v, err := s.ReadU16(e)
	return int16(v), err
}

// ReadU32 reads an unsigned 32-bit integer in the given byte order.
func (s *Stream) ReadU32(e Endian) (uint32, error) {
	b, err := s.readN(4)
	if err != nil {
		return 0, err
	}
	return e.order().Uint32(b), nil
}

// ReadI32 reads a signed 32-bit integer in the given byte order.
func (s *Stream) ReadI32(e Endian) (int32, error) {
	v, err := s.ReadU32(e)
	return int32(v), err
}

// ReadU64 reads an unsigned 64-bit integer in the given byte order.
func (s *Stream) ReadU64(e Endian) (uint64, error) {
	b, err := s.readN(8)
	if err != nil {
		return 0, err
	}
	return e.order().Uint64(b), nil
}

// ReadI64 reads a signed 64-bit integer in the given byte order.
func (s *Stream) ReadI64(e Endian) (int64, error) {
	v, err := s.ReadU64(e)
	return int64(v), err
}

// ReadF32 reads an IEEE-754 32-bit float in the given byte order.
func (s *Stream) ReadF32(e Endian) (float32, error) {
	v, err := s.ReadU32(e)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadF64 reads an IEEE-754 64-bit float in the given byte order.
func (s *Stream) ReadF64(e Endian) (float64, error) {
	v, err := s.ReadU64(e)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadBytes reads n raw bytes without any text interpretation.
func (s *Stream) ReadBytes(n int) ([]byte, error) { return s.readN(n) }

// WriteU8 writes one unsigned byte.
func (s *Stream) WriteU8(v uint8) error { return s.writeN([]byte{v}) }

// WriteI8 writes one signed byte.
func (s *Stream) WriteI8(v int8) error { return s.WriteU8(uint8(v)) }

// WriteU16 writes an unsigned 16-bit integer in the given byte order.
func (s *Stream) WriteU16(v uint16, e Endian) error {
	b := make([]byte, 2)
	e.order().PutUint16(b, v)
	return s.writeN(b)
}

// WriteI16 writes a signed 16-bit integer in the given byte order.
func (s *Stream) WriteI16(v int16, e Endian) error { return s.WriteU16(uint16(v), e) }

// WriteU32 writes an unsigned 32-bit integer in the given byte order.
func (s *Stream) WriteU32(v uint32, e Endian) error {
	b := make([]byte, 4)
	e.order().PutUint32(b, v)
	return s.writeN(b)
}

// WriteI32 writes a signed 32-bit integer in the given byte order.
func (s *Stream) WriteI32(v int32, e Endian) error { return s.WriteU32(uint32(v), e) }

// WriteU64 writes an unsigned 64-bit integer in the given byte order.
func (s *Stream) WriteU64(v uint64, e Endian) error {
	b := make([]byte, 8)
	e.order().PutUint64(b, v)
	return s.writeN(b)
}

// WriteI64 writes a signed 64-bit integer in the given byte order.
func (s *Stream) WriteI64(v int64, e Endian) error { return s.WriteU64(uint64(v), e) }

// WriteF32 writes an IEEE-754 32-bit float in the given byte order.
func (s *Stream) WriteF32(v float32, e Endian) error { return s.WriteU32(math.Float32bits(v), e) }

// WriteF64 writes an IEEE-754 64-bit float in the given byte order.
func (s *Stream) WriteF64(v float64, e Endian) error { return s.WriteU64(math.Float64bits(v), e) }

// WriteBytes writes raw bytes without any text interpretation.
func (s *Stream) WriteBytes(p []byte) error { return s.writeN(p) }

// iso8859_1 is shared by ScanUntil and ReadLine: both interpret scanned
// bytes as ISO-8859-1 code points (spec.md §4.1) using the real decoder
// rather than a hand-rolled byte-to-rune cast.
var iso8859_1 = charmap.ISO8859_1.NewDecoder()

func decodeISO88591(b []byte) (string, error) {
	out, err := iso8859_1.Bytes(b)
	if err != nil {
		return "", meshkit.NewError(meshkit.Malformed, op+".decode", err)
	}
	return string(out), nil
}

// ScanUntil consumes bytes one at a time until one of delims is
// encountered (which is consumed but not returned) or EOF is reached,
// and returns the accumulated bytes decoded as ISO-8859-1.
func (s *Stream) ScanUntil(delims ...byte) (string, error) {
	var acc []byte
	for {
		if s.EOF() {
			break
		}
		b, err := s.ReadU8()
		if err != nil {
			return "", err
		}
		if isDelim(b, delims) {
			break
		}
		acc = append(acc, b)
	}
	return decodeISO88591(acc)
}

func isDelim(b byte, delims []byte) bool {
	for _, d := range delims {
		if b == d {
			return true
		}
	}
	return false
}

// ReadLine reads up to and consuming a line terminator: CR, LF, or CR
// immediately followed by LF (spec.md §4.1). ok is false only when the
// stream was already at EOF before any byte was read, so an empty final
// line (EOF immediately after a terminator) is distinguishable from no
// line at all.
func (s *Stream) ReadLine() (text string, ok bool, err error) {
	if s.EOF() {
		return "", false, nil
	}
	var acc []byte
	for {
		if s.EOF() {
			break
		}
		b, rerr := s.ReadU8()
		if rerr != nil {
			return "", false, rerr
		}
		if b == '\n' {
			break
		}
		if b == '\r' {
			if !s.EOF() {
				peekPos := s.pos
				nb, perr := s.ReadU8()
				if perr != nil {
					return "", false, perr
				}
				if nb != '\n' {
					// not CRLF: put the peeked byte back.
					s.pos = peekPos
				}
			}
			break
		}
		acc = append(acc, b)
	}
	text, err = decodeISO88591(acc)
	return text, true, err
}

// Close releases the backend. It is idempotent.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.b.Close(); err != nil {
		return meshkit.NewError(meshkit.IO, op+".Close", err)
	}
	return nil
}

func errf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
