// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bytestream

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name string, body []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	s, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, s.WriteBytes(body))
	require.NoError(t, s.Close())
	return path
}

func TestRoundTripTypedAccessorsHeap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rt.bin")
	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteU8(0xAB))
	require.NoError(t, w.WriteU16(0x1234, BigEndian))
	require.NoError(t, w.WriteU16(0x1234, LittleEndian))
	require.NoError(t, w.WriteI32(-42, BigEndian))
	require.NoError(t, w.WriteU64(0x0102030405060708, BigEndian))
	require.NoError(t, w.WriteF32(3.5, BigEndian))
	require.NoError(t, w.WriteF64(-2.25, LittleEndian))
	require.NoError(t, w.Close())

	r, err := Open(path, 0) // sizeLimit<=0 forces heap backend
	require.NoError(t, err)
	defer r.Close()

	u8, err := r.ReadU8()
	require.NoError(t, err)
	assert.EqualValues(t, 0xAB, u8)

	be16, err := r.ReadU16(BigEndian)
	require.NoError(t, err)
	assert.EqualValues(t, 0x1234, be16)

	le16, err := r.ReadU16(LittleEndian)
	require.NoError(t, err)
	assert.EqualValues(t, 0x1234, le16)

	i32, err := r.ReadI32(BigEndian)
	require.NoError(t, err)
	assert.EqualValues(t, -42, i32)

	u64, err := r.ReadU64(BigEndian)
	require.NoError(t, err)
	assert.EqualValues(t, 0x0102030405060708, u64)

	f32, err := r.ReadF32(BigEndian)
	require.NoError(t, err)
	assert.Equal(t, float32(3.5), f32)

	f64, err := r.ReadF64(LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, -2.25, f64)

	assert.True(t, r.EOF())
}

func TestRoundTripAgreesAcrossBackends(t *testing.T) {
	path := writeFixture(t, "agree.bin", []byte{0x01, 0x02, 0x03, 0x04, 0xFF, 0xFE})

	heapS, err := Open(path, 0)
	require.NoError(t, err)
	defer heapS.Close()

	mappedS, err := Open(path, 1<<30)
	require.NoError(t, err)
	defer mappedS.Close()

	hv, err := heapS.ReadU32(BigEndian)
	require.NoError(t, err)
	mv, err := mappedS.ReadU32(BigEndian)
	require.NoError(t, err)
	assert.Equal(t, hv, mv)
}

func TestMappedStreamRejectsWrites(t *testing.T) {
	path := writeFixture(t, "ro.bin", []byte("hello"))
	s, err := Open(path, 1<<30)
	require.NoError(t, err)
	defer s.Close()
	err = s.WriteU8(1)
	require.Error(t, err)
}

func TestScanUntilConsumesDelimiter(t *testing.T) {
	path := writeFixture(t, "scan.bin", []byte("abc def,ghi"))
	s, err := Open(path, 0)
	require.NoError(t, err)
	defer s.Close()

	tok, err := s.ScanUntil(' ', ',')
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	tok, err = s.ScanUntil(' ', ',')
	require.NoError(t, err)
	assert.Equal(t, "def", tok)

	tok, err = s.ScanUntil(' ', ',')
	require.NoError(t, err)
	assert.Equal(t, "ghi", tok)
}

func TestReadLineHandlesAllTerminators(t *testing.T) {
	path := writeFixture(t, "lines.bin", []byte("one\ntwo\r\nthree\rfour"))
	s, err := Open(path, 0)
	require.NoError(t, err)
	defer s.Close()

	for _, want := range []string{"one", "two", "three", "four"} {
		line, ok, err := s.ReadLine()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, line)
	}

	_, ok, err := s.ReadLine()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReadLineEmptyLineDistinctFromEOF(t *testing.T) {
	path := writeFixture(t, "empty.bin", []byte("\n"))
	s, err := Open(path, 0)
	require.NoError(t, err)
	defer s.Close()

	line, ok, err := s.ReadLine()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "", line)

	_, ok, err = s.ReadLine()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSeekAndSkip(t *testing.T) {
	path := writeFixture(t, "seek.bin", []byte{1, 2, 3, 4, 5})
	s, err := Open(path, 0)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Seek(3))
	v, err := s.ReadU8()
	require.NoError(t, err)
	assert.EqualValues(t, 4, v)

	require.NoError(t, s.Skip(-2))
	assert.Equal(t, int64(2), s.Position())
}

func TestISO8859_1HighBytesPassThrough(t *testing.T) {
	path := writeFixture(t, "hi.bin", []byte{0xE9, 0x00}) // e-acute in latin-1, then a delimiter
	s, err := Open(path, 0)
	require.NoError(t, err)
	defer s.Close()

	tok, err := s.ScanUntil(0x00)
	require.NoError(t, err)
	require.Len(t, []rune(tok), 1)
	assert.Equal(t, rune(0xE9), []rune(tok)[0])
}
