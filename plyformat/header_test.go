// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plyformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshkit/bytestream"
)

func headerStream(t *testing.T, body string) *bytestream.Stream {
	t.Helper()
	path := writePLY(t, "header.ply", []byte(body))
	s, err := bytestream.Open(path, 0)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestParseHeaderScalarAndListProperties(t *testing.T) {
	s := headerStream(t, `ply
format binary_big_endian 1.0
comment made by meshkit tests
element vertex 2
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
`)
	h, err := parseHeader(s, "test")
	require.NoError(t, err)
	assert.Equal(t, "binary_big_endian", h.format)
	assert.Equal(t, bytestream.BigEndian, h.endian())
	assert.Equal(t, []string{"made by meshkit tests"}, h.comments)

	v := h.element("vertex")
	require.NotNil(t, v)
	assert.Equal(t, 2, v.count)
	assert.Equal(t, 0, v.indexOf("x"))
	assert.Equal(t, 2, v.indexOf("z"))

	f := h.element("face")
	require.NotNil(t, f)
	require.Len(t, f.props, 1)
	assert.True(t, f.props[0].isList)
	assert.Equal(t, typeUInt8, f.props[0].countType)
	assert.Equal(t, typeInt32, f.props[0].elemType)
}

func TestParseHeaderRejectsPropertyBeforeElement(t *testing.T) {
	s := headerStream(t, `ply
format ascii 1.0
property float x
end_header
`)
	_, err := parseHeader(s, "test")
	require.Error(t, err)
}

func TestParseHeaderRejectsUnsupportedFormat(t *testing.T) {
	s := headerStream(t, `ply
format wat 1.0
end_header
`)
	_, err := parseHeader(s, "test")
	require.Error(t, err)
}

func TestParseScalarTypeAliases(t *testing.T) {
	cases := map[string]scalarType{
		"char": typeInt8, "int8": typeInt8,
		"uchar": typeUInt8, "uint8": typeUInt8,
		"short": typeInt16, "int16": typeInt16,
		"ushort": typeUInt16, "uint16": typeUInt16,
		"int": typeInt32, "int32": typeInt32,
		"uint": typeUInt32, "uint32": typeUInt32,
		"float": typeFloat32, "float32": typeFloat32,
		"double": typeFloat64, "float64": typeFloat64,
	}
	for name, want := range cases {
		got, ok := parseScalarType(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := parseScalarType("bogus")
	assert.False(t, ok)
}
