// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshkit"
	"meshkit/binformat"
)

func TestConvertOBJToBinformat(t *testing.T) {
	dir := t.TempDir()
	objPath := filepath.Join(dir, "tri.obj")
	require.NoError(t, os.WriteFile(objPath, []byte(`
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`), 0o644))

	outPath := filepath.Join(dir, "tri.bin")
	require.NoError(t, Convert(objPath, outPath, DefaultConfig()))

	r := binformat.New(outPath)
	it, err := r.Load()
	require.NoError(t, err)
	defer it.Close()

	chunk, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, chunk.Vertices)
	assert.Equal(t, []uint32{0, 1, 2}, chunk.Indices)

	_, err = it.Next()
	assert.True(t, meshkit.Is(err, meshkit.NotAvailable))
}

func TestOpenSourceRejectsUnknownExtension(t *testing.T) {
	_, err := openSource("mesh.xyz", DefaultConfig())
	assert.Error(t, err)
}
