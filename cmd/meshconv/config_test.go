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
)

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesOnlyGivenFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "options.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[chunk]
max_vertices_per_chunk = 1024

[obj]
continue_on_triangulation_error = false
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, 1024, cfg.Chunk.MaxVerticesPerChunk)
	assert.False(t, cfg.OBJ.ContinueOnTriangulationError)
	assert.Equal(t, def.Chunk.AllowDuplicateVerticesInChunk, cfg.Chunk.AllowDuplicateVerticesInChunk)
	assert.Equal(t, def.OBJ.MaxCachedPositions, cfg.OBJ.MaxCachedPositions)
	assert.Equal(t, def.PLY, cfg.PLY)
	assert.Equal(t, def.BIN, cfg.BIN)
}

func TestLoadConfigMissingFileErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
