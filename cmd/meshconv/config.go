// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"meshkit"
	"meshkit/binformat"
	"meshkit/objformat"
	"meshkit/plyformat"
)

// Config holds the loader options for one convert run, decoded from an
// optional --config TOML file. It flattens the three format packages'
// own option structs into one document rather than exposing them
// directly, so a manifest entry only has to mention the fields it wants
// to override.
type Config struct {
	Chunk ChunkOptions `toml:"chunk"`
	OBJ   OBJOptions   `toml:"obj"`
	PLY   PLYOptions   `toml:"ply"`
	BIN   BINOptions   `toml:"bin"`
}

// ChunkOptions mirrors meshkit.ChunkConfig, shared by all three loaders.
type ChunkOptions struct {
	MaxVerticesPerChunk           int   `toml:"max_vertices_per_chunk" yaml:"max_vertices_per_chunk"`
	AllowDuplicateVerticesInChunk bool  `toml:"allow_duplicate_vertices_in_chunk" yaml:"allow_duplicate_vertices_in_chunk"`
	FileSizeLimitToKeepInMemory   int64 `toml:"file_size_limit_to_keep_in_memory" yaml:"file_size_limit_to_keep_in_memory"`
}

// OBJOptions mirrors objformat.Config's fields beyond ChunkConfig.
type OBJOptions struct {
	MaxCachedPositions           int  `toml:"max_cached_positions" yaml:"max_cached_positions"`
	ContinueOnTriangulationError bool `toml:"continue_on_triangulation_error" yaml:"continue_on_triangulation_error"`
}

// PLYOptions mirrors plyformat.Config's fields beyond ChunkConfig.
type PLYOptions struct {
	ContinueOnTriangulationError bool `toml:"continue_on_triangulation_error" yaml:"continue_on_triangulation_error"`
}

// BINOptions mirrors binformat.Config.
type BINOptions struct {
	FileSizeLimitToKeepInMemory int64 `toml:"file_size_limit_to_keep_in_memory" yaml:"file_size_limit_to_keep_in_memory"`
}

// DefaultConfig mirrors each format package's own defaults, so an absent
// --config produces identical behavior to constructing a loader with no
// options at all.
func DefaultConfig() Config {
	obj := objformat.DefaultConfig()
	ply := plyformat.DefaultConfig()
	bin := binformat.DefaultConfig()
	return Config{
		Chunk: ChunkOptions{
			MaxVerticesPerChunk:           obj.MaxVerticesPerChunk,
			AllowDuplicateVerticesInChunk: obj.AllowDuplicateVerticesInChunk,
			FileSizeLimitToKeepInMemory:   obj.FileSizeLimitToKeepInMemory,
		},
		OBJ: OBJOptions{
			MaxCachedPositions:           obj.MaxCachedPositions,
			ContinueOnTriangulationError: obj.ContinueOnTriangulationError,
		},
		PLY: PLYOptions{ContinueOnTriangulationError: ply.ContinueOnTriangulationError},
		BIN: BINOptions{FileSizeLimitToKeepInMemory: bin.FileSizeLimitToKeepInMemory},
	}
}

// LoadConfig reads and decodes a TOML options file at path, starting
// from DefaultConfig so a file that overrides only one field leaves the
// rest at their loader defaults. An empty path returns the defaults
// unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) chunkConfig() meshkit.ChunkConfig {
	return meshkit.ChunkConfig{
		MaxVerticesPerChunk:           c.Chunk.MaxVerticesPerChunk,
		AllowDuplicateVerticesInChunk: c.Chunk.AllowDuplicateVerticesInChunk,
		FileSizeLimitToKeepInMemory:   c.Chunk.FileSizeLimitToKeepInMemory,
	}
}

func (c Config) objConfig() objformat.Config {
	return objformat.Config{
		ChunkConfig:                  c.chunkConfig(),
		MaxCachedPositions:           c.OBJ.MaxCachedPositions,
		ContinueOnTriangulationError: c.OBJ.ContinueOnTriangulationError,
	}
}

func (c Config) plyConfig() plyformat.Config {
	return plyformat.Config{
		ChunkConfig:                  c.chunkConfig(),
		ContinueOnTriangulationError: c.PLY.ContinueOnTriangulationError,
	}
}

func (c Config) binConfig() binformat.Config {
	return binformat.Config{FileSizeLimitToKeepInMemory: c.BIN.FileSizeLimitToKeepInMemory}
}
