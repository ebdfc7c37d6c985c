// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plyformat

import "meshkit"

// Config holds PLYParser options (spec.md §6).
type Config struct {
	meshkit.ChunkConfig

	// ContinueOnTriangulationError skips a face whose triangulation
	// fails, rather than failing the whole load.
	ContinueOnTriangulationError bool
}

// DefaultConfig returns the spec.md §6 defaults.
func DefaultConfig() Config {
	return Config{
		ChunkConfig:                  meshkit.DefaultChunkConfig(),
		ContinueOnTriangulationError: true,
	}
}

// Option configures a PLYParser at construction time.
type Option func(*PLYParser)

// WithConfig overrides the default Config.
func WithConfig(cfg Config) Option { return func(p *PLYParser) { p.cfg = cfg } }

// WithProgress registers a progress callback, invoked at most every 1%
// of processed faces.
func WithProgress(f meshkit.ProgressFunc) Option { return func(p *PLYParser) { p.onProgress = f } }

// WithLoadHooks registers start/end load callbacks.
func WithLoadHooks(start, end meshkit.LoadHookFunc) Option {
	return func(p *PLYParser) { p.onLoadStart, p.onLoadEnd = start, end }
}

// WithTriangulator overrides the triangulation primitive used for faces
// with more than three vertices. The default is [meshkit.FanTriangulator].
func WithTriangulator(t meshkit.Triangulator) Option {
	return func(p *PLYParser) { p.triangulator = t }
}
