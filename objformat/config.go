// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objformat

import "meshkit"

// Config holds OBJParser options (spec.md §6).
type Config struct {
	meshkit.ChunkConfig

	// MaxCachedPositions bounds the per-stream position cache size.
	MaxCachedPositions int

	// ContinueOnTriangulationError skips a face whose triangulation
	// fails, rather than failing the whole load.
	ContinueOnTriangulationError bool
}

// DefaultConfig returns the spec.md §6 defaults.
func DefaultConfig() Config {
	return Config{
		ChunkConfig:                  meshkit.DefaultChunkConfig(),
		MaxCachedPositions:           1_000_000,
		ContinueOnTriangulationError: true,
	}
}

func (c Config) validate(op string) error {
	if err := c.ChunkConfig.Validate(op); err != nil {
		return err
	}
	if c.MaxCachedPositions < 1 {
		return meshkit.NewError(meshkit.Unsupported, op, errf("MaxCachedPositions must be >= 1, got %d", c.MaxCachedPositions))
	}
	return nil
}

// MaterialLoader is satisfied by anything that can produce a material
// set from wherever a "mtllib" directive points. OBJMaterialParser is
// the default implementation.
type MaterialLoader interface {
	Load() ([]*meshkit.Material, error)
}

// MaterialLoaderResolverFunc resolves an OBJ "mtllib" path to a
// MaterialLoader. Returning ok=false skips that mtllib. When no mtllib
// of a file resolves, material resolution is disabled for the load:
// usemtl directives are ignored and chunks carry no material. Otherwise
// a usemtl naming a material that no resolved library defines fails
// with Kind=Malformed.
type MaterialLoaderResolverFunc func(mtlPath string) (loader MaterialLoader, ok bool)

// ValidateTextureFunc is the MTL texture-map validation callback
// (spec.md §6). Returning an error alongside false lets the caller
// explain the rejection; a nil error with false is also a rejection.
type ValidateTextureFunc func(tex *meshkit.Texture) (valid bool, err error)

// Option configures an OBJParser at construction time.
type Option func(*OBJParser)

// WithConfig overrides the default Config.
func WithConfig(cfg Config) Option { return func(p *OBJParser) { p.cfg = cfg } }

// WithMaterialLoaderResolver overrides how "mtllib" paths are resolved.
// The default opens a sibling ".mtl" file with OBJMaterialParser.
func WithMaterialLoaderResolver(f MaterialLoaderResolverFunc) Option {
	return func(p *OBJParser) { p.materialResolver = f }
}

// WithValidateTexture overrides the MTL texture-map validator. The
// default sniffs the file's magic bytes with h2non/filetype and accepts
// anything that looks like an image.
func WithValidateTexture(f ValidateTextureFunc) Option {
	return func(p *OBJParser) { p.validateTexture = f }
}

// WithProgress registers a progress callback, invoked at most every 1%
// of processed faces.
func WithProgress(f meshkit.ProgressFunc) Option { return func(p *OBJParser) { p.onProgress = f } }

// WithLoadHooks registers start/end load callbacks.
func WithLoadHooks(start, end meshkit.LoadHookFunc) Option {
	return func(p *OBJParser) { p.onLoadStart, p.onLoadEnd = start, end }
}

// WithTriangulator overrides the triangulation primitive used for faces
// with more than three vertices. The default is [meshkit.FanTriangulator].
func WithTriangulator(t meshkit.Triangulator) Option {
	return func(p *OBJParser) { p.triangulator = t }
}
