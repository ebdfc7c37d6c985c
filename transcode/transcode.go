// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package transcode implements the Transcoder (spec.md §4.6): it drains
// any meshkit.Loader into a binformat.Writer, relaying referenced
// textures ahead of the chunks that use them.
package transcode

import (
	"os"

	"meshkit"
)

// Writer is the subset of *binformat.Writer the transcoder needs,
// narrowed to a package-local interface so tests can substitute a fake.
type Writer interface {
	ProcessTextureFile(tex *meshkit.Texture, path string) error
	WriteChunk(c *meshkit.Chunk) error
}

// Transcoder copies every chunk (and every texture referenced before the
// first chunk, or carried by a loader's materials) from a source Loader
// into a destination Writer.
type Transcoder struct {
	tmpDir string
}

// New returns a Transcoder that stages temporary texture files under
// tmpDir (the OS default if empty).
func New(tmpDir string) *Transcoder {
	return &Transcoder{tmpDir: tmpDir}
}

// Run loads src, forwards its textures to dst, then drains src's chunks
// into dst in order. It closes src's iterator before returning,
// regardless of outcome.
func (t *Transcoder) Run(src meshkit.Loader, dst Writer) error {
	const op = "transcode.Transcoder.Run"

	relay := &textureRelay{tmpDir: t.tmpDir, dst: dst, op: op}
	if emitter, ok := src.(meshkit.TextureEmitter); ok {
		emitter.SetTextureListener(relay)
	}

	it, err := src.Load()
	if err != nil {
		return err
	}
	defer it.Close()

	if relay.firstErr != nil {
		return relay.firstErr
	}

	if _, ok := src.(meshkit.TextureEmitter); !ok {
		if err := forwardMaterialTextures(src.Materials(), dst); err != nil {
			return err
		}
	}

	for {
		chunk, err := it.Next()
		if meshkit.Is(err, meshkit.NotAvailable) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := dst.WriteChunk(chunk); err != nil {
			return err
		}
	}
}

// textureRelay implements meshkit.TextureListener for a loader whose
// source format embeds texture bytes inline (binformat.Reader): each
// texture is staged to a temporary file, forwarded to dst, then deleted.
type textureRelay struct {
	tmpDir   string
	dst      Writer
	op       string
	firstErr error
}

func (r *textureRelay) TextureReceived(texID, width, height int32) (string, bool) {
	f, err := os.CreateTemp(r.tmpDir, "meshkit-transcode-tex-*")
	if err != nil {
		r.fail(meshkit.NewError(meshkit.IO, r.op, err))
		return "", false
	}
	path := f.Name()
	f.Close()
	return path, true
}

func (r *textureRelay) TextureDataAvailable(path string, texID, width, height int32) error {
	defer os.Remove(path)
	tex := &meshkit.Texture{ID: texID, Width: width, Height: height}
	if err := r.dst.ProcessTextureFile(tex, path); err != nil {
		r.fail(err)
		return err
	}
	return nil
}

func (r *textureRelay) fail(err error) {
	if r.firstErr == nil {
		r.firstErr = err
	}
}

// forwardMaterialTextures is the path used for loaders that reference
// textures by file path rather than embedding bytes (objformat,
// plyformat): every distinct texture map on a loaded material is
// forwarded directly from its already-on-disk Source, with no temporary
// copy, since the source file already satisfies Writer.ProcessTextureFile's
// needs.
func forwardMaterialTextures(materials []*meshkit.Material, dst Writer) error {
	seen := make(map[int32]bool)
	forward := func(tex *meshkit.Texture) error {
		if tex == nil || !tex.HasSource() || seen[tex.ID] {
			return nil
		}
		seen[tex.ID] = true
		return dst.ProcessTextureFile(tex, tex.Source)
	}
	for _, m := range materials {
		for _, tex := range []*meshkit.Texture{m.AmbientMap, m.DiffuseMap, m.SpecularMap, m.AlphaMap, m.BumpMap} {
			if err := forward(tex); err != nil {
				return err
			}
		}
	}
	return nil
}
