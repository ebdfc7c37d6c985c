// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshkit

// TextureListener receives texture payloads a Loader discovers while
// reading, before any chunk referencing them is produced (spec.md §4.6).
// Only a source format that embeds texture bytes inline (the V2
// container) has anything to report through this interface; OBJ/PLY
// materials instead carry a file path directly on their Texture values.
type TextureListener interface {
	// TextureReceived is called once a texture's id and dimensions are
	// known but before its bytes have been read. It returns a
	// destination path to receive the bytes, or ok=false to have the
	// loader skip the texture entirely.
	TextureReceived(texID int32, width, height int32) (destPath string, ok bool)

	// TextureDataAvailable is called once destPath (returned by a prior
	// TextureReceived) has been fully written.
	TextureDataAvailable(destPath string, texID int32, width, height int32) error
}

// TextureEmitter is implemented by loaders whose source format embeds
// texture bytes inline, so a caller can observe them via TextureListener
// during Load. Format loaders that only ever reference textures by file
// path (objformat, plyformat) do not implement this.
type TextureEmitter interface {
	SetTextureListener(TextureListener)
}
