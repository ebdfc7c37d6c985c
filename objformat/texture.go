// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objformat

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"meshkit"
)

// probeTextureDimensions resolves tex.Width/Height by decoding only the
// image header, not the whole file. Failure to probe is not fatal: a
// texture with a source but unresolved dimensions is still usable
// (spec.md §4.2), it just can't report a size.
func probeTextureDimensions(tex *meshkit.Texture) {
	f, err := os.Open(tex.Source)
	if err != nil {
		return
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return
	}
	tex.Width = int32(cfg.Width)
	tex.Height = int32(cfg.Height)
}
