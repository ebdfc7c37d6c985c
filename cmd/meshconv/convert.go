// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"meshkit"
	"meshkit/binformat"
	"meshkit/objformat"
	"meshkit/plyformat"
	"meshkit/transcode"
)

// openSource picks a Loader for path by its extension, applying cfg's
// options to whichever format package it resolves to.
func openSource(path string, cfg Config) (meshkit.Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return objformat.New(path, objformat.WithConfig(cfg.objConfig())), nil
	case ".ply":
		return plyformat.New(path, plyformat.WithConfig(cfg.plyConfig())), nil
	case ".bin", ".meshkit":
		return binformat.New(path, binformat.WithConfig(cfg.binConfig())), nil
	default:
		return nil, fmt.Errorf("meshconv: unrecognized source extension %q", filepath.Ext(path))
	}
}

// Convert loads src and writes its textures and chunks into a new
// binary V2 container at dst, staging per-texture scratch files
// alongside dst.
func Convert(src, dst string, cfg Config) error {
	loader, err := openSource(src, cfg)
	if err != nil {
		return err
	}
	defer loader.Close()

	w, err := binformat.Create(dst, filepath.Dir(dst))
	if err != nil {
		return fmt.Errorf("meshconv: creating %s: %w", dst, err)
	}

	tr := transcode.New(filepath.Dir(dst))
	if err := tr.Run(loader, w); err != nil {
		w.Close()
		return fmt.Errorf("meshconv: converting %s: %w", src, err)
	}
	return w.Close()
}
