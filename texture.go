// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshkit

// Texture describes one image payload referenced by zero or more
// materials. In the V2 container the image bytes are embedded once and
// keyed by ID; other loaders (OBJ/MTL) only carry a source path, and
// resolve Width/Height lazily (see objformat's texture-dimension probe).
type Texture struct {
	ID int32

	// Source is the path the texture was read from, if any. Empty means
	// no source file is known (e.g. only an ID and dimensions survived
	// a round trip through the V2 container).
	Source string

	// Width and Height are in pixels. Zero means not yet resolved.
	Width, Height int32
}

// HasSource reports whether t has a known source file path.
func (t *Texture) HasSource() bool { return t != nil && t.Source != "" }

// HasDimensions reports whether t's pixel dimensions have been resolved.
func (t *Texture) HasDimensions() bool { return t != nil && t.Width > 0 && t.Height > 0 }

// TextureSet is an insertion-ordered, ID-deduplicated collection of
// textures, owned by a loader for the duration of a load.
type TextureSet struct {
	order []int32
	byID  map[int32]*Texture
}

// NewTextureSet returns an empty TextureSet.
func NewTextureSet() *TextureSet {
	return &TextureSet{byID: make(map[int32]*Texture)}
}

// GetOrAdd returns the existing texture for id, or adds and returns a new
// one with the given source if none exists yet.
func (s *TextureSet) GetOrAdd(id int32, source string) *Texture {
	if t, ok := s.byID[id]; ok {
		return t
	}
	t := &Texture{ID: id, Source: source}
	s.byID[id] = t
	s.order = append(s.order, id)
	return t
}

// Get returns the texture for id, or nil if absent.
func (s *TextureSet) Get(id int32) *Texture { return s.byID[id] }

// All returns the textures in the order they were first added.
func (s *TextureSet) All() []*Texture {
	out := make([]*Texture, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Len returns the number of distinct textures in the set.
func (s *TextureSet) Len() int { return len(s.order) }
