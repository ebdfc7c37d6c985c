// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshkit

import "github.com/jinzhu/copier"

// Color is an (r,g,b) triple in [0,255].
type Color struct{ R, G, B uint8 }

// Material describes the shading inputs for the triangles of a chunk.
// Every attribute besides ID and Name is optionally absent, modeled as a nil
// pointer rather than a zero-value sentinel (see spec.md §9 Q3).
//
// Once [Material.Freeze] has produced an immutable snapshot and it has
// been attached to a chunk, that snapshot must not be mutated again; the
// mutable *Material a loader builds up while reading a file is a
// different value from the frozen copy handed to callers.
type Material struct {
	ID   int
	Name string

	Ambient  *Color
	Diffuse  *Color
	Specular *Color

	SpecularCoefficient *float32

	// Transparency is 0 (fully transparent) through 255 (opaque).
	Transparency *uint8

	Illumination *Illumination

	AmbientMap  *Texture
	DiffuseMap  *Texture
	SpecularMap *Texture
	AlphaMap    *Texture
	BumpMap     *Texture

	frozen bool
}

// Frozen reports whether m is an immutable snapshot produced by Freeze.
func (m *Material) Frozen() bool { return m != nil && m.frozen }

// Freeze returns a deep, immutable copy of m. Loaders call it each time
// a chunk referencing the material is emitted, so later
// mutation of the loader's working Material (e.g. binding a new texture
// map as more of the file is read) can never retroactively change a
// chunk already handed to a caller.
func (m *Material) Freeze() *Material {
	if m == nil {
		return nil
	}
	snap := &Material{}
	if err := copier.CopyWithOption(snap, m, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched/unaddressable struct shapes,
		// which cannot happen between a *Material and itself.
		panic(err)
	}
	snap.frozen = true
	return snap
}
