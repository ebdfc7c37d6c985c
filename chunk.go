// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshkit

import "github.com/chewxy/math32"

// Chunk is the unit of emitted geometry: a batch of vertices small enough
// to be indexed by a 16-bit integer, plus the triangle indices, bounding
// box, and optional material that go with them.
//
// Invariants (spec.md §3, §8):
//   - len(Vertices) == 3*V, len(Normals) == 3*V, len(TexCoords) == 2*V for
//     some V <= the loader's MaxVerticesPerChunk, for every array present.
//   - len(Indices) % 3 == 0, and every index is < V.
//   - Min/Max enclose every vertex present in the chunk.
type Chunk struct {
	Vertices  []float32
	Normals   []float32
	TexCoords []float32

	Colors          []uint8
	ColorComponents int // 3 or 4, meaningful only when len(Colors) > 0

	Indices []uint32

	Min, Max [3]float32

	Material *Material
}

// VertexCount returns V, the number of vertices in the chunk.
func (c *Chunk) VertexCount() int { return len(c.Vertices) / 3 }

// ExpandBounds grows c's bounding box to include (x, y, z). The first
// call on a zero-value Chunk seeds Min and Max with that point rather
// than comparing against an incorrect all-zero box.
func (c *Chunk) ExpandBounds(x, y, z float32, seeded *bool) {
	if !*seeded {
		c.Min = [3]float32{x, y, z}
		c.Max = [3]float32{x, y, z}
		*seeded = true
		return
	}
	c.Min[0] = math32.Min(c.Min[0], x)
	c.Min[1] = math32.Min(c.Min[1], y)
	c.Min[2] = math32.Min(c.Min[2], z)
	c.Max[0] = math32.Max(c.Max[0], x)
	c.Max[1] = math32.Max(c.Max[1], y)
	c.Max[2] = math32.Max(c.Max[2], z)
}

// Validate checks the invariants spec.md §3 and §8 require of an emitted
// chunk. It is used by tests and is cheap enough to call defensively
// before a chunk leaves a loader.
func (c *Chunk) Validate() error {
	v := c.VertexCount()
	if len(c.Vertices)%3 != 0 {
		return NewError(Malformed, "Chunk.Validate", errf("vertex array length %d is not a multiple of 3", len(c.Vertices)))
	}
	if len(c.Normals) != 0 && len(c.Normals) != 3*v {
		return NewError(Malformed, "Chunk.Validate", errf("normals length %d does not match 3*V=%d", len(c.Normals), 3*v))
	}
	if len(c.TexCoords) != 0 && len(c.TexCoords) != 2*v {
		return NewError(Malformed, "Chunk.Validate", errf("texcoords length %d does not match 2*V=%d", len(c.TexCoords), 2*v))
	}
	if len(c.Indices)%3 != 0 {
		return NewError(Malformed, "Chunk.Validate", errf("indices length %d is not a multiple of 3", len(c.Indices)))
	}
	for _, idx := range c.Indices {
		if int(idx) >= v {
			return NewError(Malformed, "Chunk.Validate", errf("index %d out of range for V=%d", idx, v))
		}
	}
	if len(c.Colors) != 0 && c.ColorComponents != 3 && c.ColorComponents != 4 {
		return NewError(Malformed, "Chunk.Validate", errf("color components %d must be 3 or 4", c.ColorComponents))
	}
	for i := 0; i < v; i++ {
		x, y, z := c.Vertices[3*i], c.Vertices[3*i+1], c.Vertices[3*i+2]
		if x < c.Min[0] || x > c.Max[0] || y < c.Min[1] || y > c.Max[1] || z < c.Min[2] || z > c.Max[2] {
			return NewError(Malformed, "Chunk.Validate", errf("vertex %d (%v,%v,%v) outside bounding box %v-%v", i, x, y, z, c.Min, c.Max))
		}
	}
	return nil
}
