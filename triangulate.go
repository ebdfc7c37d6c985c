// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshkit

// Triangulator is the external collaborator spec.md §1 calls out as out
// of scope: given a planar-ish polygon of 3D vertices in file order, it
// returns a set of triangles as index triples into that same polygon.
// OBJ and PLY faces with more than three vertices are triangulated
// through this interface rather than by either loader implementing its
// own polygon-clipping algorithm.
type Triangulator interface {
	Triangulate(polygon [][3]float32) ([][3]int, error)
}

// FanTriangulator is the default Triangulator used when a loader is not
// given one explicitly. It fans out from the first vertex, which is
// correct for convex polygons (by far the common case for modeling
// tools' exported faces) and is cheap enough to run unconditionally.
// Callers triangulating concave or non-planar polygons should supply a
// more capable Triangulator.
type FanTriangulator struct{}

// Triangulate implements Triangulator with a simple fan: for an N-vertex
// polygon it returns the N-2 triangles (0, i, i+1) for i in [1, N-2],
// covering the polygon with exactly 3*(N-2) vertex references.
func (FanTriangulator) Triangulate(polygon [][3]float32) ([][3]int, error) {
	n := len(polygon)
	if n < 3 {
		return nil, NewError(Malformed, "FanTriangulator.Triangulate", errf("polygon has %d vertices, need at least 3", n))
	}
	tris := make([][3]int, 0, n-2)
	for i := 1; i < n-1; i++ {
		tris = append(tris, [3]int{0, i, i + 1})
	}
	return tris, nil
}
