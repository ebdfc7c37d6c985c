// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objformat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshkit"
)

func writeOBJ(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func drain(t *testing.T, it meshkit.Iterator) []*meshkit.Chunk {
	t.Helper()
	var chunks []*meshkit.Chunk
	for {
		c, err := it.Next()
		if meshkit.Is(err, meshkit.NotAvailable) {
			break
		}
		require.NoError(t, err)
		chunks = append(chunks, c)
	}
	return chunks
}

// OBJ-1: a single triangle, no materials, no attributes beyond position.
func TestOBJSingleTriangle(t *testing.T) {
	path := writeOBJ(t, "tri.obj", `
# a lone triangle
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`)
	p := New(path)
	it, err := p.Load()
	require.NoError(t, err)
	defer it.Close()

	chunks := drain(t, it)
	require.Len(t, chunks, 1)
	c := chunks[0]
	assert.Equal(t, 3, c.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2}, c.Indices)
	assert.Empty(t, c.Normals)
	assert.Empty(t, c.TexCoords)
	assert.Equal(t, []string{"a lone triangle"}, p.Metadata())
	require.NoError(t, c.Validate())
}

// mtllib/usemtl binds a material to the chunk, and the chunk's
// material is an immutable snapshot independent of the loader's copy.
func TestOBJMaterialBinding(t *testing.T) {
	dir := t.TempDir()
	mtlPath := filepath.Join(dir, "colors.mtl")
	require.NoError(t, os.WriteFile(mtlPath, []byte(`
newmtl red
Kd 1.0 0.0 0.0
Ns 32
illum 2
`), 0o644))

	objPath := filepath.Join(dir, "cube.obj")
	require.NoError(t, os.WriteFile(objPath, []byte(`
mtllib colors.mtl
v 0 0 0
v 1 0 0
v 0 1 0
usemtl red
f 1 2 3
`), 0o644))

	p := New(objPath)
	it, err := p.Load()
	require.NoError(t, err)
	defer it.Close()

	require.Len(t, p.Materials(), 1)
	assert.Equal(t, "red", p.Materials()[0].Name)

	chunks := drain(t, it)
	require.Len(t, chunks, 1)
	require.NotNil(t, chunks[0].Material)
	assert.True(t, chunks[0].Material.Frozen())
	assert.Equal(t, "red", chunks[0].Material.Name)
	require.NotNil(t, chunks[0].Material.SpecularCoefficient)
	assert.Equal(t, float32(32), *chunks[0].Material.SpecularCoefficient)

	// Mutating the loader's live material after the chunk was emitted
	// must not retroactively change the frozen snapshot.
	p.Materials()[0].Name = "mutated"
	assert.Equal(t, "red", chunks[0].Material.Name)
}

// OBJ-2: a quad is fan-triangulated into two triangles sharing an edge.
func TestOBJQuadTriangulation(t *testing.T) {
	path := writeOBJ(t, "quad.obj", `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`)
	p := New(path)
	it, err := p.Load()
	require.NoError(t, err)
	defer it.Close()

	chunks := drain(t, it)
	require.Len(t, chunks, 1)
	c := chunks[0]
	assert.Equal(t, 4, c.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, c.Indices)
}

// A material change mid-file cuts the chunk.
func TestOBJMaterialChangeCutsChunk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "m.mtl"), []byte(`
newmtl a
Kd 1 0 0
newmtl b
Kd 0 1 0
`), 0o644))
	objPath := filepath.Join(dir, "scene.obj")
	require.NoError(t, os.WriteFile(objPath, []byte(`
mtllib m.mtl
v 0 0 0
v 1 0 0
v 0 1 0
v 2 0 0
v 3 0 0
v 2 1 0
usemtl a
f 1 2 3
usemtl b
f 4 5 6
`), 0o644))

	p := New(objPath)
	it, err := p.Load()
	require.NoError(t, err)
	defer it.Close()

	chunks := drain(t, it)
	require.Len(t, chunks, 2)
	assert.Equal(t, "a", chunks[0].Material.Name)
	assert.Equal(t, "b", chunks[1].Material.Name)
}

// Dedup keys on the full v/vt/vn token: identical tokens reuse a slot,
// but a token differing only in its texcoord index gets a fresh one
// even though the underlying vertex index is the same.
func TestDedupRequiresAllThreeIndicesMatch(t *testing.T) {
	path := writeOBJ(t, "dedup.obj", `
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
vt 0 0
vt 1 0
vt 0 1
vt 1 1
f 1/1 2/2 3/3
f 1/1 3/3 4/4
f 1/2 4/4 2/1
`)
	cfg := DefaultConfig()
	cfg.AllowDuplicateVerticesInChunk = false
	p := New(path, WithConfig(cfg))
	it, err := p.Load()
	require.NoError(t, err)
	defer it.Close()

	chunks := drain(t, it)
	require.Len(t, chunks, 1)
	c := chunks[0]
	// Vertex 1 appears as both "1/1" and "1/2": same underlying position,
	// different texcoord, so it must occupy two distinct slots.
	assert.Equal(t, 6, c.VertexCount())
	assert.Len(t, c.TexCoords, 2*c.VertexCount())
}

func TestOBJRejectsFileWithNoFaces(t *testing.T) {
	path := writeOBJ(t, "empty.obj", "v 0 0 0\nv 1 0 0\nv 0 1 0\n")
	p := New(path)
	_, err := p.Load()
	require.Error(t, err)
	assert.True(t, meshkit.Is(err, meshkit.Malformed))
}

func TestOBJChunkCutOnVertexCap(t *testing.T) {
	var body string
	body += "v 0 0 0\nv 1 0 0\nv 0 1 0\n"
	body += "v 2 0 0\nv 3 0 0\nv 2 1 0\n"
	body += "f 1 2 3\nf 4 5 6\n"
	path := writeOBJ(t, "cap.obj", body)

	cfg := DefaultConfig()
	cfg.MaxVerticesPerChunk = 3
	p := New(path, WithConfig(cfg))
	it, err := p.Load()
	require.NoError(t, err)
	defer it.Close()

	chunks := drain(t, it)
	require.Len(t, chunks, 2)
	assert.Equal(t, 3, chunks[0].VertexCount())
	assert.Equal(t, 3, chunks[1].VertexCount())
}

// OBJ-3: a single face large enough to overflow MaxVerticesPerChunk on
// its own must still be split across multiple chunks, each respecting
// the cap, rather than bypassing it by being emitted whole into one
// oversized chunk.
func TestOBJSingleOversizedFaceSplitsAcrossChunks(t *testing.T) {
	var verts strings.Builder
	n := 14
	for i := 0; i < n; i++ {
		fmt.Fprintf(&verts, "v %d 0 0\n", i)
	}
	var face strings.Builder
	face.WriteString("f")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&face, " %d", i)
	}
	body := verts.String() + face.String() + "\n"
	path := writeOBJ(t, "bigface.obj", body)

	cfg := DefaultConfig()
	cfg.MaxVerticesPerChunk = 9
	p := New(path, WithConfig(cfg))
	it, err := p.Load()
	require.NoError(t, err)
	defer it.Close()

	chunks := drain(t, it)
	require.Greater(t, len(chunks), 1)
	total := 0
	for _, c := range chunks {
		assert.LessOrEqual(t, c.VertexCount(), cfg.MaxVerticesPerChunk)
		total += c.VertexCount()
	}
	// n-2 triangles, 3 vertices each, dedup disallowed by DefaultConfig.
	assert.Equal(t, (n-2)*3, total)
}

func TestOBJLockedDuringLoad(t *testing.T) {
	path := writeOBJ(t, "lock.obj", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
	p := New(path)
	it, err := p.Load()
	require.NoError(t, err)
	_, err = p.Load()
	require.Error(t, err)
	assert.True(t, meshkit.Is(err, meshkit.Locked))
	require.NoError(t, it.Close())
}
