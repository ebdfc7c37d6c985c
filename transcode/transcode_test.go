// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transcode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshkit"
	"meshkit/binformat"
	"meshkit/objformat"
)

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

func TestTranscodeOBJIntoBinformat(t *testing.T) {
	dir := t.TempDir()
	objPath := filepath.Join(dir, "tri.obj")
	require.NoError(t, os.WriteFile(objPath, []byte(`
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`), 0o644))

	outPath := filepath.Join(dir, "out.bin")
	w, err := binformat.Create(outPath, dir)
	require.NoError(t, err)

	src := objformat.New(objPath)
	tr := New(dir)
	require.NoError(t, tr.Run(src, w))
	require.NoError(t, w.Close())

	r := binformat.New(outPath)
	it, err := r.Load()
	require.NoError(t, err)
	defer it.Close()

	chunks := drain(t, it)
	require.Len(t, chunks, 1)
	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, chunks[0].Vertices)
	assert.Equal(t, []uint32{0, 1, 2}, chunks[0].Indices)
}

func TestTranscodeBinformatToBinformatForwardsTextureOnce(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src.bin")
	texSourcePath := filepath.Join(dir, "tex.src")
	require.NoError(t, os.WriteFile(texSourcePath, []byte("texture bytes"), 0o644))

	sw, err := binformat.Create(srcPath, dir)
	require.NoError(t, err)
	require.NoError(t, sw.ProcessTextureFile(&meshkit.Texture{ID: 1, Width: 2, Height: 2}, texSourcePath))
	require.NoError(t, sw.WriteChunk(&meshkit.Chunk{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2},
	}))
	require.NoError(t, sw.Close())

	outPath := filepath.Join(dir, "out.bin")
	dw, err := binformat.Create(outPath, dir)
	require.NoError(t, err)

	src := binformat.New(srcPath)
	tr := New(dir)
	require.NoError(t, tr.Run(src, dw))
	require.NoError(t, dw.Close())

	var gotTexBytes []byte
	rr := binformat.New(outPath)
	rr.SetTextureListener(&captureListener{dir: dir, got: &gotTexBytes})
	it, err := rr.Load()
	require.NoError(t, err)
	defer it.Close()

	chunks := drain(t, it)
	require.Len(t, chunks, 1)
	assert.Equal(t, []byte("texture bytes"), gotTexBytes)
}

type captureListener struct {
	dir string
	got *[]byte
}

func (l *captureListener) TextureReceived(id, w, h int32) (string, bool) {
	return filepath.Join(l.dir, "captured"), true
}

func (l *captureListener) TextureDataAvailable(path string, id, w, h int32) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	*l.got = b
	return nil
}
