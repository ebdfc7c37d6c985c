// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkValidateOK(t *testing.T) {
	c := &Chunk{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2},
		Min:      [3]float32{0, 0, 0},
		Max:      [3]float32{1, 1, 0},
	}
	require.NoError(t, c.Validate())
}

func TestChunkValidateCatchesOutOfRangeIndex(t *testing.T) {
	c := &Chunk{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 3},
		Min:      [3]float32{0, 0, 0},
		Max:      [3]float32{1, 1, 0},
	}
	err := c.Validate()
	require.Error(t, err)
	assert.True(t, Is(err, Malformed))
}

func TestChunkValidateCatchesMismatchedNormals(t *testing.T) {
	c := &Chunk{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:  []float32{0, 0, 1},
		Indices:  []uint32{0, 1, 2},
		Min:      [3]float32{0, 0, 0},
		Max:      [3]float32{1, 1, 0},
	}
	require.Error(t, c.Validate())
}

func TestChunkValidateCatchesBoundsViolation(t *testing.T) {
	c := &Chunk{
		Vertices: []float32{0, 0, 0, 2, 0, 0},
		Indices:  []uint32{0, 1, 0},
		Min:      [3]float32{0, 0, 0},
		Max:      [3]float32{1, 1, 0},
	}
	require.Error(t, c.Validate())
}

func TestExpandBoundsSeedsFromFirstPoint(t *testing.T) {
	c := &Chunk{}
	seeded := false
	c.ExpandBounds(3, -2, 5, &seeded)
	assert.Equal(t, [3]float32{3, -2, 5}, c.Min)
	assert.Equal(t, [3]float32{3, -2, 5}, c.Max)

	c.ExpandBounds(-1, 4, 5, &seeded)
	assert.Equal(t, [3]float32{-1, -2, 5}, c.Min)
	assert.Equal(t, [3]float32{3, 4, 5}, c.Max)
}

func TestVertexCount(t *testing.T) {
	c := &Chunk{Vertices: make([]float32, 30)}
	assert.Equal(t, 10, c.VertexCount())
}
