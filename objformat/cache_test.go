// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionCachePredecessor(t *testing.T) {
	c := newPositionCache(10)
	c.Put(2, 20)
	c.Put(5, 50)
	c.Put(9, 90)

	pk, ok := c.Predecessor(7)
	assert.True(t, ok)
	assert.EqualValues(t, 5, pk)

	_, ok = c.Predecessor(1)
	assert.False(t, ok)

	pk, ok = c.Predecessor(5)
	assert.True(t, ok)
	assert.EqualValues(t, 5, pk)
}

func TestPositionCacheEvictsSmallestAtCapacity(t *testing.T) {
	c := newPositionCache(2)
	c.Put(1, 10)
	c.Put(2, 20)
	assert.Equal(t, 2, c.Len())

	c.Put(3, 30)
	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(1)
	assert.False(t, ok, "oldest/smallest key should have been evicted")
	off, ok := c.Get(3)
	assert.True(t, ok)
	assert.EqualValues(t, 30, off)
}

func TestPositionCachePutUpdatesInPlace(t *testing.T) {
	c := newPositionCache(5)
	c.Put(1, 10)
	c.Put(1, 99)
	off, ok := c.Get(1)
	assert.True(t, ok)
	assert.EqualValues(t, 99, off)
	assert.Equal(t, 1, c.Len())
}
