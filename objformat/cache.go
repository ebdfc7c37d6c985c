// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objformat

import "sort"

// positionCache is the bounded original-index -> byte-offset map spec.md
// §3/§4.3 describes for each OBJ attribute stream (vertex, texcoord,
// normal). Put inserts each new key at its sorted position, so keys stays
// sorted for O(log n) predecessor lookups and eviction removes the
// smallest key, whatever order indices are cached in.
type positionCache struct {
	limit int
	keys  []uint64
	byKey map[uint64]int64
}

func newPositionCache(limit int) *positionCache {
	if limit < 1 {
		limit = 1
	}
	return &positionCache{limit: limit, byKey: make(map[uint64]int64)}
}

// Get returns the offset cached for index i, if present.
func (c *positionCache) Get(i uint64) (int64, bool) {
	off, ok := c.byKey[i]
	return off, ok
}

// Predecessor returns the greatest cached key <= i, and whether one
// exists.
func (c *positionCache) Predecessor(i uint64) (uint64, bool) {
	n := len(c.keys)
	j := sort.Search(n, func(k int) bool { return c.keys[k] > i })
	if j == 0 {
		return 0, false
	}
	return c.keys[j-1], true
}

// Put records offset for index i, evicting the smallest key if the
// cache is at capacity.
func (c *positionCache) Put(i uint64, offset int64) {
	if _, exists := c.byKey[i]; exists {
		c.byKey[i] = offset
		return
	}
	if len(c.keys) >= c.limit {
		evict := c.keys[0]
		c.keys = c.keys[1:]
		delete(c.byKey, evict)
	}
	j := sort.Search(len(c.keys), func(k int) bool { return c.keys[k] > i })
	c.keys = append(c.keys, 0)
	copy(c.keys[j+1:], c.keys[j:])
	c.keys[j] = i
	c.byKey[i] = offset
}

// Len returns the number of cached entries.
func (c *positionCache) Len() int { return len(c.keys) }
