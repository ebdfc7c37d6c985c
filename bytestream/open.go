// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bytestream

import (
	"os"

	"meshkit"
)

// Open opens path for reading. If its size is below sizeLimit (and
// sizeLimit is positive), the memory-mapped backend is used; otherwise
// the heap-buffered backend is used. sizeLimit <= 0 always selects the
// heap-buffered backend.
func Open(path string, sizeLimit int64) (*Stream, error) {
	if sizeLimit > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, meshkit.NewError(meshkit.IO, op+".Open", err)
		}
		if info.Size() < sizeLimit {
			b, err := newMappedBackend(path)
			if err == nil {
				return &Stream{b: b}, nil
			}
			// fall through to the heap backend: mapping can fail for
			// reasons (e.g. a filesystem without mmap support) that
			// don't make the file itself unreadable.
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, meshkit.NewError(meshkit.IO, op+".Open", err)
	}
	b, err := newHeapBackend(f)
	if err != nil {
		f.Close()
		return nil, meshkit.NewError(meshkit.IO, op+".Open", err)
	}
	return &Stream{b: b}, nil
}

// Create truncates (or creates) path for writing and returns a Stream
// positioned at offset 0. Writers always use the heap-buffered backend:
// nothing in meshkit needs a writable memory-mapped stream, only a
// sequential append-while-you-go one (spec.md §4.5, §4.6).
func Create(path string) (*Stream, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, meshkit.NewError(meshkit.IO, op+".Create", err)
	}
	b, err := newHeapBackend(f)
	if err != nil {
		f.Close()
		return nil, meshkit.NewError(meshkit.IO, op+".Create", err)
	}
	return &Stream{b: b}, nil
}
