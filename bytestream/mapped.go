// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bytestream

import (
	"io"

	"golang.org/x/exp/mmap"

	"meshkit"
)

// mappedBackend maps a file into the process's address space for
// zero-copy scans (spec.md §4.1). golang.org/x/exp/mmap only exposes a
// read-only mapping, so Stream instances backed by it reject WriteAt
// with Kind=Unsupported; writers always use heapBackend instead (see
// Create in open.go).
type mappedBackend struct {
	r *mmap.ReaderAt
}

func newMappedBackend(path string) (*mappedBackend, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	return &mappedBackend{r: r}, nil
}

func (m *mappedBackend) ReadAt(p []byte, off int64) (int, error) {
	n, err := m.r.ReadAt(p, off)
	if err == io.EOF {
		return n, io.EOF
	}
	return n, err
}

func (m *mappedBackend) WriteAt(p []byte, off int64) (int, error) {
	return 0, meshkit.NewError(meshkit.Unsupported, "bytestream.Mapped.WriteAt",
		errf("memory-mapped streams are read-only")).At(off)
}

func (m *mappedBackend) Len() int64 { return int64(m.r.Len()) }

func (m *mappedBackend) Close() error { return m.r.Close() }
