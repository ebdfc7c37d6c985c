// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bytestream

import (
	"io"
	"os"
)

// heapBackend wraps an *os.File directly: every access is a pread/pwrite
// syscall, with no size limit beyond the filesystem's. It is mandatory
// for files too large to map safely, and for any file being written,
// since an mmap-based backend here is read-only (see mapped.go).
type heapBackend struct {
	f    *os.File
	size int64
}

func newHeapBackend(f *os.File) (*heapBackend, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return &heapBackend{f: f, size: info.Size()}, nil
}

func (h *heapBackend) ReadAt(p []byte, off int64) (int, error) {
	n, err := h.f.ReadAt(p, off)
	if err == io.EOF {
		return n, io.EOF
	}
	return n, err
}

func (h *heapBackend) WriteAt(p []byte, off int64) (int, error) {
	n, err := h.f.WriteAt(p, off)
	if err != nil {
		return n, err
	}
	if end := off + int64(n); end > h.size {
		h.size = end
	}
	return n, nil
}

func (h *heapBackend) Len() int64 { return h.size }

func (h *heapBackend) Close() error {
	syncErr := h.f.Sync()
	closeErr := h.f.Close()
	if closeErr != nil {
		return closeErr
	}
	return syncErr
}
