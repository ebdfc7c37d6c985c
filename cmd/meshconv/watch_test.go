// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchManifestInputsRegistersManifestAndJobs(t *testing.T) {
	dir := t.TempDir()
	objPath := filepath.Join(dir, "tri.obj")
	require.NoError(t, os.WriteFile(objPath, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0o644))

	manifestPath := filepath.Join(dir, "jobs.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(`
jobs:
  - input: tri.obj
    output: tri.bin
`), 0o644))

	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer w.Close()

	n, err := watchManifestInputs(w, manifestPath)
	require.NoError(t, err)
	assert.Equal(t, 2, n) // manifest itself + one job input

	list := w.WatchList()
	assert.Contains(t, list, manifestPath)
	assert.Contains(t, list, objPath)
}

func TestWatchManifestInputsSkipsMissingJobInput(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "jobs.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(`
jobs:
  - input: missing.obj
    output: missing.bin
`), 0o644))

	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer w.Close()

	n, err := watchManifestInputs(w, manifestPath)
	require.NoError(t, err)
	assert.Equal(t, 1, n) // only the manifest itself is watchable
}
