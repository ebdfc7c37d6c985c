// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"meshkit/base/errors"
)

// runWatch re-runs a batch manifest's jobs every time one of their
// input files, or the manifest itself, changes on disk. It blocks until
// the watcher's event or error channel closes; watcher errors are logged
// and watching continues.
func runWatch(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("meshconv watch: expected <manifest.yaml>, got %d argument(s)", len(args))
	}
	manifestPath := args[0]

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("meshconv watch: starting watcher: %w", err)
	}
	defer func() { errors.Log(w.Close()) }()

	if err := runBatch([]string{manifestPath}); err != nil {
		errors.Log(err)
	}

	watched, err := watchManifestInputs(w, manifestPath)
	if err != nil {
		return err
	}
	fmt.Printf("meshconv: watching %d file(s) for changes\n", watched)

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fmt.Printf("meshconv: %s changed, re-running %s\n", ev.Name, manifestPath)
			if err := runBatch([]string{manifestPath}); err != nil {
				errors.Log(err)
			}
			// A manifest edit can add, remove, or rename jobs, so on every
			// manifest change it is re-read and each job input it names is
			// (re)added; inputs of jobs dropped from it stay watched.
			if ev.Name == manifestPath {
				if _, err := watchManifestInputs(w, manifestPath); err != nil {
					errors.Log(err)
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			errors.Log(fmt.Errorf("meshconv watch: %w", err))
		}
	}
}

// watchManifestInputs (re)subscribes the watcher to the manifest file
// and every job's input file named in it, returning the count
// successfully added. Paths already registered are left alone;
// fsnotify.Add is idempotent for a path already being watched.
func watchManifestInputs(w *fsnotify.Watcher, manifestPath string) (int, error) {
	m, err := LoadManifest(manifestPath)
	if err != nil {
		return 0, fmt.Errorf("meshconv watch: %w", err)
	}
	if err := w.Add(manifestPath); err != nil {
		return 0, fmt.Errorf("meshconv watch: watching %s: %w", manifestPath, err)
	}
	n := 1
	for _, j := range m.Jobs {
		abs := j.Input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(filepath.Dir(manifestPath), j.Input)
		}
		if err := w.Add(abs); err != nil {
			errors.Log(fmt.Errorf("meshconv watch: watching %s: %w", abs, err))
			continue
		}
		n++
	}
	return n, nil
}
