// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command meshconv converts OBJ, PLY, and binary V2 mesh files into
// binary V2 containers, either one file at a time or as a YAML-declared
// batch.
package main

import (
	"flag"
	"fmt"
	"os"

	"meshkit/base/errors"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "convert":
		err = runConvert(os.Args[2:])
	case "batch":
		err = runBatch(os.Args[2:])
	case "watch":
		err = runWatch(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "meshconv: unknown command %q\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		errors.Log(err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage:
  meshconv convert [--config file.toml] <in> <out>
  meshconv batch <manifest.yaml>
  meshconv watch <manifest.yaml>`)
}

func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	configPath := fs.String("config", "", "TOML file overriding loader defaults")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("meshconv convert: expected <in> <out>, got %d argument(s)", fs.NArg())
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("meshconv convert: loading %s: %w", *configPath, err)
	}
	return Convert(fs.Arg(0), fs.Arg(1), cfg)
}

func runBatch(args []string) error {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("meshconv batch: expected <manifest.yaml>, got %d argument(s)", fs.NArg())
	}

	m, err := LoadManifest(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("meshconv batch: %w", err)
	}

	var failed int
	for _, j := range m.Jobs {
		if err := Convert(j.Input, j.Output, m.configFor(j)); err != nil {
			errors.Log(err)
			failed++
			continue
		}
		fmt.Printf("meshconv: %s -> %s\n", j.Input, j.Output)
	}
	if failed > 0 {
		return fmt.Errorf("meshconv batch: %d of %d job(s) failed", failed, len(m.Jobs))
	}
	return nil
}
