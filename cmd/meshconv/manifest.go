// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is a batch conversion job list read with the batch
// subcommand. Jobs run in the order listed; a job's own Config, if
// given, replaces the manifest-wide Config for that job. Fields either
// one leaves unset keep DefaultConfig's values; the batch subcommand
// takes no --config flag.
type Manifest struct {
	Config Config `yaml:"config"`
	Jobs   []Job  `yaml:"jobs"`
}

// Job is one source/destination pair within a Manifest.
type Job struct {
	Input  string  `yaml:"input"`
	Output string  `yaml:"output"`
	Config *Config `yaml:"config"`
}

// LoadManifest reads and decodes a YAML batch manifest at path. Fields
// left unset in the manifest or a job keep DefaultConfig's values,
// since Config.UnmarshalYAML starts from there before decoding.
func LoadManifest(path string) (Manifest, error) {
	m := Manifest{Config: DefaultConfig()}
	b, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return m, err
	}
	if len(m.Jobs) == 0 {
		return m, fmt.Errorf("meshconv: manifest %s declares no jobs", path)
	}
	return m, nil
}

// UnmarshalYAML seeds c with DefaultConfig before decoding, so fields a
// manifest or job leaves unset keep their loader defaults.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type plain Config
	d := plain(DefaultConfig())
	if err := node.Decode(&d); err != nil {
		return err
	}
	*c = Config(d)
	return nil
}

// configFor resolves the effective Config for a job: its own override
// if set, otherwise the manifest-wide one.
func (m Manifest) configFor(j Job) Config {
	if j.Config != nil {
		return *j.Config
	}
	return m.Config
}
