// Copyright (c) 2024 The treereduce developers

// Package config loads the --config FILE document: CLI flag values and
// the per-grammar canonical replacement tables (spec.md §6), expressed as
// YAML (this repo's teacher has no YAML config loader of its own to ground
// this on; see DESIGN.md). cmd/treereduce uses only ReplacementTable; the
// flag-value fields are parsed but not applied to the CLI's settings.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Replacement is one canonical smaller alternative for a grammar node kind.
type Replacement struct {
	Kind string `yaml:"kind"`
	With string `yaml:"with"`
}

// File is the parsed shape of a --config document.
type File struct {
	// Jobs, MinReduction, Passes, Fast, Slow, Stable mirror the CLI flags
	// of the same name (spec.md §6). cmd/treereduce does not read them.
	Jobs         int `yaml:"jobs"`
	MinReduction int `yaml:"min_reduction"`
	Passes       int `yaml:"passes"`

	Fast   bool `yaml:"fast"`
	Slow   bool `yaml:"slow"`
	Stable bool `yaml:"stable"`

	Replacements []Replacement `yaml:"replacements"`
}

// Load reads and parses the YAML document at path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, errors.Wrap(err, "config: read file")
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, errors.Wrap(err, "config: parse yaml")
	}
	return f, nil
}

// ReplacementTable converts the file's flat Replacement list into the
// reduce.Config.Replacements shape: kind -> ordered list of alternatives.
func (f File) ReplacementTable() map[string][][]byte {
	out := make(map[string][][]byte)
	for _, r := range f.Replacements {
		out[r.Kind] = append(out[r.Kind], []byte(r.With))
	}
	return out
}
