// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package config handles loading spvlegalize configuration from files.
//
// Configuration is read from a TOML file named spvlegalize.toml or
// .spvlegalize.toml. The file is searched for in the input's directory and its
// parent directories.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/spvlegalize"
)

// DefaultOutputSuffix replaces the input extension when no output path is given.
const DefaultOutputSuffix = ".modified.spv"

// Config represents the configuration file structure.
// All fields are optional and fall back to defaults when unset.
type Config struct {
	// Verbose enables a trace line for every change.
	Verbose *bool `toml:"verbose"`

	// StrictReorder fails on OpTypeSampledImage declarations whose image
	// type is not declared before them.
	StrictReorder *bool `toml:"strict_reorder"`

	// AllowUnknownOpcodes passes instructions missing from the grammar
	// table through as opaque literals instead of failing.
	AllowUnknownOpcodes *bool `toml:"allow_unknown_opcodes"`

	// OutputSuffix replaces the input extension to name the output file.
	OutputSuffix *string `toml:"output_suffix"`

	// Jobs limits how many files are legalized at once.
	Jobs *int `toml:"jobs"`
}

// FileNames are the names searched for config files, in order of preference.
var FileNames = []string{
	"spvlegalize.toml",
	".spvlegalize.toml",
}

// Load searches for a config file starting from the given directory and
// walking up to parent directories. It returns a nil Config and an empty path
// if no file is found.
func Load(startDir string) (*Config, string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, "", err
	}
	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				cfg, err := LoadFile(path)
				return cfg, path, err
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, "", nil
		}
		dir = parent
	}
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Jobs != nil && *c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", *c.Jobs)
	}
	if c.OutputSuffix != nil && strings.TrimSpace(*c.OutputSuffix) == "" {
		return errors.New("output_suffix must not be empty")
	}
	return nil
}

// Settings are the resolved values the command runs with.
type Settings struct {
	Verbose             bool
	StrictReorder       bool
	AllowUnknownOpcodes bool
	OutputSuffix        string
	Jobs                int
}

// Defaults returns the settings used when neither a file nor a flag sets a value.
func Defaults() Settings {
	return Settings{
		OutputSuffix: DefaultOutputSuffix,
		Jobs:         runtime.NumCPU(),
	}
}

// Overrides holds values given on the command line. Nil means not specified.
type Overrides struct {
	Verbose             *bool
	StrictReorder       *bool
	AllowUnknownOpcodes *bool
	Jobs                *int
}

// Resolve merges defaults, the config file and command-line overrides, in
// increasing order of precedence. A nil Config contributes nothing.
func (c *Config) Resolve(cli Overrides) Settings {
	s := Defaults()
	if c != nil {
		setBool(&s.Verbose, c.Verbose)
		setBool(&s.StrictReorder, c.StrictReorder)
		setBool(&s.AllowUnknownOpcodes, c.AllowUnknownOpcodes)
		if c.OutputSuffix != nil {
			s.OutputSuffix = *c.OutputSuffix
		}
		if c.Jobs != nil {
			s.Jobs = *c.Jobs
		}
	}

	setBool(&s.Verbose, cli.Verbose)
	setBool(&s.StrictReorder, cli.StrictReorder)
	setBool(&s.AllowUnknownOpcodes, cli.AllowUnknownOpcodes)
	if cli.Jobs != nil && *cli.Jobs > 0 {
		s.Jobs = *cli.Jobs
	}
	return s
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// Options converts the settings to library options. The logger is left for
// the caller to set.
func (s Settings) Options() spvlegalize.Options {
	opts := spvlegalize.DefaultOptions()
	opts.Parse.AllowUnknownOpcodes = s.AllowUnknownOpcodes
	opts.Legalize.StrictReorder = s.StrictReorder
	return opts
}

// OutputPath names the output file for input by replacing its extension
// with the suffix.
func (s Settings) OutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + s.OutputSuffix
}
