// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// defaultConfig is read from the working directory when --config is not given.
const defaultConfig = ".expand.yaml"

// A config holds settings read from a configuration file.
// Unset fields leave the command-line defaults alone.
type config struct {
	Format       string   `yaml:"format"`
	Color        string   `yaml:"color"`
	Parenthesize *bool    `yaml:"parenthesize"`
	Defines      []string `yaml:"defines"`
	Verbose      bool     `yaml:"verbose"`
}

// loadConfig reads the configuration file name.
// A missing default file is not an error.
func loadConfig(name string, explicit bool) (*config, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		if !explicit && xerrors.Is(err, fs.ErrNotExist) {
			return new(config), nil
		}
		return nil, err
	}
	cfg := new(config)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !xerrors.Is(err, io.EOF) {
		return nil, xerrors.Errorf("%s: %w", filepath.Base(name), err)
	}
	return cfg, nil
}

// apply copies the settings of cfg into c
// for every flag not set on the command line.
func (cfg *config) apply(c *command, flags *pflag.FlagSet) {
	if cfg.Format != "" && !flags.Changed("format") {
		c.format = cfg.Format
	}
	if cfg.Color != "" && !flags.Changed("color") {
		c.color = cfg.Color
	}
	if cfg.Parenthesize != nil && !flags.Changed("parenthesize") {
		c.parenthesize = *cfg.Parenthesize
	}
	if cfg.Verbose && !flags.Changed("verbose") {
		c.verbose = true
	}
	// Command-line definitions follow, and so override, the file's.
	c.defines = append(append([]string(nil), cfg.Defines...), c.defines...)
}
