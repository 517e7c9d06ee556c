// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := loadConfig(filepath.Join(dir, defaultConfig), false)
	if err != nil {
		t.Fatalf("missing default config: %v", err)
	}
	if !reflect.DeepEqual(cfg, new(config)) {
		t.Errorf("missing default config = %+v, want zero", cfg)
	}
	if _, err := loadConfig(filepath.Join(dir, "other.yaml"), true); err == nil {
		t.Errorf("missing explicit config: no error")
	}

	write := func(name, text string) string {
		name = filepath.Join(dir, name)
		if err := os.WriteFile(name, []byte(text), 0666); err != nil {
			t.Fatal(err)
		}
		return name
	}

	cfg, err = loadConfig(write("empty.yaml", ""), true)
	if err != nil {
		t.Fatalf("empty config: %v", err)
	}
	if !reflect.DeepEqual(cfg, new(config)) {
		t.Errorf("empty config = %+v, want zero", cfg)
	}

	cfg, err = loadConfig(write("full.yaml", "format: yaml\nparenthesize: false\ndefines: [A, B=2]\n"), true)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Format != "yaml" || cfg.Parenthesize == nil || *cfg.Parenthesize || !reflect.DeepEqual(cfg.Defines, []string{"A", "B=2"}) {
		t.Errorf("full config = %+v", cfg)
	}

	_, err = loadConfig(write("bad.yaml", "formt: json\n"), true)
	if err == nil || !strings.HasPrefix(err.Error(), "bad.yaml: ") {
		t.Errorf("unknown field: err = %v, want bad.yaml: ...", err)
	}
}

func TestConfigApply(t *testing.T) {
	c := &command{format: "text", color: "auto", parenthesize: true, defines: []string{"B=3"}}
	flags := pflag.NewFlagSet("expand", pflag.ContinueOnError)
	flags.StringVar(&c.format, "format", c.format, "")
	flags.StringVar(&c.color, "color", c.color, "")
	flags.BoolVar(&c.parenthesize, "parenthesize", c.parenthesize, "")
	flags.BoolVar(&c.verbose, "verbose", c.verbose, "")
	if err := flags.Parse([]string{"--format=json"}); err != nil {
		t.Fatal(err)
	}

	off := false
	cfg := &config{Format: "yaml", Color: "never", Parenthesize: &off, Defines: []string{"A", "B=2"}, Verbose: true}
	cfg.apply(c, flags)

	if c.format != "json" {
		t.Errorf("format = %q, want json from the command line", c.format)
	}
	if c.color != "never" {
		t.Errorf("color = %q, want never", c.color)
	}
	if c.parenthesize {
		t.Errorf("parenthesize = true, want false")
	}
	if !c.verbose {
		t.Errorf("verbose = false, want true")
	}
	if want := []string{"A", "B=2", "B=3"}; !reflect.DeepEqual(c.defines, want) {
		t.Errorf("defines = %q, want %q", c.defines, want)
	}
}
