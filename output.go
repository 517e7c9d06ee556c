// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"rsc.io/expand/cxx"
	"rsc.io/expand/expand"
)

// A report is the machine-readable form of an expansion.
type report struct {
	File       string    `json:"file" yaml:"file"`
	Call       position  `json:"call" yaml:"call"`
	Statement  position  `json:"statement" yaml:"statement"`
	Definition *position `json:"definition,omitempty" yaml:"definition,omitempty"`
	Macro      bool      `json:"macro" yaml:"macro"`
	Declare    bool      `json:"declare" yaml:"declare"`
	Original   string    `json:"original" yaml:"original"`
	Text       string    `json:"text" yaml:"text"`
}

type position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
	Offset int `json:"offset" yaml:"offset"`
}

func positionOf(data []byte, offset int) position {
	line := bytes.Count(data[:offset], []byte("\n")) + 1
	col := offset - (bytes.LastIndexByte(data[:offset], '\n') + 1) + 1
	return position{Line: line, Column: col, Offset: offset}
}

func newReport(file string, data []byte, r *cxx.Result) *report {
	rep := &report{
		File:      file,
		Call:      positionOf(data, r.Call.Lo),
		Statement: positionOf(data, r.Stmt.Lo),
		Macro:     r.Macro,
		Declare:   r.Declare,
		Original:  r.Original,
		Text:      r.Text,
	}
	// Macros defined with -D have no position in the file.
	if r.Definition.File == expand.CanonicalLocation(file, 0).File && r.Definition.Offset <= len(data) {
		def := positionOf(data, r.Definition.Offset)
		rep.Definition = &def
	}
	return rep
}

func (c *command) printResult(file string, data []byte, r *cxx.Result) error {
	switch c.format {
	case "json":
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(newReport(file, data, r))
	case "yaml":
		enc := yaml.NewEncoder(c.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(newReport(file, data, r)); err != nil {
			return err
		}
		return enc.Close()
	}
	_, err := fmt.Fprintf(c.stdout, "%s\n", r.Text)
	return err
}

// colorEnabled reports whether output to stdout should be colored.
func (c *command) colorEnabled() bool {
	switch c.color {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := c.stdout.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) && os.Getenv("NO_COLOR") == ""
}

// diffStyles holds the colors of a unified diff.
type diffStyles struct {
	header *color.Color
	hunk   *color.Color
	add    *color.Color
	del    *color.Color
}

func newDiffStyles(enabled bool) *diffStyles {
	s := &diffStyles{
		header: color.New(color.Bold),
		hunk:   color.New(color.FgCyan),
		add:    color.New(color.FgGreen),
		del:    color.New(color.FgRed),
	}
	for _, c := range []*color.Color{s.header, s.hunk, s.add, s.del} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

func (c *command) printDiff(d []byte) {
	s := newDiffStyles(c.colorEnabled())
	for _, line := range bytes.SplitAfter(d, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		text := string(bytes.TrimSuffix(line, []byte("\n")))
		var style *color.Color
		switch {
		case bytes.HasPrefix(line, []byte("diff ")),
			bytes.HasPrefix(line, []byte("--- ")),
			bytes.HasPrefix(line, []byte("+++ ")):
			style = s.header
		case bytes.HasPrefix(line, []byte("@@")):
			style = s.hunk
		case line[0] == '+':
			style = s.add
		case line[0] == '-':
			style = s.del
		}
		if style == nil {
			fmt.Fprintln(c.stdout, text)
		} else {
			style.Fprintln(c.stdout, text)
		}
	}
}
