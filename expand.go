// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"rsc.io/expand/cxx"
	"rsc.io/expand/diff"
)

// run expands the call or macro use at target, a file:address pair.
func (c *command) run(ctx context.Context, target string) error {
	file, addr, err := parseTarget(target)
	if err != nil {
		return err
	}
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lo, _, err := evalAddr(addr, data)
	if err != nil {
		return newErrUsage("cannot evaluate address %s: %v", addr, err)
	}

	defines, err := parseDefines(c.defines)
	if err != nil {
		return err
	}
	x := &cxx.Expander{
		Logger:       c.log,
		Parenthesize: c.parenthesize,
		Defines:      defines,
	}
	c.log.Debug("expanding", zap.String("file", file), zap.Int("offset", lo))
	r, err := x.Expand(ctx, file, data, lo)
	if err != nil {
		return classify(err)
	}

	spliced := r.Splice(data)
	if c.diff {
		d, err := diff.Diff(ctx, file, data, file, spliced)
		if err != nil {
			return err
		}
		c.printDiff(d)
	}
	if c.write {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		return os.WriteFile(path, spliced, info.Mode().Perm())
	}
	if c.diff {
		return nil
	}
	return c.printResult(file, data, r)
}

// parseDefines converts -D arguments to macro definitions.
// A definition without a value defines the macro as 1.
func parseDefines(list []string) (map[string]string, error) {
	defines := make(map[string]string)
	for _, def := range list {
		name, value, ok := strings.Cut(def, "=")
		if name == "" {
			return nil, newErrUsage("-D %q: missing macro name", def)
		}
		if !ok {
			value = "1"
		}
		defines[name] = value
	}
	return defines, nil
}
