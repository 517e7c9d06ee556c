// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/xerrors"
)

// A command holds the state of one invocation of expand.
type command struct {
	stdout io.Writer
	stderr io.Writer
	dir    string      // directory file names are relative to
	log    *zap.Logger // nil means build one from the flags

	format       string
	color        string
	config       string
	diff         bool
	write        bool
	parenthesize bool
	verbose      bool
	defines      []string
}

func newCommand(c *command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expand [flags] file.cc:address",
		Short: "Expand a C++ function call or macro use in place",
		Long: `Expand replaces the function call or macro use at address with the
body of its definition, rewritten to be valid at the call site.

The address uses the syntax of sam and acme (/regexp/, #offset, line,
and combinations such as /f\(/+#2), or line:col. The call is the one
whose name covers the start of the addressed range.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return newErrUsage("expand [flags] file.cc:address")
			}
			return nil
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return c.setup(cmd) },
		PersistentPostRun: func(cmd *cobra.Command, args []string) { _ = c.log.Sync() },
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context(), args[0])
		},
	}
	cmd.SetOut(c.stdout)
	cmd.SetErr(c.stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return newErrUsage("%v", err)
	})

	f := cmd.Flags()
	f.StringVar(&c.format, "format", "text", "output `format`: text, json, or yaml")
	f.BoolVar(&c.diff, "diff", false, "print a diff of the file with the expansion applied")
	f.BoolVarP(&c.write, "write", "w", false, "write the expansion back to the file")
	f.StringArrayVarP(&c.defines, "define", "D", nil, "predefine macro `name[=value]`")
	f.StringVar(&c.color, "color", "auto", "color `mode`: auto, always, or never")
	f.StringVar(&c.config, "config", "", "read settings from `file` (default "+defaultConfig+" if present)")
	f.BoolVar(&c.parenthesize, "parenthesize", true, "parenthesize arguments that are not primary expressions")
	f.BoolVarP(&c.verbose, "verbose", "v", false, "log debugging output to standard error")
	return cmd
}

// setup merges the configuration file into the flags,
// checks them, and builds the logger.
func (c *command) setup(cmd *cobra.Command) error {
	name, explicit := c.config, c.config != ""
	if !explicit {
		name = defaultConfig
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(c.dir, name)
	}
	cfg, err := loadConfig(name, explicit)
	if err != nil {
		return err
	}
	cfg.apply(c, cmd.Flags())

	switch c.format {
	case "text", "json", "yaml":
	default:
		return newErrUsage("unknown format %q", c.format)
	}
	switch c.color {
	case "auto", "always", "never":
	default:
		return newErrUsage("unknown color mode %q", c.color)
	}

	if c.log == nil {
		config := zap.NewProductionConfig()
		if c.verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		c.log, err = config.Build()
		if err != nil {
			return xerrors.Errorf("initializing logger: %w", err)
		}
	}
	return nil
}

func main() {
	c := &command{stdout: os.Stdout, stderr: os.Stderr}
	if err := newCommand(c).Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "expand: %v\n", err)
		os.Exit(exitCode(err))
	}
}
