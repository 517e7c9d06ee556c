// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cxx locates calls and definitions in C++ source using the
// tree-sitter C++ grammar and expands a call site in place.
package cxx

import (
	"context"
	"go/token"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
	"golang.org/x/xerrors"

	"rsc.io/expand/expand"
)

// A File is a parsed C++ source file.
type File struct {
	Name string
	Src  []byte
	Root *sitter.Node

	tree  *sitter.Tree
	lines []int
	diags ErrorList
}

// Parse parses src as C++. The parser recovers from syntax errors;
// they are reported by Diagnostics, not as an error from Parse.
func Parse(ctx context.Context, name string, src []byte) (*File, error) {
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(cpp.GetLanguage())

	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, xerrors.Errorf("parsing %s: %w", name, err)
	}
	f := &File{
		Name:  name,
		Src:   src,
		Root:  tree.RootNode(),
		tree:  tree,
		lines: lineStarts(src),
	}
	if f.Root.HasError() {
		inspect(f.Root, func(n *sitter.Node) bool {
			switch {
			case n.IsMissing():
				f.diags.Add(&Error{Pos: f.Position(int(n.StartByte())), Msg: "missing " + n.Type()})
				return false
			case n.Type() == "ERROR":
				f.diags.Add(&Error{Pos: f.Position(int(n.StartByte())), Msg: "syntax error"})
				return false
			}
			return n.HasError()
		})
	}
	return f, nil
}

// Close releases the syntax tree.
func (f *File) Close() {
	f.tree.Close()
}

// Diagnostics returns the syntax errors found while parsing, or nil.
func (f *File) Diagnostics() error {
	return f.diags.Err()
}

// Position returns the position of a byte offset in f.
func (f *File) Position(offset int) token.Position {
	return position(f.Name, f.lines, offset)
}

// Text returns the source text of n.
func (f *File) Text(n *sitter.Node) string {
	return n.Content(f.Src)
}

func (f *File) span(n *sitter.Node) expand.Span {
	return expand.Span{File: f.Name, Lo: int(n.StartByte()), Hi: int(n.EndByte())}
}

func lineStarts(src []byte) []int {
	lines := []int{0}
	for i, c := range src {
		if c == '\n' {
			lines = append(lines, i+1)
		}
	}
	return lines
}

func position(name string, lines []int, offset int) token.Position {
	i := sort.SearchInts(lines, offset+1) - 1
	if i < 0 {
		i = 0
	}
	return token.Position{
		Filename: name,
		Offset:   offset,
		Line:     i + 1,
		Column:   offset - lines[i] + 1,
	}
}
