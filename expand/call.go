// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package expand rewrites function, method and macro definitions
// into fragments that can replace a call site.
//
// The package does no parsing and no I/O. A host front end walks a
// definition body and reports the interesting nodes (parameter references,
// implicit member accesses, return statements, template parameter uses)
// to a Rewriter, which answers with a list of replacements against the
// original text. A host preprocessor reports macro expansions to a
// MacroSearch, which renders the macro invocation at the call site, if any.
package expand

import (
	"fmt"
	"path/filepath"
	"sort"
)

// A ParamMap maps a formal parameter name to the text substituted for it.
type ParamMap map[string]string

// Names returns the parameter names in sorted order.
func (m ParamMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// A Call describes the call site being expanded.
type Call struct {
	// Params maps each formal parameter of the callee to its argument text.
	Params ParamMap

	// Receiver is the text of the object a non-static member function
	// was called on, such as "p" in p.get(). It is empty for free functions,
	// static members, and member calls through an implicit this.
	Receiver string

	// Arrow reports whether the receiver was accessed with ->.
	Arrow bool

	// Assignee is the name receiving the call's result.
	// It is empty when the result is discarded.
	Assignee string
}

// qualify returns text accessed through the receiver.
func (c *Call) qualify(text string) string {
	if c.Arrow {
		return c.Receiver + "->" + text
	}
	return c.Receiver + "." + text
}

// A Span is a half-open byte range [Lo, Hi) in a source file.
type Span struct {
	File string
	Lo   int
	Hi   int
}

func (s Span) String() string {
	return fmt.Sprintf("%s:#%d,#%d", s.File, s.Lo, s.Hi)
}

// Len returns the number of bytes covered by s.
func (s Span) Len() int {
	return s.Hi - s.Lo
}

// Contains reports whether the location l lies within s.
// An empty span contains only its own offset.
func (s Span) Contains(l Location) bool {
	if canonicalFile(s.File) != l.File {
		return false
	}
	if s.Lo == s.Hi {
		return l.Offset == s.Lo
	}
	return s.Lo <= l.Offset && l.Offset < s.Hi
}

// A Replacement replaces the text of Span with Text.
type Replacement struct {
	Span Span
	Text string
}

func (r Replacement) String() string {
	return fmt.Sprintf("%v%q", r.Span, r.Text)
}

// A Location is a canonical source position: a cleaned,
// slash-separated file name and a byte offset into that file.
// Locations reached through different spellings of the same
// path compare equal.
type Location struct {
	File   string
	Offset int
}

// CanonicalLocation returns the canonical form of file and offset.
func CanonicalLocation(file string, offset int) Location {
	return Location{File: canonicalFile(file), Offset: offset}
}

func canonicalFile(file string) string {
	if file == "" {
		return ""
	}
	return filepath.ToSlash(filepath.Clean(file))
}

func (l Location) String() string {
	return fmt.Sprintf("%s:#%d", l.File, l.Offset)
}
