// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expand

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/xerrors"
)

func use(m *Macro, file string, lo int, args ...string) MacroExpansion {
	hi := lo + len(m.Name)
	end := hi
	for _, a := range args {
		end += len(a) + 1
	}
	if m.FunctionLike {
		end++
	}
	return MacroExpansion{
		Macro: m,
		Name:  Span{File: file, Lo: lo, Hi: hi},
		Range: Span{File: file, Lo: lo, Hi: end},
		Args:  args,
	}
}

func TestMacroSearchFiresOnce(t *testing.T) {
	sq := fn("SQUARE", []string{"x"}, "( ( x ) * ( x ) )")
	null := &Macro{Name: "NULLP", Body: toks("( void * ) 0")}

	var matches []*MacroMatch
	s := ObserveMacroExpansions(CanonicalLocation("./src/../a.cc", 42), func(m *MacroMatch) {
		matches = append(matches, m)
	})
	events := []MacroExpansion{
		use(null, "a.cc", 10),
		use(sq, "b.cc", 40, "1"),
		use(sq, "a.cc", 30, "2"),
		use(sq, "a.cc", 40, "n+1"),
		use(null, "a.cc", 42),
		use(sq, "a.cc", 40, "3"),
	}
	for _, ev := range events {
		s.MacroExpands(ev)
	}
	if !s.Matched() || s.Err() != nil {
		t.Fatalf("Matched() = %v, Err() = %v, want true, nil", s.Matched(), s.Err())
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	m := matches[0]
	if m.Text != "((n+1)*(n+1))" {
		t.Errorf("match text = %s, want ((n+1)*(n+1))", m.Text)
	}
	if diff := cmp.Diff(ArgMap{"x": {Raw: "n+1"}}, m.Args); diff != "" {
		t.Errorf("match args (-want +got):\n%s", diff)
	}
	if want := (Span{File: "a.cc", Lo: 40, Hi: 51}); m.Range != want {
		t.Errorf("match range = %v, want %v", m.Range, want)
	}
}

func TestMacroSearchObjectLike(t *testing.T) {
	null := &Macro{Name: "NULLP", Body: toks("( void * ) 0")}
	var got string
	s := ObserveMacroExpansions(Location{File: "a.cc", Offset: 12}, func(m *MacroMatch) { got = m.Text })
	s.MacroExpands(use(null, "a.cc", 10))
	if got != "(void*)0" {
		t.Errorf("match text = %q, want %q", got, "(void*)0")
	}
}

func TestMacroSearchNoMatch(t *testing.T) {
	sq := fn("SQUARE", []string{"x"}, "( ( x ) * ( x ) )")
	called := false
	s := ObserveMacroExpansions(Location{File: "a.cc", Offset: 5}, func(*MacroMatch) { called = true })
	s.MacroExpands(use(sq, "a.cc", 6, "1"))
	s.MacroExpands(use(sq, "a.cc", 0, "1")) // name covers [0,6)
	if !called {
		t.Errorf("expansion whose name covers the target did not match")
	}

	called = false
	s = ObserveMacroExpansions(Location{File: "a.cc", Offset: 8}, func(*MacroMatch) { called = true })
	// The target is inside the arguments, not on the name.
	s.MacroExpands(use(sq, "a.cc", 0, "1"))
	if called || s.Matched() {
		t.Errorf("expansion matched a target inside its arguments")
	}
}

func TestMacroSearchError(t *testing.T) {
	bad := fn("BAD", []string{"x"}, "# y")
	called := false
	s := ObserveMacroExpansions(Location{File: "a.cc", Offset: 0}, func(*MacroMatch) { called = true })
	s.MacroExpands(use(bad, "a.cc", 0, "1"))
	if called {
		t.Errorf("onMatch called for a failed expansion")
	}
	if !s.Matched() || !xerrors.Is(s.Err(), ErrStringify) {
		t.Errorf("Matched() = %v, Err() = %v, want true, %v", s.Matched(), s.Err(), ErrStringify)
	}

	// Wrong argument count is fatal too.
	sq := fn("SQUARE", []string{"x"}, "x * x")
	s = ObserveMacroExpansions(Location{File: "a.cc", Offset: 0}, nil)
	s.MacroExpands(use(sq, "a.cc", 0, "1", "2"))
	if !xerrors.Is(s.Err(), ErrArgCount) {
		t.Errorf("Err() = %v, want %v", s.Err(), ErrArgCount)
	}
}

func TestMacroExpansionArgMap(t *testing.T) {
	id := fn("ID", []string{"x"}, "x")
	ev := use(id, "a.cc", 0, "TWO")
	ev.Expanded = []string{"2"}
	am, err := ev.ArgMap()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(ArgMap{"x": {Raw: "TWO", Expanded: "2", HasExpanded: true}}, am); diff != "" {
		t.Errorf("ArgMap (-want +got):\n%s", diff)
	}

	var got string
	s := ObserveMacroExpansions(Location{File: "a.cc", Offset: 0}, func(m *MacroMatch) { got = m.Text })
	s.MacroExpands(ev)
	if got != "2" {
		t.Errorf("expansion of ID(TWO) = %q, want 2", got)
	}

	// An argument that expands to nothing stays empty.
	ev.Expanded = []string{""}
	got = "unset"
	s = ObserveMacroExpansions(Location{File: "a.cc", Offset: 0}, func(m *MacroMatch) { got = m.Text })
	s.MacroExpands(ev)
	if got != "" {
		t.Errorf("expansion of ID(EMPTY) = %q, want empty", got)
	}

	ev.Expanded = []string{"1", "2"}
	if _, err := ev.ArgMap(); err == nil {
		t.Errorf("ArgMap with mismatched expanded arguments: no error")
	}
}
