// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edit

import "testing"

func TestEdit(t *testing.T) {
	b := NewBuffer([]byte("0123456789"))
	b.Insert(8, ",7½,")
	b.Replace(9, 10, "the-end")
	b.Insert(10, "!")
	b.Insert(4, "3.14,")
	b.Insert(4, "π,")
	b.Insert(4, "3.15,")
	b.Replace(3, 4, "three,")
	want := "012three,3.14,4567,7½,8the-end!"

	s := b.String()
	if s != want {
		t.Errorf("b.String() = %q, want %q", s, want)
	}
	sb := b.Bytes()
	if string(sb) != want {
		t.Errorf("b.Bytes() = %q, want %q", sb, want)
	}
}

var overlapTests = []struct {
	first, second Edit
	ok            bool
}{
	{Edit{2, 4, "x"}, Edit{4, 6, "y"}, true},
	{Edit{2, 4, "x"}, Edit{3, 6, "y"}, false},
	{Edit{2, 4, "x"}, Edit{2, 4, "y"}, false},
	{Edit{2, 4, "x"}, Edit{2, 2, "y"}, true},
	{Edit{2, 4, "x"}, Edit{4, 4, "y"}, true},
	{Edit{2, 4, "x"}, Edit{3, 3, "y"}, false},
	{Edit{2, 2, "x"}, Edit{2, 2, "y"}, false},
	{Edit{0, 9, "x"}, Edit{4, 5, "y"}, false},
}

func TestFirstWriterWins(t *testing.T) {
	for _, tt := range overlapTests {
		b := NewBuffer([]byte("0123456789"))
		if !b.Replace(tt.first.Start, tt.first.End, tt.first.New) {
			t.Fatalf("Replace(%v) rejected on empty buffer", tt.first)
		}
		ok := b.Replace(tt.second.Start, tt.second.End, tt.second.New)
		if ok != tt.ok {
			t.Errorf("after %v, Replace(%v) = %v, want %v", tt.first, tt.second, ok, tt.ok)
		}
		if !ok && b.Len() != 1 {
			t.Errorf("after %v, rejected %v still recorded", tt.first, tt.second)
		}
	}
}

func TestApply(t *testing.T) {
	data := []byte("return a * a;")
	out, err := Apply(data, 100, []Edit{{100, 107, "y = "}, {114, 114, "!"}})
	if err == nil {
		t.Fatalf("Apply accepted edit past end of text: %q", out)
	}
	out, err = Apply(data, 100, []Edit{{111, 112, "(x)"}, {100, 107, "y = "}, {107, 108, "(x)"}})
	if err != nil {
		t.Fatal(err)
	}
	if want := "y = (x) * (x);"; string(out) != want {
		t.Errorf("Apply = %q, want %q", out, want)
	}
	if _, err := Apply(data, 100, []Edit{{100, 107, "y = "}, {105, 108, "z"}}); err == nil {
		t.Errorf("Apply accepted overlapping edits")
	}
}

var dedentTests = []struct {
	in, out string
}{
	{"", ""},
	{" return x; ", "return x;"},
	{"\n  a;\n  b;\n", "a;\nb;"},
	{"\n    if (x)\n      y;\n    z;\n", "if (x)\n  y;\nz;"},
	{"\n\ta;\n\n\tb;\n", "a;\n\nb;"},
}

func TestDedent(t *testing.T) {
	for _, tt := range dedentTests {
		if out := Dedent(tt.in); out != tt.out {
			t.Errorf("Dedent(%q) = %q, want %q", tt.in, out, tt.out)
		}
	}
}

func TestIndent(t *testing.T) {
	if out, want := Indent("a;\n\nb;", "  "), "a;\n\n  b;"; out != want {
		t.Errorf("Indent = %q, want %q", out, want)
	}
}
