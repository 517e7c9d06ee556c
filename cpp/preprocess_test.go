// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpp

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rsc.io/expand/expand"
)

const scanInput = `#define SQUARE(x) ((x) * (x))
#define NULLP (void*)0
#define F(a, ...) f(a, __VA_ARGS__)
#define G(args...) g(args)
int a = SQUARE(n + 1);
int *p = NULLP;
int b = SQUARE(SQUARE(2));
int c = F(1, (2, 3), 4);
int d = SQUARE;
int e = G();
#undef SQUARE
int f = SQUARE(3);
`

func uses(t *testing.T, p *Preprocessor, src string) []string {
	t.Helper()
	var list []string
	err := p.Scan("x.cc", []byte(src), func(ev expand.MacroExpansion) {
		if got := src[ev.Name.Lo:ev.Name.Hi]; got != ev.Macro.Name {
			t.Errorf("name span %v covers %q, want %q", ev.Name, got, ev.Macro.Name)
		}
		list = append(list, fmt.Sprintf("%s%q %s", ev.Macro.Name, ev.Args, src[ev.Range.Lo:ev.Range.Hi]))
	})
	if err != nil {
		t.Fatal(err)
	}
	return list
}

func TestScan(t *testing.T) {
	p := New(nil)
	got := uses(t, p, scanInput)
	want := []string{
		`SQUARE["n + 1"] SQUARE(n + 1)`,
		`NULLP[] NULLP`,
		`SQUARE["SQUARE(2)"] SQUARE(SQUARE(2))`,
		`SQUARE["2"] SQUARE(2)`,
		`F["1" "(2, 3)" "4"] F(1, (2, 3), 4)`,
		`G[""] G()`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("macro uses (-want +got):\n%s", diff)
	}

	if p.Lookup("SQUARE") != nil {
		t.Errorf("SQUARE still defined after #undef")
	}
	f := p.Lookup("F")
	if f == nil || !f.FunctionLike || !f.Variadic || !cmp.Equal(f.Params, []string{"a", "__VA_ARGS__"}) {
		t.Fatalf("F = %+v, want variadic function-like macro (a, __VA_ARGS__)", f)
	}
	g := p.Lookup("G")
	if g == nil || !g.Variadic || !cmp.Equal(g.Params, []string{"args"}) {
		t.Errorf("G = %+v, want GNU variadic macro (args...)", g)
	}
	if want := expand.CanonicalLocation("x.cc", strings.Index(scanInput, "NULLP")); p.Lookup("NULLP").Def != want {
		t.Errorf("NULLP defined at %v, want %v", p.Lookup("NULLP").Def, want)
	}
}

func TestScanWithSearch(t *testing.T) {
	p := New(nil)
	inner := strings.Index(scanInput, "SQUARE(2)")
	var text string
	s := expand.ObserveMacroExpansions(expand.Location{File: "x.cc", Offset: inner + 2}, func(m *expand.MacroMatch) {
		text = m.Text
	})
	if err := p.Scan("x.cc", []byte(scanInput), s.MacroExpands); err != nil {
		t.Fatal(err)
	}
	if text != "((2)*(2))" {
		t.Errorf("matched text = %q, want %q", text, "((2)*(2))")
	}
}

var argumentTests = []struct {
	src  string
	at   string // the use starts at the last occurrence of at
	text string
}{
	{"#define S(x) #x\nconst char *s = S(a /* c */ + b);\n", "S(", `"a + b"`},
	{"#define S(x) #x\nconst char *s = S(a\n  + b);\n", "S(", `"a + b"`},
	{"#define S(x) #x\n#define TWO 2\nconst char *s = S(TWO);\n", "S(", `"TWO"`},
	{"#define TWO 2\n#define ID(x) x\nint v = ID(TWO);\n", "ID(", "2"},
	{"#define EMPTY\n#define ID(x) x\nint v = ID(EMPTY);\n", "ID(", ""},
	{"#define TWO 2\n#define SQ(x) ((x)*(x))\n#define ID(x) x\nint v = ID(SQ(TWO));\n", "ID(", "((2)*(2))"},
	{"#define R R + 1\n#define ID(x) x\nint v = ID(R);\n", "ID(", "R+1"},
	{"#define CAT(a, b) a ## b\n#define TWO 2\nint v = CAT(TWO, 1);\n", "CAT(", "TWO1"},
}

func TestScanArguments(t *testing.T) {
	for _, tt := range argumentTests {
		var text string
		matched := false
		s := expand.ObserveMacroExpansions(expand.Location{File: "x.cc", Offset: strings.LastIndex(tt.src, tt.at)}, func(m *expand.MacroMatch) {
			text, matched = m.Text, true
		})
		if err := New(nil).Scan("x.cc", []byte(tt.src), s.MacroExpands); err != nil {
			t.Errorf("Scan(%q): %v", tt.src, err)
			continue
		}
		if !matched || s.Err() != nil {
			t.Errorf("Scan(%q): matched = %v, err = %v", tt.src, matched, s.Err())
			continue
		}
		if text != tt.text {
			t.Errorf("Scan(%q): expansion = %q, want %q", tt.src, text, tt.text)
		}
	}
}

func TestDefine(t *testing.T) {
	p := New(nil)
	for _, def := range []string{"DEBUG", "MUL(a,b)=a*b", "EMPTY="} {
		if err := p.Define(def); err != nil {
			t.Fatalf("Define(%q): %v", def, err)
		}
	}
	got := uses(t, p, "x = MUL(2, DEBUG) EMPTY;")
	want := []string{`MUL["2" "DEBUG"] MUL(2, DEBUG)`, `DEBUG[] DEBUG`, `EMPTY[] EMPTY`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("macro uses (-want +got):\n%s", diff)
	}
	m := p.Lookup("MUL")
	args, err := expand.NewArgMap(m, []string{"2", "DEBUG"})
	if err != nil {
		t.Fatal(err)
	}
	if out, err := expand.RewriteMacro(m, args); err != nil || out != "2*DEBUG" {
		t.Errorf("RewriteMacro(MUL) = %q, %v, want %q", out, err, "2*DEBUG")
	}
	if d := p.Lookup("DEBUG"); len(d.Body) != 1 || d.Body[0].Text != "1" {
		t.Errorf("DEBUG body = %v, want 1", d.Body)
	}

	if err := p.Define("F(x,x)=x"); err == nil {
		t.Errorf("Define accepted duplicate parameter")
	}
}

var scanErrorTests = []struct {
	src string
	msg string
}{
	{"#define F(x, x) x\n", "duplicate macro parameter x"},
	{"#define\n", "macro name missing in #define"},
	{"#define F(x x\n", "expected ',' or ')' in macro parameter list"},
	{"#define F(x\n", "unterminated macro parameter list"},
	{"#define F(..., x) x\n", "variadic parameter must be last"},
	{"#undef\n", "macro name missing in #undef"},
	{"#define F(x) x\nF(1, 2\n", "unterminated argument list invoking macro F"},
}

func TestScanErrors(t *testing.T) {
	for _, tt := range scanErrorTests {
		err := New(nil).Scan("x.cc", []byte(tt.src), func(expand.MacroExpansion) {})
		if err == nil || !strings.Contains(err.Error(), tt.msg) {
			t.Errorf("Scan(%q) = %v, want error containing %q", tt.src, err, tt.msg)
		}
	}
}
