// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expand

import (
	"strings"
	"testing"

	"golang.org/x/xerrors"
)

// toks splits a space-separated replacement list into tokens.
func toks(s string) []Token {
	var list []Token
	for _, f := range strings.Fields(s) {
		kind := Punct
		switch c := f[0]; {
		case c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
			kind = Ident
		case '0' <= c && c <= '9':
			kind = Number
		case c == '"':
			kind = String
		case c == '\'':
			kind = Char
		}
		list = append(list, Token{Kind: kind, Text: f})
	}
	return list
}

func fn(name string, params []string, body string) *Macro {
	m := &Macro{Name: name, Params: params, Body: toks(body), FunctionLike: true}
	if n := len(params); n > 0 && (params[n-1] == "__VA_ARGS__" || strings.HasSuffix(name, "V")) {
		m.Variadic = true
	}
	return m
}

var rewriteMacroTests = []struct {
	macro *Macro
	args  []string
	out   string
}{
	{fn("S", []string{"x"}, "# x"), []string{"a+b"}, `"a+b"`},
	{fn("S", []string{"x"}, "# x"), []string{`say "hi\n"`}, `"say \"hi\\n\""`},
	{fn("S", []string{"x"}, "# x"), []string{"  a   +\n b "}, `"a + b"`},
	{fn("S", []string{"x"}, "# x"), []string{`'\\'`}, `"'\\\\'"`},
	{fn("CAT", []string{"a", "b"}, "a ## b"), []string{"foo", "bar"}, "foobar"},
	{fn("CAT3", []string{"a", "b", "c"}, "a ## b ## c"), []string{"x", "y", "z"}, "xyz"},
	{fn("PFX", []string{"n"}, "get_ ## n ( )"), []string{"size"}, "get_size()"},
	{fn("SQUARE", []string{"x"}, "( ( x ) * ( x ) )"), []string{"a+1"}, "((a+1)*(a+1))"},
	{fn("MAX", []string{"a", "b"}, "( ( a ) > ( b ) ? ( a ) : ( b ) )"), []string{"x", " y"}, "((x)>(y)?(x):(y))"},
	{fn("DECL", []string{"t", "n"}, "t n ;"), []string{"unsigned int", "count"}, "unsigned int count;"},
	{fn("NEG", []string{"x"}, "- x"), []string{"-1"}, "- -1"},
	{fn("STR", []string{"x"}, "L # x"), []string{"w"}, `L "w"`},
	{fn("NOW", nil, "time ( 0 )"), []string{""}, "time(0)"},
	{fn("LOG", []string{"fmt", "__VA_ARGS__"}, "printf ( fmt , __VA_ARGS__ )"), []string{`"%d %d"`, "a", " b"}, `printf("%d %d",a, b)`},
	{fn("ELOG", []string{"fmt", "__VA_ARGS__"}, "printf ( fmt , ## __VA_ARGS__ )"), []string{`"x"`}, `printf("x")`},
	{fn("ELOG", []string{"fmt", "__VA_ARGS__"}, "printf ( fmt , ## __VA_ARGS__ )"), []string{`"%d"`, "n"}, `printf("%d",n)`},
	{fn("OPT", []string{"f", "__VA_ARGS__"}, "f ( 0 __VA_OPT__ ( , __VA_ARGS__ ) )"), []string{"g"}, "g(0)"},
	{fn("OPT", []string{"f", "__VA_ARGS__"}, "f ( 0 __VA_OPT__ ( , __VA_ARGS__ ) )"), []string{"g", "1", "2"}, "g(0,1, 2)"},
	{fn("GNUV", []string{"args"}, "f ( args )"), []string{"1", "2"}, "f(1, 2)"},
	{&Macro{Name: "NULLP", Body: toks("( void * ) 0")}, nil, "(void*)0"},
	{&Macro{Name: "EMPTY"}, nil, ""},
	{&Macro{Name: "HASH", Body: toks("# x")}, nil, "#x"},
}

func TestRewriteMacro(t *testing.T) {
	for _, tt := range rewriteMacroTests {
		args, err := NewArgMap(tt.macro, tt.args)
		if err != nil {
			t.Errorf("NewArgMap(%s, %q): %v", tt.macro.Name, tt.args, err)
			continue
		}
		out, err := RewriteMacro(tt.macro, args)
		if err != nil {
			t.Errorf("RewriteMacro(%s, %q): %v", tt.macro.Name, tt.args, err)
			continue
		}
		if out != tt.out {
			t.Errorf("RewriteMacro(%s, %q) = %s, want %s", tt.macro.Name, tt.args, out, tt.out)
		}
	}
}

func TestRewriteMacroExpandedArgs(t *testing.T) {
	m := fn("F", []string{"x"}, "g ( x ) ; x ## _t")
	args := ArgMap{"x": {Raw: "A", Expanded: "42"}}
	out, err := RewriteMacro(m, args)
	if err != nil {
		t.Fatal(err)
	}
	// Operands of ## use the argument as written.
	if want := "g(42);A_t"; out != want {
		t.Errorf("RewriteMacro = %s, want %s", out, want)
	}
}

var macroErrorTests = []struct {
	macro *Macro
	args  ArgMap
	err   error
}{
	{fn("F", []string{"x"}, "x + 1"), ArgMap{}, ErrMissingArg},
	{fn("F", []string{"x"}, "# y"), ArgMap{"x": {Raw: "1"}}, ErrStringify},
	{fn("F", []string{"x"}, "x #"), ArgMap{"x": {Raw: "1"}}, ErrStringify},
	{fn("F", []string{"x"}, "## x"), ArgMap{"x": {Raw: "1"}}, ErrPaste},
	{fn("F", []string{"x"}, "x ##"), ArgMap{"x": {Raw: "1"}}, ErrPaste},
}

func TestRewriteMacroErrors(t *testing.T) {
	for _, tt := range macroErrorTests {
		_, err := RewriteMacro(tt.macro, tt.args)
		if !xerrors.Is(err, tt.err) || !IsContract(err) {
			t.Errorf("RewriteMacro(%v) err = %v, want %v", tt.macro.Body, err, tt.err)
		}
	}
}

var argCountTests = []struct {
	macro *Macro
	args  []string
	ok    bool
}{
	{fn("F", []string{"x"}, "x"), []string{"1"}, true},
	{fn("F", []string{"x"}, "x"), []string{"1", "2"}, false},
	{fn("F", []string{"x", "y"}, "x"), []string{"1"}, false},
	{fn("F", nil, "0"), nil, true},
	{fn("F", nil, "0"), []string{"1"}, false},
	{fn("L", []string{"x", "__VA_ARGS__"}, "x"), []string{"1"}, true},
	{fn("L", []string{"x", "__VA_ARGS__"}, "x"), []string{"1", "2", "3"}, true},
	{fn("L", []string{"x", "__VA_ARGS__"}, "x"), nil, false},
}

func TestArgCount(t *testing.T) {
	for _, tt := range argCountTests {
		_, err := NewArgMap(tt.macro, tt.args)
		if ok := err == nil; ok != tt.ok {
			t.Errorf("NewArgMap(%s%v, %q) err = %v, want ok=%v", tt.macro.Name, tt.macro.Params, tt.args, err, tt.ok)
		}
		if err != nil && !xerrors.Is(err, ErrArgCount) {
			t.Errorf("NewArgMap(%s%v, %q) err = %v, want %v", tt.macro.Name, tt.macro.Params, tt.args, err, ErrArgCount)
		}
	}
}
