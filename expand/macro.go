// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expand

import (
	"strings"

	"golang.org/x/xerrors"
)

// A TokenKind classifies a preprocessing token.
type TokenKind int

const (
	_ TokenKind = iota
	Ident
	Number
	String
	Char
	Punct
	Other
)

// A Token is a preprocessing token in a macro replacement list.
type Token struct {
	Kind TokenKind
	Text string
}

// A Macro is the definition of a preprocessor macro.
type Macro struct {
	Name string

	// Params lists the parameter names in order. For a variadic macro
	// the last entry is the variadic parameter: __VA_ARGS__, or the
	// name given in the GNU form "name...".
	Params []string

	Body         []Token
	Variadic     bool
	FunctionLike bool

	// Def is the location of the macro name in its #define.
	Def Location
}

func (m *Macro) param(tok Token) (string, bool) {
	if tok.Kind != Ident || !m.FunctionLike {
		return "", false
	}
	for _, p := range m.Params {
		if p == tok.Text {
			return p, true
		}
	}
	return "", false
}

func (m *Macro) variadicParam() string {
	if !m.Variadic || len(m.Params) == 0 {
		return ""
	}
	return m.Params[len(m.Params)-1]
}

// An Arg is the text of one macro argument.
type Arg struct {
	Raw      string // as written at the invocation
	Expanded string // after macro expansion by the host

	// HasExpanded records that Expanded is set even though it may be
	// empty. Without it an empty Expanded means Raw.
	HasExpanded bool
}

func (a Arg) expanded() string {
	if a.HasExpanded || a.Expanded != "" {
		return a.Expanded
	}
	return a.Raw
}

// An ArgMap maps macro parameter names to arguments.
type ArgMap map[string]Arg

// NewArgMap pairs the parameters of m with the raw argument texts of an
// invocation. Arguments beyond the named parameters of a variadic macro
// are joined into its variadic parameter.
func NewArgMap(m *Macro, args []string) (ArgMap, error) {
	texts, err := pairArgs(m, args)
	if err != nil {
		return nil, err
	}
	am := make(ArgMap, len(texts))
	for p, text := range texts {
		am[p] = Arg{Raw: text}
	}
	return am, nil
}

func pairArgs(m *Macro, args []string) (map[string]string, error) {
	texts := make(map[string]string)
	if !m.FunctionLike {
		return texts, nil
	}
	fixed := len(m.Params)
	if m.Variadic {
		fixed--
	}
	if len(m.Params) == 0 && len(args) == 1 && strings.TrimSpace(args[0]) == "" {
		// F() for #define F() ...
		args = nil
	}
	switch {
	case m.Variadic && len(args) < fixed,
		!m.Variadic && len(args) != fixed:
		return nil, contractError("macro "+m.Name, "", ErrArgCount)
	}
	for i, p := range m.Params[:fixed] {
		texts[p] = strings.TrimSpace(args[i])
	}
	if m.Variadic {
		var rest []string
		for _, a := range args[fixed:] {
			rest = append(rest, strings.TrimSpace(a))
		}
		texts[m.variadicParam()] = strings.Join(rest, ", ")
	}
	return texts, nil
}

// RewriteMacro renders the replacement list of m with args substituted
// for its parameters, applying the # and ## operators.
// Object-like macros are spelled out as defined.
func RewriteMacro(m *Macro, args ArgMap) (string, error) {
	if !m.FunctionLike {
		var pieces []string
		for _, tok := range m.Body {
			pieces = append(pieces, tok.Text)
		}
		return join(pieces), nil
	}
	pieces, err := subst(m, m.Body, args)
	if err != nil {
		return "", err
	}
	return join(pieces), nil
}

// subst substitutes args into toks, returning the output spellings.
// A spelling produced by ## may hold what used to be several tokens.
func subst(m *Macro, toks []Token, args ArgMap) ([]string, error) {
	op := "macro " + m.Name
	arg := func(name string) (Arg, error) {
		a, ok := args[name]
		if !ok {
			return Arg{}, contractError(op, name, ErrMissingArg)
		}
		return a, nil
	}
	raw := func(tok Token) (string, error) {
		if name, ok := m.param(tok); ok {
			a, err := arg(name)
			return a.Raw, err
		}
		return tok.Text, nil
	}

	var out []string
	for i := 0; i < len(toks); i++ {
		tok := toks[i]

		// # param
		if tok.Kind == Punct && tok.Text == "#" {
			if i+1 >= len(toks) {
				return nil, contractError(op, "", ErrStringify)
			}
			name, ok := m.param(toks[i+1])
			if !ok {
				return nil, contractError(op, toks[i+1].Text, ErrStringify)
			}
			a, err := arg(name)
			if err != nil {
				return nil, err
			}
			out = append(out, stringize(a.Raw))
			i++
			continue
		}

		// [GNU] , ## __VA_ARGS__ drops the comma when __VA_ARGS__ is empty.
		if tok.Text == "," && i+2 < len(toks) && toks[i+1].Text == "##" {
			if name, ok := m.param(toks[i+2]); ok && name == m.variadicParam() {
				a, err := arg(name)
				if err != nil {
					return nil, err
				}
				if a.Raw != "" {
					out = append(out, ",", a.Raw)
				}
				i += 2
				continue
			}
		}

		if tok.Kind == Punct && tok.Text == "##" {
			if i == 0 || i+1 >= len(toks) {
				return nil, contractError(op, "", ErrPaste)
			}
			rhs, err := raw(toks[i+1])
			if err != nil {
				return nil, err
			}
			if len(out) == 0 {
				out = append(out, "")
			}
			out[len(out)-1] += rhs
			i++
			continue
		}

		// __VA_OPT__(x) is x when the variadic argument is non-empty.
		if tok.Kind == Ident && tok.Text == "__VA_OPT__" && m.Variadic && i+1 < len(toks) && toks[i+1].Text == "(" {
			j := closeParen(toks, i+1)
			if j < 0 {
				return nil, xerrors.Errorf("%s: unterminated __VA_OPT__", op)
			}
			a, err := arg(m.variadicParam())
			if err != nil {
				return nil, err
			}
			if a.Raw != "" {
				inner, err := subst(m, toks[i+2:j], args)
				if err != nil {
					return nil, err
				}
				out = append(out, inner...)
			}
			i = j
			continue
		}

		if name, ok := m.param(tok); ok {
			a, err := arg(name)
			if err != nil {
				return nil, err
			}
			if i+1 < len(toks) && toks[i+1].Text == "##" {
				// Operands of ## are not expanded.
				out = append(out, a.Raw)
			} else {
				out = append(out, a.expanded())
			}
			continue
		}

		out = append(out, tok.Text)
	}
	return out, nil
}

// closeParen returns the index of the parenthesis closing toks[open],
// or -1.
func closeParen(toks []Token, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch toks[i].Text {
		case "(":
			depth++
		case ")":
			if depth--; depth == 0 {
				return i
			}
		}
	}
	return -1
}

// stringize returns the string literal for an argument:
// white space outside literals collapses to one space,
// and quotes and backslashes are escaped.
func stringize(text string) string {
	text = strings.TrimSpace(text)
	var b strings.Builder
	b.WriteByte('"')
	var q byte
	space := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if q == 0 && isSpace(c) {
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		switch {
		case q == 0 && (c == '"' || c == '\''):
			q = c
		case q != 0 && c == '\\' && i+1 < len(text):
			// Keep an escape sequence inside a literal together.
			b.WriteString(`\\`)
			i++
			c = text[i]
		case q != 0 && c == q:
			q = 0
		}
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// join concatenates spellings, separating two of them by a space
// only where they would otherwise run together into different tokens.
func join(pieces []string) string {
	var b strings.Builder
	prev := ""
	for _, p := range pieces {
		if p == "" {
			continue
		}
		if prev != "" && needSpace(prev, p) {
			b.WriteByte(' ')
		}
		b.WriteString(p)
		prev = p
	}
	return b.String()
}

// punctPairs lists two-character sequences that would lex as one token
// (or open a comment) if split across two spellings.
var punctPairs = map[string]bool{
	"++": true, "--": true, "->": true, "<<": true, ">>": true,
	"<=": true, ">=": true, "==": true, "!=": true, "&&": true,
	"||": true, "+=": true, "-=": true, "*=": true, "/=": true,
	"%=": true, "&=": true, "|=": true, "^=": true, "##": true,
	"::": true, "//": true, "/*": true, ".*": true, "..": true,
	"<:": true, "<%": true, "%:": true, "%>": true, ":>": true,
}

func needSpace(prev, next string) bool {
	x, y := prev[len(prev)-1], next[0]
	switch {
	case isIdentByte(x) && (isIdentByte(y) || y == '"' || y == '\''):
		return true
	case x == '.' && '0' <= y && y <= '9':
		return true
	}
	return punctPairs[string([]byte{x, y})]
}

func isIdentByte(c byte) bool {
	return c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c >= 0x80
}
