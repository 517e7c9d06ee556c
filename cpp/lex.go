// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpp is a small C preprocessor front end: it splits source text
// into preprocessing tokens, tracks macro definitions, and reports every
// macro use in source order. It does not expand macros, evaluate
// conditionals, or follow #include.
package cpp

import (
	"bytes"
	"fmt"

	"rsc.io/expand/expand"
)

// A Token is a preprocessing token.
type Token struct {
	Kind  expand.TokenKind
	Text  string
	Pos   int  // byte offset of the first byte
	End   int  // byte offset after the last byte
	Space bool // preceded by white space or a comment
	BOL   bool // first token on its logical line
}

func (t Token) String() string {
	return fmt.Sprintf("%q@%d", t.Text, t.Pos)
}

var puncts = []string{
	// Longest first.
	"...", "<<=", ">>=", "->*", "<=>",
	"##", "->", "++", "--", "<<", ">>", "<=", ">=", "==", "!=",
	"&&", "||", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"::", ".*",
}

// Lex splits src into preprocessing tokens.
// Comments and backslash-newline pairs count as white space;
// newlines inside block comments do not end a line.
func Lex(src []byte) []Token {
	var toks []Token
	bol, space := true, false
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\n':
			bol, space = true, false
			i++
			continue
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			space = true
			i++
			continue
		case c == '\\' && i+1 < len(src) && src[i+1] == '\n':
			space = true
			i += 2
			continue
		case c == '\\' && i+2 < len(src) && src[i+1] == '\r' && src[i+2] == '\n':
			space = true
			i += 3
			continue
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			space = true
			continue
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := bytes.Index(src[i+2:], []byte("*/"))
			if end < 0 {
				i = len(src)
			} else {
				i += 2 + end + 2
			}
			space = true
			continue
		}

		kind, n := lexOne(src[i:])
		toks = append(toks, Token{Kind: kind, Text: string(src[i : i+n]), Pos: i, End: i + n, Space: space, BOL: bol})
		bol, space = false, false
		i += n
	}
	return toks
}

// lexOne returns the kind and length of the token at the start of src.
func lexOne(src []byte) (expand.TokenKind, int) {
	c := src[0]
	switch {
	case isIdentStart(c):
		n := 1
		for n < len(src) && isIdent(src[n]) {
			n++
		}
		if n < len(src) && (src[n] == '"' || src[n] == '\'') {
			switch prefix := string(src[:n]); prefix {
			case "L", "u", "U", "u8":
				kind, m := lexQuoted(src[n:])
				return kind, n + m
			case "R", "LR", "uR", "UR", "u8R":
				if src[n] == '"' {
					return expand.String, n + lexRaw(src[n:])
				}
			}
		}
		return expand.Ident, n

	case isDigit(c) || c == '.' && len(src) > 1 && isDigit(src[1]):
		n := 1
		for n < len(src) {
			switch d := src[n]; {
			case (d == '+' || d == '-') && isExpChar(src[n-1]):
				n++
			case d == '\'' && n+1 < len(src) && isIdent(src[n+1]):
				n += 2
			case isIdent(d) || d == '.':
				n++
			default:
				return expand.Number, n
			}
		}
		return expand.Number, n

	case c == '"' || c == '\'':
		return lexQuoted(src)
	}

	for _, p := range puncts {
		if bytes.HasPrefix(src, []byte(p)) {
			return expand.Punct, len(p)
		}
	}
	if c < 0x80 && c > ' ' && c != '@' && c != '$' && c != '`' {
		return expand.Punct, 1
	}
	return expand.Other, 1
}

// strings4 reports whether c may precede a sign in a pp-number.
func isExpChar(c byte) bool {
	return c == 'e' || c == 'E' || c == 'p' || c == 'P'
}

// lexQuoted lexes a string or character literal starting at src[0].
// An unterminated literal ends at the end of the line.
func lexQuoted(src []byte) (expand.TokenKind, int) {
	q := src[0]
	kind := expand.String
	if q == '\'' {
		kind = expand.Char
	}
	n := 1
	for n < len(src) {
		switch src[n] {
		case '\\':
			n += 2
			continue
		case '\n':
			return kind, n
		case q:
			return kind, n + 1
		}
		n++
	}
	if n > len(src) {
		n = len(src)
	}
	return kind, n
}

// lexRaw lexes a raw string literal R"delim( ... )delim" starting at the quote.
func lexRaw(src []byte) int {
	open := bytes.IndexByte(src, '(')
	if open < 0 {
		_, n := lexQuoted(src)
		return n
	}
	end := []byte(")" + string(src[1:open]) + `"`)
	i := bytes.Index(src[open:], end)
	if i < 0 {
		return len(src)
	}
	return open + i + len(end)
}

func isIdentStart(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c >= 0x80
}

func isIdent(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
