// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpp

import (
	"fmt"
	"maps"
	"strings"

	"go.uber.org/zap"

	"rsc.io/expand/expand"
)

// An Error is a preprocessing error at a byte offset of a file.
type Error struct {
	File   string
	Offset int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:#%d: %s", e.File, e.Offset, e.Msg)
}

// A Preprocessor tracks macro definitions across the files it scans.
type Preprocessor struct {
	macros map[string]*expand.Macro
	log    *zap.Logger
	errs   []error
}

// New returns a Preprocessor with no macros defined.
func New(log *zap.Logger) *Preprocessor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Preprocessor{macros: make(map[string]*expand.Macro), log: log}
}

// Lookup returns the current definition of name, or nil.
func (p *Preprocessor) Lookup(name string) *expand.Macro {
	return p.macros[name]
}

// Define defines a macro the way a -D command-line flag does:
// "NAME" defines NAME as 1, "NAME=body" and "F(x)=body" define
// NAME and F with the given replacement.
func (p *Preprocessor) Define(def string) error {
	name, body, ok := strings.Cut(def, "=")
	if !ok {
		body = "1"
	}
	toks := Lex([]byte("define " + name + " " + body))
	n := len(p.errs)
	p.define("<command line>", toks)
	if len(p.errs) > n {
		err := p.errs[len(p.errs)-1]
		p.errs = p.errs[:n]
		return err
	}
	return nil
}

// Scan scans the file src, updating macro definitions at each
// #define and #undef and calling fn for each macro use.
// A use nested in the arguments of another use is reported after it.
// Scan returns the errors found, if any; scanning continues past them.
func (p *Preprocessor) Scan(file string, src []byte, fn func(expand.MacroExpansion)) error {
	n := len(p.errs)
	p.scan(file, Lex(src), fn, true)
	if len(p.errs) > n {
		return joinErrors(p.errs[n:])
	}
	return nil
}

func (p *Preprocessor) errorf(file string, offset int, format string, args ...interface{}) {
	p.errs = append(p.errs, &Error{File: file, Offset: offset, Msg: fmt.Sprintf(format, args...)})
}

func (p *Preprocessor) scan(file string, toks []Token, fn func(expand.MacroExpansion), top bool) {
	for i := 0; i < len(toks); {
		t := toks[i]
		if top && t.BOL && t.Text == "#" {
			j := i + 1
			for j < len(toks) && !toks[j].BOL {
				j++
			}
			p.directive(file, toks[i+1:j])
			i = j
			continue
		}
		m := p.macros[t.Text]
		if t.Kind != expand.Ident || m == nil {
			i++
			continue
		}
		name := expand.Span{File: file, Lo: t.Pos, Hi: t.End}
		if !m.FunctionLike {
			fn(expand.MacroExpansion{Macro: m, Name: name, Range: name})
			i++
			continue
		}
		if i+1 >= len(toks) || toks[i+1].Text != "(" {
			// A function-like macro name alone is not a use.
			i++
			continue
		}
		args, end := splitArgs(toks, i+1)
		if end < 0 {
			p.errorf(file, t.Pos, "unterminated argument list invoking macro %s", m.Name)
			i++
			continue
		}
		p.log.Debug("macro use", zap.String("macro", m.Name), zap.Int("offset", t.Pos))
		ev := expand.MacroExpansion{
			Macro:    m,
			Name:     name,
			Range:    expand.Span{File: file, Lo: t.Pos, Hi: toks[end].End},
			Args:     make([]string, len(args)),
			Expanded: make([]string, len(args)),
		}
		for k, arg := range args {
			ev.Args[k] = spell(arg)
			ev.Expanded[k] = spell(p.expandTokens(nil, arg, nil, 0))
		}
		fn(ev)
		p.scan(file, toks[i+2:end], fn, false)
		i = end + 1
	}
}

// splitArgs splits the argument list opening at toks[open] into
// the tokens of each argument. It returns the index of the closing
// parenthesis, or -1 if there is none.
func splitArgs(toks []Token, open int) ([][]Token, int) {
	var args [][]Token
	depth := 0
	start := open + 1
	for i := open; i < len(toks); i++ {
		switch toks[i].Text {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return append(args, toks[start:i]), i
			}
		case ",":
			if depth == 1 {
				args = append(args, toks[start:i])
				start = i + 1
			}
		}
	}
	return nil, -1
}

// spell returns the text of toks with a single space wherever
// white space, a comment, or a line break separated two tokens.
func spell(toks []Token) string {
	var b strings.Builder
	for i, t := range toks {
		if i > 0 && (t.Space || t.BOL) {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
	}
	return b.String()
}

// maxDepth bounds the nesting of macro expansions within an argument.
const maxDepth = 200

// expandTokens appends to out the tokens of toks after macro expansion
// with the macros currently defined. Macros named in hide are being
// expanded already and are left alone. A function-like macro whose
// argument list is unterminated is left unexpanded.
func (p *Preprocessor) expandTokens(out, toks []Token, hide map[string]bool, depth int) []Token {
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		m := p.macros[t.Text]
		if t.Kind != expand.Ident || m == nil || hide[t.Text] || depth >= maxDepth {
			out = append(out, t)
			continue
		}
		ev := expand.MacroExpansion{Macro: m}
		end := i
		if m.FunctionLike {
			if i+1 >= len(toks) || toks[i+1].Text != "(" {
				out = append(out, t)
				continue
			}
			var args [][]Token
			if args, end = splitArgs(toks, i+1); end < 0 {
				out = append(out, t)
				continue
			}
			for _, arg := range args {
				ev.Args = append(ev.Args, spell(arg))
				ev.Expanded = append(ev.Expanded, spell(p.expandTokens(nil, arg, hide, depth+1)))
			}
		}
		text, err := p.rewrite(&ev)
		if err != nil {
			p.log.Debug("macro not expanded in argument", zap.String("macro", m.Name), zap.Error(err))
			out = append(out, t)
			continue
		}
		repl := Lex([]byte(text))
		if len(repl) > 0 {
			repl[0].Space, repl[0].BOL = t.Space || t.BOL, false
		}
		inner := maps.Clone(hide)
		if inner == nil {
			inner = make(map[string]bool)
		}
		inner[m.Name] = true
		out = p.expandTokens(out, repl, inner, depth+1)
		i = end
	}
	return out
}

func (p *Preprocessor) rewrite(ev *expand.MacroExpansion) (string, error) {
	args, err := ev.ArgMap()
	if err != nil {
		return "", err
	}
	return expand.RewriteMacro(ev.Macro, args)
}

func (p *Preprocessor) directive(file string, line []Token) {
	if len(line) == 0 {
		return
	}
	switch line[0].Text {
	case "define":
		p.define(file, line)
	case "undef":
		if len(line) < 2 || line[1].Kind != expand.Ident {
			p.errorf(file, line[0].Pos, "macro name missing in #undef")
			return
		}
		delete(p.macros, line[1].Text)
	}
}

// define handles the tokens of a #define line, starting at "define".
func (p *Preprocessor) define(file string, line []Token) {
	if len(line) < 2 || line[1].Kind != expand.Ident {
		p.errorf(file, line[0].Pos, "macro name missing in #define")
		return
	}
	name := line[1]
	m := &expand.Macro{Name: name.Text, Def: expand.CanonicalLocation(file, name.Pos)}
	body := line[2:]
	if len(body) > 0 && body[0].Text == "(" && !body[0].Space {
		m.FunctionLike = true
		i := 1
		seen := make(map[string]bool)
	Params:
		for ; i < len(body); i++ {
			t := body[i]
			switch {
			case t.Text == ")" && len(m.Params) == 0 && !m.Variadic:
				break Params
			case t.Text == "...":
				m.Params = append(m.Params, "__VA_ARGS__")
				m.Variadic = true
				i++
			case t.Kind == expand.Ident:
				if seen[t.Text] {
					p.errorf(file, t.Pos, "duplicate macro parameter %s", t.Text)
					return
				}
				seen[t.Text] = true
				m.Params = append(m.Params, t.Text)
				if i+1 < len(body) && body[i+1].Text == "..." {
					// GNU named variadic parameter.
					m.Variadic = true
					i++
				}
				i++
			default:
				p.errorf(file, t.Pos, "invalid token %s in macro parameter list", t.Text)
				return
			}
			if i >= len(body) {
				break
			}
			switch body[i].Text {
			case ",":
				if m.Variadic {
					p.errorf(file, body[i].Pos, "variadic parameter must be last")
					return
				}
				continue
			case ")":
				break Params
			}
			p.errorf(file, body[i].Pos, "expected ',' or ')' in macro parameter list")
			return
		}
		if i >= len(body) {
			p.errorf(file, name.Pos, "unterminated macro parameter list")
			return
		}
		body = body[i+1:]
	}
	for _, t := range body {
		m.Body = append(m.Body, expand.Token{Kind: t.Kind, Text: t.Text})
	}
	p.macros[m.Name] = m
}

type errorList []error

func (l errorList) Error() string {
	var b strings.Builder
	for i, err := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

func (l errorList) Unwrap() []error {
	return l
}

func joinErrors(errs []error) error {
	return append(errorList(nil), errs...)
}
