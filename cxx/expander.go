// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cxx

import (
	"bytes"
	"context"
	"maps"
	"regexp"
	"slices"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"rsc.io/expand/cpp"
	"rsc.io/expand/edit"
	"rsc.io/expand/expand"
)

// An Expander expands calls and macro uses in C++ source.
type Expander struct {
	// Logger receives debug output. Nil means no logging.
	Logger *zap.Logger

	// Parenthesize wraps arguments other than primary expressions
	// in parentheses before substituting them.
	Parenthesize bool

	// Defines maps macro names, such as "N" or "F(x)",
	// to bodies defined before the file is scanned.
	Defines map[string]string
}

// A Result is the expansion of one call site.
type Result struct {
	Call       expand.Span     // the call expression or macro use
	Stmt       expand.Span     // the source replaced by Text
	Definition expand.Location // the function or macro definition
	Macro      bool            // a macro use was expanded
	Declare    bool            // the fragment declares the call's variable in place
	Original   string          // the source text of Stmt
	Text       string          // the expansion
}

// Splice returns src with the expanded statement replaced by r.Text,
// indented to match the line the statement starts on.
func (r *Result) Splice(src []byte) []byte {
	lo, hi := r.Stmt.Lo, r.Stmt.Hi
	line := src[bytes.LastIndexByte(src[:lo], '\n')+1 : lo]
	indent := line[:len(line)-len(bytes.TrimLeft(line, " \t"))]

	b := edit.NewBuffer(src)
	b.Replace(lo, hi, edit.Indent(r.Text, string(indent)))
	return b.Bytes()
}

func (x *Expander) logger() *zap.Logger {
	if x.Logger == nil {
		return zap.NewNop()
	}
	return x.Logger
}

// Expand expands the macro use or call at offset in the file src.
// A macro use takes precedence over a call.
func (x *Expander) Expand(ctx context.Context, name string, src []byte, offset int) (*Result, error) {
	if offset < 0 || offset > len(src) {
		return nil, xerrors.Errorf("%s: offset %d out of range", name, offset)
	}
	r, err := x.expandMacro(name, src, offset)
	if err != nil || r != nil {
		return r, err
	}
	return x.expandCall(ctx, name, src, offset)
}

func (x *Expander) expandMacro(name string, src []byte, offset int) (*Result, error) {
	log := x.logger()
	p := cpp.New(log)
	for _, def := range slices.Sorted(maps.Keys(x.Defines)) {
		if err := p.Define(def + "=" + x.Defines[def]); err != nil {
			return nil, xerrors.Errorf("defining %s: %w", def, err)
		}
	}

	var match *expand.MacroMatch
	s := expand.ObserveMacroExpansions(expand.Location{File: name, Offset: offset},
		func(m *expand.MacroMatch) { match = m }, expand.WithLogger(log))
	if err := p.Scan(name, src, s.MacroExpands); err != nil {
		var diags ErrorList
		diags.addPreprocessor(err, lineStarts(src))
		log.Warn("preprocessing errors", zap.Int("count", diags.Len()), zap.Error(&diags))
	}
	if err := s.Err(); err != nil {
		return nil, xerrors.Errorf("%s: %w", position(name, lineStarts(src), offset), err)
	}
	if match == nil {
		return nil, nil
	}
	log.Debug("expanded macro", zap.String("macro", match.Macro.Name), zap.Stringer("range", match.Range))
	return &Result{
		Call:       match.Range,
		Stmt:       match.Range,
		Definition: match.Macro.Def,
		Macro:      true,
		Original:   string(src[match.Range.Lo:match.Range.Hi]),
		Text:       match.Text,
	}, nil
}

func (x *Expander) expandCall(ctx context.Context, name string, src []byte, offset int) (*Result, error) {
	log := x.logger()
	f, err := Parse(ctx, name, src)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := f.Diagnostics(); err != nil {
		log.Warn("syntax errors", zap.Error(err))
	}

	c, err := f.findCall(offset)
	if err != nil {
		return nil, err
	}
	d, err := f.resolve(c)
	if err != nil {
		return nil, err
	}
	log.Debug("resolved call",
		zap.String("callee", d.name),
		zap.String("class", d.class),
		zap.Stringer("definition", f.Position(int(d.node.StartByte()))))

	use, err := f.callUse(c)
	if err != nil {
		return nil, err
	}
	params, err := x.params(f, c, d)
	if err != nil {
		return nil, err
	}
	call := &expand.Call{Params: params, Assignee: use.assignee}
	if c.object != nil && !d.static {
		call.Receiver, call.Arrow = f.Text(c.object), c.arrow
		if call.Arrow {
			params["this"] = call.Receiver
		} else {
			params["this"] = "(&" + call.Receiver + ")"
		}
	}

	w := &bodyWalker{
		f:        f,
		body:     d.body,
		params:   make(map[string]bool),
		tparams:  x.templateArgs(f, c, d),
		bareThis: call.Receiver != "",
		keepRets: use.returned,
	}
	for _, p := range d.params {
		if p.name != "" {
			w.params[p.name] = true
		}
	}
	if d.class != "" {
		w.members = f.members(d.class)
	}

	body := expand.Body{Span: f.span(d.body), Nodes: w.nodes()}
	rw, err := expand.RewriteDefinition(body, params, call, expand.WithLogger(log))
	if err != nil {
		return nil, xerrors.Errorf("%s: expanding %s: %w", f.Position(int(c.name.StartByte())), d.name, err)
	}

	reps := rw.Replacements
	declare := rw.Declare && use.decl != ""
	if declare {
		for i, rep := range reps {
			if rep.Span == w.returns[0] {
				reps[i].Text = use.decl + rep.Text
			}
		}
	}
	out, err := expand.Apply(src, body.Span, reps)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSuffix(strings.TrimPrefix(string(out), "{"), "}")
	text = edit.Dedent(text)
	if use.returned {
		if last := lastNamed(d.body); last == nil || last.Type() != "return_statement" {
			// Falling off the end of the body must still leave the caller.
			if text != "" {
				text += "\n"
			}
			text += "return;"
		}
	}
	if use.decl != "" && !declare {
		decl, err := f.predeclaration(use, d, w.tparams)
		if err != nil {
			return nil, err
		}
		text = decl + use.assignee + ";\n" + text
	}

	stmt := f.span(use.stmt)
	return &Result{
		Call:       f.span(c.expr),
		Stmt:       stmt,
		Definition: expand.CanonicalLocation(name, int(d.node.StartByte())),
		Declare:    declare,
		Original:   string(src[stmt.Lo:stmt.Hi]),
		Text:       text,
	}, nil
}

// A callUse describes the statement a call appears in.
type callUse struct {
	stmt       *sitter.Node
	assignee   string       // variable receiving the result, if any
	decl       string       // declaration text before the variable name, as "int " in "int v = f();"
	declarator *sitter.Node // declarator of the variable, when decl is set
	returned   bool         // the statement returns the result
}

func (f *File) callUse(c *callSite) (*callUse, error) {
	n, p := c.expr, c.expr.Parent()
	for p != nil && p.Type() == "parenthesized_expression" {
		n, p = p, p.Parent()
	}
	if p != nil {
		switch p.Type() {
		case "expression_statement":
			return &callUse{stmt: p}, nil

		case "return_statement":
			return &callUse{stmt: p, returned: true}, nil

		case "assignment_expression":
			left, right := p.ChildByFieldName("left"), p.ChildByFieldName("right")
			stmt := p.Parent()
			if same(right, n) && left != nil && stmt != nil && stmt.Type() == "expression_statement" &&
				strings.TrimSpace(string(f.Src[left.EndByte():right.StartByte()])) == "=" {
				return &callUse{stmt: stmt, assignee: f.Text(left)}, nil
			}

		case "init_declarator":
			decl := p.Parent()
			nm := declaredName(p.ChildByFieldName("declarator"))
			if same(p.ChildByFieldName("value"), n) && nm != nil && decl != nil &&
				decl.Type() == "declaration" && declarators(decl) == 1 {
				return &callUse{
					stmt:       decl,
					assignee:   f.Text(nm),
					decl:       string(f.Src[decl.StartByte():nm.StartByte()]),
					declarator: p.ChildByFieldName("declarator"),
				}, nil
			}
		}
	}
	return nil, xerrors.Errorf("%s: %s: %w", f.Position(int(c.expr.StartByte())), f.Text(c.expr), ErrUnsupportedUse)
}

// predeclaration returns the text that declares the call's variable
// ahead of an expansion with several returns, up to the variable name.
// A placeholder type such as auto is replaced by the definition's
// return type, since there is no initializer to deduce it from.
func (f *File) predeclaration(use *callUse, d *definition, tparams map[string]binding) (string, error) {
	fail := func(why string) (string, error) {
		return "", xerrors.Errorf("%s: %s %s: %w", f.Position(int(use.stmt.StartByte())), why, use.assignee, ErrPredeclare)
	}
	switch dcl := use.declarator; dcl.Type() {
	case "reference_declarator":
		return fail("reference")
	case "pointer_declarator":
		for q := range named(dcl) {
			if q.Type() == "type_qualifier" && f.Text(q) == "const" {
				return fail("const")
			}
		}
	default:
		for q := range named(use.stmt) {
			if q.Type() == "type_qualifier" && (f.Text(q) == "const" || f.Text(q) == "constexpr") {
				return fail(f.Text(q))
			}
		}
	}

	typ := use.stmt.ChildByFieldName("type")
	if typ == nil || typ.Type() != "placeholder_type_specifier" {
		return use.decl, nil
	}
	ret := d.node.ChildByFieldName("type")
	if ret == nil || ret.Type() == "placeholder_type_specifier" || use.declarator.Type() != "identifier" {
		return fail("deduced")
	}
	text := f.resultType(d)
	for name, b := range tparams {
		if b.kind != expand.TypeRef {
			continue
		}
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
		if !re.MatchString(text) {
			continue
		}
		if b.value == "" {
			return fail("deduced")
		}
		text = re.ReplaceAllLiteralString(text, b.value)
	}
	lo := int(use.stmt.StartByte())
	return use.decl[:int(typ.StartByte())-lo] + text + use.decl[int(typ.EndByte())-lo:], nil
}

// resultType returns the return type of d as written,
// with any pointer or reference declarator: "const char *" for
// "const char *name() {...}".
func (f *File) resultType(d *definition) string {
	typ := d.node.ChildByFieldName("type")
	name := d.fn.ChildByFieldName("declarator")
	if typ == nil || name == nil {
		return ""
	}
	lo := typ.StartByte()
	for c := range named(d.node) {
		if same(c, typ) {
			break
		}
		if c.Type() == "type_qualifier" {
			lo = min(lo, c.StartByte())
		}
	}
	return strings.TrimSpace(string(f.Src[lo:name.StartByte()]))
}

func declarators(decl *sitter.Node) int {
	typ := decl.ChildByFieldName("type")
	n := 0
	for c := range named(decl) {
		if !same(c, typ) && isDeclarator(c) {
			n++
		}
	}
	return n
}

// primary lists expressions that need no parentheses when substituted.
var primary = map[string]bool{
	"identifier":               true,
	"qualified_identifier":     true,
	"number_literal":           true,
	"string_literal":           true,
	"raw_string_literal":       true,
	"concatenated_string":      true,
	"char_literal":             true,
	"user_defined_literal":     true,
	"true":                     true,
	"false":                    true,
	"null":                     true,
	"nullptr":                  true,
	"this":                     true,
	"parenthesized_expression": true,
	"call_expression":          true,
	"field_expression":         true,
	"subscript_expression":     true,
	"template_function":        true,
	"initializer_list":         true,
}

// arg returns the text substituted for the argument n.
func (x *Expander) arg(f *File, n *sitter.Node) string {
	if !x.Parenthesize || primary[n.Type()] {
		return f.Text(n)
	}
	return "(" + f.Text(n) + ")"
}

func (x *Expander) params(f *File, c *callSite, d *definition) (expand.ParamMap, error) {
	m := make(expand.ParamMap)
	for i, p := range d.params {
		var text string
		switch {
		case i < len(c.args):
			text = x.arg(f, c.args[i])
		case p.def != nil:
			text = x.arg(f, p.def)
		default:
			return nil, xerrors.Errorf("%s: %s: %w", f.Position(int(c.expr.StartByte())), p.name, expand.ErrMissingArg)
		}
		if p.name != "" {
			m[p.name] = text
		}
	}
	return m, nil
}

// templateArgs binds the template parameters of d to the explicit
// arguments of c in order, falling back to the parameters' defaults.
func (x *Expander) templateArgs(f *File, c *callSite, d *definition) map[string]binding {
	binds := make(map[string]binding)
	for i, tp := range d.tparams {
		if tp.name == "" {
			continue
		}
		b := binding{kind: tp.kind}
		var arg *sitter.Node
		switch {
		case i < len(c.targs):
			arg = c.targs[i]
		case tp.def != nil:
			arg = tp.def
		}
		if arg != nil {
			b.value = f.Text(arg)
			if tp.kind == expand.NonTypeParamRef {
				b.value = x.arg(f, arg)
			}
		}
		binds[tp.name] = b
	}
	return binds
}
