// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cxx

import (
	"iter"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"rsc.io/expand/expand"
)

// A scope holds the names declared by one block of a body.
type scope struct {
	names map[string]bool
	outer *scope
}

func (s *scope) push() *scope {
	return &scope{outer: s}
}

func (s *scope) declare(name string) {
	if s.names == nil {
		s.names = make(map[string]bool)
	}
	s.names[name] = true
}

func (s *scope) declared(name string) bool {
	for ; s != nil; s = s.outer {
		if s.names[name] {
			return true
		}
	}
	return false
}

type binding struct {
	kind  expand.NodeKind
	value string
}

// A bodyWalker reports the node events of a definition body.
type bodyWalker struct {
	f        *File
	body     *sitter.Node
	params   map[string]bool
	tparams  map[string]binding
	members  map[string]bool
	bareThis bool // report a bare "this" as a use of parameter "this"
	keepRets bool // leave return statements alone; the call's result is returned

	yield   func(expand.Node) bool
	done    bool
	lambda  int
	last    *sitter.Node
	returns []expand.Span
}

// nodes returns the events of the body in source order.
func (w *bodyWalker) nodes() iter.Seq[expand.Node] {
	return func(yield func(expand.Node) bool) {
		w.yield, w.done, w.returns = yield, false, nil
		w.last = lastNamed(w.body)
		w.walk(w.body, new(scope))
	}
}

func (w *bodyWalker) emit(n expand.Node) {
	if !w.done && !w.yield(n) {
		w.done = true
	}
}

func (w *bodyWalker) span(lo, hi uint32) expand.Span {
	return expand.Span{File: w.f.Name, Lo: int(lo), Hi: int(hi)}
}

func (w *bodyWalker) walk(n *sitter.Node, sc *scope) {
	if n == nil || w.done {
		return
	}
	switch n.Type() {
	case "comment", "string_literal", "raw_string_literal", "char_literal",
		"number_literal", "concatenated_string", "lambda_capture_specifier":
		return

	case "compound_statement", "for_statement", "if_statement", "while_statement",
		"switch_statement", "catch_clause":
		sc = sc.push()

	case "lambda_expression":
		inner := sc.push()
		w.captures(n.ChildByFieldName("captures"), sc, inner)
		w.lambda++
		w.children(n, inner)
		w.lambda--
		return

	case "for_range_loop":
		sc = sc.push()
		w.walk(n.ChildByFieldName("type"), sc)
		w.declarator(n.ChildByFieldName("declarator"), sc)
		w.walk(n.ChildByFieldName("right"), sc)
		w.walk(n.ChildByFieldName("body"), sc)
		return

	case "declaration", "parameter_declaration", "optional_parameter_declaration":
		typ, def := n.ChildByFieldName("type"), n.ChildByFieldName("default_value")
		w.walk(typ, sc)
		for c := range named(n) {
			switch {
			case same(c, typ):
			case same(c, def):
				w.walk(c, sc)
			case isDeclarator(c):
				w.declarator(c, sc)
			default:
				w.walk(c, sc)
			}
		}
		return

	case "identifier":
		w.ident(n, sc)
		return

	case "type_identifier", "namespace_identifier":
		name := w.f.Text(n)
		if b, ok := w.tparams[name]; ok && b.kind == expand.TypeRef && !sc.declared(name) {
			w.emit(expand.Node{Kind: expand.TypeRef, Span: w.f.span(n), Name: name, Value: b.value})
		}
		return

	case "this":
		if w.bareThis {
			w.emit(expand.Node{Kind: expand.ParamRef, Span: w.f.span(n), Name: "this"})
		}
		return

	case "field_expression":
		obj, field := n.ChildByFieldName("argument"), n.ChildByFieldName("field")
		if obj != nil && field != nil && obj.Type() == "this" &&
			strings.Contains(string(w.f.Src[obj.EndByte():field.StartByte()]), "->") {
			w.emit(expand.Node{Kind: expand.ThisRef, Span: w.span(obj.StartByte(), field.StartByte()), Name: w.f.Text(field)})
			w.walk(field, sc)
			return
		}

	case "qualified_identifier":
		// Only the qualifier and template arguments can name a template parameter.
		w.walk(n.ChildByFieldName("scope"), sc)
		if name := n.ChildByFieldName("name"); name != nil {
			switch name.Type() {
			case "template_function", "template_type", "qualified_identifier":
				w.walk(name, sc)
			}
		}
		return

	case "return_statement":
		if w.lambda == 0 {
			w.ret(n, sc)
			return
		}
	}
	w.children(n, sc)
}

// captures reports the captures of parameters and "this" in the capture
// list c, evaluated in sc, and declares the captured names in inner.
func (w *bodyWalker) captures(c *sitter.Node, sc, inner *scope) {
	if c == nil {
		return
	}
	capture := func(n, id *sitter.Node) {
		name := w.f.Text(id)
		inner.declare(name)
		if w.params[name] && !sc.declared(name) {
			w.emit(expand.Node{Kind: expand.CaptureRef, Span: w.f.span(n), Name: name, Value: w.f.Text(n)})
		}
	}
	for n := range named(c) {
		switch n.Type() {
		case "identifier":
			capture(n, n)
		case "pointer_expression":
			// &x, or *this.
			switch arg := n.ChildByFieldName("argument"); {
			case arg == nil:
			case arg.Type() == "identifier":
				capture(n, arg)
			case arg.Type() == "this" && w.bareThis:
				w.emit(expand.Node{Kind: expand.CaptureRef, Span: w.f.span(n), Name: "this", Value: w.f.Text(n)})
			}
		case "this":
			if w.bareThis {
				w.emit(expand.Node{Kind: expand.CaptureRef, Span: w.f.span(n), Name: "this", Value: "this"})
			}
		case "assignment_expression":
			// An init-capture x = e declares x; e is evaluated outside.
			left := n.ChildByFieldName("left")
			if left != nil && left.Type() == "pointer_expression" {
				left = left.ChildByFieldName("argument")
			}
			if left != nil && left.Type() == "identifier" {
				inner.declare(w.f.Text(left))
			}
			w.walk(n.ChildByFieldName("right"), sc)
		}
	}
}

func (w *bodyWalker) children(n *sitter.Node, sc *scope) {
	for i := 0; i < int(n.ChildCount()); i++ {
		w.walk(n.Child(i), sc)
	}
}

// declarator declares the names introduced by d in sc
// and walks the expressions inside it.
func (w *bodyWalker) declarator(d *sitter.Node, sc *scope) {
	if d == nil {
		return
	}
	switch d.Type() {
	case "identifier", "field_identifier":
		sc.declare(w.f.Text(d))
	case "init_declarator":
		w.declarator(d.ChildByFieldName("declarator"), sc)
		w.walk(d.ChildByFieldName("value"), sc)
	case "structured_binding_declarator":
		for c := range named(d) {
			if c.Type() == "identifier" {
				sc.declare(w.f.Text(c))
			}
		}
	case "function_declarator":
		w.declarator(d.ChildByFieldName("declarator"), sc)
	case "array_declarator":
		w.declarator(d.ChildByFieldName("declarator"), sc)
		w.walk(d.ChildByFieldName("size"), sc)
	default:
		for c := range named(d) {
			if isDeclarator(c) {
				w.declarator(c, sc)
			} else {
				w.walk(c, sc)
			}
		}
	}
}

func (w *bodyWalker) ident(n *sitter.Node, sc *scope) {
	name := w.f.Text(n)
	if sc.declared(name) {
		return
	}
	node := expand.Node{Span: w.f.span(n), Name: name}
	switch b, ok := w.tparams[name]; {
	case w.params[name]:
		node.Kind = expand.ParamRef
	case ok:
		// A type parameter can appear as an identifier in T(x).
		node.Kind, node.Value = b.kind, b.value
	case w.members[name]:
		node.Kind = expand.MemberRef
	default:
		return
	}
	w.emit(node)
}

func (w *bodyWalker) ret(n *sitter.Node, sc *scope) {
	expr := firstNamed(n)
	if w.keepRets {
		w.walk(expr, sc)
		return
	}
	node := expand.Node{
		Kind: expand.ReturnStmt,
		Span: w.f.span(n),
		Last: same(n, w.last),
	}
	if expr != nil {
		node.HasValue = true
		node.Span.Hi = int(expr.StartByte())
	}
	w.returns = append(w.returns, node.Span)
	w.emit(node)
	w.walk(expr, sc)
}
