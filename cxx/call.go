// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cxx

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/xerrors"

	"rsc.io/expand/expand"
)

// A callSite is a call expression selected for expansion.
type callSite struct {
	expr   *sitter.Node   // call_expression
	name   *sitter.Node   // unqualified callee name
	scope  string         // innermost qualifier, as C in C::f
	object *sitter.Node   // object of o.f() or p->f()
	arrow  bool           // object accessed with ->
	targs  []*sitter.Node // explicit template arguments
	args   []*sitter.Node
}

// findCall returns the innermost call whose callee name covers offset.
func (f *File) findCall(offset int) (*callSite, error) {
	for _, n := range f.SyntaxAt(offset) {
		if n.Type() != "call_expression" {
			continue
		}
		c := &callSite{expr: n}
		c.name = f.callee(n.ChildByFieldName("function"), c)
		if c.name == nil || offset < int(c.name.StartByte()) || int(c.name.EndByte()) <= offset {
			continue
		}
		for a := range named(n.ChildByFieldName("arguments")) {
			c.args = append(c.args, a)
		}
		return c, nil
	}
	return nil, xerrors.Errorf("%s: %w", f.Position(offset), ErrNoCall)
}

// callee returns the name node of the function expression fn,
// recording qualifiers, template arguments, and the object in c.
func (f *File) callee(fn *sitter.Node, c *callSite) *sitter.Node {
	for fn != nil {
		switch fn.Type() {
		case "identifier", "field_identifier", "destructor_name", "operator_name":
			return fn
		case "qualified_identifier":
			if s := fn.ChildByFieldName("scope"); s != nil {
				c.scope = f.typeName(s)
			}
			fn = fn.ChildByFieldName("name")
		case "template_function", "template_method":
			for a := range named(fn.ChildByFieldName("arguments")) {
				c.targs = append(c.targs, a)
			}
			fn = fn.ChildByFieldName("name")
		case "field_expression":
			obj, field := fn.ChildByFieldName("argument"), fn.ChildByFieldName("field")
			if obj == nil || field == nil {
				return nil
			}
			c.object = obj
			c.arrow = strings.Contains(string(f.Src[obj.EndByte():field.StartByte()]), "->")
			fn = field
		case "parenthesized_expression":
			fn = firstNamed(fn)
		default:
			return nil
		}
	}
	return nil
}

// typeName returns the class or namespace name a type or scope node denotes,
// without template arguments or qualifiers.
func (f *File) typeName(n *sitter.Node) string {
	for n != nil {
		switch n.Type() {
		case "template_type", "template_function", "qualified_identifier":
			n = n.ChildByFieldName("name")
		default:
			return f.Text(n)
		}
	}
	return ""
}

// A definition is a function definition found in the file.
type definition struct {
	node     *sitter.Node
	body     *sitter.Node
	fn       *sitter.Node // function_declarator
	name     string
	class    string // class the function is a member of, or qualifying namespace
	ns       string // innermost enclosing namespace
	static   bool
	params   []param
	variadic bool
	tparams  []tparam
}

type param struct {
	name string       // empty for an unnamed parameter
	def  *sitter.Node // default argument
}

type tparam struct {
	name string
	kind expand.NodeKind // TypeRef or NonTypeParamRef
	def  *sitter.Node    // default argument
}

// accepts reports whether d can be called with n arguments.
func (d *definition) accepts(n int) bool {
	required := 0
	for _, p := range d.params {
		if p.def == nil {
			required++
		}
	}
	return required <= n && (n <= len(d.params) || d.variadic)
}

// definitions returns every function definition in f with a body.
func (f *File) definitions() []*definition {
	var defs []*definition
	inspect(f.Root, func(n *sitter.Node) bool {
		if n.Type() == "function_definition" {
			if d := f.definition(n); d != nil {
				defs = append(defs, d)
			}
			return false
		}
		return true
	})
	return defs
}

func (f *File) definition(n *sitter.Node) *definition {
	body := n.ChildByFieldName("body")
	if body == nil || body.Type() != "compound_statement" {
		return nil
	}
	fd := n.ChildByFieldName("declarator")
	for fd != nil && fd.Type() != "function_declarator" {
		next := fd.ChildByFieldName("declarator")
		if next == nil {
			next = firstDeclarator(fd)
		}
		fd = next
	}
	if fd == nil {
		return nil
	}

	d := &definition{node: n, body: body, fn: fd}
	name := fd.ChildByFieldName("declarator")
	for name != nil && name.Type() == "qualified_identifier" {
		if s := name.ChildByFieldName("scope"); s != nil {
			d.class = f.typeName(s)
		}
		name = name.ChildByFieldName("name")
	}
	if name != nil && name.Type() == "template_function" {
		name = name.ChildByFieldName("name")
	}
	if name == nil {
		return nil
	}
	d.name = f.Text(name)

	if d.class == "" {
		if cls := enclosing(n, "class_specifier", "struct_specifier", "union_specifier"); cls != nil {
			d.class = f.typeName(cls.ChildByFieldName("name"))
		}
	}
	if ns := enclosing(n, "namespace_definition"); ns != nil {
		if nm := ns.ChildByFieldName("name"); nm != nil {
			d.ns = f.Text(nm)
		}
	}
	d.static = f.isStatic(n)
	if d.class != "" && !d.static {
		// An out-of-line definition does not repeat "static".
		d.static = f.members(d.class)[d.name]
	}

	f.params(d, fd.ChildByFieldName("parameters"))
	if tpl := n.Parent(); tpl != nil && tpl.Type() == "template_declaration" {
		f.templateParams(d, tpl.ChildByFieldName("parameters"))
	}
	return d
}

func (f *File) params(d *definition, list *sitter.Node) {
	if list == nil {
		return
	}
	for i := 0; i < int(list.ChildCount()); i++ {
		if list.Child(i).Type() == "..." {
			d.variadic = true
		}
	}
	for c := range named(list) {
		switch c.Type() {
		case "parameter_declaration", "optional_parameter_declaration":
			decl := c.ChildByFieldName("declarator")
			if decl == nil && f.Text(c) == "void" {
				continue
			}
			var p param
			if nm := declaredName(decl); nm != nil {
				p.name = f.Text(nm)
			}
			p.def = c.ChildByFieldName("default_value")
			d.params = append(d.params, p)
		case "variadic_parameter_declaration":
			d.variadic = true
		}
	}
}

func (f *File) templateParams(d *definition, list *sitter.Node) {
	for c := range named(list) {
		var tp tparam
		switch c.Type() {
		case "type_parameter_declaration", "variadic_type_parameter_declaration":
			tp.kind = expand.TypeRef
			for nm := range named(c) {
				if nm.Type() == "type_identifier" {
					tp.name = f.Text(nm)
				}
			}
		case "optional_type_parameter_declaration":
			tp.kind = expand.TypeRef
			if nm := c.ChildByFieldName("name"); nm != nil {
				tp.name = f.Text(nm)
			}
			tp.def = c.ChildByFieldName("default_type")
		case "parameter_declaration", "optional_parameter_declaration":
			tp.kind = expand.NonTypeParamRef
			if nm := declaredName(c.ChildByFieldName("declarator")); nm != nil {
				tp.name = f.Text(nm)
			}
			tp.def = c.ChildByFieldName("default_value")
		}
		// Every parameter keeps its position, named or not,
		// so that explicit arguments bind in order.
		d.tparams = append(d.tparams, tp)
	}
}

func (f *File) isStatic(n *sitter.Node) bool {
	for c := range named(n) {
		if c.Type() == "storage_class_specifier" && f.Text(c) == "static" {
			return true
		}
	}
	return false
}

// members returns the members declared in the body of the named class,
// mapped to whether they are static.
func (f *File) members(class string) map[string]bool {
	m := make(map[string]bool)
	inspect(f.Root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "class_specifier", "struct_specifier", "union_specifier":
			body := n.ChildByFieldName("body")
			if body == nil || f.typeName(n.ChildByFieldName("name")) != class {
				return true
			}
			for c := range named(body) {
				f.addMembers(c, m)
			}
			return false
		}
		return true
	})
	return m
}

func (f *File) addMembers(n *sitter.Node, m map[string]bool) {
	switch n.Type() {
	case "template_declaration":
		for c := range named(n) {
			f.addMembers(c, m)
		}
	case "field_declaration", "declaration", "function_definition":
		static := f.isStatic(n)
		typ := n.ChildByFieldName("type")
		for c := range named(n) {
			if same(c, typ) {
				continue
			}
			if nm := declaredName(c); nm != nil && nm.Type() != "type_identifier" {
				m[f.Text(nm)] = static
			}
		}
	}
}

// resolve finds the definition called at c.
func (f *File) resolve(c *callSite) (*definition, error) {
	name := f.Text(c.name)
	caller := ""
	if fn := enclosing(c.expr, "function_definition"); fn != nil {
		if d := f.definition(fn); d != nil {
			caller = d.class
		}
	}

	var cands []*definition
	for _, d := range f.definitions() {
		switch {
		case d.name != name, !d.accepts(len(c.args)):
			continue
		case c.scope != "":
			if d.class != c.scope && d.ns != c.scope {
				continue
			}
		case c.object != nil:
			if d.class == "" {
				continue
			}
		default:
			// An unqualified call reaches free functions and,
			// inside a member function, members of its class.
			if d.class != "" && d.class != caller {
				continue
			}
		}
		cands = append(cands, d)
	}

	if len(cands) > 1 && c.object != nil {
		if typ := f.declaredType(c.object); typ != "" {
			var byType []*definition
			for _, d := range cands {
				if d.class == typ {
					byType = append(byType, d)
				}
			}
			if len(byType) > 0 {
				cands = byType
			}
		}
	}

	pos := f.Position(int(c.name.StartByte()))
	switch len(cands) {
	case 0:
		return nil, xerrors.Errorf("%s: %s: %w", pos, name, ErrNoDefinition)
	case 1:
		return cands[0], nil
	}
	return nil, xerrors.Errorf("%s: %s (%d candidates): %w", pos, name, len(cands), ErrAmbiguous)
}

// declaredType returns the class name of the variable use refers to,
// taken from the nearest declaration of that name before use.
func (f *File) declaredType(use *sitter.Node) string {
	if use.Type() != "identifier" {
		return ""
	}
	name := f.Text(use)
	typ := ""
	inspect(f.Root, func(n *sitter.Node) bool {
		if n.StartByte() >= use.StartByte() {
			return false
		}
		switch n.Type() {
		case "declaration", "parameter_declaration", "optional_parameter_declaration", "field_declaration":
			t := n.ChildByFieldName("type")
			for c := range named(n) {
				if same(c, t) || !isDeclarator(c) {
					continue
				}
				if nm := declaredName(c); nm != nil && f.Text(nm) == name {
					typ = f.typeName(t)
				}
			}
		}
		return true
	})
	return typ
}
