// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cxx

import (
	"iter"

	sitter "github.com/smacker/go-tree-sitter"
)

// inspect calls fn for n and then, if fn returns true, for each child of n.
func inspect(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		inspect(n.Child(i), fn)
	}
}

// named returns the named children of n, skipping comments.
func named(n *sitter.Node) iter.Seq[*sitter.Node] {
	return func(yield func(*sitter.Node) bool) {
		if n == nil {
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if c == nil || c.Type() == "comment" {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

func firstNamed(n *sitter.Node) *sitter.Node {
	for c := range named(n) {
		return c
	}
	return nil
}

// lastNamed returns the last named child of n that is not a comment.
func lastNamed(n *sitter.Node) *sitter.Node {
	var last *sitter.Node
	for c := range named(n) {
		last = c
	}
	return last
}

// SyntaxAt returns the syntax nodes enclosing offset, innermost first.
func (f *File) SyntaxAt(offset int) []*sitter.Node {
	var stack []*sitter.Node
	inspect(f.Root, func(n *sitter.Node) bool {
		if offset < int(n.StartByte()) || int(n.EndByte()) <= offset {
			return false
		}
		stack = append(stack, n)
		return true
	})
	for i, j := 0, len(stack)-1; i < j; i, j = i+1, j-1 {
		stack[i], stack[j] = stack[j], stack[i]
	}
	return stack
}

// enclosing returns the nearest ancestor of n with one of the given types.
func enclosing(n *sitter.Node, types ...string) *sitter.Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		for _, t := range types {
			if p.Type() == t {
				return p
			}
		}
	}
	return nil
}

func same(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// declaredName returns the identifier a declarator declares,
// looking through pointer, reference, array, and initializer syntax.
func declaredName(d *sitter.Node) *sitter.Node {
	for d != nil {
		switch d.Type() {
		case "identifier", "field_identifier", "type_identifier",
			"qualified_identifier", "destructor_name", "operator_name":
			return d
		case "init_declarator", "pointer_declarator", "reference_declarator",
			"array_declarator", "function_declarator", "parenthesized_declarator",
			"attributed_declarator", "variadic_declarator",
			"parameter_declaration", "optional_parameter_declaration":
			if c := d.ChildByFieldName("declarator"); c != nil {
				d = c
				continue
			}
			d = firstDeclarator(d)
		default:
			return nil
		}
	}
	return nil
}

func firstDeclarator(n *sitter.Node) *sitter.Node {
	typ := n.ChildByFieldName("type")
	for c := range named(n) {
		if same(c, typ) {
			continue
		}
		switch c.Type() {
		case "identifier", "field_identifier", "qualified_identifier",
			"pointer_declarator", "reference_declarator", "array_declarator",
			"function_declarator", "parenthesized_declarator", "init_declarator",
			"variadic_declarator":
			return c
		}
	}
	return nil
}

// isDeclarator reports whether n is in the declarator position of a declaration.
func isDeclarator(n *sitter.Node) bool {
	switch n.Type() {
	case "identifier", "init_declarator", "pointer_declarator", "reference_declarator",
		"array_declarator", "function_declarator", "parenthesized_declarator",
		"structured_binding_declarator":
		return true
	}
	return false
}
