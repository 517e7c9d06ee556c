// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expand

import "fmt"

// A NodeKind identifies the syntax a Node event reports.
type NodeKind int

const (
	_ NodeKind = iota

	// ParamRef is a use of a formal parameter. Name is the parameter.
	ParamRef

	// MemberRef is an access to a field or method of the enclosing
	// class without an explicit object. Name is the member.
	MemberRef

	// ThisRef is an explicit "this->" prefix. Span covers the prefix
	// including the operator.
	ThisRef

	// ReturnStmt is a return statement. Span runs from the return keyword
	// up to, not including, the returned expression; for a bare return it
	// covers the whole statement. HasValue and Last are set.
	ReturnStmt

	// TypeRef is a use of a template type parameter.
	// Value is the concrete type in the current instantiation, if known.
	TypeRef

	// NonTypeParamRef is a use of a non-type template parameter.
	// Value is the substituted literal, if known.
	NonTypeParamRef

	// CaptureRef is a lambda capture of a formal parameter, or of
	// "this" when Name is "this". Value is the capture as written,
	// such as "&x".
	CaptureRef
)

var kindNames = [...]string{
	ParamRef:        "param",
	MemberRef:       "member",
	ThisRef:         "this",
	ReturnStmt:      "return",
	TypeRef:         "type",
	NonTypeParamRef: "nontype",
	CaptureRef:      "capture",
}

func (k NodeKind) String() string {
	if 0 < k && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// A Node is one event of a host's walk over a definition body.
type Node struct {
	Kind NodeKind

	// ID identifies the syntax node across repeated visits.
	// Zero means the span identifies it.
	ID int

	Span  Span
	Name  string
	Value string

	HasValue bool // ReturnStmt: return has an expression
	Last     bool // ReturnStmt: final statement of the body
}

func (n Node) String() string {
	return fmt.Sprintf("%v %s %v", n.Kind, n.Name, n.Span)
}

type nodeKey struct {
	kind NodeKind
	id   int
	span Span
}

func (n Node) key() nodeKey {
	if n.ID != 0 {
		return nodeKey{kind: n.Kind, id: n.ID}
	}
	return nodeKey{kind: n.Kind, span: n.Span}
}
