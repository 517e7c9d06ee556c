// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expand

import (
	"iter"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"rsc.io/expand/edit"
)

// ErrOutsideBody means a node event lies outside the body being rewritten.
var ErrOutsideBody = xerrors.New("node outside definition body")

// A Rewriter turns a definition body into text valid at a call site.
//
// A Rewriter is used for a single pass: the host reports every node of
// the body with Visit (or Walk), then calls RewriteReturnsToAssignments
// once, then collects Replacements. The parameter map and call are only
// read, never modified.
type Rewriter struct {
	params ParamMap
	call   *Call
	log    *zap.Logger

	edits   map[string]*edit.Buffer
	seen    map[nodeKey]bool
	returns []Node
}

// NewRewriter returns a Rewriter substituting params and qualifying
// members according to call.
func NewRewriter(params ParamMap, call *Call, opts ...Option) *Rewriter {
	o := newOptions(opts)
	if call == nil {
		call = new(Call)
	}
	return &Rewriter{
		params: params,
		call:   call,
		log:    o.log,
		edits:  make(map[string]*edit.Buffer),
		seen:   make(map[nodeKey]bool),
	}
}

// Visit handles a single node event.
func (r *Rewriter) Visit(n Node) error {
	key := n.key()
	if r.seen[key] {
		// Some walkers reach the same node more than once.
		r.log.Debug("node visited again", zap.Stringer("node", n))
		return nil
	}
	r.seen[key] = true

	switch n.Kind {
	default:
		return xerrors.Errorf("visit %v: unknown node kind", n)

	case ParamRef:
		text, ok := r.params[n.Name]
		if !ok {
			return contractError("rewrite parameter", n.Name, ErrUnknownParam)
		}
		r.replace(n.Span, text)

	case MemberRef:
		if r.call.Receiver != "" {
			r.replace(n.Span, r.call.qualify(n.Name))
		}

	case ThisRef:
		if r.call.Receiver != "" {
			r.replace(n.Span, r.call.qualify(""))
		}

	case CaptureRef:
		// A parameter becomes a variable of the lambda
		// initialized with the argument: [x] is [x = arg].
		if n.Name == "this" {
			if r.call.Receiver != "" {
				return contractError("rewrite capture", n.Span.String(), ErrCaptureThis)
			}
			return nil
		}
		text, ok := r.params[n.Name]
		if !ok {
			return contractError("rewrite capture", n.Name, ErrUnknownParam)
		}
		capture := n.Value
		if capture == "" {
			capture = n.Name
		}
		r.replace(n.Span, capture+" = "+text)

	case ReturnStmt:
		r.returns = append(r.returns, n)

	case TypeRef, NonTypeParamRef:
		if n.Value != "" {
			r.replace(n.Span, n.Value)
		}
	}
	return nil
}

// Walk visits each node in nodes, stopping at the first error.
func (r *Rewriter) Walk(nodes iter.Seq[Node]) error {
	for n := range nodes {
		if err := r.Visit(n); err != nil {
			return err
		}
	}
	return nil
}

func (r *Rewriter) replace(span Span, text string) {
	b := r.edits[span.File]
	if b == nil {
		b = edit.NewBuffer(nil)
		r.edits[span.File] = b
	}
	if !b.Replace(span.Lo, span.Hi, text) {
		r.log.Debug("dropped overlapping replacement",
			zap.Stringer("span", span), zap.String("text", text))
	}
}

// RewriteReturnsToAssignments rewrites the return statements recorded
// during the walk. It must be called once, after the walk.
//
// When the call has an assignee, every "return expr;" becomes
// "assignee = expr;". The result reports whether exactly one return was
// rewritten, in which case the caller may declare the assignee in place
// ("T assignee = expr;"); with several returns the caller must declare the
// assignee once before the fragment. A body with no return, or with a
// return lacking a value, violates the call's contract.
//
// When the result is discarded, the return keywords are deleted. A bare
// return is deleted only if it is the final statement.
func (r *Rewriter) RewriteReturnsToAssignments() (declare bool, err error) {
	const op = "rewrite returns"
	returns := r.returns
	r.returns = nil

	if r.call.Assignee == "" {
		for _, ret := range returns {
			if !ret.HasValue && !ret.Last {
				return false, contractError(op, ret.Span.String(), ErrEarlyReturn)
			}
		}
		for _, ret := range returns {
			r.replace(ret.Span, "")
		}
		return false, nil
	}

	if len(returns) == 0 {
		return false, contractError(op, r.call.Assignee, ErrNoReturn)
	}
	for _, ret := range returns {
		if !ret.HasValue {
			return false, contractError(op, ret.Span.String(), ErrBareReturn)
		}
	}
	for _, ret := range returns {
		r.replace(ret.Span, r.call.Assignee+" = ")
	}
	return len(returns) == 1, nil
}

// Replacements returns the accepted replacements ordered by file and offset.
func (r *Rewriter) Replacements() []Replacement {
	files := make([]string, 0, len(r.edits))
	for file := range r.edits {
		files = append(files, file)
	}
	sort.Strings(files)

	var reps []Replacement
	for _, file := range files {
		for _, e := range r.edits[file].Edits() {
			reps = append(reps, Replacement{Span: Span{File: file, Lo: e.Start, Hi: e.End}, Text: e.New})
		}
	}
	return reps
}

// A Body is a definition body as seen by a host walker.
type Body struct {
	Span  Span
	Nodes iter.Seq[Node]
}

// A Rewrite is the outcome of rewriting one definition.
type Rewrite struct {
	Replacements []Replacement

	// Declare reports that exactly one return was turned into an
	// assignment, so the assignee can be declared at that assignment.
	Declare bool
}

// RewriteDefinition rewrites body for the given call:
// it walks the body, rewrites its returns, and returns the replacements.
func RewriteDefinition(body Body, params ParamMap, call *Call, opts ...Option) (*Rewrite, error) {
	r := NewRewriter(params, call, opts...)
	for n := range body.Nodes {
		if n.Span.File != body.Span.File || n.Span.Lo < body.Span.Lo || n.Span.Hi > body.Span.Hi {
			return nil, contractError("rewrite definition", n.String(), ErrOutsideBody)
		}
		if err := r.Visit(n); err != nil {
			return nil, err
		}
	}
	declare, err := r.RewriteReturnsToAssignments()
	if err != nil {
		return nil, err
	}
	return &Rewrite{Replacements: r.Replacements(), Declare: declare}, nil
}

// Apply applies reps to the text of span within src,
// the full contents of span's file, and returns the rewritten text of span.
func Apply(src []byte, span Span, reps []Replacement) ([]byte, error) {
	if span.Lo < 0 || span.Hi > len(src) || span.Hi < span.Lo {
		return nil, xerrors.Errorf("apply: span %v outside source of %d bytes", span, len(src))
	}
	var edits []edit.Edit
	for _, rep := range reps {
		if rep.Span.File != span.File {
			continue
		}
		edits = append(edits, edit.Edit{Start: rep.Span.Lo, End: rep.Span.Hi, New: rep.Text})
	}
	out, err := edit.Apply(src[span.Lo:span.Hi], span.Lo, edits)
	if err != nil {
		return nil, xerrors.Errorf("apply: %w", err)
	}
	return out, nil
}
