// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cxx

import (
	"fmt"
	"go/token"
	"sort"
	"strings"

	"golang.org/x/xerrors"

	"rsc.io/expand/cpp"
)

var (
	// ErrNoCall means no call expression names the requested offset.
	ErrNoCall = xerrors.New("no call at offset")

	// ErrNoDefinition means the callee's definition is not in the file.
	ErrNoDefinition = xerrors.New("definition not found")

	// ErrAmbiguous means more than one definition matches the call.
	ErrAmbiguous = xerrors.New("ambiguous call")

	// ErrPredeclare means the call's variable must be declared ahead of
	// the expansion but cannot be declared without an initializer:
	// it is const, a reference, or its type is deduced from the call.
	ErrPredeclare = xerrors.New("cannot declare variable ahead of expansion")

	// ErrUnsupportedUse means the call's result is used in a way
	// that a statement-level expansion cannot express.
	ErrUnsupportedUse = xerrors.New("call result used inside an expression")
)

// An Error is an error at a particular source position.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return e.Msg
}

type errorKey struct {
	pos token.Position
	msg string
}

// ErrorList is a set of Errors. It is also an error itself. The zero value is
// an empty list, ready to use.
type ErrorList struct {
	errs []*Error
	set  map[errorKey]bool
}

// Add adds an error to l. An *Error keeps its position; an ErrorList or a
// list of joined errors is merged; anything else is added with no position.
// Duplicate errors (same position and message) are suppressed.
func (l *ErrorList) Add(err error) {
	var e *Error

	switch err := err.(type) {
	case nil:
		return

	case *ErrorList:
		for _, e := range err.errs {
			l.Add(e)
		}
		return

	case *Error:
		e = err

	case interface{ Unwrap() []error }:
		for _, e := range err.Unwrap() {
			l.Add(e)
		}
		return

	default:
		e = &Error{token.Position{}, err.Error()}
	}

	k := errorKey{e.Pos, e.Msg}
	if !l.set[k] {
		if l.set == nil {
			l.set = make(map[errorKey]bool)
		}
		l.errs = append(l.errs, e)
		l.set[k] = true
	}
}

// Len returns the number of errors in l.
func (l *ErrorList) Len() int {
	return len(l.errs)
}

// Error sorts, deduplicates, and returns a "\n" separated list of formatted
// errors. Note that the result does not end in "\n" because the caller is
// expected to add that.
func (l *ErrorList) Error() string {
	if len(l.errs) == 0 {
		return "no errors"
	}

	sort.SliceStable(l.errs, func(i, j int) bool {
		p1, p2 := l.errs[i].Pos, l.errs[j].Pos
		if p1.Filename != p2.Filename {
			return p1.Filename < p2.Filename
		}
		return p1.Offset < p2.Offset
	})

	// Collapse a message repeated at many positions: a single unbalanced
	// brace can leave a long trail of recovery errors behind it.
	count := make(map[string]int)
	for _, e := range l.errs {
		count[e.Msg]++
	}

	buf := new(strings.Builder)
	for _, e := range l.errs {
		msg := e.Msg
		switch {
		case count[msg] > 3:
			n := count[e.Msg]
			count[e.Msg] = -1
			msg += fmt.Sprintf(" [× %d]", n)

		case count[msg] < 0:
			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}

		if e.Pos.IsValid() {
			fmt.Fprintf(buf, "%s: %s", e.Pos, msg)
		} else {
			fmt.Fprintf(buf, "%s", msg)
		}
	}
	return buf.String()
}

// Err returns an error equivalent to this error list.
// If the list is empty, Err returns nil.
func (l *ErrorList) Err() error {
	if len(l.errs) == 0 {
		return nil
	}
	return l
}

// addPreprocessor adds the errors of a preprocessor scan of the file
// with the given line table.
func (l *ErrorList) addPreprocessor(err error, lines []int) {
	if u, ok := err.(interface{ Unwrap() []error }); ok {
		for _, err := range u.Unwrap() {
			l.addPreprocessor(err, lines)
		}
		return
	}
	var pe *cpp.Error
	if xerrors.As(err, &pe) {
		l.Add(&Error{Pos: position(pe.File, lines, pe.Offset), Msg: pe.Msg})
		return
	}
	l.Add(err)
}
