// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"golang.org/x/xerrors"

	"rsc.io/expand/cxx"
	"rsc.io/expand/expand"
)

// errUsage indicates a malformed command line: a bad flag, target, or
// address. Usage errors are independent of the source code being expanded.
type errUsage struct {
	err string
}

func newErrUsage(f string, args ...interface{}) *errUsage {
	return &errUsage{fmt.Sprintf(f, args...)}
}

func (e *errUsage) Error() string {
	return "usage: " + e.err
}

// errPrecondition indicates that the command was well-formed, but the
// source did not allow the expansion. For example, no call was found at the
// address, or the callee's body returns early.
type errPrecondition struct {
	err error
}

func (e *errPrecondition) Error() string {
	return e.err.Error()
}

func (e *errPrecondition) Unwrap() error {
	return e.err
}

// classify wraps the errors of an expansion that stem from the source
// being expanded as precondition errors.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case xerrors.Is(err, cxx.ErrNoCall),
		xerrors.Is(err, cxx.ErrNoDefinition),
		xerrors.Is(err, cxx.ErrAmbiguous),
		xerrors.Is(err, cxx.ErrUnsupportedUse),
		xerrors.Is(err, cxx.ErrPredeclare),
		expand.IsContract(err):
		return &errPrecondition{err}
	}
	return err
}

// exitCode returns the process exit status for err.
func exitCode(err error) int {
	var u *errUsage
	if xerrors.As(err, &u) {
		return 2
	}
	return 1
}
