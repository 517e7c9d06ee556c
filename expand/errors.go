// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expand

import "golang.org/x/xerrors"

var (
	// ErrNoReturn means the result of a call is used
	// but the definition has no return statement with a value.
	ErrNoReturn = xerrors.New("definition has no return statement")

	// ErrBareReturn means a return without a value was found
	// while the result of the call is assigned.
	ErrBareReturn = xerrors.New("return without value in definition whose result is used")

	// ErrEarlyReturn means a return that is not the final statement
	// was found while the result is discarded. The early exit cannot be
	// expressed by inlining the body.
	ErrEarlyReturn = xerrors.New("early return in definition whose result is discarded")

	// ErrUnknownParam means a parameter reference named a parameter
	// missing from the parameter map.
	ErrUnknownParam = xerrors.New("reference to unknown parameter")

	// ErrCaptureThis means a lambda captures "this" in a member function
	// called through an object. The receiver has no name to capture it by.
	ErrCaptureThis = xerrors.New("lambda captures this of a call through an object")

	// ErrMissingArg means a parameter has no argument
	// and no default to take its place.
	ErrMissingArg = xerrors.New("parameter has no argument")

	// ErrArgCount means a macro was invoked with the wrong number of arguments.
	ErrArgCount = xerrors.New("wrong number of macro arguments")

	// ErrStringify means a # operator is not followed by a macro parameter.
	ErrStringify = xerrors.New("'#' is not followed by a macro parameter")

	// ErrPaste means a ## operator appears at either end of a replacement list.
	ErrPaste = xerrors.New("'##' cannot appear at either end of a macro expansion")
)

// A ContractError reports that the inputs to an expansion
// violate its preconditions. The expansion of that call fails;
// retrying with the same inputs cannot succeed.
type ContractError struct {
	Op   string // operation, such as "rewrite returns"
	What string // offending name or position, if any
	Err  error  // one of the Err variables above
}

func (e *ContractError) Error() string {
	if e.What != "" {
		return e.Op + ": " + e.What + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *ContractError) Unwrap() error {
	return e.Err
}

func contractError(op, what string, err error) error {
	return &ContractError{Op: op, What: what, Err: err}
}

// IsContract reports whether err is or wraps a ContractError.
func IsContract(err error) bool {
	var ce *ContractError
	return xerrors.As(err, &ce)
}
