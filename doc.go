// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Expand inlines C++ function calls and macro uses.
//
// Usage:
//
//	expand [flags] file.cc:address
//
// Expand finds the function call or macro use at address in file.cc
// and prints the body of its definition, rewritten so that it can
// replace the statement containing the call.
// For example, given
//
//	int clamp(int v, int lo, int hi) {
//		if (v < lo)
//			return lo;
//		if (v > hi)
//			return hi;
//		return v;
//	}
//
//	void f(int n) {
//		int c = clamp(n * 2, 0, 10);
//	}
//
// the command
//
//	expand 'f.cc:/clamp\(n/'
//
// prints
//
//	int c;
//	if ((n * 2) < 0)
//	  c = 0;
//	if ((n * 2) > 10)
//	  c = 10;
//	c = (n * 2);
//
// Parameters are replaced by the call's arguments (parenthesized unless
// the argument is a primary expression), template parameters by the
// explicit template arguments or their defaults, and uses of members
// inside a member function by the corresponding accesses through the
// call's receiver. Return statements become assignments to the
// variable initialized or assigned from the call, or disappear when
// the result is discarded.
//
// A call whose result is used inside a larger expression cannot be
// expanded, nor can a function body with a return statement that is
// not its last statement, unless the result is assigned.
//
// Macro uses are expanded with the preprocessor semantics of the
// macros defined in the file (and on the command line with -D),
// including nested macro uses, stringizing, and token pasting.
//
// # Addresses
//
// The address is written in the syntax used by the sam and acme
// editors: a line number, #offset, /regexp/, or combinations such as
// /clamp/+#6 and /f\(/,/;/. The form line:col is also accepted.
// The expanded call is the one whose name covers the start of the
// addressed range.
//
// # Output
//
// By default expand prints the replacement text.
// The --format flag selects json or yaml to print a report that
// includes the positions of the call, its enclosing statement,
// and the definition. The --diff flag prints a diff of the file
// with the expansion applied, and -w writes it back to the file.
//
// # Configuration
//
// Settings may be kept in a YAML file, .expand.yaml in the current
// directory or the file named by --config:
//
//	format: json
//	color: never
//	parenthesize: false
//	defines:
//	  - DEBUG
//	  - LIMIT=10
//
// Flags given on the command line take precedence over the file.
// Defines from the file come first, so -D can redefine them.
//
// Expand exits with status 2 for usage errors and 1 for other failures.
package main
