// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"strings"
	"testing"

	"rsc.io/expand/cxx"
	"rsc.io/expand/expand"
)

const outputSrc = "int sq(int);\nint v = sq(2);\n"

var outputResult = &cxx.Result{
	Call:       expand.Span{File: "a.cc", Lo: 21, Hi: 26},
	Stmt:       expand.Span{File: "a.cc", Lo: 13, Hi: 27},
	Definition: expand.CanonicalLocation("./a.cc", 4),
	Declare:    true,
	Original:   "sq(2)",
	Text:       "int v = 2 * 2;",
}

func TestPrintYAML(t *testing.T) {
	var out bytes.Buffer
	c := &command{stdout: &out, format: "yaml"}
	if err := c.printResult("a.cc", []byte(outputSrc), outputResult); err != nil {
		t.Fatal(err)
	}
	want := `file: a.cc
call:
  line: 2
  column: 9
  offset: 21
statement:
  line: 2
  column: 1
  offset: 13
definition:
  line: 1
  column: 5
  offset: 4
macro: false
declare: true
original: sq(2)
text: int v = 2 * 2;
`
	if out.String() != want {
		t.Errorf("yaml output:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestReportCommandLineMacro(t *testing.T) {
	r := *outputResult
	r.Macro = true
	r.Definition = expand.Location{}
	if rep := newReport("a.cc", []byte(outputSrc), &r); rep.Definition != nil {
		t.Errorf("definition = %+v, want none", *rep.Definition)
	}
}

const colorDiff = `--- a.cc
+++ a.cc
@@ -1,2 +1,2 @@
 int sq(int);
-int v = sq(2);
+int v = 2 * 2;
`

func TestPrintDiff(t *testing.T) {
	var out bytes.Buffer
	c := &command{stdout: &out, color: "never"}
	c.printDiff([]byte(colorDiff))
	if out.String() != colorDiff {
		t.Errorf("uncolored diff:\n%s\nwant:\n%s", out.String(), colorDiff)
	}

	out.Reset()
	c.color = "always"
	c.printDiff([]byte(colorDiff))
	if !strings.Contains(out.String(), "\x1b[") {
		t.Errorf("colored diff has no escapes:\n%q", out.String())
	}
	if !strings.Contains(out.String(), "+int v = 2 * 2;") {
		t.Errorf("colored diff lost text:\n%q", out.String())
	}
}
