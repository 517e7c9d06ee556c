// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package edit implements buffered position-based editing of byte slices.
//
// Edits are recorded against the original text and applied all at once,
// so offsets never shift as edits accumulate. Unlike a plain edit queue,
// a Buffer refuses an edit that overlaps one already recorded:
// the first writer wins.
package edit

import (
	"fmt"
	"sort"
	"strings"
)

// An Edit replaces old[Start:End] with New.
type Edit struct {
	Start int
	End   int
	New   string
}

func (e Edit) String() string {
	return fmt.Sprintf("[%d,%d)%q", e.Start, e.End, e.New)
}

// overlaps reports whether e and x touch the same bytes.
// Two insertions at the same offset overlap;
// an insertion at the boundary of a replacement does not.
func (e Edit) overlaps(x Edit) bool {
	if e.Start == e.End && x.Start == x.End {
		return e.Start == x.Start
	}
	return e.Start < x.End && x.Start < e.End
}

// A Buffer is a queue of edits to apply to a given byte slice.
// The byte slice may be nil when only the edit list is wanted.
type Buffer struct {
	old []byte
	q   []Edit
}

// NewBuffer returns a new buffer to accumulate changes to an initial data slice.
// The returned buffer maintains a reference to the data, so the caller must
// ensure the data is not modified until after the Buffer is done being used.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{old: data}
}

// Insert inserts new at offset pos.
// It reports whether the edit was recorded.
func (b *Buffer) Insert(pos int, new string) bool {
	return b.Replace(pos, pos, new)
}

// Delete deletes old[start:end].
func (b *Buffer) Delete(start, end int) bool {
	return b.Replace(start, end, "")
}

// Replace replaces old[start:end] with new.
// It reports whether the edit was recorded: an edit overlapping
// an earlier one is dropped.
func (b *Buffer) Replace(start, end int, new string) bool {
	if end < start || start < 0 || b.old != nil && end > len(b.old) {
		panic("invalid edit position")
	}
	e := Edit{start, end, new}
	for _, x := range b.q {
		if x.overlaps(e) {
			return false
		}
	}
	b.q = append(b.q, e)
	return true
}

// Len returns the number of recorded edits.
func (b *Buffer) Len() int {
	return len(b.q)
}

// Edits returns the recorded edits sorted by position.
func (b *Buffer) Edits() []Edit {
	q := make([]Edit, len(b.q))
	copy(q, b.q)
	sort.SliceStable(q, func(i, j int) bool {
		if q[i].Start != q[j].Start {
			return q[i].Start < q[j].Start
		}
		return q[i].End < q[j].End
	})
	return q
}

// Bytes returns a new byte slice containing the original data
// with the queued edits applied.
func (b *Buffer) Bytes() []byte {
	var out []byte
	offset := 0
	for _, e := range b.Edits() {
		out = append(out, b.old[offset:e.Start]...)
		offset = e.End
		out = append(out, e.New...)
	}
	out = append(out, b.old[offset:]...)
	return out
}

// String returns a string containing the original data
// with the queued edits applied.
func (b *Buffer) String() string {
	return string(b.Bytes())
}

// Apply applies edits whose offsets are relative to base
// to data, which holds the text starting at base.
// Edits outside data or overlapping each other are an error.
func Apply(data []byte, base int, edits []Edit) ([]byte, error) {
	b := NewBuffer(data)
	for _, e := range edits {
		lo, hi := e.Start-base, e.End-base
		if lo < 0 || hi > len(data) || hi < lo {
			return nil, fmt.Errorf("edit %v outside text [%d,%d)", e, base, base+len(data))
		}
		if !b.Replace(lo, hi, e.New) {
			return nil, fmt.Errorf("edit %v overlaps earlier edit", e)
		}
	}
	return b.Bytes(), nil
}

// Indent prefixes every non-empty line of text after the first with indent.
func Indent(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// Dedent removes the longest whitespace prefix common to all non-blank lines
// and trims leading and trailing blank lines.
func Dedent(text string) string {
	lines := strings.Split(text, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		ws := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix, first = ws, false
			continue
		}
		for !strings.HasPrefix(ws, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimRight(strings.TrimPrefix(line, prefix), " \t")
	}
	return strings.Join(lines, "\n")
}
