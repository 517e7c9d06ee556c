// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff implements a Diff function that compares two versions
// of a source file using the 'diff' tool.
package diff

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/xerrors"
)

// Diff returns a unified diff of old and new, labeled with the given names.
// It returns nil if the inputs are equal.
func Diff(ctx context.Context, oldName string, old []byte, newName string, new []byte) ([]byte, error) {
	if bytes.Equal(old, new) {
		return nil, nil
	}

	f1, err := writeTempFile(old)
	if err != nil {
		return nil, err
	}
	defer os.Remove(f1)

	f2, err := writeTempFile(new)
	if err != nil {
		return nil, err
	}
	defer os.Remove(f2)

	// diff exits with status 1 when the files differ.
	data, err := exec.CommandContext(ctx, "diff", "-u", f1, f2).CombinedOutput()
	if err != nil && len(data) == 0 {
		return nil, xerrors.Errorf("diff %s: %w", oldName, err)
	}
	return relabel(data, oldName, newName), nil
}

// relabel replaces the header that diff -u writes, which names the
// temporary files, with one naming oldName and newName.
func relabel(data []byte, oldName, newName string) []byte {
	i := bytes.IndexByte(data, '\n')
	if i < 0 {
		return data
	}
	j := bytes.IndexByte(data[i+1:], '\n')
	if j < 0 {
		return data
	}
	start := i + 1 + j + 1
	if start >= len(data) || data[start] != '@' {
		return data
	}
	hdr := fmt.Sprintf("diff %s %s\n--- %s\n+++ %s\n", oldName, newName, oldName, newName)
	return append([]byte(hdr), data[start:]...)
}

func writeTempFile(data []byte) (string, error) {
	file, err := os.CreateTemp("", "expand-diff")
	if err != nil {
		return "", err
	}
	_, err = file.Write(data)
	if err1 := file.Close(); err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(file.Name())
		return "", err
	}
	return file.Name(), nil
}
