// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/buildinfo

package buildinfo

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DescriptorFileName is the descriptor file looked up in artifact directories.
const DescriptorFileName = "BUILD-INFO.txt"

// LoadFile reads and parses a descriptor file with default options.
//
// A missing descriptor, a directory in its place, or a zero-length file yields an
// empty Document and no error. The returned document resolves names inside the
// descriptor directory.
func LoadFile(path string) (*Document, error) {
	return LoadFileWithOptions(path, ParseOptions{})
}

// LoadFileWithOptions reads and parses a descriptor file.
func LoadFileWithOptions(path string, opts ParseOptions) (*Document, error) {
	opts.applyDefaults()
	root := os.DirFS(filepath.Dir(path))

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newDocument(opts).WithFS(root), nil
		}

		return nil, fmt.Errorf("stat descriptor: %w", err)
	}

	if info.IsDir() || info.Size() == 0 {
		return newDocument(opts).WithFS(root), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	doc, err := ParseWithOptions(bytes.NewReader(content), opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return doc.WithFS(root), nil
}

// LoadDir reads the descriptor placed in dir.
func LoadDir(dir string) (*Document, error) {
	return LoadFile(filepath.Join(dir, DescriptorFileName))
}
