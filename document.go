// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/buildinfo

package buildinfo

import (
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/hashicorp/go-version"
)

// Document is one parsed descriptor.
//
// Document is immutable after construction and safe for concurrent use.
type Document struct {
	// fsys is the directory patterns are expanded against, nil when unbound.
	fsys fs.FS
	// global holds fields declared before the first Files-Pattern marker.
	global Fields
	// index maps pattern text to its position in patterns.
	index map[string]int
	// formatVersion is the leading Format-Version value.
	formatVersion string
	// patterns keeps blocks in order of first declaration.
	patterns []patternBlock
	// hasFormatVersion is false only for absent descriptors.
	hasFormatVersion bool
	// logger receives skipped pattern records, nil when disabled.
	logger *slog.Logger
	// precedence selects the tie-break between matching patterns.
	precedence Precedence
}

// patternBlock is one pattern with the block fields registered under it.
type patternBlock struct {
	fields  Fields
	pattern string
}

// newDocument creates an empty document.
func newDocument(opts ParseOptions) *Document {
	return &Document{
		global:     make(Fields),
		index:      make(map[string]int),
		logger:     opts.Logger,
		precedence: opts.Precedence,
	}
}

// register stores fields under pattern.
//
// A repeated pattern takes the new fields and keeps its first position.
func (d *Document) register(pattern string, fields Fields) {
	if i, ok := d.index[pattern]; ok {
		d.patterns[i].fields = fields
		return
	}

	d.index[pattern] = len(d.patterns)
	d.patterns = append(d.patterns, patternBlock{
		pattern: pattern,
		fields:  fields,
	})
}

// WithFS returns a copy of the document bound to fsys for Resolve and the typed getters.
//
// Parsed content is shared between copies.
func (d *Document) WithFS(fsys fs.FS) *Document {
	if d == nil {
		return nil
	}

	out := *d
	out.fsys = fsys
	return &out
}

// IsEmpty reports whether the document carries no information, as for an absent
// or zero-length descriptor.
func (d *Document) IsEmpty() bool {
	return d == nil || (!d.hasFormatVersion && len(d.patterns) == 0 && len(d.global) == 0)
}

// Global returns fields declared before the first Files-Pattern marker.
//
// Global fields never take part in resolution.
func (d *Document) Global() Fields {
	if d == nil {
		return Fields{}
	}

	return d.global.clone()
}

// Patterns returns declared patterns in order of first declaration.
func (d *Document) Patterns() []string {
	if d == nil {
		return nil
	}

	out := make([]string, len(d.patterns))
	for i := range d.patterns {
		out[i] = d.patterns[i].pattern
	}

	return out
}

// PatternFields returns the fields registered under an exact pattern.
func (d *Document) PatternFields(pattern string) (Fields, bool) {
	if d == nil {
		return Fields{}, false
	}

	i, ok := d.index[pattern]
	if !ok {
		return Fields{}, false
	}

	return d.patterns[i].fields.clone(), true
}

// Precedence returns the tie-break used by resolution.
func (d *Document) Precedence() Precedence {
	if d == nil {
		return PrecedenceDeclarationOrder
	}

	return d.precedence
}

// FormatAtLeast reports whether Format-Version is semantically at least minVersion.
//
// Documents without a format version report false.
func (d *Document) FormatAtLeast(minVersion string) (bool, error) {
	current, ok := d.FormatVersion()
	if !ok {
		return false, nil
	}

	have, err := version.NewVersion(current)
	if err != nil {
		return false, fmt.Errorf("parse format version %q: %w", current, err)
	}

	want, err := version.NewVersion(minVersion)
	if err != nil {
		return false, fmt.Errorf("parse minimum format version %q: %w", minVersion, err)
	}

	return have.GreaterThanOrEqual(want), nil
}
