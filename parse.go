// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/buildinfo

package buildinfo

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"strings"
)

const (
	maxLineSize   = 1 << 20 // 1 MiB, long License-Text lines included
	startLineSize = 4096
)

// Parse parses descriptor text from reader with default options.
//
// Semantics:
// - blank lines are ignored
// - the first line must be "Format-Version: <version>"
// - "Files-Pattern: a,b" opens a block registered under each pattern
// - "License-Text" continues on lines starting with one space
// - any malformed line fails the whole parse
func Parse(r io.Reader) (*Document, error) {
	return ParseWithOptions(r, ParseOptions{})
}

// ParseString parses descriptor text from string input.
func ParseString(src string) (*Document, error) {
	return Parse(strings.NewReader(src))
}

// ParseWithOptions parses descriptor text from reader.
func ParseWithOptions(r io.Reader, opts ParseOptions) (*Document, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	return parseLines(lines, opts)
}

// readLines returns non-blank lines with trailing whitespace removed.
func readLines(r io.Reader) ([]string, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, startLineSize), maxLineSize)

	lines := make([]string, 0, 32)
	for s.Scan() {
		line := strings.TrimRight(s.Text(), " \t\r")
		if len(lines) == 0 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		lines = append(lines, line)
	}

	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scan descriptor: %w", err)
	}

	return lines, nil
}

// parseLines builds a document from non-blank descriptor lines.
func parseLines(lines []string, opts ParseOptions) (*Document, error) {
	opts.applyDefaults()

	if len(lines) == 0 {
		return nil, ErrMissingFormatVersion
	}

	field, version, err := parseLine(lines[0])
	if err != nil {
		return nil, err
	}

	if field != FieldFormatVersion {
		return nil, fmt.Errorf("%w: first line declares %s", ErrMissingFormatVersion, field)
	}

	doc := newDocument(opts)
	doc.formatVersion = version
	doc.hasFormatVersion = true

	cursor := 1
	for cursor < len(lines) {
		field, value, err := parseLine(lines[cursor])
		if err != nil {
			return nil, err
		}

		if field != FieldFilesPattern {
			// Only reachable before the first marker: blocks run until the next one.
			global, next, err := parseBlock(lines, cursor)
			if err != nil {
				return nil, err
			}

			maps.Copy(doc.global, global)
			cursor = next
			continue
		}

		block, next, err := parseBlock(lines, cursor+1)
		if err != nil {
			return nil, err
		}

		for _, pattern := range splitPatterns(value) {
			doc.register(pattern, block)
		}

		cursor = next
	}

	return doc, nil
}

// parseBlock collects fields from cursor up to the next Files-Pattern line or end of input.
//
// The returned cursor points at the unconsumed marker line or at len(lines).
func parseBlock(lines []string, cursor int) (Fields, int, error) {
	fields := make(Fields)

	for cursor < len(lines) {
		field, value, err := parseLine(lines[cursor])
		if err != nil {
			return nil, cursor, err
		}

		switch field {
		case FieldFilesPattern:
			return fields, cursor, nil
		case FieldLicenseText:
			text, next := readContinuation(lines, cursor+1)
			fields[field] = value + text
			cursor = next
		default:
			fields[field] = value
			cursor++
		}
	}

	return fields, cursor, nil
}

// readContinuation consumes lines starting with a space from cursor.
//
// Each consumed line loses exactly one leading space and is appended after "\n".
// Empty text and unchanged cursor mean no continuation follows.
func readContinuation(lines []string, cursor int) (string, int) {
	var b strings.Builder
	for cursor < len(lines) {
		line := lines[cursor]
		if line == "" || line[0] != ' ' {
			break
		}

		b.WriteByte('\n')
		b.WriteString(line[1:])
		cursor++
	}

	return b.String(), cursor
}

// parseLine splits one "Field: value" line at the first colon.
func parseLine(line string) (Field, string, error) {
	name, value, ok := strings.Cut(line, ":")
	if !ok {
		return FieldUnknown, "", fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}

	name = strings.TrimSpace(name)
	field, ok := ParseField(name)
	if !ok {
		return FieldUnknown, "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	return field, strings.TrimSpace(value), nil
}
