// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/buildinfo

package buildinfo

import (
	"io/fs"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// splitPatterns splits one Files-Pattern value on commas.
//
// Tokens are used literally: "a, b" declares "a" and " b". Empty tokens are dropped
// because they cannot expand to any file.
func splitPatterns(value string) []string {
	parts := strings.Split(value, ",")
	out := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}

		out = append(out, p)
	}

	return out
}

// ValidPattern reports whether pattern is a well-formed glob.
func ValidPattern(pattern string) bool {
	return pattern != "" && doublestar.ValidatePattern(pattern)
}

// globPattern rewrites pattern to glob(3) semantics, where "**" is two adjacent
// single-segment stars. Runs of unescaped "*" collapse to one.
func globPattern(pattern string) string {
	if !strings.Contains(pattern, "**") {
		return pattern
	}

	var b strings.Builder
	b.Grow(len(pattern))

	escaped, star := false, false
	for _, r := range pattern {
		switch {
		case escaped:
			escaped, star = false, false
		case r == '\\':
			escaped, star = true, false
		case r == '*':
			if star {
				continue
			}
			star = true
		default:
			star = false
		}

		b.WriteRune(r)
	}

	return b.String()
}

// explicitDotSegments reports whether every target segment starting with "." is
// matched by a pattern segment that starts with a literal ".".
func explicitDotSegments(pattern string, target string) bool {
	if !strings.HasPrefix(target, ".") && !strings.Contains(target, "/.") {
		return true
	}

	patternSegs := strings.Split(pattern, "/")
	targetSegs := strings.Split(target, "/")
	if len(patternSegs) != len(targetSegs) {
		return false
	}

	for i, seg := range targetSegs {
		if !strings.HasPrefix(seg, ".") {
			continue
		}

		if !strings.HasPrefix(strings.TrimPrefix(patternSegs[i], `\`), ".") {
			return false
		}
	}

	return true
}

// expandContains reports whether glob expansion of pattern over fsys contains target.
//
// target must be a normalized slash-separated path relative to the fsys root.
// Expansion follows glob(3): wildcards never cross "/" and never match a leading
// "." of a name. A malformed pattern returns an error and matches nothing.
func expandContains(fsys fs.FS, pattern string, target string) (bool, error) {
	pattern = globPattern(pattern)

	// Every expanded path matches the pattern, so a failed match rules it out
	// without touching the filesystem.
	ok, err := doublestar.Match(pattern, target)
	if err != nil {
		return false, err
	}

	if !ok || !explicitDotSegments(pattern, target) {
		return false, nil
	}

	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return false, err
	}

	return slices.Contains(matches, target), nil
}
