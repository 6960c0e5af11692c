// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/buildinfo

package buildinfo

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// normalizePath converts a file name to slash-separated clean form relative to the
// descriptor directory. Root and empty input return "".
func normalizePath(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, `\`, `/`)
	if raw == "" {
		return ""
	}

	if isSimpleNormalizedPath(raw) {
		return raw
	}

	// Rooting before Clean folds any ".." back under the directory.
	raw = strings.TrimPrefix(path.Clean("/"+raw), "/")
	if raw == "." {
		return ""
	}

	return raw
}

// isSimpleNormalizedPath reports whether p is already clean and relative.
func isSimpleNormalizedPath(p string) bool {
	if p == "." || p == ".." ||
		strings.HasPrefix(p, "/") ||
		strings.HasSuffix(p, "/") ||
		strings.HasPrefix(p, "./") ||
		strings.HasPrefix(p, "../") ||
		strings.HasSuffix(p, "/.") ||
		strings.HasSuffix(p, "/..") ||
		strings.Contains(p, "//") ||
		strings.Contains(p, "/./") ||
		strings.Contains(p, "/../") {
		return false
	}

	return true
}

// cleanRelPath normalizes a provider-relative file path and rejects escapes.
func cleanRelPath(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || filepath.IsAbs(trimmed) {
		return "", fmt.Errorf("%w: %q", ErrPathOutsideRoot, raw)
	}

	p := strings.ReplaceAll(trimmed, `\`, `/`)
	if strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("%w: %q", ErrPathOutsideRoot, raw)
	}

	p = path.Clean(p)
	if p == "." || p == ".." || strings.HasPrefix(p, "../") {
		return "", fmt.Errorf("%w: %q", ErrPathOutsideRoot, raw)
	}

	return p, nil
}

// cleanRelDir normalizes a provider-relative directory; root is "".
func cleanRelDir(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "." || trimmed == "./" {
		return "", nil
	}

	return cleanRelPath(trimmed)
}

// cleanEntryName validates one directory entry name for batch APIs.
func cleanEntryName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidEntryName
	}

	return name, nil
}

// cleanDescriptorName validates and normalizes the per-directory descriptor file name.
func cleanDescriptorName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return DescriptorFileName, nil
	}

	if filepath.IsAbs(name) || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidDescriptorName, raw)
	}

	return name, nil
}

// splitRelPath splits a clean relative path into directory ("" for root) and base name.
func splitRelPath(rel string) (string, string) {
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		return rel[:i], rel[i+1:]
	}

	return "", rel
}

// resolvePathOrAbs resolves symlinks and falls back to the absolute path for
// paths that do not exist yet.
func resolvePathOrAbs(p string) (string, error) {
	resolved, err := filepath.EvalSymlinks(p)
	if err == nil {
		return resolved, nil
	}

	abs, absErr := filepath.Abs(p)
	if absErr != nil {
		return "", absErr
	}

	if os.IsNotExist(err) {
		return abs, nil
	}

	return "", err
}

// isPathWithinRoot reports whether target is root or below it.
func isPathWithinRoot(root string, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
