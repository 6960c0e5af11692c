// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/buildinfo

package buildinfo

import (
	"errors"
	"fmt"
)

// Sentinel errors for buildinfo operations.
var (
	// ErrInvalidFormat indicates descriptor text that violates the line grammar.
	ErrInvalidFormat = errors.New("invalid descriptor format")
	// ErrMalformedLine indicates a line without the "field: value" separator.
	ErrMalformedLine = fmt.Errorf("%w: line has no separator", ErrInvalidFormat)
	// ErrUnknownField indicates a field name outside the supported set.
	ErrUnknownField = fmt.Errorf("%w: field not allowed", ErrInvalidFormat)
	// ErrMissingFormatVersion indicates descriptor text not starting with Format-Version.
	ErrMissingFormatVersion = errors.New("format version not found")
	// ErrInvalidPrecedence indicates an unsupported pattern precedence name.
	ErrInvalidPrecedence = errors.New("invalid precedence")
	// ErrInvalidDescriptorName indicates invalid provider descriptor file name.
	ErrInvalidDescriptorName = errors.New("invalid descriptor file name")
	// ErrInvalidEntryName indicates invalid directory entry input for batch APIs.
	ErrInvalidEntryName = errors.New("invalid entry name")
	// ErrNilProvider indicates a nil Provider receiver.
	ErrNilProvider = errors.New("provider is nil")
	// ErrPathOutsideRoot indicates path traversal or non-relative input path.
	ErrPathOutsideRoot = errors.New("path is outside provider root")
	// ErrDescriptorOutsideRoot indicates resolved descriptor path escaped provider root.
	ErrDescriptorOutsideRoot = errors.New("descriptor path is outside provider root")
)
