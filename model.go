// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/buildinfo

package buildinfo

import (
	"fmt"
	"log/slog"
	"maps"
	"strings"
)

// Field is one descriptor field name.
type Field uint8

const (
	// FieldUnknown is unset/invalid field placeholder.
	FieldUnknown Field = iota
	// FieldFormatVersion is the mandatory leading "Format-Version" declaration.
	FieldFormatVersion
	// FieldFilesPattern is the "Files-Pattern" block marker.
	FieldFilesPattern
	// FieldBuildName is "Build-Name".
	FieldBuildName
	// FieldTheme is "Theme".
	FieldTheme
	// FieldLicenseType is "License-Type", usually "open" or "protected".
	FieldLicenseType
	// FieldLaunchpadTeams is "OpenID-Launchpad-Teams", also accepted as "Auth-Groups".
	FieldLaunchpadTeams
	// FieldCollectUserData is "Collect-User-Data".
	FieldCollectUserData
	// FieldLicenseText is "License-Text", the only multiline field.
	FieldLicenseText

	fieldCount
)

var fieldNames = [fieldCount]string{
	FieldUnknown:         "",
	FieldFormatVersion:   "Format-Version",
	FieldFilesPattern:    "Files-Pattern",
	FieldBuildName:       "Build-Name",
	FieldTheme:           "Theme",
	FieldLicenseType:     "License-Type",
	FieldLaunchpadTeams:  "OpenID-Launchpad-Teams",
	FieldCollectUserData: "Collect-User-Data",
	FieldLicenseText:     "License-Text",
}

// fieldsByName maps accepted wire names, including aliases, to fields.
var fieldsByName = map[string]Field{
	"Format-Version":         FieldFormatVersion,
	"Files-Pattern":          FieldFilesPattern,
	"Build-Name":             FieldBuildName,
	"Theme":                  FieldTheme,
	"License-Type":           FieldLicenseType,
	"OpenID-Launchpad-Teams": FieldLaunchpadTeams,
	"Auth-Groups":            FieldLaunchpadTeams,
	"Collect-User-Data":      FieldCollectUserData,
	"License-Text":           FieldLicenseText,
}

// ParseField returns the field for an exact wire name.
func ParseField(name string) (Field, bool) {
	f, ok := fieldsByName[name]
	return f, ok
}

// String returns the canonical wire name.
func (f Field) String() string {
	if !f.valid() {
		return fmt.Sprintf("Field(%d)", uint8(f))
	}

	return fieldNames[f]
}

// valid reports whether field value is supported.
func (f Field) valid() bool {
	return f > FieldUnknown && f < fieldCount
}

// Fields maps descriptor fields to their values.
//
// A nil Fields is a valid empty set.
type Fields map[Field]string

// Get returns the value of field and whether it is present.
func (f Fields) Get(field Field) (string, bool) {
	v, ok := f[field]
	return v, ok
}

// FormatVersion returns the Format-Version value declared inside a block.
func (f Fields) FormatVersion() (string, bool) { return f.Get(FieldFormatVersion) }

// BuildName returns the Build-Name value.
func (f Fields) BuildName() (string, bool) { return f.Get(FieldBuildName) }

// Theme returns the Theme value.
func (f Fields) Theme() (string, bool) { return f.Get(FieldTheme) }

// LicenseType returns the License-Type value.
func (f Fields) LicenseType() (string, bool) { return f.Get(FieldLicenseType) }

// LaunchpadTeams returns the OpenID-Launchpad-Teams value.
func (f Fields) LaunchpadTeams() (string, bool) { return f.Get(FieldLaunchpadTeams) }

// CollectUserData returns the Collect-User-Data value.
func (f Fields) CollectUserData() (string, bool) { return f.Get(FieldCollectUserData) }

// LicenseText returns the License-Text value.
func (f Fields) LicenseText() (string, bool) { return f.Get(FieldLicenseText) }

// Keys returns present fields in declaration order of the Field enumeration.
func (f Fields) Keys() []Field {
	keys := make([]Field, 0, len(f))
	for field := FieldFormatVersion; field < fieldCount; field++ {
		if _, ok := f[field]; ok {
			keys = append(keys, field)
		}
	}

	return keys
}

// Strings returns a copy keyed by canonical wire names.
func (f Fields) Strings() map[string]string {
	out := make(map[string]string, len(f))
	for field, value := range f {
		out[field.String()] = value
	}

	return out
}

// clone returns an independent copy that is never nil.
func (f Fields) clone() Fields {
	if f == nil {
		return Fields{}
	}

	return maps.Clone(f)
}

// Precedence selects which pattern wins when several patterns match one file.
type Precedence uint8

const (
	// PrecedenceDeclarationOrder picks the first pattern in descriptor order whose
	// expansion contains the file. An earlier broad pattern beats a later specific one.
	PrecedenceDeclarationOrder Precedence = iota
	// PrecedenceExactName picks a pattern literally equal to the file name first and
	// falls back to declaration order.
	PrecedenceExactName

	precedenceCount
)

var precedenceNames = [precedenceCount]string{
	PrecedenceDeclarationOrder: "declaration-order",
	PrecedenceExactName:        "exact-name",
}

// ParsePrecedence parses a precedence name as produced by Precedence.String.
//
// Empty input selects PrecedenceDeclarationOrder.
func ParsePrecedence(name string) (Precedence, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return PrecedenceDeclarationOrder, nil
	}

	for i, n := range precedenceNames {
		if n == name {
			return Precedence(i), nil
		}
	}

	return PrecedenceDeclarationOrder, fmt.Errorf("%w: %q", ErrInvalidPrecedence, name)
}

// String returns the precedence name.
func (p Precedence) String() string {
	if p >= precedenceCount {
		return fmt.Sprintf("Precedence(%d)", uint8(p))
	}

	return precedenceNames[p]
}

// ParseOptions controls parsing and resolution behavior of a Document.
type ParseOptions struct {
	// Precedence selects the tie-break between matching patterns.
	Precedence Precedence `json:"precedence,omitempty" yaml:"precedence,omitempty"`
	// Logger receives debug records for patterns skipped during resolution.
	// Nil disables them.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

// applyDefaults replaces unsupported option values with defaults.
func (opts *ParseOptions) applyDefaults() {
	if opts.Precedence >= precedenceCount {
		opts.Precedence = PrecedenceDeclarationOrder
	}
}
