// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/buildinfo

package buildinfo

import (
	"io/fs"
	"os"
)

// Resolve returns the fields applying to name inside the directory the document was
// loaded from.
//
// Documents built by Parse are not bound to a directory and resolve nothing until
// bound with WithFS.
func (d *Document) Resolve(name string) Fields {
	if d == nil {
		return Fields{}
	}

	return d.ResolveFS(d.fsys, name)
}

// ResolveIn returns the fields applying to name inside dir.
func (d *Document) ResolveIn(dir string, name string) Fields {
	return d.ResolveFS(os.DirFS(dir), name)
}

// ResolveFS returns the fields applying to name, expanding patterns over fsys.
//
// Resolution policy:
// - patterns are expanded against real directory entries, not compared as strings
// - expansion follows glob(3): "*" stays within one segment and skips dot names
// - patterns are tried in descriptor order, first match wins
// - with PrecedenceExactName a pattern equal to name is tried before all others
// - malformed patterns are skipped
// - no match returns empty Fields
func (d *Document) ResolveFS(fsys fs.FS, name string) Fields {
	if d == nil || fsys == nil {
		return Fields{}
	}

	target := normalizePath(name)
	if target == "" {
		return Fields{}
	}

	if d.precedence == PrecedenceExactName {
		if i, ok := d.index[target]; ok {
			return d.patterns[i].fields.clone()
		}
	}

	for i := range d.patterns {
		ok, err := expandContains(fsys, d.patterns[i].pattern, target)
		if err != nil {
			if d.logger != nil {
				d.logger.Debug("invalid pattern skipped", "pattern", d.patterns[i].pattern, "error", err)
			}
			continue
		}

		if ok {
			return d.patterns[i].fields.clone()
		}
	}

	return Fields{}
}

// DirectoryFields returns the fields of the "*" block, which is the block applying
// to the descriptor directory itself.
func (d *Document) DirectoryFields() Fields {
	fields, _ := d.PatternFields("*")
	return fields
}

// FormatVersion returns the document Format-Version.
func (d *Document) FormatVersion() (string, bool) {
	if d == nil || !d.hasFormatVersion {
		return "", false
	}

	return d.formatVersion, true
}

// BuildName returns Build-Name applying to name.
func (d *Document) BuildName(name string) (string, bool) {
	return d.Resolve(name).BuildName()
}

// Theme returns Theme applying to name.
func (d *Document) Theme(name string) (string, bool) {
	return d.Resolve(name).Theme()
}

// LicenseType returns License-Type applying to name.
func (d *Document) LicenseType(name string) (string, bool) {
	return d.Resolve(name).LicenseType()
}

// LaunchpadTeams returns OpenID-Launchpad-Teams applying to name.
func (d *Document) LaunchpadTeams(name string) (string, bool) {
	return d.Resolve(name).LaunchpadTeams()
}

// CollectUserData returns Collect-User-Data applying to name.
func (d *Document) CollectUserData(name string) (string, bool) {
	return d.Resolve(name).CollectUserData()
}

// LicenseText returns License-Text applying to name.
func (d *Document) LicenseText(name string) (string, bool) {
	return d.Resolve(name).LicenseText()
}
