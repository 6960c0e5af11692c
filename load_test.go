// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/buildinfo

package buildinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDescriptor = `Format-Version: 0.5

Files-Pattern: *.txt
Build-Name: landing-protected
Theme: linaro
License-Type: protected
Collect-User-Data: yes
License-Text: <p>IMPORTANT: PLEASE READ THE FOLLOWING AGREEMENT CAREFULLY.</p>
 <p>THIS END USER LICENSE AGREEMENT ("AGREEMENT") IS A LEGALLY BINDING AGREEMENT.</p>

Files-Pattern: README
License-Type: open
`

func writeFile(t *testing.T, path string, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DescriptorFileName), sampleDescriptor)
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")
	writeFile(t, filepath.Join(dir, "README"), "x")

	doc, err := LoadDir(dir)
	require.NoError(t, err)

	version, ok := doc.FormatVersion()
	require.True(t, ok)
	assert.Equal(t, "0.5", version)

	buildName, ok := doc.BuildName("notes.txt")
	require.True(t, ok)
	assert.Equal(t, "landing-protected", buildName)

	theme, _ := doc.Theme("notes.txt")
	assert.Equal(t, "linaro", theme)

	collect, _ := doc.CollectUserData("notes.txt")
	assert.Equal(t, "yes", collect)

	text, ok := doc.LicenseText("notes.txt")
	require.True(t, ok)
	assert.Contains(t, text, "\n<p>THIS END USER LICENSE AGREEMENT")

	licenseType, _ := doc.LicenseType("README")
	assert.Equal(t, "open", licenseType)

	_, ok = doc.LicenseType("missing.txt")
	assert.False(t, ok)
}

func TestLoadFileAbsent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	emptyPath := filepath.Join(dir, "empty", DescriptorFileName)
	writeFile(t, emptyPath, "")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "isdir", DescriptorFileName), 0o755))

	for _, path := range []string{
		filepath.Join(dir, "nonexistent", DescriptorFileName),
		emptyPath,
		filepath.Join(dir, "isdir", DescriptorFileName),
	} {
		doc, err := LoadFile(path)
		require.NoError(t, err, path)
		assert.True(t, doc.IsEmpty(), path)
		assert.Empty(t, doc.Patterns(), path)

		_, ok := doc.FormatVersion()
		assert.False(t, ok, path)

		_, ok = doc.LicenseType("anything")
		assert.False(t, ok, path)
	}
}

func TestLoadFileParseError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DescriptorFileName)
	writeFile(t, path, "Build-Name: blah\n")

	doc, err := LoadFile(path)
	require.ErrorIs(t, err, ErrMissingFormatVersion)
	assert.Nil(t, doc)
	assert.Contains(t, err.Error(), path)
}

func TestLoadFileWithOptions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, DescriptorFileName)
	writeFile(t, path, "Format-Version: 2.0\nFiles-Pattern: *.img\nTheme: a\nFiles-Pattern: boot.img\nTheme: b\n")
	writeFile(t, filepath.Join(dir, "boot.img"), "x")

	doc, err := LoadFileWithOptions(path, ParseOptions{Precedence: PrecedenceExactName})
	require.NoError(t, err)
	assert.Equal(t, PrecedenceExactName, doc.Precedence())

	theme, _ := doc.Theme("boot.img")
	assert.Equal(t, "b", theme)

	theme, _ = doc.ResolveIn(dir, "boot.img").Theme()
	assert.Equal(t, "b", theme)
}
