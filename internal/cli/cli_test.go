// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/buildinfo

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/buildinfo"
)

const releaseDescriptor = `Format-Version: 0.5

Files-Pattern: *.img
Build-Name: landing-protected
Theme: linaro
License-Type: protected
License-Text: <p>first</p>
 <p>second</p>

Files-Pattern: README,[broken
License-Type: open
`

func writeFile(t *testing.T, path string, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// releaseTree creates an artifact root with one described directory.
func releaseTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "android", buildinfo.DescriptorFileName), releaseDescriptor)
	writeFile(t, filepath.Join(root, "android", "boot.img"), "x")
	writeFile(t, filepath.Join(root, "android", "README"), "x")
	writeFile(t, filepath.Join(root, "android", "notes.md"), "x")
	return root
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestResolveText(t *testing.T) {
	t.Parallel()

	root := releaseTree(t)
	out, _, err := run(t, "resolve", "--root", root, "android/boot.img", "android/README", "android/notes.md")
	require.NoError(t, err)

	assert.Contains(t, out, "PATH")
	assert.Regexp(t, `android/boot.img\s+protected\s+linaro\s+landing-protected`, out)
	assert.Regexp(t, `android/README\s+open\s+-\s+-`, out)
	assert.Regexp(t, `android/notes.md\s+-\s+-\s+-`, out)
}

func TestResolveJSON(t *testing.T) {
	t.Parallel()

	root := releaseTree(t)
	out, _, err := run(t, "resolve", "-o", "json", "--root", root, filepath.Join(root, "android", "boot.img"))
	require.NoError(t, err)

	var views []resolveView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.True(t, views[0].Matched)
	assert.Contains(t, views[0].Fields, fieldView{Name: "License-Text", Value: "<p>first</p>\n<p>second</p>"})
	assert.Contains(t, views[0].Fields, fieldView{Name: "License-Type", Value: "protected"})
}

func TestResolveRequire(t *testing.T) {
	t.Parallel()

	root := releaseTree(t)
	out, _, err := run(t, "resolve", "--require", "--root", root, "android/boot.img", "android/notes.md")
	require.ErrorIs(t, err, ErrNoMetadata)
	assert.Equal(t, ExitNoMetadata, ExitCode(err))
	assert.Contains(t, err.Error(), "android/notes.md")
	assert.Contains(t, out, "android/boot.img", "results are printed before failing")
}

func TestResolveRejectsTraversal(t *testing.T) {
	t.Parallel()

	root := releaseTree(t)
	_, _, err := run(t, "resolve", "--root", filepath.Join(root, "android"), "../android/boot.img")
	require.ErrorIs(t, err, buildinfo.ErrPathOutsideRoot)
	assert.Equal(t, ExitError, ExitCode(err))
}

func TestResolveMalformedDescriptor(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, buildinfo.DescriptorFileName), "Format-Version: 0.5\nFiles-Pattern: *\nbogus: x\n")

	_, _, err := run(t, "resolve", "--root", root, "a.img")
	require.ErrorIs(t, err, buildinfo.ErrUnknownField)
	assert.Equal(t, ExitError, ExitCode(err))
}

func TestResolveExactNamePrecedence(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, buildinfo.DescriptorFileName),
		"Format-Version: 2.0\nFiles-Pattern: *.txt\nTheme: a\nFiles-Pattern: special.txt\nTheme: b\n")
	writeFile(t, filepath.Join(root, "special.txt"), "x")

	out, _, err := run(t, "resolve", "--root", root, "special.txt")
	require.NoError(t, err)
	assert.Regexp(t, `special.txt\s+-\s+a\s+-`, out)

	out, _, err = run(t, "resolve", "--precedence", "exact-name", "--root", root, "special.txt")
	require.NoError(t, err)
	assert.Regexp(t, `special.txt\s+-\s+b\s+-`, out)
}

func TestShowYAML(t *testing.T) {
	t.Parallel()

	root := releaseTree(t)
	out, _, err := run(t, "show", "-o", "yaml", filepath.Join(root, "android"))
	require.NoError(t, err)

	var view documentView
	require.NoError(t, yaml.Unmarshal([]byte(out), &view))
	assert.Equal(t, "0.5", view.FormatVersion)
	assert.Equal(t, "declaration-order", view.Precedence)
	assert.False(t, view.Empty)
	require.Len(t, view.Patterns, 3)
	assert.Equal(t, "*.img", view.Patterns[0].Pattern)
	assert.Equal(t, "README", view.Patterns[1].Pattern)
	assert.Equal(t, "[broken", view.Patterns[2].Pattern)
	assert.False(t, view.Patterns[2].Valid)
}

func TestShowText(t *testing.T) {
	t.Parallel()

	root := releaseTree(t)
	out, _, err := run(t, "show", filepath.Join(root, "android", buildinfo.DescriptorFileName))
	require.NoError(t, err)

	assert.Contains(t, out, "format 0.5")
	assert.Contains(t, out, "<p>first</p> (+1 lines)")
	assert.Contains(t, out, "(invalid pattern)")

	out, _, err = run(t, "show", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "no descriptor")
}

func TestCheck(t *testing.T) {
	t.Parallel()

	root := releaseTree(t)
	writeFile(t, filepath.Join(root, "broken", buildinfo.DescriptorFileName), "Build-Name: x\n")

	out, _, err := run(t, "check", "-o", "json", filepath.Join(root, "android"), filepath.Join(root, "missing"))
	require.NoError(t, err)

	var views []checkView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 2)
	assert.Equal(t, statusOK, views[0].Status)
	assert.Equal(t, 3, views[0].Patterns)
	assert.Equal(t, []string{"[broken"}, views[0].InvalidPatterns)
	assert.Equal(t, statusAbsent, views[1].Status)

	out, _, err = run(t, "check", filepath.Join(root, "android"), filepath.Join(root, "broken"))
	require.ErrorIs(t, err, ErrCheckFailed)
	assert.Contains(t, out, statusFailed)
}

func TestCheckMinFormat(t *testing.T) {
	t.Parallel()

	root := releaseTree(t)
	dir := filepath.Join(root, "android")

	_, _, err := run(t, "check", "--min-format", "0.5", dir)
	require.NoError(t, err)

	out, _, err := run(t, "check", "--min-format", "2.0", dir)
	require.ErrorIs(t, err, ErrCheckFailed)
	assert.Contains(t, out, "older than 2.0")
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing args", args: []string{"resolve"}},
		{name: "too many args", args: []string{"show", "a", "b"}},
		{name: "unknown flag", args: []string{"check", "--bogus", "."}},
		{name: "invalid output", args: []string{"show", "-o", "xml", "."}},
		{name: "invalid precedence", args: []string{"show", "--precedence", "nearest", "."}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := run(t, tc.args...)
			require.Error(t, err)
			assert.Equal(t, ExitUsage, ExitCode(err))
		})
	}
}

func TestVerboseLogsToStderr(t *testing.T) {
	t.Parallel()

	root := releaseTree(t)
	out, stderr, err := run(t, "-v", "show", filepath.Join(root, "android"))
	require.NoError(t, err)
	assert.NotContains(t, out, "descriptor read")
	assert.Contains(t, stderr, "descriptor read")
}

func TestConfigCommand(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "buildinfo.yaml")
	writeFile(t, cfgPath, "cache_size: 7\nlog:\n  format: json\n")

	out, _, err := run(t, "--config", cfgPath, "--descriptor", "LICENSE-INFO", "config")
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &raw))
	assert.EqualValues(t, 7, raw["cache_size"])
	assert.Equal(t, "LICENSE-INFO", raw["descriptor"])

	_, _, err = run(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "config")
	require.Error(t, err)
	assert.Equal(t, ExitError, ExitCode(err))
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Regexp(t, `^buildinfo \S+ \(\S+\) \S+/\S+\n$`, out)
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitError, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitUsage, ExitCode(usageError{err: errors.New("bad flag")}))
	assert.Equal(t, ExitNoMetadata, ExitCode(ErrNoMetadata))
}
