// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/buildinfo

/*
Package buildinfo reads BUILD-INFO.txt license descriptors and resolves which license
metadata applies to a downloadable artifact.

A descriptor sits next to the artifacts it governs:

	Format-Version: 0.5

	Files-Pattern: *.tar.gz,*.img
	Build-Name: landing-protected
	License-Type: protected
	Theme: linaro
	License-Text: <p>First paragraph.</p>
	 <p>Continuation lines start with one space.</p>

	Files-Pattern: README*
	License-Type: open

Basic flow:
  - parse descriptor text (`Parse` / `ParseString`)
  - or load it from disk (`LoadFile` / `LoadDir`), absent files give an empty Document
  - resolve a file name (`Resolve` / `ResolveIn` / `ResolveFS`)
  - read typed values (`LicenseType`, `Theme`, `LicenseText`, ...)

Patterns are expanded against the real directory entries and tried in the order
they were first declared; the first pattern whose expansion contains the file wins,
even when a later pattern names the file exactly. `PrecedenceExactName` opts into
exact-name-first resolution.

For artifact trees, use `Provider`:
  - create provider with root directory
  - resolve paths relative to that root
  - provider caches parsed descriptors per directory
  - for one-directory batches use `ResolveInDir`
  - optional symlink/junction escape hardening: `EnableSymlinkEscapeCheck` (disabled by default)
*/
package buildinfo
