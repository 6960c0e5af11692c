// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/buildinfo

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/woozymasta/buildinfo"
)

type documentView struct {
	Path          string        `json:"path" yaml:"path"`
	FormatVersion string        `json:"format_version,omitempty" yaml:"format_version,omitempty"`
	Precedence    string        `json:"precedence" yaml:"precedence"`
	Global        []fieldView   `json:"global,omitempty" yaml:"global,omitempty"`
	Patterns      []patternView `json:"patterns" yaml:"patterns"`
	Empty         bool          `json:"empty" yaml:"empty"`
}

type patternView struct {
	Pattern string      `json:"pattern" yaml:"pattern"`
	Fields  []fieldView `json:"fields" yaml:"fields"`
	Valid   bool        `json:"valid" yaml:"valid"`
}

func newDocumentView(path string, doc *buildinfo.Document) documentView {
	view := documentView{
		Path:       path,
		Precedence: doc.Precedence().String(),
		Global:     newFieldViews(doc.Global()),
		Patterns:   []patternView{},
		Empty:      doc.IsEmpty(),
	}
	view.FormatVersion, _ = doc.FormatVersion()

	for _, pattern := range doc.Patterns() {
		fields, _ := doc.PatternFields(pattern)
		view.Patterns = append(view.Patterns, patternView{
			Pattern: pattern,
			Fields:  newFieldViews(fields),
			Valid:   buildinfo.ValidPattern(pattern),
		})
	}

	return view
}

func (a *app) newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <dir|descriptor>",
		Short: "Print the patterns and fields of a descriptor",
		Long: `Show parses one descriptor and prints its format version, any fields declared
before the first Files-Pattern, and every pattern in declaration order.

A directory argument reads the configured descriptor name inside it. A missing
or empty descriptor is reported as empty rather than as an error.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			doc, path, err := a.loadTarget(args[0])
			if err != nil {
				return err
			}

			view := newDocumentView(path, doc)
			return a.render(view, func(w io.Writer) error {
				return writeDocumentText(w, doc, path)
			})
		},
	}
}

// loadTarget reads the descriptor named by target, which is either a directory
// or a descriptor file path.
func (a *app) loadTarget(target string) (*buildinfo.Document, string, error) {
	opts, err := a.cfg.ParseOptions()
	if err != nil {
		return nil, "", err
	}

	path := target
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		path = filepath.Join(target, a.cfg.Descriptor)
	}

	doc, err := buildinfo.LoadFileWithOptions(path, opts)
	if err != nil {
		return nil, path, err
	}

	a.logger.Debug("descriptor read", "path", path, "patterns", len(doc.Patterns()), "empty", doc.IsEmpty())
	return doc, path, nil
}

func writeDocumentText(w io.Writer, doc *buildinfo.Document, path string) error {
	if doc.IsEmpty() {
		_, err := fmt.Fprintf(w, "%s: no descriptor\n", path)
		return err
	}

	version, _ := doc.FormatVersion()
	if _, err := fmt.Fprintf(w, "%s\tformat %s\t%s\n", path, version, doc.Precedence()); err != nil {
		return err
	}

	if global := doc.Global(); len(global) > 0 {
		if _, err := fmt.Fprintln(w, "(global)"); err != nil {
			return err
		}
		if err := writeFields(w, global); err != nil {
			return err
		}
	}

	for _, pattern := range doc.Patterns() {
		suffix := ""
		if !buildinfo.ValidPattern(pattern) {
			suffix = "\t(invalid pattern)"
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", pattern, suffix); err != nil {
			return err
		}

		fields, _ := doc.PatternFields(pattern)
		if err := writeFields(w, fields); err != nil {
			return err
		}
	}

	return nil
}
