// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/buildinfo

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/woozymasta/buildinfo"
)

// ErrCheckFailed reports at least one descriptor failing validation.
var ErrCheckFailed = errors.New("descriptor check failed")

// Check statuses.
const (
	statusOK     = "ok"
	statusAbsent = "absent"
	statusFailed = "failed"
)

type checkView struct {
	Path            string   `json:"path" yaml:"path"`
	Status          string   `json:"status" yaml:"status"`
	FormatVersion   string   `json:"format_version,omitempty" yaml:"format_version,omitempty"`
	Error           string   `json:"error,omitempty" yaml:"error,omitempty"`
	InvalidPatterns []string `json:"invalid_patterns,omitempty" yaml:"invalid_patterns,omitempty"`
	Patterns        int      `json:"patterns" yaml:"patterns"`
}

func (a *app) newCheckCommand() *cobra.Command {
	var minFormat string

	cmd := &cobra.Command{
		Use:   "check <dir|descriptor>...",
		Short: "Validate descriptors",
		Long: `Check parses every given descriptor and reports whether it is well formed.

Patterns that are not valid globs never match any artifact; they are reported
as warnings. With --min-format, descriptors declaring an older Format-Version
fail the check. Missing descriptors are reported as absent and do not fail.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			views := make([]checkView, 0, len(args))
			failed := 0
			for _, arg := range args {
				view := a.checkTarget(arg, minFormat)
				if view.Status == statusFailed {
					failed++
				}
				views = append(views, view)
			}

			if err := a.render(views, func(w io.Writer) error {
				return writeCheckText(w, views)
			}); err != nil {
				return err
			}

			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", ErrCheckFailed, failed, len(views))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&minFormat, "min-format", "", "Minimum accepted Format-Version")
	return cmd
}

func (a *app) checkTarget(target string, minFormat string) checkView {
	doc, path, err := a.loadTarget(target)
	if path == "" {
		path = target
	}

	view := checkView{Path: path, Status: statusOK}
	if err != nil {
		a.logger.Warn("descriptor rejected", "path", path, "error", err)
		view.Status = statusFailed
		view.Error = err.Error()
		return view
	}

	if doc.IsEmpty() {
		view.Status = statusAbsent
		return view
	}

	view.FormatVersion, _ = doc.FormatVersion()
	view.Patterns = len(doc.Patterns())
	for _, pattern := range doc.Patterns() {
		if !buildinfo.ValidPattern(pattern) {
			a.logger.Warn("invalid pattern never matches", "path", path, "pattern", pattern)
			view.InvalidPatterns = append(view.InvalidPatterns, pattern)
		}
	}

	if minFormat != "" {
		ok, err := doc.FormatAtLeast(minFormat)
		switch {
		case err != nil:
			view.Status = statusFailed
			view.Error = err.Error()
		case !ok:
			view.Status = statusFailed
			view.Error = fmt.Sprintf("format %s is older than %s", view.FormatVersion, minFormat)
		}
	}

	return view
}

func writeCheckText(w io.Writer, views []checkView) error {
	for _, view := range views {
		detail := view.Error
		if view.Status == statusOK {
			detail = fmt.Sprintf("format %s, %d patterns", view.FormatVersion, view.Patterns)
			if n := len(view.InvalidPatterns); n > 0 {
				detail += fmt.Sprintf(", %d invalid", n)
			}
		}

		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", view.Status, view.Path, detail); err != nil {
			return err
		}
	}

	return nil
}
