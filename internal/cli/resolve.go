// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/buildinfo

package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/woozymasta/buildinfo"
)

type resolveView struct {
	Path    string      `json:"path" yaml:"path"`
	Fields  []fieldView `json:"fields" yaml:"fields"`
	Matched bool        `json:"matched" yaml:"matched"`
}

func (a *app) newResolveCommand() *cobra.Command {
	var (
		root    string
		require bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <path>...",
		Short: "Print the license fields applying to artifacts",
		Long: `Resolve looks up the descriptor in the directory of each artifact and prints
the fields of the first pattern whose expansion contains it.

Paths are relative to --root. Absolute paths are accepted when they lie
inside the root. With --require, artifacts without metadata fail the command
with exit code 3 after all results are printed.`,
		Example: `  buildinfo resolve --root /srv/releases android/boot.img
  buildinfo resolve -o json --require ubuntu/rootfs.tar.gz`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			opts, err := a.cfg.ProviderOptions()
			if err != nil {
				return err
			}
			opts.Logger = a.logger

			provider, err := buildinfo.NewProvider(root, opts)
			if err != nil {
				return err
			}

			views := make([]resolveView, 0, len(args))
			var missing []string
			for _, arg := range args {
				rel, err := relativeToRoot(provider.Root(), arg)
				if err != nil {
					return err
				}

				fields, err := provider.Resolve(rel)
				if err != nil {
					return fmt.Errorf("resolve %s: %w", arg, err)
				}

				if len(fields) == 0 {
					missing = append(missing, arg)
				}
				views = append(views, resolveView{
					Path:    arg,
					Fields:  newFieldViews(fields),
					Matched: len(fields) > 0,
				})
			}

			if err := a.render(views, func(w io.Writer) error {
				return writeResolveText(w, views)
			}); err != nil {
				return err
			}

			if require && len(missing) > 0 {
				return fmt.Errorf("%w: %s", ErrNoMetadata, strings.Join(missing, ", "))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "Artifact root directory")
	cmd.Flags().BoolVar(&require, "require", false, "Fail when an artifact has no license metadata")
	return cmd
}

// relativeToRoot converts an absolute argument into a root-relative path.
func relativeToRoot(root string, arg string) (string, error) {
	if !filepath.IsAbs(arg) {
		return filepath.ToSlash(arg), nil
	}

	rel, err := filepath.Rel(root, arg)
	if err != nil {
		return "", fmt.Errorf("%w: %q", buildinfo.ErrPathOutsideRoot, arg)
	}

	return filepath.ToSlash(rel), nil
}

func writeResolveText(w io.Writer, views []resolveView) error {
	if _, err := fmt.Fprintln(w, "PATH\tLICENSE-TYPE\tTHEME\tBUILD-NAME"); err != nil {
		return err
	}

	for _, view := range views {
		values := make(map[string]string, len(view.Fields))
		for _, field := range view.Fields {
			values[field.Name] = field.Value
		}

		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			view.Path,
			cell(values, buildinfo.FieldLicenseType),
			cell(values, buildinfo.FieldTheme),
			cell(values, buildinfo.FieldBuildName),
		); err != nil {
			return err
		}
	}

	return nil
}

func cell(values map[string]string, field buildinfo.Field) string {
	if v, ok := values[field.String()]; ok && v != "" {
		return textValue(v)
	}

	return "-"
}
