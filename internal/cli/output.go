// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/buildinfo

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/woozymasta/buildinfo"
)

// textValue renders a field value on a single table cell.
func textValue(value string) string {
	first, rest, multiline := strings.Cut(value, "\n")
	if !multiline {
		return value
	}

	return fmt.Sprintf("%s (+%d lines)", first, strings.Count(rest, "\n")+1)
}

// render writes v in the configured output format, using text for plain output.
func (a *app) render(v any, text func(w io.Writer) error) error {
	switch a.cfg.Output {
	case "json":
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)

	case "yaml":
		enc := yaml.NewEncoder(a.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()

	default:
		tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
		if err := text(tw); err != nil {
			return err
		}
		return tw.Flush()
	}
}

// fieldView is one named field value.
type fieldView struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// newFieldViews lists fields in canonical field order.
func newFieldViews(fields buildinfo.Fields) []fieldView {
	keys := fields.Keys()
	out := make([]fieldView, 0, len(keys))
	for _, key := range keys {
		out = append(out, fieldView{Name: key.String(), Value: fields[key]})
	}

	return out
}

// writeFields prints fields as indented table rows.
func writeFields(w io.Writer, fields buildinfo.Fields) error {
	for _, key := range fields.Keys() {
		if _, err := fmt.Fprintf(w, "  %s\t%s\n", key, textValue(fields[key])); err != nil {
			return err
		}
	}

	return nil
}
