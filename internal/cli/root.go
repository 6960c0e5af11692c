// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/buildinfo

// Package cli implements the buildinfo command.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/woozymasta/buildinfo/internal/config"
	"github.com/woozymasta/buildinfo/internal/logging"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitError      = 1
	ExitUsage      = 2
	ExitNoMetadata = 3
)

// ErrNoMetadata reports artifacts without applicable license metadata.
var ErrNoMetadata = errors.New("no license metadata")

// flagMappings maps persistent flag names to config keys.
var flagMappings = map[string]string{
	"descriptor":    "descriptor",
	"precedence":    "precedence",
	"output":        "output",
	"cache-size":    "cache_size",
	"symlink-check": "symlink_check",
	"log-level":     "log.level",
	"log-format":    "log.format",
}

// app carries per-invocation state shared by subcommands.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	logger     *slog.Logger
	loader     *config.Loader
	configPath string
	cfg        config.Config
	verbose    bool
}

// usageError marks invalid arguments or flags.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// usageArgs wraps positional argument validation errors as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError{err: err}
		}

		return nil
	}
}

// Execute runs the command with process arguments and returns the exit code.
func Execute() int {
	cmd := NewRootCommand(os.Stdout, os.Stderr)
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	return ExitCode(err)
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	var usage usageError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrNoMetadata):
		return ExitNoMetadata
	case errors.As(err, &usage):
		return ExitUsage
	default:
		return ExitError
	}
}

// NewRootCommand builds the command tree writing results to stdout and
// diagnostics to stderr.
func NewRootCommand(stdout io.Writer, stderr io.Writer) *cobra.Command {
	a := &app{
		stdout: stdout,
		stderr: stderr,
	}

	root := &cobra.Command{
		Use:   "buildinfo",
		Short: "Inspect BUILD-INFO.txt license descriptors",
		Long: `buildinfo parses BUILD-INFO.txt descriptors and shows which license
metadata applies to build artifacts next to them.

Patterns are tried in the order they were first declared; the first pattern whose
expansion contains the artifact wins. Use --precedence exact-name to let a pattern
naming the artifact exactly win first.

Settings come from defaults, a YAML --config file, BUILDINFO__* environment
variables (BUILDINFO__LOG__LEVEL -> log.level) and flags, in increasing priority.

Exit Codes:
  0  - Success
  1  - General error (unreadable or malformed descriptor)
  2  - CLI usage error (invalid arguments or flags)
  3  - Artifact without license metadata (resolve --require)`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	defaults := config.Defaults()
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringP("output", "o", defaults.Output, "Output format: text, json, yaml")
	pf.String("descriptor", defaults.Descriptor, "Descriptor file name looked up in directories")
	pf.String("precedence", defaults.Precedence, "Pattern precedence: declaration-order, exact-name")
	pf.Int("cache-size", defaults.CacheSize, "Number of cached directory descriptors")
	pf.Bool("symlink-check", defaults.SymlinkCheck, "Reject descriptors resolving outside the artifact root")
	pf.String("log-level", defaults.Log.Level, "Log level: debug, info, warn, error")
	pf.String("log-format", defaults.Log.Format, "Log format: text, json")

	root.AddCommand(
		a.newShowCommand(),
		a.newResolveCommand(),
		a.newCheckCommand(),
		a.newConfigCommand(),
		newVersionCommand(),
	)

	return root
}

// setup loads configuration and builds the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.loader = config.NewLoader(config.EnvPrefix)
	if err := a.loader.Load(config.Defaults(), a.configPath); err != nil {
		return err
	}

	if err := a.loader.LoadFlags(cmd.Flags(), flagMappings); err != nil {
		return usageError{err: err}
	}

	cfg, err := a.loader.Config()
	if err != nil {
		return usageError{err: err}
	}

	if a.verbose {
		cfg.Log.Level = "debug"
	}

	a.cfg = cfg
	a.logger = logging.New(a.stderr, cfg.LoggingConfig())
	a.logger.Debug("configuration loaded",
		"config", a.configPath,
		"descriptor", cfg.Descriptor,
		"precedence", cfg.Precedence,
	)

	return nil
}
