// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/buildinfo

// Package config loads buildinfo command settings from defaults, a YAML file,
// environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/buildinfo"
	"github.com/woozymasta/buildinfo/internal/logging"
)

// EnvPrefix prefixes environment overrides; "__" separates nested keys:
// BUILDINFO__LOG__LEVEL -> log.level.
const EnvPrefix = "BUILDINFO"

// Config holds command settings.
type Config struct {
	// Descriptor is the per-directory descriptor file name.
	Descriptor string `koanf:"descriptor" yaml:"descriptor" validate:"required,excludesall=/\\"`
	// Precedence selects the pattern tie-break (declaration-order, exact-name).
	Precedence string `koanf:"precedence" yaml:"precedence" validate:"oneof=declaration-order exact-name"`
	// Output is the result format (text, json, yaml).
	Output string `koanf:"output" yaml:"output" validate:"oneof=text json yaml"`
	// Log configures diagnostics written to stderr.
	Log LogConfig `koanf:"log" yaml:"log"`
	// CacheSize bounds cached directory descriptors.
	CacheSize int `koanf:"cache_size" yaml:"cache_size" validate:"gte=1"`
	// SymlinkCheck rejects descriptors resolving outside the artifact root.
	SymlinkCheck bool `koanf:"symlink_check" yaml:"symlink_check"`
}

// LogConfig defines logging settings.
type LogConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `koanf:"level" yaml:"level" validate:"oneof=debug info warn error"`
	// Format is the log output format (json, text).
	Format string `koanf:"format" yaml:"format" validate:"oneof=json text"`
	// AddSource includes source file and line number in log entries.
	AddSource bool `koanf:"add_source" yaml:"add_source"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Descriptor: buildinfo.DescriptorFileName,
		Precedence: buildinfo.PrecedenceDeclarationOrder.String(),
		Output:     "text",
		CacheSize:  128,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}

			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}

		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// ParseOptions converts settings to library parse options.
func (c *Config) ParseOptions() (buildinfo.ParseOptions, error) {
	p, err := buildinfo.ParsePrecedence(c.Precedence)
	if err != nil {
		return buildinfo.ParseOptions{}, err
	}

	return buildinfo.ParseOptions{Precedence: p}, nil
}

// ProviderOptions converts settings to library provider options.
func (c *Config) ProviderOptions() (buildinfo.ProviderOptions, error) {
	parse, err := c.ParseOptions()
	if err != nil {
		return buildinfo.ProviderOptions{}, err
	}

	return buildinfo.ProviderOptions{
		DescriptorName:           c.Descriptor,
		CacheSize:                c.CacheSize,
		Parse:                    parse,
		EnableSymlinkEscapeCheck: c.SymlinkCheck,
	}, nil
}

// LoggingConfig converts to the logging package config.
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{
		Level:     c.Log.Level,
		Format:    c.Log.Format,
		AddSource: c.Log.AddSource,
	}
}

// Loader handles configuration loading from multiple sources.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
}

// NewLoader creates a loader reading environment variables prefixed with envPrefix.
func NewLoader(envPrefix string) *Loader {
	return &Loader{
		k:         koanf.New("."),
		envPrefix: envPrefix + "__",
	}
}

// Load loads configuration with the following priority (highest to lowest):
//  1. Environment variables (BUILDINFO__CACHE_SIZE -> cache_size)
//  2. Config file (YAML)
//  3. Struct defaults
//
// A configPath naming a missing file is an error; empty configPath skips the file.
func (l *Loader) Load(defaults Config, configPath string) error {
	if err := l.k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return fmt.Errorf("config file not found: %s", configPath)
		}

		if err := l.k.Load(file.Provider(configPath), koanfyaml.Parser()); err != nil {
			return fmt.Errorf("load config file: %w", err)
		}
	}

	envProvider := env.Provider(l.envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, l.envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	})
	if err := l.k.Load(envProvider, nil); err != nil {
		return fmt.Errorf("load environment variables: %w", err)
	}

	return nil
}

// LoadFlags applies flag overrides for flags explicitly set by the user.
//
// mappings maps flag names to config keys.
func (l *Loader) LoadFlags(flags *pflag.FlagSet, mappings map[string]string) error {
	var errs []error
	flags.Visit(func(f *pflag.Flag) {
		if key, ok := mappings[f.Name]; ok {
			if err := l.k.Set(key, f.Value.String()); err != nil {
				errs = append(errs, fmt.Errorf("flag %s: %w", f.Name, err))
			}
		}
	})

	return errors.Join(errs...)
}

// Config unmarshals and validates the loaded configuration.
func (l *Loader) Config() (Config, error) {
	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// DumpYAML writes the loaded configuration as YAML.
func (l *Loader) DumpYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(l.k.Raw()); err != nil {
		return err
	}

	return enc.Close()
}
