// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/buildinfo

// Command buildinfo inspects BUILD-INFO.txt license descriptors.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/woozymasta/buildinfo/internal/cli"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(cli.ExitError)
		}
	}()

	os.Exit(cli.Execute())
}
