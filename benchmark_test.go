// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/buildinfo

package buildinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

const (
	benchBlockCount = 64
	benchFileCount  = 256
)

var (
	benchFieldsSink Fields
	benchDocSink    *Document
)

func BenchmarkParse(b *testing.B) {
	src := buildBenchmarkDescriptor(benchBlockCount)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		doc, err := ParseString(src)
		if err != nil {
			b.Fatal(err)
		}

		benchDocSink = doc
	}
}

func BenchmarkResolveFS(b *testing.B) {
	doc, err := ParseString(buildBenchmarkDescriptor(benchBlockCount))
	if err != nil {
		b.Fatal(err)
	}

	fsys := make(fstest.MapFS, benchFileCount)
	names := make([]string, 0, benchFileCount)
	for i := 0; i < benchFileCount; i++ {
		name := fmt.Sprintf("build-%03d.%s", i, benchExtension(i))
		fsys[name] = &fstest.MapFile{Data: []byte("x")}
		names = append(names, name)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		benchFieldsSink = doc.ResolveFS(fsys, names[i%len(names)])
	}
}

func BenchmarkProviderResolveCached(b *testing.B) {
	root := b.TempDir()
	if err := os.WriteFile(
		filepath.Join(root, DescriptorFileName),
		[]byte(buildBenchmarkDescriptor(benchBlockCount)),
		0o600,
	); err != nil {
		b.Fatalf("WriteFile: %v", err)
	}

	if err := os.WriteFile(filepath.Join(root, "build-001.img"), []byte("x"), 0o600); err != nil {
		b.Fatalf("WriteFile: %v", err)
	}

	p, err := NewProvider(root, ProviderOptions{})
	if err != nil {
		b.Fatalf("NewProvider: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fields, err := p.Resolve("build-001.img")
		if err != nil {
			b.Fatal(err)
		}

		benchFieldsSink = fields
	}
}

// buildBenchmarkDescriptor renders a descriptor with n blocks, the last one catch-all.
func buildBenchmarkDescriptor(n int) string {
	var sb strings.Builder
	sb.WriteString("Format-Version: 0.5\n\n")

	for i := 0; i < n-1; i++ {
		fmt.Fprintf(&sb, "Files-Pattern: build-%03d.*,*.%s%d\n", i, benchExtension(i), i)
		fmt.Fprintf(&sb, "Build-Name: build-%d\n", i)
		sb.WriteString("License-Type: protected\n")
		sb.WriteString("License-Text: <p>first</p>\n <p>second</p>\n <p>third</p>\n\n")
	}

	sb.WriteString("Files-Pattern: *\nLicense-Type: open\n")
	return sb.String()
}

func benchExtension(i int) string {
	switch i % 4 {
	case 0:
		return "img"
	case 1:
		return "tar.gz"
	case 2:
		return "zip"
	default:
		return "txt"
	}
}
