// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/buildinfo

package buildinfo

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 128

// ProviderOptions configures descriptor provider behavior.
type ProviderOptions struct {
	// Logger receives debug records about loads and cache activity.
	// Nil discards them.
	Logger *slog.Logger `json:"-" yaml:"-"`
	// DescriptorName is the descriptor file loaded in each directory.
	// Empty value defaults to "BUILD-INFO.txt".
	DescriptorName string `json:"descriptor_name,omitempty" yaml:"descriptor_name,omitempty"`
	// CacheSize bounds the number of cached directory documents.
	// Zero or negative value defaults to 128.
	CacheSize int `json:"cache_size,omitempty" yaml:"cache_size,omitempty"`
	// Parse controls parsing and resolution of loaded documents.
	Parse ParseOptions `json:"parse" yaml:"parse"`
	// EnableSymlinkEscapeCheck enables resolved-path validation to block
	// symlink/junction escapes outside provider root.
	EnableSymlinkEscapeCheck bool `json:"enable_symlink_escape_check,omitempty" yaml:"enable_symlink_escape_check,omitempty"`
}

// Provider loads one descriptor per artifact directory under a root and resolves
// file metadata against it.
//
// Parsed documents are cached per directory until evicted, invalidated or purged.
type Provider struct {
	// cache stores directory documents by relative directory path.
	cache *lru.Cache[string, *cachedDocument]
	// logger receives debug records.
	logger *slog.Logger
	// root is absolute provider root directory path.
	root string
	// resolvedRoot is provider root with symlinks/junctions resolved when possible.
	resolvedRoot string
	// descriptorName is per-directory descriptor file name.
	descriptorName string

	// mu serializes cache lookups with in-flight load registration.
	mu sync.Mutex
	// parseOptions are applied to every loaded descriptor.
	parseOptions ParseOptions
	// enableSymlinkEscapeCheck enables resolved-path root boundary validation.
	enableSymlinkEscapeCheck bool
}

// cachedDocument stores one directory document or a cached load error.
type cachedDocument struct {
	// doc is an empty document when the directory has no descriptor.
	doc *Document
	// err stores read/parse error for deterministic repeated calls.
	err error
	// loading reports whether the document is being loaded by another goroutine.
	loading bool
	// wg coordinates concurrent waiters for one load attempt.
	wg sync.WaitGroup
}

// NewProvider creates a descriptor provider rooted at rootDir.
func NewProvider(rootDir string, opts ProviderOptions) (*Provider, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("abs root: %w", err)
	}

	resolvedRoot := absRoot
	if opts.EnableSymlinkEscapeCheck {
		resolvedRoot, err = resolvePathOrAbs(absRoot)
		if err != nil {
			return nil, fmt.Errorf("resolve root: %w", err)
		}
	}

	descriptorName, err := cleanDescriptorName(opts.DescriptorName)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}

	cache, err := lru.NewWithEvict(size, func(dir string, _ *cachedDocument) {
		logger.Debug("descriptor evicted", "dir", dir)
	})
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	opts.Parse.applyDefaults()
	if opts.Parse.Logger == nil {
		opts.Parse.Logger = logger
	}

	return &Provider{
		cache:                    cache,
		logger:                   logger,
		root:                     absRoot,
		resolvedRoot:             resolvedRoot,
		descriptorName:           descriptorName,
		parseOptions:             opts.Parse,
		enableSymlinkEscapeCheck: opts.EnableSymlinkEscapeCheck,
	}, nil
}

// Root returns the absolute provider root.
func (p *Provider) Root() string {
	if p == nil {
		return ""
	}

	return p.root
}

// Document returns the parsed descriptor of a directory relative to provider root.
//
// A directory without descriptor yields an empty Document.
func (p *Provider) Document(relDir string) (*Document, error) {
	if p == nil {
		return nil, ErrNilProvider
	}

	normalized, err := cleanRelDir(relDir)
	if err != nil {
		return nil, err
	}

	return p.loadDocument(normalized)
}

// Resolve returns the fields applying to a file path relative to provider root.
//
// The descriptor of the file's own directory is consulted; descriptors of parent
// directories are not.
func (p *Provider) Resolve(relPath string) (Fields, error) {
	if p == nil {
		return nil, ErrNilProvider
	}

	normalized, err := cleanRelPath(relPath)
	if err != nil {
		return nil, err
	}

	relDir, name := splitRelPath(normalized)
	doc, err := p.loadDocument(relDir)
	if err != nil {
		return nil, err
	}

	return doc.Resolve(name), nil
}

// ResolveInDir returns fields for multiple entries of one directory.
//
// The directory descriptor is loaded once and reused for every entry.
func (p *Provider) ResolveInDir(relDir string, names []string) ([]Fields, error) {
	if p == nil {
		return nil, ErrNilProvider
	}

	normalizedDir, err := cleanRelDir(relDir)
	if err != nil {
		return nil, err
	}

	doc, err := p.loadDocument(normalizedDir)
	if err != nil {
		return nil, err
	}

	results := make([]Fields, len(names))
	for i := range names {
		name, err := cleanEntryName(names[i])
		if err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i, names[i], err)
		}

		results[i] = doc.Resolve(name)
	}

	return results, nil
}

// Invalidate drops the cached document of one directory.
func (p *Provider) Invalidate(relDir string) error {
	if p == nil {
		return ErrNilProvider
	}

	normalized, err := cleanRelDir(relDir)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.cache.Remove(normalized)
	p.mu.Unlock()
	return nil
}

// Purge drops all cached documents.
func (p *Provider) Purge() {
	if p == nil {
		return
	}

	p.mu.Lock()
	p.cache.Purge()
	p.mu.Unlock()
}

// loadDocument returns cached or newly loaded document for one relative directory.
func (p *Provider) loadDocument(relDir string) (*Document, error) {
	p.mu.Lock()
	cached, ok := p.cache.Get(relDir)
	if ok {
		loading := cached.loading
		p.mu.Unlock()
		if loading {
			cached.wg.Wait()
		}

		p.logger.Debug("descriptor cache hit", "dir", relDir)
		return cached.doc, cached.err
	}

	cached = &cachedDocument{
		loading: true,
	}
	cached.wg.Add(1)
	p.cache.Add(relDir, cached)
	p.mu.Unlock()

	doc, loadErr := p.readDocument(relDir)

	p.mu.Lock()
	cached.doc = doc
	cached.err = loadErr
	cached.loading = false
	cached.wg.Done()
	p.mu.Unlock()

	return doc, loadErr
}

// readDocument loads and parses one directory descriptor.
func (p *Provider) readDocument(relDir string) (*Document, error) {
	descriptorPath := filepath.Join(p.root, filepath.FromSlash(relDir), p.descriptorName)

	if p.enableSymlinkEscapeCheck {
		if err := p.validateDescriptorPath(descriptorPath); err != nil {
			return nil, err
		}
	}

	doc, err := LoadFileWithOptions(descriptorPath, p.parseOptions)
	if err != nil {
		p.logger.Debug("descriptor rejected", "path", descriptorPath, "error", err)
		return nil, err
	}

	p.logger.Debug("descriptor loaded",
		"path", descriptorPath,
		"empty", doc.IsEmpty(),
		"patterns", len(doc.patterns),
	)

	return doc, nil
}

// validateDescriptorPath ensures an existing descriptor resolves inside provider root.
func (p *Provider) validateDescriptorPath(descriptorPath string) error {
	if _, err := os.Lstat(descriptorPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("stat %s: %w", descriptorPath, err)
	}

	resolved, err := resolvePathOrAbs(descriptorPath)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", descriptorPath, err)
	}

	if !isPathWithinRoot(p.resolvedRoot, resolved) {
		return fmt.Errorf("%w: %s", ErrDescriptorOutsideRoot, descriptorPath)
	}

	return nil
}
