// Package parsers wires per-format document parsers into a registry
// keyed by file extension. Absence of a parser for an extension is a
// normal unsupported-format outcome.
package parsers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/corpuskit/corpus-cli/internal/core/domain"
	"github.com/corpuskit/corpus-cli/internal/core/ports/driven"
	"github.com/corpuskit/corpus-cli/internal/logger"
	"github.com/corpuskit/corpus-cli/internal/parsers/docx"
	"github.com/corpuskit/corpus-cli/internal/parsers/markdown"
	"github.com/corpuskit/corpus-cli/internal/parsers/pdf"
	"github.com/corpuskit/corpus-cli/internal/parsers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.ParserRegistry = (*Registry)(nil)

// Registry dispatches files to format parsers and derives metadata.
type Registry struct {
	byExt map[string]driven.Parser
}

// NewRegistry builds a registry from the given parsers. Later parsers
// win when extensions collide.
func NewRegistry(parsers ...driven.Parser) *Registry {
	r := &Registry{byExt: make(map[string]driven.Parser)}
	for _, p := range parsers {
		for _, ext := range p.Extensions() {
			r.byExt[strings.ToLower(ext)] = p
		}
	}
	return r
}

// Default returns a registry with every built-in format parser.
func Default() *Registry {
	return NewRegistry(
		plaintext.New(),
		markdown.New(),
		pdf.New(),
		docx.New(),
		docx.NewLegacy(),
	)
}

// Supported reports whether the extension has a registered parser.
func (r *Registry) Supported(ext string) bool {
	_, ok := r.byExt[strings.ToLower(ext)]
	return ok
}

// Extensions returns all registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Parse extracts content and metadata from the file at path.
// Unknown extensions return domain.ErrUnsupportedFormat; failures in a
// supported format wrap the underlying cause. No side effects beyond
// reading the input file.
func (r *Registry) Parse(ctx context.Context, path string) (*driven.ParseResult, error) {
	ext := strings.ToLower(filepath.Ext(path))

	parser, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	content, err := parser.Parse(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	logger.Debug("Parsed %s (%s, %d chars)", path, ext, utf8.RuneCountInString(content))

	return &driven.ParseResult{
		Content: content,
		Metadata: domain.Metadata{
			FileSize:     info.Size(),
			ModifiedTime: info.ModTime(),
			WordCount:    len(strings.Fields(content)),
			CharCount:    utf8.RuneCountInString(content),
			LineCount:    strings.Count(content, "\n") + 1,
			Format:       ext,
		},
	}, nil
}
