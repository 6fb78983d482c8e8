package driven

import (
	"context"

	"github.com/corpuskit/corpus-cli/internal/core/domain"
)

// Parser extracts plain text from a single document format.
// Each parser handles specific file extensions (e.g. ".pdf", ".md").
// Absence of a parser for an extension is a normal "unsupported format"
// outcome, not a runtime feature flag.
type Parser interface {
	// Extensions returns the lowercased file extensions this parser
	// handles, including the leading dot.
	Extensions() []string

	// Parse reads the file at path and returns its plain-text content.
	// I/O or extraction failures are returned wrapping the underlying
	// cause; the caller decides whether to skip or abort.
	Parse(ctx context.Context, path string) (string, error)
}

// ParseResult is the output of parsing a document file.
type ParseResult struct {
	// Content is the extracted plain text.
	Content string

	// Metadata is derived from the source file and the extracted text.
	Metadata domain.Metadata
}

// ParserRegistry dispatches a file to its format parser and derives
// metadata. The registry is the single place that knows which formats
// are available.
type ParserRegistry interface {
	// Parse extracts content and metadata from the file at path.
	// Returns domain.ErrUnsupportedFormat for unknown extensions.
	Parse(ctx context.Context, path string) (*ParseResult, error)

	// Supported reports whether the extension has a registered parser.
	Supported(ext string) bool

	// Extensions returns all registered extensions, sorted.
	Extensions() []string
}
