// Package markdown parses Markdown files by rendering them to HTML and
// stripping the markup, leaving readable prose for indexing.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"os"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/corpuskit/corpus-cli/internal/core/ports/driven"
	"github.com/corpuskit/corpus-cli/internal/parsers/plaintext"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser handles Markdown documents.
type Parser struct {
	md goldmark.Markdown
}

// New creates a new Markdown parser.
func New() *Parser {
	return &Parser{md: goldmark.New()}
}

// Extensions returns the file extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".md"}
}

// Parse renders the Markdown to HTML and strips tags, producing plain
// prose. If rendering fails the raw text is returned instead: broken
// markup should not block ingestion of otherwise readable text.
func (p *Parser) Parse(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	raw, err := plaintext.Decode(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := p.md.Convert([]byte(raw), &buf); err != nil {
		return raw, nil
	}

	return stripHTML(buf.String()), nil
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// stripHTML removes markup tags and unescapes entities.
func stripHTML(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}
