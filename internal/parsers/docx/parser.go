// Package docx parses Word documents. The zip-based DOCX format is
// fully supported; the legacy binary DOC format is acknowledged with a
// placeholder rather than failing outright.
package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/corpuskit/corpus-cli/internal/core/ports/driven"
)

// Ensure both parsers implement the interface.
var (
	_ driven.Parser = (*Parser)(nil)
	_ driven.Parser = (*LegacyParser)(nil)
)

// Parser handles DOCX documents.
type Parser struct{}

// New creates a new DOCX parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the file extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".docx"}
}

// Parse opens the DOCX container and extracts paragraph text from
// word/document.xml, one paragraph per line.
func (p *Parser) Parse(_ context.Context, path string) (string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx %s: %w", path, err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml in %s: %w", path, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml in %s: %w", path, err)
		}

		return parseDocumentXML(content)
	}

	return "", fmt.Errorf("docx %s: missing word/document.xml", path)
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML extracts paragraph text from the document XML.
func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("parse document.xml: %w", err)
	}

	var sb strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			sb.WriteString("\n")
		}
		for _, r := range para.Runs {
			for _, text := range r.Text {
				sb.WriteString(text.Content)
			}
		}
	}

	return strings.TrimSpace(sb.String()), nil
}

// LegacyPlaceholder is stored as the content of .doc files. The legacy
// binary format has no pure-Go extractor; the placeholder tells the user
// what to do instead of failing the ingestion.
const LegacyPlaceholder = "Legacy DOC files must be converted to DOCX before their content can be indexed."

// LegacyParser acknowledges legacy binary .doc files.
type LegacyParser struct{}

// NewLegacy creates a parser for legacy .doc files.
func NewLegacy() *LegacyParser {
	return &LegacyParser{}
}

// Extensions returns the file extensions this parser handles.
func (p *LegacyParser) Extensions() []string {
	return []string{".doc"}
}

// Parse returns the fixed placeholder. The file itself is not read.
func (p *LegacyParser) Parse(_ context.Context, _ string) (string, error) {
	return LegacyPlaceholder, nil
}
