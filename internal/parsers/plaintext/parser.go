// Package plaintext parses plain text files, with fallback decoding for
// legacy encodings. Source documents are not guaranteed to be UTF-8:
// the original corpus mixes UTF-8 with GBK-family Chinese encodings.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/corpuskit/corpus-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser handles plain text documents.
type Parser struct{}

// New creates a new plain text parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the file extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".txt"}
}

// Parse reads the file and decodes it to a UTF-8 string.
func (p *Parser) Parse(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(data)
}

// fallbackEncodings is tried in order after UTF-8 validation fails.
// Latin-1 last: every byte sequence decodes under it.
var fallbackEncodings = []encoding.Encoding{
	simplifiedchinese.GBK,
	simplifiedchinese.GB18030,
	charmap.ISO8859_1,
}

// Decode converts raw bytes to a UTF-8 string, attempting UTF-8 first
// and falling back through legacy encodings.
func Decode(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	for _, enc := range fallbackEncodings {
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		// The x/text decoders substitute undecodable bytes rather than
		// failing; treat a substitution as a failed attempt so the next
		// encoding gets a chance.
		if strings.ContainsRune(string(decoded), utf8.RuneError) {
			continue
		}
		return string(decoded), nil
	}

	return "", fmt.Errorf("undecodable text: no supported encoding matched")
}
