package parsers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpuskit/corpus-cli/internal/core/domain"
)

func TestDefault_SupportedExtensions(t *testing.T) {
	r := Default()

	assert.Equal(t, []string{".doc", ".docx", ".md", ".pdf", ".txt"}, r.Extensions())
	assert.True(t, r.Supported(".txt"))
	assert.True(t, r.Supported(".TXT"))
	assert.False(t, r.Supported(".xlsx"))
}

func TestParse_UnsupportedFormat(t *testing.T) {
	r := Default()

	_, err := r.Parse(context.Background(), "/tmp/spreadsheet.xlsx")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestParse_DerivesMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("one two three\nfour five\n"), 0600))

	result, err := Default().Parse(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "one two three\nfour five\n", result.Content)
	assert.Equal(t, ".txt", result.Metadata.Format)
	assert.Equal(t, int64(24), result.Metadata.FileSize)
	assert.Equal(t, 5, result.Metadata.WordCount)
	assert.Equal(t, 24, result.Metadata.CharCount)
	assert.Equal(t, 3, result.Metadata.LineCount)
	assert.False(t, result.Metadata.ModifiedTime.IsZero())
}

func TestParse_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	result, err := Default().Parse(context.Background(), path)
	require.NoError(t, err)

	// Empty content is legal: such documents simply never match a search.
	assert.Empty(t, result.Content)
	assert.Equal(t, 0, result.Metadata.WordCount)
	assert.Equal(t, 0, result.Metadata.CharCount)
	assert.Equal(t, 1, result.Metadata.LineCount)
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Default().Parse(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestParse_CaseInsensitiveExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "UPPER.TXT")
	require.NoError(t, os.WriteFile(path, []byte("shouting"), 0600))

	result, err := Default().Parse(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, ".txt", result.Metadata.Format)
}
