package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".pdf"}, New().Extensions())
}

func TestParse_MissingFile(t *testing.T) {
	_, err := New().Parse(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))
	assert.Error(t, err)
}

func TestParse_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.pdf")
	if err := os.WriteFile(path, []byte("not a pdf at all"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := New().Parse(context.Background(), path)
	assert.Error(t, err)
}
