package file

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpuskit/corpus-cli/internal/core/ports/driven"
)

func TestNewPromptStore_WithCustomDir(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPromptStore(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
}

func TestNewPromptStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	store, err := NewPromptStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".corpus", "prompts"), store.Dir())
}

func TestPromptStore_Load_CreatesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	// Load triggers lazy init
	_, err = store.Load(driven.PromptContextPreamble)
	require.NoError(t, err)

	files := []string{
		"context_preamble.txt",
		"context_closing.txt",
		"ask_system.txt",
		"README.md",
	}
	for _, f := range files {
		path := filepath.Join(dir, f)
		_, err := os.Stat(path)
		assert.NoError(t, err, "expected file %s to exist", f)
	}
}

func TestPromptStore_Load_ReturnsDefaults(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	preamble, err := store.Load(driven.PromptContextPreamble)
	require.NoError(t, err)
	assert.Contains(t, preamble, "relevant documents")

	closing, err := store.Load(driven.PromptContextClosing)
	require.NoError(t, err)
	assert.Contains(t, closing, "%s")
}

func TestPromptStore_Load_UserOverride(t *testing.T) {
	dir := t.TempDir()
	custom := "Here is what the archive says:"
	path := filepath.Join(dir, "context_preamble.txt")
	require.NoError(t, os.WriteFile(path, []byte(custom+"\n"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	got, err := store.Load(driven.PromptContextPreamble)
	require.NoError(t, err)
	assert.Equal(t, custom, got, "user file should win over the embedded default and be trimmed")
}

func TestPromptStore_Load_UnknownName(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("no_such_prompt")
	assert.Error(t, err)
}

func TestPromptStore_Reload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	first, err := store.Load(driven.PromptContextPreamble)
	require.NoError(t, err)

	// Edit the file behind the cache, then reload.
	path := filepath.Join(dir, "context_preamble.txt")
	require.NoError(t, os.WriteFile(path, []byte("edited"), 0600))

	cached, err := store.Load(driven.PromptContextPreamble)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	store.Reload()

	fresh, err := store.Load(driven.PromptContextPreamble)
	require.NoError(t, err)
	assert.Equal(t, "edited", fresh)
}

func TestPromptStore_ConcurrentLoad(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := store.Load(driven.PromptContextClosing)
			assert.NoError(t, err)
			assert.True(t, strings.Contains(got, "%s"))
		}()
	}
	wg.Wait()
}
