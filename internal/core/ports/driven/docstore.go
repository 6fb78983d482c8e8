// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/corpuskit/corpus-cli/internal/core/domain"
)

// DocumentStore persists documents keyed by file ID.
// Backed by SQLite for durable storage.
type DocumentStore interface {
	// Save stores or replaces a document. Replace-by-id semantics:
	// content, metadata, tags and category are overwritten, CreatedAt is
	// preserved from the first insert.
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by file ID.
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, fileID string) (*domain.Document, error)

	// Delete removes a document.
	// Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, fileID string) error

	// List returns every document, most recently created first.
	// The ordering is deterministic and stable across calls.
	List(ctx context.Context) ([]domain.Document, error)

	// UpdateTags replaces a document's tags and refreshes UpdatedAt.
	// Returns domain.ErrNotFound if absent.
	UpdateTags(ctx context.Context, fileID string, tags []string) error

	// UpdateCategory replaces a document's category and refreshes
	// UpdatedAt. Returns domain.ErrNotFound if absent.
	UpdateCategory(ctx context.Context, fileID string, category string) error

	// Close releases resources.
	Close() error
}
