// Package driving provides interfaces for application entry points
// (primary/inbound ports).
package driving

import (
	"context"

	"github.com/corpuskit/corpus-cli/internal/core/domain"
)

// AddDocumentRequest carries the caller-supplied fields for ingestion.
// The file at FilePath must already exist; the knowledge base reads it
// but does not manage its lifecycle.
type AddDocumentRequest struct {
	// FileID is the unique key for the document. Re-adding under the
	// same FileID replaces content and metadata.
	FileID string

	// FileName is the display name shown in listings and citations.
	FileName string

	// FilePath locates the source file to parse.
	FilePath string

	// Tags and Category are optional caller-supplied classifiers.
	Tags     []string
	Category string
}

// KnowledgeService manages the document corpus and answers searches
// against it.
type KnowledgeService interface {
	// AddDocument parses the source file and upserts the document.
	// On parse failure the store is unchanged and the error reports
	// which document failed and why.
	AddDocument(ctx context.Context, req AddDocumentRequest) (*domain.IngestReceipt, error)

	// RemoveDocument deletes a document and reindexes.
	// Returns domain.ErrNotFound if absent.
	RemoveDocument(ctx context.Context, fileID string) error

	// GetDocument retrieves a single document.
	GetDocument(ctx context.Context, fileID string) (*domain.Document, error)

	// ListDocuments returns every document, most recently created first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// UpdateTags replaces a document's tags.
	UpdateTags(ctx context.Context, fileID string, tags []string) error

	// UpdateCategory replaces a document's category.
	UpdateCategory(ctx context.Context, fileID string, category string) error

	// Search runs keyword and vector retrieval, merges, deduplicates and
	// ranks. Internal failures degrade to an empty result set.
	Search(ctx context.Context, query string, limit int) []domain.SearchResult

	// RebuildIndex refits the TF-IDF vector space over the current
	// store contents. Safe to call on an empty store.
	RebuildIndex(ctx context.Context) error

	// IndexReady reports whether vector search is currently possible.
	IndexReady() bool

	// Statistics summarises the stored corpus.
	Statistics(ctx context.Context) (*domain.Statistics, error)
}
