// Package memory provides an in-memory DocumentStore used by tests and
// as a lightweight backend when persistence is not required.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/corpuskit/corpus-cli/internal/core/domain"
	"github.com/corpuskit/corpus-cli/internal/core/ports/driven"
)

// DocumentStore keeps documents in a map guarded by a mutex.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]domain.Document
}

var _ driven.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates an empty in-memory store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]domain.Document)}
}

// Save inserts or replaces a document, preserving the original
// created time on replacement.
func (s *DocumentStore) Save(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := s.docs[doc.FileID]; ok {
		doc.CreatedAt = existing.CreatedAt
	} else if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	stored := *doc
	stored.Tags = append([]string(nil), doc.Tags...)
	s.docs[doc.FileID] = stored
	return nil
}

// Get returns a copy of the document, or domain.ErrNotFound.
func (s *DocumentStore) Get(_ context.Context, fileID string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[fileID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := doc
	out.Tags = append([]string(nil), doc.Tags...)
	return &out, nil
}

// Delete removes a document, or returns domain.ErrNotFound.
func (s *DocumentStore) Delete(_ context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[fileID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.docs, fileID)
	return nil
}

// List returns all documents, newest first.
func (s *DocumentStore) List(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		doc.Tags = append([]string(nil), doc.Tags...)
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].FileID < out[j].FileID
	})
	return out, nil
}

// UpdateTags replaces a document's tags.
func (s *DocumentStore) UpdateTags(_ context.Context, fileID string, tags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[fileID]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Tags = domain.NormalizeTags(tags)
	doc.UpdatedAt = time.Now().UTC()
	s.docs[fileID] = doc
	return nil
}

// UpdateCategory replaces a document's category.
func (s *DocumentStore) UpdateCategory(_ context.Context, fileID, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[fileID]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Category = category
	doc.UpdatedAt = time.Now().UTC()
	s.docs[fileID] = doc
	return nil
}

// Close is a no-op for the in-memory store.
func (s *DocumentStore) Close() error { return nil }
