package services

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/corpuskit/corpus-cli/internal/core/domain"
	"github.com/corpuskit/corpus-cli/internal/core/ports/driven"
	"github.com/corpuskit/corpus-cli/internal/core/ports/driving"
	"github.com/corpuskit/corpus-cli/internal/index/tfidf"
	"github.com/corpuskit/corpus-cli/internal/logger"
)

// Ensure KnowledgeService implements the interface.
var _ driving.KnowledgeService = (*KnowledgeService)(nil)

// Search tuning defaults.
const (
	// DefaultSearchLimit caps merged results when the caller passes
	// a non-positive limit.
	DefaultSearchLimit = 5

	// minSimilarity filters near-zero cosine matches out of vector
	// search results.
	minSimilarity = 0.1

	// snippetLength is the total window size around a match, half on
	// each side.
	snippetLength = 200

	maxKeywordSnippets = 3
	maxVectorSnippets  = 2
)

// indexSnapshot pairs a fitted vector space with the exact document
// slice it was fitted over. Published atomically so searches never see
// an index misaligned with its documents.
type indexSnapshot struct {
	index *tfidf.Index
	docs  []domain.Document
}

// KnowledgeService manages the document corpus and answers searches
// against it.
type KnowledgeService struct {
	store   driven.DocumentStore
	parsers driven.ParserRegistry

	// mu serialises mutations (parse, persist, reindex) so concurrent
	// adds and removes cannot interleave a stale index rebuild.
	mu sync.Mutex

	// snapMu guards the published snapshot; searches take the read lock.
	snapMu sync.RWMutex
	snap   indexSnapshot
}

// NewKnowledgeService creates a knowledge service over the given store
// and parser registry.
func NewKnowledgeService(store driven.DocumentStore, parsers driven.ParserRegistry) *KnowledgeService {
	return &KnowledgeService{
		store:   store,
		parsers: parsers,
	}
}

// AddDocument parses the source file and upserts the document.
// On parse failure the store is unchanged.
func (s *KnowledgeService) AddDocument(ctx context.Context, req driving.AddDocumentRequest) (*domain.IngestReceipt, error) {
	if req.FileID == "" {
		return nil, fmt.Errorf("%w: file id is required", domain.ErrInvalidInput)
	}
	if req.FilePath == "" {
		return nil, fmt.Errorf("%w: file path is required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Debug("Adding document %s from %s", req.FileID, req.FilePath)

	parsed, err := s.parsers.Parse(ctx, req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("add document %s: %w", req.FileID, err)
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = filepath.Base(req.FilePath)
	}

	doc := &domain.Document{
		FileID:   req.FileID,
		FileName: fileName,
		FilePath: req.FilePath,
		Content:  parsed.Content,
		Metadata: parsed.Metadata,
		Tags:     domain.NormalizeTags(req.Tags),
		Category: req.Category,
	}

	// Re-adding without tags or category keeps the existing classifiers.
	if existing, err := s.store.Get(ctx, req.FileID); err == nil {
		if len(doc.Tags) == 0 {
			doc.Tags = existing.Tags
		}
		if doc.Category == "" {
			doc.Category = existing.Category
		}
	}

	if err := s.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("add document %s: %w", req.FileID, err)
	}

	if err := s.rebuildLocked(ctx); err != nil {
		return nil, fmt.Errorf("add document %s: %w", req.FileID, err)
	}

	logger.Info("Added document %s (%d words)", req.FileID, doc.Metadata.WordCount)

	return &domain.IngestReceipt{
		FileID:    doc.FileID,
		WordCount: doc.Metadata.WordCount,
		CharCount: doc.Metadata.CharCount,
	}, nil
}

// RemoveDocument deletes a document and reindexes.
func (s *KnowledgeService) RemoveDocument(ctx context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, fileID); err != nil {
		return fmt.Errorf("remove document %s: %w", fileID, err)
	}
	if err := s.rebuildLocked(ctx); err != nil {
		return fmt.Errorf("remove document %s: %w", fileID, err)
	}

	logger.Info("Removed document %s", fileID)
	return nil
}

// GetDocument retrieves a single document.
func (s *KnowledgeService) GetDocument(ctx context.Context, fileID string) (*domain.Document, error) {
	return s.store.Get(ctx, fileID)
}

// ListDocuments returns every document, most recently created first.
func (s *KnowledgeService) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	return s.store.List(ctx)
}

// UpdateTags replaces a document's tags and refreshes the snapshot so
// vector results carry the new classifiers.
func (s *KnowledgeService) UpdateTags(ctx context.Context, fileID string, tags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.UpdateTags(ctx, fileID, tags); err != nil {
		return err
	}
	return s.rebuildLocked(ctx)
}

// UpdateCategory replaces a document's category and refreshes the
// snapshot.
func (s *KnowledgeService) UpdateCategory(ctx context.Context, fileID string, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.UpdateCategory(ctx, fileID, category); err != nil {
		return err
	}
	return s.rebuildLocked(ctx)
}

// RebuildIndex refits the vector space over the current store contents.
func (s *KnowledgeService) RebuildIndex(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuildLocked(ctx)
}

// rebuildLocked refits and publishes a fresh snapshot. Caller holds mu.
func (s *KnowledgeService) rebuildLocked(ctx context.Context) error {
	docs, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	index := tfidf.Fit(texts, tfidf.DefaultOptions())

	s.snapMu.Lock()
	s.snap = indexSnapshot{index: index, docs: docs}
	s.snapMu.Unlock()

	logger.Debug("Index rebuilt over %d documents", len(docs))
	return nil
}

// IndexReady reports whether vector search is currently possible.
func (s *KnowledgeService) IndexReady() bool {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.snap.index != nil
}

// Search runs keyword and vector retrieval, merges, deduplicates by
// file id (keyword payload wins) and ranks by relevance score. Keyword
// scores are occurrence counts and vector scores cosine similarities;
// the scales are mixed deliberately. Internal failures degrade to an
// empty result set.
func (s *KnowledgeService) Search(ctx context.Context, query string, limit int) []domain.SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	logger.Debug("Searching for %q (limit %d)", query, limit)

	keyword, err := s.keywordSearch(ctx, query, limit)
	if err != nil {
		logger.Warn("Keyword search failed: %v", err)
		keyword = nil
	}
	vector := s.vectorSearch(query, limit)

	// Keyword results precede vector results, so a document matched by
	// both keeps its keyword payload.
	merged := make([]domain.SearchResult, 0, len(keyword)+len(vector))
	seen := make(map[string]struct{}, len(keyword)+len(vector))
	for _, r := range append(keyword, vector...) {
		if _, ok := seen[r.FileID]; ok {
			continue
		}
		seen[r.FileID] = struct{}{}
		merged = append(merged, r)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// keywordSearch scans the stored corpus for case-insensitive substring
// matches. Title hits weigh three times content hits.
func (s *KnowledgeService) keywordSearch(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	queryLower := strings.ToLower(query)
	var results []domain.SearchResult
	for _, doc := range docs {
		contentHits := strings.Count(strings.ToLower(doc.Content), queryLower)
		titleHits := strings.Count(strings.ToLower(doc.FileName), queryLower)
		score := contentHits + 3*titleHits
		if score == 0 {
			continue
		}

		results = append(results, domain.SearchResult{
			FileID:     doc.FileID,
			FileName:   doc.FileName,
			Content:    doc.Content,
			Snippets:   extractSnippets(doc.Content, query, maxKeywordSnippets),
			Score:      float64(score),
			Metadata:   doc.Metadata,
			Tags:       doc.Tags,
			Category:   doc.Category,
			SearchType: domain.SearchTypeKeyword,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// vectorSearch ranks the indexed snapshot by cosine similarity. Returns
// nothing when the index has not been built.
func (s *KnowledgeService) vectorSearch(query string, limit int) []domain.SearchResult {
	s.snapMu.RLock()
	snap := s.snap
	s.snapMu.RUnlock()

	if snap.index == nil {
		return nil
	}

	sims := snap.index.Similarities(query)

	order := make([]int, len(sims))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return sims[order[i]] > sims[order[j]]
	})

	var results []domain.SearchResult
	for _, idx := range order {
		if len(results) >= limit {
			break
		}
		if sims[idx] <= minSimilarity {
			break
		}
		doc := snap.docs[idx]
		results = append(results, domain.SearchResult{
			FileID:     doc.FileID,
			FileName:   doc.FileName,
			Content:    doc.Content,
			Snippets:   extractSnippets(doc.Content, query, maxVectorSnippets),
			Score:      sims[idx],
			Metadata:   doc.Metadata,
			Tags:       doc.Tags,
			Category:   doc.Category,
			SearchType: domain.SearchTypeVector,
		})
	}
	return results
}

// Statistics summarises the stored corpus.
func (s *KnowledgeService) Statistics(ctx context.Context) (*domain.Statistics, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("statistics: %w", err)
	}

	stats := &domain.Statistics{
		TotalDocuments:   len(docs),
		Categories:       make(map[string]int),
		Formats:          make(map[string]int),
		VectorIndexReady: s.IndexReady(),
	}
	for _, doc := range docs {
		stats.TotalWords += doc.Metadata.WordCount
		stats.TotalCharacters += doc.Metadata.CharCount

		category := doc.Category
		if category == "" {
			category = domain.UncategorizedLabel
		}
		stats.Categories[category]++

		format := doc.Metadata.Format
		if format == "" {
			format = "unknown"
		}
		stats.Formats[format]++
	}
	return stats, nil
}

// extractSnippets pulls highlighted windows around each match of query
// in content, in document order, one window per occurrence up to max.
// Windows are centered on the match with half the snippet length on
// each side, clipped to content bounds. The query substring is wrapped
// in a bold marker wherever it appears in the window, case-insensitive,
// inserting the query as the caller typed it. Duplicate windows are
// suppressed.
func extractSnippets(content, query string, max int) []string {
	if content == "" || query == "" || max <= 0 {
		return nil
	}

	contentRunes := []rune(content)
	lowerContent := []rune(strings.ToLower(content))
	lowerQuery := []rune(strings.ToLower(query))

	// Case folding can change rune counts for a handful of characters;
	// fall back to the raw runes so window offsets stay aligned.
	if len(lowerContent) != len(contentRunes) {
		lowerContent = contentRunes
	}

	var positions []int
	for i := 0; i+len(lowerQuery) <= len(lowerContent); i++ {
		if runesEqual(lowerContent[i:i+len(lowerQuery)], lowerQuery) {
			positions = append(positions, i)
			if len(positions) == max {
				break
			}
		}
	}

	highlight := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(query))
	marked := "**" + query + "**"

	var snippets []string
	for _, pos := range positions {
		start := pos - snippetLength/2
		if start < 0 {
			start = 0
		}
		end := pos + len(lowerQuery) + snippetLength/2
		if end > len(contentRunes) {
			end = len(contentRunes)
		}

		snippet := strings.TrimSpace(string(contentRunes[start:end]))
		snippet = highlight.ReplaceAllLiteralString(snippet, marked)

		if !containsString(snippets, snippet) {
			snippets = append(snippets, snippet)
		}
	}
	return snippets
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
