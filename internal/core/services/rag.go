package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/corpuskit/corpus-cli/internal/core/domain"
	"github.com/corpuskit/corpus-cli/internal/core/ports/driven"
	"github.com/corpuskit/corpus-cli/internal/core/ports/driving"
	"github.com/corpuskit/corpus-cli/internal/logger"
)

// Ensure RAGService implements the interface.
var _ driving.RAGService = (*RAGService)(nil)

// Augmentation tuning defaults.
const (
	// maxContextLength bounds the augmented prompt in characters.
	maxContextLength = 4000

	// maxContextDocuments caps how many documents feed the context.
	maxContextDocuments = 3

	// minRelevance drops weakly matching documents before context
	// assembly.
	minRelevance = 0.1

	// maxRawContentLength truncates a document's raw content when it
	// has no snippets.
	maxRawContentLength = 1000

	// maxTeaserLength truncates the snippet teaser in the sources
	// section.
	maxTeaserLength = 100
)

// knowledgeKeywords gates augmentation: a query mentioning none of
// these is assumed not to need the document corpus. The corpus may be
// mixed-language, so the vocabulary carries both English and Chinese
// terms.
var knowledgeKeywords = []string{
	"文档", "资料", "内容", "信息", "数据", "记录", "报告", "说明",
	"什么是", "如何", "怎么", "为什么", "介绍", "解释", "定义",
	"根据", "基于", "参考", "查找", "搜索", "找到", "显示",
	"document", "file", "content", "information", "data", "what", "how", "why",
}

// RAGService folds retrieved document excerpts into user queries and
// formats cited sources. Stateless across queries; its worst case is
// returning the query unchanged.
type RAGService struct {
	knowledge driving.KnowledgeService
	prompts   driven.PromptStore
}

// NewRAGService creates a RAG service over the given knowledge service.
// The prompt store is optional; embedded defaults are used when nil.
func NewRAGService(knowledge driving.KnowledgeService, prompts driven.PromptStore) *RAGService {
	return &RAGService{
		knowledge: knowledge,
		prompts:   prompts,
	}
}

// ShouldAugment reports whether the query warrants knowledge
// augmentation. A deliberately coarse substring check.
func (s *RAGService) ShouldAugment(query string) bool {
	if s.knowledge == nil {
		return false
	}

	queryLower := strings.ToLower(query)
	for _, keyword := range knowledgeKeywords {
		if strings.Contains(queryLower, keyword) {
			return true
		}
	}
	return false
}

// EnhanceQuery retrieves relevant documents and folds them into an
// augmented prompt. Returns the original query and no sources when the
// gate fails, nothing relevant is found, or retrieval breaks.
func (s *RAGService) EnhanceQuery(ctx context.Context, query string) (string, []domain.SearchResult) {
	if !s.ShouldAugment(query) {
		return query, nil
	}

	results := s.knowledge.Search(ctx, query, maxContextDocuments)

	relevant := results[:0:0]
	for _, r := range results {
		if r.Score >= minRelevance {
			relevant = append(relevant, r)
		}
	}
	if len(relevant) == 0 {
		return query, nil
	}

	logger.Debug("Augmenting query with %d documents", len(relevant))

	augmented := s.buildContext(query, relevant)
	if augmented == "" {
		return query, nil
	}
	return augmented, relevant
}

// buildContext assembles the augmented prompt: a preamble, one section
// per document, and a closing instruction restating the query. Sections
// are appended only while the running total stays under the context
// budget; the cutoff happens at document granularity.
func (s *RAGService) buildContext(query string, documents []domain.SearchResult) string {
	if len(documents) == 0 {
		return ""
	}

	preamble := s.loadPrompt(driven.PromptContextPreamble,
		"The following are excerpts from relevant documents:")
	closing := s.loadPrompt(driven.PromptContextClosing,
		"Please answer the question based on the documents above: %s")

	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n")
	length := len([]rune(preamble)) + 1

	for i, doc := range documents {
		header := fmt.Sprintf("\n[Document %d: %s]\n", i+1, doc.FileName)

		content := doc.Content
		if len(doc.Snippets) > 0 {
			content = strings.Join(doc.Snippets, "\n")
		}
		if runes := []rune(content); len(runes) > maxRawContentLength {
			content = string(runes[:maxRawContentLength]) + "..."
		}

		section := header + content + "\n"
		sectionLen := len([]rune(section))
		if length+sectionLen > maxContextLength {
			break
		}

		b.WriteString(section)
		length += sectionLen
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf(closing, query))
	return b.String()
}

// FormatResponseWithSources appends a references section listing each
// cited source's name, score, retrieval strategy and a snippet teaser.
func (s *RAGService) FormatResponseWithSources(answer string, sources []domain.SearchResult) string {
	if len(sources) == 0 {
		return answer
	}

	var b strings.Builder
	b.WriteString(answer)
	b.WriteString("\n\n📚 **Sources:**\n")

	for i, source := range sources {
		b.WriteString(fmt.Sprintf("%d. **%s**", i+1, source.FileName))

		if source.Score > 0 {
			b.WriteString(fmt.Sprintf(" (relevance: %.2f)", source.Score))
		}
		if source.SearchType != "" {
			b.WriteString(fmt.Sprintf(" [%s]", source.SearchType))
		}
		b.WriteString("\n")

		if len(source.Snippets) > 0 {
			snippet := source.Snippets[0]
			if runes := []rune(snippet); len(runes) > maxTeaserLength {
				snippet = string(runes[:maxTeaserLength]) + "..."
			}
			b.WriteString(fmt.Sprintf("   💡 %s\n", snippet))
		}
	}
	return b.String()
}

// Status reports knowledge base availability and statistics.
func (s *RAGService) Status(ctx context.Context) driving.RAGStatus {
	if s.knowledge == nil {
		return driving.RAGStatus{Message: "knowledge base unavailable"}
	}

	stats, err := s.knowledge.Statistics(ctx)
	if err != nil {
		logger.Warn("Knowledge base statistics failed: %v", err)
		return driving.RAGStatus{Message: "knowledge base unavailable"}
	}

	return driving.RAGStatus{
		Available:        true,
		TotalDocuments:   stats.TotalDocuments,
		TotalWords:       stats.TotalWords,
		TotalCharacters:  stats.TotalCharacters,
		Categories:       stats.Categories,
		Formats:          stats.Formats,
		VectorIndexReady: stats.VectorIndexReady,
	}
}

// loadPrompt fetches a template from the prompt store, falling back to
// the embedded default.
func (s *RAGService) loadPrompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	prompt, err := s.prompts.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}
