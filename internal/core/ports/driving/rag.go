package driving

import (
	"context"

	"github.com/corpuskit/corpus-cli/internal/core/domain"
)

// RAGService decides when and how to inject retrieved knowledge into a
// user's query, and how to present cited sources back to the user.
// It is stateless across queries and must never be the reason a chat
// turn fails: its worst case is returning the query unchanged.
type RAGService interface {
	// ShouldAugment reports whether the query warrants knowledge
	// augmentation. A deliberately coarse, cheap gate.
	ShouldAugment(query string) bool

	// EnhanceQuery retrieves relevant documents and folds them into an
	// augmented prompt. If the gate fails, nothing relevant is found, or
	// anything goes wrong internally, it returns the original query and
	// no sources.
	EnhanceQuery(ctx context.Context, query string) (string, []domain.SearchResult)

	// FormatResponseWithSources appends a references section listing the
	// cited sources to the answer. No-op when sources is empty.
	FormatResponseWithSources(answer string, sources []domain.SearchResult) string

	// Status reports knowledge base availability and statistics.
	Status(ctx context.Context) RAGStatus
}

// RAGStatus describes the knowledge base from the RAG layer's view.
type RAGStatus struct {
	Available        bool           `json:"available"`
	TotalDocuments   int            `json:"total_documents"`
	TotalWords       int            `json:"total_words"`
	TotalCharacters  int            `json:"total_characters"`
	Categories       map[string]int `json:"categories,omitempty"`
	Formats          map[string]int `json:"formats,omitempty"`
	VectorIndexReady bool           `json:"vector_index_available"`
	Message          string         `json:"message,omitempty"`
}
