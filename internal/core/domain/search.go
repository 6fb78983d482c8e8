package domain

// SearchType identifies the retrieval strategy that produced a result.
type SearchType string

const (
	// SearchTypeKeyword marks results from the exact-substring scan.
	SearchTypeKeyword SearchType = "keyword"

	// SearchTypeVector marks results from TF-IDF cosine similarity.
	SearchTypeVector SearchType = "vector"
)

// SearchResult is an ephemeral per-query value. It is produced fresh for
// every search and never persisted.
type SearchResult struct {
	// FileID and FileName identify the matched document.
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`

	// Content is the full document text.
	Content string `json:"content"`

	// Snippets are highlighted excerpts around query matches, in
	// document order, bounded in count.
	Snippets []string `json:"snippets"`

	// Score is the relevance score. Its meaning depends on SearchType:
	// occurrence counts for keyword results, cosine similarity in [0,1]
	// for vector results. The scales are deliberately not normalised
	// against each other.
	Score float64 `json:"relevance_score"`

	// Metadata, Tags and Category are copied from the document.
	Metadata Metadata `json:"metadata"`
	Tags     []string `json:"tags"`
	Category string   `json:"category"`

	// SearchType records which strategy matched this document.
	SearchType SearchType `json:"search_type"`
}
