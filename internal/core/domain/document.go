package domain

import "time"

// Document is the unit of knowledge held by the knowledge base.
// It is the canonical representation after parsing.
type Document struct {
	// FileID is the caller-supplied unique identifier (primary key).
	FileID string `json:"file_id"`

	// FileName is the human-readable display name (not necessarily unique).
	FileName string `json:"file_name"`

	// FilePath is the filesystem location of the original source file.
	// The knowledge base does not own the file's lifecycle.
	FilePath string `json:"file_path"`

	// Content is the extracted plain-text body. It is the only field the
	// search index operates over. Empty content is legal but never matches
	// a search.
	Content string `json:"content"`

	// Metadata is derived at parse time and replaced wholesale when the
	// document is re-added under the same FileID.
	Metadata Metadata `json:"metadata"`

	// Tags are free-form labels. Duplicates are collapsed; order is not
	// significant.
	Tags []string `json:"tags"`

	// Category is a single free-form classifier. Empty means "uncategorized".
	Category string `json:"category"`

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time `json:"created_time"`

	// UpdatedAt is refreshed on every mutation (content replace, tag or
	// category edit).
	UpdatedAt time.Time `json:"updated_time"`
}

// Metadata describes the parsed source file.
type Metadata struct {
	// FileSize is the source file size in bytes.
	FileSize int64 `json:"file_size"`

	// ModifiedTime is the source file's last-modified timestamp.
	ModifiedTime time.Time `json:"modified_time"`

	// WordCount is the number of whitespace-delimited tokens in Content.
	WordCount int `json:"word_count"`

	// CharCount is the number of characters in Content.
	CharCount int `json:"char_count"`

	// LineCount is the number of lines in Content.
	LineCount int `json:"line_count"`

	// Format is the lowercased file extension, e.g. ".md".
	Format string `json:"format"`
}

// IngestReceipt reports a successful ingestion.
type IngestReceipt struct {
	// FileID identifies the stored document.
	FileID string

	// WordCount and CharCount are taken from the parsed metadata so the
	// caller can surface them without re-reading the document.
	WordCount int
	CharCount int
}

// NormalizeTags collapses duplicates and drops empty entries while
// preserving first-seen order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Statistics summarises the knowledge base contents.
type Statistics struct {
	// TotalDocuments is the number of stored documents.
	TotalDocuments int `json:"total_documents"`

	// TotalWords and TotalCharacters aggregate parsed metadata counts.
	TotalWords      int `json:"total_words"`
	TotalCharacters int `json:"total_characters"`

	// Categories maps category name to document count. Uncategorized
	// documents are counted under "uncategorized".
	Categories map[string]int `json:"categories"`

	// Formats maps format tag to document count.
	Formats map[string]int `json:"formats"`

	// VectorIndexReady reports whether the TF-IDF index has been built.
	VectorIndexReady bool `json:"vector_index_available"`
}

// UncategorizedLabel is the bucket used in Statistics for documents
// without a category.
const UncategorizedLabel = "uncategorized"
