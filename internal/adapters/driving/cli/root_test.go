package cli

import (
	"context"
	"testing"

	"github.com/corpuskit/corpus-cli/internal/core/domain"
	"github.com/corpuskit/corpus-cli/internal/core/ports/driving"
	"github.com/corpuskit/corpus-cli/internal/core/services"
)

// mockKnowledge is a canned KnowledgeService for command tests.
type mockKnowledge struct {
	docs     []domain.Document
	results  []domain.SearchResult
	receipt  *domain.IngestReceipt
	stats    *domain.Statistics
	err      error
	lastTags []string
}

var _ driving.KnowledgeService = (*mockKnowledge)(nil)

func (m *mockKnowledge) AddDocument(_ context.Context, req driving.AddDocumentRequest) (*domain.IngestReceipt, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.receipt != nil {
		return m.receipt, nil
	}
	return &domain.IngestReceipt{FileID: req.FileID, WordCount: 2, CharCount: 10}, nil
}

func (m *mockKnowledge) RemoveDocument(_ context.Context, fileID string) error {
	for _, doc := range m.docs {
		if doc.FileID == fileID {
			return m.err
		}
	}
	return domain.ErrNotFound
}

func (m *mockKnowledge) GetDocument(_ context.Context, fileID string) (*domain.Document, error) {
	for i := range m.docs {
		if m.docs[i].FileID == fileID {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockKnowledge) ListDocuments(_ context.Context) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockKnowledge) UpdateTags(_ context.Context, fileID string, tags []string) error {
	m.lastTags = tags
	if _, err := m.GetDocument(context.Background(), fileID); err != nil {
		return err
	}
	return m.err
}

func (m *mockKnowledge) UpdateCategory(_ context.Context, fileID string, _ string) error {
	if _, err := m.GetDocument(context.Background(), fileID); err != nil {
		return err
	}
	return m.err
}

func (m *mockKnowledge) Search(_ context.Context, _ string, _ int) []domain.SearchResult {
	return m.results
}

func (m *mockKnowledge) RebuildIndex(_ context.Context) error { return m.err }
func (m *mockKnowledge) IndexReady() bool                     { return true }

func (m *mockKnowledge) Statistics(_ context.Context) (*domain.Statistics, error) {
	if m.stats != nil {
		return m.stats, m.err
	}
	return &domain.Statistics{}, m.err
}

// setupTestServices injects a mock knowledge service and returns a
// cleanup that restores the previous wiring.
func setupTestServices(t *testing.T, mock *mockKnowledge) {
	t.Helper()

	oldKnowledge := knowledgeService
	oldRAG := ragService
	oldLLM := llmService
	oldPrompt := askSystemPrompt

	knowledgeService = mock
	ragService = services.NewRAGService(mock, nil)
	llmService = nil
	askSystemPrompt = func() string { return "" }

	t.Cleanup(func() {
		knowledgeService = oldKnowledge
		ragService = oldRAG
		llmService = oldLLM
		askSystemPrompt = oldPrompt
		rootCmd.SetArgs(nil)

		// Flag variables outlive a single Execute call.
		addID, addName, addTags, addCategory = "", "", nil, ""
		searchLimit, searchJSON = 0, false
		listJSON, statsJSON = false, false
	})
}
