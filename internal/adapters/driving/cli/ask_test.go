package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpuskit/corpus-cli/internal/core/domain"
	"github.com/corpuskit/corpus-cli/internal/core/ports/driven"
)

// mockLLM returns a fixed answer.
type mockLLM struct {
	answer   string
	err      error
	messages []driven.ChatMessage
}

func (m *mockLLM) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	return m.answer, m.err
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.messages = messages
	return m.answer, m.err
}

func (m *mockLLM) ModelName() string { return "mock" }
func (m *mockLLM) Close() error      { return nil }

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_NoLLMNoDocuments(t *testing.T) {
	setupTestServices(t, &mockKnowledge{})

	out, err := execute(t, "ask", "what is the plan")
	require.NoError(t, err)
	assert.Contains(t, out, "No LLM configured")
}

func TestAskCmd_NoLLMPrintsAugmentedPrompt(t *testing.T) {
	setupTestServices(t, &mockKnowledge{
		results: []domain.SearchResult{
			{FileID: "d1", FileName: "plan.txt", Content: "ship in june", Score: 2},
		},
	})

	out, err := execute(t, "ask", "what is the plan")
	require.NoError(t, err)
	assert.Contains(t, out, "[Document 1: plan.txt]")
	assert.Contains(t, out, "ship in june")
	assert.Contains(t, out, "what is the plan")
}

func TestAskCmd_WithLLMCitesSources(t *testing.T) {
	setupTestServices(t, &mockKnowledge{
		results: []domain.SearchResult{
			{FileID: "d1", FileName: "plan.txt", Content: "ship in june", Score: 2, SearchType: domain.SearchTypeKeyword},
		},
	})
	llm := &mockLLM{answer: "We ship in June."}
	llmService = llm

	out, err := execute(t, "ask", "what is the plan")
	require.NoError(t, err)
	assert.Contains(t, out, "We ship in June.")
	assert.Contains(t, out, "**Sources:**")
	assert.Contains(t, out, "plan.txt")

	// The augmented prompt, not the bare question, went to the LLM.
	require.NotEmpty(t, llm.messages)
	last := llm.messages[len(llm.messages)-1]
	assert.Contains(t, last.Content, "[Document 1: plan.txt]")
}

func TestAskCmd_LLMWithoutAugmentation(t *testing.T) {
	setupTestServices(t, &mockKnowledge{})
	llm := &mockLLM{answer: "General knowledge answer."}
	llmService = llm

	out, err := execute(t, "ask", "hello there")
	require.NoError(t, err)
	assert.Contains(t, out, "General knowledge answer.")
	assert.NotContains(t, out, "**Sources:**")

	require.Len(t, llm.messages, 1)
	assert.Equal(t, "hello there", llm.messages[0].Content)
}

func TestAskCmd_LLMError(t *testing.T) {
	setupTestServices(t, &mockKnowledge{})
	llmService = &mockLLM{err: assert.AnError}

	_, err := execute(t, "ask", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm request failed")
}
