package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpuskit/corpus-cli/internal/core/ports/driven"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *LLMService) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewLLMService(LLMConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "test-model",
	})
	require.NoError(t, err)
	return srv, svc
}

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(LLMConfig{})
	assert.Error(t, err)
}

func TestNewLLMService_Defaults(t *testing.T) {
	svc, err := NewLLMService(LLMConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
}

func TestChat_Success(t *testing.T) {
	var gotReq chatCompletionRequest
	_, svc := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "hello back"}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	answer, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: "system", Content: "be terse"},
		{Role: "user", Content: "hello"},
	}, driven.ChatOptions{MaxTokens: 50, Temperature: 0.2})

	require.NoError(t, err)
	assert.Equal(t, "hello back", answer)
	assert.Equal(t, "test-model", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, 50, gotReq.MaxTokens)
}

func TestGenerate_WrapsPromptAsUserMessage(t *testing.T) {
	var gotReq chatCompletionRequest
	_, svc := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "done"}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	answer, err := svc.Generate(context.Background(), "summarise this", driven.GenerateOptions{
		StopWords: []string{"END"},
	})

	require.NoError(t, err)
	assert.Equal(t, "done", answer)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "summarise this", gotReq.Messages[0].Content)
	assert.Equal(t, []string{"END"}, gotReq.Stop)
}

func TestChat_APIError(t *testing.T) {
	_, svc := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "invalid api key", "type": "auth"},
		})
	})

	_, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "x"}}, driven.ChatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestChat_NoChoices(t *testing.T) {
	_, svc := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "x"}}, driven.ChatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response choices")
}

func TestChat_ContextCancelled(t *testing.T) {
	_, svc := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Chat(ctx, []driven.ChatMessage{{Role: "user", Content: "x"}}, driven.ChatOptions{})
	assert.Error(t, err)
}
