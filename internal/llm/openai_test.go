package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubongjay/ragchat/internal/config"
	"github.com/cubongjay/ragchat/internal/domain"
)

func testClient(baseURL string) *Client {
	return NewClient(config.LLMConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		LLMModel:       "test-model",
		EmbeddingModel: "test-embed",
		Temperature:    0.5,
		MaxTokens:      100,
	})
}

func TestClient_Generate_BuildsPrompt(t *testing.T) {
	var captured chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(chatCompletionResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{{Message: chatMessage{Role: "assistant", Content: "  reply  "}}},
		})
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	history := []domain.ChatTurn{
		{Role: "user", Content: "u1"},
		{Role: "assistant", Content: "a1"},
	}

	answer, err := client.Generate(context.Background(), "question", history, "fact A\n\nfact B")
	require.NoError(t, err)
	assert.Equal(t, "reply", answer)

	require.Len(t, captured.Messages, 5)
	assert.Equal(t, chatMessage{Role: "system", Content: systemPrompt}, captured.Messages[0])
	assert.Equal(t, chatMessage{Role: "system", Content: "Use this context: fact A\n\nfact B"}, captured.Messages[1])
	assert.Equal(t, chatMessage{Role: "user", Content: "u1"}, captured.Messages[2])
	assert.Equal(t, chatMessage{Role: "assistant", Content: "a1"}, captured.Messages[3])
	assert.Equal(t, chatMessage{Role: "user", Content: "question"}, captured.Messages[4])
}

func TestClient_Generate_OmitsEmptyContext(t *testing.T) {
	var captured chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(chatCompletionResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{{Message: chatMessage{Content: "ok"}}},
		})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Generate(context.Background(), "question", nil, "")
	require.NoError(t, err)

	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
}

func TestClient_Generate_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Generate(context.Background(), "question", nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_EmbedBatch_OrdersByIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embeddings", r.URL.Path)
		// Deliberately out of order.
		w.Write([]byte(`{"data":[{"index":1,"embedding":[0,1]},{"index":0,"embedding":[1,0]}]}`))
	}))
	defer srv.Close()

	embeddings, err := testClient(srv.URL).EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Equal(t, []float32{1, 0}, embeddings[0])
	assert.Equal(t, []float32{0, 1}, embeddings[1])
}

func TestClient_EmbedBatch_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"index":0,"embedding":[1,0]}]}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).EmbedBatch(context.Background(), []string{"a", "b"})
	assert.Error(t, err)
}
