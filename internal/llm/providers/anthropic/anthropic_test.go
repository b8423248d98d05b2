package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Corphon/HookForge/internal/llm"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := llm.GetProvider("anthropic", map[string]string{
		"api_key":  "test-key",
		"base_url": server.URL,
	})
	require.NoError(t, err)
	return p.(*Provider)
}

func TestInitializeRequiresKey(t *testing.T) {
	_, err := llm.GetProvider("anthropic", map[string]string{})
	assert.True(t, errors.Is(err, llm.ErrMissingAPIKey))
}

func TestRegistryListsProvider(t *testing.T) {
	assert.Contains(t, llm.ListProviders(), "anthropic")
	assert.Contains(t, llm.GetSupportedModelsForProvider("anthropic"), "claude-sonnet-4-5")
	assert.Empty(t, llm.GetSupportedModelsForProvider("no-such-provider"))
}

func TestCompleteTextSendsPDFAsDocument(t *testing.T) {
	var got messagesRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"model":"m","stop_reason":"end_turn","content":[{"type":"text","text":"BOOK_TITLE: Dune"}],"usage":{"input_tokens":10,"output_tokens":4}}`))
	})

	resp, err := p.CompleteText(context.Background(), llm.CompletionRequest{
		Prompt: "Analyze this book",
		File:   &llm.FilePayload{Name: "book.pdf", MIMEType: "application/pdf", Data: []byte("%PDF-1.4")},
	})
	require.NoError(t, err)

	assert.Equal(t, "BOOK_TITLE: Dune", resp.Text)
	assert.Equal(t, 14, resp.TokensUsed)
	assert.Equal(t, defaultModel, got.Model)
	require.Len(t, got.Messages, 1)
	require.Len(t, got.Messages[0].Content, 2)
	assert.Equal(t, "document", got.Messages[0].Content[0].Type)
	assert.Equal(t, "application/pdf", got.Messages[0].Content[0].Source.MediaType)
	assert.Equal(t, "Analyze this book", got.Messages[0].Content[1].Text)
}

func TestCompleteTextSurfacesAPIError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	})

	_, err := p.CompleteText(context.Background(), llm.CompletionRequest{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slow down")
}

func TestCompleteTextEmptyContent(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	})

	_, err := p.CompleteText(context.Background(), llm.CompletionRequest{Prompt: "hi"})
	assert.True(t, errors.Is(err, llm.ErrEmptyResponse))
}
