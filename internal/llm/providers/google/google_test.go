package google

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Corphon/HookForge/internal/llm"
)

func TestInitialize(t *testing.T) {
	_, err := llm.GetProvider("google", map[string]string{})
	assert.True(t, errors.Is(err, llm.ErrMissingAPIKey))

	p, err := llm.GetProvider("google", map[string]string{"api_key": "k"})
	require.NoError(t, err)
	assert.Equal(t, defaultModel, p.(*Provider).defaultModel)
	assert.Contains(t, p.GetSupportedModels(), "gemini-2.5-pro")
}

func TestBuildContentsPutsFileFirst(t *testing.T) {
	contents := buildContents(llm.CompletionRequest{
		Prompt: "Analyze this book",
		File:   &llm.FilePayload{Name: "book.pdf", MIMEType: "application/pdf", Data: []byte("%PDF-1.7")},
	})

	require.Len(t, contents, 1)
	parts := contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].InlineData)
	assert.Equal(t, "application/pdf", parts[0].InlineData.MIMEType)
	assert.Equal(t, "Analyze this book", parts[1].Text)
	assert.Equal(t, "user", contents[0].Role)
}

func TestBuildContentsTextOnly(t *testing.T) {
	contents := buildContents(llm.CompletionRequest{Prompt: "hello"})

	require.Len(t, contents[0].Parts, 1)
	assert.Equal(t, "hello", contents[0].Parts[0].Text)
}

func TestBuildConfig(t *testing.T) {
	cfg := buildConfig(llm.CompletionRequest{SystemPrompt: "be brief", Temperature: 0.7, MaxTokens: 100})

	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.7, *cfg.Temperature, 0.0001)
	assert.Equal(t, int32(100), cfg.MaxOutputTokens)
	require.NotNil(t, cfg.SystemInstruction)
}
