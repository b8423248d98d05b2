// internal/llm/interface.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnknownProvider is returned for a provider name nobody registered.
	ErrUnknownProvider = errors.New("unknown llm provider")
	// ErrMissingAPIKey is returned by Initialize when no key is configured.
	ErrMissingAPIKey = errors.New("api key not provided")
	// ErrEmptyResponse is returned when the provider produced no text.
	ErrEmptyResponse = errors.New("provider returned an empty response")
)

// FilePayload is a document sent alongside the prompt.
type FilePayload struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

// CompletionRequest is a provider-neutral generation request
type CompletionRequest struct {
	Prompt       string       `json:"prompt"`
	SystemPrompt string       `json:"system_prompt,omitempty"`
	File         *FilePayload `json:"file,omitempty"`
	MaxTokens    int          `json:"max_tokens,omitempty"`
	Temperature  float32      `json:"temperature,omitempty"`
	Model        string       `json:"model,omitempty"`
}

// CompletionResponse is a provider-neutral generation result
type CompletionResponse struct {
	Text         string `json:"text"`
	FinishReason string `json:"finish_reason,omitempty"`
	TokensUsed   int    `json:"tokens_used,omitempty"`
	PromptTokens int    `json:"prompt_tokens,omitempty"`
	OutputTokens int    `json:"output_tokens,omitempty"`
	ModelName    string `json:"model_name,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
}

// Provider is implemented by every text generation backend
type Provider interface {
	// Initialize configures the provider; config carries api_key and default_model.
	Initialize(config map[string]string) error

	GetName() string

	GetSupportedModels() []string

	// CompleteText runs one generation. Implementations must honor ctx.
	CompleteText(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// ProviderFactory builds an uninitialized provider
type ProviderFactory func() Provider

var (
	providersMu sync.RWMutex
	providers   = make(map[string]ProviderFactory)
)

// Register adds a provider factory under name.
func Register(name string, factory ProviderFactory) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[name] = factory
}

// GetProvider builds and initializes the named provider.
func GetProvider(name string, config map[string]string) (Provider, error) {
	providersMu.RLock()
	factory, exists := providers[name]
	providersMu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}

	provider := factory()
	if err := provider.Initialize(config); err != nil {
		return nil, err
	}
	return provider, nil
}

// ListProviders returns the registered provider names, sorted.
func ListProviders() []string {
	providersMu.RLock()
	defer providersMu.RUnlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetSupportedModelsForProvider lists the models a provider advertises.
func GetSupportedModelsForProvider(name string) []string {
	providersMu.RLock()
	factory, exists := providers[name]
	providersMu.RUnlock()
	if !exists {
		return []string{}
	}
	return factory().GetSupportedModels()
}
