// internal/llm/providers/google/google.go
package google

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"github.com/Corphon/HookForge/internal/llm"
)

const defaultModel = "gemini-2.5-pro"

func init() {
	llm.Register("google", func() llm.Provider {
		return &Provider{
			recommendedModels: []string{
				"gemini-2.5-pro",
				"gemini-2.5-flash",
				"gemini-2.5-flash-lite",
			},
		}
	})
}

// Provider calls Gemini through the Google Gen AI SDK
type Provider struct {
	apiKey            string
	baseURL           string
	defaultModel      string
	recommendedModels []string

	clientMu sync.Mutex
	client   *genai.Client
}

// Initialize stores the configuration. The SDK client is created on first use
// so that a provider can be built without network access.
func (p *Provider) Initialize(config map[string]string) error {
	apiKey := config["api_key"]
	if apiKey == "" {
		return fmt.Errorf("google: %w", llm.ErrMissingAPIKey)
	}

	p.apiKey = apiKey
	p.defaultModel = defaultModel
	if model := config["default_model"]; model != "" {
		p.defaultModel = model
	}
	p.baseURL = config["base_url"]

	return nil
}

func (p *Provider) GetName() string {
	return "Google Gemini"
}

func (p *Provider) GetSupportedModels() []string {
	return p.recommendedModels
}

func (p *Provider) getClient(ctx context.Context) (*genai.Client, error) {
	p.clientMu.Lock()
	defer p.clientMu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	cfg := &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if p.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("google: create client: %w", err)
	}
	p.client = client
	return client, nil
}

// buildContents puts the file part, if any, ahead of the prompt text.
func buildContents(req llm.CompletionRequest) []*genai.Content {
	parts := make([]*genai.Part, 0, 2)
	if f := req.File; f != nil && len(f.Data) > 0 {
		parts = append(parts, genai.NewPartFromBytes(f.Data, f.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

func buildConfig(req llm.CompletionRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(req.Temperature)
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	return cfg
}

func (p *Provider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	client, err := p.getClient(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := client.Models.GenerateContent(ctx, model, buildContents(req), buildConfig(req))
	if err != nil {
		return nil, fmt.Errorf("google gemini request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("google: %w", llm.ErrEmptyResponse)
	}

	out := &llm.CompletionResponse{
		Text:         text,
		ModelName:    model,
		ProviderName: p.GetName(),
	}
	if len(resp.Candidates) > 0 {
		out.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	if usage := resp.UsageMetadata; usage != nil {
		out.PromptTokens = int(usage.PromptTokenCount)
		out.OutputTokens = int(usage.CandidatesTokenCount)
		out.TokensUsed = int(usage.TotalTokenCount)
	}
	return out, nil
}
