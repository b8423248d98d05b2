// internal/llm/providers/anthropic/anthropic.go
package anthropic

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Corphon/HookForge/internal/llm"
)

const (
	defaultModel      = "claude-sonnet-4-5"
	defaultMaxTokens  = 8192
	defaultAPIVersion = "2023-06-01"
)

func init() {
	llm.Register("anthropic", func() llm.Provider {
		return &Provider{
			recommendedModels: []string{
				"claude-sonnet-4-5",
				"claude-opus-4-1",
				"claude-haiku-4-5",
			},
			baseURL:    "https://api.anthropic.com",
			apiVersion: defaultAPIVersion,
		}
	})
}

// Provider talks to the Anthropic Messages API
type Provider struct {
	apiKey            string
	baseURL           string
	apiVersion        string
	client            *http.Client
	defaultModel      string
	recommendedModels []string
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *blockSource `json:"source,omitempty"`
}

type blockSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature *float32  `json:"temperature,omitempty"`
	System      string    `json:"system,omitempty"`
}

type messagesResponse struct {
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *Provider) Initialize(config map[string]string) error {
	apiKey := config["api_key"]
	if apiKey == "" {
		return fmt.Errorf("anthropic: %w", llm.ErrMissingAPIKey)
	}

	p.apiKey = apiKey
	p.client = &http.Client{Timeout: 5 * time.Minute}

	p.defaultModel = defaultModel
	if model := config["default_model"]; model != "" {
		p.defaultModel = model
	}
	if baseURL := config["base_url"]; baseURL != "" {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
	if apiVersion := config["api_version"]; apiVersion != "" {
		p.apiVersion = apiVersion
	}

	return nil
}

func (p *Provider) GetName() string {
	return "Anthropic Claude"
}

func (p *Provider) GetSupportedModels() []string {
	return p.recommendedModels
}

// userContent places the file ahead of the prompt, as a document block for
// PDFs and as plain text otherwise.
func userContent(req llm.CompletionRequest) []contentBlock {
	var blocks []contentBlock
	if f := req.File; f != nil && len(f.Data) > 0 {
		if f.MIMEType == "application/pdf" {
			blocks = append(blocks, contentBlock{
				Type: "document",
				Source: &blockSource{
					Type:      "base64",
					MediaType: f.MIMEType,
					Data:      base64.StdEncoding.EncodeToString(f.Data),
				},
			})
		} else {
			blocks = append(blocks, contentBlock{Type: "text", Text: string(f.Data)})
		}
	}
	return append(blocks, contentBlock{Type: "text", Text: req.Prompt})
}

func (p *Provider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	body := messagesRequest{
		Model:     model,
		Messages:  []message{{Role: "user", Content: userContent(req)}},
		MaxTokens: maxTokens,
		System:    req.SystemPrompt,
	}
	if req.Temperature > 0 {
		t := req.Temperature
		body.Temperature = &t
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/messages", bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", p.apiKey)
	httpReq.Header.Set("Anthropic-Version", p.apiVersion)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("anthropic response read failed: %w", err)
	}

	var response messagesResponse
	decodeErr := json.Unmarshal(raw, &response)

	if httpResp.StatusCode != http.StatusOK {
		if decodeErr == nil && response.Error != nil {
			return nil, fmt.Errorf("anthropic api error (%d): %s", httpResp.StatusCode, response.Error.Message)
		}
		return nil, fmt.Errorf("anthropic api error (%d): %s", httpResp.StatusCode, string(raw))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("anthropic response decode failed: %w", decodeErr)
	}

	var text strings.Builder
	for _, content := range response.Content {
		if content.Type == "text" {
			text.WriteString(content.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("anthropic: %w", llm.ErrEmptyResponse)
	}

	return &llm.CompletionResponse{
		Text:         text.String(),
		FinishReason: response.StopReason,
		TokensUsed:   response.Usage.InputTokens + response.Usage.OutputTokens,
		PromptTokens: response.Usage.InputTokens,
		OutputTokens: response.Usage.OutputTokens,
		ModelName:    model,
		ProviderName: p.GetName(),
	}, nil
}
