// internal/services/llm_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Corphon/HookForge/internal/config"
	apperrors "github.com/Corphon/HookForge/internal/errors"
	"github.com/Corphon/HookForge/internal/llm"
	"github.com/Corphon/HookForge/internal/utils"
)

// providerDefaultModels is consulted when neither the request nor the config names a model.
var providerDefaultModels = map[string]string{
	"google":    config.DefaultLLMModel,
	"anthropic": "claude-sonnet-4-5",
}

// Generator runs one prompt, optionally with an attached document, and returns the raw text.
type Generator interface {
	Generate(ctx context.Context, prompt string, file *llm.FilePayload) (string, error)
}

// LLMService wraps the configured provider. It stays usable while unconfigured
// and reports why through GetReadyState.
type LLMService struct {
	providerMutex      sync.RWMutex
	provider           llm.Provider
	providerName       string
	isReady            bool
	readyState         string
	activeDefaultModel string

	metrics *utils.AppMetrics
	logger  *utils.Logger
}

// NewLLMServiceFromConfig builds the service from cfg.
// A missing key or a failing provider yields a service that is not ready, not an error.
func NewLLMServiceFromConfig(cfg *config.AppConfig) (*LLMService, error) {
	service := createBaseLLMService()

	if cfg == nil {
		service.readyState = "Failed to retrieve configuration"
		return service, nil
	}

	service.providerName = cfg.LLMProvider
	if cfg.LLMProvider == "" {
		service.readyState = "LLM provider not configured"
		return service, nil
	}

	apiKey := cfg.APIKey(cfg.LLMProvider)
	if apiKey == "" {
		service.readyState = "API key not configured"
		return service, nil
	}

	provider, err := llm.GetProvider(cfg.LLMProvider, map[string]string{
		"api_key":       apiKey,
		"default_model": cfg.Model(),
	})
	if err != nil {
		service.readyState = fmt.Sprintf("Initialization failed: %v", err)
		return service, nil
	}

	service.provider = provider
	service.activeDefaultModel = cfg.Model()
	service.isReady = true
	service.readyState = "Ready"

	return service, nil
}

// NewLLMServiceWithProvider wraps an already initialized provider.
func NewLLMServiceWithProvider(name string, provider llm.Provider, model string) *LLMService {
	service := createBaseLLMService()
	service.providerName = name
	service.activeDefaultModel = strings.TrimSpace(model)
	if provider != nil {
		service.provider = provider
		service.isReady = true
		service.readyState = "Ready"
	}
	return service
}

// NewEmptyLLMService returns a standby service that rejects every generation.
func NewEmptyLLMService() *LLMService {
	service := createBaseLLMService()
	service.providerName = "empty"
	service.readyState = "Standby Service Mode - Please configure the API key"
	return service
}

func createBaseLLMService() *LLMService {
	return &LLMService{
		readyState: "Uninitialized",
		metrics:    utils.NewAppMetrics(),
		logger:     utils.GetLogger(),
	}
}

// SetMetrics replaces the metrics sink.
func (s *LLMService) SetMetrics(metrics *utils.AppMetrics) {
	if metrics == nil {
		return
	}
	s.providerMutex.Lock()
	defer s.providerMutex.Unlock()
	s.metrics = metrics
}

// IsReady reports whether a provider is configured.
func (s *LLMService) IsReady() bool {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()
	return s.provider != nil && s.isReady
}

// GetReadyState describes the readiness in a human readable form.
func (s *LLMService) GetReadyState() string {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()
	return s.readyState
}

// GetProviderStatus returns readiness and its description.
func (s *LLMService) GetProviderStatus() (bool, string) {
	if s == nil {
		return false, "LLM service not initialized"
	}
	if s.IsReady() {
		return true, "Ready"
	}
	return false, s.GetReadyState()
}

// GetProviderName returns the configured provider name.
func (s *LLMService) GetProviderName() string {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()
	return s.providerName
}

// GetDefaultModel returns the model used when a request names none.
func (s *LLMService) GetDefaultModel() string {
	return s.resolveModel("")
}

// UpdateProvider switches to providerName. A missing api_key is taken from the
// environment configuration.
func (s *LLMService) UpdateProvider(providerName string, providerConfig map[string]string) error {
	merged := make(map[string]string, len(providerConfig)+1)
	for k, v := range providerConfig {
		merged[k] = v
	}
	if merged["api_key"] == "" {
		if cfg := config.GetCurrentConfig(); cfg != nil {
			merged["api_key"] = cfg.APIKey(providerName)
		}
	}

	provider, err := llm.GetProvider(providerName, merged)
	if err != nil {
		s.providerMutex.Lock()
		s.isReady = false
		s.readyState = fmt.Sprintf("Configuration failed: %v", err)
		s.providerMutex.Unlock()
		return err
	}

	s.providerMutex.Lock()
	defer s.providerMutex.Unlock()

	s.provider = provider
	s.providerName = providerName
	s.activeDefaultModel = strings.TrimSpace(merged["default_model"])
	s.isReady = true
	s.readyState = "Ready"

	s.logger.Info("LLM provider updated", map[string]interface{}{
		"provider": providerName,
		"model":    s.activeDefaultModel,
	})
	return nil
}

// Generate sends prompt and file to the provider and returns its text.
// Failures are returned as service errors; an unconfigured service returns an unavailable error.
func (s *LLMService) Generate(ctx context.Context, prompt string, file *llm.FilePayload) (string, error) {
	s.providerMutex.RLock()
	provider, providerName, ready, readyState, metrics := s.provider, s.providerName, s.isReady, s.readyState, s.metrics
	s.providerMutex.RUnlock()

	if provider == nil || !ready {
		return "", apperrors.NewUnavailableError(fmt.Sprintf("generator not available: %s", readyState), nil)
	}

	model := s.resolveModel("")
	start := time.Now()
	metrics.GenerationStarted()

	resp, err := provider.CompleteText(ctx, llm.CompletionRequest{
		Prompt: prompt,
		File:   file,
		Model:  model,
	})
	if err != nil {
		metrics.RecordGeneration(providerName, model, 0, time.Since(start), err)
		return "", apperrors.NewServiceError(err.Error(), err)
	}

	metrics.RecordGeneration(providerName, model, resp.TokensUsed, time.Since(start), nil)
	return resp.Text, nil
}

func (s *LLMService) resolveModel(requestedModel string) string {
	if trimmed := strings.TrimSpace(requestedModel); trimmed != "" {
		return trimmed
	}

	s.providerMutex.RLock()
	provider := s.provider
	providerName := s.providerName
	activeDefault := s.activeDefaultModel
	s.providerMutex.RUnlock()

	if activeDefault != "" {
		return activeDefault
	}

	if provider != nil {
		if models := provider.GetSupportedModels(); len(models) > 0 {
			if model := strings.TrimSpace(models[0]); model != "" {
				return model
			}
		}
	}

	if model, exists := providerDefaultModels[providerName]; exists {
		return model
	}

	return config.DefaultLLMModel
}
