// internal/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var (
	currentConfig *AppConfig
	configMutex   sync.RWMutex
	configFile    string
)

const (
	DefaultLLMProvider        = "google"
	DefaultLLMModel           = "gemini-2.5-pro"
	DefaultMaxUploadBytes     = 10 << 20
	DefaultNotificationTTL    = 5 * time.Second
	DefaultRateLimitPerMinute = 20
)

// AppConfig is the runtime configuration, persisted as config.json in the data dir.
// API keys are never written to disk.
type AppConfig struct {
	Port      string `json:"port"`
	DataDir   string `json:"data_dir"`
	LogDir    string `json:"log_dir"`
	DebugMode bool   `json:"debug_mode"`

	LLMProvider string            `json:"llm_provider"`
	LLMConfig   map[string]string `json:"llm_config"`
	APIKeys     map[string]string `json:"-"`

	PreferredTheme     string        `json:"preferred_theme"`
	NotificationTTL    time.Duration `json:"notification_ttl"`
	MaxUploadBytes     int64         `json:"max_upload_bytes"`
	RateLimitPerMinute int           `json:"rate_limit_per_minute"`
}

// Config holds the values read from the environment
type Config struct {
	Port               string
	DataDir            string
	LogDir             string
	DebugMode          bool
	LLMProvider        string
	LLMModel           string
	GeminiAPIKey       string
	AnthropicAPIKey    string
	PreferredTheme     string
	NotificationTTL    time.Duration
	MaxUploadBytes     int64
	RateLimitPerMinute int
}

// Load reads configuration from the environment, after an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Port:               getEnv("PORT", "8080"),
		DataDir:            getEnvPath("DATA_DIR", "data"),
		LogDir:             getEnvPath("LOG_DIR", "logs"),
		DebugMode:          getEnvBool("DEBUG_MODE", false),
		LLMProvider:        getEnv("LLM_PROVIDER", DefaultLLMProvider),
		LLMModel:           getEnv("LLM_MODEL", DefaultLLMModel),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", getEnv("GOOGLE_API_KEY", "")),
		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
		PreferredTheme:     getEnv("PREFERRED_THEME", "light"),
		NotificationTTL:    getEnvDuration("NOTIFICATION_TTL", DefaultNotificationTTL),
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", DefaultRateLimitPerMinute),
	}

	if config.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", config.MaxUploadBytes)
	}
	if config.PreferredTheme != "light" && config.PreferredTheme != "dark" {
		return nil, fmt.Errorf("PREFERRED_THEME must be light or dark, got %q", config.PreferredTheme)
	}

	return config, nil
}

// APIKeyFor returns the environment API key of a provider.
func (c *Config) APIKeyFor(provider string) string {
	switch provider {
	case "google", "gemini":
		return c.GeminiAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	default:
		return ""
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvPath returns a directory from the environment, creating it if needed.
func getEnvPath(key, defaultValue string) string {
	path := getEnv(key, defaultValue)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create directory %s: %v\n", path, err)
		}
	}

	return path
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

// InitConfig loads the environment, merges a saved config.json and writes it back.
func InitConfig(dataDir string) error {
	baseConfig, err := Load()
	if err != nil {
		return err
	}
	if dataDir == "" {
		dataDir = baseConfig.DataDir
	}
	configFile = filepath.Join(dataDir, "config.json")

	configMutex.Lock()
	defer configMutex.Unlock()

	currentConfig = fromBase(baseConfig)
	currentConfig.DataDir = dataDir

	if data, err := os.ReadFile(configFile); err == nil {
		var savedConfig AppConfig
		if json.Unmarshal(data, &savedConfig) == nil {
			// environment wins for process-level settings, the file keeps LLM choices
			if savedConfig.LLMProvider != "" && os.Getenv("LLM_PROVIDER") == "" {
				currentConfig.LLMProvider = savedConfig.LLMProvider
			}
			if savedConfig.LLMConfig != nil && os.Getenv("LLM_MODEL") == "" {
				currentConfig.LLMConfig = savedConfig.LLMConfig
			}
		}
	}

	return saveLocked()
}

func fromBase(base *Config) *AppConfig {
	return &AppConfig{
		Port:        base.Port,
		DataDir:     base.DataDir,
		LogDir:      base.LogDir,
		DebugMode:   base.DebugMode,
		LLMProvider: base.LLMProvider,
		LLMConfig: map[string]string{
			"default_model": base.LLMModel,
		},
		APIKeys: map[string]string{
			"google":    base.GeminiAPIKey,
			"anthropic": base.AnthropicAPIKey,
		},
		PreferredTheme:     base.PreferredTheme,
		NotificationTTL:    base.NotificationTTL,
		MaxUploadBytes:     base.MaxUploadBytes,
		RateLimitPerMinute: base.RateLimitPerMinute,
	}
}

// GetCurrentConfig returns a copy of the current configuration.
func GetCurrentConfig() *AppConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if currentConfig == nil {
		baseConfig, err := Load()
		if err != nil {
			baseConfig = &Config{
				Port:               "8080",
				DataDir:            "data",
				LogDir:             "logs",
				LLMProvider:        DefaultLLMProvider,
				LLMModel:           DefaultLLMModel,
				PreferredTheme:     "light",
				NotificationTTL:    DefaultNotificationTTL,
				MaxUploadBytes:     DefaultMaxUploadBytes,
				RateLimitPerMinute: DefaultRateLimitPerMinute,
			}
		}
		return fromBase(baseConfig)
	}

	configCopy := *currentConfig
	configCopy.LLMConfig = copyMap(currentConfig.LLMConfig)
	configCopy.APIKeys = copyMap(currentConfig.APIKeys)
	return &configCopy
}

// APIKey returns the API key configured for provider.
func (c *AppConfig) APIKey(provider string) string {
	if provider == "gemini" {
		provider = "google"
	}
	return c.APIKeys[provider]
}

// Model returns the configured model name.
func (c *AppConfig) Model() string {
	if m := c.LLMConfig["default_model"]; m != "" {
		return m
	}
	return DefaultLLMModel
}

func copyMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// UpdateLLMConfig switches the generator provider and saves the config.
func UpdateLLMConfig(provider string, llmConfig map[string]string) error {
	configMutex.Lock()
	defer configMutex.Unlock()

	if currentConfig == nil {
		return fmt.Errorf("config not initialized")
	}

	currentConfig.LLMProvider = provider
	currentConfig.LLMConfig = copyMap(llmConfig)

	return saveLocked()
}

func saveLocked() error {
	if currentConfig == nil {
		return fmt.Errorf("no config to save")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(currentConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configFile, data, 0644)
}
