// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/formsentry/internal/domain"
)

// AllowedModels is the fixed set of model identifiers the client accepts.
// Construction with any other model fails with domain.ErrInvalidModel
// before a network call can ever be attempted.
var AllowedModels = []string{
	"gpt-4o",
	"gpt-4o-mini",
	"gpt-4-turbo",
	"gpt-3.5-turbo",
}

// IsAllowedModel reports whether model is on the allow-list.
func IsAllowedModel(model string) bool {
	for _, m := range AllowedModels {
		if m == model {
			return true
		}
	}
	return false
}

// Config holds all application configuration.
type Config struct {
	// Server configuration
	Server ServerConfig

	// AI client configuration
	AI AIConfig

	// Form-field processing configuration
	Processing ProcessingConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Port is the HTTP port to listen on.
	Port string

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
}

// AIConfig contains the model identity and call parameters.
type AIConfig struct {
	// APIKey is the bearer credential for the AI provider. When empty the
	// client degrades to unavailable results instead of calling out.
	APIKey string

	// BaseURL is the base URL for the AI API.
	BaseURL string

	// Model is the model identifier, restricted to AllowedModels.
	Model string

	// Timeout bounds both connection establishment and response reading.
	Timeout time.Duration

	// Temperature is the default sampling temperature.
	Temperature float64

	// MaxTokens is the default maximum tokens for the model reply.
	MaxTokens int

	// MockMode enables mock responses for testing without API calls.
	MockMode bool
}

// ProcessingConfig contains form-field processing settings.
type ProcessingConfig struct {
	// MaxFieldSize is the maximum allowed field value size in bytes.
	MaxFieldSize int

	// EnableRules enables rule-based pre-validation.
	EnableRules bool

	// RuleConfidenceThreshold is the minimum confidence to short-circuit
	// the AI call with a rule result.
	RuleConfidenceThreshold float64

	// MaxRetries is the number of caller-side retries on transient
	// AI failures. The client itself never retries.
	MaxRetries int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnvOrDefault("PORT", "8080"),
			ReadTimeout:  getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		AI: AIConfig{
			APIKey:      os.Getenv("AI_API_KEY"),
			BaseURL:     getEnvOrDefault("AI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnvOrDefault("AI_MODEL", "gpt-4o-mini"),
			Timeout:     getDurationOrDefault("AI_TIMEOUT", 30*time.Second),
			Temperature: getFloatOrDefault("AI_TEMPERATURE", domain.DefaultTemperature),
			MaxTokens:   getIntOrDefault("AI_MAX_TOKENS", domain.DefaultMaxTokens),
			MockMode:    getBoolOrDefault("AI_MOCK_MODE", false),
		},
		Processing: ProcessingConfig{
			MaxFieldSize:            getIntOrDefault("MAX_FIELD_SIZE", 10000),
			EnableRules:             getBoolOrDefault("ENABLE_RULES", true),
			RuleConfidenceThreshold: getFloatOrDefault("RULE_CONFIDENCE_THRESHOLD", 0.8),
			MaxRetries:              getIntOrDefault("AI_MAX_RETRIES", 2),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !IsAllowedModel(c.AI.Model) {
		return fmt.Errorf("%w: %q is not one of %v", domain.ErrInvalidModel, c.AI.Model, AllowedModels)
	}

	if c.AI.Timeout < time.Second {
		return fmt.Errorf("%w: AI_TIMEOUT must be at least 1 second", domain.ErrInvalidConfig)
	}

	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("%w: AI_TEMPERATURE must be between 0 and 2", domain.ErrInvalidConfig)
	}

	if c.AI.MaxTokens < 100 {
		return fmt.Errorf("%w: AI_MAX_TOKENS must be at least 100", domain.ErrInvalidConfig)
	}

	if c.Processing.MaxFieldSize < 100 {
		return fmt.Errorf("%w: MAX_FIELD_SIZE must be at least 100 bytes", domain.ErrInvalidConfig)
	}

	if c.Processing.RuleConfidenceThreshold < 0 || c.Processing.RuleConfidenceThreshold > 1 {
		return fmt.Errorf("%w: RULE_CONFIDENCE_THRESHOLD must be between 0 and 1", domain.ErrInvalidConfig)
	}

	if c.Processing.MaxRetries < 0 {
		return fmt.Errorf("%w: AI_MAX_RETRIES must not be negative", domain.ErrInvalidConfig)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getFloatOrDefault(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		// Plain integers are seconds (e.g. "15"), otherwise a duration
		// string (e.g. "15s", "1m").
		if secs, err := strconv.Atoi(val); err == nil {
			return time.Duration(secs) * time.Second
		}
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
