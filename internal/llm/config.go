// Package llm calls text-completion services and retries the failures worth retrying.
package llm

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderChat is any OpenAI-compatible chat-completions endpoint
	ProviderChat Provider = "chat"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Defaults for a completion call.
const (
	DefaultMaxTokens      = 500
	DefaultTemperature    = 0.7
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxAttempts    = 3
	DefaultBaseDelay      = 500 * time.Millisecond
)

// Config holds everything needed to reach a completion service.
type Config struct {
	Provider       Provider      `json:"provider" validate:"required,oneof=chat gemini"`
	Endpoint       string        `json:"endpoint" validate:"omitempty,url"`
	Model          string        `json:"model" validate:"required"`
	APIKey         string        `json:"-" validate:"required"`
	MaxTokens      int           `json:"max_tokens" validate:"gt=0"`
	Temperature    float64       `json:"temperature" validate:"gte=0,lte=2"`
	RequestTimeout time.Duration `json:"request_timeout" validate:"gt=0"`
	MaxAttempts    int           `json:"max_attempts" validate:"gte=1,lte=10"`
	BaseDelay      time.Duration `json:"base_delay" validate:"gte=0"`
}

// DefaultConfig returns the call defaults. Endpoint, Model and APIKey have no
// defaults and must be supplied.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderChat,
		MaxTokens:      DefaultMaxTokens,
		Temperature:    DefaultTemperature,
		RequestTimeout: DefaultRequestTimeout,
		MaxAttempts:    DefaultMaxAttempts,
		BaseDelay:      DefaultBaseDelay,
	}
}

// Validate reports the first configuration problem as a *ConfigError.
func (c *Config) Validate() error {
	if c == nil {
		return &ConfigError{Field: "config", Message: "missing completion configuration"}
	}

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ConfigError{
				Field:   fe.Field(),
				Message: fmt.Sprintf("failed %q validation", fe.Tag()),
				Cause:   err,
			}
		}
		return &ConfigError{Field: "config", Message: "invalid completion configuration", Cause: err}
	}

	if c.Provider == ProviderChat && c.Endpoint == "" {
		return &ConfigError{Field: "Endpoint", Message: "required for the chat provider"}
	}
	return nil
}
