package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Endpoint = "https://llm.example.com/v1/chat/completions"
	cfg.Model = "test-model"
	cfg.APIKey = "test-key"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ProviderChat, cfg.Provider)
	assert.Empty(t, cfg.Endpoint)
	assert.Empty(t, cfg.Model)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, 500, cfg.MaxTokens)
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.BaseDelay)
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_DefaultsAloneAreRejected(t *testing.T) {
	assert.Error(t, DefaultConfig().Validate())
}

func TestValidate_MissingCredential(t *testing.T) {
	cfg := validConfig()
	cfg.APIKey = ""
	err := cfg.Validate()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "APIKey", cfgErr.Field)
}

func TestValidate_MissingModel(t *testing.T) {
	cfg := validConfig()
	cfg.Model = ""

	var cfgErr *ConfigError
	require.ErrorAs(t, cfg.Validate(), &cfgErr)
	assert.Equal(t, "Model", cfgErr.Field)
}

func TestValidate_ChatRequiresEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Endpoint = ""

	var cfgErr *ConfigError
	require.ErrorAs(t, cfg.Validate(), &cfgErr)
	assert.Equal(t, "Endpoint", cfgErr.Field)
}

func TestValidate_GeminiWithoutEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Provider = ProviderGemini
	cfg.Endpoint = ""
	cfg.Model = "gemini-2.5-flash"

	assert.NoError(t, cfg.Validate())
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown provider", func(c *Config) { c.Provider = "openai" }, "Provider"},
		{"endpoint not a url", func(c *Config) { c.Endpoint = "not a url" }, "Endpoint"},
		{"zero tokens", func(c *Config) { c.MaxTokens = 0 }, "MaxTokens"},
		{"temperature too high", func(c *Config) { c.Temperature = 3 }, "Temperature"},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, "RequestTimeout"},
		{"zero attempts", func(c *Config) { c.MaxAttempts = 0 }, "MaxAttempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			var cfgErr *ConfigError
			require.ErrorAs(t, cfg.Validate(), &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	var cfg *Config
	var cfgErr *ConfigError
	assert.ErrorAs(t, cfg.Validate(), &cfgErr)
}
