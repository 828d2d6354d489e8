// Package config provides configuration loading and validation for the service and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/cv-fit-analyzer/internal/fetch"
	"github.com/jonathan/cv-fit-analyzer/internal/ingestion"
	"github.com/jonathan/cv-fit-analyzer/internal/llm"
	"github.com/jonathan/cv-fit-analyzer/internal/logger"
)

// Defaults for settings that are not part of the completion client.
const (
	DefaultPort           = 3000
	DefaultUploadDir      = "uploads"
	DefaultMaxUploadBytes = 5_000_000
	DefaultScrapeTimeout  = 10 * time.Second
	DefaultMaxRedirects   = 5
)

// Config represents the service configuration. It is read from the environment
// and may be overridden by a JSON file; zero values mean "not set".
type Config struct {
	// Completion service
	Provider    string   `json:"provider,omitempty" validate:"oneof=chat gemini"`
	Endpoint    string   `json:"endpoint,omitempty" validate:"omitempty,url"`
	Model       string   `json:"model,omitempty" validate:"required"`
	APIKey      string   `json:"api_key,omitempty" validate:"required"`
	MaxTokens   int      `json:"max_tokens,omitempty" validate:"gt=0"`
	Temperature float64  `json:"temperature,omitempty" validate:"gte=0,lte=2"`
	Timeout     Duration `json:"timeout,omitempty" validate:"gt=0"`
	MaxAttempts int      `json:"max_attempts,omitempty" validate:"gte=1,lte=10"`
	BaseDelay   Duration `json:"base_delay,omitempty" validate:"gte=0"`

	// HTTP server
	Port           int    `json:"port,omitempty" validate:"gte=1,lte=65535"`
	UploadDir      string `json:"upload_dir,omitempty" validate:"required"`
	MaxUploadBytes int64  `json:"max_upload_bytes,omitempty" validate:"gt=0"`

	// Job page scraping
	ScrapeTimeout      Duration `json:"scrape_timeout,omitempty" validate:"gt=0"`
	ScrapeMaxRedirects int      `json:"scrape_max_redirects,omitempty" validate:"gte=0"`
	ScrapeUserAgent    string   `json:"scrape_user_agent,omitempty"`
	UseBrowser         bool     `json:"use_browser,omitempty"` // Use headless browser for SPA job pages

	// Logging
	LogFormat string `json:"log_format,omitempty" validate:"oneof=json console"`
	LogDebug  bool   `json:"log_debug,omitempty"`
}

// Duration is a time.Duration that reads "30s"-style strings or nanosecond integers from JSON.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(v)
		return nil
	}

	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	*d = Duration(n)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Default returns the built-in configuration. The completion endpoint, model
// and credential have no defaults and must come from the environment or a file.
func Default() Config {
	return Config{
		Provider:           string(llm.ProviderChat),
		MaxTokens:          llm.DefaultMaxTokens,
		Temperature:        llm.DefaultTemperature,
		Timeout:            Duration(llm.DefaultRequestTimeout),
		MaxAttempts:        llm.DefaultMaxAttempts,
		BaseDelay:          Duration(llm.DefaultBaseDelay),
		Port:               DefaultPort,
		UploadDir:          DefaultUploadDir,
		MaxUploadBytes:     DefaultMaxUploadBytes,
		ScrapeTimeout:      Duration(DefaultScrapeTimeout),
		ScrapeMaxRedirects: DefaultMaxRedirects,
		ScrapeUserAgent:    fetch.DefaultUserAgent,
		LogFormat:          string(logger.FormatJSON),
	}
}

// FromEnv reads the configuration from the process environment.
func FromEnv() (*Config, error) {
	return FromEnvFunc(os.Getenv)
}

// FromEnvFunc reads the configuration through getenv, starting from Default.
// COMPLETION_* variables win over the older FORE_FRONT_* names.
func FromEnvFunc(getenv func(string) string) (*Config, error) {
	cfg := Default()
	env := envReader{getenv: getenv}

	cfg.Provider = env.string(cfg.Provider, "COMPLETION_PROVIDER")
	cfg.Endpoint = env.string(cfg.Endpoint, "COMPLETION_ENDPOINT", "FORE_FRONT_BASE_URL")
	cfg.Model = env.string("", "COMPLETION_MODEL", "FORE_FRONT_MODEL")
	cfg.APIKey = env.string("", "COMPLETION_API_KEY", "FORE_FRONT_API_KEY")
	cfg.MaxTokens = env.int("COMPLETION_MAX_TOKENS", cfg.MaxTokens)
	cfg.Temperature = env.float("COMPLETION_TEMPERATURE", cfg.Temperature)
	cfg.Timeout = env.duration("COMPLETION_TIMEOUT", cfg.Timeout)
	cfg.MaxAttempts = env.int("COMPLETION_MAX_ATTEMPTS", cfg.MaxAttempts)
	cfg.BaseDelay = env.duration("COMPLETION_BASE_DELAY", cfg.BaseDelay)

	cfg.Port = env.int("PORT", cfg.Port)
	cfg.UploadDir = env.string(cfg.UploadDir, "UPLOAD_DIR")
	cfg.MaxUploadBytes = int64(env.int("MAX_UPLOAD_BYTES", int(cfg.MaxUploadBytes)))

	cfg.ScrapeTimeout = env.duration("SCRAPE_TIMEOUT", cfg.ScrapeTimeout)
	cfg.ScrapeMaxRedirects = env.int("SCRAPE_MAX_REDIRECTS", cfg.ScrapeMaxRedirects)
	cfg.ScrapeUserAgent = env.string(cfg.ScrapeUserAgent, "SCRAPE_USER_AGENT")
	cfg.UseBrowser = env.bool("SCRAPE_USE_BROWSER", cfg.UseBrowser)

	cfg.LogFormat = strings.ToLower(env.string(cfg.LogFormat, "LOG_FORMAT"))
	cfg.LogDebug = env.bool("LOG_DEBUG", cfg.LogDebug)

	if len(env.errs) > 0 {
		return nil, fmt.Errorf("config error: %s", strings.Join(env.errs, "; "))
	}
	return &cfg, nil
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config error: '%s' failed %q validation", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if err := c.Completion().Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
// Values already present in c win.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	mergeString(&result.Provider, defaults.Provider)
	mergeString(&result.Endpoint, defaults.Endpoint)
	mergeString(&result.Model, defaults.Model)
	mergeString(&result.APIKey, defaults.APIKey)
	mergeString(&result.UploadDir, defaults.UploadDir)
	mergeString(&result.ScrapeUserAgent, defaults.ScrapeUserAgent)
	mergeString(&result.LogFormat, defaults.LogFormat)

	// Numeric fields: use default if zero
	if result.MaxTokens == 0 {
		result.MaxTokens = defaults.MaxTokens
	}
	if result.Temperature == 0 {
		result.Temperature = defaults.Temperature
	}
	if result.Timeout == 0 {
		result.Timeout = defaults.Timeout
	}
	if result.MaxAttempts == 0 {
		result.MaxAttempts = defaults.MaxAttempts
	}
	if result.BaseDelay == 0 {
		result.BaseDelay = defaults.BaseDelay
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if result.ScrapeTimeout == 0 {
		result.ScrapeTimeout = defaults.ScrapeTimeout
	}
	if result.ScrapeMaxRedirects == 0 {
		result.ScrapeMaxRedirects = defaults.ScrapeMaxRedirects
	}

	// Bool fields: a file cannot say "false", so true on either side wins
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser
	result.LogDebug = result.LogDebug || defaults.LogDebug

	return result
}

// Completion returns the completion client configuration.
func (c *Config) Completion() *llm.Config {
	return &llm.Config{
		Provider:       llm.Provider(c.Provider),
		Endpoint:       c.Endpoint,
		Model:          c.Model,
		APIKey:         c.APIKey,
		MaxTokens:      c.MaxTokens,
		Temperature:    c.Temperature,
		RequestTimeout: time.Duration(c.Timeout),
		MaxAttempts:    c.MaxAttempts,
		BaseDelay:      time.Duration(c.BaseDelay),
	}
}

// Resolver returns the job description resolver options.
func (c *Config) Resolver() ingestion.ResolverOptions {
	opts := fetch.DefaultOptions()
	opts.Timeout = time.Duration(c.ScrapeTimeout)
	opts.MaxRedirects = c.ScrapeMaxRedirects
	if c.ScrapeUserAgent != "" {
		opts.UserAgent = c.ScrapeUserAgent
	}

	return ingestion.ResolverOptions{
		Fetch:      opts,
		UseBrowser: c.UseBrowser,
	}
}

// RetryBudget is the longest a single completion can take across all attempts.
func (c *Config) RetryBudget() time.Duration {
	budget := time.Duration(c.MaxAttempts) * time.Duration(c.Timeout)
	delay := time.Duration(c.BaseDelay)
	for i := 1; i < c.MaxAttempts; i++ {
		budget += delay
		delay *= 2
	}
	return budget
}

func mergeString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

// envReader reads typed values and collects parse errors.
type envReader struct {
	getenv func(string) string
	errs   []string
}

// string returns the first non-empty variable among keys, or def.
func (e *envReader) string(def string, keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(e.getenv(key)); v != "" {
			return v
		}
	}
	return def
}

func (e *envReader) int(key string, def int) int {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Sprintf("invalid %s %q", key, v))
		return def
	}
	return n
}

func (e *envReader) float(key string, def float64) float64 {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Sprintf("invalid %s %q", key, v))
		return def
	}
	return f
}

func (e *envReader) bool(key string, def bool) bool {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Sprintf("invalid %s %q", key, v))
		return def
	}
	return b
}

func (e *envReader) duration(key string, def Duration) Duration {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Sprintf("invalid %s %q", key, v))
		return def
	}
	return Duration(d)
}
