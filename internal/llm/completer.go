package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Completer sends a prompt to the configured backend, retrying timeouts and rate limits.
type Completer struct {
	backend Backend
	cfg     Config
	logger  *zap.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewCompleter validates cfg and builds the backend for its provider.
// Missing endpoint, model or credential fail here with a *ConfigError, before any network call.
func NewCompleter(ctx context.Context, cfg *Config, logger *zap.Logger) (*Completer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var backend Backend
	switch cfg.Provider {
	case ProviderGemini:
		gemini, err := NewGeminiBackend(ctx, cfg.APIKey)
		if err != nil {
			return nil, err
		}
		backend = gemini
	default:
		backend = NewChatBackend(cfg.Endpoint, cfg.APIKey, &http.Client{})
	}

	return NewCompleterWithBackend(cfg, backend, logger)
}

// NewCompleterWithBackend wraps an existing backend in the retry loop.
func NewCompleterWithBackend(cfg *Config, backend Backend, logger *zap.Logger) (*Completer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if backend == nil {
		return nil, &ConfigError{Field: "Backend", Message: "missing completion backend"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Completer{
		backend: backend,
		cfg:     *cfg,
		logger:  logger.With(zap.String("provider", string(cfg.Provider)), zap.String("model", cfg.Model)),
		sleep:   sleepContext,
	}, nil
}

// Invoke returns the raw completion text for prompt.
// Errors are *CompletionError; after exhausting attempts the last timeout or rate-limit error is returned.
func (c *Completer) Invoke(ctx context.Context, prompt string) (string, error) {
	policy := retryPolicy{maxAttempts: c.cfg.MaxAttempts, baseDelay: c.cfg.BaseDelay}
	state := retryState{phase: phaseAttempting, attempt: 1}

	for {
		switch state.phase {
		case phaseAttempting:
			start := time.Now()
			result, err := c.attempt(ctx, prompt)
			if err != nil && ctx.Err() != nil {
				return "", cancelled(ctx, err)
			}
			state = policy.afterAttempt(state, result, err)
			c.logger.Debug("completion attempt finished",
				zap.Int("attempt", state.attempt),
				zap.Stringer("next", state.phase),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err))

		case phaseBackoff:
			c.logger.Warn("completion attempt failed, retrying",
				zap.Int("attempt", state.attempt),
				zap.Int("max_attempts", policy.maxAttempts),
				zap.Duration("backoff", state.delay),
				zap.String("kind", string(KindOf(state.err))))
			if err := c.sleep(ctx, state.delay); err != nil {
				return "", cancelled(ctx, state.err)
			}
			state = state.afterBackoff()

		case phaseDone:
			return state.result, nil

		default:
			return "", state.err
		}
	}
}

// attempt runs one backend call under its own hard timeout.
func (c *Completer) attempt(ctx context.Context, prompt string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	result, err := c.backend.Complete(attemptCtx, &CompletionRequest{
		Prompt:      prompt,
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err == nil {
		return result, nil
	}

	var ce *CompletionError
	if errors.As(err, &ce) {
		return "", err
	}
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return "", &CompletionError{Kind: KindTimeout, Message: "request timed out", Cause: err}
	}
	return "", &CompletionError{Kind: KindUnknown, Message: "completion failed", Cause: err}
}

// Close releases backend resources.
func (c *Completer) Close() error {
	return c.backend.Close()
}

// cancelled reports a caller-side stop. A caller deadline is a timeout; an abort is not retried or reclassified.
func cancelled(ctx context.Context, last error) error {
	kind := KindUnknown
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &CompletionError{Kind: kind, Message: "request cancelled by caller", Cause: errors.Join(ctx.Err(), last)}
}
