package llm

import "context"

// CompletionRequest is built fresh for every attempt.
type CompletionRequest struct {
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Backend performs a single completion call without retries.
// Failures are reported as *CompletionError so the retry loop can classify them.
type Backend interface {
	Complete(ctx context.Context, req *CompletionRequest) (string, error)
	Close() error
}
