package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/cv-fit-analyzer/internal/schemas"
)

// maxResponseBytes caps how much of a completion response is read.
const maxResponseBytes = 1 << 20

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type chatErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ChatBackend calls an OpenAI-compatible chat-completions endpoint.
type ChatBackend struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewChatBackend creates a ChatBackend. Timeouts come from the caller's context.
func NewChatBackend(endpoint, apiKey string, httpClient *http.Client) *ChatBackend {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &ChatBackend{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Complete sends one user message and returns choices[0].message.content.
func (b *ChatBackend) Complete(ctx context.Context, req *CompletionRequest) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", &CompletionError{Kind: KindUnknown, Message: "failed to encode request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &CompletionError{Kind: KindUnknown, Message: "failed to create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return "", transportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", transportError(ctx, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &CompletionError{
			Kind:       kindForStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body, resp.Status),
		}
	}

	if err := schemas.ValidateChatCompletion(body); err != nil {
		return "", &CompletionError{
			Kind:       KindUnknown,
			StatusCode: resp.StatusCode,
			Message:    "malformed completion response",
			Cause:      err,
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &CompletionError{Kind: KindUnknown, Message: "failed to decode response", Cause: err}
	}
	return parsed.Choices[0].Message.Content, nil
}

// Close is a no-op; the HTTP client is shared.
func (b *ChatBackend) Close() error {
	return nil
}

// transportError classifies a failure that happened before a status code was read.
func transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &CompletionError{Kind: KindTimeout, Message: "request timed out", Cause: err}
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &CompletionError{Kind: KindTimeout, Message: "request timed out", Cause: err}
	}
	return &CompletionError{Kind: KindUnknown, Message: "request failed", Cause: err}
}

// errorMessage prefers the service's error.message field over the bare status line.
func errorMessage(body []byte, status string) string {
	var parsed chatErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 {
		return fmt.Sprintf("%s: %s", status, text)
	}
	return status
}
