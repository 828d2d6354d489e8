package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okBody = `{"id":"1","choices":[{"index":0,"message":{"role":"assistant","content":"Summary: Strong Fit"}}]}`

func TestChatBackend_RequestShape(t *testing.T) {
	var got chatRequest
	var auth, contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		contentType = r.Header.Get("Content-Type")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(okBody))
	}))
	defer server.Close()

	backend := NewChatBackend(server.URL, "secret", nil)
	text, err := backend.Complete(context.Background(), &CompletionRequest{
		Prompt:      "Analyze this CV",
		Model:       "test-model",
		MaxTokens:   500,
		Temperature: 0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, "Summary: Strong Fit", text)

	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "application/json", contentType)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "Analyze this CV", got.Messages[0].Content)
	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, 500, got.MaxTokens)
	assert.Equal(t, 0.7, got.Temperature)
}

func TestChatBackend_StatusClassification(t *testing.T) {
	tests := []struct {
		status int
		body   string
		kind   Kind
	}{
		{http.StatusUnauthorized, `{"error":{"message":"invalid api key"}}`, KindUnauthorized},
		{http.StatusForbidden, ``, KindUnauthorized},
		{http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, KindRateLimited},
		{http.StatusInternalServerError, `oops`, KindServerError},
		{http.StatusBadGateway, ``, KindServerError},
		{http.StatusBadRequest, `{"error":{"message":"bad model"}}`, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewChatBackend(server.URL, "k", nil).Complete(context.Background(), &CompletionRequest{Prompt: "p"})

			var ce *CompletionError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.kind, ce.Kind)
			assert.Equal(t, tt.status, ce.StatusCode)
		})
	}
}

func TestChatBackend_ErrorMessageFromBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer server.Close()

	_, err := NewChatBackend(server.URL, "k", nil).Complete(context.Background(), &CompletionRequest{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestChatBackend_MalformedResponses(t *testing.T) {
	bodies := map[string]string{
		"not json":      `<html>gateway</html>`,
		"no choices":    `{"choices":[]}`,
		"empty content": `{"choices":[{"message":{"role":"assistant","content":""}}]}`,
		"wrong shape":   `{"result":"text"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			_, err := NewChatBackend(server.URL, "k", nil).Complete(context.Background(), &CompletionRequest{Prompt: "p"})
			assert.Equal(t, KindUnknown, KindOf(err))
		})
	}
}

func TestChatBackend_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewChatBackend(server.URL, "k", nil).Complete(ctx, &CompletionRequest{Prompt: "p"})
	assert.Equal(t, KindTimeout, KindOf(err))
}
