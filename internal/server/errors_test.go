package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/cv-fit-analyzer/internal/document"
	"github.com/jonathan/cv-fit-analyzer/internal/ingestion"
	"github.com/jonathan/cv-fit-analyzer/internal/llm"
	"github.com/stretchr/testify/assert"
)

func TestUploadError(t *testing.T) {
	err := &UploadError{Field: "cv", Message: "Only PDF files are allowed"}
	assert.Equal(t, "upload cv: Only PDF files are allowed", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))

	wrapped := &UploadError{Field: "cv", Message: "bad", Cause: assert.AnError}
	assert.ErrorIs(t, wrapped, assert.AnError)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "UploadError",
			err:      &UploadError{Field: "cv", Message: "missing"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "JobDescriptionTooShortError",
			err:      &ingestion.JobDescriptionTooShortError{Length: 3, Min: 10},
			expected: http.StatusBadRequest,
		},
		{
			name:     "EmptyContentError",
			err:      &document.EmptyContentError{PageCount: 1},
			expected: http.StatusBadRequest,
		},
		{
			name:     "Unparseable document",
			err:      &document.ExtractionError{Kind: document.KindUnparseable, Message: "not a PDF"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "Unreadable document",
			err:      &document.ExtractionError{Kind: document.KindUnreadable, Message: "read failed"},
			expected: http.StatusInternalServerError,
		},
		{
			name:     "Completion timeout",
			err:      &llm.CompletionError{Kind: llm.KindTimeout},
			expected: http.StatusBadGateway,
		},
		{
			name:     "Completion rate limited",
			err:      &llm.CompletionError{Kind: llm.KindRateLimited, StatusCode: 429},
			expected: http.StatusBadGateway,
		},
		{
			name:     "Completion server error",
			err:      &llm.CompletionError{Kind: llm.KindServerError, StatusCode: 503},
			expected: http.StatusBadGateway,
		},
		{
			name:     "Completion unknown",
			err:      &llm.CompletionError{Kind: llm.KindUnknown},
			expected: http.StatusBadGateway,
		},
		{
			name:     "Completion unauthorized",
			err:      &llm.CompletionError{Kind: llm.KindUnauthorized, StatusCode: 401},
			expected: http.StatusInternalServerError,
		},
		{
			name:     "ConfigError",
			err:      &llm.ConfigError{Field: "APIKey", Message: "required"},
			expected: http.StatusInternalServerError,
		},
		{
			name:     "Wrapped completion error",
			err:      fmt.Errorf("analyze: %w", &llm.CompletionError{Kind: llm.KindServerError}),
			expected: http.StatusBadGateway,
		},
		{
			name:     "Unknown error",
			err:      assert.AnError,
			expected: http.StatusInternalServerError,
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestErrorTitle(t *testing.T) {
	assert.Equal(t, "No file uploaded", errorTitle(&UploadError{Field: "cv", Message: "No file uploaded"}))
	assert.Equal(t, "Job description too short", errorTitle(&ingestion.JobDescriptionTooShortError{Length: 2, Min: 10}))
	assert.Equal(t, "No text content found in CV", errorTitle(&document.EmptyContentError{}))
	assert.Equal(t, "CV is not a readable PDF", errorTitle(&document.ExtractionError{Kind: document.KindUnparseable}))
	assert.Equal(t, "Processing failed", errorTitle(&document.ExtractionError{Kind: document.KindUnreadable}))
	assert.Equal(t, "Analysis service unavailable", errorTitle(&llm.CompletionError{Kind: llm.KindTimeout}))
	assert.Equal(t, "Processing failed", errorTitle(&llm.CompletionError{Kind: llm.KindUnauthorized}))
	assert.Equal(t, "Processing failed", errorTitle(assert.AnError))
}
