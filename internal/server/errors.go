package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/cv-fit-analyzer/internal/document"
	"github.com/jonathan/cv-fit-analyzer/internal/ingestion"
	"github.com/jonathan/cv-fit-analyzer/internal/llm"
)

// UploadError indicates a missing or unacceptable file in the upload request
type UploadError struct {
	Field   string
	Message string
	Cause   error
}

func (e *UploadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upload %s: %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("upload %s: %s", e.Field, e.Message)
}

func (e *UploadError) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		uploadErr     *UploadError
		tooShortErr   *ingestion.JobDescriptionTooShortError
		emptyErr      *document.EmptyContentError
		extractionErr *document.ExtractionError
		configErr     *llm.ConfigError
		completionErr *llm.CompletionError
	)

	switch {
	case errors.As(err, &uploadErr), errors.As(err, &tooShortErr), errors.As(err, &emptyErr):
		return http.StatusBadRequest
	case errors.As(err, &extractionErr):
		if extractionErr.Kind == document.KindUnparseable {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	case errors.As(err, &configErr):
		return http.StatusInternalServerError
	case errors.As(err, &completionErr):
		if completionErr.Kind == llm.KindUnauthorized {
			return http.StatusInternalServerError
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorTitle is the short, caller-facing summary placed in the "error" field.
func errorTitle(err error) string {
	var (
		uploadErr     *UploadError
		tooShortErr   *ingestion.JobDescriptionTooShortError
		emptyErr      *document.EmptyContentError
		extractionErr *document.ExtractionError
	)

	switch {
	case errors.As(err, &uploadErr):
		return uploadErr.Message
	case errors.As(err, &tooShortErr):
		return "Job description too short"
	case errors.As(err, &emptyErr):
		return "No text content found in CV"
	case errors.As(err, &extractionErr) && extractionErr.Kind == document.KindUnparseable:
		return "CV is not a readable PDF"
	}

	if HTTPStatus(err) == http.StatusBadGateway {
		return "Analysis service unavailable"
	}
	return "Processing failed"
}
