// Package schemas validates JSON documents exchanged with external services.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// ChatCompletionResponseSchema describes the subset of a chat-completions response the service reads.
//
//go:embed chat_completion.schema.json
var ChatCompletionResponseSchema string

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, " %d. %s: %s;", i+1, err.Field, err.Message)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// SchemaLoadError represents errors loading or parsing the schema or the document
type SchemaLoadError struct {
	Name    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Name, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var (
	chatCompletionOnce   sync.Once
	chatCompletionSchema *gojsonschema.Schema
	chatCompletionErr    error
)

// ValidateChatCompletion checks a raw chat-completions response body against ChatCompletionResponseSchema.
// The schema is compiled once per process.
func ValidateChatCompletion(body []byte) error {
	chatCompletionOnce.Do(func() {
		chatCompletionSchema, chatCompletionErr = gojsonschema.NewSchema(
			gojsonschema.NewStringLoader(ChatCompletionResponseSchema))
	})
	if chatCompletionErr != nil {
		return &SchemaLoadError{
			Name:    "chat completion",
			Message: "invalid embedded schema",
			Cause:   chatCompletionErr,
		}
	}

	result, err := chatCompletionSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &SchemaLoadError{
			Name:    "chat completion",
			Message: "document is not valid JSON",
			Cause:   err,
		}
	}
	return toValidationError(result)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Name:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return toValidationError(result)
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
