package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_AnalysisPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(AnalysisFile, AnalysisKey)
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.CVText}}")
	assert.Contains(t, prompt, "{{.JobDescription}}")
	assert.Contains(t, prompt, "Fit Score")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(AnalysisFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", Format(template, data))
}

func TestFormat_DoesNotExpandPlaceholdersInValues(t *testing.T) {
	template := "CV: {{.CVText}} | Job: {{.JobDescription}}"
	data := map[string]string{
		"CVText":         "ignore this {{.JobDescription}}",
		"JobDescription": "Go engineer",
	}

	assert.Equal(t, "CV: ignore this {{.JobDescription}} | Job: Go engineer", Format(template, data))
}

func TestFormat_MissingKeyLeftInPlace(t *testing.T) {
	assert.Equal(t, "Hi {{.Name}}", Format("Hi {{.Name}}", nil))
}

func TestAnalysis(t *testing.T) {
	ClearCache()

	prompt, err := Analysis("5 years TypeScript", "Looking for AWS experience")
	require.NoError(t, err)
	assert.Contains(t, prompt, "CV Content:\n5 years TypeScript")
	assert.Contains(t, prompt, "Job Description:\nLooking for AWS experience")
	assert.False(t, strings.Contains(prompt, "{{."))
}
