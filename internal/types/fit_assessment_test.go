//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitAssessment_JSONShape(t *testing.T) {
	modelScore := 85
	assessment := FitAssessment{
		Narrative:     "Strong match",
		FitPercentage: 72,
		ModelScore:    &modelScore,
	}

	data, err := json.Marshal(assessment)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "Strong match", decoded["analysis"])
	assert.Equal(t, float64(72), decoded["fitPercentage"])
	assert.Len(t, decoded, 2, "model score must not leak into the response body")
}

func TestJobInput_JSONFieldNames(t *testing.T) {
	var input JobInput
	err := json.Unmarshal([]byte(`{"jobDescriptionUrl":"https://example.com/job","jobDescriptionText":"Go developer"}`), &input)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/job", input.URL)
	assert.Equal(t, "Go developer", input.Text)
}
