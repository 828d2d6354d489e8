//nolint:revive // types is a standard Go package name pattern
package types

// FitAssessment is the result returned to the caller of an analysis.
// FitPercentage always comes from the deterministic scorer; ModelScore is the
// score the model reported in its own narrative, if any, and is never serialized.
type FitAssessment struct {
	Narrative     string `json:"analysis"`
	FitPercentage int    `json:"fitPercentage"`
	ModelScore    *int   `json:"-"`
}
