// Package types provides the request-scoped entities shared by the analysis components.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ExtractedDocument is the plain-text rendition of an uploaded résumé.
// It is produced once per request and never modified afterwards.
type ExtractedDocument struct {
	Text      string            `json:"text"`
	PageCount int               `json:"page_count"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}
