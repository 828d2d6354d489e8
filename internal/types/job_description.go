//nolint:revive // types is a standard Go package name pattern
package types

// JobSource identifies where a job description came from.
type JobSource string

const (
	// JobSourceURL is a description scraped from a job-listing page
	JobSourceURL JobSource = "url"
	// JobSourceInline is a description supplied directly by the caller
	JobSourceInline JobSource = "inline"
	// JobSourceDefault is the built-in fallback description
	JobSourceDefault JobSource = "default"
)

// JobInput holds the optional job-description fields of an analysis request.
type JobInput struct {
	URL  string `json:"jobDescriptionUrl,omitempty"`
	Text string `json:"jobDescriptionText,omitempty"`
}

// JobDescription is a resolved, sanitized job description with its provenance.
type JobDescription struct {
	Source   JobSource `json:"source"`
	Text     string    `json:"text"`
	URL      string    `json:"url,omitempty"`
	Platform string    `json:"platform,omitempty"`
	Hash     string    `json:"hash"` // SHA256 hex digest of Text
}
