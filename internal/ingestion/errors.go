package ingestion

import "fmt"

// JobDescriptionTooShortError is returned when a caller-supplied job description
// has fewer than MinJobDescriptionLength characters after sanitization.
type JobDescriptionTooShortError struct {
	Length int
	Min    int
}

func (e *JobDescriptionTooShortError) Error() string {
	return fmt.Sprintf("job description too short: %d characters, need at least %d", e.Length, e.Min)
}
