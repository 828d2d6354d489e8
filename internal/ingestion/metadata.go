package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash returns the hex SHA256 digest of content.
// It identifies a job description in logs without printing its text.
func ContentHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
