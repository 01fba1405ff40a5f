package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// APIKeyPrefix marks every generated API key so stray credentials can be
// recognized in logs and support requests.
const APIKeyPrefix = "ds_"

// GenerateAPIKey returns a new random API key of the form "ds_<48 hex chars>".
// Only the SHA-256 hash of the key is ever stored.
func GenerateAPIKey() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	return APIKeyPrefix + hex.EncodeToString(buf), nil
}

// KeyPrefix returns the displayable first characters of an API key, enough
// for a user to tell keys apart without exposing the secret.
func KeyPrefix(key string) string {
	if len(key) <= 8 {
		return key
	}
	return key[:8]
}

// GenerateShareToken returns an unguessable token for public availability links.
func GenerateShareToken() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
