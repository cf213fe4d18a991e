package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// Session token format: nsk_<secret>
// Example: nsk_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b4f8d2e1b
// The prefix makes leaked tokens easy to grep for in logs and secret scanners.
const tokenSecretLen = 40 // hex encoded 20 bytes

// ErrInvalidTokenFormat indicates the token does not look like a session token.
var ErrInvalidTokenFormat = errors.New("invalid session token format")

var tokenFormatRegex = regexp.MustCompile(`^nsk_[a-f0-9]{40}$`)

// GenerateToken creates a new opaque session token.
func GenerateToken() (string, error) {
	secret := make([]byte, tokenSecretLen/2)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return "nsk_" + hex.EncodeToString(secret), nil
}

// ValidateTokenFormat checks if the token matches the expected shape.
// Format validation happens before any store lookup so malformed input
// never reaches the session backend.
func ValidateTokenFormat(token string) bool {
	return tokenFormatRegex.MatchString(token)
}
