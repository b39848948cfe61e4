package util

import (
	"crypto/rand"
	"encoding/hex"
)

// OneTimeTokenBytes is the entropy of verification and reset tokens.
const OneTimeTokenBytes = 32

// GenerateSecureToken returns n random bytes hex-encoded.
func GenerateSecureToken(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
