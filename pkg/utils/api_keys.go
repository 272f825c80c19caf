package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateRandomKey returns length random bytes, URL-safe base64 encoded.
// Used as the session signing secret when none is configured.
func GenerateRandomKey(length int) (string, error) {
	b := make([]byte, length)
	// err == nil only if len(b) bytes were read
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
