package utils

import (
	"crypto/rand"
	"fmt"
)

// tokenAlphabet has 32 URL-safe symbols. 256 is a multiple of 32, so taking
// the low five bits of a uniformly random byte picks each symbol uniformly.
const tokenAlphabet = "abcdefghijklmnopqrstuvwxyz234567"

// GenerateToken returns a random string of exactly length characters drawn
// from tokenAlphabet, carrying 5 bits of entropy per character.
func GenerateToken(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", length)
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	for i, b := range buf {
		buf[i] = tokenAlphabet[b&0x1f]
	}
	return string(buf), nil
}
