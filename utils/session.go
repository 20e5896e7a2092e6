package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
)

// GenerateSessionToken -> credential sesi meja: 16 byte random, hex-encoded.
func GenerateSessionToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// SecureCompare membandingkan token tanpa membocorkan timing.
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
