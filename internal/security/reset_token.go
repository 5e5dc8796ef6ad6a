package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// NewResetToken returns a random token for the reset URL and the hash that is
// stored in its place.
func NewResetToken() (raw string, hashed string, err error) {
	b := make([]byte, 20)

	if _, err = rand.Read(b); err != nil {
		return "", "", err
	}

	raw = hex.EncodeToString(b)

	return raw, HashResetToken(raw), nil
}

// HashResetToken is the one-way function applied both when a reset token is
// issued and when it is presented.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
