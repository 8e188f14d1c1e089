package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID32 returns exactly 32 hex characters, no separators or prefixes.
// Journal entries use it as their public EntryID, and it doubles as a valid
// X-Request-Id for the idempotency layer.
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
