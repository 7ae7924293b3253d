package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashUserKey derives the storage namespace for a user's files. Raw user IDs
// never appear in storage keys.
func HashUserKey(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:])
}
