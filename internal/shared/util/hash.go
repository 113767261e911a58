package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashKey returns a stable hex identifier for the given parts, safe for file paths and
// cache keys. Parts are joined with "|" before hashing.
func HashKey(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
