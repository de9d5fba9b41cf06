package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashKey returns a filesystem-safe identifier for s.
func HashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HashParts hashes the parts joined by a separator that cannot occur in UTF-8 text.
func HashParts(parts ...string) string {
	return HashKey(strings.Join(parts, "\xff"))
}
