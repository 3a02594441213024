package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Size is the length of a fingerprint in hex characters.
const Size = 32

// Generate hashes parts in order into a 32-character hex string.
func Generate(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(strconv.Itoa(len(p))))
		h.Write([]byte{':'})
		h.Write([]byte(p))
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:Size/2])
}

// Validate reports whether fp is the fingerprint of parts.
func Validate(fp string, parts ...string) bool {
	return fp != "" && Generate(parts...) == fp
}
