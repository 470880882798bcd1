package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"e2estore/internal/domain"
)

const fingerprintGroups = 5

// Fingerprint names a window public key for humans: five colon-separated
// groups of four hex digits taken from a domain-separated SHA-256.
func Fingerprint(pub domain.PublicKey) string {
	h := sha256.New()
	h.Write([]byte("e2estore|window"))
	h.Write(pub[:])
	sum := h.Sum(nil)

	groups := make([]string, fingerprintGroups)
	for i := range groups {
		groups[i] = hex.EncodeToString(sum[2*i : 2*i+2])
	}
	return strings.Join(groups, ":")
}
