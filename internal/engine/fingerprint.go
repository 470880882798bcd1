package engine

import (
	"crypto/ed25519"
	"crypto/rand"
)

// Fingerprint is the sender's Ed25519 signing key.
type Fingerprint [ed25519.PrivateKeySize]byte

// Verifier is the public half of a Fingerprint.
type Verifier [ed25519.PublicKeySize]byte

// GenerateFingerprint returns a new signing key and its verifier.
func GenerateFingerprint() (fp Fingerprint, v Verifier, err error) {
	pk, sk, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return fp, v, err
	}
	copy(fp[:], sk)
	copy(v[:], pk)
	return fp, v, nil
}

func (fp *Fingerprint) sign(msg []byte) []byte {
	return ed25519.Sign(ed25519.PrivateKey(fp[:]), msg)
}

func (v *Verifier) verify(msg, sig []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(v[:]), msg, sig)
}
