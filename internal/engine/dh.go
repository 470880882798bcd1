package engine

import (
	"crypto/rand"

	"golang.org/x/crypto/curve25519"

	"e2estore/internal/domain"
)

// GenerateDHKeys returns a fresh X25519 key pair for one key window.
func GenerateDHKeys() (domain.PrivateKey, domain.PublicKey, error) {
	var priv domain.PrivateKey
	if _, err := rand.Read(priv[:]); err != nil {
		return domain.PrivateKey{}, domain.PublicKey{}, err
	}
	// RFC 7748 clamping.
	priv[0] &= 248
	priv[31] = priv[31]&127 | 64

	pub, err := PublicKeyOf(priv)
	if err != nil {
		return domain.PrivateKey{}, domain.PublicKey{}, err
	}
	return priv, pub, nil
}

// PublicKeyOf derives the public half of priv.
func PublicKeyOf(priv domain.PrivateKey) (domain.PublicKey, error) {
	out, err := x25519(priv, curve25519.Basepoint)
	return domain.PublicKey(out), err
}

// DH returns the X25519 shared secret of priv and a peer's pub. Low-order
// peer keys are rejected.
func DH(priv domain.PrivateKey, pub domain.PublicKey) ([32]byte, error) {
	return x25519(priv, pub[:])
}

func x25519(priv domain.PrivateKey, point []byte) (out [32]byte, err error) {
	b, err := curve25519.X25519(priv[:], point)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}
