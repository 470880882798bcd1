package engine

import (
	"crypto/rand"

	"github.com/companyzero/sntrup4591761"
)

// KEMPublicKey is an NTRU Prime public key.
type KEMPublicKey [sntrup4591761.PublicKeySize]byte

// KEMSecretKey is an NTRU Prime private key.
type KEMSecretKey [sntrup4591761.PrivateKeySize]byte

// GenerateKEMKeys returns a fresh NTRU Prime key pair.
func GenerateKEMKeys() (*KEMSecretKey, *KEMPublicKey, error) {
	pk, sk, err := sntrup4591761.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	sec, pub := new(KEMSecretKey), new(KEMPublicKey)
	copy(sec[:], sk[:])
	copy(pub[:], pk[:])
	return sec, pub, nil
}

func encapsulate(pub *KEMPublicKey) (ct []byte, shared *[32]byte, err error) {
	pk := new([sntrup4591761.PublicKeySize]byte)
	copy(pk[:], pub[:])
	c, k, err := sntrup4591761.Encapsulate(rand.Reader, pk)
	if err != nil {
		return nil, nil, err
	}
	return c[:], k, nil
}

func decapsulate(ct []byte, sk *KEMSecretKey) (*[32]byte, bool) {
	if len(ct) != sntrup4591761.CiphertextSize {
		return nil, false
	}
	c := new([sntrup4591761.CiphertextSize]byte)
	copy(c[:], ct)
	priv := new([sntrup4591761.PrivateKeySize]byte)
	copy(priv[:], sk[:])
	k, ok := sntrup4591761.Decapsulate(c, priv)
	return k, ok == 1
}
