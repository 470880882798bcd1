package engine

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"e2estore/internal/domain"
	"e2estore/internal/util/memzero"
)

const componentsVersion = 1

var (
	// ErrNoRecipients is returned by Encrypt when there is nobody to wrap the
	// content key for.
	ErrNoRecipients = errors.New("no recipients")
	// ErrNotForUs is returned when no wrapped key opens with the given keys.
	ErrNotForUs = errors.New("message has no key for this recipient")
	// ErrBadSignature is returned when components fail verification.
	ErrBadSignature = errors.New("signature does not verify")
	// ErrCorrupt is returned when the content does not authenticate.
	ErrCorrupt = errors.New("corrupted content")
)

// ContentKey encrypts the body of one message.
type ContentKey [chacha20poly1305.KeySize]byte

// Recipient is one destination of Encrypt. KEM is nil for DH-only delivery.
type Recipient struct {
	DH  domain.PublicKey
	KEM *KEMPublicKey
}

// DecryptKeys are the secrets of one recipient. KEM is nil for DH-only
// delivery.
type DecryptKeys struct {
	DH  domain.PrivateKey
	KEM *KEMSecretKey
}

// Encrypt seals plaintext under a fresh content key and wraps that key for
// every recipient. sender is the sender's DH private key; fp, when non-nil,
// signs the result.
func Encrypt(fp *Fingerprint, sender domain.PrivateKey, plaintext []byte, recipients []Recipient) (*Components, ContentKey, error) {
	var ck ContentKey
	if len(recipients) == 0 {
		return nil, ck, ErrNoRecipients
	}
	if _, err := rand.Read(ck[:]); err != nil {
		return nil, ck, err
	}
	senderPub, err := PublicKeyOf(sender)
	if err != nil {
		return nil, ck, err
	}

	c := &Components{
		Version: componentsVersion,
		Sender:  senderPub,
		Keys:    make([]WrappedKey, len(recipients)),
	}
	for i, r := range recipients {
		dh, err := DH(sender, r.DH)
		if err != nil {
			return nil, ck, fmt.Errorf("recipient %d: %w", i, err)
		}
		var kemShared *[32]byte
		if r.KEM != nil {
			if c.Keys[i].KEMCiphertext, kemShared, err = encapsulate(r.KEM); err != nil {
				return nil, ck, fmt.Errorf("recipient %d: encapsulate: %w", i, err)
			}
		}
		wk, err := wrapKey(dh, kemShared, senderPub, r.DH)
		if err != nil {
			return nil, ck, err
		}
		c.Keys[i].Sealed = seal(wk, ck[:], nil)
		memzero.Zero(wk[:])
		memzero.Zero(dh[:])
	}
	c.Ciphertext = seal(ck, plaintext, senderPub[:])

	if fp != nil {
		msg, err := c.signedBytes()
		if err != nil {
			return nil, ck, err
		}
		c.Signature = fp.sign(msg)
	}
	return c, ck, nil
}

// Decrypt finds the wrapped key addressed to keys, opens it and decrypts the
// content. When v is non-nil the signature must verify first.
func Decrypt(v *Verifier, c *Components, keys DecryptKeys) ([]byte, ContentKey, error) {
	var ck ContentKey
	if c.Version != componentsVersion {
		return nil, ck, fmt.Errorf("unsupported components version %d", c.Version)
	}
	if v != nil {
		msg, err := c.signedBytes()
		if err != nil {
			return nil, ck, err
		}
		if !v.verify(msg, c.Signature) {
			return nil, ck, ErrBadSignature
		}
	}

	myPub, err := PublicKeyOf(keys.DH)
	if err != nil {
		return nil, ck, err
	}
	dh, err := DH(keys.DH, c.Sender)
	if err != nil {
		return nil, ck, err
	}
	defer memzero.Zero(dh[:])

	found := false
	for _, k := range c.Keys {
		hybrid := len(k.KEMCiphertext) > 0
		if hybrid != (keys.KEM != nil) {
			continue
		}
		var kemShared *[32]byte
		if hybrid {
			var ok bool
			if kemShared, ok = decapsulate(k.KEMCiphertext, keys.KEM); !ok {
				continue
			}
		}
		wk, err := wrapKey(dh, kemShared, c.Sender, myPub)
		if err != nil {
			return nil, ck, err
		}
		raw, err := open(wk, k.Sealed, nil)
		memzero.Zero(wk[:])
		if err != nil || len(raw) != len(ck) {
			continue
		}
		copy(ck[:], raw)
		memzero.Zero(raw)
		found = true
		break
	}
	if !found {
		return nil, ck, ErrNotForUs
	}

	pt, err := open(ck, c.Ciphertext, c.Sender[:])
	if err != nil {
		return nil, ck, ErrCorrupt
	}
	return pt, ck, nil
}

// wrapKey combines the DH secret with the optional KEM secret. Both public
// keys are mixed in as salt so a key wrapped for one pair never opens for
// another.
func wrapKey(dh [32]byte, kem *[32]byte, sender, recipient domain.PublicKey) (out [chacha20poly1305.KeySize]byte, err error) {
	secret := append([]byte(nil), dh[:]...)
	if kem != nil {
		secret = append(secret, kem[:]...)
	}
	defer memzero.Zero(secret)

	salt := append(append([]byte(nil), sender[:]...), recipient[:]...)
	r := hkdf.New(sha256.New, secret, salt, []byte("e2estore|wrap"))
	if _, err = io.ReadFull(r, out[:]); err != nil {
		return out, err
	}
	return out, nil
}

// seal and open use a zero nonce; every key they see is used once.
func seal(key [chacha20poly1305.KeySize]byte, pt, ad []byte) []byte {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		panic(err)
	}
	var nonce [chacha20poly1305.NonceSize]byte
	return aead.Seal(nil, nonce[:], pt, ad)
}

func open(key [chacha20poly1305.KeySize]byte, ct, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	return aead.Open(nil, nonce[:], ct, ad)
}
