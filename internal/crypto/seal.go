package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"e2estore/internal/domain"
	"e2estore/internal/util/memzero"
)

const (
	privateKeyInfo = "e2estore|privkey"
	usernameInfo   = "e2estore|username"
)

// ErrUsernameOpen is returned when a sealed username fails authentication.
var ErrUsernameOpen = errors.New("username does not authenticate under storage key")

// SealPrivateKey encrypts priv for the window starting at start.
func SealPrivateKey(k domain.StorageKey, id domain.InteractionID, start uint64, priv domain.PrivateKey) (domain.SealedPrivateKey, error) {
	var out domain.SealedPrivateKey
	if err := xorPrivateKey(k, id, start, out[:], priv[:]); err != nil {
		return domain.SealedPrivateKey{}, err
	}
	return out, nil
}

// OpenPrivateKey reverses SealPrivateKey. The sealed form carries no tag, so
// a wrong key or start yields a wrong private key rather than an error.
func OpenPrivateKey(k domain.StorageKey, id domain.InteractionID, start uint64, sealed domain.SealedPrivateKey) (domain.PrivateKey, error) {
	var out domain.PrivateKey
	if err := xorPrivateKey(k, id, start, out[:], sealed[:]); err != nil {
		return domain.PrivateKey{}, err
	}
	return out, nil
}

func xorPrivateKey(k domain.StorageKey, id domain.InteractionID, start uint64, dst, src []byte) error {
	info := make([]byte, len(privateKeyInfo)+8)
	copy(info, privateKeyInfo)
	binary.BigEndian.PutUint64(info[len(privateKeyInfo):], start)

	material := make([]byte, chacha20.KeySize+chacha20.NonceSize)
	defer memzero.Zero(material)
	if _, err := io.ReadFull(hkdf.New(sha256.New, k[:], id[:], info), material); err != nil {
		return err
	}
	c, err := chacha20.NewUnauthenticatedCipher(material[:chacha20.KeySize], material[chacha20.KeySize:])
	if err != nil {
		return err
	}
	c.XORKeyStream(dst, src)
	return nil
}

// SealUsername encrypts a recipient display name. The output is the random
// nonce followed by the ciphertext; the interaction id is bound as
// associated data.
func SealUsername(k domain.StorageKey, id domain.InteractionID, name string) ([]byte, error) {
	aead, err := usernameAEAD(k, id)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(name)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, []byte(name), id[:]), nil
}

// OpenUsername reverses SealUsername.
func OpenUsername(k domain.StorageKey, id domain.InteractionID, sealed []byte) (string, error) {
	aead, err := usernameAEAD(k, id)
	if err != nil {
		return "", err
	}
	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return "", ErrUsernameOpen
	}
	pt, err := aead.Open(nil, sealed[:aead.NonceSize()], sealed[aead.NonceSize():], id[:])
	if err != nil {
		return "", ErrUsernameOpen
	}
	return string(pt), nil
}

func usernameAEAD(k domain.StorageKey, id domain.InteractionID) (cipher.AEAD, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	defer memzero.Zero(key)
	if _, err := io.ReadFull(hkdf.New(sha256.New, k[:], id[:], []byte(usernameInfo)), key); err != nil {
		return nil, err
	}
	return chacha20poly1305.NewX(key)
}
