package types

// KeySize is the width of every key stored in an Interaction.
const KeySize = 32

// SendKey is the symmetric key used to address one recipient of the send stream.
type SendKey [KeySize]byte

// Slice returns the key as a []byte.
func (k SendKey) Slice() []byte { return k[:] }

// PublicKey is an X25519 public key. It is stored in the clear.
type PublicKey [KeySize]byte

// Slice returns the key as a []byte.
func (p PublicKey) Slice() []byte { return p[:] }

// PrivateKey is an X25519 private key. It never reaches storage unsealed.
type PrivateKey [KeySize]byte

// Slice returns the key as a []byte.
func (k PrivateKey) Slice() []byte { return k[:] }

// SealedPrivateKey is a PrivateKey encrypted at rest. Sealing preserves the
// length so it fits the fixed-width key table entry.
type SealedPrivateKey [KeySize]byte

// Slice returns the key as a []byte.
func (k SealedPrivateKey) Slice() []byte { return k[:] }

// StorageKey encrypts private keys and usernames at rest.
type StorageKey [KeySize]byte

// Slice returns the key as a []byte.
func (k StorageKey) Slice() []byte { return k[:] }

// Recipient is one addressee of the send stream. The key and the encrypted
// username always travel together.
type Recipient struct {
	Key      SendKey
	Username []byte
}

// Window binds a keypair to the half-open position range [Start, End).
type Window struct {
	Start   uint64
	End     uint64
	Public  PublicKey
	Private SealedPrivateKey
}

// Contains reports whether pos falls inside the window.
func (w Window) Contains(pos uint64) bool { return w.Start <= pos && pos < w.End }
