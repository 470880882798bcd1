package crypto

import (
	"crypto/rand"

	"e2estore/internal/domain"
)

// NewInteractionID returns a random interaction identifier.
func NewInteractionID() (id domain.InteractionID, err error) {
	_, err = rand.Read(id[:])
	return
}

// NewStreamID returns a random stream identifier.
func NewStreamID() (id domain.StreamID, err error) {
	_, err = rand.Read(id[:])
	return
}

// NewSendKey returns a random per-recipient send key.
func NewSendKey() (k domain.SendKey, err error) {
	_, err = rand.Read(k[:])
	return
}

// NewStorageKey returns a random at-rest storage key.
func NewStorageKey() (k domain.StorageKey, err error) {
	_, err = rand.Read(k[:])
	return
}
