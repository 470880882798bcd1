package interfaces

import domaintypes "e2estore/internal/domain/types"

// InteractionStore is the storage medium for encoded Interactions.
// ReplaceInteraction must either store b completely or leave the previous
// value intact.
type InteractionStore interface {
	LoadInteraction(id domaintypes.InteractionID) ([]byte, bool, error)
	ReplaceInteraction(id domaintypes.InteractionID, b []byte) error
	ListInteractions() ([]domaintypes.InteractionID, error)
}

// StorageKeyStore keeps the at-rest storage key under a passphrase.
type StorageKeyStore interface {
	SaveStorageKey(passphrase string, key domaintypes.StorageKey) error
	LoadStorageKey(passphrase string) (domaintypes.StorageKey, bool, error)
}
